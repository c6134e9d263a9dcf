package ledger

import (
	"errors"
	"testing"
)

func TestIsValidCurrency(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "JPY", "BRL", "DZD"} {
		if !IsValidCurrency(code) {
			t.Errorf("expected %s to be valid", code)
		}
	}
	for _, code := range []string{"", "usd", "XXX", "BTC"} {
		if IsValidCurrency(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}

func TestCurrencyByCode(t *testing.T) {
	info, ok := CurrencyByCode("USD")
	if !ok {
		t.Fatal("expected USD to resolve")
	}
	if info.Symbol != "$" || info.Fraction != 2 {
		t.Errorf("unexpected USD metadata: %+v", info)
	}

	info, ok = CurrencyByCode("JPY")
	if !ok {
		t.Fatal("expected JPY to resolve")
	}
	if info.Fraction != 0 {
		t.Errorf("JPY has no minor units, got fraction %d", info.Fraction)
	}

	if _, ok := CurrencyByCode("XXX"); ok {
		t.Error("expected XXX to be unknown")
	}
}

func TestFormatterFormat(t *testing.T) {
	f, err := NewFormatter("en-US")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	tests := []struct {
		name   string
		amount int64
		code   string
		want   string
	}{
		{name: "Dollars with grouping", amount: 123450, code: "USD", want: "$1,234.50"},
		{name: "Small amount", amount: 5, code: "USD", want: "$0.05"},
		{name: "Zero", amount: 0, code: "USD", want: "$0.00"},
		{name: "Negative", amount: -999, code: "EUR", want: "-€9.99"},
		{name: "No minor units", amount: 500, code: "JPY", want: "¥500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Format(tt.amount, tt.code)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatterUnknownCurrency(t *testing.T) {
	f, err := NewFormatter("en-US")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Format(100, "XXX"); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestNewFormatterRejectsBadLocale(t *testing.T) {
	if _, err := NewFormatter("not a locale"); err == nil {
		t.Error("expected error for invalid locale")
	}
}
