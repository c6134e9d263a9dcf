package ledger

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyInfo describes one entry of the fixed set of selectable currencies.
// Symbol and Fraction come from the go-money registry.
type CurrencyInfo struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Label    string `json:"label"`
	Fraction int    `json:"fraction"`
}

// The enumerated set of ISO 4217 codes the ledger can be switched to.
var currencyLabels = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"GBP": "British Pound",
	"JPY": "Japanese Yen",
	"BRL": "Brazilian Real",
	"CAD": "Canadian Dollar",
	"AUD": "Australian Dollar",
	"CHF": "Swiss Franc",
	"CNY": "Chinese Yuan",
	"INR": "Indian Rupee",
	"MXN": "Mexican Peso",
	"SEK": "Swedish Krona",
	"NOK": "Norwegian Krone",
	"PLN": "Polish Zloty",
	"TRY": "Turkish Lira",
	"KRW": "South Korean Won",
	"SGD": "Singapore Dollar",
	"ZAR": "South African Rand",
	"AED": "UAE Dirham",
	"SAR": "Saudi Riyal",
	"DZD": "Algerian Dinar",
	"MAD": "Moroccan Dirham",
	"TND": "Tunisian Dinar",
	"EGP": "Egyptian Pound",
}

// IsValidCurrency checks if the code belongs to the selectable currency set.
func IsValidCurrency(code string) bool {
	_, ok := currencyLabels[code]
	return ok
}

// CurrencyByCode returns the registry entry for a code.
func CurrencyByCode(code string) (CurrencyInfo, bool) {
	label, ok := currencyLabels[code]
	if !ok {
		return CurrencyInfo{}, false
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return CurrencyInfo{}, false
	}
	return CurrencyInfo{
		Code:     code,
		Symbol:   cur.Grapheme,
		Label:    label,
		Fraction: cur.Fraction,
	}, true
}

// Formatter renders minor-unit amounts with the grouping and decimal
// conventions of a single display locale. The locale is fixed per formatter
// regardless of which currency is active.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter parses the locale (BCP 47, e.g. "en-US") and returns a
// formatter bound to it.
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid display locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag)}, nil
}

// Format renders amount (minor units) in the given currency, symbol first.
func (f *Formatter) Format(amount int64, code string) (string, error) {
	info, ok := CurrencyByCode(code)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	major := float64(amount) / math.Pow10(info.Fraction)
	rendered := f.printer.Sprintf("%v", number.Decimal(major,
		number.Scale(info.Fraction),
		number.MinFractionDigits(info.Fraction),
	))
	return sign + info.Symbol + rendered, nil
}
