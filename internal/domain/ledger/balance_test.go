package ledger

import (
	"errors"
	"testing"
)

func TestEffect(t *testing.T) {
	tests := []struct {
		name    string
		tx      Transaction
		want    []BalanceDelta
		wantErr bool
	}{
		{
			name: "Income credits the account",
			tx:   Transaction{Type: TransactionIncome, Amount: 10000, AccountID: "acc-1"},
			want: []BalanceDelta{{AccountID: "acc-1", Amount: 10000}},
		},
		{
			name: "Expense debits the account",
			tx:   Transaction{Type: TransactionExpense, Amount: 3000, AccountID: "acc-1"},
			want: []BalanceDelta{{AccountID: "acc-1", Amount: -3000}},
		},
		{
			name: "Savings moves between accounts",
			tx:   Transaction{Type: TransactionSavings, Amount: 2000, AccountID: "acc-1", ToAccountID: "acc-2"},
			want: []BalanceDelta{
				{AccountID: "acc-1", Amount: -2000},
				{AccountID: "acc-2", Amount: 2000},
			},
		},
		{
			name: "Zero amount is allowed",
			tx:   Transaction{Type: TransactionIncome, Amount: 0, AccountID: "acc-1"},
			want: []BalanceDelta{{AccountID: "acc-1", Amount: 0}},
		},
		{
			name:    "Negative amount",
			tx:      Transaction{Type: TransactionIncome, Amount: -100, AccountID: "acc-1"},
			wantErr: true,
		},
		{
			name:    "Savings without destination",
			tx:      Transaction{Type: TransactionSavings, Amount: 2000, AccountID: "acc-1"},
			wantErr: true,
		},
		{
			name:    "Savings destination equals source",
			tx:      Transaction{Type: TransactionSavings, Amount: 2000, AccountID: "acc-1", ToAccountID: "acc-1"},
			wantErr: true,
		},
		{
			name:    "Unknown type",
			tx:      Transaction{Type: "transfer", Amount: 100, AccountID: "acc-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Effect(tt.tx)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidTransaction) {
					t.Errorf("expected ErrInvalidTransaction, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d deltas, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("delta %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestReverseIsExactNegation(t *testing.T) {
	txs := []Transaction{
		{Type: TransactionIncome, Amount: 12345, AccountID: "acc-1"},
		{Type: TransactionExpense, Amount: 999, AccountID: "acc-1"},
		{Type: TransactionSavings, Amount: 500, AccountID: "acc-1", ToAccountID: "acc-2"},
	}

	for _, tx := range txs {
		effect, err := Effect(tx)
		if err != nil {
			t.Fatalf("Effect(%v): %v", tx.Type, err)
		}
		reverse, err := Reverse(tx)
		if err != nil {
			t.Fatalf("Reverse(%v): %v", tx.Type, err)
		}
		if len(effect) != len(reverse) {
			t.Fatalf("%v: delta count mismatch", tx.Type)
		}
		for i := range effect {
			if effect[i].AccountID != reverse[i].AccountID {
				t.Errorf("%v: delta %d account mismatch", tx.Type, i)
			}
			if effect[i].Amount+reverse[i].Amount != 0 {
				t.Errorf("%v: delta %d does not cancel: %d + %d", tx.Type, i, effect[i].Amount, reverse[i].Amount)
			}
		}
	}
}

func TestSavingsConservesTotal(t *testing.T) {
	deltas, err := Effect(Transaction{Type: TransactionSavings, Amount: 7777, AccountID: "a", ToAccountID: "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sum int64
	for _, d := range deltas {
		sum += d.Amount
	}
	if sum != 0 {
		t.Errorf("transfer deltas must sum to zero, got %d", sum)
	}
}

func TestReverseInvalidTransaction(t *testing.T) {
	if _, err := Reverse(Transaction{Type: TransactionSavings, Amount: 100, AccountID: "a"}); !errors.Is(err, ErrInvalidTransaction) {
		t.Errorf("expected ErrInvalidTransaction, got %v", err)
	}
}
