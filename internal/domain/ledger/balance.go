package ledger

import "fmt"

// BalanceDelta is a signed balance change for one account, in minor units.
type BalanceDelta struct {
	AccountID string
	Amount    int64
}

// Effect computes the balance deltas a transaction produces: income credits
// its account, expense debits it, savings moves the amount from the source
// account to the destination account.
//
// Amounts are integer minor units, so applying Effect and then Reverse is an
// exact identity on every balance.
func Effect(tx Transaction) ([]BalanceDelta, error) {
	if tx.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative, got %d", ErrInvalidTransaction, tx.Amount)
	}
	switch tx.Type {
	case TransactionIncome:
		return []BalanceDelta{{AccountID: tx.AccountID, Amount: tx.Amount}}, nil
	case TransactionExpense:
		return []BalanceDelta{{AccountID: tx.AccountID, Amount: -tx.Amount}}, nil
	case TransactionSavings:
		if tx.ToAccountID == "" {
			return nil, fmt.Errorf("%w: savings transaction requires a destination account", ErrInvalidTransaction)
		}
		if tx.ToAccountID == tx.AccountID {
			return nil, fmt.Errorf("%w: savings destination must differ from source", ErrInvalidTransaction)
		}
		return []BalanceDelta{
			{AccountID: tx.AccountID, Amount: -tx.Amount},
			{AccountID: tx.ToAccountID, Amount: tx.Amount},
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidTransaction, tx.Type)
	}
}

// Reverse returns the negation of Effect. Deleting a transaction applies the
// reversed deltas, which restores every affected balance exactly.
func Reverse(tx Transaction) ([]BalanceDelta, error) {
	deltas, err := Effect(tx)
	if err != nil {
		return nil, err
	}
	for i := range deltas {
		deltas[i].Amount = -deltas[i].Amount
	}
	return deltas, nil
}
