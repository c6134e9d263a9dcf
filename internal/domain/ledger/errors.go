package ledger

import "errors"

// Domain errors
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidPeriod      = errors.New("invalid budget period")
	ErrUnknownCurrency    = errors.New("unsupported currency code")
	// ErrPersistence marks a failed durable write. The in-memory state of the
	// operation that produced it is kept; the next successful mutation
	// re-persists the affected collections.
	ErrPersistence = errors.New("persistence failure")
)
