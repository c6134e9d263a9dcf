package ledger

import "context"

// Collection keys. Each maps to one serialized blob, loaded and saved
// independently.
const (
	KeyAccounts     = "accounts"
	KeyTransactions = "transactions"
	KeyBudgets      = "budgets"
	KeyGoals        = "goals"
	KeyCurrency     = "currency"
)

// Persistence is the local durable storage port. Implementations store
// opaque blobs under logical keys.
type Persistence interface {
	// Load returns the blob stored under key, or (nil, nil) when the key has
	// never been saved.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save durably replaces the blob stored under key.
	Save(ctx context.Context, key string, blob []byte) error
}
