package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store owns the in-memory ledger collections and orchestrates balance
// computation and durable storage on every mutation. All public operations
// are safe for concurrent use; a mutation's in-memory update, durable write,
// and change notification complete before the call returns.
//
// Mutations that fail durable storage return a wrapped ErrPersistence but
// keep the new in-memory state; the next successful mutation re-persists the
// affected collections. The change notification is skipped in that case so a
// publish never precedes local durability.
type Store struct {
	mu        sync.Mutex
	persist   Persistence
	formatter *Formatter
	log       zerolog.Logger

	now      func() time.Time
	newID    func() string
	onMutate func(State)

	accounts     []Account
	transactions []Transaction
	budgets      []Budget
	goals        []SavingsGoal
	currency     string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides identifier assignment, for deterministic tests.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a store backed by the given persistence adapter. The
// default currency applies until a stored selection is loaded or SetCurrency
// is called; locale fixes the display conventions for FormatAmount.
func NewStore(persist Persistence, defaultCurrency, locale string, opts ...StoreOption) (*Store, error) {
	if !IsValidCurrency(defaultCurrency) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, defaultCurrency)
	}
	formatter, err := NewFormatter(locale)
	if err != nil {
		return nil, err
	}
	s := &Store{
		persist:   persist,
		formatter: formatter,
		log:       zerolog.Nop(),
		now:       time.Now,
		newID:     uuid.NewString,
		currency:  defaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// OnMutate registers the hook invoked with a copy of the full state after
// every durably persisted local mutation. Inbound replacements via
// ReplaceAll do not fire it, which is what prevents sync feedback loops.
func (s *Store) OnMutate(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutate = fn
}

// Load reads all collections from storage. A ledger with no stored accounts
// is seeded with a single zero-balance wallet.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := loadCollection(ctx, s.persist, KeyAccounts, &s.accounts); err != nil {
		return err
	}
	if err := loadCollection(ctx, s.persist, KeyTransactions, &s.transactions); err != nil {
		return err
	}
	if err := loadCollection(ctx, s.persist, KeyBudgets, &s.budgets); err != nil {
		return err
	}
	if err := loadCollection(ctx, s.persist, KeyGoals, &s.goals); err != nil {
		return err
	}

	blob, err := s.persist.Load(ctx, KeyCurrency)
	if err != nil {
		return fmt.Errorf("%w: load %s: %v", ErrPersistence, KeyCurrency, err)
	}
	if blob != nil {
		var code string
		if err := json.Unmarshal(blob, &code); err != nil {
			return fmt.Errorf("decode %s: %w", KeyCurrency, err)
		}
		if IsValidCurrency(code) {
			s.currency = code
		} else {
			s.log.Warn().Str("code", code).Msg("ignoring stored currency outside the supported set")
		}
	}

	if s.accounts == nil {
		s.accounts = []Account{{
			ID:        s.newID(),
			Name:      "Cash",
			Type:      AccountWallet,
			Balance:   0,
			Currency:  s.currency,
			CreatedAt: s.now(),
		}}
		s.log.Info().Msg("no stored accounts, seeded default wallet")
	}
	return nil
}

func loadCollection[T any](ctx context.Context, p Persistence, key string, dst *[]T) error {
	blob, err := p.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: load %s: %v", ErrPersistence, key, err)
	}
	if blob == nil {
		return nil
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// persistLocked serializes and saves the named collections in order.
// Caller holds s.mu.
func (s *Store) persistLocked(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		var v any
		switch key {
		case KeyAccounts:
			v = s.accounts
		case KeyTransactions:
			v = s.transactions
		case KeyBudgets:
			v = s.budgets
		case KeyGoals:
			v = s.goals
		case KeyCurrency:
			v = s.currency
		}
		blob, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if err := s.persist.Save(ctx, key, blob); err != nil {
			return fmt.Errorf("%w: save %s: %v", ErrPersistence, key, err)
		}
	}
	return nil
}

func (s *Store) stateLocked() State {
	return State{
		Accounts:     s.accounts,
		Transactions: s.transactions,
		Budgets:      s.budgets,
		Goals:        s.goals,
		Currency:     s.currency,
	}.clone()
}

func (s *Store) notifyLocked() {
	if s.onMutate != nil {
		s.onMutate(s.stateLocked())
	}
}

func (s *Store) findAccountLocked(id string) *Account {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return &s.accounts[i]
		}
	}
	return nil
}

// CreateAccount assigns a fresh identifier, appends and persists the account.
// An empty currency tag inherits the active selection.
func (s *Store) CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := Account{
		ID:               s.newID(),
		Name:             params.Name,
		Type:             params.Type,
		Balance:          params.Balance,
		Currency:         params.Currency,
		Icon:             params.Icon,
		Color:            params.Color,
		ExcludeFromTotal: params.ExcludeFromTotal,
		CreatedAt:        s.now(),
	}
	if acc.Currency == "" {
		acc.Currency = s.currency
	}
	s.accounts = append(s.accounts, acc)
	if err := s.persistLocked(ctx, KeyAccounts); err != nil {
		return nil, err
	}
	s.log.Debug().Str("account", acc.ID).Msg("account created")
	s.notifyLocked()
	return &acc, nil
}

// UpdateAccount applies a partial update. An unknown identifier is a silent
// no-op so collaborator retries stay idempotent.
func (s *Store) UpdateAccount(ctx context.Context, id string, params UpdateAccountParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.findAccountLocked(id)
	if acc == nil {
		return nil
	}
	if params.Name != nil {
		acc.Name = *params.Name
	}
	if params.Type != nil {
		acc.Type = *params.Type
	}
	if params.Balance != nil {
		acc.Balance = *params.Balance
	}
	if params.Currency != nil {
		acc.Currency = *params.Currency
	}
	if params.Icon != nil {
		acc.Icon = *params.Icon
	}
	if params.Color != nil {
		acc.Color = *params.Color
	}
	if params.ExcludeFromTotal != nil {
		acc.ExcludeFromTotal = *params.ExcludeFromTotal
	}
	if err := s.persistLocked(ctx, KeyAccounts); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

// DeleteAccount removes an account. Unknown identifier is a silent no-op.
// Transactions referencing the account are kept; their balance effects were
// already folded into the deleted balance.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	s.accounts = append(s.accounts[:idx], s.accounts[idx+1:]...)
	if err := s.persistLocked(ctx, KeyAccounts); err != nil {
		return err
	}
	s.log.Debug().Str("account", id).Msg("account deleted")
	s.notifyLocked()
	return nil
}

// AddTransaction records a transaction, applies its balance effect to the
// referenced account(s), and persists both collections. The transaction list
// is kept most-recent-first.
func (s *Store) AddTransaction(ctx context.Context, params CreateTransactionParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := Transaction{
		ID:          s.newID(),
		Type:        params.Type,
		Amount:      params.Amount,
		AccountID:   params.AccountID,
		ToAccountID: params.ToAccountID,
		Category:    params.Category,
		Description: params.Description,
		Date:        params.Date,
		CreatedAt:   s.now(),
	}
	if tx.Date.IsZero() {
		tx.Date = tx.CreatedAt
	}

	deltas, err := Effect(tx)
	if err != nil {
		return nil, err
	}
	for _, d := range deltas {
		if s.findAccountLocked(d.AccountID) == nil {
			return nil, fmt.Errorf("%w: unknown account %q", ErrInvalidTransaction, d.AccountID)
		}
	}
	for _, d := range deltas {
		s.findAccountLocked(d.AccountID).Balance += d.Amount
	}
	s.transactions = append([]Transaction{tx}, s.transactions...)

	if err := s.persistLocked(ctx, KeyTransactions, KeyAccounts); err != nil {
		return nil, err
	}
	s.log.Debug().Str("transaction", tx.ID).Str("type", string(tx.Type)).Int64("amount", tx.Amount).Msg("transaction recorded")
	s.notifyLocked()
	return &tx, nil
}

// DeleteTransaction reverses the transaction's balance effect and removes the
// record. The reversed balances are persisted before the transaction list so
// a crash between the two writes cannot leave a recorded transaction whose
// effect was silently dropped. Unknown identifier is a silent no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	tx := s.transactions[idx]

	deltas, err := Reverse(tx)
	if err != nil {
		return err
	}
	for _, d := range deltas {
		// The referenced account may have been deleted since.
		if acc := s.findAccountLocked(d.AccountID); acc != nil {
			acc.Balance += d.Amount
		}
	}
	if err := s.persistLocked(ctx, KeyAccounts); err != nil {
		return err
	}

	s.transactions = append(s.transactions[:idx], s.transactions[idx+1:]...)
	if err := s.persistLocked(ctx, KeyTransactions); err != nil {
		return err
	}
	s.log.Debug().Str("transaction", id).Msg("transaction deleted, balances reversed")
	s.notifyLocked()
	return nil
}

// AddBudget assigns an identifier and persists the budget.
func (s *Store) AddBudget(ctx context.Context, params CreateBudgetParams) (*Budget, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := Budget{
		ID:        s.newID(),
		Category:  params.Category,
		Target:    params.Target,
		Period:    params.Period,
		CreatedAt: s.now(),
	}
	s.budgets = append(s.budgets, b)
	if err := s.persistLocked(ctx, KeyBudgets); err != nil {
		return nil, err
	}
	s.notifyLocked()
	return &b, nil
}

// UpdateBudget applies a partial update; unknown identifier is a no-op.
func (s *Store) UpdateBudget(ctx context.Context, id string, params UpdateBudgetParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.budgets {
		if s.budgets[i].ID != id {
			continue
		}
		if params.Category != nil {
			s.budgets[i].Category = *params.Category
		}
		if params.Target != nil {
			s.budgets[i].Target = *params.Target
		}
		if params.Period != nil {
			s.budgets[i].Period = *params.Period
		}
		if err := s.persistLocked(ctx, KeyBudgets); err != nil {
			return err
		}
		s.notifyLocked()
		return nil
	}
	return nil
}

// DeleteBudget removes a budget; unknown identifier is a no-op.
func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.budgets {
		if s.budgets[i].ID != id {
			continue
		}
		s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
		if err := s.persistLocked(ctx, KeyBudgets); err != nil {
			return err
		}
		s.notifyLocked()
		return nil
	}
	return nil
}

// AddGoal assigns an identifier and persists the savings goal.
func (s *Store) AddGoal(ctx context.Context, params CreateGoalParams) (*SavingsGoal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g := SavingsGoal{
		ID:        s.newID(),
		Name:      params.Name,
		Target:    params.Target,
		Deadline:  params.Deadline,
		CreatedAt: s.now(),
	}
	s.goals = append(s.goals, g)
	if err := s.persistLocked(ctx, KeyGoals); err != nil {
		return nil, err
	}
	s.notifyLocked()
	return &g, nil
}

// UpdateGoal applies a partial update; unknown identifier is a no-op.
func (s *Store) UpdateGoal(ctx context.Context, id string, params UpdateGoalParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.goals {
		if s.goals[i].ID != id {
			continue
		}
		if params.Name != nil {
			s.goals[i].Name = *params.Name
		}
		if params.Target != nil {
			s.goals[i].Target = *params.Target
		}
		if params.Saved != nil {
			s.goals[i].Saved = *params.Saved
		}
		if params.Deadline != nil {
			s.goals[i].Deadline = params.Deadline
		}
		if err := s.persistLocked(ctx, KeyGoals); err != nil {
			return err
		}
		s.notifyLocked()
		return nil
	}
	return nil
}

// DeleteGoal removes a savings goal; unknown identifier is a no-op.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.goals {
		if s.goals[i].ID != id {
			continue
		}
		s.goals = append(s.goals[:i], s.goals[i+1:]...)
		if err := s.persistLocked(ctx, KeyGoals); err != nil {
			return err
		}
		s.notifyLocked()
		return nil
	}
	return nil
}

// Accounts returns a copy of the account collection.
func (s *Store) Accounts() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Account(nil), s.accounts...)
}

// Transactions returns a copy of the transaction collection,
// most-recent-first.
func (s *Store) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Transaction(nil), s.transactions...)
}

// Budgets returns a copy of the budget collection.
func (s *Store) Budgets() []Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Budget(nil), s.budgets...)
}

// Goals returns a copy of the savings goal collection.
func (s *Store) Goals() []SavingsGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SavingsGoal(nil), s.goals...)
}

// TotalBalance sums the balances of accounts not excluded from the total.
func (s *Store) TotalBalance() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, acc := range s.accounts {
		if !acc.ExcludeFromTotal {
			total += acc.Balance
		}
	}
	return total
}

// Currency returns the active currency code.
func (s *Store) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

// SetCurrency replaces the active currency and persists the selection. It
// only changes display formatting; account tags and amounts are untouched.
func (s *Store) SetCurrency(ctx context.Context, code string) error {
	if !IsValidCurrency(code) {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = code
	if err := s.persistLocked(ctx, KeyCurrency); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

// FormatAmount renders a minor-unit amount in the active currency using the
// store's display locale.
func (s *Store) FormatAmount(amount int64) string {
	s.mu.Lock()
	code := s.currency
	s.mu.Unlock()
	out, err := s.formatter.Format(amount, code)
	if err != nil {
		// Only possible after an inbound snapshot carried a code outside the
		// supported set; fall back to a bare rendering.
		return fmt.Sprintf("%d %s", amount, code)
	}
	return out
}

// State returns a deep copy of all collections and the active currency.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// ReplaceAll swaps in an authoritative snapshot wholesale and persists every
// collection. It does not fire the mutation hook: an inbound snapshot must
// never be re-published as if it were a local change.
func (s *Store) ReplaceAll(ctx context.Context, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st = st.clone()
	s.accounts = st.Accounts
	s.transactions = st.Transactions
	s.budgets = st.Budgets
	s.goals = st.Goals
	if st.Currency != "" {
		s.currency = st.Currency
	}
	if err := s.persistLocked(ctx, KeyAccounts, KeyTransactions, KeyBudgets, KeyGoals, KeyCurrency); err != nil {
		return err
	}
	s.log.Debug().Msg("local state replaced by remote snapshot")
	return nil
}
