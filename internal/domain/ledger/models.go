package ledger

import (
	"errors"
	"fmt"
	"time"
)

// AccountType is the closed set of account categories.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountWallet     AccountType = "wallet"
	AccountInvestment AccountType = "investment"
)

var accountTypes = map[AccountType]struct{}{
	AccountChecking:   {},
	AccountSavings:    {},
	AccountCredit:     {},
	AccountWallet:     {},
	AccountInvestment: {},
}

// IsValidAccountType checks if the provided account type is valid.
func IsValidAccountType(t AccountType) bool {
	_, ok := accountTypes[t]
	return ok
}

// TransactionType is the closed set of transaction kinds. TransactionSavings
// is a transfer between two accounts.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
	TransactionSavings TransactionType = "savings"
)

// BudgetPeriod values accepted on budgets. Empty means no period.
var budgetPeriods = map[string]struct{}{
	"weekly":  {},
	"monthly": {},
	"yearly":  {},
}

// Account is a named balance-holding entity. Balance is cached in minor
// units and must always equal the initial balance plus the net effect of all
// stored transactions referencing the account.
type Account struct {
	ID               string      `json:"id" firestore:"id"`
	Name             string      `json:"name" firestore:"name"`
	Type             AccountType `json:"type" firestore:"type"`
	Balance          int64       `json:"balance" firestore:"balance"`
	Currency         string      `json:"currency" firestore:"currency"`
	Icon             string      `json:"icon,omitempty" firestore:"icon"`
	Color            string      `json:"color,omitempty" firestore:"color"`
	ExcludeFromTotal bool        `json:"isExcludedFromTotal" firestore:"isExcludedFromTotal"`
	CreatedAt        time.Time   `json:"createdAt" firestore:"createdAt"`
}

// Transaction is an immutable record of a balance-affecting event. There is
// no edit operation; edits are modeled as delete and recreate by callers.
type Transaction struct {
	ID          string          `json:"id" firestore:"id"`
	Type        TransactionType `json:"type" firestore:"type"`
	Amount      int64           `json:"amount" firestore:"amount"`
	AccountID   string          `json:"accountId" firestore:"accountId"`
	ToAccountID string          `json:"toAccountId,omitempty" firestore:"toAccountId"`
	Category    string          `json:"category" firestore:"category"`
	Description string          `json:"description" firestore:"description"`
	Date        time.Time       `json:"date" firestore:"date"`
	CreatedAt   time.Time       `json:"createdAt" firestore:"createdAt"`
}

// Budget caps spending for a category over an optional period.
type Budget struct {
	ID        string    `json:"id" firestore:"id"`
	Category  string    `json:"category" firestore:"category"`
	Target    int64     `json:"target" firestore:"target"`
	Period    string    `json:"period,omitempty" firestore:"period"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// SavingsGoal tracks progress toward a named target amount.
type SavingsGoal struct {
	ID        string     `json:"id" firestore:"id"`
	Name      string     `json:"name" firestore:"name"`
	Target    int64      `json:"target" firestore:"target"`
	Saved     int64      `json:"saved" firestore:"saved"`
	Deadline  *time.Time `json:"deadline,omitempty" firestore:"deadline"`
	CreatedAt time.Time  `json:"createdAt" firestore:"createdAt"`
}

// State is the full set of ledger collections plus the active currency code:
// the unit of remote synchronization and of wholesale replacement.
type State struct {
	Accounts     []Account     `json:"accounts" firestore:"accounts"`
	Transactions []Transaction `json:"transactions" firestore:"transactions"`
	Budgets      []Budget      `json:"budgets" firestore:"budgets"`
	Goals        []SavingsGoal `json:"goals" firestore:"goals"`
	Currency     string        `json:"currency" firestore:"currency"`
}

// clone returns a deep copy so callers can never alias store-owned slices.
func (s State) clone() State {
	out := State{Currency: s.Currency}
	if s.Accounts != nil {
		out.Accounts = append([]Account(nil), s.Accounts...)
	}
	if s.Transactions != nil {
		out.Transactions = append([]Transaction(nil), s.Transactions...)
	}
	if s.Budgets != nil {
		out.Budgets = append([]Budget(nil), s.Budgets...)
	}
	if s.Goals != nil {
		out.Goals = append([]SavingsGoal(nil), s.Goals...)
		for i, g := range out.Goals {
			if g.Deadline != nil {
				d := *g.Deadline
				out.Goals[i].Deadline = &d
			}
		}
	}
	return out
}

// CreateAccountParams contains parameters for creating a new account.
type CreateAccountParams struct {
	Name             string
	Type             AccountType
	Balance          int64
	Currency         string
	Icon             string
	Color            string
	ExcludeFromTotal bool
}

// Validate validates the create parameters.
func (p CreateAccountParams) Validate() error {
	if p.Name == "" {
		return errors.New("account name is required")
	}
	if !IsValidAccountType(p.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, p.Type)
	}
	if p.Currency != "" && !IsValidCurrency(p.Currency) {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, p.Currency)
	}
	return nil
}

// UpdateAccountParams contains parameters for a partial account update.
type UpdateAccountParams struct {
	Name             *string
	Type             *AccountType
	Balance          *int64
	Currency         *string
	Icon             *string
	Color            *string
	ExcludeFromTotal *bool
}

// Validate validates the update parameters.
func (p UpdateAccountParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("account name cannot be empty")
	}
	if p.Type != nil && !IsValidAccountType(*p.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, *p.Type)
	}
	if p.Currency != nil && !IsValidCurrency(*p.Currency) {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, *p.Currency)
	}
	return nil
}

// CreateTransactionParams contains parameters for recording a transaction.
type CreateTransactionParams struct {
	Type        TransactionType
	Amount      int64
	AccountID   string
	ToAccountID string
	Category    string
	Description string
	Date        time.Time
}

// Validate checks the structural shape of the transaction. Account
// resolution happens in the store, which owns the collections.
func (p CreateTransactionParams) Validate() error {
	if p.AccountID == "" {
		return fmt.Errorf("%w: source account is required", ErrInvalidTransaction)
	}
	// Effect performs the remaining shape checks (type, amount, destination).
	_, err := Effect(Transaction{
		Type:        p.Type,
		Amount:      p.Amount,
		AccountID:   p.AccountID,
		ToAccountID: p.ToAccountID,
	})
	return err
}

// CreateBudgetParams contains parameters for creating a budget.
type CreateBudgetParams struct {
	Category string
	Target   int64
	Period   string
}

// Validate validates the create parameters.
func (p CreateBudgetParams) Validate() error {
	if p.Category == "" {
		return errors.New("budget category is required")
	}
	if p.Target < 0 {
		return errors.New("budget target must be non-negative")
	}
	if p.Period != "" {
		if _, ok := budgetPeriods[p.Period]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidPeriod, p.Period)
		}
	}
	return nil
}

// UpdateBudgetParams contains parameters for a partial budget update.
type UpdateBudgetParams struct {
	Category *string
	Target   *int64
	Period   *string
}

// Validate validates the update parameters.
func (p UpdateBudgetParams) Validate() error {
	if p.Category != nil && *p.Category == "" {
		return errors.New("budget category cannot be empty")
	}
	if p.Target != nil && *p.Target < 0 {
		return errors.New("budget target must be non-negative")
	}
	if p.Period != nil && *p.Period != "" {
		if _, ok := budgetPeriods[*p.Period]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidPeriod, *p.Period)
		}
	}
	return nil
}

// CreateGoalParams contains parameters for creating a savings goal.
type CreateGoalParams struct {
	Name     string
	Target   int64
	Deadline *time.Time
}

// Validate validates the create parameters.
func (p CreateGoalParams) Validate() error {
	if p.Name == "" {
		return errors.New("goal name is required")
	}
	if p.Target < 0 {
		return errors.New("goal target must be non-negative")
	}
	return nil
}

// UpdateGoalParams contains parameters for a partial goal update.
type UpdateGoalParams struct {
	Name     *string
	Target   *int64
	Saved    *int64
	Deadline *time.Time
}

// Validate validates the update parameters.
func (p UpdateGoalParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("goal name cannot be empty")
	}
	if p.Target != nil && *p.Target < 0 {
		return errors.New("goal target must be non-negative")
	}
	if p.Saved != nil && *p.Saved < 0 {
		return errors.New("goal saved amount must be non-negative")
	}
	return nil
}
