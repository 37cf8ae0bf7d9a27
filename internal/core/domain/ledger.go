package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spend owned by one identity.
type Expense struct {
	ExpenseID  int64           `json:"expenseID"`
	Owner      string          `json:"owner"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredOn time.Time       `json:"occurredOn"`
	AuditFields
}

func (e Expense) GetAmount() decimal.Decimal { return e.Amount }
func (e Expense) GetDate() time.Time         { return e.OccurredOn }
func (e Expense) GetCategory() string        { return e.Category }

// Income is a single earning owned by one identity.
type Income struct {
	IncomeID   int64           `json:"incomeID"`
	Owner      string          `json:"owner"`
	Source     string          `json:"source,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredOn time.Time       `json:"occurredOn"`
	AuditFields
}

func (i Income) GetAmount() decimal.Decimal { return i.Amount }
func (i Income) GetDate() time.Time         { return i.OccurredOn }

// LedgerFilter narrows a ledger listing.
// Limit <= 0 returns every matching row.
type LedgerFilter struct {
	YearMonth string
	Limit     int
	NextToken string
}

// ExpensePage is one page of a ledger listing.
type ExpensePage struct {
	Expenses  []Expense
	NextToken string
}

// IncomePage is one page of an income listing.
type IncomePage struct {
	Income    []Income
	NextToken string
}

// ResetSummary reports how many rows a bulk delete removed.
type ResetSummary struct {
	ExpensesDeleted int64 `json:"expensesDeleted"`
	IncomeDeleted   int64 `json:"incomeDeleted"`
}

// ImportSummary reports how many rows a CSV import inserted.
type ImportSummary struct {
	Imported int `json:"imported"`
}
