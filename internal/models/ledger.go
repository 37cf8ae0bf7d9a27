package models

import "github.com/shopspring/decimal"

// Expense is a row of the expenses table. OccurredOn is a YYYY-MM-DD string.
type Expense struct {
	ID         int64           `db:"id"`
	Owner      string          `db:"owner"`
	Category   string          `db:"category"`
	Amount     decimal.Decimal `db:"amount"`
	OccurredOn string          `db:"occurred_on"`
	AuditFields
}

// Income is a row of the income table.
type Income struct {
	ID         int64           `db:"id"`
	Owner      string          `db:"owner"`
	Source     string          `db:"source"`
	Amount     decimal.Decimal `db:"amount"`
	OccurredOn string          `db:"occurred_on"`
	AuditFields
}
