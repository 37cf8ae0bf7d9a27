package models

import "github.com/shopspring/decimal"

// Group is a row of the expense_groups table.
type Group struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	AuditFields
}

// GroupMember is a row of the group_members table.
type GroupMember struct {
	GroupID  int64  `db:"group_id"`
	Member   string `db:"member"`
	JoinedAt int64  `db:"joined_at"`
}

// SharedExpense is a row of the shared_expenses table. SplitWith holds a JSON array.
type SharedExpense struct {
	ID         int64           `db:"id"`
	GroupID    int64           `db:"group_id"`
	Spender    string          `db:"spender"`
	Category   string          `db:"category"`
	Amount     decimal.Decimal `db:"amount"`
	OccurredOn string          `db:"occurred_on"`
	SplitWith  string          `db:"split_with"`
	AuditFields
}
