package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Group is a named shared-expense group.
type Group struct {
	GroupID int64  `json:"groupID"`
	Name    string `json:"name"`
	AuditFields
}

// Membership links a member identity to a group.
type Membership struct {
	GroupID  int64     `json:"groupID"`
	Member   string    `json:"member"`
	JoinedAt time.Time `json:"joinedAt"`
}

// CreateGroupOutcome tells the caller whether CreateGroup inserted a row.
type CreateGroupOutcome string

const (
	GroupCreated       CreateGroupOutcome = "CREATED"
	GroupAlreadyExists CreateGroupOutcome = "ALREADY_EXISTS"
)

// CreateGroupResult is the variant returned by group creation.
type CreateGroupResult struct {
	Outcome CreateGroupOutcome `json:"outcome"`
	Group   Group              `json:"group"`
}

// SharedExpense is a spend recorded against a group and split with other identities.
// SplitWith keeps the caller's order and is not checked against memberships.
type SharedExpense struct {
	SharedExpenseID int64           `json:"sharedExpenseID"`
	GroupID         int64           `json:"groupID"`
	Spender         string          `json:"spender"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	OccurredOn      time.Time       `json:"occurredOn"`
	SplitWith       []string        `json:"splitWith"`
	AuditFields
}

func (s SharedExpense) GetAmount() decimal.Decimal { return s.Amount }
func (s SharedExpense) GetDate() time.Time         { return s.OccurredOn }
func (s SharedExpense) GetCategory() string        { return s.Category }

// MemberBalance is a member's net position inside a group.
// Positive means the member is owed money.
type MemberBalance struct {
	Member  string          `json:"member"`
	Balance decimal.Decimal `json:"balance"`
}
