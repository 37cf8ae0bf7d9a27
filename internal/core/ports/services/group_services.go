package services

import (
	"context"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GroupMembershipSvc manages groups and who belongs to them.
type GroupMembershipSvc interface {
	// CreateGroup never fails on a taken name; the result says whether the group is new.
	CreateGroup(ctx context.Context, name string) (*domain.CreateGroupResult, error)

	// JoinGroup is idempotent and fails with apperrors.ErrGroupNotFound for unknown groups.
	JoinGroup(ctx context.Context, member, groupName string) error

	ListMembers(ctx context.Context, groupName string) ([]domain.Membership, error)
	ListGroupsForMember(ctx context.Context, member string) ([]domain.Group, error)
}

// GroupExpenseSvc records and reads shared expenses.
type GroupExpenseSvc interface {
	RecordSharedExpense(ctx context.Context, groupName, spender, category string, amount decimal.Decimal, splitWith []string, occurredOn time.Time) (*domain.SharedExpense, error)

	// ListGroupExpenses returns an empty slice for an unknown group.
	ListGroupExpenses(ctx context.Context, groupName string) ([]domain.SharedExpense, error)

	// GetGroupExpenses distinguishes an unknown group with apperrors.ErrGroupNotFound.
	GetGroupExpenses(ctx context.Context, groupName string) ([]domain.SharedExpense, error)

	GroupBalances(ctx context.Context, groupName string) ([]domain.MemberBalance, error)
}

// GroupSvcFacade combines all group-related service interfaces
type GroupSvcFacade interface {
	GroupMembershipSvc
	GroupExpenseSvc
}
