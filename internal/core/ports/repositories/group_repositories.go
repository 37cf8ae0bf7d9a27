package repositories

import (
	"context"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
)

// GroupReader defines read operations for groups and their members
type GroupReader interface {
	// FindGroupByName returns apperrors.ErrGroupNotFound when no group has that name.
	FindGroupByName(ctx context.Context, name string) (*domain.Group, error)

	ListMembers(ctx context.Context, groupID int64) ([]domain.Membership, error)

	// ListGroupsForMember returns the groups member joined, ordered by name.
	ListGroupsForMember(ctx context.Context, member string) ([]domain.Group, error)
}

// GroupWriter defines write operations for groups and memberships
type GroupWriter interface {
	// InsertGroupIfAbsent creates the group unless the name is taken. created reports whether a row was inserted.
	InsertGroupIfAbsent(ctx context.Context, group domain.Group) (created bool, err error)

	// AddMember inserts a membership; an existing membership is left untouched.
	AddMember(ctx context.Context, membership domain.Membership) error
}

// SharedExpenseRepository reads and writes expenses recorded against a group.
type SharedExpenseRepository interface {
	SaveSharedExpense(ctx context.Context, expense domain.SharedExpense) (domain.SharedExpense, error)

	// ListSharedExpenses returns the group's expenses newest first (occurred_on DESC, id DESC).
	ListSharedExpenses(ctx context.Context, groupID int64) ([]domain.SharedExpense, error)

	// ListSharedExpensesByGroupName joins on the group name; an unknown name yields an empty slice.
	ListSharedExpensesByGroupName(ctx context.Context, name string) ([]domain.SharedExpense, error)
}

// GroupRepositoryFacade combines all group-related repository interfaces
type GroupRepositoryFacade interface {
	GroupReader
	GroupWriter
	SharedExpenseRepository
}
