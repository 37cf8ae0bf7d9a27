package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/utils/aggregation"
	"github.com/shopspring/decimal"
)

const maxGroupNameLength = 100

type groupService struct {
	BaseService
	repo portsrepo.GroupRepositoryFacade
}

// NewGroupService creates the shared-expense group service.
func NewGroupService(repo portsrepo.GroupRepositoryFacade, opts ...ServiceOption) portssvc.GroupSvcFacade {
	return &groupService{
		BaseService: newBaseService(opts...),
		repo:        repo,
	}
}

var _ portssvc.GroupSvcFacade = (*groupService)(nil)

func validateGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: group name is required", apperrors.ErrInvalidInput)
	}
	if len(name) > maxGroupNameLength {
		return "", fmt.Errorf("%w: group name must be at most %d characters", apperrors.ErrInvalidInput, maxGroupNameLength)
	}
	return name, nil
}

func (s *groupService) findGroup(ctx context.Context, name string) (*domain.Group, error) {
	group, err := s.repo.FindGroupByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if !errors.Is(err, apperrors.ErrGroupNotFound) {
			s.LogError(ctx, err, "Failed to look up group", slog.String("group", name))
		}
		return nil, err
	}
	return group, nil
}

func (s *groupService) CreateGroup(ctx context.Context, name string) (*domain.CreateGroupResult, error) {
	name, err := validateGroupName(name)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.InsertGroupIfAbsent(ctx, domain.Group{
		Name:        name,
		AuditFields: domain.AuditFields{CreatedAt: s.Now()},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create group", slog.String("group", name))
		return nil, err
	}

	group, err := s.findGroup(ctx, name)
	if err != nil {
		return nil, err
	}

	result := &domain.CreateGroupResult{Outcome: domain.GroupAlreadyExists, Group: *group}
	if created {
		result.Outcome = domain.GroupCreated
		s.LogInfo(ctx, "Group created", slog.String("group", name), slog.Int64("group_id", group.GroupID))
	}
	return result, nil
}

func (s *groupService) JoinGroup(ctx context.Context, member, groupName string) error {
	member = strings.TrimSpace(member)
	if member == "" {
		return fmt.Errorf("%w: member is required", apperrors.ErrInvalidInput)
	}
	group, err := s.findGroup(ctx, groupName)
	if err != nil {
		return err
	}

	if err := s.repo.AddMember(ctx, domain.Membership{GroupID: group.GroupID, Member: member, JoinedAt: s.Now()}); err != nil {
		s.LogError(ctx, err, "Failed to add group member", slog.String("group", group.Name))
		return err
	}
	s.LogDebug(ctx, "Member joined group", slog.String("group", group.Name), slog.String("member", member))
	return nil
}

func (s *groupService) ListMembers(ctx context.Context, groupName string) ([]domain.Membership, error) {
	group, err := s.findGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, group.GroupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list group members", slog.String("group", group.Name))
		return nil, err
	}
	if members == nil {
		return []domain.Membership{}, nil
	}
	return members, nil
}

func (s *groupService) ListGroupsForMember(ctx context.Context, member string) ([]domain.Group, error) {
	groups, err := s.repo.ListGroupsForMember(ctx, strings.TrimSpace(member))
	if err != nil {
		s.LogError(ctx, err, "Failed to list groups for member")
		return nil, err
	}
	if groups == nil {
		return []domain.Group{}, nil
	}
	return groups, nil
}

func (s *groupService) RecordSharedExpense(ctx context.Context, groupName, spender, category string, amount decimal.Decimal, splitWith []string, occurredOn time.Time) (*domain.SharedExpense, error) {
	spender = strings.TrimSpace(spender)
	if spender == "" {
		return nil, fmt.Errorf("%w: spender is required", apperrors.ErrInvalidInput)
	}
	category, err := validateCategory(category)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	// The group must exist before anything is written.
	group, err := s.findGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}

	split := make([]string, 0, len(splitWith))
	for _, m := range splitWith {
		if m = strings.TrimSpace(m); m != "" {
			split = append(split, m)
		}
	}

	date := domain.Today(s.Now())
	if !occurredOn.IsZero() {
		date = domain.Today(occurredOn)
	}

	saved, err := s.repo.SaveSharedExpense(ctx, domain.SharedExpense{
		GroupID:     group.GroupID,
		Spender:     spender,
		Category:    category,
		Amount:      amount,
		OccurredOn:  date,
		SplitWith:   split,
		AuditFields: domain.AuditFields{CreatedAt: s.Now()},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save shared expense", slog.String("group", group.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Shared expense recorded",
		slog.String("group", group.Name),
		slog.Int64("shared_expense_id", saved.SharedExpenseID))
	return &saved, nil
}

func (s *groupService) ListGroupExpenses(ctx context.Context, groupName string) ([]domain.SharedExpense, error) {
	expenses, err := s.repo.ListSharedExpensesByGroupName(ctx, strings.TrimSpace(groupName))
	if err != nil {
		s.LogError(ctx, err, "Failed to list group expenses", slog.String("group", groupName))
		return nil, err
	}
	if expenses == nil {
		return []domain.SharedExpense{}, nil
	}
	return expenses, nil
}

func (s *groupService) GetGroupExpenses(ctx context.Context, groupName string) ([]domain.SharedExpense, error) {
	group, err := s.findGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ListSharedExpenses(ctx, group.GroupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list group expenses", slog.String("group", group.Name))
		return nil, err
	}
	if expenses == nil {
		return []domain.SharedExpense{}, nil
	}
	return expenses, nil
}

func (s *groupService) GroupBalances(ctx context.Context, groupName string) ([]domain.MemberBalance, error) {
	expenses, err := s.GetGroupExpenses(ctx, groupName)
	if err != nil {
		return nil, err
	}
	return aggregation.SettleBalances(expenses), nil
}
