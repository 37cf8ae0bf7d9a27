package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_ledger_app/internal/models"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
	"github.com/SscSPs/pocket_ledger_app/internal/utils/mapping"
)

type GroupRepository struct {
	BaseRepository
}

func newGroupRepository(db *database.DB) *GroupRepository {
	return &GroupRepository{BaseRepository{DB: db}}
}

var _ portsrepo.GroupRepositoryFacade = (*GroupRepository)(nil)

const sharedExpenseColumns = `s.id, s.group_id, s.spender, s.category, s.amount, s.occurred_on, s.split_with, s.created_at`

func (r *GroupRepository) InsertGroupIfAbsent(ctx context.Context, group domain.Group) (bool, error) {
	res, err := r.exec(ctx,
		`INSERT INTO expense_groups (name, created_at) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`,
		group.Name, group.CreatedAt.Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert group %s: %w", group.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert group %s: %w", group.Name, err)
	}
	return n > 0, nil
}

func (r *GroupRepository) FindGroupByName(ctx context.Context, name string) (*domain.Group, error) {
	var m models.Group
	err := r.queryRow(ctx,
		`SELECT id, name, created_at FROM expense_groups WHERE name = ?`, name,
	).Scan(&m.ID, &m.Name, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group %s: %w", name, err)
	}
	d := mapping.ToDomainGroup(m)
	return &d, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, membership domain.Membership) error {
	_, err := r.exec(ctx, `
		INSERT INTO group_members (group_id, member, joined_at) VALUES (?, ?, ?)
		ON CONFLICT (group_id, member) DO NOTHING`,
		membership.GroupID, membership.Member, membership.JoinedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add %s to group %d: %w", membership.Member, membership.GroupID, err)
	}
	return nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID int64) ([]domain.Membership, error) {
	rows, err := r.query(ctx, `
		SELECT group_id, member, joined_at FROM group_members
		WHERE group_id = ? ORDER BY joined_at ASC, member ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of group %d: %w", groupID, err)
	}
	defer rows.Close()

	members := make([]domain.Membership, 0)
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.GroupID, &m.Member, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, mapping.ToDomainMembership(m))
	}
	return members, rows.Err()
}

func (r *GroupRepository) ListGroupsForMember(ctx context.Context, member string) ([]domain.Group, error) {
	rows, err := r.query(ctx, `
		SELECT g.id, g.name, g.created_at
		FROM expense_groups g JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.member = ? ORDER BY g.name ASC`, member)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups of %s: %w", member, err)
	}
	defer rows.Close()

	groups := make([]domain.Group, 0)
	for rows.Next() {
		var m models.Group
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, mapping.ToDomainGroup(m))
	}
	return groups, rows.Err()
}

func (r *GroupRepository) SaveSharedExpense(ctx context.Context, expense domain.SharedExpense) (domain.SharedExpense, error) {
	m, err := mapping.ToModelSharedExpense(expense)
	if err != nil {
		return domain.SharedExpense{}, err
	}
	err = r.queryRow(ctx, `
		INSERT INTO shared_expenses (group_id, spender, category, amount, occurred_on, split_with, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		m.GroupID, m.Spender, m.Category, m.Amount, m.OccurredOn, m.SplitWith, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return domain.SharedExpense{}, fmt.Errorf("failed to save shared expense: %w", err)
	}
	return mapping.ToDomainSharedExpense(m)
}

func (r *GroupRepository) ListSharedExpenses(ctx context.Context, groupID int64) ([]domain.SharedExpense, error) {
	return r.listShared(ctx, `
		SELECT `+sharedExpenseColumns+` FROM shared_expenses s
		WHERE s.group_id = ? ORDER BY s.occurred_on DESC, s.id DESC`, groupID)
}

func (r *GroupRepository) ListSharedExpensesByGroupName(ctx context.Context, name string) ([]domain.SharedExpense, error) {
	return r.listShared(ctx, `
		SELECT `+sharedExpenseColumns+` FROM shared_expenses s
		JOIN expense_groups g ON g.id = s.group_id
		WHERE g.name = ? ORDER BY s.occurred_on DESC, s.id DESC`, name)
}

func (r *GroupRepository) listShared(ctx context.Context, q string, arg any) ([]domain.SharedExpense, error) {
	rows, err := r.query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared expenses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SharedExpense, 0)
	for rows.Next() {
		var m models.SharedExpense
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Spender, &m.Category, &m.Amount, &m.OccurredOn, &m.SplitWith, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shared expense row: %w", err)
		}
		d, err := mapping.ToDomainSharedExpense(m)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shared expense rows: %w", err)
	}
	return out, nil
}
