package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_ledger_app/internal/models"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
	"github.com/SscSPs/pocket_ledger_app/internal/utils/mapping"
)

type RewardRepository struct {
	BaseRepository
}

func newRewardRepository(db *database.DB) *RewardRepository {
	return &RewardRepository{BaseRepository{DB: db}}
}

var _ portsrepo.RewardRepositoryFacade = (*RewardRepository)(nil)

// IncrementPoints creates the owner's row if needed and adds delta in the same transaction.
// The increment is a single UPDATE so concurrent callers never lose an update.
func (r *RewardRepository) IncrementPoints(ctx context.Context, owner string, delta int64) (int64, error) {
	var points int64
	err := r.withinTx(ctx, func(ctx context.Context) error {
		if _, err := r.exec(ctx,
			`INSERT INTO user_points (owner, points) VALUES (?, 0) ON CONFLICT (owner) DO NOTHING`, owner,
		); err != nil {
			return fmt.Errorf("failed to seed points for %s: %w", owner, err)
		}
		if _, err := r.exec(ctx,
			`UPDATE user_points SET points = points + ? WHERE owner = ?`, delta, owner,
		); err != nil {
			return fmt.Errorf("failed to add points for %s: %w", owner, err)
		}
		return r.queryRow(ctx, `SELECT points FROM user_points WHERE owner = ?`, owner).Scan(&points)
	})
	if err != nil {
		return 0, err
	}
	return points, nil
}

func (r *RewardRepository) GetPoints(ctx context.Context, owner string) (int64, error) {
	var points int64
	err := r.queryRow(ctx, `SELECT points FROM user_points WHERE owner = ?`, owner).Scan(&points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get points for %s: %w", owner, err)
	}
	return points, nil
}

func (r *RewardRepository) SaveBadge(ctx context.Context, badge domain.Badge) (domain.Badge, error) {
	m := models.Badge{
		Owner:       badge.Owner,
		Name:        badge.Name,
		EarnedOn:    badge.EarnedOn.Format(domain.DateLayout),
		AuditFields: models.AuditFields{CreatedAt: time.Now().UTC().Unix()},
	}
	err := r.queryRow(ctx,
		`INSERT INTO badges (owner, name, earned_on, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		m.Owner, m.Name, m.EarnedOn, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return domain.Badge{}, fmt.Errorf("failed to save badge for %s: %w", badge.Owner, err)
	}
	return mapping.ToDomainBadge(m), nil
}

func (r *RewardRepository) ListBadges(ctx context.Context, owner string) ([]domain.Badge, error) {
	rows, err := r.query(ctx, `
		SELECT id, owner, name, earned_on, created_at FROM badges
		WHERE owner = ? ORDER BY earned_on ASC, id ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges for %s: %w", owner, err)
	}
	defer rows.Close()

	ms := make([]models.Badge, 0)
	for rows.Next() {
		var m models.Badge
		if err := rows.Scan(&m.ID, &m.Owner, &m.Name, &m.EarnedOn, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badge rows: %w", err)
	}
	return mapping.ToDomainBadgeSlice(ms), nil
}

func (r *RewardRepository) HasBudgetAward(ctx context.Context, owner, badge, period string) (bool, error) {
	var one int
	err := r.queryRow(ctx,
		`SELECT 1 FROM budget_awards WHERE owner = ? AND badge = ? AND period = ?`,
		owner, badge, period,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up budget award: %w", err)
	}
	return true, nil
}

func (r *RewardRepository) InsertBudgetAward(ctx context.Context, owner, badge, period string, at int64) error {
	_, err := r.exec(ctx,
		`INSERT INTO budget_awards (owner, badge, period, awarded_at) VALUES (?, ?, ?, ?)`,
		owner, badge, period, at,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("budget award %s/%s: %w", owner, period, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to record budget award: %w", err)
	}
	return nil
}
