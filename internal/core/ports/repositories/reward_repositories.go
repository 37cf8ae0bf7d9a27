package repositories

import (
	"context"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
)

// PointsRepository stores the per-owner point counter.
type PointsRepository interface {
	// IncrementPoints adds delta to owner's balance atomically, creating the row at zero first.
	IncrementPoints(ctx context.Context, owner string, delta int64) (int64, error)

	// GetPoints returns 0 for an owner with no row.
	GetPoints(ctx context.Context, owner string) (int64, error)
}

// BadgeRepository stores append-only badge rows.
type BadgeRepository interface {
	SaveBadge(ctx context.Context, badge domain.Badge) (domain.Badge, error)
	ListBadges(ctx context.Context, owner string) ([]domain.Badge, error)
}

// BudgetAwardRepository remembers which periods already earned an award.
type BudgetAwardRepository interface {
	HasBudgetAward(ctx context.Context, owner, badge, period string) (bool, error)

	// InsertBudgetAward fails with apperrors.ErrDuplicate when the period was already claimed.
	InsertBudgetAward(ctx context.Context, owner, badge, period string, at int64) error
}

// RewardRepositoryFacade combines all reward-related repository interfaces
type RewardRepositoryFacade interface {
	PointsRepository
	BadgeRepository
	BudgetAwardRepository
}
