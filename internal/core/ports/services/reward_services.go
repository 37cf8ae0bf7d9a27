package services

import (
	"context"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RewardSvcFacade manages points, badges and the monthly budget check.
type RewardSvcFacade interface {
	// AddPoints only accepts positive deltas and returns the new balance.
	AddPoints(ctx context.Context, owner string, delta int64) (int64, error)
	GetPoints(ctx context.Context, owner string) (int64, error)

	AwardBadge(ctx context.Context, owner, badgeName string) (*domain.Badge, error)
	GetBadges(ctx context.Context, owner string) ([]domain.Badge, error)

	// CheckMonthlyBudget is serialized per owner and runs in one transaction.
	CheckMonthlyBudget(ctx context.Context, owner string, limit decimal.Decimal) (*domain.BudgetCheckResult, error)
}
