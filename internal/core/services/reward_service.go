package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/events"
	"github.com/SscSPs/pocket_ledger_app/internal/metrics"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/config"
	"github.com/shopspring/decimal"
)

// RewardConfig selects how the monthly budget check sums and awards.
type RewardConfig struct {
	// BudgetScope is config.BudgetScopeAllTime or config.BudgetScopeCurrentMonth.
	BudgetScope string
	// AwardPolicy is config.AwardPolicyOncePerPeriod or config.AwardPolicyEveryCheck.
	AwardPolicy string
}

// BadgeAwardedEvent is the payload of events.BadgeAwarded.
type BadgeAwardedEvent struct {
	Owner  string `json:"owner"`
	Badge  string `json:"badge"`
	Points int64  `json:"points"`
	Period string `json:"period"`
}

type rewardService struct {
	BaseService
	rewards   portsrepo.RewardRepositoryFacade
	expenses  portsrepo.ExpenseReader
	tx        portsrepo.TransactionManager
	publisher events.Publisher
	cfg       RewardConfig
	locks     *ownerLocks
}

// NewRewardService creates the points, badges and budget check service.
func NewRewardService(rewards portsrepo.RewardRepositoryFacade, expenses portsrepo.ExpenseReader, tx portsrepo.TransactionManager, publisher events.Publisher, cfg RewardConfig, opts ...ServiceOption) portssvc.RewardSvcFacade {
	if cfg.BudgetScope == "" {
		cfg.BudgetScope = config.BudgetScopeAllTime
	}
	if cfg.AwardPolicy == "" {
		cfg.AwardPolicy = config.AwardPolicyOncePerPeriod
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &rewardService{
		BaseService: newBaseService(opts...),
		rewards:     rewards,
		expenses:    expenses,
		tx:          tx,
		publisher:   publisher,
		cfg:         cfg,
		locks:       newOwnerLocks(),
	}
}

var _ portssvc.RewardSvcFacade = (*rewardService)(nil)

func (s *rewardService) AddPoints(ctx context.Context, owner string, delta int64) (int64, error) {
	if delta <= 0 {
		return 0, fmt.Errorf("%w: points delta must be positive", apperrors.ErrInvalidInput)
	}
	balance, err := s.rewards.IncrementPoints(ctx, owner, delta)
	if err != nil {
		s.LogError(ctx, err, "Failed to add points", slog.Int64("delta", delta))
		return 0, err
	}
	return balance, nil
}

func (s *rewardService) GetPoints(ctx context.Context, owner string) (int64, error) {
	points, err := s.rewards.GetPoints(ctx, owner)
	if err != nil {
		s.LogError(ctx, err, "Failed to get points")
		return 0, err
	}
	return points, nil
}

func (s *rewardService) AwardBadge(ctx context.Context, owner, badgeName string) (*domain.Badge, error) {
	badgeName = strings.TrimSpace(badgeName)
	if badgeName == "" {
		return nil, fmt.Errorf("%w: badge name is required", apperrors.ErrInvalidInput)
	}
	badge, err := s.rewards.SaveBadge(ctx, domain.Badge{Owner: owner, Name: badgeName, EarnedOn: domain.Today(s.Now())})
	if err != nil {
		s.LogError(ctx, err, "Failed to award badge", slog.String("badge", badgeName))
		return nil, err
	}
	return &badge, nil
}

func (s *rewardService) GetBadges(ctx context.Context, owner string) ([]domain.Badge, error) {
	badges, err := s.rewards.ListBadges(ctx, owner)
	if err != nil {
		s.LogError(ctx, err, "Failed to list badges")
		return nil, err
	}
	if badges == nil {
		return []domain.Badge{}, nil
	}
	return badges, nil
}

func (s *rewardService) CheckMonthlyBudget(ctx context.Context, owner string, limit decimal.Decimal) (*domain.BudgetCheckResult, error) {
	if limit.IsNegative() {
		return nil, fmt.Errorf("%w: budget limit must not be negative", apperrors.ErrInvalidInput)
	}

	unlock := s.locks.Lock(owner)
	defer unlock()

	now := s.Now()
	period := domain.YearMonth(now)
	result := &domain.BudgetCheckResult{
		Owner:  owner,
		Limit:  limit,
		Scope:  s.cfg.BudgetScope,
		Period: period,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		month := ""
		if s.cfg.BudgetScope == config.BudgetScopeCurrentMonth {
			month = period
		}
		total, err := s.expenses.SumExpenses(ctx, owner, month)
		if err != nil {
			return err
		}
		result.Total = total
		if total.GreaterThan(limit) {
			return nil
		}

		if s.cfg.AwardPolicy == config.AwardPolicyOncePerPeriod {
			claimed, err := s.rewards.HasBudgetAward(ctx, owner, domain.BudgetBossBadge, period)
			if err != nil {
				return err
			}
			if claimed {
				result.AlreadyAwarded = true
				return nil
			}
			if err := s.rewards.InsertBudgetAward(ctx, owner, domain.BudgetBossBadge, period, now.Unix()); err != nil {
				if errors.Is(err, apperrors.ErrDuplicate) {
					return apperrors.ErrConcurrentAwardRace
				}
				return err
			}
		}

		if _, err := s.rewards.IncrementPoints(ctx, owner, domain.BudgetAwardPoints); err != nil {
			return err
		}
		if _, err := s.rewards.SaveBadge(ctx, domain.Badge{Owner: owner, Name: domain.BudgetBossBadge, EarnedOn: domain.Today(now)}); err != nil {
			return err
		}
		result.Awarded = true
		result.PointsAwarded = domain.BudgetAwardPoints
		result.Badge = domain.BudgetBossBadge
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConcurrentAwardRace) {
			metrics.BudgetChecks.WithLabelValues(metrics.OutcomeRace).Inc()
			s.LogWarn(ctx, "Budget award claimed by a concurrent check", slog.String("period", period))
			return nil, err
		}
		metrics.BudgetChecks.WithLabelValues(metrics.OutcomeError).Inc()
		s.LogError(ctx, err, "Monthly budget check failed", slog.String("period", period))
		return nil, err
	}

	switch {
	case result.Awarded:
		metrics.BudgetChecks.WithLabelValues(metrics.OutcomeAwarded).Inc()
		s.publish(ctx, s.publisher, events.BadgeAwarded, BadgeAwardedEvent{
			Owner:  owner,
			Badge:  result.Badge,
			Points: result.PointsAwarded,
			Period: period,
		})
		s.LogInfo(ctx, "Budget badge awarded", slog.String("period", period), slog.String("total", result.Total.String()))
	case result.AlreadyAwarded:
		metrics.BudgetChecks.WithLabelValues(metrics.OutcomeAlreadyAwarded).Inc()
	default:
		metrics.BudgetChecks.WithLabelValues(metrics.OutcomeOverLimit).Inc()
	}
	return result, nil
}
