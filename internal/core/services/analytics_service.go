package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/utils/aggregation"
	"golang.org/x/sync/errgroup"
)

type analyticsService struct {
	BaseService
	ledger portsrepo.LedgerRepositoryFacade
}

// NewAnalyticsService creates the read-side analytics service.
func NewAnalyticsService(ledger portsrepo.LedgerRepositoryFacade, opts ...ServiceOption) portssvc.AnalyticsSvc {
	return &analyticsService{
		BaseService: newBaseService(opts...),
		ledger:      ledger,
	}
}

var _ portssvc.AnalyticsSvc = (*analyticsService)(nil)

// ledgerSnapshot is every expense and income row of one owner.
type ledgerSnapshot struct {
	expenses []domain.Expense
	income   []domain.Income
}

// loadLedgerSnapshot reads both ledger tables concurrently.
func loadLedgerSnapshot(ctx context.Context, ledger portsrepo.LedgerRepositoryFacade, owner string) (ledgerSnapshot, error) {
	var snap ledgerSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := ledger.ListExpenses(gctx, owner, domain.LedgerFilter{})
		snap.expenses = page.Expenses
		return err
	})
	g.Go(func() error {
		page, err := ledger.ListIncome(gctx, owner, domain.LedgerFilter{})
		snap.income = page.Income
		return err
	})
	if err := g.Wait(); err != nil {
		return ledgerSnapshot{}, err
	}
	return snap, nil
}

func (s *analyticsService) load(ctx context.Context, owner string) (ledgerSnapshot, error) {
	snap, err := loadLedgerSnapshot(ctx, s.ledger, owner)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for analytics")
	}
	return snap, err
}

func parseMonth(yearMonth string) (string, error) {
	ym, err := domain.ParseYearMonth(yearMonth)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return ym, nil
}

func (s *analyticsService) Summary(ctx context.Context, owner, yearMonth string) (*domain.FinancialSummary, error) {
	ym, err := parseMonth(yearMonth)
	if err != nil {
		return nil, err
	}
	snap, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return summarize(snap, ym, s.Now()), nil
}

func (s *analyticsService) Categories(ctx context.Context, owner, yearMonth string) ([]domain.CategoryTotal, error) {
	ym, err := parseMonth(yearMonth)
	if err != nil {
		return nil, err
	}
	page, err := s.ledger.ListExpenses(ctx, owner, domain.LedgerFilter{YearMonth: ym})
	if err != nil {
		s.LogError(ctx, err, "Failed to load expenses for categories")
		return nil, err
	}
	return aggregation.ByCategory(page.Expenses), nil
}

func (s *analyticsService) Patterns(ctx context.Context, owner string) (*domain.SpendingPatterns, error) {
	page, err := s.ledger.ListExpenses(ctx, owner, domain.LedgerFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to load expenses for patterns")
		return nil, err
	}
	patterns := aggregation.DetectPatterns(page.Expenses)
	return &patterns, nil
}

func (s *analyticsService) Insights(ctx context.Context, owner string) ([]domain.Insight, error) {
	patterns, err := s.Patterns(ctx, owner)
	if err != nil {
		return nil, err
	}
	return aggregation.BudgetInsights(*patterns), nil
}
