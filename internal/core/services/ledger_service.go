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
	"github.com/SscSPs/pocket_ledger_app/internal/events"
	"github.com/SscSPs/pocket_ledger_app/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxCategoryLength = 100

// Amounts are stored as NUMERIC(14, 2) on postgres.
var maxAmount = decimal.New(1, 12)

type ledgerService struct {
	BaseService
	repo      portsrepo.LedgerRepositoryFacade
	tx        portsrepo.TransactionManager
	publisher events.Publisher
	validate  *validator.Validate
}

// NewLedgerService creates the personal ledger service.
func NewLedgerService(repo portsrepo.LedgerRepositoryFacade, tx portsrepo.TransactionManager, publisher events.Publisher, opts ...ServiceOption) portssvc.LedgerSvcFacade {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ledgerService{
		BaseService: newBaseService(opts...),
		repo:        repo,
		tx:          tx,
		publisher:   publisher,
		validate:    validator.New(),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) entryDate(occurredOn time.Time) time.Time {
	if occurredOn.IsZero() {
		return domain.Today(s.Now())
	}
	return domain.Today(occurredOn)
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", apperrors.ErrInvalidInput)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("%w: amount must have at most 2 decimal places", apperrors.ErrInvalidInput)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: amount is too large", apperrors.ErrInvalidInput)
	}
	return nil
}

func validateCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", fmt.Errorf("%w: category is required", apperrors.ErrInvalidInput)
	}
	if len(category) > maxCategoryLength {
		return "", fmt.Errorf("%w: category must be at most %d characters", apperrors.ErrInvalidInput, maxCategoryLength)
	}
	return category, nil
}

func (s *ledgerService) newExpense(owner, category string, amount decimal.Decimal, occurredOn time.Time) (domain.Expense, error) {
	category, err := validateCategory(category)
	if err != nil {
		return domain.Expense{}, err
	}
	if err := validateAmount(amount); err != nil {
		return domain.Expense{}, err
	}
	return domain.Expense{
		Owner:       owner,
		Category:    category,
		Amount:      amount,
		OccurredOn:  s.entryDate(occurredOn),
		AuditFields: domain.AuditFields{CreatedAt: s.Now()},
	}, nil
}

func (s *ledgerService) newIncome(owner string, amount decimal.Decimal, occurredOn time.Time, source string) (domain.Income, error) {
	if err := validateAmount(amount); err != nil {
		return domain.Income{}, err
	}
	return domain.Income{
		Owner:       owner,
		Source:      strings.TrimSpace(source),
		Amount:      amount,
		OccurredOn:  s.entryDate(occurredOn),
		AuditFields: domain.AuditFields{CreatedAt: s.Now()},
	}, nil
}

func (s *ledgerService) RecordExpense(ctx context.Context, owner, category string, amount decimal.Decimal, occurredOn time.Time) (*domain.Expense, error) {
	expense, err := s.newExpense(owner, category, amount, occurredOn)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.SaveExpense(ctx, expense)
	if err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("category", expense.Category))
		return nil, err
	}

	metrics.LedgerEntries.WithLabelValues("expense").Inc()
	s.publish(ctx, s.publisher, events.ExpenseRecorded, saved)
	s.LogInfo(ctx, "Expense recorded", slog.Int64("expense_id", saved.ExpenseID), slog.String("category", saved.Category))
	return &saved, nil
}

func (s *ledgerService) RecordIncome(ctx context.Context, owner string, amount decimal.Decimal, occurredOn time.Time, source string) (*domain.Income, error) {
	income, err := s.newIncome(owner, amount, occurredOn, source)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.SaveIncome(ctx, income)
	if err != nil {
		s.LogError(ctx, err, "Failed to save income")
		return nil, err
	}

	metrics.LedgerEntries.WithLabelValues("income").Inc()
	s.publish(ctx, s.publisher, events.IncomeRecorded, saved)
	s.LogInfo(ctx, "Income recorded", slog.Int64("income_id", saved.IncomeID))
	return &saved, nil
}

func (s *ledgerService) DeleteExpense(ctx context.Context, owner string, expenseID int64) error {
	if err := s.repo.DeleteExpense(ctx, owner, expenseID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete expense", slog.Int64("expense_id", expenseID))
		}
		return err
	}
	s.LogInfo(ctx, "Expense deleted", slog.Int64("expense_id", expenseID))
	return nil
}

func (s *ledgerService) DeleteIncome(ctx context.Context, owner string, incomeID int64) error {
	if err := s.repo.DeleteIncome(ctx, owner, incomeID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete income", slog.Int64("income_id", incomeID))
		}
		return err
	}
	s.LogInfo(ctx, "Income deleted", slog.Int64("income_id", incomeID))
	return nil
}

func (s *ledgerService) ResetCurrentMonth(ctx context.Context, owner string, now time.Time) (domain.ResetSummary, error) {
	return s.deleteLedger(ctx, owner, domain.YearMonth(now))
}

func (s *ledgerService) DeleteAllUserData(ctx context.Context, owner string) (domain.ResetSummary, error) {
	return s.deleteLedger(ctx, owner, "")
}

// deleteLedger removes expenses and income of yearMonth (everything when empty) in one transaction.
func (s *ledgerService) deleteLedger(ctx context.Context, owner, yearMonth string) (domain.ResetSummary, error) {
	var summary domain.ResetSummary
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if summary.ExpensesDeleted, err = s.repo.DeleteExpenses(ctx, owner, yearMonth); err != nil {
			return err
		}
		summary.IncomeDeleted, err = s.repo.DeleteIncomeRows(ctx, owner, yearMonth)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete ledger rows", slog.String("month", yearMonth))
		return domain.ResetSummary{}, err
	}
	s.LogInfo(ctx, "Ledger rows deleted",
		slog.String("month", yearMonth),
		slog.Int64("expenses", summary.ExpensesDeleted),
		slog.Int64("income", summary.IncomeDeleted))
	return summary, nil
}

func normalizeFilter(filter domain.LedgerFilter) (domain.LedgerFilter, error) {
	ym, err := domain.ParseYearMonth(filter.YearMonth)
	if err != nil {
		return filter, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	filter.YearMonth = ym
	if filter.Limit < 0 {
		return filter, fmt.Errorf("%w: limit must not be negative", apperrors.ErrInvalidInput)
	}
	return filter, nil
}

func (s *ledgerService) ListExpenses(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.ExpensePage, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return domain.ExpensePage{}, err
	}
	page, err := s.repo.ListExpenses(ctx, owner, filter)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list expenses")
		}
		return domain.ExpensePage{}, err
	}
	if page.Expenses == nil {
		page.Expenses = []domain.Expense{}
	}
	return page, nil
}

func (s *ledgerService) ListIncome(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.IncomePage, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return domain.IncomePage{}, err
	}
	page, err := s.repo.ListIncome(ctx, owner, filter)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list income")
		}
		return domain.IncomePage{}, err
	}
	if page.Income == nil {
		page.Income = []domain.Income{}
	}
	return page, nil
}
