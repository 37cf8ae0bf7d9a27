package repositories

import (
	"context"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// ListExpenses returns owner's expenses ordered by occurred_on then id.
	// filter.NextToken continues from the previous page.
	ListExpenses(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.ExpensePage, error)

	// SumExpenses totals owner's expenses in yearMonth, or all time when yearMonth is empty.
	SumExpenses(ctx context.Context, owner, yearMonth string) (decimal.Decimal, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpense inserts the expense and returns it with its assigned id.
	SaveExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error)

	// DeleteExpense removes one of owner's expenses; apperrors.ErrNotFound otherwise.
	DeleteExpense(ctx context.Context, owner string, expenseID int64) error

	// DeleteExpenses removes owner's expenses in yearMonth, or all of them when yearMonth is empty.
	DeleteExpenses(ctx context.Context, owner, yearMonth string) (int64, error)
}

// IncomeReader defines read operations for income data
type IncomeReader interface {
	ListIncome(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.IncomePage, error)
}

// IncomeWriter defines write operations for income data
type IncomeWriter interface {
	SaveIncome(ctx context.Context, income domain.Income) (domain.Income, error)
	DeleteIncome(ctx context.Context, owner string, incomeID int64) error
	DeleteIncomeRows(ctx context.Context, owner, yearMonth string) (int64, error)
}

// LedgerRepositoryFacade combines expense and income access.
type LedgerRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
	IncomeReader
	IncomeWriter
}
