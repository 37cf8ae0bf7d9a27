package services

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerWriterSvc records and removes personal ledger entries.
type LedgerWriterSvc interface {
	// RecordExpense rejects an empty category or a negative amount with apperrors.ErrInvalidInput.
	// A zero occurredOn means today.
	RecordExpense(ctx context.Context, owner, category string, amount decimal.Decimal, occurredOn time.Time) (*domain.Expense, error)
	RecordIncome(ctx context.Context, owner string, amount decimal.Decimal, occurredOn time.Time, source string) (*domain.Income, error)

	DeleteExpense(ctx context.Context, owner string, expenseID int64) error
	DeleteIncome(ctx context.Context, owner string, incomeID int64) error

	// ResetCurrentMonth deletes the month containing now, expenses and income together.
	ResetCurrentMonth(ctx context.Context, owner string, now time.Time) (domain.ResetSummary, error)
	DeleteAllUserData(ctx context.Context, owner string) (domain.ResetSummary, error)
}

// LedgerReaderSvc lists ledger entries in (date, id) order.
type LedgerReaderSvc interface {
	ListExpenses(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.ExpensePage, error)
	ListIncome(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.IncomePage, error)
}

// LedgerCSVSvc moves ledger entries in and out as CSV.
type LedgerCSVSvc interface {
	ExportExpensesCSV(ctx context.Context, owner string, w io.Writer) error
	// ImportExpensesCSV validates every row before inserting any of them.
	ImportExpensesCSV(ctx context.Context, owner string, r io.Reader) (domain.ImportSummary, error)
	ExportIncomeCSV(ctx context.Context, owner string, w io.Writer) error
	ImportIncomeCSV(ctx context.Context, owner string, r io.Reader) (domain.ImportSummary, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
	LedgerCSVSvc
}
