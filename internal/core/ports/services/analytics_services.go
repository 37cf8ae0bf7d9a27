package services

import (
	"context"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
)

// AnalyticsSvc computes read-side summaries over an owner's ledger.
type AnalyticsSvc interface {
	Summary(ctx context.Context, owner, yearMonth string) (*domain.FinancialSummary, error)
	Categories(ctx context.Context, owner, yearMonth string) ([]domain.CategoryTotal, error)
	Patterns(ctx context.Context, owner string) (*domain.SpendingPatterns, error)
	Insights(ctx context.Context, owner string) ([]domain.Insight, error)
}

// AdvisorSvc answers free-form finance questions.
type AdvisorSvc interface {
	Ask(ctx context.Context, owner, question string) (*domain.AdvisorReply, error)
}

// ReceiptSvc turns receipts into recorded expenses.
type ReceiptSvc interface {
	// Scan extracts text from an image, parses it and records the expense.
	Scan(ctx context.Context, owner, filename string, image []byte) (*domain.ReceiptScan, error)
	// ScanText parses already-extracted receipt text and records the expense.
	ScanText(ctx context.Context, owner, text string) (*domain.ReceiptScan, error)
}
