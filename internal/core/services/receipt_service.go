package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/metrics"
	"github.com/SscSPs/pocket_ledger_app/internal/ocr"
)

// MaxReceiptImageBytes bounds uploaded receipt images.
const MaxReceiptImageBytes = 10 << 20

type receiptService struct {
	BaseService
	extractor ocr.Extractor
	ledger    portssvc.LedgerWriterSvc
}

// NewReceiptService creates the receipt scanner. extractor may be nil when no OCR
// endpoint is configured; Scan then fails while ScanText keeps working.
func NewReceiptService(extractor ocr.Extractor, ledger portssvc.LedgerWriterSvc, opts ...ServiceOption) portssvc.ReceiptSvc {
	return &receiptService{
		BaseService: newBaseService(opts...),
		extractor:   extractor,
		ledger:      ledger,
	}
}

var _ portssvc.ReceiptSvc = (*receiptService)(nil)

func (s *receiptService) Scan(ctx context.Context, owner, filename string, image []byte) (*domain.ReceiptScan, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: receipt image is empty", apperrors.ErrInvalidInput)
	}
	if len(image) > MaxReceiptImageBytes {
		return nil, fmt.Errorf("%w: receipt image is larger than %d bytes", apperrors.ErrInvalidInput, MaxReceiptImageBytes)
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("receipt scanning is not configured: %w", apperrors.ErrCollaboratorUnavailable)
	}

	text, err := s.extractor.ExtractText(ctx, filename, image)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("ocr", "extract").Inc()
		s.LogWarn(ctx, "Receipt text extraction failed", slog.String("error", err.Error()))
		return nil, err
	}
	return s.ScanText(ctx, owner, text)
}

func (s *receiptService) ScanText(ctx context.Context, owner, text string) (*domain.ReceiptScan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: receipt text is empty", apperrors.ErrInvalidInput)
	}

	guess := ocr.ParseReceipt(text, s.Now())
	expense, err := s.ledger.RecordExpense(ctx, owner, guess.Vendor, guess.Amount, guess.Date)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Receipt recorded as expense",
		slog.String("vendor", guess.Vendor),
		slog.Bool("amount_found", guess.AmountFound),
		slog.Bool("date_found", guess.DateFound))
	return &domain.ReceiptScan{Guess: guess, Expense: *expense}, nil
}
