package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/SscSPs/pocket_ledger_app/internal/events"
	"github.com/SscSPs/pocket_ledger_app/internal/metrics"
	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"github.com/go-playground/validator/v10"
)

var (
	expenseCSVHeader = []string{"date", "category", "amount"}
	incomeCSVHeader  = []string{"date", "amount", "source"}
)

// maxImportRows bounds a single import so one upload cannot hold the write lock for long.
const maxImportRows = 10000

type expenseCSVRow struct {
	Date     string `validate:"required,datetime=2006-01-02"`
	Category string `validate:"required,max=100"`
	Amount   string `validate:"required,numeric"`
}

type incomeCSVRow struct {
	Date   string `validate:"required,datetime=2006-01-02"`
	Amount string `validate:"required,numeric"`
	Source string `validate:"max=100"`
}

func (s *ledgerService) ExportExpensesCSV(ctx context.Context, owner string, w io.Writer) error {
	page, err := s.repo.ListExpenses(ctx, owner, domain.LedgerFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to load expenses for export")
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(expenseCSVHeader); err != nil {
		return err
	}
	for _, e := range page.Expenses {
		if err := cw.Write([]string{e.OccurredOn.Format(domain.DateLayout), e.Category, utils.FormatAmount(e.Amount)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *ledgerService) ExportIncomeCSV(ctx context.Context, owner string, w io.Writer) error {
	page, err := s.repo.ListIncome(ctx, owner, domain.LedgerFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to load income for export")
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(incomeCSVHeader); err != nil {
		return err
	}
	for _, i := range page.Income {
		if err := cw.Write([]string{i.OccurredOn.Format(domain.DateLayout), utils.FormatAmount(i.Amount), i.Source}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSV returns the data records of r with their 1-based line numbers, skipping a header row equal to header.
func readCSV(r io.Reader, header []string) ([][]string, []int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
	)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: malformed csv: %v", apperrors.ErrInvalidInput, err)
		}
		if line == 1 && isHeader(rec, header) {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(records) == maxImportRows {
			return nil, nil, fmt.Errorf("%w: at most %d rows can be imported at once", apperrors.ErrInvalidInput, maxImportRows)
		}
		records = append(records, rec)
		lines = append(lines, line)
	}
	return records, lines, nil
}

func isHeader(rec, header []string) bool {
	if len(rec) < len(header) {
		return false
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), h) {
			return false
		}
	}
	return true
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

func rowError(line int, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: row %d: %s is invalid", apperrors.ErrInvalidInput, line, strings.ToLower(verrs[0].Field()))
	}
	if errors.Is(err, apperrors.ErrInvalidInput) {
		return fmt.Errorf("row %d: %w", line, err)
	}
	return fmt.Errorf("%w: row %d: %v", apperrors.ErrInvalidInput, line, err)
}

func (s *ledgerService) ImportExpensesCSV(ctx context.Context, owner string, r io.Reader) (domain.ImportSummary, error) {
	records, lines, err := readCSV(r, expenseCSVHeader)
	if err != nil {
		return domain.ImportSummary{}, err
	}

	expenses := make([]domain.Expense, 0, len(records))
	for i, rec := range records {
		row := expenseCSVRow{Date: field(rec, 0), Category: field(rec, 1), Amount: field(rec, 2)}
		if err := s.validate.Struct(row); err != nil {
			return domain.ImportSummary{}, rowError(lines[i], err)
		}
		date, _ := domain.ParseDate(row.Date)
		amount, err := utils.ParseAmount(row.Amount)
		if err != nil {
			return domain.ImportSummary{}, rowError(lines[i], err)
		}
		expense, err := s.newExpense(owner, row.Category, amount, date)
		if err != nil {
			return domain.ImportSummary{}, rowError(lines[i], err)
		}
		expenses = append(expenses, expense)
	}

	saved := make([]domain.Expense, 0, len(expenses))
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, e := range expenses {
			out, err := s.repo.SaveExpense(ctx, e)
			if err != nil {
				return err
			}
			saved = append(saved, out)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to import expenses")
		return domain.ImportSummary{}, err
	}

	for _, e := range saved {
		s.publish(ctx, s.publisher, events.ExpenseRecorded, e)
	}
	metrics.LedgerEntries.WithLabelValues("expense").Add(float64(len(saved)))
	s.LogInfo(ctx, "Expenses imported", slog.Int("count", len(saved)))
	return domain.ImportSummary{Imported: len(saved)}, nil
}

func (s *ledgerService) ImportIncomeCSV(ctx context.Context, owner string, r io.Reader) (domain.ImportSummary, error) {
	records, lines, err := readCSV(r, incomeCSVHeader)
	if err != nil {
		return domain.ImportSummary{}, err
	}

	income := make([]domain.Income, 0, len(records))
	for i, rec := range records {
		row := incomeCSVRow{Date: field(rec, 0), Amount: field(rec, 1), Source: field(rec, 2)}
		if err := s.validate.Struct(row); err != nil {
			return domain.ImportSummary{}, rowError(lines[i], err)
		}
		date, _ := domain.ParseDate(row.Date)
		amount, err := utils.ParseAmount(row.Amount)
		if err != nil {
			return domain.ImportSummary{}, rowError(lines[i], err)
		}
		entry, err := s.newIncome(owner, amount, date, row.Source)
		if err != nil {
			return domain.ImportSummary{}, rowError(lines[i], err)
		}
		income = append(income, entry)
	}

	saved := make([]domain.Income, 0, len(income))
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, in := range income {
			out, err := s.repo.SaveIncome(ctx, in)
			if err != nil {
				return err
			}
			saved = append(saved, out)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to import income")
		return domain.ImportSummary{}, err
	}

	for _, in := range saved {
		s.publish(ctx, s.publisher, events.IncomeRecorded, in)
	}
	metrics.LedgerEntries.WithLabelValues("income").Add(float64(len(saved)))
	s.LogInfo(ctx, "Income imported", slog.Int("count", len(saved)))
	return domain.ImportSummary{Imported: len(saved)}, nil
}
