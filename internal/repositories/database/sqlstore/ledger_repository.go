package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_ledger_app/internal/models"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
	"github.com/SscSPs/pocket_ledger_app/internal/utils/mapping"
	"github.com/SscSPs/pocket_ledger_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type LedgerRepository struct {
	BaseRepository
}

func newLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{BaseRepository{DB: db}}
}

var _ portsrepo.LedgerRepositoryFacade = (*LedgerRepository)(nil)

// ledgerQuery builds the shared owner/month/cursor filter of both ledger tables.
// One extra row is fetched to tell whether another page exists.
func ledgerQuery(columns, table, owner string, filter domain.LedgerFilter) (string, []any, error) {
	var sb strings.Builder
	args := []any{owner}

	sb.WriteString("SELECT " + columns + " FROM " + table + " WHERE owner = ?")
	if filter.YearMonth != "" {
		sb.WriteString(" AND occurred_on LIKE ?")
		args = append(args, monthPattern(filter.YearMonth))
	}
	if filter.NextToken != "" {
		lastDate, lastID, err := pagination.DecodeLedgerToken(filter.NextToken)
		if err != nil {
			return "", nil, apperrors.NewAppError(400, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		}
		day := lastDate.Format(domain.DateLayout)
		sb.WriteString(" AND (occurred_on > ? OR (occurred_on = ? AND id > ?))")
		args = append(args, day, day, lastID)
	}
	sb.WriteString(" ORDER BY occurred_on ASC, id ASC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit+1)
	}
	return sb.String(), args, nil
}

func (r *LedgerRepository) SaveExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	m := mapping.ToModelExpense(expense)
	err := r.queryRow(ctx, `
		INSERT INTO expenses (owner, category, amount, occurred_on, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		m.Owner, m.Category, m.Amount, m.OccurredOn, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("failed to save expense: %w", err)
	}
	return mapping.ToDomainExpense(m), nil
}

func (r *LedgerRepository) ListExpenses(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.ExpensePage, error) {
	q, args, err := ledgerQuery("id, owner, category, amount, occurred_on, created_at", "expenses", owner, filter)
	if err != nil {
		return domain.ExpensePage{}, err
	}
	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return domain.ExpensePage{}, fmt.Errorf("failed to query expenses for %s: %w", owner, err)
	}
	defer rows.Close()

	ms := make([]models.Expense, 0)
	for rows.Next() {
		var m models.Expense
		if err := rows.Scan(&m.ID, &m.Owner, &m.Category, &m.Amount, &m.OccurredOn, &m.CreatedAt); err != nil {
			return domain.ExpensePage{}, fmt.Errorf("failed to scan expense row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return domain.ExpensePage{}, fmt.Errorf("error iterating expense rows: %w", err)
	}

	page := domain.ExpensePage{}
	if filter.Limit > 0 && len(ms) > filter.Limit {
		ms = ms[:filter.Limit]
		last := mapping.ToDomainExpense(ms[len(ms)-1])
		page.NextToken = pagination.EncodeLedgerToken(last.OccurredOn, last.ExpenseID)
	}
	page.Expenses = mapping.ToDomainExpenseSlice(ms)
	return page, nil
}

// SumExpenses adds amounts in Go so decimal precision is the same on both dialects.
func (r *LedgerRepository) SumExpenses(ctx context.Context, owner, yearMonth string) (decimal.Decimal, error) {
	q := `SELECT amount FROM expenses WHERE owner = ?`
	args := []any{owner}
	if yearMonth != "" {
		q += ` AND occurred_on LIKE ?`
		args = append(args, monthPattern(yearMonth))
	}
	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses for %s: %w", owner, err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan expense amount: %w", err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("error iterating expense amounts: %w", err)
	}
	return total, nil
}

func (r *LedgerRepository) DeleteExpense(ctx context.Context, owner string, expenseID int64) error {
	return r.deleteOne(ctx, "expenses", owner, expenseID)
}

func (r *LedgerRepository) DeleteExpenses(ctx context.Context, owner, yearMonth string) (int64, error) {
	return r.deleteMany(ctx, "expenses", owner, yearMonth)
}

func (r *LedgerRepository) SaveIncome(ctx context.Context, income domain.Income) (domain.Income, error) {
	m := mapping.ToModelIncome(income)
	err := r.queryRow(ctx, `
		INSERT INTO income (owner, source, amount, occurred_on, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		m.Owner, m.Source, m.Amount, m.OccurredOn, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return domain.Income{}, fmt.Errorf("failed to save income: %w", err)
	}
	return mapping.ToDomainIncome(m), nil
}

func (r *LedgerRepository) ListIncome(ctx context.Context, owner string, filter domain.LedgerFilter) (domain.IncomePage, error) {
	q, args, err := ledgerQuery("id, owner, source, amount, occurred_on, created_at", "income", owner, filter)
	if err != nil {
		return domain.IncomePage{}, err
	}
	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return domain.IncomePage{}, fmt.Errorf("failed to query income for %s: %w", owner, err)
	}
	defer rows.Close()

	ms := make([]models.Income, 0)
	for rows.Next() {
		var m models.Income
		if err := rows.Scan(&m.ID, &m.Owner, &m.Source, &m.Amount, &m.OccurredOn, &m.CreatedAt); err != nil {
			return domain.IncomePage{}, fmt.Errorf("failed to scan income row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return domain.IncomePage{}, fmt.Errorf("error iterating income rows: %w", err)
	}

	page := domain.IncomePage{}
	if filter.Limit > 0 && len(ms) > filter.Limit {
		ms = ms[:filter.Limit]
		last := mapping.ToDomainIncome(ms[len(ms)-1])
		page.NextToken = pagination.EncodeLedgerToken(last.OccurredOn, last.IncomeID)
	}
	page.Income = mapping.ToDomainIncomeSlice(ms)
	return page, nil
}

func (r *LedgerRepository) DeleteIncome(ctx context.Context, owner string, incomeID int64) error {
	return r.deleteOne(ctx, "income", owner, incomeID)
}

func (r *LedgerRepository) DeleteIncomeRows(ctx context.Context, owner, yearMonth string) (int64, error) {
	return r.deleteMany(ctx, "income", owner, yearMonth)
}

func (r *LedgerRepository) deleteOne(ctx context.Context, table, owner string, id int64) error {
	res, err := r.exec(ctx, "DELETE FROM "+table+" WHERE id = ? AND owner = ?", id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *LedgerRepository) deleteMany(ctx context.Context, table, owner, yearMonth string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if yearMonth == "" {
		res, err = r.exec(ctx, "DELETE FROM "+table+" WHERE owner = ?", owner)
	} else {
		res, err = r.exec(ctx, "DELETE FROM "+table+" WHERE owner = ? AND occurred_on LIKE ?", owner, monthPattern(yearMonth))
	}
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s for %s: %w", table, owner, err)
	}
	return res.RowsAffected()
}
