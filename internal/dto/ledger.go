package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest is the body of POST /expenses. Date is "YYYY-MM-DD" and defaults to today.
type CreateExpenseRequest struct {
	Category string           `json:"category" binding:"required,max=100"`
	Amount   *decimal.Decimal `json:"amount" binding:"required"`
	Date     string           `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// CreateIncomeRequest is the body of POST /income.
type CreateIncomeRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Date   string           `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Source string           `json:"source" binding:"max=100"`
}

// ListLedgerQuery binds the query string of the ledger listings.
type ListLedgerQuery struct {
	Month     string `form:"month"`
	Limit     int    `form:"limit" binding:"min=0,max=1000"`
	NextToken string `form:"nextToken"`
}

// ToFilter converts the query into a repository filter.
func (q ListLedgerQuery) ToFilter() domain.LedgerFilter {
	return domain.LedgerFilter{YearMonth: q.Month, Limit: q.Limit, NextToken: q.NextToken}
}

// ExpenseResponse is the wire form of an expense.
type ExpenseResponse struct {
	ExpenseID int64           `json:"expenseID"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
}

// IncomeResponse is the wire form of an income row.
type IncomeResponse struct {
	IncomeID  int64           `json:"incomeID"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Source    string          `json:"source,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListExpensesResponse is one page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken string            `json:"nextToken,omitempty"`
}

// ListIncomeResponse is one page of income.
type ListIncomeResponse struct {
	Income    []IncomeResponse `json:"income"`
	NextToken string           `json:"nextToken,omitempty"`
}

func ToExpenseResponse(e domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID: e.ExpenseID,
		Category:  e.Category,
		Amount:    e.Amount,
		Date:      e.OccurredOn.Format(domain.DateLayout),
		CreatedAt: e.CreatedAt,
	}
}

func ToIncomeResponse(i domain.Income) IncomeResponse {
	return IncomeResponse{
		IncomeID:  i.IncomeID,
		Amount:    i.Amount,
		Date:      i.OccurredOn.Format(domain.DateLayout),
		Source:    i.Source,
		CreatedAt: i.CreatedAt,
	}
}

func ToListExpensesResponse(page domain.ExpensePage) ListExpensesResponse {
	out := make([]ExpenseResponse, len(page.Expenses))
	for i, e := range page.Expenses {
		out[i] = ToExpenseResponse(e)
	}
	return ListExpensesResponse{Expenses: out, NextToken: page.NextToken}
}

func ToListIncomeResponse(page domain.IncomePage) ListIncomeResponse {
	out := make([]IncomeResponse, len(page.Income))
	for i, in := range page.Income {
		out[i] = ToIncomeResponse(in)
	}
	return ListIncomeResponse{Income: out, NextToken: page.NextToken}
}

// ParseOptionalDate parses a "YYYY-MM-DD" date; an empty string yields the zero time, which services read as today.
func ParseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return t, nil
}
