package services

import (
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/SscSPs/pocket_ledger_app/internal/utils/aggregation"
)

// summarize builds the dashboard read model. yearMonth narrows every figure except
// MonthSpend, which always covers the month containing now.
func summarize(snap ledgerSnapshot, yearMonth string, now time.Time) *domain.FinancialSummary {
	expenses := aggregation.FilterMonth(snap.expenses, yearMonth)
	income := aggregation.FilterMonth(snap.income, yearMonth)

	totalExpenses := aggregation.Total(expenses)
	totalIncome := aggregation.Total(income)
	top, _ := aggregation.TopCategory(expenses)

	return &domain.FinancialSummary{
		YearMonth:      yearMonth,
		TotalExpenses:  totalExpenses,
		TotalIncome:    totalIncome,
		NetBalance:     totalIncome.Sub(totalExpenses),
		ExpenseCount:   len(expenses),
		IncomeCount:    len(income),
		AverageExpense: aggregation.Mean(expenses),
		AverageIncome:  aggregation.Mean(income),
		TopCategory:    top,
		Categories:     aggregation.ByCategory(expenses),
		MonthSpend:     aggregation.MonthTotal(snap.expenses, now),
		SavingsRate:    aggregation.SavingsRate(totalIncome, totalExpenses),
	}
}
