package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
)

// trendLabel buckets a spending trend ratio for the model.
func trendLabel(trend float64) string {
	switch {
	case trend > 1.1:
		return "increasing"
	case trend > 0.9:
		return "stable"
	default:
		return "decreasing"
	}
}

// FormatFinancialContext renders the summary the LLM receives next to the question.
// Either argument may be nil.
func FormatFinancialContext(summary *domain.FinancialSummary, patterns *domain.SpendingPatterns) string {
	money := defaultAdvisorTemplates.money
	var parts []string

	if summary != nil && summary.ExpenseCount > 0 {
		parts = append(parts, fmt.Sprintf("Total spent %s across %d transactions.", money(summary.TotalExpenses), summary.ExpenseCount))
		if summary.TopCategory != "" {
			parts = append(parts, "Top category: "+summary.TopCategory)
		}
		parts = append(parts, "Average expense: "+money(summary.AverageExpense))

		breakdown := make([]string, 0, len(summary.Categories))
		for _, c := range summary.Categories {
			breakdown = append(breakdown, fmt.Sprintf("%s %s", c.Category, money(c.Total)))
		}
		if len(breakdown) > 0 {
			parts = append(parts, "Category breakdown: "+strings.Join(breakdown, ", ")+".")
		}
	}

	if summary != nil && summary.IncomeCount > 0 {
		parts = append(parts,
			fmt.Sprintf("Total income: %s from %d sources.", money(summary.TotalIncome), summary.IncomeCount),
			"Average income: "+money(summary.AverageIncome),
		)
		if summary.ExpenseCount > 0 {
			parts = append(parts, "Net balance: "+money(summary.NetBalance))
		}
	}

	if patterns != nil && summary != nil && summary.ExpenseCount > 0 {
		parts = append(parts, fmt.Sprintf("Spending patterns: peak on %s, trend: %s, top category: %s.",
			patterns.PeakSpendingDay, trendLabel(patterns.SpendingTrend), patterns.TopCategory))
	}

	return strings.Join(parts, " ")
}
