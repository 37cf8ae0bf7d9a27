package domain

import "github.com/shopspring/decimal"

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// FinancialSummary is the read model behind the dashboard and the advisor context.
type FinancialSummary struct {
	YearMonth      string          `json:"yearMonth,omitempty"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	NetBalance     decimal.Decimal `json:"netBalance"`
	ExpenseCount   int             `json:"expenseCount"`
	IncomeCount    int             `json:"incomeCount"`
	AverageExpense decimal.Decimal `json:"averageExpense"`
	AverageIncome  decimal.Decimal `json:"averageIncome"`
	TopCategory    string          `json:"topCategory,omitempty"`
	Categories     []CategoryTotal `json:"categories"`
	MonthSpend     decimal.Decimal `json:"monthSpend"`
	SavingsRate    decimal.Decimal `json:"savingsRate"`
}

// Severity grades an unusual expense.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Anomaly is an expense whose amount deviates from its category mean.
type Anomaly struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	ZScore   float64         `json:"zScore"`
	Severity Severity        `json:"severity"`
}

// SpendingPatterns summarises when and how a user spends.
type SpendingPatterns struct {
	PeakSpendingDay string          `json:"peakSpendingDay"`
	AvgDailySpend   decimal.Decimal `json:"avgDailySpend"`
	TopCategory     string          `json:"topCategory"`
	SpendingTrend   float64         `json:"spendingTrend"`
	Unusual         []Anomaly       `json:"unusualExpenses"`
}

// InsightType classifies a budget insight.
type InsightType string

const (
	InsightWarning  InsightType = "warning"
	InsightPositive InsightType = "positive"
	InsightInfo     InsightType = "insight"
	InsightAlert    InsightType = "alert"
)

// Insight is a short budget observation with a suggestion.
type Insight struct {
	Type       InsightType `json:"type"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion"`
}
