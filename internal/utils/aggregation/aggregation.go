// Package aggregation holds the read-side summaries computed over already-fetched ledger records.
// Nothing here touches storage.
package aggregation

import (
	"sort"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Amounted is any record carrying an amount.
type Amounted interface {
	GetAmount() decimal.Decimal
}

// Dated is an amounted record with a calendar date.
type Dated interface {
	Amounted
	GetDate() time.Time
}

// Categorized is an amounted record with a category.
type Categorized interface {
	Amounted
	GetCategory() string
}

// Total sums the amounts of items.
func Total[T Amounted](items []T) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.GetAmount())
	}
	return sum
}

// Mean is the average amount rounded to cents, zero for no items.
func Mean[T Amounted](items []T) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}
	return Total(items).Div(decimal.NewFromInt(int64(len(items)))).Round(2)
}

// ByCategory groups amounts by category, largest first; equal totals are ordered by name.
func ByCategory[T Categorized](items []T) []domain.CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, it := range items {
		totals[it.GetCategory()] = totals[it.GetCategory()].Add(it.GetAmount())
	}

	out := make([]domain.CategoryTotal, 0, len(totals))
	for cat, total := range totals {
		out = append(out, domain.CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopCategory returns the category with the largest total.
// Ties go to the lexicographically smallest name. ok is false when items is empty.
func TopCategory[T Categorized](items []T) (string, bool) {
	breakdown := ByCategory(items)
	if len(breakdown) == 0 {
		return "", false
	}
	return breakdown[0].Category, true
}

// FilterMonth keeps the items whose date falls in yearMonth ("2024-03").
// An empty yearMonth keeps everything.
func FilterMonth[T Dated](items []T, yearMonth string) []T {
	if yearMonth == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if domain.YearMonth(it.GetDate()) == yearMonth {
			out = append(out, it)
		}
	}
	return out
}

// MonthTotal sums the items dated in the same year-month as now.
func MonthTotal[T Dated](items []T, now time.Time) decimal.Decimal {
	return Total(FilterMonth(items, domain.YearMonth(now)))
}

// SavingsRate is (income - expenses) / income rounded to 4 places, zero without income.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(expenses).Div(income).Round(4)
}
