package aggregation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NotAvailable fills text fields of patterns computed over no data.
const NotAvailable = "N/A"

const (
	anomalyZ     = 2.0
	highAnomalyZ = 3.0

	trendWarning  = 1.2
	trendPositive = 0.8
)

// weekdays in Monday-first order; ties on peak day go to the earlier entry.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// DetectPatterns computes peak weekday, average daily spend, top category, trend and anomalies.
func DetectPatterns(expenses []domain.Expense) domain.SpendingPatterns {
	if len(expenses) == 0 {
		return domain.SpendingPatterns{
			PeakSpendingDay: NotAvailable,
			AvgDailySpend:   decimal.Zero,
			TopCategory:     NotAvailable,
			SpendingTrend:   1,
			Unusual:         []domain.Anomaly{},
		}
	}

	sorted := chronological(expenses)
	top, _ := TopCategory(sorted)

	return domain.SpendingPatterns{
		PeakSpendingDay: peakWeekday(sorted).String(),
		AvgDailySpend:   avgDailySpend(sorted),
		TopCategory:     top,
		SpendingTrend:   trend(sorted),
		Unusual:         anomalies(sorted),
	}
}

func chronological(expenses []domain.Expense) []domain.Expense {
	out := append([]domain.Expense(nil), expenses...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredOn.Equal(out[j].OccurredOn) {
			return out[i].OccurredOn.Before(out[j].OccurredOn)
		}
		return out[i].ExpenseID < out[j].ExpenseID
	})
	return out
}

func peakWeekday(expenses []domain.Expense) time.Weekday {
	totals := make(map[time.Weekday]decimal.Decimal)
	for _, e := range expenses {
		totals[e.OccurredOn.Weekday()] = totals[e.OccurredOn.Weekday()].Add(e.Amount)
	}
	best := time.Monday
	bestTotal := decimal.NewFromInt(-1)
	for _, d := range weekdays {
		if t, ok := totals[d]; ok && t.GreaterThan(bestTotal) {
			best, bestTotal = d, t
		}
	}
	return best
}

func avgDailySpend(expenses []domain.Expense) decimal.Decimal {
	perDay := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		key := e.OccurredOn.Format(domain.DateLayout)
		perDay[key] = perDay[key].Add(e.Amount)
	}
	sum := decimal.Zero
	for _, v := range perDay {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(perDay)))).Round(2)
}

// trend compares the mean amount of the later half of the records with the earlier half.
func trend(expenses []domain.Expense) float64 {
	half := len(expenses) / 2
	if half == 0 {
		return 1
	}
	older := Mean(expenses[:half])
	recent := Mean(expenses[len(expenses)-half:])
	if !older.IsPositive() {
		return 1
	}
	ratio, _ := recent.Div(older).Round(4).Float64()
	return ratio
}

type categoryStats struct {
	mean float64
	std  float64
}

// anomalies flags expenses more than two sample standard deviations from their category mean.
func anomalies(expenses []domain.Expense) []domain.Anomaly {
	out := []domain.Anomaly{}
	if len(expenses) < 3 {
		return out
	}

	byCat := make(map[string][]float64)
	for _, e := range expenses {
		f, _ := e.Amount.Float64()
		byCat[e.Category] = append(byCat[e.Category], f)
	}
	stats := make(map[string]categoryStats, len(byCat))
	for cat, values := range byCat {
		stats[cat] = sampleStats(values)
	}

	for _, e := range expenses {
		st := stats[e.Category]
		if !(st.std > 0) {
			continue
		}
		f, _ := e.Amount.Float64()
		z := (f - st.mean) / st.std
		if math.Abs(z) <= anomalyZ {
			continue
		}
		severity := domain.SeverityMedium
		if math.Abs(z) > highAnomalyZ {
			severity = domain.SeverityHigh
		}
		out = append(out, domain.Anomaly{
			Date:     e.OccurredOn.Format(domain.DateLayout),
			Category: e.Category,
			Amount:   e.Amount,
			ZScore:   math.Round(z*100) / 100,
			Severity: severity,
		})
	}
	return out
}

// sampleStats returns the mean and the n-1 standard deviation. std is NaN for a single value.
func sampleStats(values []float64) categoryStats {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if len(values) < 2 {
		return categoryStats{mean: mean, std: math.NaN()}
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return categoryStats{mean: mean, std: math.Sqrt(sq / (n - 1))}
}

// BudgetInsights turns spending patterns into short observations.
func BudgetInsights(p domain.SpendingPatterns) []domain.Insight {
	insights := []domain.Insight{}

	switch {
	case p.SpendingTrend > trendWarning:
		insights = append(insights, domain.Insight{
			Type:       domain.InsightWarning,
			Message:    fmt.Sprintf("Spending increased by %.1f%%", (p.SpendingTrend-1)*100),
			Suggestion: "Review purchases, set daily limits, and try the 24-hour rule for non-essentials over ₹500.",
		})
	case p.SpendingTrend < trendPositive:
		insights = append(insights, domain.Insight{
			Type:       domain.InsightPositive,
			Message:    fmt.Sprintf("Spending decreased by %.1f%%", (1-p.SpendingTrend)*100),
			Suggestion: "Great job! Allocate savings into an emergency fund or investments.",
		})
	}

	if p.TopCategory != "" && p.TopCategory != NotAvailable {
		insights = append(insights, domain.Insight{
			Type:       domain.InsightInfo,
			Message:    fmt.Sprintf("Highest spending category: %s", p.TopCategory),
			Suggestion: fmt.Sprintf("Use envelope budgeting for %s, set monthly limits, and review weekly.", p.TopCategory),
		})
	}

	if n := len(p.Unusual); n > 0 {
		plural := ""
		if n > 1 {
			plural = "s"
		}
		insights = append(insights, domain.Insight{
			Type:       domain.InsightAlert,
			Message:    fmt.Sprintf("%d unusual expense%s detected", n, plural),
			Suggestion: "Review these transactions; decide if one-time or require budget adjustments.",
		})
	}

	return insights
}
