package services

import (
	"sort"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
)

// Advice topics.
const (
	TopicFood    = "food"
	TopicSavings = "savings"
	TopicBudget  = "budget"
	TopicGeneral = "general"
)

var adviceKeywords = []struct {
	keyword string
	topic   string
}{
	{"food", TopicFood},
	{"dining", TopicFood},
	{"saving", TopicSavings},
	{"save", TopicSavings},
	{"budget", TopicBudget},
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ClassifyIntent maps a free-form question onto one of the advisor intents.
// Rules are tried in order and the first match wins.
func ClassifyIntent(question string, knownCategories []string) domain.Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	asksSpend := containsAny(q, "spend", "spent")

	if asksSpend && containsAny(q, "this month", "current month") {
		return domain.MonthlySpendQuery{}
	}

	if asksSpend {
		cats := make([]string, 0, len(knownCategories))
		for _, c := range knownCategories {
			if c = strings.TrimSpace(c); c != "" {
				cats = append(cats, c)
			}
		}
		sort.Slice(cats, func(i, j int) bool { return strings.ToLower(cats[i]) < strings.ToLower(cats[j]) })
		for _, c := range cats {
			if strings.Contains(q, strings.ToLower(c)) {
				return domain.SpendQuery{Category: c}
			}
		}
	}

	if containsAny(q, "earn", "income") {
		return domain.IncomeQuery{}
	}

	for _, k := range adviceKeywords {
		if strings.Contains(q, k.keyword) {
			return domain.AdviceQuery{Topic: k.topic}
		}
	}
	if containsAny(q, "advice", "tip") {
		return domain.AdviceQuery{Topic: TopicGeneral}
	}

	return domain.Unrecognized{}
}
