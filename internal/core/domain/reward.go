package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// BudgetBossBadge is awarded by the monthly budget check.
	BudgetBossBadge = "Budget Boss 🏅"
	// BudgetAwardPoints is the point award of a passed budget check.
	BudgetAwardPoints int64 = 50
)

// PointBalance is a monotonic per-owner counter.
type PointBalance struct {
	Owner  string `json:"owner"`
	Points int64  `json:"points"`
}

// Badge is one append-only badge row.
type Badge struct {
	BadgeID  int64     `json:"badgeID"`
	Owner    string    `json:"owner"`
	Name     string    `json:"name"`
	EarnedOn time.Time `json:"earnedOn"`
}

// BudgetCheckResult describes the outcome of one budget check.
type BudgetCheckResult struct {
	Owner          string          `json:"owner"`
	Limit          decimal.Decimal `json:"limit"`
	Total          decimal.Decimal `json:"total"`
	Scope          string          `json:"scope"`
	Period         string          `json:"period"`
	Awarded        bool            `json:"awarded"`
	AlreadyAwarded bool            `json:"alreadyAwarded"`
	PointsAwarded  int64           `json:"pointsAwarded"`
	Badge          string          `json:"badge,omitempty"`
}
