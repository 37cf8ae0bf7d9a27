package dto

import (
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetCheckRequest is the body of POST /rewards/budget-check.
type BudgetCheckRequest struct {
	Limit *decimal.Decimal `json:"limit" binding:"required"`
}

// PointsResponse wraps a point balance.
type PointsResponse struct {
	Points int64 `json:"points"`
}

// BadgeResponse is the wire form of a badge.
type BadgeResponse struct {
	Name     string `json:"name"`
	EarnedOn string `json:"earnedOn"`
}

func ToBadgeResponses(badges []domain.Badge) []BadgeResponse {
	out := make([]BadgeResponse, len(badges))
	for i, b := range badges {
		out[i] = BadgeResponse{Name: b.Name, EarnedOn: b.EarnedOn.Format(domain.DateLayout)}
	}
	return out
}
