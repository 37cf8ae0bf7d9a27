package dto

import (
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateGroupRequest is the body of POST /groups.
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// JoinGroupRequest names the member to add. An empty member adds the caller.
type JoinGroupRequest struct {
	Member string `json:"member" binding:"omitempty,max=254"`
}

// SharedExpenseRequest is the body of POST /groups/:name/expenses. The caller is the spender.
type SharedExpenseRequest struct {
	Category  string           `json:"category" binding:"required,max=100"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
	SplitWith []string         `json:"splitWith" binding:"max=50,dive,max=254"`
	Date      string           `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// SharedExpenseResponse is the wire form of a shared expense.
type SharedExpenseResponse struct {
	SharedExpenseID int64           `json:"sharedExpenseID"`
	GroupID         int64           `json:"groupID"`
	Spender         string          `json:"spender"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`
	SplitWith       []string        `json:"splitWith"`
}

func ToSharedExpenseResponse(e domain.SharedExpense) SharedExpenseResponse {
	split := e.SplitWith
	if split == nil {
		split = []string{}
	}
	return SharedExpenseResponse{
		SharedExpenseID: e.SharedExpenseID,
		GroupID:         e.GroupID,
		Spender:         e.Spender,
		Category:        e.Category,
		Amount:          e.Amount,
		Date:            e.OccurredOn.Format(domain.DateLayout),
		SplitWith:       split,
	}
}

func ToSharedExpenseResponses(expenses []domain.SharedExpense) []SharedExpenseResponse {
	out := make([]SharedExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = ToSharedExpenseResponse(e)
	}
	return out
}
