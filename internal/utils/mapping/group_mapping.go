package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/SscSPs/pocket_ledger_app/internal/models"
)

// ToDomainGroup converts a model Group to a domain Group
func ToDomainGroup(m models.Group) domain.Group {
	return domain.Group{
		GroupID:     m.ID,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMembership converts a model GroupMember to a domain Membership
func ToDomainMembership(m models.GroupMember) domain.Membership {
	return domain.Membership{
		GroupID:  m.GroupID,
		Member:   m.Member,
		JoinedAt: fromUnix(m.JoinedAt),
	}
}

// ToModelSharedExpense converts a domain SharedExpense to a model SharedExpense.
// SplitWith is encoded as a JSON array, nil encodes as [].
func ToModelSharedExpense(d domain.SharedExpense) (models.SharedExpense, error) {
	split := d.SplitWith
	if split == nil {
		split = []string{}
	}
	encoded, err := json.Marshal(split)
	if err != nil {
		return models.SharedExpense{}, fmt.Errorf("failed to encode split_with: %w", err)
	}
	return models.SharedExpense{
		ID:          d.SharedExpenseID,
		GroupID:     d.GroupID,
		Spender:     d.Spender,
		Category:    d.Category,
		Amount:      d.Amount,
		OccurredOn:  formatDate(d.OccurredOn),
		SplitWith:   string(encoded),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainSharedExpense converts a model SharedExpense to a domain SharedExpense
func ToDomainSharedExpense(m models.SharedExpense) (domain.SharedExpense, error) {
	split := []string{}
	if m.SplitWith != "" {
		if err := json.Unmarshal([]byte(m.SplitWith), &split); err != nil {
			return domain.SharedExpense{}, fmt.Errorf("failed to decode split_with of shared expense %d: %w", m.ID, err)
		}
	}
	return domain.SharedExpense{
		SharedExpenseID: m.ID,
		GroupID:         m.GroupID,
		Spender:         m.Spender,
		Category:        m.Category,
		Amount:          m.Amount,
		OccurredOn:      parseDate(m.OccurredOn),
		SplitWith:       split,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}
