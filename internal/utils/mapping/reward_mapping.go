package mapping

import (
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/SscSPs/pocket_ledger_app/internal/models"
)

// ToDomainBadge converts a model Badge to a domain Badge
func ToDomainBadge(m models.Badge) domain.Badge {
	return domain.Badge{
		BadgeID:  m.ID,
		Owner:    m.Owner,
		Name:     m.Name,
		EarnedOn: parseDate(m.EarnedOn),
	}
}

// ToDomainBadgeSlice converts a slice of model Badges to domain Badges
func ToDomainBadgeSlice(ms []models.Badge) []domain.Badge {
	ds := make([]domain.Badge, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBadge(m)
	}
	return ds
}
