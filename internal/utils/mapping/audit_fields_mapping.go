package mapping

import (
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/SscSPs/pocket_ledger_app/internal/models"
)

// ToModelAuditFields converts domain AuditFields to their stored form.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{CreatedAt: d.CreatedAt.Unix()}
}

// ToDomainAuditFields converts stored AuditFields to the domain form.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{CreatedAt: fromUnix(m.CreatedAt)}
}

func fromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// parseDate never fails on rows written by this service; a malformed value maps to the zero time.
func parseDate(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}
