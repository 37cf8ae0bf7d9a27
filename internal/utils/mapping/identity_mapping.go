package mapping

import (
	"database/sql"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/SscSPs/pocket_ledger_app/internal/models"
)

// ToModelIdentity converts a domain Identity to a model Identity
func ToModelIdentity(d domain.Identity) models.Identity {
	return models.Identity{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainIdentity converts a model Identity to a domain Identity
func ToDomainIdentity(m models.Identity) domain.Identity {
	return domain.Identity{
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSession converts a domain Session to a model Session
func ToModelSession(d domain.Session) models.Session {
	m := models.Session{
		SessionID: d.SessionID,
		Owner:     d.Owner,
		TokenHash: d.TokenHash,
		IssuedAt:  d.IssuedAt.Unix(),
		ExpiresAt: d.ExpiresAt.Unix(),
	}
	if d.RevokedAt != nil {
		m.RevokedAt = sql.NullInt64{Int64: d.RevokedAt.Unix(), Valid: true}
	}
	return m
}

// ToDomainSession converts a model Session to a domain Session
func ToDomainSession(m models.Session) domain.Session {
	d := domain.Session{
		SessionID: m.SessionID,
		Owner:     m.Owner,
		TokenHash: m.TokenHash,
		IssuedAt:  fromUnix(m.IssuedAt),
		ExpiresAt: fromUnix(m.ExpiresAt),
	}
	if m.RevokedAt.Valid {
		revoked := fromUnix(m.RevokedAt.Int64)
		d.RevokedAt = &revoked
	}
	return d
}
