package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
)

// IdentityReader defines read operations for identity data
type IdentityReader interface {
	// FindIdentityByEmail returns apperrors.ErrNotFound when the email is not registered.
	FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

// IdentityWriter defines write operations for identity data
type IdentityWriter interface {
	// SaveIdentity inserts a new identity. A second insert for the same email fails with apperrors.ErrDuplicate.
	SaveIdentity(ctx context.Context, identity domain.Identity) error
}

// IdentityRepositoryFacade combines all identity-related repository interfaces
type IdentityRepositoryFacade interface {
	IdentityReader
	IdentityWriter
}

// SessionRepositoryFacade persists the server-side half of issued tokens.
type SessionRepositoryFacade interface {
	SaveSession(ctx context.Context, session domain.Session) error

	// FindSessionByID returns apperrors.ErrNotFound for unknown ids.
	FindSessionByID(ctx context.Context, sessionID string) (*domain.Session, error)

	// RevokeSession marks one of owner's sessions revoked. Revoking twice is not an error.
	RevokeSession(ctx context.Context, sessionID, owner string, at time.Time) error

	// RevokeAllSessions revokes every active session of owner and returns how many changed.
	RevokeAllSessions(ctx context.Context, owner string, at time.Time) (int64, error)

	// DeleteExpiredSessions removes sessions that expired before the given time.
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}
