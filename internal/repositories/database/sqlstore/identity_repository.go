package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_ledger_app/internal/models"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
	"github.com/SscSPs/pocket_ledger_app/internal/utils/mapping"
)

type IdentityRepository struct {
	BaseRepository
}

func newIdentityRepository(db *database.DB) *IdentityRepository {
	return &IdentityRepository{BaseRepository{DB: db}}
}

var _ portsrepo.IdentityRepositoryFacade = (*IdentityRepository)(nil)

func (r *IdentityRepository) SaveIdentity(ctx context.Context, identity domain.Identity) error {
	m := mapping.ToModelIdentity(identity)
	_, err := r.exec(ctx,
		`INSERT INTO identities (email, password_hash, created_at) VALUES (?, ?, ?)`,
		m.Email, m.PasswordHash, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateIdentity
		}
		return fmt.Errorf("failed to save identity: %w", err)
	}
	return nil
}

func (r *IdentityRepository) FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var m models.Identity
	err := r.queryRow(ctx,
		`SELECT email, password_hash, created_at FROM identities WHERE email = ?`, email,
	).Scan(&m.Email, &m.PasswordHash, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find identity %s: %w", email, err)
	}
	d := mapping.ToDomainIdentity(m)
	return &d, nil
}

type SessionRepository struct {
	BaseRepository
}

func newSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{BaseRepository{DB: db}}
}

var _ portsrepo.SessionRepositoryFacade = (*SessionRepository)(nil)

func (r *SessionRepository) SaveSession(ctx context.Context, session domain.Session) error {
	m := mapping.ToModelSession(session)
	_, err := r.exec(ctx, `
		INSERT INTO sessions (session_id, owner, token_hash, issued_at, expires_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.SessionID, m.Owner, m.TokenHash, m.IssuedAt, m.ExpiresAt, m.RevokedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("session %s: %w", m.SessionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	var m models.Session
	err := r.queryRow(ctx, `
		SELECT session_id, owner, token_hash, issued_at, expires_at, revoked_at
		FROM sessions WHERE session_id = ?`, sessionID,
	).Scan(&m.SessionID, &m.Owner, &m.TokenHash, &m.IssuedAt, &m.ExpiresAt, &m.RevokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	d := mapping.ToDomainSession(m)
	return &d, nil
}

func (r *SessionRepository) RevokeSession(ctx context.Context, sessionID, owner string, at time.Time) error {
	res, err := r.exec(ctx, `
		UPDATE sessions SET revoked_at = COALESCE(revoked_at, ?)
		WHERE session_id = ? AND owner = ?`,
		at.Unix(), sessionID, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) RevokeAllSessions(ctx context.Context, owner string, at time.Time) (int64, error) {
	res, err := r.exec(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE owner = ? AND revoked_at IS NULL`,
		at.Unix(), owner,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions of %s: %w", owner, err)
	}
	return res.RowsAffected()
}

func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.exec(ctx, `DELETE FROM sessions WHERE expires_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
