package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"github.com/google/uuid"
)

// SessionConfig carries the token settings sessions are issued with.
type SessionConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type sessionService struct {
	BaseService
	repo portsrepo.SessionRepositoryFacade
	cfg  SessionConfig
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(repo portsrepo.SessionRepositoryFacade, cfg SessionConfig, opts ...ServiceOption) portssvc.SessionSvcFacade {
	return &sessionService{
		BaseService: newBaseService(opts...),
		repo:        repo,
		cfg:         cfg,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

func (s *sessionService) IssueSession(ctx context.Context, identity *domain.Identity) (string, *domain.Session, error) {
	now := s.Now().UTC().Truncate(time.Second)
	sessionID := uuid.NewString()

	token, err := utils.GenerateJWT(identity.Email, sessionID, s.cfg.Secret, now, s.cfg.Expiry, s.cfg.Issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	session := domain.Session{
		SessionID: sessionID,
		Owner:     identity.Email,
		TokenHash: utils.HashSessionToken(token),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.Expiry),
	}
	if err := s.repo.SaveSession(ctx, session); err != nil {
		s.LogError(ctx, err, "Failed to persist session", slog.String("session_id", sessionID))
		return "", nil, err
	}

	s.LogInfo(ctx, "Session issued", slog.String("session_id", sessionID), slog.String("owner", identity.Email))
	return token, &session, nil
}

func (s *sessionService) ValidateSession(ctx context.Context, sessionID, subject, token string) (*domain.Session, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to load session", slog.String("session_id", sessionID))
		return nil, err
	}
	if session.Owner != subject || !session.IsActive(s.Now()) {
		return nil, apperrors.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(session.TokenHash), []byte(utils.HashSessionToken(token))) != 1 {
		s.LogInfo(ctx, "Token does not match its session", slog.String("session_id", sessionID))
		return nil, apperrors.ErrUnauthorized
	}
	return session, nil
}

func (s *sessionService) RevokeSession(ctx context.Context, sessionID, owner string) error {
	if err := s.repo.RevokeSession(ctx, sessionID, owner, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to revoke session", slog.String("session_id", sessionID))
		}
		return err
	}
	s.LogInfo(ctx, "Session revoked", slog.String("session_id", sessionID))
	return nil
}

func (s *sessionService) RevokeAllSessions(ctx context.Context, owner string) (int64, error) {
	n, err := s.repo.RevokeAllSessions(ctx, owner, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to revoke sessions")
		return 0, err
	}
	s.LogInfo(ctx, "All sessions revoked", slog.Int64("count", n))
	return n, nil
}

func (s *sessionService) PruneExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredSessions(ctx, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to prune expired sessions")
		return 0, err
	}
	if n > 0 {
		s.LogDebug(ctx, "Pruned expired sessions", slog.Int64("count", n))
	}
	return n, nil
}
