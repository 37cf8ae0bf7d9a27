package services

import (
	"context"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
)

// IdentityReaderSvc defines read operations for identities
type IdentityReaderSvc interface {
	// GetIdentity returns apperrors.ErrNotFound for unknown emails.
	GetIdentity(ctx context.Context, email string) (*domain.Identity, error)
}

// IdentityWriterSvc defines registration operations
type IdentityWriterSvc interface {
	// Register stores a bcrypt hash of password. A taken email fails with apperrors.ErrDuplicateIdentity.
	Register(ctx context.Context, email, password string) (*domain.Identity, error)

	// RegisterIdentity reports false, without error, when the email is already taken.
	RegisterIdentity(ctx context.Context, email, password string) (bool, error)
}

// IdentityAuthSvc defines credential checks
type IdentityAuthSvc interface {
	// Authenticate fails with apperrors.ErrInvalidCredential for unknown emails and wrong passwords alike.
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)

	VerifyCredential(ctx context.Context, email, password string) bool

	// LoginWithGoogle validates a Google ID token and registers its email on first sight.
	LoginWithGoogle(ctx context.Context, idToken string) (*domain.Identity, error)
}

// IdentitySvcFacade combines all identity-related service interfaces
type IdentitySvcFacade interface {
	IdentityReaderSvc
	IdentityWriterSvc
	IdentityAuthSvc
}

// SessionValidator is what the auth middleware needs from the session service.
type SessionValidator interface {
	// ValidateSession fails with apperrors.ErrUnauthorized unless the session is active,
	// owned by subject and was issued for token.
	ValidateSession(ctx context.Context, sessionID, subject, token string) (*domain.Session, error)
}

// SessionSvcFacade manages issued access tokens.
type SessionSvcFacade interface {
	SessionValidator

	// IssueSession persists a session and returns the signed token naming it.
	IssueSession(ctx context.Context, identity *domain.Identity) (string, *domain.Session, error)

	RevokeSession(ctx context.Context, sessionID, owner string) error
	RevokeAllSessions(ctx context.Context, owner string) (int64, error)

	// PruneExpiredSessions deletes rows whose tokens can no longer authenticate.
	PruneExpiredSessions(ctx context.Context) (int64, error)
}

// GoogleOAuthSvcFacade drives the Google authorization-code flow.
type GoogleOAuthSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GoogleLoginURL returns the URL to redirect the user to for Google login.
	GoogleLoginURL(ctx context.Context, state string) string
	// ExchangeGoogleCode trades an authorization code for the signed-in identity.
	ExchangeGoogleCode(ctx context.Context, code string) (*domain.Identity, error)
}
