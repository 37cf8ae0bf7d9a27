package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"github.com/go-playground/validator/v10"
	"google.golang.org/api/idtoken"
)

// IDTokenValidator checks a Google ID token against an audience.
type IDTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type identityService struct {
	BaseService
	repo           portsrepo.IdentityRepositoryFacade
	validate       *validator.Validate
	googleClientID string
	validateToken  IDTokenValidator
}

// NewIdentityService creates the identity service. googleClientID may be empty, in which
// case Google sign-in reports the collaborator as unavailable.
func NewIdentityService(repo portsrepo.IdentityRepositoryFacade, googleClientID string, validateToken IDTokenValidator, opts ...ServiceOption) portssvc.IdentitySvcFacade {
	if validateToken == nil {
		validateToken = idtoken.Validate
	}
	return &identityService{
		BaseService:    newBaseService(opts...),
		repo:           repo,
		validate:       validator.New(),
		googleClientID: googleClientID,
		validateToken:  validateToken,
	}
}

var _ portssvc.IdentitySvcFacade = (*identityService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *identityService) GetIdentity(ctx context.Context, email string) (*domain.Identity, error) {
	identity, err := s.repo.FindIdentityByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find identity")
		}
		return nil, err
	}
	return identity, nil
}

func (s *identityService) Register(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = normalizeEmail(email)
	if err := s.validate.Var(email, "required,email,max=254"); err != nil {
		return nil, fmt.Errorf("%w: email is not a valid address", apperrors.ErrInvalidInput)
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.register(ctx, email, password)
}

func (s *identityService) register(ctx context.Context, email, password string) (*domain.Identity, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := domain.Identity{
		Email:        email,
		PasswordHash: hash,
		AuditFields:  domain.AuditFields{CreatedAt: s.Now()},
	}
	if err := s.repo.SaveIdentity(ctx, identity); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogDebug(ctx, "Registration for existing email rejected")
			return nil, apperrors.ErrDuplicateIdentity
		}
		s.LogError(ctx, err, "Failed to save identity")
		return nil, err
	}

	s.LogInfo(ctx, "Identity registered", slog.String("email", email))
	return &identity, nil
}

func (s *identityService) RegisterIdentity(ctx context.Context, email, password string) (bool, error) {
	if _, err := s.Register(ctx, email, password); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateIdentity) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *identityService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	identity, err := s.repo.FindIdentityByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.BurnPasswordCheck(password)
			return nil, apperrors.ErrInvalidCredential
		}
		s.LogError(ctx, err, "Failed to load identity for authentication")
		return nil, err
	}
	if !utils.CheckPasswordHash(password, identity.PasswordHash) {
		s.LogDebug(ctx, "Password mismatch")
		return nil, apperrors.ErrInvalidCredential
	}
	return identity, nil
}

func (s *identityService) VerifyCredential(ctx context.Context, email, password string) bool {
	_, err := s.Authenticate(ctx, email, password)
	return err == nil
}

func (s *identityService) LoginWithGoogle(ctx context.Context, idToken string) (*domain.Identity, error) {
	if s.googleClientID == "" {
		return nil, fmt.Errorf("google sign-in is not configured: %w", apperrors.ErrCollaboratorUnavailable)
	}

	payload, err := s.validateToken(ctx, idToken, s.googleClientID)
	if err != nil {
		s.LogWarn(ctx, "Google ID token rejected", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: google id token: %v", apperrors.ErrInvalidCredential, err)
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	email = normalizeEmail(email)
	if email == "" || !verified {
		return nil, fmt.Errorf("%w: google account has no verified email", apperrors.ErrInvalidCredential)
	}

	identity, err := s.repo.FindIdentityByEmail(ctx, email)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to load identity for google sign-in")
		return nil, err
	}

	// First sight: the identity gets a random credential nobody knows.
	secret, err := utils.NewUnusableSecret()
	if err != nil {
		return nil, err
	}
	identity, err = s.register(ctx, email, secret)
	if errors.Is(err, apperrors.ErrDuplicateIdentity) {
		return s.repo.FindIdentityByEmail(ctx, email)
	}
	return identity, err
}
