package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/config"
	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// googleOAuthService implements the GoogleOAuthSvcFacade.
type googleOAuthService struct {
	BaseService
	// oauth2Config is configured at initialization time
	oauth2Config *oauth2.Config
	identity     portssvc.IdentityAuthSvc
}

// NewGoogleOAuthService creates a new instance of googleOAuthService.
func NewGoogleOAuthService(cfg *config.Config, identity portssvc.IdentityAuthSvc, opts ...ServiceOption) portssvc.GoogleOAuthSvcFacade {
	return newGoogleOAuthService(&oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email"},
		Endpoint:     google.Endpoint,
	}, identity, opts...)
}

func newGoogleOAuthService(oauthCfg *oauth2.Config, identity portssvc.IdentityAuthSvc, opts ...ServiceOption) *googleOAuthService {
	return &googleOAuthService{
		BaseService:  newBaseService(opts...),
		oauth2Config: oauthCfg,
		identity:     identity,
	}
}

var _ portssvc.GoogleOAuthSvcFacade = (*googleOAuthService)(nil)

// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
func (s *googleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.NewOAuthState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

func (s *googleOAuthService) GoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeGoogleCode trades the code for tokens and signs in with the returned id_token.
func (s *googleOAuthService) ExchangeGoogleCode(ctx context.Context, code string) (*domain.Identity, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", apperrors.ErrInvalidInput)
	}
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Failed to exchange google authorization code")
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w: %w", apperrors.ErrCollaboratorUnavailable, err)
	}
	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return nil, fmt.Errorf("google token response has no id_token: %w", apperrors.ErrCollaboratorUnavailable)
	}
	return s.identity.LoginWithGoogle(ctx, idToken)
}
