package dto

import (
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest represents the login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GoogleLoginRequest carries an ID token obtained by the client from Google.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// ExchangeCodeRequest carries the authorization code returned to the frontend by Google.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// GoogleLoginURLResponse is the redirect target plus the CSRF state the client must echo back.
type GoogleLoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// LogoutRequest selects whether every session of the caller is revoked.
type LogoutRequest struct {
	AllSessions bool `json:"allSessions"`
}

// LogoutResponse reports how many sessions were revoked.
type LogoutResponse struct {
	Revoked int64 `json:"revoked"`
}

// IdentityResponse is the public view of an identity. The password hash never leaves the service.
type IdentityResponse struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToIdentityResponse converts a domain.Identity to an IdentityResponse.
func ToIdentityResponse(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{Email: identity.Email, CreatedAt: identity.CreatedAt}
}

// ToLoginResponse converts an issued session into the login payload.
func ToLoginResponse(token string, session *domain.Session) LoginResponse {
	return LoginResponse{Token: token, ExpiresAt: session.ExpiresAt}
}
