package domain

import "time"

// Identity is one registered credential record, keyed by email.
type Identity struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	AuditFields
}

// Session is the server-side half of an issued access token.
// The token's jti claim is the session ID.
type Session struct {
	SessionID string     `json:"sessionID"`
	Owner     string     `json:"owner"`
	TokenHash string     `json:"-"`
	IssuedAt  time.Time  `json:"issuedAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

// IsActive reports whether the session can still authenticate requests at now.
func (s Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// GoogleUserInfo represents the verified claims taken from a Google ID token.
type GoogleUserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}
