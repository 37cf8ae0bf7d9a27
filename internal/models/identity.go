package models

import "database/sql"

// Identity is a row of the identities table.
type Identity struct {
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	AuditFields
}

// Session is a row of the sessions table.
type Session struct {
	SessionID string        `db:"session_id"`
	Owner     string        `db:"owner"`
	TokenHash string        `db:"token_hash"`
	IssuedAt  int64         `db:"issued_at"`
	ExpiresAt int64         `db:"expires_at"`
	RevokedAt sql.NullInt64 `db:"revoked_at"`
}
