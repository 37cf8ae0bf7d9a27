package models

// AuditFields holds the creation stamp stored with each row as unix seconds.
type AuditFields struct {
	CreatedAt int64 `db:"created_at"`
}
