package models

// Badge is a row of the badges table.
type Badge struct {
	ID       int64  `db:"id"`
	Owner    string `db:"owner"`
	Name     string `db:"name"`
	EarnedOn string `db:"earned_on"`
	AuditFields
}
