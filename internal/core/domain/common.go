package domain

import (
	"fmt"
	"time"
)

// DateLayout is the storage and wire format of calendar dates.
const DateLayout = "2006-01-02"

// YearMonthLayout is the format of month filters ("2024-03").
const YearMonthLayout = "2006-01"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
}

// Today truncates t to a UTC calendar date.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// YearMonth returns the "YYYY-MM" bucket of t.
func YearMonth(t time.Time) string {
	return t.Format(YearMonthLayout)
}

// ParseYearMonth validates a "YYYY-MM" filter. An empty string is accepted and means no filter.
func ParseYearMonth(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(YearMonthLayout, s)
	if err != nil {
		return "", fmt.Errorf("month must be formatted as YYYY-MM: %q", s)
	}
	return t.Format(YearMonthLayout), nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be formatted as YYYY-MM-DD: %q", s)
	}
	return t, nil
}
