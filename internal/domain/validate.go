package domain

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted input format for dates.
const DateLayout = "2006-01-02"

func RequireText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: field, Reason: "cannot be empty"}
	}
	return s, nil
}

// ParseDate parses YYYY-MM-DD as midnight in now's location, so a typed date
// means the user's calendar day. Empty input yields now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date_applied", Reason: "use YYYY-MM-DD"}
	}
	return t, nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, &ValidationError{Field: "id", Reason: "must be a positive number"}
	}
	return id, nil
}

// ParseStatus accepts free text, or a 1-based index into KnownStatuses.
func ParseStatus(s string) (string, error) {
	s, err := RequireText("status", s)
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(KnownStatuses) {
		return KnownStatuses[n-1], nil
	}
	return s, nil
}

// ParseOptionalStatus is ParseStatus where empty input means "use the default".
func ParseOptionalStatus(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return ParseStatus(s)
}
