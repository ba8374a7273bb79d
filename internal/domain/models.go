package domain

import (
	"strings"
	"time"
)

const StatusApplied = "Applied"

// KnownStatuses are offered in prompts. Status itself stays free-form.
var KnownStatuses = []string{
	StatusApplied,
	"Interviewing",
	"Phone Screen",
	"Final Round",
	"Offer",
	"Rejected",
	"Withdrawn",
}

type Application struct {
	ID            int64
	CompanyName   string
	PositionTitle string
	DateApplied   time.Time
	Status        string
	// LastUpdated is nil for backends that don't track it (CSV).
	LastUpdated  *time.Time
	NotionPageID string
}

// NewApplication is the input to Add.
type NewApplication struct {
	CompanyName   string
	PositionTitle string
	DateApplied   time.Time // zero means "now"
	Status        string    // empty means StatusApplied
}

// Normalize trims fields, checks required ones and fills defaults.
func (n NewApplication) Normalize(now time.Time) (NewApplication, error) {
	company, err := RequireText("company_name", n.CompanyName)
	if err != nil {
		return NewApplication{}, err
	}
	position, err := RequireText("position_title", n.PositionTitle)
	if err != nil {
		return NewApplication{}, err
	}
	out := NewApplication{
		CompanyName:   company,
		PositionTitle: position,
		DateApplied:   n.DateApplied,
		Status:        strings.TrimSpace(n.Status),
	}
	if out.DateApplied.IsZero() {
		out.DateApplied = now
	}
	if out.Status == "" {
		out.Status = StatusApplied
	}
	return out, nil
}

type Stats struct {
	Total    int
	ByStatus map[string]int
	// Recent counts applications dated at or after the window start.
	Recent int
}
