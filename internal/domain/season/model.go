package season

import (
	"fmt"
	"strings"
)

// Type classifies how a season is labelled.
type Type string

const (
	TypeLeague     Type = "league"
	TypeCalendar   Type = "calendar"
	TypeTournament Type = "tournament"
)

func (t Type) Valid() bool {
	switch t {
	case TypeLeague, TypeCalendar, TypeTournament:
		return true
	default:
		return false
	}
}

// Season is a stored season. Label is always the normalized form for Type.
type Season struct {
	ID            string
	ExternalID    string
	Label         string
	StartYear     int
	EndYear       int
	Type          Type
	CompetitionID string
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("season id is required")
	}
	if strings.TrimSpace(s.Label) == "" {
		return fmt.Errorf("season label is required")
	}
	if !s.Type.Valid() {
		return fmt.Errorf("invalid season type: %s", s.Type)
	}
	if s.StartYear <= 0 || s.EndYear < s.StartYear {
		return fmt.Errorf("invalid season years: %d-%d", s.StartYear, s.EndYear)
	}

	return nil
}

// Lookup selects a season by label first, then by external id restricted to
// Type when set.
type Lookup struct {
	Label      string
	ExternalID string
	Type       Type
}
