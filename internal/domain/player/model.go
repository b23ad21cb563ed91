package player

import (
	"fmt"
	"strings"
	"time"
)

// Player is an athlete as known to the external statistics provider.
type Player struct {
	ID              string
	FullName        string
	KnownAs         string
	BirthDate       time.Time
	Nationalities   []string
	NationalityISO2 string
	HeightCM        int
	PreferredFoot   string
	Position        string
	CurrentClubID   string
	ShirtNumber     *int
	ProfileURL      string
	ImageURL        string
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("player full name is required")
	}
	if p.NationalityISO2 != "" && len(p.NationalityISO2) != 2 {
		return fmt.Errorf("invalid player nationality code: %s", p.NationalityISO2)
	}
	if p.HeightCM < 0 {
		return fmt.Errorf("player height must not be negative")
	}
	if p.ShirtNumber != nil && (*p.ShirtNumber < 0 || *p.ShirtNumber > 99) {
		return fmt.Errorf("invalid player shirt number: %d", *p.ShirtNumber)
	}

	return nil
}

// DisplayName prefers the alias the player is known by.
func (p Player) DisplayName() string {
	if p.KnownAs != "" {
		return p.KnownAs
	}
	return p.FullName
}
