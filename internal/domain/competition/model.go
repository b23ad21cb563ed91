package competition

import (
	"fmt"
	"strings"
)

// Competition is a league or cup as reported by the provider.
type Competition struct {
	ID               string
	Name             string
	Country          string
	Continent        string
	ClubsCount       int
	PlayersCount     int
	TotalMarketValue int64
	MeanMarketValue  int64
}

func (c Competition) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("competition id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("competition name is required")
	}
	if c.ClubsCount < 0 || c.PlayersCount < 0 {
		return fmt.Errorf("competition counts must not be negative")
	}

	return nil
}

// ClubSeason links a club's season to a competition it played in.
type ClubSeason struct {
	ClubID        string
	SeasonID      string
	CompetitionID string
}

func (cs ClubSeason) Validate() error {
	if cs.ClubID == "" || cs.SeasonID == "" || cs.CompetitionID == "" {
		return fmt.Errorf("club season requires club, season and competition ids")
	}
	return nil
}
