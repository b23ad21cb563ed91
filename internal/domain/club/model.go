package club

import (
	"fmt"
	"strings"
	"time"
)

// Club is a football club as known to the external statistics provider.
// ID is the provider's identifier and is authoritative; Name is only a
// fuzzy lookup key.
type Club struct {
	ID              string
	Name            string
	OfficialName    string
	Slug            string
	Country         string
	CountryISO2     string
	CrestURL        string
	Colors          []string
	StadiumName     string
	StadiumCapacity int
	FoundedOn       time.Time
	MarketValue     int64
	ProfileURL      string
}

func (c Club) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("club id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("club name is required")
	}
	if c.CountryISO2 != "" && len(c.CountryISO2) != 2 {
		return fmt.Errorf("invalid club country code: %s", c.CountryISO2)
	}
	if c.StadiumCapacity < 0 {
		return fmt.Errorf("club stadium capacity must not be negative")
	}

	return nil
}

// Merge overlays the non-empty fields of detail onto c. Used when a search
// hit is enriched with the provider's profile record.
func (c Club) Merge(detail Club) Club {
	out := c
	if detail.Name != "" {
		out.Name = detail.Name
	}
	if detail.OfficialName != "" {
		out.OfficialName = detail.OfficialName
	}
	if detail.Slug != "" {
		out.Slug = detail.Slug
	}
	if detail.Country != "" {
		out.Country = detail.Country
	}
	if detail.CountryISO2 != "" {
		out.CountryISO2 = detail.CountryISO2
	}
	if detail.CrestURL != "" {
		out.CrestURL = detail.CrestURL
	}
	if len(detail.Colors) > 0 {
		out.Colors = append([]string(nil), detail.Colors...)
	}
	if detail.StadiumName != "" {
		out.StadiumName = detail.StadiumName
	}
	if detail.StadiumCapacity > 0 {
		out.StadiumCapacity = detail.StadiumCapacity
	}
	if !detail.FoundedOn.IsZero() {
		out.FoundedOn = detail.FoundedOn
	}
	if detail.MarketValue > 0 {
		out.MarketValue = detail.MarketValue
	}
	if detail.ProfileURL != "" {
		out.ProfileURL = detail.ProfileURL
	}
	return out
}
