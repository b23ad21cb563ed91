package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
)

type clubTableModel struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	OfficialName    string         `db:"official_name"`
	Slug            string         `db:"slug"`
	Country         string         `db:"country"`
	CountryISO2     string         `db:"country_iso2"`
	CrestURL        string         `db:"crest_url"`
	Colors          pq.StringArray `db:"colors"`
	StadiumName     string         `db:"stadium_name"`
	StadiumCapacity int            `db:"stadium_capacity"`
	FoundedOn       sql.NullTime   `db:"founded_on"`
	MarketValue     int64          `db:"market_value"`
	ProfileURL      string         `db:"profile_url"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

var clubSelectColumns = []string{
	"id",
	"name",
	"official_name",
	"slug",
	"country",
	"country_iso2",
	"crest_url",
	"colors",
	"stadium_name",
	"stadium_capacity",
	"founded_on",
	"market_value",
	"profile_url",
	"updated_at",
}

func clubToRow(c club.Club, now time.Time) clubTableModel {
	colors := c.Colors
	if colors == nil {
		colors = []string{}
	}
	return clubTableModel{
		ID:              c.ID,
		Name:            c.Name,
		OfficialName:    c.OfficialName,
		Slug:            c.Slug,
		Country:         c.Country,
		CountryISO2:     c.CountryISO2,
		CrestURL:        c.CrestURL,
		Colors:          pq.StringArray(colors),
		StadiumName:     c.StadiumName,
		StadiumCapacity: c.StadiumCapacity,
		FoundedOn:       nullTime(c.FoundedOn),
		MarketValue:     c.MarketValue,
		ProfileURL:      c.ProfileURL,
		UpdatedAt:       now,
	}
}

func clubFromRow(row clubTableModel) club.Club {
	out := club.Club{
		ID:              row.ID,
		Name:            row.Name,
		OfficialName:    row.OfficialName,
		Slug:            row.Slug,
		Country:         row.Country,
		CountryISO2:     row.CountryISO2,
		CrestURL:        row.CrestURL,
		Colors:          append([]string(nil), row.Colors...),
		StadiumName:     row.StadiumName,
		StadiumCapacity: row.StadiumCapacity,
		MarketValue:     row.MarketValue,
		ProfileURL:      row.ProfileURL,
	}
	if row.FoundedOn.Valid {
		out.FoundedOn = row.FoundedOn.Time.UTC()
	}
	return out
}
