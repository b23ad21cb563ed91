package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
)

type playerTableModel struct {
	ID              string         `db:"id"`
	FullName        string         `db:"full_name"`
	KnownAs         string         `db:"known_as"`
	BirthDate       sql.NullTime   `db:"birth_date"`
	Nationalities   pq.StringArray `db:"nationalities"`
	NationalityISO2 string         `db:"nationality_iso2"`
	HeightCM        int            `db:"height_cm"`
	PreferredFoot   string         `db:"preferred_foot"`
	Position        string         `db:"position"`
	CurrentClubID   string         `db:"current_club_id"`
	ShirtNumber     sql.NullInt32  `db:"shirt_number"`
	ProfileURL      string         `db:"profile_url"`
	ImageURL        string         `db:"image_url"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

var playerSelectColumns = []string{
	"id",
	"full_name",
	"known_as",
	"birth_date",
	"nationalities",
	"nationality_iso2",
	"height_cm",
	"preferred_foot",
	"position",
	"current_club_id",
	"shirt_number",
	"profile_url",
	"image_url",
	"updated_at",
}

func playerToRow(p player.Player, now time.Time) playerTableModel {
	nationalities := p.Nationalities
	if nationalities == nil {
		nationalities = []string{}
	}
	return playerTableModel{
		ID:              p.ID,
		FullName:        p.FullName,
		KnownAs:         p.KnownAs,
		BirthDate:       nullTime(p.BirthDate),
		Nationalities:   pq.StringArray(nationalities),
		NationalityISO2: p.NationalityISO2,
		HeightCM:        p.HeightCM,
		PreferredFoot:   p.PreferredFoot,
		Position:        p.Position,
		CurrentClubID:   p.CurrentClubID,
		ShirtNumber:     nullInt32(p.ShirtNumber),
		ProfileURL:      p.ProfileURL,
		ImageURL:        p.ImageURL,
		UpdatedAt:       now,
	}
}

func playerFromRow(row playerTableModel) player.Player {
	out := player.Player{
		ID:              row.ID,
		FullName:        row.FullName,
		KnownAs:         row.KnownAs,
		Nationalities:   append([]string(nil), row.Nationalities...),
		NationalityISO2: row.NationalityISO2,
		HeightCM:        row.HeightCM,
		PreferredFoot:   row.PreferredFoot,
		Position:        row.Position,
		CurrentClubID:   row.CurrentClubID,
		ShirtNumber:     intPtr(row.ShirtNumber),
		ProfileURL:      row.ProfileURL,
		ImageURL:        row.ImageURL,
	}
	if row.BirthDate.Valid {
		out.BirthDate = row.BirthDate.Time.UTC()
	}
	return out
}
