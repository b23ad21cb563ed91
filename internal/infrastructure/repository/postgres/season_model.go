package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
)

type seasonTableModel struct {
	ID            string         `db:"id"`
	ExternalID    string         `db:"external_id"`
	Label         string         `db:"label"`
	StartYear     int            `db:"start_year"`
	EndYear       int            `db:"end_year"`
	Type          string         `db:"season_type"`
	CompetitionID sql.NullString `db:"competition_id"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

var seasonSelectColumns = []string{
	"id",
	"external_id",
	"label",
	"start_year",
	"end_year",
	"season_type",
	"competition_id",
	"updated_at",
}

func seasonToRow(s season.Season, now time.Time) seasonTableModel {
	return seasonTableModel{
		ID:            s.ID,
		ExternalID:    s.ExternalID,
		Label:         s.Label,
		StartYear:     s.StartYear,
		EndYear:       s.EndYear,
		Type:          string(s.Type),
		CompetitionID: nullString(s.CompetitionID),
		UpdatedAt:     now,
	}
}

func seasonFromRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:            row.ID,
		ExternalID:    row.ExternalID,
		Label:         row.Label,
		StartYear:     row.StartYear,
		EndYear:       row.EndYear,
		Type:          season.Type(row.Type),
		CompetitionID: row.CompetitionID.String,
	}
}
