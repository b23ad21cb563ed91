package postgres

import (
	"database/sql"

	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
)

type contractTableModel struct {
	PlayerID     string        `db:"player_id"`
	ClubID       string        `db:"club_id"`
	SeasonID     string        `db:"season_id"`
	JerseyNumber sql.NullInt32 `db:"jersey_number"`
}

var contractSelectColumns = []string{"player_id", "club_id", "season_id", "jersey_number"}

func contractFromRow(row contractTableModel) contract.Contract {
	return contract.Contract{
		PlayerID:     row.PlayerID,
		ClubID:       row.ClubID,
		SeasonID:     row.SeasonID,
		JerseyNumber: intPtr(row.JerseyNumber),
	}
}

type competitionTableModel struct {
	ID               string `db:"id"`
	Name             string `db:"name"`
	Country          string `db:"country"`
	Continent        string `db:"continent"`
	ClubsCount       int    `db:"clubs_count"`
	PlayersCount     int    `db:"players_count"`
	TotalMarketValue int64  `db:"total_market_value"`
	MeanMarketValue  int64  `db:"mean_market_value"`
}

var competitionSelectColumns = []string{
	"id",
	"name",
	"country",
	"continent",
	"clubs_count",
	"players_count",
	"total_market_value",
	"mean_market_value",
}

type clubSeasonTableModel struct {
	ClubID        string `db:"club_id"`
	SeasonID      string `db:"season_id"`
	CompetitionID string `db:"competition_id"`
}

func competitionToRow(c competition.Competition) competitionTableModel {
	return competitionTableModel(c)
}

func competitionFromRow(row competitionTableModel) competition.Competition {
	return competition.Competition(row)
}
