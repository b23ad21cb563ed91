package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) FindCompetitionByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	query, args, err := qb.Select(competitionSelectColumns...).From("competitions").
		Where(qb.Eq("id", competitionID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build select competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("select competition: %w", err)
	}
	return competitionFromRow(row), true, nil
}

func (r *CompetitionRepository) UpsertCompetition(ctx context.Context, c competition.Competition) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate competition: %w", err)
	}

	query, args, err := qb.UpsertModel("competitions", competitionToRow(c), []string{"id"})
	if err != nil {
		return fmt.Errorf("build upsert competition query: %w", err)
	}

	return withConflictRetry(ctx, "upsert competition "+c.ID, func(ctx context.Context) error {
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert competition %s: %w", c.ID, err)
		}
		return nil
	})
}

func (r *CompetitionRepository) UpsertClubSeason(ctx context.Context, link competition.ClubSeason) error {
	if err := link.Validate(); err != nil {
		return fmt.Errorf("validate club season: %w", err)
	}

	row := clubSeasonTableModel(link)
	query, args, err := qb.UpsertModel("club_seasons", row, []string{"club_id", "season_id", "competition_id"})
	if err != nil {
		return fmt.Errorf("build upsert club season query: %w", err)
	}

	return withConflictRetry(ctx, "upsert club season", func(ctx context.Context) error {
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert club season club=%s season=%s: %w", link.ClubID, link.SeasonID, err)
		}
		return nil
	})
}
