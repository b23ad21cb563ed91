package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

// seasonUpsertSuffix keys on label, keeps the stored id and keeps the stored
// competition unless the new row names one.
const seasonUpsertSuffix = `ON CONFLICT (label) DO UPDATE SET
    external_id = EXCLUDED.external_id,
    start_year = EXCLUDED.start_year,
    end_year = EXCLUDED.end_year,
    season_type = EXCLUDED.season_type,
    competition_id = COALESCE(EXCLUDED.competition_id, seasons.competition_id),
    updated_at = EXCLUDED.updated_at
RETURNING `

type SeasonRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db, now: time.Now}
}

func (r *SeasonRepository) FindSeasonByLabelOrExternalID(ctx context.Context, lookup season.Lookup) (season.Season, bool, error) {
	if label := strings.TrimSpace(lookup.Label); label != "" {
		byLabel := qb.Select(seasonSelectColumns...).From("seasons").
			Where(qb.Eq("label", label)).
			Limit(1)
		if found, ok, err := r.getOne(ctx, byLabel, "find season by label"); err != nil || ok {
			return found, ok, err
		}
	}

	externalID := strings.TrimSpace(lookup.ExternalID)
	if externalID == "" {
		return season.Season{}, false, nil
	}

	conditions := []qb.Condition{qb.Eq("external_id", externalID)}
	if lookup.Type != "" {
		conditions = append(conditions, qb.Eq("season_type", string(lookup.Type)))
	}
	byExternal := qb.Select(seasonSelectColumns...).From("seasons").
		Where(conditions...).
		OrderBy("label").
		Limit(1)
	return r.getOne(ctx, byExternal, "find season by external id")
}

func (r *SeasonRepository) FindSeasonByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	query := qb.Select(seasonSelectColumns...).From("seasons").
		Where(qb.Eq("id", seasonID)).
		Limit(1)
	return r.getOne(ctx, query, "find season by id")
}

func (r *SeasonRepository) UpsertSeason(ctx context.Context, s season.Season) (season.Season, error) {
	if err := s.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("validate season: %w", err)
	}

	cols, vals, err := qb.Columns(seasonToRow(s, r.now().UTC()))
	if err != nil {
		return season.Season{}, fmt.Errorf("build upsert season columns: %w", err)
	}
	query, args, err := qb.InsertInto("seasons").
		Columns(cols...).
		Values(vals...).
		Suffix(seasonUpsertSuffix + strings.Join(seasonSelectColumns, ", ")).
		ToSQL()
	if err != nil {
		return season.Season{}, fmt.Errorf("build upsert season query: %w", err)
	}

	var row seasonTableModel
	err = withConflictRetry(ctx, "upsert season "+s.Label, func(ctx context.Context) error {
		if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
			return fmt.Errorf("upsert season %s: %w", s.Label, err)
		}
		return nil
	})
	if err != nil {
		return season.Season{}, err
	}
	return seasonFromRow(row), nil
}

func (r *SeasonRepository) getOne(ctx context.Context, builder *qb.SelectBuilder, op string) (season.Season, bool, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return seasonFromRow(row), true, nil
}
