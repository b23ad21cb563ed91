package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

type ClubRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db, now: time.Now}
}

// FindClubByName prefers an exact case-insensitive name, then the
// alphabetically first substring hit on name or official name.
func (r *ClubRepository) FindClubByName(ctx context.Context, term string) (club.Club, bool, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return club.Club{}, false, nil
	}

	exact := qb.Select(clubSelectColumns...).From("clubs").
		Where(qb.Expr("lower(name) = lower(?)", term)).
		OrderBy("id").
		Limit(1)
	if found, ok, err := r.getOne(ctx, exact, "find club by exact name"); err != nil || ok {
		return found, ok, err
	}

	pattern := containsPattern(term)
	partial := qb.Select(clubSelectColumns...).From("clubs").
		Where(qb.Or(qb.ILike("name", pattern), qb.ILike("official_name", pattern))).
		OrderBy("name", "id").
		Limit(1)
	return r.getOne(ctx, partial, "find club by partial name")
}

func (r *ClubRepository) FindClubByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	query := qb.Select(clubSelectColumns...).From("clubs").
		Where(qb.Eq("id", clubID)).
		Limit(1)
	return r.getOne(ctx, query, "find club by id")
}

func (r *ClubRepository) UpsertClub(ctx context.Context, c club.Club) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate club: %w", err)
	}

	query, args, err := qb.UpsertModel("clubs", clubToRow(c, r.now().UTC()), []string{"id"})
	if err != nil {
		return fmt.Errorf("build upsert club query: %w", err)
	}

	return withConflictRetry(ctx, "upsert club "+c.ID, func(ctx context.Context) error {
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert club %s: %w", c.ID, err)
		}
		return nil
	})
}

func (r *ClubRepository) getOne(ctx context.Context, builder *qb.SelectBuilder, op string) (club.Club, bool, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return clubFromRow(row), true, nil
}
