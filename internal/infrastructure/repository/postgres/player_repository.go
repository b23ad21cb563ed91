package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db, now: time.Now}
}

func (r *PlayerRepository) FindPlayerByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", playerID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player by id: %w", err)
	}
	return playerFromRow(row), true, nil
}

// FindPlayerByName matches term anywhere in the full name or alias,
// ordered by full name then id.
func (r *PlayerRepository) FindPlayerByName(ctx context.Context, term string) ([]player.Player, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}

	pattern := containsPattern(term)
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Or(qb.ILike("full_name", pattern), qb.ILike("known_as", pattern))).
		OrderBy("full_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by name query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by name: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) UpsertPlayer(ctx context.Context, p player.Player) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate player: %w", err)
	}

	query, args, err := qb.UpsertModel("players", playerToRow(p, r.now().UTC()), []string{"id"})
	if err != nil {
		return fmt.Errorf("build upsert player query: %w", err)
	}

	return withConflictRetry(ctx, "upsert player "+p.ID, func(ctx context.Context) error {
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player %s: %w", p.ID, err)
		}
		return nil
	})
}
