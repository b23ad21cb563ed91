package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

// player_contracts carries a NULLS NOT DISTINCT unique index over all four
// columns, so an unnumbered contract conflicts like a numbered one.
var contractConflictColumns = []string{"player_id", "club_id", "season_id", "jersey_number"}

const insertUnnumberedContractSQL = `INSERT INTO player_contracts (player_id, club_id, season_id, jersey_number)
SELECT $1, $2, $3, NULL
WHERE NOT EXISTS (
    SELECT 1 FROM player_contracts WHERE player_id = $1 AND club_id = $2 AND season_id = $3
)
ON CONFLICT (player_id, club_id, season_id, jersey_number) DO NOTHING`

const deleteUnnumberedContractSQL = `DELETE FROM player_contracts
WHERE player_id = $1 AND club_id = $2 AND season_id = $3 AND jersey_number IS NULL`

type ContractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) FindContractByJerseyNumber(ctx context.Context, clubID, seasonID string, number int) (contract.Contract, bool, error) {
	query, args, err := qb.Select(contractSelectColumns...).From("player_contracts").
		Where(
			qb.Eq("club_id", clubID),
			qb.Eq("season_id", seasonID),
			qb.Eq("jersey_number", number),
		).
		OrderBy("player_id").
		Limit(1).
		ToSQL()
	if err != nil {
		return contract.Contract{}, false, fmt.Errorf("build select contract by number query: %w", err)
	}

	var row contractTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contract.Contract{}, false, nil
		}
		return contract.Contract{}, false, fmt.Errorf("select contract by number: %w", err)
	}
	return contractFromRow(row), true, nil
}

func (r *ContractRepository) FindContractsByClubSeason(ctx context.Context, clubID, seasonID string) ([]contract.Contract, error) {
	query, args, err := qb.Select(contractSelectColumns...).From("player_contracts").
		Where(
			qb.Eq("club_id", clubID),
			qb.Eq("season_id", seasonID),
		).
		OrderBy("jersey_number NULLS LAST", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select contracts by club season query: %w", err)
	}

	var rows []contractTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select contracts by club season: %w", err)
	}

	out := make([]contract.Contract, 0, len(rows))
	for _, row := range rows {
		out = append(out, contractFromRow(row))
	}
	return out, nil
}

// UpsertPlayerContract skips an unnumbered contract when the player already
// has one for the club season; a numbered contract replaces an unnumbered
// row.
func (r *ContractRepository) UpsertPlayerContract(ctx context.Context, c contract.Contract) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate contract: %w", err)
	}

	op := fmt.Sprintf("upsert contract player=%s club=%s season=%s", c.PlayerID, c.ClubID, c.SeasonID)
	if c.JerseyNumber == nil {
		return withConflictRetry(ctx, op, func(ctx context.Context) error {
			if _, err := r.db.ExecContext(ctx, insertUnnumberedContractSQL, c.PlayerID, c.ClubID, c.SeasonID); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		})
	}

	row := contractTableModel{
		PlayerID:     c.PlayerID,
		ClubID:       c.ClubID,
		SeasonID:     c.SeasonID,
		JerseyNumber: nullInt32(c.JerseyNumber),
	}
	query, args, err := qb.UpsertModel("player_contracts", row, contractConflictColumns)
	if err != nil {
		return fmt.Errorf("build upsert contract query: %w", err)
	}

	return withConflictRetry(ctx, op, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin %s: %w", op, err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, deleteUnnumberedContractSQL, c.PlayerID, c.ClubID, c.SeasonID); err != nil {
			return fmt.Errorf("%s: drop unnumbered row: %w", op, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", op, err)
		}
		return nil
	})
}
