package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Store is the PostgreSQL MetadataStore.
type Store struct {
	*ClubRepository
	*SeasonRepository
	*PlayerRepository
	*ContractRepository
	*CompetitionRepository

	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		ClubRepository:        NewClubRepository(db),
		SeasonRepository:      NewSeasonRepository(db),
		PlayerRepository:      NewPlayerRepository(db),
		ContractRepository:    NewContractRepository(db),
		CompetitionRepository: NewCompetitionRepository(db),
		db:                    db,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
