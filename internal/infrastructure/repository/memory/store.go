package memory

// Store is an in-memory MetadataStore for local runs and tests.
type Store struct {
	*ClubRepository
	*SeasonRepository
	*PlayerRepository
	*ContractRepository
	*CompetitionRepository
}

func NewStore() *Store {
	return &Store{
		ClubRepository:        NewClubRepository(nil),
		SeasonRepository:      NewSeasonRepository(nil),
		PlayerRepository:      NewPlayerRepository(nil),
		ContractRepository:    NewContractRepository(nil),
		CompetitionRepository: NewCompetitionRepository(nil),
	}
}
