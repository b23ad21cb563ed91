package contract

import "context"

// Repository describes contract persistence needs from use cases.
type Repository interface {
	FindContractByJerseyNumber(ctx context.Context, clubID, seasonID string, number int) (Contract, bool, error)
	FindContractsByClubSeason(ctx context.Context, clubID, seasonID string) ([]Contract, error)
	// UpsertPlayerContract is idempotent on (player, club, season, number).
	UpsertPlayerContract(ctx context.Context, c Contract) error
}
