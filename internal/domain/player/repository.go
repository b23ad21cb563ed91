package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	FindPlayerByID(ctx context.Context, playerID string) (Player, bool, error)
	// FindPlayerByName does a case-insensitive substring match on full name
	// or known-as alias.
	FindPlayerByName(ctx context.Context, term string) ([]Player, error)
	UpsertPlayer(ctx context.Context, p Player) error
}
