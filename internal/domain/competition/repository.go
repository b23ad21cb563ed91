package competition

import "context"

// Repository describes competition persistence needs from use cases.
type Repository interface {
	FindCompetitionByID(ctx context.Context, competitionID string) (Competition, bool, error)
	UpsertCompetition(ctx context.Context, c Competition) error
	UpsertClubSeason(ctx context.Context, link ClubSeason) error
}
