package season

import "context"

// Repository describes season persistence needs from use cases.
type Repository interface {
	FindSeasonByLabelOrExternalID(ctx context.Context, lookup Lookup) (Season, bool, error)
	FindSeasonByID(ctx context.Context, seasonID string) (Season, bool, error)
	// UpsertSeason stores s keyed by label and returns the stored record,
	// which keeps the id of an existing row.
	UpsertSeason(ctx context.Context, s Season) (Season, error)
}
