package club

import "context"

// Repository describes club persistence needs from use cases.
type Repository interface {
	// FindClubByName does a case-insensitive substring match on name or
	// official name.
	FindClubByName(ctx context.Context, term string) (Club, bool, error)
	FindClubByID(ctx context.Context, clubID string) (Club, bool, error)
	UpsertClub(ctx context.Context, c Club) error
}
