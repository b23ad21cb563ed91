package usecase

import (
	"context"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
)

// MetadataStore is the data-access contract over every entity the engine
// resolves. Upserts are idempotent on natural keys.
type MetadataStore interface {
	club.Repository
	season.Repository
	player.Repository
	contract.Repository
	competition.Repository
}

// StatsProvider is the external football-statistics API. Implementations
// retry transient failures themselves and report exhaustion as
// ErrUpstreamUnavailable. The bool results report whether the entity exists.
type StatsProvider interface {
	SearchClubs(ctx context.Context, query string) ([]club.Club, error)
	GetClubDetails(ctx context.Context, clubID string) (club.Club, bool, error)
	GetClubPlayers(ctx context.Context, clubID, seasonExternalID string) ([]player.Player, error)
	GetClubCompetitions(ctx context.Context, clubID, seasonExternalID string) ([]competition.Competition, error)
	SearchPlayers(ctx context.Context, query string, page int) ([]player.Player, error)
	GetPlayerDetails(ctx context.Context, playerID string) (player.Player, bool, error)
	GetPlayerJerseyNumbers(ctx context.Context, playerID string) ([]contract.JerseyNumber, error)
	// GetCompetitionSeasons returns provider seasons with the raw season
	// name in Label and the provider id in ExternalID.
	GetCompetitionSeasons(ctx context.Context, competitionID string) ([]season.Season, error)
}

// TaskRunner schedules background work that must not block the caller.
type TaskRunner interface {
	Submit(ctx context.Context, name string, task func(ctx context.Context) error) error
}

// IDGenerator creates internal record ids.
type IDGenerator interface {
	NewID() (string, error)
}

const (
	ConfidenceVerified   = 100
	ConfidenceUnverified = 80
	ConfidenceNone       = 0
)

// MatchResult is what every matcher returns. Match is nil when nothing was
// resolved, in which case Confidence is ConfidenceNone.
type MatchResult[T any] struct {
	Match      *T
	Confidence int
	Candidates []Candidate
}

func (r MatchResult[T]) Found() bool {
	return r.Match != nil
}

// Candidate is an alternative player surfaced alongside a player match.
type Candidate struct {
	PlayerID     string `json:"playerId"`
	FullName     string `json:"fullName"`
	JerseyNumber *int   `json:"jerseyNumber,omitempty"`
	Confidence   int    `json:"confidence"`
}
