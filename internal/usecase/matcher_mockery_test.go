package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	clubmock "github.com/riskibarqy/jersey-metadata/internal/mocks/domain/club"
	seasonmock "github.com/riskibarqy/jersey-metadata/internal/mocks/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/platform/id"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

func TestClubMatcher_StoreHitSkipsProviderUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := clubmock.NewRepository(t)
	stats := newFakeStats()
	matcher := NewClubMatcher(repo, stats, logging.NewNop())

	repo.
		On("FindClubByName", mock.Anything, "fc copenhagen").
		Return(club.Club{ID: testClubID, Name: "FC Copenhagen"}, true, nil).
		Once()

	got, err := matcher.MatchClub(ctx, "FC København")
	if err != nil {
		t.Fatalf("match club: %v", err)
	}
	if !got.Found() || got.Match.ID != testClubID {
		t.Fatalf("unexpected match: %+v", got)
	}
	if n := stats.callCount("SearchClubs"); n != 0 {
		t.Fatalf("expected no provider search, got %d", n)
	}
}

func TestClubMatcher_StoreErrorIsReturnedUsingMockery(t *testing.T) {
	t.Parallel()

	repo := clubmock.NewRepository(t)
	matcher := NewClubMatcher(repo, newFakeStats(), logging.NewNop())
	dbErr := errors.New("connection reset")

	repo.
		On("FindClubByName", mock.Anything, mock.AnythingOfType("string")).
		Return(club.Club{}, false, dbErr).
		Once()

	_, err := matcher.MatchClub(context.Background(), "Brøndby IF")
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("store failure must not look like an upstream outage: %v", err)
	}
}

func TestSeasonMatcher_TriesCanonicalThenRawLabelUsingMockery(t *testing.T) {
	t.Parallel()

	repo := seasonmock.NewRepository(t)
	matcher := NewSeasonMatcher(repo, id.NewSequence("season-"), logging.NewNop())

	repo.
		On("FindSeasonByLabelOrExternalID", mock.Anything, season.Lookup{Label: "22/23", ExternalID: "2022", Type: season.TypeLeague}).
		Return(season.Season{}, false, nil).
		Once()
	repo.
		On("FindSeasonByLabelOrExternalID", mock.Anything, season.Lookup{Label: "2022/2023"}).
		Return(season.Season{ID: "legacy", Label: "2022/2023", StartYear: 2022, EndYear: 2023, Type: season.TypeLeague}, true, nil).
		Once()

	got, err := matcher.MatchSeason(context.Background(), "2022/2023")
	if err != nil {
		t.Fatalf("match season: %v", err)
	}
	if got.Match.ID != "legacy" || got.Confidence != ConfidenceVerified {
		t.Fatalf("unexpected match: %+v", got)
	}
}

func TestSeasonMatcher_PersistFailureUsingMockery(t *testing.T) {
	t.Parallel()

	repo := seasonmock.NewRepository(t)
	matcher := NewSeasonMatcher(repo, id.NewSequence("season-"), logging.NewNop())

	repo.
		On("FindSeasonByLabelOrExternalID", mock.Anything, mock.AnythingOfType("season.Lookup")).
		Return(season.Season{}, false, nil).
		Once()
	repo.
		On("UpsertSeason", mock.Anything, mock.MatchedBy(func(s season.Season) bool {
			return s.ID == "season-1" && s.Label == "23/24"
		})).
		Return(season.Season{}, ErrPersistenceConflict).
		Once()

	if _, err := matcher.MatchSeason(context.Background(), "23/24"); !errors.Is(err, ErrPersistenceConflict) {
		t.Fatalf("expected persistence conflict, got %v", err)
	}
}
