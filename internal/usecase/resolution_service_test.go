package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/jersey-metadata/internal/platform/id"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/platform/worker"
)

type resolutionFixture struct {
	store   *memory.Store
	stats   *fakeStats
	tasks   *worker.Pool
	clearer *countingClearer
	service *ResolutionService
}

func newResolutionFixture(t *testing.T) *resolutionFixture {
	t.Helper()

	logger := logging.NewNop()
	store := memory.NewStore()
	stats := newFakeStats()
	stats.clubSearch["fc copenhagen"] = []club.Club{{ID: testClubID, Name: "FC Copenhagen", Country: "Denmark"}}

	tasks, err := worker.NewPool(2, time.Second, logger)
	if err != nil {
		t.Fatalf("new worker pool: %v", err)
	}
	t.Cleanup(tasks.Close)

	ids := id.NewSequence("season-")
	clearer := &countingClearer{}
	service := NewResolutionService(
		NewClubMatcher(store, stats, logger),
		NewSeasonMatcher(store, ids, logger),
		NewPlayerMatcher(store, stats, 2, logger),
		NewBackfillService(store, stats, 2, logger),
		NewCompetitionService(store, stats, ids, logger),
		store,
		tasks,
		ResolutionConfig{},
		logger,
		clearer,
	)

	return &resolutionFixture{store: store, stats: stats, tasks: tasks, clearer: clearer, service: service}
}

func TestResolutionService_DanishAliasEndToEnd(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	f.stats.rosters[rosterKey(testClubID, "2022")] = copenhagenRoster()
	f.stats.competitions[rosterKey(testClubID, "2022")] = []competition.Competition{{ID: "DK1", Name: "Superliga"}}

	got, err := f.service.Resolve(context.Background(), ResolveInput{
		ClubText:       "fc københavn",
		SeasonText:     "22/23",
		PlayerNameText: "Jonas Wind",
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if got.ClubID != testClubID || got.Confidence.Club != ConfidenceVerified {
		t.Fatalf("expected canonical club, got %+v", got)
	}
	stored, ok, _ := f.store.FindSeasonByID(context.Background(), got.SeasonID)
	if !ok || stored.Label != "22/23" || stored.Type != "league" {
		t.Fatalf("expected league season 22/23, got %+v", stored)
	}
	if got.PlayerID != "1" {
		t.Fatalf("expected roster name match, got %+v", got)
	}
	if len(got.MissingFields) != 0 {
		t.Fatalf("expected nothing missing, got %v", got.MissingFields)
	}

	f.tasks.Wait()
	if links := f.store.ClubSeasons(testClubID, got.SeasonID); len(links) != 1 || links[0].CompetitionID != "DK1" {
		t.Fatalf("expected background club season link, got %+v", links)
	}
}

func TestResolutionService_UnknownClub(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	got, err := f.service.Resolve(context.Background(), ResolveInput{ClubText: "Unknown FC 12345", SeasonText: "23/24"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.ClubID != "" || got.Confidence.Club != 0 {
		t.Fatalf("expected unresolved club, got %+v", got)
	}
	if !containsField(got.MissingFields, FieldClub) || containsField(got.MissingFields, FieldPlayer) {
		t.Fatalf("unexpected missing fields %v", got.MissingFields)
	}
	if got.SeasonID == "" {
		t.Fatalf("expected season resolved independently of the club")
	}
}

func TestResolutionService_BackfillThenRetry(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	f.stats.rosters[rosterKey(testClubID, "2006")] = []player.Player{
		{ID: "1", FullName: "Jonas Wind"},
		{ID: "8", FullName: "Marcus Allbäck"},
	}
	f.stats.history["8"] = []contract.JerseyNumber{{Season: "2006", ClubID: testClubID, Number: 11}}
	// First match and the retry lose the roster; only the backfill sees it.
	f.stats.rosterScript = []error{errFakeUpstream, nil, errFakeUpstream}

	got, err := f.service.Resolve(context.Background(), ResolveInput{
		ClubText:         "FC Copenhagen",
		SeasonText:       "2006",
		PlayerNameText:   "Allbäck",
		PlayerNumberText: "#11",
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if got.Backfill == nil || got.Backfill.PlayersProcessed != 2 {
		t.Fatalf("expected backfill to run, got %+v", got.Backfill)
	}
	if got.PlayerID != "8" || got.Confidence.Player != ConfidenceVerified {
		t.Fatalf("expected retried match through backfilled contract, got %+v", got)
	}
	if len(got.MissingFields) != 0 {
		t.Fatalf("expected nothing missing, got %v", got.MissingFields)
	}
	if n := f.stats.callCount("GetClubPlayers"); n != 3 {
		t.Fatalf("expected exactly one retry, roster calls=%d", n)
	}
}

func TestResolutionService_RepeatedMissBackfillsOnce(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	roster := make([]player.Player, 0, 6)
	for _, name := range []string{"Jonas Wind", "Viktor Claesson", "Pep Biel", "Rasmus Falk", "Kamil Grabara", "Victor Kristiansen"} {
		roster = append(roster, player.Player{ID: fmt.Sprintf("p%d", len(roster)+1), FullName: name})
	}
	f.stats.rosters[rosterKey(testClubID, "2022")] = roster

	in := ResolveInput{ClubText: "FC Copenhagen", SeasonText: "22/23", PlayerNameText: "Nobody Here"}
	first, err := f.service.Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("first Resolve error: %v", err)
	}
	if first.Backfill == nil || first.Backfill.ContractsCreated != len(roster) {
		t.Fatalf("expected first miss to backfill every roster player, got %+v", first.Backfill)
	}

	second, err := f.service.Resolve(context.Background(), in)
	if err != nil {
		t.Fatalf("second Resolve error: %v", err)
	}
	if second.Backfill != nil {
		t.Fatalf("expected no second backfill, got %+v", second.Backfill)
	}
	if n := f.stats.callCount("GetPlayerJerseyNumbers"); n != len(roster) {
		t.Fatalf("expected one history fetch per roster player, got %d", n)
	}
	// match, backfill and retry, then a single match on the second call
	if n := f.stats.callCount("GetClubPlayers"); n != 4 {
		t.Fatalf("expected 4 roster calls, got %d", n)
	}
}

func TestResolutionService_InvalidSeasonKeepsPartialResult(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	got, err := f.service.Resolve(context.Background(), ResolveInput{ClubText: "fc københavn", SeasonText: "invalid", PlayerNameText: "Jonas Wind"})
	if !errors.Is(err, ErrInvalidSeasonFormat) {
		t.Fatalf("expected ErrInvalidSeasonFormat, got %v", err)
	}
	if got.ClubID != testClubID {
		t.Fatalf("expected club kept in partial result, got %+v", got)
	}
	if !containsField(got.MissingFields, FieldSeason) || !containsField(got.MissingFields, FieldPlayer) {
		t.Fatalf("expected season and player missing, got %v", got.MissingFields)
	}
}

func TestResolutionService_UpstreamOutageIsAbsorbed(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	f.stats.clubSearchErr = errFakeUpstream

	got, err := f.service.Resolve(context.Background(), ResolveInput{ClubText: "Brøndby IF", SeasonText: "23/24"})
	if err != nil {
		t.Fatalf("expected outage to be absorbed, got %v", err)
	}
	if !containsField(got.MissingFields, FieldClub) {
		t.Fatalf("expected club missing, got %v", got.MissingFields)
	}
}

func TestResolutionService_EmptyInput(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	if _, err := f.service.Resolve(context.Background(), ResolveInput{ClubText: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResolutionService_ClearCaches(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	f.service.ClearCaches()
	if f.clearer.cleared != 1 {
		t.Fatalf("expected caches cleared once, got %d", f.clearer.cleared)
	}
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}

func TestResolutionService_PrewarmClubSeason(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	f.stats.rosters[rosterKey(testClubID, "2006")] = []player.Player{
		{ID: "1", FullName: "Jonas Wind"},
		{ID: "8", FullName: "Marcus Allbäck"},
	}
	f.stats.history["8"] = []contract.JerseyNumber{{Season: "2006", ClubID: testClubID, Number: 11}}

	got, err := f.service.PrewarmClubSeason(context.Background(), PrewarmInput{ClubID: testClubID, SeasonText: "2006"})
	if err != nil {
		t.Fatalf("PrewarmClubSeason error: %v", err)
	}
	if got.PlayersProcessed != 2 {
		t.Fatalf("expected both roster players processed, got %+v", got)
	}

	stored, ok, err := f.store.FindSeasonByLabelOrExternalID(context.Background(), season.Lookup{Label: "2006"})
	if err != nil || !ok {
		t.Fatalf("expected season to be created, ok=%v err=%v", ok, err)
	}
	c, ok, err := f.store.FindContractByJerseyNumber(context.Background(), testClubID, stored.ID, 11)
	if err != nil || !ok {
		t.Fatalf("expected number 11 contract, ok=%v err=%v", ok, err)
	}
	if c.PlayerID != "8" {
		t.Fatalf("unexpected contract player %q", c.PlayerID)
	}
}

func TestResolutionService_PrewarmRejectsBadInput(t *testing.T) {
	t.Parallel()

	f := newResolutionFixture(t)
	if _, err := f.service.PrewarmClubSeason(context.Background(), PrewarmInput{SeasonText: "2006"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.service.PrewarmClubSeason(context.Background(), PrewarmInput{ClubID: testClubID, SeasonText: "next year"}); !errors.Is(err, ErrInvalidSeasonFormat) {
		t.Fatalf("expected ErrInvalidSeasonFormat, got %v", err)
	}
}
