package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	basecache "github.com/riskibarqy/jersey-metadata/internal/platform/cache"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

type stubProvider struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func (p *stubProvider) hit(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[name]++
	return p.err
}

func (p *stubProvider) count(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[name]
}

func (p *stubProvider) SearchClubs(_ context.Context, query string) ([]club.Club, error) {
	if err := p.hit("SearchClubs"); err != nil {
		return nil, err
	}
	return []club.Club{{ID: "190", Name: query}}, nil
}

func (p *stubProvider) GetClubDetails(_ context.Context, clubID string) (club.Club, bool, error) {
	if err := p.hit("GetClubDetails"); err != nil {
		return club.Club{}, false, err
	}
	return club.Club{ID: clubID, Name: "FC Copenhagen"}, true, nil
}

func (p *stubProvider) GetClubPlayers(_ context.Context, _, _ string) ([]player.Player, error) {
	if err := p.hit("GetClubPlayers"); err != nil {
		return nil, err
	}
	return []player.Player{{ID: "8", FullName: "Marcus Allbäck"}}, nil
}

func (p *stubProvider) GetClubCompetitions(_ context.Context, _, _ string) ([]competition.Competition, error) {
	return nil, p.hit("GetClubCompetitions")
}

func (p *stubProvider) SearchPlayers(_ context.Context, _ string, _ int) ([]player.Player, error) {
	return nil, p.hit("SearchPlayers")
}

func (p *stubProvider) GetPlayerDetails(_ context.Context, _ string) (player.Player, bool, error) {
	return player.Player{}, false, p.hit("GetPlayerDetails")
}

func (p *stubProvider) GetPlayerJerseyNumbers(_ context.Context, _ string) ([]contract.JerseyNumber, error) {
	return nil, p.hit("GetPlayerJerseyNumbers")
}

func (p *stubProvider) GetCompetitionSeasons(_ context.Context, _ string) ([]season.Season, error) {
	return nil, p.hit("GetCompetitionSeasons")
}

func TestStatsProvider_CollapsesRepeatedCalls(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &stubProvider{}
	provider := NewStatsProvider(next, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		if _, err := provider.SearchClubs(ctx, "FC Copenhagen"); err != nil {
			t.Fatalf("search clubs: %v", err)
		}
		if _, _, err := provider.GetClubDetails(ctx, "190"); err != nil {
			t.Fatalf("club details: %v", err)
		}
	}

	if got := next.count("SearchClubs"); got != 1 {
		t.Fatalf("expected one search call, got %d", got)
	}
	if got := next.count("GetClubDetails"); got != 1 {
		t.Fatalf("expected one details call, got %d", got)
	}
}

func TestStatsProvider_KeysIncludeSeasonAndPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &stubProvider{}
	provider := NewStatsProvider(next, basecache.NewStore(time.Minute))

	_, _ = provider.GetClubPlayers(ctx, "190", "2022")
	_, _ = provider.GetClubPlayers(ctx, "190", "2023")
	_, _ = provider.GetClubPlayers(ctx, "190", "2022")
	_, _ = provider.SearchPlayers(ctx, "allback", 1)
	_, _ = provider.SearchPlayers(ctx, "allback", 2)

	if got := next.count("GetClubPlayers"); got != 2 {
		t.Fatalf("expected one roster call per season, got %d", got)
	}
	if got := next.count("SearchPlayers"); got != 2 {
		t.Fatalf("expected one search call per page, got %d", got)
	}
}

func TestStatsProvider_FailuresFallThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &stubProvider{err: usecase.ErrUpstreamUnavailable}
	provider := NewStatsProvider(next, basecache.NewStore(time.Minute))

	for i := 0; i < 2; i++ {
		_, err := provider.GetClubPlayers(ctx, "190", "2006")
		if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
			t.Fatalf("expected upstream error, got %v", err)
		}
	}
	if got := next.count("GetClubPlayers"); got != 2 {
		t.Fatalf("failed calls must not be cached, got %d", got)
	}
}

func TestStatsProvider_ExpiredEntriesAreReloaded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &stubProvider{}
	provider := NewStatsProvider(next, basecache.NewStore(time.Millisecond))

	_, _ = provider.GetCompetitionSeasons(ctx, "DK1")
	time.Sleep(5 * time.Millisecond)
	_, _ = provider.GetCompetitionSeasons(ctx, "DK1")

	if got := next.count("GetCompetitionSeasons"); got != 2 {
		t.Fatalf("expected reload after ttl, got %d", got)
	}
}
