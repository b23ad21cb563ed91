package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	basecache "github.com/riskibarqy/jersey-metadata/internal/platform/cache"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

const statsPrefix = "stats:"

var _ usecase.StatsProvider = (*StatsProvider)(nil)

// StatsProvider caches successful provider responses. Failed calls are never
// cached so the next request hits the provider again.
type StatsProvider struct {
	next  usecase.StatsProvider
	cache *basecache.Store
}

func NewStatsProvider(next usecase.StatsProvider, cache *basecache.Store) *StatsProvider {
	return &StatsProvider{next: next, cache: cache}
}

func (p *StatsProvider) Clear() {
	p.cache.Clear()
}

func (p *StatsProvider) SearchClubs(ctx context.Context, query string) ([]club.Club, error) {
	return loadList(ctx, p.cache, basecache.Key(statsPrefix+"club_search", query), func(ctx context.Context) ([]club.Club, error) {
		return p.next.SearchClubs(ctx, query)
	})
}

func (p *StatsProvider) GetClubDetails(ctx context.Context, clubID string) (club.Club, bool, error) {
	return loadFound(ctx, p.cache, basecache.Key(statsPrefix+"club", clubID, "details"), func(ctx context.Context) (club.Club, bool, error) {
		return p.next.GetClubDetails(ctx, clubID)
	})
}

func (p *StatsProvider) GetClubPlayers(ctx context.Context, clubID, seasonExternalID string) ([]player.Player, error) {
	key := basecache.Key(statsPrefix+"club_players", clubID+"|"+seasonExternalID)
	return loadList(ctx, p.cache, key, func(ctx context.Context) ([]player.Player, error) {
		return p.next.GetClubPlayers(ctx, clubID, seasonExternalID)
	})
}

func (p *StatsProvider) GetClubCompetitions(ctx context.Context, clubID, seasonExternalID string) ([]competition.Competition, error) {
	key := basecache.Key(statsPrefix+"club_competitions", clubID+"|"+seasonExternalID)
	return loadList(ctx, p.cache, key, func(ctx context.Context) ([]competition.Competition, error) {
		return p.next.GetClubCompetitions(ctx, clubID, seasonExternalID)
	})
}

func (p *StatsProvider) SearchPlayers(ctx context.Context, query string, page int) ([]player.Player, error) {
	key := basecache.Key(statsPrefix+"player_search", query, "page"+strconv.Itoa(page))
	return loadList(ctx, p.cache, key, func(ctx context.Context) ([]player.Player, error) {
		return p.next.SearchPlayers(ctx, query, page)
	})
}

func (p *StatsProvider) GetPlayerDetails(ctx context.Context, playerID string) (player.Player, bool, error) {
	return loadFound(ctx, p.cache, basecache.Key(statsPrefix+"player", playerID, "details"), func(ctx context.Context) (player.Player, bool, error) {
		return p.next.GetPlayerDetails(ctx, playerID)
	})
}

func (p *StatsProvider) GetPlayerJerseyNumbers(ctx context.Context, playerID string) ([]contract.JerseyNumber, error) {
	return loadList(ctx, p.cache, basecache.Key(statsPrefix+"player", playerID, "jersey_numbers"), func(ctx context.Context) ([]contract.JerseyNumber, error) {
		return p.next.GetPlayerJerseyNumbers(ctx, playerID)
	})
}

func (p *StatsProvider) GetCompetitionSeasons(ctx context.Context, competitionID string) ([]season.Season, error) {
	return loadList(ctx, p.cache, basecache.Key(statsPrefix+"competition_seasons", competitionID), func(ctx context.Context) ([]season.Season, error) {
		return p.next.GetCompetitionSeasons(ctx, competitionID)
	})
}
