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

const (
	clubPrefix        = "club:"
	seasonPrefix      = "season:"
	playerPrefix      = "player:"
	contractPrefix    = "contract:"
	competitionPrefix = "competition:"
)

var _ usecase.MetadataStore = (*MetadataStore)(nil)

// MetadataStore caches reads of the wrapped store. Every upsert drops the
// cached entries of the entity kind it wrote.
type MetadataStore struct {
	next  usecase.MetadataStore
	cache *basecache.Store
}

func NewMetadataStore(next usecase.MetadataStore, cache *basecache.Store) *MetadataStore {
	return &MetadataStore{next: next, cache: cache}
}

// Clear drops every cached read.
func (s *MetadataStore) Clear() {
	s.cache.Clear()
}

type found[T any] struct {
	value  T
	exists bool
}

func loadFound[T any](ctx context.Context, store *basecache.Store, key string, load func(context.Context) (T, bool, error)) (T, bool, error) {
	cached, err := basecache.Load(ctx, store, key, func(ctx context.Context) (found[T], error) {
		value, exists, err := load(ctx)
		if err != nil {
			return found[T]{}, err
		}
		return found[T]{value: value, exists: exists}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return cached.value, cached.exists, nil
}

func loadList[T any](ctx context.Context, store *basecache.Store, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	items, err := basecache.Load(ctx, store, key, func(ctx context.Context) ([]T, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]T(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]T(nil), items...), nil
}

func (s *MetadataStore) FindClubByName(ctx context.Context, term string) (club.Club, bool, error) {
	return loadFound(ctx, s.cache, basecache.Key(clubPrefix+"name", term), func(ctx context.Context) (club.Club, bool, error) {
		return s.next.FindClubByName(ctx, term)
	})
}

func (s *MetadataStore) FindClubByID(ctx context.Context, clubID string) (club.Club, bool, error) {
	return loadFound(ctx, s.cache, basecache.Key(clubPrefix+"id", clubID), func(ctx context.Context) (club.Club, bool, error) {
		return s.next.FindClubByID(ctx, clubID)
	})
}

func (s *MetadataStore) UpsertClub(ctx context.Context, c club.Club) error {
	defer s.cache.DeletePrefix(ctx, clubPrefix)
	return s.next.UpsertClub(ctx, c)
}

func (s *MetadataStore) FindSeasonByLabelOrExternalID(ctx context.Context, lookup season.Lookup) (season.Season, bool, error) {
	key := basecache.Key(seasonPrefix+"lookup", lookup.Label+"|"+lookup.ExternalID+"|"+string(lookup.Type))
	return loadFound(ctx, s.cache, key, func(ctx context.Context) (season.Season, bool, error) {
		return s.next.FindSeasonByLabelOrExternalID(ctx, lookup)
	})
}

func (s *MetadataStore) FindSeasonByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	return loadFound(ctx, s.cache, basecache.Key(seasonPrefix+"id", seasonID), func(ctx context.Context) (season.Season, bool, error) {
		return s.next.FindSeasonByID(ctx, seasonID)
	})
}

func (s *MetadataStore) UpsertSeason(ctx context.Context, in season.Season) (season.Season, error) {
	defer s.cache.DeletePrefix(ctx, seasonPrefix)
	return s.next.UpsertSeason(ctx, in)
}

func (s *MetadataStore) FindPlayerByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return loadFound(ctx, s.cache, basecache.Key(playerPrefix+"id", playerID), func(ctx context.Context) (player.Player, bool, error) {
		return s.next.FindPlayerByID(ctx, playerID)
	})
}

func (s *MetadataStore) FindPlayerByName(ctx context.Context, term string) ([]player.Player, error) {
	return loadList(ctx, s.cache, basecache.Key(playerPrefix+"name", term), func(ctx context.Context) ([]player.Player, error) {
		return s.next.FindPlayerByName(ctx, term)
	})
}

func (s *MetadataStore) UpsertPlayer(ctx context.Context, p player.Player) error {
	defer s.cache.DeletePrefix(ctx, playerPrefix)
	return s.next.UpsertPlayer(ctx, p)
}

func (s *MetadataStore) FindContractByJerseyNumber(ctx context.Context, clubID, seasonID string, number int) (contract.Contract, bool, error) {
	key := basecache.Key(contractPrefix+"number", clubID+"|"+seasonID, strconv.Itoa(number))
	return loadFound(ctx, s.cache, key, func(ctx context.Context) (contract.Contract, bool, error) {
		return s.next.FindContractByJerseyNumber(ctx, clubID, seasonID, number)
	})
}

func (s *MetadataStore) FindContractsByClubSeason(ctx context.Context, clubID, seasonID string) ([]contract.Contract, error) {
	key := basecache.Key(contractPrefix+"club_season", clubID+"|"+seasonID)
	return loadList(ctx, s.cache, key, func(ctx context.Context) ([]contract.Contract, error) {
		return s.next.FindContractsByClubSeason(ctx, clubID, seasonID)
	})
}

func (s *MetadataStore) UpsertPlayerContract(ctx context.Context, c contract.Contract) error {
	defer s.cache.DeletePrefix(ctx, contractPrefix)
	return s.next.UpsertPlayerContract(ctx, c)
}

func (s *MetadataStore) FindCompetitionByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	return loadFound(ctx, s.cache, basecache.Key(competitionPrefix+"id", competitionID), func(ctx context.Context) (competition.Competition, bool, error) {
		return s.next.FindCompetitionByID(ctx, competitionID)
	})
}

func (s *MetadataStore) UpsertCompetition(ctx context.Context, c competition.Competition) error {
	defer s.cache.DeletePrefix(ctx, competitionPrefix)
	return s.next.UpsertCompetition(ctx, c)
}

// UpsertClubSeason is not cached on the read side, so nothing is dropped.
func (s *MetadataStore) UpsertClubSeason(ctx context.Context, link competition.ClubSeason) error {
	return s.next.UpsertClubSeason(ctx, link)
}
