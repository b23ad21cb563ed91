package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/jersey-metadata/internal/platform/cache"
)

type countingStore struct {
	*memory.Store

	mu    sync.Mutex
	calls map[string]int
	err   error
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.NewStore(), calls: map[string]int{}}
}

func (s *countingStore) hit(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
	return s.err
}

func (s *countingStore) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *countingStore) FindClubByName(ctx context.Context, term string) (club.Club, bool, error) {
	if err := s.hit("FindClubByName"); err != nil {
		return club.Club{}, false, err
	}
	return s.Store.FindClubByName(ctx, term)
}

func (s *countingStore) FindPlayerByName(ctx context.Context, term string) ([]player.Player, error) {
	if err := s.hit("FindPlayerByName"); err != nil {
		return nil, err
	}
	return s.Store.FindPlayerByName(ctx, term)
}

func (s *countingStore) FindContractsByClubSeason(ctx context.Context, clubID, seasonID string) ([]contract.Contract, error) {
	if err := s.hit("FindContractsByClubSeason"); err != nil {
		return nil, err
	}
	return s.Store.FindContractsByClubSeason(ctx, clubID, seasonID)
}

func TestMetadataStore_CachesMissesUntilUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := newCountingStore()
	store := NewMetadataStore(next, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		_, ok, err := store.FindClubByName(ctx, "Copenhagen")
		if err != nil {
			t.Fatalf("find club: %v", err)
		}
		if ok {
			t.Fatalf("expected miss before upsert")
		}
	}
	if got := next.count("FindClubByName"); got != 1 {
		t.Fatalf("expected one store read, got %d", got)
	}

	if err := store.UpsertClub(ctx, club.Club{ID: "190", Name: "FC Copenhagen"}); err != nil {
		t.Fatalf("upsert club: %v", err)
	}

	got, ok, err := store.FindClubByName(ctx, "copenhagen")
	if err != nil || !ok {
		t.Fatalf("expected club after upsert, ok=%v err=%v", ok, err)
	}
	if got.ID != "190" {
		t.Fatalf("unexpected club id %q", got.ID)
	}
	if calls := next.count("FindClubByName"); calls != 2 {
		t.Fatalf("expected upsert to drop the cached miss, got %d reads", calls)
	}
}

func TestMetadataStore_UpsertOnlyDropsItsOwnKind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := newCountingStore()
	store := NewMetadataStore(next, basecache.NewStore(time.Minute))

	if _, err := store.FindPlayerByName(ctx, "Allbäck"); err != nil {
		t.Fatalf("find player: %v", err)
	}
	if _, err := store.FindContractsByClubSeason(ctx, "190", "season-1"); err != nil {
		t.Fatalf("find contracts: %v", err)
	}

	number := 11
	if err := store.UpsertPlayerContract(ctx, contract.Contract{PlayerID: "8", ClubID: "190", SeasonID: "season-1", JerseyNumber: &number}); err != nil {
		t.Fatalf("upsert contract: %v", err)
	}

	if _, err := store.FindPlayerByName(ctx, "Allbäck"); err != nil {
		t.Fatalf("find player: %v", err)
	}
	items, err := store.FindContractsByClubSeason(ctx, "190", "season-1")
	if err != nil {
		t.Fatalf("find contracts: %v", err)
	}

	if got := next.count("FindPlayerByName"); got != 1 {
		t.Fatalf("player reads should stay cached, got %d", got)
	}
	if got := next.count("FindContractsByClubSeason"); got != 2 {
		t.Fatalf("contract reads should be reloaded, got %d", got)
	}
	if len(items) != 1 || items[0].PlayerID != "8" {
		t.Fatalf("unexpected contracts: %+v", items)
	}
}

func TestMetadataStore_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := newCountingStore()
	next.err = errors.New("connection reset")
	store := NewMetadataStore(next, basecache.NewStore(time.Minute))

	if _, _, err := store.FindClubByName(ctx, "Brøndby"); err == nil {
		t.Fatalf("expected store error")
	}

	next.mu.Lock()
	next.err = nil
	next.mu.Unlock()

	if _, _, err := store.FindClubByName(ctx, "Brøndby"); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if got := next.count("FindClubByName"); got != 2 {
		t.Fatalf("expected failed read to be retried, got %d", got)
	}
}

func TestMetadataStore_ReturnedSlicesAreCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := newCountingStore()
	if err := next.UpsertPlayer(ctx, player.Player{ID: "8", FullName: "Marcus Allbäck"}); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	store := NewMetadataStore(next, basecache.NewStore(time.Minute))

	first, err := store.FindPlayerByName(ctx, "marcus")
	if err != nil || len(first) != 1 {
		t.Fatalf("unexpected first read: %+v %v", first, err)
	}
	first[0].FullName = "mutated"

	second, err := store.FindPlayerByName(ctx, "marcus")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if second[0].FullName != "Marcus Allbäck" {
		t.Fatalf("cached entry was mutated: %+v", second[0])
	}
}

func TestMetadataStore_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := newCountingStore()
	store := NewMetadataStore(next, basecache.NewStore(time.Minute))

	_, _, _ = store.FindClubByName(ctx, "AIK")
	store.Clear()
	_, _, _ = store.FindClubByName(ctx, "AIK")

	if got := next.count("FindClubByName"); got != 2 {
		t.Fatalf("expected clear to force a reload, got %d reads", got)
	}
}
