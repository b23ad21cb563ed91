package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
)

type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[string]season.Season
	byLabel map[string]string
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	r := &SeasonRepository{
		seasons: make(map[string]season.Season, len(seasons)),
		byLabel: make(map[string]string, len(seasons)),
	}
	for _, s := range seasons {
		r.seasons[s.ID] = s
		r.byLabel[s.Label] = s.ID
	}
	return r
}

func (r *SeasonRepository) FindSeasonByLabelOrExternalID(_ context.Context, lookup season.Lookup) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if lookup.Label != "" {
		if id, ok := r.byLabel[lookup.Label]; ok {
			return r.seasons[id], true, nil
		}
	}
	if lookup.ExternalID == "" {
		return season.Season{}, false, nil
	}

	var (
		best  season.Season
		found bool
	)
	for _, s := range r.seasons {
		if s.ExternalID != lookup.ExternalID {
			continue
		}
		if lookup.Type != "" && s.Type != lookup.Type {
			continue
		}
		if !found || s.Label < best.Label {
			best, found = s, true
		}
	}
	return best, found, nil
}

func (r *SeasonRepository) FindSeasonByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.seasons[seasonID]
	return s, ok, nil
}

// UpsertSeason keys on label. An existing row keeps its id, and its
// competition unless the new record names one.
func (r *SeasonRepository) UpsertSeason(_ context.Context, s season.Season) (season.Season, error) {
	if err := s.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("validate season: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byLabel[s.Label]; ok {
		existing := r.seasons[id]
		s.ID = existing.ID
		if s.CompetitionID == "" {
			s.CompetitionID = existing.CompetitionID
		}
	}
	r.seasons[s.ID] = s
	r.byLabel[s.Label] = s.ID
	return s, nil
}

func (r *SeasonRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.seasons)
}
