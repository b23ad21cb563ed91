package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
)

type CompetitionRepository struct {
	mu           sync.RWMutex
	competitions map[string]competition.Competition
	links        map[competition.ClubSeason]struct{}
}

func NewCompetitionRepository(competitions []competition.Competition) *CompetitionRepository {
	r := &CompetitionRepository{
		competitions: make(map[string]competition.Competition, len(competitions)),
		links:        make(map[competition.ClubSeason]struct{}),
	}
	for _, c := range competitions {
		r.competitions[c.ID] = c
	}
	return r
}

func (r *CompetitionRepository) FindCompetitionByID(_ context.Context, competitionID string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.competitions[competitionID]
	return c, ok, nil
}

func (r *CompetitionRepository) UpsertCompetition(_ context.Context, c competition.Competition) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.competitions[c.ID] = c
	r.mu.Unlock()
	return nil
}

func (r *CompetitionRepository) UpsertClubSeason(_ context.Context, link competition.ClubSeason) error {
	if err := link.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.links[link] = struct{}{}
	r.mu.Unlock()
	return nil
}

// ClubSeasons lists the links for a club season, ordered by competition id.
func (r *CompetitionRepository) ClubSeasons(clubID, seasonID string) []competition.ClubSeason {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []competition.ClubSeason
	for link := range r.links {
		if link.ClubID == clubID && link.SeasonID == seasonID {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompetitionID < out[j].CompetitionID })
	return out
}
