package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
)

type ClubRepository struct {
	mu    sync.RWMutex
	clubs map[string]club.Club
}

func NewClubRepository(clubs []club.Club) *ClubRepository {
	r := &ClubRepository{clubs: make(map[string]club.Club, len(clubs))}
	for _, c := range clubs {
		r.clubs[c.ID] = cloneClub(c)
	}
	return r
}

// FindClubByName prefers an exact name, then the alphabetically first
// substring hit on name or official name.
func (r *ClubRepository) FindClubByName(_ context.Context, term string) (club.Club, bool, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return club.Club{}, false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var hits []club.Club
	for _, c := range r.clubs {
		name := strings.ToLower(c.Name)
		if name == needle {
			return cloneClub(c), true, nil
		}
		if strings.Contains(name, needle) || strings.Contains(strings.ToLower(c.OfficialName), needle) {
			hits = append(hits, c)
		}
	}
	if len(hits) == 0 {
		return club.Club{}, false, nil
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Name != hits[j].Name {
			return hits[i].Name < hits[j].Name
		}
		return hits[i].ID < hits[j].ID
	})
	return cloneClub(hits[0]), true, nil
}

func (r *ClubRepository) FindClubByID(_ context.Context, clubID string) (club.Club, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clubs[clubID]
	if !ok {
		return club.Club{}, false, nil
	}
	return cloneClub(c), true, nil
}

func (r *ClubRepository) UpsertClub(_ context.Context, c club.Club) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.clubs[c.ID] = cloneClub(c)
	r.mu.Unlock()
	return nil
}

func (r *ClubRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clubs)
}

func cloneClub(c club.Club) club.Club {
	c.Colors = append([]string(nil), c.Colors...)
	return c
}
