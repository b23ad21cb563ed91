package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{players: make(map[string]player.Player, len(players))}
	for _, p := range players {
		r.players[p.ID] = clonePlayer(p)
	}
	return r
}

func (r *PlayerRepository) FindPlayerByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[playerID]
	if !ok {
		return player.Player{}, false, nil
	}
	return clonePlayer(p), true, nil
}

func (r *PlayerRepository) FindPlayerByName(_ context.Context, term string) ([]player.Player, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil, nil
	}

	r.mu.RLock()
	out := make([]player.Player, 0)
	for _, p := range r.players {
		if strings.Contains(strings.ToLower(p.FullName), needle) || strings.Contains(strings.ToLower(p.KnownAs), needle) {
			out = append(out, clonePlayer(p))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PlayerRepository) UpsertPlayer(_ context.Context, p player.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.players[p.ID] = clonePlayer(p)
	r.mu.Unlock()
	return nil
}

func (r *PlayerRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

func clonePlayer(p player.Player) player.Player {
	p.Nationalities = append([]string(nil), p.Nationalities...)
	if p.ShirtNumber != nil {
		n := *p.ShirtNumber
		p.ShirtNumber = &n
	}
	return p
}
