package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
)

type contractKey struct {
	playerID string
	clubID   string
	seasonID string
	number   int
}

func keyOf(c contract.Contract) contractKey {
	n := -1
	if c.JerseyNumber != nil {
		n = *c.JerseyNumber
	}
	return contractKey{playerID: c.PlayerID, clubID: c.ClubID, seasonID: c.SeasonID, number: n}
}

type ContractRepository struct {
	mu        sync.RWMutex
	contracts map[contractKey]contract.Contract
}

func NewContractRepository(contracts []contract.Contract) *ContractRepository {
	r := &ContractRepository{contracts: make(map[contractKey]contract.Contract, len(contracts))}
	for _, c := range contracts {
		r.contracts[keyOf(c)] = cloneContract(c)
	}
	return r
}

func (r *ContractRepository) FindContractByJerseyNumber(_ context.Context, clubID, seasonID string, number int) (contract.Contract, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  contract.Contract
		found bool
	)
	for k, c := range r.contracts {
		if k.clubID != clubID || k.seasonID != seasonID || k.number != number {
			continue
		}
		if !found || c.PlayerID < best.PlayerID {
			best, found = c, true
		}
	}
	return cloneContract(best), found, nil
}

// FindContractsByClubSeason orders by jersey number, unnumbered last, then
// player id.
func (r *ContractRepository) FindContractsByClubSeason(_ context.Context, clubID, seasonID string) ([]contract.Contract, error) {
	r.mu.RLock()
	out := make([]contract.Contract, 0)
	for k, c := range r.contracts {
		if k.clubID == clubID && k.seasonID == seasonID {
			out = append(out, cloneContract(c))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].JerseyNumber, out[j].JerseyNumber
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a == nil && b != nil:
			return false
		case a != nil && b == nil:
			return true
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

// UpsertPlayerContract is idempotent on the natural key. An unnumbered
// contract is skipped when the player already has one for the club season,
// and a numbered contract takes over an existing unnumbered row.
func (r *ContractRepository) UpsertPlayerContract(_ context.Context, c contract.Contract) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	unnumbered := contractKey{playerID: c.PlayerID, clubID: c.ClubID, seasonID: c.SeasonID, number: -1}
	if c.JerseyNumber == nil {
		for k := range r.contracts {
			if k.playerID == c.PlayerID && k.clubID == c.ClubID && k.seasonID == c.SeasonID {
				return nil
			}
		}
	} else {
		delete(r.contracts, unnumbered)
	}

	r.contracts[keyOf(c)] = cloneContract(c)
	return nil
}

func (r *ContractRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contracts)
}

func cloneContract(c contract.Contract) contract.Contract {
	if c.JerseyNumber != nil {
		n := *c.JerseyNumber
		c.JerseyNumber = &n
	}
	return c
}
