package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
)

var errFakeUpstream = fmt.Errorf("%w: scripted outage", ErrUpstreamUnavailable)

// fakeStats is a scripted StatsProvider. Roster calls consume rosterScript
// in order; a nil entry means the call succeeds.
type fakeStats struct {
	mu sync.Mutex

	clubSearch    map[string][]club.Club
	clubSearchErr error
	clubDetails   map[string]club.Club
	rosters       map[string][]player.Player
	rosterScript  []error
	competitions  map[string][]competition.Competition
	playerSearch  map[string][]player.Player
	playerDetails map[string]player.Player
	history       map[string][]contract.JerseyNumber
	historyErr    map[string]error
	compSeasons   map[string][]season.Season

	calls map[string]int
}

func newFakeStats() *fakeStats {
	return &fakeStats{
		clubSearch:    map[string][]club.Club{},
		clubDetails:   map[string]club.Club{},
		rosters:       map[string][]player.Player{},
		competitions:  map[string][]competition.Competition{},
		playerSearch:  map[string][]player.Player{},
		playerDetails: map[string]player.Player{},
		history:       map[string][]contract.JerseyNumber{},
		historyErr:    map[string]error{},
		compSeasons:   map[string][]season.Season{},
		calls:         map[string]int{},
	}
}

func rosterKey(clubID, externalSeasonID string) string {
	return clubID + "|" + externalSeasonID
}

func (f *fakeStats) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeStats) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStats) SearchClubs(_ context.Context, query string) ([]club.Club, error) {
	f.count("SearchClubs")
	if f.clubSearchErr != nil {
		return nil, f.clubSearchErr
	}
	return f.clubSearch[strings.ToLower(query)], nil
}

func (f *fakeStats) GetClubDetails(_ context.Context, clubID string) (club.Club, bool, error) {
	f.count("GetClubDetails")
	c, ok := f.clubDetails[clubID]
	return c, ok, nil
}

func (f *fakeStats) GetClubPlayers(_ context.Context, clubID, externalSeasonID string) ([]player.Player, error) {
	f.count("GetClubPlayers")
	f.mu.Lock()
	var scripted error
	if len(f.rosterScript) > 0 {
		scripted = f.rosterScript[0]
		f.rosterScript = f.rosterScript[1:]
	}
	f.mu.Unlock()
	if scripted != nil {
		return nil, scripted
	}
	return f.rosters[rosterKey(clubID, externalSeasonID)], nil
}

func (f *fakeStats) GetClubCompetitions(_ context.Context, clubID, externalSeasonID string) ([]competition.Competition, error) {
	f.count("GetClubCompetitions")
	return f.competitions[rosterKey(clubID, externalSeasonID)], nil
}

func (f *fakeStats) SearchPlayers(_ context.Context, query string, _ int) ([]player.Player, error) {
	f.count("SearchPlayers")
	return f.playerSearch[strings.ToLower(query)], nil
}

func (f *fakeStats) GetPlayerDetails(_ context.Context, playerID string) (player.Player, bool, error) {
	f.count("GetPlayerDetails")
	p, ok := f.playerDetails[playerID]
	return p, ok, nil
}

func (f *fakeStats) GetPlayerJerseyNumbers(_ context.Context, playerID string) ([]contract.JerseyNumber, error) {
	f.count("GetPlayerJerseyNumbers")
	if err := f.historyErr[playerID]; err != nil {
		return nil, err
	}
	return f.history[playerID], nil
}

func (f *fakeStats) GetCompetitionSeasons(_ context.Context, competitionID string) ([]season.Season, error) {
	f.count("GetCompetitionSeasons")
	seasons, ok := f.compSeasons[competitionID]
	if !ok {
		return nil, errors.New("competition unknown upstream")
	}
	return seasons, nil
}

type countingClearer struct {
	cleared int
}

func (c *countingClearer) Clear() {
	c.cleared++
}
