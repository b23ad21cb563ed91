package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

const defaultHistoryScanWorkers = 4

// PlayerQuery identifies the player to resolve within an already resolved
// club and season.
type PlayerQuery struct {
	ClubID           string
	SeasonID         string
	SeasonLabel      string
	ExternalSeasonID string
	Name             string
	Number           *int
}

func (q PlayerQuery) hasName() bool {
	return strings.TrimSpace(q.Name) != ""
}

// PlayerStore is the slice of MetadataStore the player matcher reads and
// writes.
type PlayerStore interface {
	player.Repository
	contract.Repository
}

// PlayerMatcher resolves a player through the provider roster first and the
// store second. The stage order below is significant for ambiguous names.
type PlayerMatcher struct {
	store       PlayerStore
	stats       StatsProvider
	scanWorkers int
	logger      *logging.Logger
}

func NewPlayerMatcher(store PlayerStore, stats StatsProvider, scanWorkers int, logger *logging.Logger) *PlayerMatcher {
	if scanWorkers < 1 {
		scanWorkers = defaultHistoryScanWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerMatcher{
		store:       store,
		stats:       stats,
		scanWorkers: scanWorkers,
		logger:      logger.Named("player_matcher"),
	}
}

func (m *PlayerMatcher) MatchPlayer(ctx context.Context, q PlayerQuery) (MatchResult[player.Player], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerMatcher.MatchPlayer",
		attribute.String("club.id", q.ClubID),
		attribute.String("season.id", q.SeasonID),
	)
	defer span.End()

	if strings.TrimSpace(q.ClubID) == "" || strings.TrimSpace(q.SeasonID) == "" {
		return MatchResult[player.Player]{}, fmt.Errorf("%w: club and season are required", ErrInvalidInput)
	}

	roster, err := m.stats.GetClubPlayers(ctx, q.ClubID, q.ExternalSeasonID)
	if err != nil {
		m.logger.WarnContext(ctx, "roster unavailable, falling back to store", "club_id", q.ClubID, "season", q.ExternalSeasonID, "error", err)
		result, fbErr := m.matchFromStore(ctx, q, err)
		recordSpanError(span, fbErr)
		return result, fbErr
	}

	matched, confidence, verified := m.matchFromRoster(ctx, q, m.usableRoster(ctx, roster))
	if matched == nil {
		candidates, err := m.localCandidates(ctx, q, nil, ConfidenceNone)
		if err != nil {
			return MatchResult[player.Player]{}, err
		}
		return MatchResult[player.Player]{Candidates: candidates}, nil
	}

	if err := m.persist(ctx, q, *matched, verified); err != nil {
		recordSpanError(span, err)
		return MatchResult[player.Player]{}, err
	}

	candidates, err := m.localCandidates(ctx, q, matched, confidence)
	if err != nil {
		return MatchResult[player.Player]{}, err
	}

	m.logger.DebugContext(ctx, "player matched via roster", "player_id", matched.ID, "confidence", confidence, "verified", verified)
	return MatchResult[player.Player]{Match: matched, Confidence: confidence, Candidates: candidates}, nil
}

// usableRoster drops provider records that could not be stored, so a broken
// entry never wins a match over a valid one further down the chain.
func (m *PlayerMatcher) usableRoster(ctx context.Context, roster []player.Player) []player.Player {
	out := roster[:0:0]
	for _, p := range roster {
		if err := p.Validate(); err != nil {
			m.logger.WarnContext(ctx, "skipping invalid roster entry", "player_id", p.ID, "error", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

// matchFromRoster runs the roster stages in priority order: name search with
// number verification, first name match, full-roster number scan, then a
// general search restricted to roster ids.
func (m *PlayerMatcher) matchFromRoster(ctx context.Context, q PlayerQuery, roster []player.Player) (*player.Player, int, bool) {
	var nameMatches []player.Player
	if q.hasName() {
		nameMatches = SearchRoster(roster, q.Name)
	}

	if len(nameMatches) > 0 && q.Number != nil {
		for i := range nameMatches {
			if m.verifyNumber(ctx, nameMatches[i].ID, q) {
				return &nameMatches[i], ConfidenceVerified, true
			}
		}
	}
	if len(nameMatches) > 0 {
		return &nameMatches[0], ConfidenceUnverified, false
	}

	if q.Number != nil {
		if found := m.scanRosterNumbers(ctx, q, roster); found != nil {
			return found, ConfidenceVerified, true
		}
	}

	if q.hasName() {
		return m.searchWithinRoster(ctx, q, roster)
	}
	return nil, ConfidenceNone, false
}

// scanRosterNumbers checks every roster player's number history with bounded
// parallelism and returns the first verified player in roster order.
func (m *PlayerMatcher) scanRosterNumbers(ctx context.Context, q PlayerQuery, roster []player.Player) *player.Player {
	hits := make([]bool, len(roster))
	p := pool.New().WithMaxGoroutines(m.scanWorkers)
	for i := range roster {
		p.Go(func() {
			hits[i] = m.verifyNumber(ctx, roster[i].ID, q)
		})
	}
	p.Wait()

	for i, hit := range hits {
		if hit {
			return &roster[i]
		}
	}
	return nil
}

func (m *PlayerMatcher) searchWithinRoster(ctx context.Context, q PlayerQuery, roster []player.Player) (*player.Player, int, bool) {
	results, err := m.stats.SearchPlayers(ctx, q.Name, 1)
	if err != nil {
		m.logger.WarnContext(ctx, "general player search failed", "name", q.Name, "error", err)
		return nil, ConfidenceNone, false
	}

	byID := make(map[string]int, len(roster))
	for i, p := range roster {
		byID[p.ID] = i
	}

	for _, hit := range results {
		idx, ok := byID[hit.ID]
		if !ok {
			continue
		}
		found := roster[idx]
		if q.Number != nil && m.verifyNumber(ctx, found.ID, q) {
			return &found, ConfidenceVerified, true
		}
		return &found, ConfidenceUnverified, false
	}
	return nil, ConfidenceNone, false
}

// verifyNumber reports whether the player's provider history has the queried
// number for this club in this season. History failures count as unverified.
func (m *PlayerMatcher) verifyNumber(ctx context.Context, playerID string, q PlayerQuery) bool {
	if q.Number == nil {
		return false
	}

	history, err := m.stats.GetPlayerJerseyNumbers(ctx, playerID)
	if err != nil {
		m.logger.WarnContext(ctx, "jersey history unavailable", "player_id", playerID, "error", err)
		return false
	}

	for _, entry := range history {
		if entry.ClubID != q.ClubID || entry.Number != *q.Number {
			continue
		}
		if seasonEntryMatches(entry.Season, q.SeasonLabel, q.ExternalSeasonID) {
			return true
		}
	}
	return false
}

func (m *PlayerMatcher) persist(ctx context.Context, q PlayerQuery, p player.Player, verified bool) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: matched player %s: %v", ErrInvalidInput, p.ID, err)
	}
	if err := m.store.UpsertPlayer(ctx, p); err != nil {
		m.logger.ErrorContext(ctx, "persist matched player failed", "player_id", p.ID, "error", err)
		return fmt.Errorf("upsert player %s: %w", p.ID, err)
	}

	link := contract.Contract{PlayerID: p.ID, ClubID: q.ClubID, SeasonID: q.SeasonID}
	if verified && q.Number != nil {
		link.JerseyNumber = contract.IntPtr(*q.Number)
	}
	if err := m.store.UpsertPlayerContract(ctx, link); err != nil {
		m.logger.ErrorContext(ctx, "persist player contract failed", "player_id", p.ID, "error", err)
		return fmt.Errorf("upsert contract for player %s: %w", p.ID, err)
	}
	return nil
}

// matchFromStore is used only when the roster could not be fetched: an exact
// (club, season, number) contract first, then a name search preferring
// players already contracted to the club for the season.
func (m *PlayerMatcher) matchFromStore(ctx context.Context, q PlayerQuery, cause error) (MatchResult[player.Player], error) {
	if q.Number != nil {
		link, ok, err := m.store.FindContractByJerseyNumber(ctx, q.ClubID, q.SeasonID, *q.Number)
		if err != nil {
			return MatchResult[player.Player]{}, fmt.Errorf("find contract by number: %w", err)
		}
		if ok {
			found, exists, err := m.store.FindPlayerByID(ctx, link.PlayerID)
			if err != nil {
				return MatchResult[player.Player]{}, fmt.Errorf("find player %s: %w", link.PlayerID, err)
			}
			if exists {
				return m.storeResult(ctx, q, found, ConfidenceVerified)
			}
		}
	}

	if q.hasName() {
		players, err := m.store.FindPlayerByName(ctx, q.Name)
		if err != nil {
			return MatchResult[player.Player]{}, fmt.Errorf("find player by name: %w", err)
		}
		if len(players) > 0 {
			contracted, err := m.contractedPlayerIDs(ctx, q)
			if err != nil {
				return MatchResult[player.Player]{}, err
			}
			best := players[0]
			for _, p := range players {
				if _, ok := contracted[p.ID]; ok {
					best = p
					break
				}
			}
			return m.storeResult(ctx, q, best, ConfidenceUnverified)
		}
	}

	candidates, err := m.localCandidates(ctx, q, nil, ConfidenceNone)
	if err != nil {
		return MatchResult[player.Player]{}, err
	}
	return MatchResult[player.Player]{Candidates: candidates}, upstreamError("roster for club "+q.ClubID, cause)
}

func (m *PlayerMatcher) storeResult(ctx context.Context, q PlayerQuery, p player.Player, confidence int) (MatchResult[player.Player], error) {
	candidates, err := m.localCandidates(ctx, q, &p, confidence)
	if err != nil {
		return MatchResult[player.Player]{}, err
	}
	m.logger.DebugContext(ctx, "player matched from store", "player_id", p.ID, "confidence", confidence)
	return MatchResult[player.Player]{Match: &p, Confidence: confidence, Candidates: candidates}, nil
}

func (m *PlayerMatcher) contractedPlayerIDs(ctx context.Context, q PlayerQuery) (map[string]struct{}, error) {
	links, err := m.store.FindContractsByClubSeason(ctx, q.ClubID, q.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("find contracts by club season: %w", err)
	}
	out := make(map[string]struct{}, len(links))
	for _, link := range links {
		out[link.PlayerID] = struct{}{}
	}
	return out, nil
}

// localCandidates lists the players contracted to the club for the season.
// The winner, when given, leads the list with its own confidence; the rest
// score ConfidenceUnverified.
func (m *PlayerMatcher) localCandidates(ctx context.Context, q PlayerQuery, winner *player.Player, winnerConfidence int) ([]Candidate, error) {
	links, err := m.store.FindContractsByClubSeason(ctx, q.ClubID, q.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("find contracts by club season: %w", err)
	}

	out := make([]Candidate, 0, len(links)+1)
	seen := make(map[string]int, len(links)+1)
	if winner != nil {
		c := Candidate{PlayerID: winner.ID, FullName: winner.FullName, Confidence: winnerConfidence}
		if winnerConfidence == ConfidenceVerified && q.Number != nil {
			c.JerseyNumber = contract.IntPtr(*q.Number)
		}
		seen[winner.ID] = 0
		out = append(out, c)
	}

	for _, link := range links {
		if idx, ok := seen[link.PlayerID]; ok {
			if out[idx].JerseyNumber == nil && link.JerseyNumber != nil {
				out[idx].JerseyNumber = contract.IntPtr(*link.JerseyNumber)
			}
			continue
		}

		p, ok, err := m.store.FindPlayerByID(ctx, link.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("find player %s: %w", link.PlayerID, err)
		}
		if !ok {
			continue
		}

		c := Candidate{PlayerID: p.ID, FullName: p.FullName, Confidence: ConfidenceUnverified}
		if link.JerseyNumber != nil {
			c.JerseyNumber = contract.IntPtr(*link.JerseyNumber)
		}
		seen[p.ID] = len(out)
		out = append(out, c)
	}
	return out, nil
}

// SearchRoster finds roster players by name, returning the first non-empty
// tier of: exact match, substring match, last-name token match for
// multi-word names, partial token match for single words. Comparison
// ignores case and diacritics and considers both full name and alias.
func SearchRoster(roster []player.Player, name string) []player.Player {
	needle := foldName(name)
	if needle == "" {
		return nil
	}
	needleTokens := strings.Fields(needle)

	tiers := []func(names []string) bool{
		func(names []string) bool {
			for _, n := range names {
				if n == needle {
					return true
				}
			}
			return false
		},
		func(names []string) bool {
			for _, n := range names {
				if strings.Contains(n, needle) {
					return true
				}
			}
			return false
		},
	}

	if len(needleTokens) > 1 {
		last := needleTokens[len(needleTokens)-1]
		tiers = append(tiers, func(names []string) bool {
			for _, n := range names {
				tokens := strings.Fields(n)
				if len(tokens) > 0 && tokens[len(tokens)-1] == last {
					return true
				}
			}
			return false
		})
	} else {
		tiers = append(tiers, func(names []string) bool {
			for _, n := range names {
				for _, token := range strings.Fields(n) {
					if len(token) < 3 {
						continue
					}
					if strings.HasPrefix(token, needle) || strings.HasPrefix(needle, token) {
						return true
					}
				}
			}
			return false
		})
	}

	folded := make([][]string, len(roster))
	for i, p := range roster {
		names := []string{foldName(p.FullName)}
		if alias := foldName(p.KnownAs); alias != "" {
			names = append(names, alias)
		}
		folded[i] = names
	}

	for _, tier := range tiers {
		var out []player.Player
		for i, p := range roster {
			if tier(folded[i]) {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func foldName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(club.Fold(s))), " ")
}

// seasonEntryMatches compares a history season against the queried season
// label, or against the external season id by start year.
func seasonEntryMatches(entry, label, externalID string) bool {
	if label != "" && season.Match(entry, label) {
		return true
	}
	if externalID == "" {
		return false
	}
	parsed, err := season.Parse(entry)
	if err != nil {
		return false
	}
	return strconv.Itoa(parsed.StartYear) == strings.TrimSpace(externalID)
}
