package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

const defaultBackfillWorkers = 4

type BackfillInput struct {
	ClubID           string
	SeasonID         string
	SeasonLabel      string
	ExternalSeasonID string
	// PlayerIDs limits the backfill to a subset of the roster. Ids missing
	// from the roster are fetched one by one.
	PlayerIDs []string
}

// BackfillError records why one player could not be fully backfilled.
type BackfillError struct {
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

type BackfillResult struct {
	PlayersProcessed int             `json:"playersProcessed"`
	ContractsCreated int             `json:"contractsCreated"`
	Errors           []BackfillError `json:"errors"`
	DurationMs       int64           `json:"durationMs"`
}

// Err reports per-player failures as one error wrapping ErrPartialBackfill.
func (r BackfillResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d player(s) failed", ErrPartialBackfill, len(r.Errors))
}

// BackfillStore is the slice of MetadataStore the backfill writes through.
type BackfillStore interface {
	player.Repository
	contract.Repository
	season.Repository
}

// BackfillService fetches a club season roster with number histories from the
// provider and reconciles it into the store.
type BackfillService struct {
	store   BackfillStore
	stats   StatsProvider
	workers int
	logger  *logging.Logger
}

func NewBackfillService(store BackfillStore, stats StatsProvider, workers int, logger *logging.Logger) *BackfillService {
	if workers < 1 {
		workers = defaultBackfillWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BackfillService{
		store:   store,
		stats:   stats,
		workers: workers,
		logger:  logger.Named("backfill"),
	}
}

// BackfillClubSeason never aborts on a single player: failures are collected
// in the result. The error is only set when the roster itself could not be
// fetched or the input is invalid.
func (s *BackfillService) BackfillClubSeason(ctx context.Context, input BackfillInput) (BackfillResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackfillService.BackfillClubSeason",
		attribute.String("club.id", input.ClubID),
		attribute.String("season.id", input.SeasonID),
	)
	defer span.End()

	input.ClubID = strings.TrimSpace(input.ClubID)
	input.SeasonID = strings.TrimSpace(input.SeasonID)
	if input.ClubID == "" || input.SeasonID == "" {
		return BackfillResult{}, fmt.Errorf("%w: club id and season id are required", ErrInvalidInput)
	}

	start := time.Now()
	roster, err := s.stats.GetClubPlayers(ctx, input.ClubID, input.ExternalSeasonID)
	if err != nil {
		recordSpanError(span, err)
		s.logger.WarnContext(ctx, "backfill roster fetch failed", "club_id", input.ClubID, "season", input.ExternalSeasonID, "error", err)
		return BackfillResult{}, upstreamError("fetch roster", err)
	}

	var (
		processed atomic.Int32
		contracts atomic.Int32
		mu        sync.Mutex
		failures  []BackfillError
	)
	fail := func(playerID string, err error) {
		mu.Lock()
		failures = append(failures, BackfillError{PlayerID: playerID, Message: err.Error()})
		mu.Unlock()
	}

	targets, missing := s.selectTargets(roster, input.PlayerIDs)
	for _, id := range missing {
		p, ok, err := s.stats.GetPlayerDetails(ctx, id)
		switch {
		case err != nil:
			fail(id, fmt.Errorf("fetch player details: %w", err))
		case !ok:
			fail(id, fmt.Errorf("%w: player not known upstream", ErrNotFound))
		default:
			targets = append(targets, p)
		}
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return BackfillResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, target := range targets {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			stored, created, err := s.backfillPlayer(ctx, input, target)
			contracts.Add(int32(created))
			if stored {
				processed.Add(1)
			}
			if err != nil {
				fail(target.ID, err)
			}
		}); err != nil {
			workers.Done()
			fail(target.ID, fmt.Errorf("submit backfill task: %w", err))
		}
	}
	workers.Wait()

	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].PlayerID < failures[j].PlayerID
	})

	result := BackfillResult{
		PlayersProcessed: int(processed.Load()),
		ContractsCreated: int(contracts.Load()),
		Errors:           failures,
		DurationMs:       time.Since(start).Milliseconds(),
	}

	s.logger.InfoContext(ctx, "backfill finished",
		"club_id", input.ClubID,
		"season_id", input.SeasonID,
		"players_processed", result.PlayersProcessed,
		"contracts_created", result.ContractsCreated,
		"errors", len(result.Errors),
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

// backfillPlayer stores p and its contracts for the club. stored reports
// whether the player row was written, even if its history later failed.
func (s *BackfillService) backfillPlayer(ctx context.Context, input BackfillInput, p player.Player) (bool, int, error) {
	if err := p.Validate(); err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.store.UpsertPlayer(ctx, p); err != nil {
		return false, 0, fmt.Errorf("upsert player: %w", err)
	}

	history, err := s.stats.GetPlayerJerseyNumbers(ctx, p.ID)
	if err != nil {
		return true, 0, fmt.Errorf("fetch jersey history: %w", err)
	}

	created := 0
	numberedInTarget := false
	seen := make(map[string]struct{})
	for _, entry := range history {
		if entry.ClubID != input.ClubID || !contract.ValidNumber(entry.Number) {
			continue
		}

		seasonID, ok, err := s.resolveHistorySeason(ctx, input, entry.Season)
		if err != nil {
			return true, created, err
		}
		if !ok {
			continue
		}

		key := fmt.Sprintf("%s:%d", seasonID, entry.Number)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		link := contract.Contract{
			PlayerID:     p.ID,
			ClubID:       input.ClubID,
			SeasonID:     seasonID,
			JerseyNumber: contract.IntPtr(entry.Number),
		}
		if err := s.store.UpsertPlayerContract(ctx, link); err != nil {
			return true, created, fmt.Errorf("upsert contract for season %s: %w", seasonID, err)
		}
		created++
		if seasonID == input.SeasonID {
			numberedInTarget = true
		}
	}

	// The roster is proof of membership even when history has no number for
	// this season. The unnumbered row is upgraded once a number shows up.
	if !numberedInTarget {
		link := contract.Contract{PlayerID: p.ID, ClubID: input.ClubID, SeasonID: input.SeasonID}
		if err := s.store.UpsertPlayerContract(ctx, link); err != nil {
			return true, created, fmt.Errorf("upsert unnumbered contract: %w", err)
		}
		created++
	}

	return true, created, nil
}

// resolveHistorySeason maps a history season to a stored season id. Entries
// matching the backfilled season use it directly; other seasons must already
// exist in the store.
func (s *BackfillService) resolveHistorySeason(ctx context.Context, input BackfillInput, text string) (string, bool, error) {
	if seasonEntryMatches(text, input.SeasonLabel, input.ExternalSeasonID) {
		return input.SeasonID, true, nil
	}

	parsed, err := season.Parse(text)
	if err != nil {
		return "", false, nil
	}

	found, ok, err := s.store.FindSeasonByLabelOrExternalID(ctx, season.Lookup{
		Label:      parsed.Label,
		ExternalID: parsed.ExternalSeasonID,
		Type:       parsed.Type,
	})
	if err != nil {
		return "", false, fmt.Errorf("find season %q: %w", parsed.Label, err)
	}
	if !ok {
		return "", false, nil
	}
	return found.ID, true, nil
}

func (s *BackfillService) selectTargets(roster []player.Player, ids []string) ([]player.Player, []string) {
	if len(ids) == 0 {
		return append([]player.Player(nil), roster...), nil
	}

	byID := make(map[string]player.Player, len(roster))
	for _, p := range roster {
		byID[p.ID] = p
	}

	targets := make([]player.Player, 0, len(ids))
	var missing []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if p, ok := byID[id]; ok {
			targets = append(targets, p)
			continue
		}
		missing = append(missing, id)
	}
	return targets, missing
}
