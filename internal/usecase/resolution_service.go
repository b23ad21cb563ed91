package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

const (
	FieldClub   = "club"
	FieldSeason = "season"
	FieldPlayer = "player"

	defaultMinConfidence         = 50
	defaultFewContractsThreshold = 5
)

// ResolveInput is the text record produced by the vision or manual-link flow.
type ResolveInput struct {
	ClubText         string `json:"clubText"`
	SeasonText       string `json:"seasonText"`
	PlayerNameText   string `json:"playerNameText,omitempty"`
	PlayerNumberText string `json:"playerNumberText,omitempty"`
}

type Confidence struct {
	Club   int `json:"club"`
	Season int `json:"season"`
	Player int `json:"player"`
}

type ResolutionResult struct {
	ClubID        string          `json:"clubId,omitempty"`
	SeasonID      string          `json:"seasonId,omitempty"`
	PlayerID      string          `json:"playerId,omitempty"`
	Confidence    Confidence      `json:"confidence"`
	MissingFields []string        `json:"missingFields"`
	Candidates    []Candidate     `json:"candidates"`
	Backfill      *BackfillResult `json:"backfill,omitempty"`
}

type ResolutionConfig struct {
	MinConfidence         int
	FewContractsThreshold int
}

// CacheClearer drops every cached read.
type CacheClearer interface {
	Clear()
}

// ResolutionService resolves club, season and player text in one call,
// backfilling the club season when the player cannot be found locally.
type ResolutionService struct {
	clubs        *ClubMatcher
	seasons      *SeasonMatcher
	players      *PlayerMatcher
	backfill     *BackfillService
	competitions *CompetitionService
	contracts    contract.Repository
	tasks        TaskRunner
	caches       []CacheClearer
	cfg          ResolutionConfig
	logger       *logging.Logger
}

func NewResolutionService(
	clubs *ClubMatcher,
	seasons *SeasonMatcher,
	players *PlayerMatcher,
	backfill *BackfillService,
	competitions *CompetitionService,
	contracts contract.Repository,
	tasks TaskRunner,
	cfg ResolutionConfig,
	logger *logging.Logger,
	caches ...CacheClearer,
) *ResolutionService {
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = defaultMinConfidence
	}
	if cfg.FewContractsThreshold <= 0 {
		cfg.FewContractsThreshold = defaultFewContractsThreshold
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResolutionService{
		clubs:        clubs,
		seasons:      seasons,
		players:      players,
		backfill:     backfill,
		competitions: competitions,
		contracts:    contracts,
		tasks:        tasks,
		caches:       caches,
		cfg:          cfg,
		logger:       logger.Named("resolution"),
	}
}

// Resolve runs club, season and player matching. Unresolved fields are
// reported in MissingFields rather than as errors; upstream outages are
// absorbed. The returned error is set for empty input, season text that
// matches no grammar (the partial result is still returned), and
// persistence failures.
func (s *ResolutionService) Resolve(ctx context.Context, input ResolveInput) (ResolutionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolutionService.Resolve",
		attribute.String("club.text", input.ClubText),
		attribute.String("season.text", input.SeasonText),
	)
	defer span.End()

	input = trimInput(input)
	if input.ClubText == "" && input.SeasonText == "" && input.PlayerNameText == "" && input.PlayerNumberText == "" {
		return ResolutionResult{}, fmt.Errorf("%w: at least one text field is required", ErrInvalidInput)
	}

	result := ResolutionResult{Candidates: []Candidate{}}

	var matchedClub *club.Club
	if input.ClubText != "" {
		res, err := s.clubs.MatchClub(ctx, input.ClubText)
		if err := s.absorbUpstream(ctx, "club", err); err != nil {
			recordSpanError(span, err)
			return result, fmt.Errorf("resolve club: %w", err)
		}
		if res.Found() && res.Confidence >= s.cfg.MinConfidence {
			matchedClub = res.Match
			result.ClubID = res.Match.ID
		}
		result.Confidence.Club = res.Confidence
	}

	var matchedSeason *season.Season
	var seasonErr error
	if input.SeasonText != "" {
		res, err := s.seasons.MatchSeason(ctx, input.SeasonText)
		switch {
		case errors.Is(err, ErrInvalidSeasonFormat):
			seasonErr = err
		case err != nil:
			recordSpanError(span, err)
			return result, fmt.Errorf("resolve season: %w", err)
		}
		if res.Found() && res.Confidence >= s.cfg.MinConfidence {
			matchedSeason = res.Match
			result.SeasonID = res.Match.ID
		}
		result.Confidence.Season = res.Confidence
	}

	if matchedClub != nil && matchedSeason != nil {
		s.scheduleClubSeasonLink(ctx, matchedClub.ID, *matchedSeason)
	}

	wantsPlayer := input.PlayerNameText != "" || input.PlayerNumberText != ""
	if wantsPlayer && matchedClub != nil && matchedSeason != nil {
		q := PlayerQuery{
			ClubID:           matchedClub.ID,
			SeasonID:         matchedSeason.ID,
			SeasonLabel:      matchedSeason.Label,
			ExternalSeasonID: matchedSeason.ExternalID,
			Name:             input.PlayerNameText,
			Number:           s.parseNumber(ctx, input.PlayerNumberText),
		}

		res, backfill, err := s.resolvePlayer(ctx, q)
		if err != nil {
			recordSpanError(span, err)
			return result, err
		}
		result.Backfill = backfill
		if res.Found() && res.Confidence >= s.cfg.MinConfidence {
			result.PlayerID = res.Match.ID
		}
		result.Confidence.Player = res.Confidence
		if len(res.Candidates) > 0 {
			result.Candidates = res.Candidates
		}
	}

	result.MissingFields = s.missingFields(result, wantsPlayer)

	if seasonErr != nil {
		return result, fmt.Errorf("resolve season: %w", seasonErr)
	}
	return result, nil
}

// resolvePlayer matches once and, on a miss for a sparsely populated club
// season, backfills and retries exactly once.
func (s *ResolutionService) resolvePlayer(ctx context.Context, q PlayerQuery) (MatchResult[player.Player], *BackfillResult, error) {
	res, err := s.players.MatchPlayer(ctx, q)
	if err := s.absorbUpstream(ctx, "player", err); err != nil {
		return res, nil, fmt.Errorf("resolve player: %w", err)
	}
	if res.Found() || s.backfill == nil {
		return res, nil, nil
	}

	links, err := s.contracts.FindContractsByClubSeason(ctx, q.ClubID, q.SeasonID)
	if err != nil {
		return res, nil, fmt.Errorf("count club season contracts: %w", err)
	}
	if len(links) >= s.cfg.FewContractsThreshold {
		return res, nil, nil
	}

	s.logger.InfoContext(ctx, "player not found, backfilling club season", "club_id", q.ClubID, "season_id", q.SeasonID, "local_contracts", len(links))
	backfill, err := s.backfill.BackfillClubSeason(ctx, BackfillInput{
		ClubID:           q.ClubID,
		SeasonID:         q.SeasonID,
		SeasonLabel:      q.SeasonLabel,
		ExternalSeasonID: q.ExternalSeasonID,
	})
	if err := s.absorbUpstream(ctx, "backfill", err); err != nil {
		return res, nil, fmt.Errorf("backfill club season: %w", err)
	}
	if err != nil {
		return res, nil, nil
	}
	if partial := backfill.Err(); partial != nil {
		s.logger.WarnContext(ctx, "backfill completed with failures", "club_id", q.ClubID, "error", partial)
	}

	retried, err := s.players.MatchPlayer(ctx, q)
	if err := s.absorbUpstream(ctx, "player retry", err); err != nil {
		return retried, &backfill, fmt.Errorf("resolve player after backfill: %w", err)
	}
	return retried, &backfill, nil
}

// BackfillClubSeason exposes the orchestrator for pre-warming.
func (s *ResolutionService) BackfillClubSeason(ctx context.Context, input BackfillInput) (BackfillResult, error) {
	return s.backfill.BackfillClubSeason(ctx, input)
}

// PrewarmInput asks for a club season backfill by season text rather than by
// stored season id.
type PrewarmInput struct {
	ClubID     string   `json:"clubId"`
	SeasonText string   `json:"seasonText"`
	PlayerIDs  []string `json:"playerIds,omitempty"`
}

// PrewarmClubSeason matches the season text, creating the season when
// needed, then backfills the club season.
func (s *ResolutionService) PrewarmClubSeason(ctx context.Context, input PrewarmInput) (BackfillResult, error) {
	input.ClubID = strings.TrimSpace(input.ClubID)
	input.SeasonText = strings.TrimSpace(input.SeasonText)
	if input.ClubID == "" || input.SeasonText == "" {
		return BackfillResult{}, fmt.Errorf("%w: club id and season text are required", ErrInvalidInput)
	}

	res, err := s.seasons.MatchSeason(ctx, input.SeasonText)
	if err != nil {
		return BackfillResult{}, fmt.Errorf("resolve season: %w", err)
	}
	if !res.Found() {
		return BackfillResult{}, fmt.Errorf("%w: season=%s", ErrNotFound, input.SeasonText)
	}

	return s.backfill.BackfillClubSeason(ctx, BackfillInput{
		ClubID:           input.ClubID,
		SeasonID:         res.Match.ID,
		SeasonLabel:      res.Match.Label,
		ExternalSeasonID: res.Match.ExternalID,
		PlayerIDs:        input.PlayerIDs,
	})
}

// ClearCaches empties every registered read cache.
func (s *ResolutionService) ClearCaches() {
	for _, c := range s.caches {
		if c != nil {
			c.Clear()
		}
	}
}

func (s *ResolutionService) scheduleClubSeasonLink(ctx context.Context, clubID string, matched season.Season) {
	if s.tasks == nil || s.competitions == nil {
		return
	}
	seasonID, externalID := matched.ID, matched.ExternalID
	err := s.tasks.Submit(ctx, "link_club_season", func(ctx context.Context) error {
		_, err := s.competitions.LinkClubSeason(ctx, clubID, seasonID, externalID)
		return err
	})
	if err != nil {
		s.logger.WarnContext(ctx, "schedule club season link failed", "club_id", clubID, "season_id", seasonID, "error", err)
	}
}

// absorbUpstream logs and drops upstream outages; every other error is
// returned.
func (s *ResolutionService) absorbUpstream(ctx context.Context, stage string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		s.logger.WarnContext(ctx, "upstream unavailable, continuing without it", "stage", stage, "error", err)
		return nil
	}
	return err
}

func (s *ResolutionService) parseNumber(ctx context.Context, text string) *int {
	if text == "" {
		return nil
	}
	n, ok := contract.ParseNumber(text)
	if !ok {
		s.logger.DebugContext(ctx, "ignoring unreadable jersey number", "text", text)
		return nil
	}
	return &n
}

func (s *ResolutionService) missingFields(r ResolutionResult, wantsPlayer bool) []string {
	missing := make([]string, 0, 3)
	if r.ClubID == "" || r.Confidence.Club < s.cfg.MinConfidence {
		missing = append(missing, FieldClub)
	}
	if r.SeasonID == "" || r.Confidence.Season < s.cfg.MinConfidence {
		missing = append(missing, FieldSeason)
	}
	if wantsPlayer && (r.PlayerID == "" || r.Confidence.Player < s.cfg.MinConfidence) {
		missing = append(missing, FieldPlayer)
	}
	return missing
}

func trimInput(in ResolveInput) ResolveInput {
	return ResolveInput{
		ClubText:         strings.TrimSpace(in.ClubText),
		SeasonText:       strings.TrimSpace(in.SeasonText),
		PlayerNameText:   strings.TrimSpace(in.PlayerNameText),
		PlayerNumberText: strings.TrimSpace(in.PlayerNumberText),
	}
}
