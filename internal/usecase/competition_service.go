package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

// CompetitionStore is the slice of MetadataStore competition sync writes to.
type CompetitionStore interface {
	competition.Repository
	season.Repository
}

type CompetitionService struct {
	store  CompetitionStore
	stats  StatsProvider
	ids    IDGenerator
	logger *logging.Logger
}

func NewCompetitionService(store CompetitionStore, stats StatsProvider, ids IDGenerator, logger *logging.Logger) *CompetitionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CompetitionService{
		store:  store,
		stats:  stats,
		ids:    ids,
		logger: logger.Named("competition"),
	}
}

// LinkClubSeason stores the competitions a club played in during a season
// and links each to the club season. It returns the number of links written.
func (s *CompetitionService) LinkClubSeason(ctx context.Context, clubID, seasonID, externalSeasonID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.LinkClubSeason",
		attribute.String("club.id", clubID),
		attribute.String("season.id", seasonID),
	)
	defer span.End()

	if strings.TrimSpace(clubID) == "" || strings.TrimSpace(seasonID) == "" {
		return 0, fmt.Errorf("%w: club id and season id are required", ErrInvalidInput)
	}

	competitions, err := s.stats.GetClubCompetitions(ctx, clubID, externalSeasonID)
	if err != nil {
		recordSpanError(span, err)
		return 0, upstreamError("fetch club competitions", err)
	}

	linked := 0
	for _, c := range competitions {
		if err := c.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid competition", "competition_id", c.ID, "error", err)
			continue
		}
		if err := s.store.UpsertCompetition(ctx, c); err != nil {
			recordSpanError(span, err)
			return linked, fmt.Errorf("upsert competition %s: %w", c.ID, err)
		}
		link := competition.ClubSeason{ClubID: clubID, SeasonID: seasonID, CompetitionID: c.ID}
		if err := s.store.UpsertClubSeason(ctx, link); err != nil {
			recordSpanError(span, err)
			return linked, fmt.Errorf("link club season to %s: %w", c.ID, err)
		}
		linked++
	}

	s.logger.DebugContext(ctx, "club season linked", "club_id", clubID, "season_id", seasonID, "competitions", linked)
	return linked, nil
}

type SyncSeasonsResult struct {
	CompetitionID string `json:"competitionId"`
	Upserted      int    `json:"upserted"`
	Skipped       int    `json:"skipped"`
}

// SyncCompetitionSeasons normalizes every provider season of a known
// competition and stores it under that competition. Names that do not parse
// are skipped and counted.
func (s *CompetitionService) SyncCompetitionSeasons(ctx context.Context, competitionID string) (SyncSeasonsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.SyncCompetitionSeasons",
		attribute.String("competition.id", competitionID),
	)
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return SyncSeasonsResult{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	_, exists, err := s.store.FindCompetitionByID(ctx, competitionID)
	if err != nil {
		return SyncSeasonsResult{}, fmt.Errorf("find competition: %w", err)
	}
	if !exists {
		return SyncSeasonsResult{}, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}

	upstream, err := s.stats.GetCompetitionSeasons(ctx, competitionID)
	if err != nil {
		recordSpanError(span, err)
		return SyncSeasonsResult{}, upstreamError("fetch competition seasons", err)
	}

	result := SyncSeasonsResult{CompetitionID: competitionID}
	for _, raw := range upstream {
		parsed, err := season.Parse(raw.Label)
		if err != nil {
			s.logger.DebugContext(ctx, "skip unparseable competition season", "competition_id", competitionID, "name", raw.Label)
			result.Skipped++
			continue
		}

		id, err := s.ids.NewID()
		if err != nil {
			return result, fmt.Errorf("generate season id: %w", err)
		}
		if _, err := s.store.UpsertSeason(ctx, parsed.ToSeason(id, competitionID)); err != nil {
			recordSpanError(span, err)
			return result, fmt.Errorf("upsert season %q: %w", parsed.Label, err)
		}
		result.Upserted++
	}

	s.logger.InfoContext(ctx, "competition seasons synced", "competition_id", competitionID, "upserted", result.Upserted, "skipped", result.Skipped)
	return result, nil
}

func upstreamError(op string, err error) error {
	if errors.Is(err, ErrUpstreamUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, op, err)
}
