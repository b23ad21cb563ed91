package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

// SeasonMatcher resolves season text to a stored season, creating it on a
// miss. Parsing is deterministic, so a stored season is always
// ConfidenceVerified.
type SeasonMatcher struct {
	seasons season.Repository
	ids     IDGenerator
	logger  *logging.Logger
}

func NewSeasonMatcher(seasons season.Repository, ids IDGenerator, logger *logging.Logger) *SeasonMatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonMatcher{
		seasons: seasons,
		ids:     ids,
		logger:  logger.Named("season_matcher"),
	}
}

// MatchSeason fails with an error wrapping ErrInvalidSeasonFormat when text
// matches no season grammar.
func (m *SeasonMatcher) MatchSeason(ctx context.Context, text string) (MatchResult[season.Season], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonMatcher.MatchSeason", attribute.String("season.text", text))
	defer span.End()

	parsed, err := season.Parse(text)
	if err != nil {
		recordSpanError(span, err)
		return MatchResult[season.Season]{}, err
	}

	lookups := []season.Lookup{{Label: parsed.Label, ExternalID: parsed.ExternalSeasonID, Type: parsed.Type}}
	if parsed.Input != parsed.Label {
		lookups = append(lookups, season.Lookup{Label: parsed.Input})
	}
	for _, lookup := range lookups {
		found, ok, err := m.seasons.FindSeasonByLabelOrExternalID(ctx, lookup)
		if err != nil {
			recordSpanError(span, err)
			return MatchResult[season.Season]{}, fmt.Errorf("find season %q: %w", lookup.Label, err)
		}
		if ok {
			m.logger.DebugContext(ctx, "season matched in store", "label", found.Label, "season_id", found.ID)
			return MatchResult[season.Season]{Match: &found, Confidence: ConfidenceVerified}, nil
		}
	}

	id, err := m.ids.NewID()
	if err != nil {
		return MatchResult[season.Season]{}, fmt.Errorf("generate season id: %w", err)
	}

	stored, err := m.seasons.UpsertSeason(ctx, parsed.ToSeason(id, ""))
	if err != nil {
		m.logger.ErrorContext(ctx, "persist season failed", "label", parsed.Label, "error", err)
		recordSpanError(span, err)
		return MatchResult[season.Season]{}, fmt.Errorf("upsert season %q: %w", parsed.Label, err)
	}

	m.logger.DebugContext(ctx, "season created", "label", stored.Label, "season_id", stored.ID, "type", string(stored.Type))
	return MatchResult[season.Season]{Match: &stored, Confidence: ConfidenceVerified}, nil
}
