package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

// ClubMatcher resolves club text against the store first and the provider's
// club search second.
type ClubMatcher struct {
	clubs  club.Repository
	stats  StatsProvider
	logger *logging.Logger
}

func NewClubMatcher(clubs club.Repository, stats StatsProvider, logger *logging.Logger) *ClubMatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClubMatcher{
		clubs:  clubs,
		stats:  stats,
		logger: logger.Named("club_matcher"),
	}
}

// MatchClub returns the matched club at ConfidenceVerified or an empty
// result. When the store misses and every provider search failed the error
// wraps ErrUpstreamUnavailable.
func (m *ClubMatcher) MatchClub(ctx context.Context, text string) (MatchResult[club.Club], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubMatcher.MatchClub", attribute.String("club.text", text))
	defer span.End()

	terms := club.NormalizeClubName(text)
	if len(terms) == 0 {
		return MatchResult[club.Club]{}, nil
	}

	for _, term := range terms {
		found, ok, err := m.clubs.FindClubByName(ctx, term)
		if err != nil {
			recordSpanError(span, err)
			return MatchResult[club.Club]{}, fmt.Errorf("find club by name %q: %w", term, err)
		}
		if ok {
			m.logger.DebugContext(ctx, "club matched in store", "term", term, "club_id", found.ID)
			return MatchResult[club.Club]{Match: &found, Confidence: ConfidenceVerified}, nil
		}
	}

	if m.stats == nil {
		return MatchResult[club.Club]{}, nil
	}

	var upstreamErr error
	searched := make(map[string]struct{})
	for _, normalized := range terms {
		for _, term := range club.GenerateSearchTerms(normalized) {
			key := strings.ToLower(term)
			if _, ok := searched[key]; ok {
				continue
			}
			searched[key] = struct{}{}

			results, err := m.stats.SearchClubs(ctx, term)
			if err != nil {
				m.logger.WarnContext(ctx, "club search failed", "term", term, "error", err)
				upstreamErr = err
				continue
			}
			if len(results) == 0 {
				continue
			}

			top := m.enrich(ctx, results[0])
			if err := top.Validate(); err != nil {
				m.logger.WarnContext(ctx, "club search returned invalid record", "term", term, "error", err)
				continue
			}
			if err := m.clubs.UpsertClub(ctx, top); err != nil {
				m.logger.ErrorContext(ctx, "persist matched club failed", "club_id", top.ID, "error", err)
				recordSpanError(span, err)
				return MatchResult[club.Club]{}, fmt.Errorf("upsert club %s: %w", top.ID, err)
			}

			m.logger.DebugContext(ctx, "club matched via provider search", "term", term, "club_id", top.ID)
			return MatchResult[club.Club]{Match: &top, Confidence: ConfidenceVerified}, nil
		}
	}

	if upstreamErr != nil {
		err := upstreamError(fmt.Sprintf("club search for %q", text), upstreamErr)
		recordSpanError(span, err)
		return MatchResult[club.Club]{}, err
	}
	return MatchResult[club.Club]{}, nil
}

// enrich overlays the provider profile onto a search hit and fills the ISO
// country code. Profile failures keep the search record.
func (m *ClubMatcher) enrich(ctx context.Context, hit club.Club) club.Club {
	out := hit
	detail, ok, err := m.stats.GetClubDetails(ctx, hit.ID)
	switch {
	case err != nil:
		m.logger.WarnContext(ctx, "club details unavailable, keeping search record", "club_id", hit.ID, "error", err)
	case ok:
		out = hit.Merge(detail)
	}

	if out.CountryISO2 == "" {
		out.CountryISO2 = club.CountryISO2(out.Country)
	}
	return out
}
