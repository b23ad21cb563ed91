package transfermarkt

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

var _ usecase.StatsProvider = (*Client)(nil)

func (c *Client) SearchClubs(ctx context.Context, query string) ([]club.Club, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var payload clubSearchEnvelope
	if _, err := c.getJSON(ctx, "/clubs/search/"+url.PathEscape(query), nil, &payload); err != nil {
		return nil, fmt.Errorf("search clubs %q: %w", query, err)
	}

	out := make([]club.Club, 0, len(payload.Results))
	for _, item := range payload.Results {
		mapped := item.toDomain()
		if mapped.ID == "" || mapped.Name == "" {
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (c *Client) GetClubDetails(ctx context.Context, clubID string) (club.Club, bool, error) {
	var payload clubProfile
	found, err := c.getJSON(ctx, "/clubs/"+url.PathEscape(clubID)+"/profile", nil, &payload)
	if err != nil {
		return club.Club{}, false, fmt.Errorf("get club details %s: %w", clubID, err)
	}
	if !found || strings.TrimSpace(payload.ID) == "" {
		return club.Club{}, false, nil
	}
	return payload.toDomain(), true, nil
}

func (c *Client) GetClubPlayers(ctx context.Context, clubID, seasonExternalID string) ([]player.Player, error) {
	var payload clubPlayersEnvelope
	if _, err := c.getJSON(ctx, "/clubs/"+url.PathEscape(clubID)+"/players", seasonQuery(seasonExternalID), &payload); err != nil {
		return nil, fmt.Errorf("get club players club=%s season=%s: %w", clubID, seasonExternalID, err)
	}

	out := make([]player.Player, 0, len(payload.Players))
	for _, item := range payload.Players {
		if strings.TrimSpace(item.ID) == "" {
			continue
		}
		out = append(out, item.toDomain(clubID))
	}
	return out, nil
}

func (c *Client) GetClubCompetitions(ctx context.Context, clubID, seasonExternalID string) ([]competition.Competition, error) {
	var payload clubCompetitionsEnvelope
	if _, err := c.getJSON(ctx, "/clubs/"+url.PathEscape(clubID)+"/competitions", seasonQuery(seasonExternalID), &payload); err != nil {
		return nil, fmt.Errorf("get club competitions club=%s season=%s: %w", clubID, seasonExternalID, err)
	}

	out := make([]competition.Competition, 0, len(payload.Competitions))
	for _, item := range payload.Competitions {
		out = append(out, item.toDomain())
	}
	return out, nil
}

func (c *Client) SearchPlayers(ctx context.Context, query string, page int) ([]player.Player, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("page_number", strconv.Itoa(page))

	var payload playerSearchEnvelope
	if _, err := c.getJSON(ctx, "/players/search/"+url.PathEscape(query), params, &payload); err != nil {
		return nil, fmt.Errorf("search players %q: %w", query, err)
	}

	out := make([]player.Player, 0, len(payload.Results))
	for _, item := range payload.Results {
		mapped := item.toDomain()
		if mapped.ID == "" {
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (c *Client) GetPlayerDetails(ctx context.Context, playerID string) (player.Player, bool, error) {
	var payload playerProfile
	found, err := c.getJSON(ctx, "/players/"+url.PathEscape(playerID)+"/profile", nil, &payload)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("get player details %s: %w", playerID, err)
	}
	if !found || strings.TrimSpace(payload.ID) == "" {
		return player.Player{}, false, nil
	}
	return payload.toDomain(), true, nil
}

// GetPlayerJerseyNumbers drops rows with no season, no club or a number
// outside 0-99.
func (c *Client) GetPlayerJerseyNumbers(ctx context.Context, playerID string) ([]contract.JerseyNumber, error) {
	var payload jerseyNumbersEnvelope
	if _, err := c.getJSON(ctx, "/players/"+url.PathEscape(playerID)+"/jersey_numbers", nil, &payload); err != nil {
		return nil, fmt.Errorf("get jersey numbers %s: %w", playerID, err)
	}

	out := make([]contract.JerseyNumber, 0, len(payload.JerseyNumbers))
	for _, row := range payload.JerseyNumbers {
		if mapped, ok := row.toDomain(); ok {
			out = append(out, mapped)
		}
	}
	return out, nil
}

func (c *Client) GetCompetitionSeasons(ctx context.Context, competitionID string) ([]season.Season, error) {
	var payload competitionSeasonsEnvelope
	if _, err := c.getJSON(ctx, "/competitions/"+url.PathEscape(competitionID)+"/seasons", nil, &payload); err != nil {
		return nil, fmt.Errorf("get competition seasons %s: %w", competitionID, err)
	}
	return payload.toDomain(competitionID), nil
}

func seasonQuery(seasonExternalID string) url.Values {
	seasonExternalID = strings.TrimSpace(seasonExternalID)
	if seasonExternalID == "" {
		return nil
	}
	params := url.Values{}
	params.Set("season_id", seasonExternalID)
	return params
}
