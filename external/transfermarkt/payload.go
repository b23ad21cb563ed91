package transfermarkt

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
)

type clubSearchEnvelope struct {
	Query          string           `json:"query"`
	PageNumber     int              `json:"pageNumber"`
	LastPageNumber int              `json:"lastPageNumber"`
	Results        []clubSearchItem `json:"results"`
}

type clubSearchItem struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	MarketValue amount `json:"marketValue"`
}

type clubProfile struct {
	ID                 string   `json:"id"`
	URL                string   `json:"url"`
	Name               string   `json:"name"`
	OfficialName       string   `json:"officialName"`
	Image              string   `json:"image"`
	StadiumName        string   `json:"stadiumName"`
	StadiumSeats       amount   `json:"stadiumSeats"`
	FoundedOn          string   `json:"foundedOn"`
	Colors             []string `json:"colors"`
	CurrentMarketValue amount   `json:"currentMarketValue"`
	League             struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		CountryName string `json:"countryName"`
	} `json:"league"`
}

type clubPlayersEnvelope struct {
	ID      string       `json:"id"`
	Players []rosterItem `json:"players"`
}

type rosterItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Position    string   `json:"position"`
	DateOfBirth string   `json:"dateOfBirth"`
	Nationality []string `json:"nationality"`
	Height      height   `json:"height"`
	Foot        string   `json:"foot"`
}

type clubCompetitionsEnvelope struct {
	ID           string            `json:"id"`
	SeasonID     string            `json:"seasonId"`
	Competitions []competitionItem `json:"competitions"`
}

type competitionItem struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Country          string `json:"country"`
	Continent        string `json:"continent"`
	Clubs            amount `json:"clubs"`
	Players          amount `json:"players"`
	TotalMarketValue amount `json:"totalMarketValue"`
	MeanMarketValue  amount `json:"meanMarketValue"`
}

type playerSearchEnvelope struct {
	Query          string             `json:"query"`
	PageNumber     int                `json:"pageNumber"`
	LastPageNumber int                `json:"lastPageNumber"`
	Results        []playerSearchItem `json:"results"`
}

type clubRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type playerSearchItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Position      string   `json:"position"`
	Club          clubRef  `json:"club"`
	Nationalities []string `json:"nationalities"`
}

type playerProfile struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Name        string   `json:"name"`
	FullName    string   `json:"fullName"`
	ImageURL    string   `json:"imageUrl"`
	DateOfBirth string   `json:"dateOfBirth"`
	Height      height   `json:"height"`
	Citizenship []string `json:"citizenship"`
	Foot        string   `json:"foot"`
	ShirtNumber string   `json:"shirtNumber"`
	Position    struct {
		Main string `json:"main"`
	} `json:"position"`
	Club clubRef `json:"club"`
}

type jerseyNumbersEnvelope struct {
	ID            string            `json:"id"`
	JerseyNumbers []jerseyNumberRow `json:"jerseyNumbers"`
}

type jerseyNumberRow struct {
	Season       string `json:"season"`
	Club         string `json:"club"`
	JerseyNumber amount `json:"jerseyNumber"`
}

type competitionSeasonsEnvelope struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Seasons []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"seasons"`
}

func (item clubSearchItem) toDomain() club.Club {
	return club.Club{
		ID:          strings.TrimSpace(item.ID),
		Name:        strings.TrimSpace(item.Name),
		Country:     strings.TrimSpace(item.Country),
		MarketValue: int64(item.MarketValue),
		ProfileURL:  item.URL,
	}
}

func (p clubProfile) toDomain() club.Club {
	return club.Club{
		ID:              strings.TrimSpace(p.ID),
		Name:            strings.TrimSpace(p.Name),
		OfficialName:    strings.TrimSpace(p.OfficialName),
		Slug:            slugFromURL(p.URL),
		Country:         strings.TrimSpace(p.League.CountryName),
		CrestURL:        p.Image,
		Colors:          p.Colors,
		StadiumName:     strings.TrimSpace(p.StadiumName),
		StadiumCapacity: int(p.StadiumSeats),
		FoundedOn:       parseDate(p.FoundedOn),
		MarketValue:     int64(p.CurrentMarketValue),
		ProfileURL:      p.URL,
	}
}

func (item rosterItem) toDomain(clubID string) player.Player {
	return player.Player{
		ID:              strings.TrimSpace(item.ID),
		FullName:        strings.TrimSpace(item.Name),
		BirthDate:       parseDate(item.DateOfBirth),
		Nationalities:   item.Nationality,
		NationalityISO2: firstCountryISO2(item.Nationality),
		HeightCM:        int(item.Height),
		PreferredFoot:   strings.ToLower(strings.TrimSpace(item.Foot)),
		Position:        strings.TrimSpace(item.Position),
		CurrentClubID:   clubID,
	}
}

func (item competitionItem) toDomain() competition.Competition {
	return competition.Competition{
		ID:               strings.TrimSpace(item.ID),
		Name:             strings.TrimSpace(item.Name),
		Country:          strings.TrimSpace(item.Country),
		Continent:        strings.TrimSpace(item.Continent),
		ClubsCount:       int(item.Clubs),
		PlayersCount:     int(item.Players),
		TotalMarketValue: int64(item.TotalMarketValue),
		MeanMarketValue:  int64(item.MeanMarketValue),
	}
}

func (item playerSearchItem) toDomain() player.Player {
	return player.Player{
		ID:              strings.TrimSpace(item.ID),
		FullName:        strings.TrimSpace(item.Name),
		Nationalities:   item.Nationalities,
		NationalityISO2: firstCountryISO2(item.Nationalities),
		Position:        strings.TrimSpace(item.Position),
		CurrentClubID:   strings.TrimSpace(item.Club.ID),
	}
}

// toDomain keeps the display name as KnownAs when the profile also carries
// a longer legal name.
func (p playerProfile) toDomain() player.Player {
	name := strings.TrimSpace(p.Name)
	fullName := strings.TrimSpace(p.FullName)
	out := player.Player{
		ID:              strings.TrimSpace(p.ID),
		FullName:        name,
		BirthDate:       parseDate(p.DateOfBirth),
		Nationalities:   p.Citizenship,
		NationalityISO2: firstCountryISO2(p.Citizenship),
		HeightCM:        int(p.Height),
		PreferredFoot:   strings.ToLower(strings.TrimSpace(p.Foot)),
		Position:        strings.TrimSpace(p.Position.Main),
		CurrentClubID:   strings.TrimSpace(p.Club.ID),
		ProfileURL:      p.URL,
		ImageURL:        p.ImageURL,
	}
	if fullName != "" && !strings.EqualFold(fullName, name) {
		out.FullName = fullName
		out.KnownAs = name
	}
	if n, ok := contract.ParseNumber(p.ShirtNumber); ok {
		out.ShirtNumber = contract.IntPtr(n)
	}
	return out
}

func (row jerseyNumberRow) toDomain() (contract.JerseyNumber, bool) {
	n := int(row.JerseyNumber)
	if !contract.ValidNumber(n) || strings.TrimSpace(row.Season) == "" || strings.TrimSpace(row.Club) == "" {
		return contract.JerseyNumber{}, false
	}
	return contract.JerseyNumber{
		Season: strings.TrimSpace(row.Season),
		ClubID: strings.TrimSpace(row.Club),
		Number: n,
	}, true
}

func (e competitionSeasonsEnvelope) toDomain(competitionID string) []season.Season {
	out := make([]season.Season, 0, len(e.Seasons))
	for _, item := range e.Seasons {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		out = append(out, season.Season{
			ExternalID:    strings.TrimSpace(item.ID),
			Label:         name,
			CompetitionID: competitionID,
		})
	}
	return out
}

func firstCountryISO2(countries []string) string {
	for _, name := range countries {
		if code := club.CountryISO2(name); code != "" {
			return code
		}
	}
	return ""
}

var dateLayouts = []string{"2006-01-02", "Jan 2, 2006", "02/01/2006", "02.01.2006"}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if idx := strings.Index(raw, " ("); idx > 0 {
		raw = raw[:idx]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// slugFromURL takes the first path segment of a profile URL, e.g.
// "fc-kopenhagen" from "/fc-kopenhagen/startseite/verein/190".
func slugFromURL(raw string) string {
	path := raw
	if parsed, err := url.Parse(raw); err == nil {
		path = parsed.Path
	}
	return strings.Split(strings.Trim(path, "/"), "/")[0]
}

// amount accepts JSON numbers as well as display strings such as
// "€5.00m", "€750k", "38,065" or "#9".
type amount int64

func (a *amount) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" || text == `""` {
		*a = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	*a = amount(parseAmount(text))
	return nil
}

func parseAmount(text string) int64 {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.TrimLeft(text, "€$£#")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(text, "bn"):
		multiplier, text = 1e9, strings.TrimSuffix(text, "bn")
	case strings.HasSuffix(text, "m"):
		multiplier, text = 1e6, strings.TrimSuffix(text, "m")
	case strings.HasSuffix(text, "k"):
		multiplier, text = 1e3, strings.TrimSuffix(text, "k")
	case strings.HasSuffix(text, "th."):
		multiplier, text = 1e3, strings.TrimSuffix(text, "th.")
	}
	if multiplier == 1 {
		text = strings.ReplaceAll(text, ",", "")
	} else {
		text = strings.ReplaceAll(text, ",", ".")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || value < 0 {
		return 0
	}
	return int64(value*multiplier + 0.5)
}

// height accepts centimetres as a number or strings such as "1,90m" and
// "190 cm".
type height int

func (h *height) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" || text == `""` {
		*h = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	*h = height(parseHeight(text))
	return nil
}

func parseHeight(text string) int {
	text = strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasSuffix(text, "cm"):
		text = strings.TrimSpace(strings.TrimSuffix(text, "cm"))
	case strings.HasSuffix(text, "m"):
		meters, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(strings.TrimSuffix(text, "m")), ",", "."), 64)
		if err != nil || meters <= 0 {
			return 0
		}
		return int(meters*100 + 0.5)
	}
	value, err := strconv.Atoi(text)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
