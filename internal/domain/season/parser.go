package season

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidSeasonFormat = errors.New("invalid season format")

// Parsed is the result of reading a season string.
type Parsed struct {
	Input            string
	StartYear        int
	EndYear          int
	Label            string
	ExternalSeasonID string
	Type             Type
}

// SingleYear reports whether the season covers one year.
func (p Parsed) SingleYear() bool {
	return p.StartYear == p.EndYear
}

type grammar struct {
	pattern *regexp.Regexp
	build   func(m []string) (Parsed, error)
}

// grammars are tried in order; the first match wins.
var grammars = []grammar{
	{pattern: regexp.MustCompile(`^(\d{2})$`), build: func(m []string) (Parsed, error) {
		year := 2000 + atoi(m[1])
		return Parsed{StartYear: year, EndYear: year, Type: TypeCalendar}, nil
	}},
	{pattern: regexp.MustCompile(`^(\d{4})$`), build: func(m []string) (Parsed, error) {
		year := atoi(m[1])
		typ := TypeCalendar
		if year >= 2000 {
			typ = TypeTournament
		}
		return Parsed{StartYear: year, EndYear: year, Type: typ}, nil
	}},
	{pattern: regexp.MustCompile(`^(\d{2})[/-](\d{2})$`), build: func(m []string) (Parsed, error) {
		return leagueRange(2000+atoi(m[1]), 2000+atoi(m[2]))
	}},
	{pattern: regexp.MustCompile(`^(\d{4})[/-](\d{4})$`), build: func(m []string) (Parsed, error) {
		return leagueRange(atoi(m[1]), atoi(m[2]))
	}},
	{pattern: regexp.MustCompile(`^(\d{4})[/-](\d{2})$`), build: func(m []string) (Parsed, error) {
		start := atoi(m[1])
		end := start/100*100 + atoi(m[2])
		if end < start {
			end += 100
		}
		return leagueRange(start, end)
	}},
}

// Parse reads a season string. Strings matching no grammar, and ranges that
// do not span consecutive years, fail with ErrInvalidSeasonFormat.
func Parse(input string) (Parsed, error) {
	trimmed := strings.TrimSpace(input)
	for _, g := range grammars {
		m := g.pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		p, err := g.build(m)
		if err != nil {
			return Parsed{}, fmt.Errorf("%w: %q: %v", ErrInvalidSeasonFormat, input, err)
		}
		p.Input = trimmed
		p.Label = NormalizeLabel(p)
		p.ExternalSeasonID = strconv.Itoa(p.StartYear)
		return p, nil
	}

	return Parsed{}, fmt.Errorf("%w: %q", ErrInvalidSeasonFormat, input)
}

// NormalizeLabel renders the canonical label for a parsed season:
// tournament "2006", league "23/24", calendar "23". Seasons before 2000, and
// league seasons that cross a century, keep the century so the label parses
// back to the same years.
func NormalizeLabel(p Parsed) string {
	switch p.Type {
	case TypeTournament:
		return fmt.Sprintf("%04d", p.StartYear)
	case TypeLeague:
		if p.StartYear < 2000 || p.EndYear/100 != p.StartYear/100 {
			return fmt.Sprintf("%04d/%02d", p.StartYear, p.EndYear%100)
		}
		return fmt.Sprintf("%02d/%02d", p.StartYear%100, p.EndYear%100)
	default:
		if p.StartYear < 2000 {
			return fmt.Sprintf("%04d", p.StartYear)
		}
		return fmt.Sprintf("%02d", p.StartYear%100)
	}
}

// NormalizeInput parses input and returns its canonical label.
func NormalizeInput(input string) (string, error) {
	p, err := Parse(input)
	if err != nil {
		return "", err
	}
	return p.Label, nil
}

// Match reports whether two season strings denote the same season: equal
// start years, or, when either side is a single year, that year sitting on
// the other's boundary. Unparseable input never matches.
func Match(a, b string) bool {
	pa, err := Parse(a)
	if err != nil {
		return false
	}
	pb, err := Parse(b)
	if err != nil {
		return false
	}
	return MatchParsed(pa, pb)
}

func MatchParsed(a, b Parsed) bool {
	if a.StartYear == b.StartYear {
		return true
	}
	if !a.SingleYear() && !b.SingleYear() {
		return false
	}
	return a.StartYear == b.EndYear || b.StartYear == a.EndYear
}

// ToSeason builds a storable season from a parse result.
func (p Parsed) ToSeason(id, competitionID string) Season {
	return Season{
		ID:            id,
		ExternalID:    p.ExternalSeasonID,
		Label:         p.Label,
		StartYear:     p.StartYear,
		EndYear:       p.EndYear,
		Type:          p.Type,
		CompetitionID: competitionID,
	}
}

func leagueRange(start, end int) (Parsed, error) {
	if end != start+1 {
		return Parsed{}, fmt.Errorf("range %d-%d must span consecutive years", start, end)
	}
	return Parsed{StartYear: start, EndYear: end, Type: TypeLeague}, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
