package club

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases maps localized or colloquial names to the form the provider uses.
// Keys are lower case. Accented keys are also reachable through Fold.
var aliases = map[string]string{
	"fc københavn":             "fc copenhagen",
	"fc kobenhavn":             "fc copenhagen",
	"københavn":                "copenhagen",
	"kobenhavn":                "copenhagen",
	"brøndby if":               "brondby if",
	"bayern münchen":           "bayern munich",
	"bayern munchen":           "bayern munich",
	"fc bayern münchen":        "bayern munich",
	"fc bayern munchen":        "bayern munich",
	"1. fc köln":               "1.fc koln",
	"1.fc köln":                "1.fc koln",
	"borussia mönchengladbach": "borussia monchengladbach",
	"inter":                    "inter milan",
	"internazionale":           "inter milan",
	"fc internazionale":        "inter milan",
	"juve":                     "juventus",
	"man utd":                  "manchester united",
	"man united":               "manchester united",
	"man city":                 "manchester city",
	"spurs":                    "tottenham hotspur",
	"psg":                      "paris saint-germain",
	"paris sg":                 "paris saint-germain",
	"atlético madrid":          "atletico madrid",
	"atlético de madrid":       "atletico madrid",
	"athletic club":            "athletic bilbao",
	"sporting lisboa":          "sporting cp",
	"sporting lisbon":          "sporting cp",
	"benfica lissabon":         "sl benfica",
	"beşiktaş":                 "besiktas jk",
	"fenerbahçe":               "fenerbahce",
	"olympique de marseille":   "olympique marseille",
	"olympique lyonnais":       "olympique lyon",
	"malmö ff":                 "malmo ff",
	"crvena zvezda":            "red star belgrade",
	"roter stern belgrad":      "red star belgrade",
	"spartak moskva":           "spartak moscow",
}

// clubPrefixes are organisational tokens that providers often omit.
var clubPrefixes = map[string]struct{}{
	"FC": {}, "SS": {}, "AC": {}, "AS": {}, "SC": {}, "CF": {},
	"CD": {}, "SD": {}, "UD": {}, "RC": {}, "US": {},
}

var specialLetters = strings.NewReplacer(
	"ø", "o", "Ø", "O",
	"æ", "ae", "Æ", "AE",
	"ß", "ss",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ı", "i",
	"œ", "oe", "Œ", "OE",
)

// Fold strips diacritics so "Brøndby" and "Brondby" compare equal.
func Fold(s string) string {
	s = specialLetters.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeClubName returns the lookup terms for a club text, mapped form
// first. Callers try each term in order.
func NormalizeClubName(text string) []string {
	original := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if original == "" {
		return nil
	}

	if mapped, ok := aliases[original]; ok && mapped != original {
		return []string{mapped, original}
	}

	folded := Fold(original)
	if mapped, ok := aliases[folded]; ok && mapped != original {
		return []string{mapped, original}
	}
	if folded != original {
		return []string{folded, original}
	}

	return []string{original}
}

// GenerateSearchTerms widens a club text into the ordered, de-duplicated
// variants tried against the provider's search.
func GenerateSearchTerms(text string) []string {
	original := strings.Join(strings.Fields(text), " ")
	if original == "" {
		return nil
	}

	terms := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	add := func(term string) {
		term = strings.Join(strings.Fields(term), " ")
		if term == "" {
			return
		}
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		terms = append(terms, term)
	}

	add(original)

	stripped := strings.Join(strings.Fields(strings.ReplaceAll(original, ".", "")), " ")
	add(stripped)

	tokens := strings.Fields(stripped)
	if len(tokens) > 1 {
		if last := tokens[len(tokens)-1]; !trivialToken(last) {
			add(last)
		}
	}

	add(withoutPrefix(tokens))

	return terms
}

func withoutPrefix(tokens []string) string {
	if len(tokens) < 2 {
		return ""
	}
	if _, ok := clubPrefixes[strings.ToUpper(tokens[0])]; ok {
		return strings.Join(tokens[1:], " ")
	}
	if _, ok := clubPrefixes[strings.ToUpper(tokens[len(tokens)-1])]; ok {
		return strings.Join(tokens[:len(tokens)-1], " ")
	}
	return ""
}

func trivialToken(token string) bool {
	if len([]rune(token)) < 3 {
		return true
	}
	if _, ok := clubPrefixes[strings.ToUpper(token)]; ok {
		return true
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
