package club

import (
	"sort"
	"strings"
)

// countryCodes maps provider country names to ISO 3166-1 alpha-2 codes. The
// home nations share GB.
var countryCodes = map[string]string{
	"afghanistan":            "AF",
	"albania":                "AL",
	"algeria":                "DZ",
	"andorra":                "AD",
	"angola":                 "AO",
	"argentina":              "AR",
	"armenia":                "AM",
	"australia":              "AU",
	"austria":                "AT",
	"azerbaijan":             "AZ",
	"belarus":                "BY",
	"belgium":                "BE",
	"bolivia":                "BO",
	"bosnia-herzegovina":     "BA",
	"bosnia and herzegovina": "BA",
	"brazil":                 "BR",
	"bulgaria":               "BG",
	"burkina faso":           "BF",
	"cameroon":               "CM",
	"canada":                 "CA",
	"cape verde":             "CV",
	"chile":                  "CL",
	"china":                  "CN",
	"colombia":               "CO",
	"costa rica":             "CR",
	"cote d'ivoire":          "CI",
	"ivory coast":            "CI",
	"croatia":                "HR",
	"cyprus":                 "CY",
	"czech republic":         "CZ",
	"czechia":                "CZ",
	"denmark":                "DK",
	"dr congo":               "CD",
	"ecuador":                "EC",
	"egypt":                  "EG",
	"england":                "GB",
	"estonia":                "EE",
	"finland":                "FI",
	"france":                 "FR",
	"gabon":                  "GA",
	"georgia":                "GE",
	"germany":                "DE",
	"ghana":                  "GH",
	"greece":                 "GR",
	"guinea":                 "GN",
	"hungary":                "HU",
	"iceland":                "IS",
	"indonesia":              "ID",
	"iran":                   "IR",
	"ireland":                "IE",
	"israel":                 "IL",
	"italy":                  "IT",
	"jamaica":                "JM",
	"japan":                  "JP",
	"kazakhstan":             "KZ",
	"korea, south":           "KR",
	"south korea":            "KR",
	"kosovo":                 "XK",
	"latvia":                 "LV",
	"lithuania":              "LT",
	"luxembourg":             "LU",
	"mali":                   "ML",
	"malta":                  "MT",
	"mexico":                 "MX",
	"moldova":                "MD",
	"montenegro":             "ME",
	"morocco":                "MA",
	"netherlands":            "NL",
	"new zealand":            "NZ",
	"nigeria":                "NG",
	"north macedonia":        "MK",
	"northern ireland":       "GB",
	"norway":                 "NO",
	"paraguay":               "PY",
	"peru":                   "PE",
	"poland":                 "PL",
	"portugal":               "PT",
	"qatar":                  "QA",
	"romania":                "RO",
	"russia":                 "RU",
	"saudi arabia":           "SA",
	"scotland":               "GB",
	"senegal":                "SN",
	"serbia":                 "RS",
	"slovakia":               "SK",
	"slovenia":               "SI",
	"south africa":           "ZA",
	"spain":                  "ES",
	"sweden":                 "SE",
	"switzerland":            "CH",
	"tunisia":                "TN",
	"turkey":                 "TR",
	"turkiye":                "TR",
	"ukraine":                "UA",
	"united arab emirates":   "AE",
	"united kingdom":         "GB",
	"united states":          "US",
	"usa":                    "US",
	"uruguay":                "UY",
	"uzbekistan":             "UZ",
	"venezuela":              "VE",
	"wales":                  "GB",
}

// countryKeysByLength holds the dictionary keys longest first so partial
// matches prefer the most specific name.
var countryKeysByLength = func() []string {
	keys := make([]string, 0, len(countryCodes))
	for k := range countryCodes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// CountryISO2 maps a country name to its ISO-2 code. Unlisted names return ""
// rather than a guess.
func CountryISO2(name string) string {
	key := strings.Join(strings.Fields(strings.ToLower(Fold(name))), " ")
	if key == "" {
		return ""
	}
	if code, ok := countryCodes[key]; ok {
		return code
	}

	for _, candidate := range countryKeysByLength {
		if len(candidate) < 4 {
			continue
		}
		if strings.Contains(key, candidate) {
			return countryCodes[candidate]
		}
	}
	return ""
}
