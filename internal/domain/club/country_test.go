package club

import "testing"

func TestCountryISO2(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Denmark":             "DK",
		"  germany ":          "DE",
		"Türkiye":             "TR",
		"Côte d'Ivoire":       "CI",
		"Republic of Ireland": "IE",
		"Northern Ireland":    "GB",
		"Atlantis":            "",
		"":                    "",
	}

	for in, want := range tests {
		if got := CountryISO2(in); got != want {
			t.Fatalf("CountryISO2(%q) = %q, want %q", in, got, want)
		}
	}
}
