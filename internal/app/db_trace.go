package app

import (
	"strings"
	"unicode/utf8"
)

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses a statement onto one line and caps its
// length so span attributes stay readable.
func formatDBQueryForTrace(query string) string {
	normalized := strings.TrimRight(strings.Join(strings.Fields(query), " "), ";")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "..."
}
