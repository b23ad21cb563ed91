package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Contract records that a player wore a number for a club in a season.
// JerseyNumber is nil when the number is unconfirmed.
type Contract struct {
	PlayerID     string
	ClubID       string
	SeasonID     string
	JerseyNumber *int
}

func (c Contract) Validate() error {
	if strings.TrimSpace(c.PlayerID) == "" {
		return fmt.Errorf("contract player id is required")
	}
	if strings.TrimSpace(c.ClubID) == "" {
		return fmt.Errorf("contract club id is required")
	}
	if strings.TrimSpace(c.SeasonID) == "" {
		return fmt.Errorf("contract season id is required")
	}
	if c.JerseyNumber != nil && !ValidNumber(*c.JerseyNumber) {
		return fmt.Errorf("invalid jersey number: %d", *c.JerseyNumber)
	}

	return nil
}

// JerseyNumber is one entry of a player's number history as reported by the
// provider. Season is the provider's season text.
type JerseyNumber struct {
	Season string
	ClubID string
	Number int
}

func ValidNumber(n int) bool {
	return n >= 0 && n <= 99
}

var numberPattern = regexp.MustCompile(`^(?i)(?:no\.?|nr\.?|#)?\s*(\d{1,2})$`)

// ParseNumber reads jersey text such as "10", "#10" or "No. 10".
func ParseNumber(text string) (int, bool) {
	m := numberPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || !ValidNumber(n) {
		return 0, false
	}
	return n, true
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
