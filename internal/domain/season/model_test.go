package season

import "testing"

func TestSeasonValidate(t *testing.T) {
	p, err := Parse("22/23")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := p.ToSeason("s-1", "")
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid season: %v", err)
	}
	if s.ExternalID != "2022" || s.Label != "22/23" {
		t.Fatalf("unexpected season %+v", s)
	}

	s.Type = "weekly"
	if err := s.Validate(); err == nil {
		t.Fatalf("expected invalid type error")
	}
}
