package player

import "testing"

func TestPlayerValidate(t *testing.T) {
	ten := 10
	valid := Player{ID: "340456", FullName: "Jonas Wind", ShirtNumber: &ten, NationalityISO2: "DK"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid player: %v", err)
	}

	bad := 120
	invalid := []Player{
		{FullName: "No ID"},
		{ID: "1"},
		{ID: "1", FullName: "x", ShirtNumber: &bad},
		{ID: "1", FullName: "x", NationalityISO2: "DNK"},
	}
	for _, p := range invalid {
		if err := p.Validate(); err == nil {
			t.Fatalf("expected error for %+v", p)
		}
	}
}

func TestPlayerDisplayName(t *testing.T) {
	if got := (Player{FullName: "Ricardo Izecson dos Santos Leite", KnownAs: "Kaká"}).DisplayName(); got != "Kaká" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := (Player{FullName: "Jonas Wind"}).DisplayName(); got != "Jonas Wind" {
		t.Fatalf("unexpected display name %q", got)
	}
}
