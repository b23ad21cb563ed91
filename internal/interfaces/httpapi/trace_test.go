package httpapi

import (
	"context"
	"errors"
	"testing"
)

func TestIsHandlerSpan(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "httpapi.Handler.Resolve", want: true},
		{in: "httpapi.Handler.PrewarmClubSeason", want: true},
		{in: "httpapi.RequestLogging", want: false},
		{in: "usecase.ResolutionService.Resolve", want: false},
	}

	for _, tt := range tests {
		if got := isHandlerSpan(tt.in); got != tt.want {
			t.Fatalf("isHandlerSpan(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestStartSpan_NoParentIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.Resolve")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.IsRecording() {
		t.Fatalf("expected a non-recording span without a parent")
	}
	failSpan(span, 500, errors.New("boom"))
}
