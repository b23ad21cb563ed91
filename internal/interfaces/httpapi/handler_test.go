package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

type stubResolver struct {
	resolveInput usecase.ResolveInput
	resolveOut   usecase.ResolutionResult
	resolveErr   error

	prewarmInput usecase.PrewarmInput
	prewarmOut   usecase.BackfillResult
	prewarmErr   error

	cleared int
}

func (s *stubResolver) Resolve(_ context.Context, input usecase.ResolveInput) (usecase.ResolutionResult, error) {
	s.resolveInput = input
	return s.resolveOut, s.resolveErr
}

func (s *stubResolver) PrewarmClubSeason(_ context.Context, input usecase.PrewarmInput) (usecase.BackfillResult, error) {
	s.prewarmInput = input
	return s.prewarmOut, s.prewarmErr
}

func (s *stubResolver) ClearCaches() {
	s.cleared++
}

type stubSyncer struct {
	competitionID string
	out           usecase.SyncSeasonsResult
	err           error
}

func (s *stubSyncer) SyncCompetitionSeasons(_ context.Context, competitionID string) (usecase.SyncSeasonsResult, error) {
	s.competitionID = competitionID
	return s.out, s.err
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func newTestRouter(resolver *stubResolver, syncer *stubSyncer, pinger Pinger) http.Handler {
	logger := logging.NewNop()
	return NewRouter(NewHandler(resolver, syncer, pinger, logger), logger)
}

func serve(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, googleResponseEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env googleResponseEnvelope
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestHandler_Resolve(t *testing.T) {
	resolver := &stubResolver{resolveOut: usecase.ResolutionResult{
		ClubID:        "190",
		SeasonID:      "season-1",
		Confidence:    usecase.Confidence{Club: 100, Season: 100},
		MissingFields: []string{usecase.FieldPlayer},
		Candidates:    []usecase.Candidate{},
	}}
	router := newTestRouter(resolver, &stubSyncer{}, nil)

	rec, env := serve(t, router, http.MethodPost, "/v1/resolutions",
		`{"clubText":"FC København","seasonText":"22/23","playerNameText":"Wind"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resolver.resolveInput.ClubText != "FC København" || resolver.resolveInput.PlayerNameText != "Wind" {
		t.Fatalf("unexpected resolver input %+v", resolver.resolveInput)
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", env.Data)
	}
	if data["clubId"] != "190" {
		t.Fatalf("unexpected clubId %v", data["clubId"])
	}
	missing, _ := data["missingFields"].([]any)
	if len(missing) != 1 || missing[0] != "player" {
		t.Fatalf("unexpected missingFields %v", data["missingFields"])
	}
}

func TestHandler_ResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "malformed json", body: `{"clubText":`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"club":"AIK"}`, status: http.StatusBadRequest},
		{name: "too long", body: `{"seasonText":"` + strings.Repeat("9", 60) + `"}`, status: http.StatusBadRequest},
		{name: "invalid season", body: `{"seasonText":"soon"}`, err: fmt.Errorf("resolve season: %w", usecase.ErrInvalidSeasonFormat), status: http.StatusBadRequest},
		{name: "conflict", body: `{"seasonText":"2006"}`, err: fmt.Errorf("%w: seasons", usecase.ErrPersistenceConflict), status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubResolver{resolveErr: tt.err}, &stubSyncer{}, nil)
			rec, env := serve(t, router, http.MethodPost, "/v1/resolutions", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != tt.status {
				t.Fatalf("expected error envelope, got %+v", env)
			}
		})
	}
}

func TestHandler_PrewarmClubSeason(t *testing.T) {
	resolver := &stubResolver{prewarmOut: usecase.BackfillResult{
		PlayersProcessed: 24,
		ContractsCreated: 20,
		Errors:           []usecase.BackfillError{{PlayerID: "8", Message: "upstream unavailable"}},
	}}
	router := newTestRouter(resolver, &stubSyncer{}, nil)

	rec, env := serve(t, router, http.MethodPost, "/v1/backfills", `{"clubId":"190","seasonText":"2006","playerIds":["8"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resolver.prewarmInput.ClubID != "190" || len(resolver.prewarmInput.PlayerIDs) != 1 {
		t.Fatalf("unexpected prewarm input %+v", resolver.prewarmInput)
	}

	data, _ := env.Data.(map[string]any)
	if data["partial"] != true {
		t.Fatalf("expected partial flag, got %v", data["partial"])
	}
	if data["playersProcessed"] != float64(24) {
		t.Fatalf("unexpected playersProcessed %v", data["playersProcessed"])
	}
}

func TestHandler_PrewarmRequiresClubAndSeason(t *testing.T) {
	resolver := &stubResolver{}
	router := newTestRouter(resolver, &stubSyncer{}, nil)

	rec, _ := serve(t, router, http.MethodPost, "/v1/backfills", `{"clubId":"190"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resolver.prewarmInput.ClubID != "" {
		t.Fatalf("resolver must not be called on invalid payload")
	}
}

func TestHandler_PrewarmUpstreamDown(t *testing.T) {
	resolver := &stubResolver{prewarmErr: fmt.Errorf("fetch roster: %w", usecase.ErrUpstreamUnavailable)}
	router := newTestRouter(resolver, &stubSyncer{}, nil)

	rec, env := serve(t, router, http.MethodPost, "/v1/backfills", `{"clubId":"190","seasonText":"2006"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Status != "UNAVAILABLE" {
		t.Fatalf("unexpected error envelope %+v", env.Error)
	}
}

func TestHandler_SyncCompetitionSeasons(t *testing.T) {
	syncer := &stubSyncer{out: usecase.SyncSeasonsResult{CompetitionID: "DK1", Upserted: 12, Skipped: 1}}
	router := newTestRouter(&stubResolver{}, syncer, nil)

	rec, env := serve(t, router, http.MethodPost, "/v1/competitions/DK1/seasons/sync", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if syncer.competitionID != "DK1" {
		t.Fatalf("unexpected competition id %q", syncer.competitionID)
	}
	data, _ := env.Data.(map[string]any)
	if data["upserted"] != float64(12) {
		t.Fatalf("unexpected upserted %v", data["upserted"])
	}

	syncer.err = fmt.Errorf("%w: competition=XX", usecase.ErrNotFound)
	rec, _ = serve(t, router, http.MethodPost, "/v1/competitions/XX/seasons/sync", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_ClearCaches(t *testing.T) {
	resolver := &stubResolver{}
	router := newTestRouter(resolver, &stubSyncer{}, nil)

	rec, _ := serve(t, router, http.MethodPost, "/v1/caches/clear", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if resolver.cleared != 1 {
		t.Fatalf("expected one clear, got %d", resolver.cleared)
	}
}

func TestHandler_Healthz(t *testing.T) {
	rec, env := serve(t, newTestRouter(&stubResolver{}, &stubSyncer{}, stubPinger{}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if data, _ := env.Data.(map[string]any); data["status"] != "ok" {
		t.Fatalf("unexpected health payload %v", env.Data)
	}

	rec, _ = serve(t, newTestRouter(&stubResolver{}, &stubSyncer{}, stubPinger{err: errors.New("dial tcp: refused")}), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the store is down, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/resolutions", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&stubResolver{}, &stubSyncer{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
