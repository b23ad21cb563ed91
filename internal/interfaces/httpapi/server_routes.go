package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerResolutionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/resolutions", handler.Resolve)
	mux.HandleFunc("POST /v1/backfills", handler.PrewarmClubSeason)
	mux.HandleFunc("POST /v1/competitions/{competitionID}/seasons/sync", handler.SyncCompetitionSeasons)
	mux.HandleFunc("POST /v1/caches/clear", handler.ClearCaches)
}
