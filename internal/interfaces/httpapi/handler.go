package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

const healthCheckTimeout = 2 * time.Second

// Resolver is the resolution facade as seen by the HTTP surface.
type Resolver interface {
	Resolve(ctx context.Context, input usecase.ResolveInput) (usecase.ResolutionResult, error)
	PrewarmClubSeason(ctx context.Context, input usecase.PrewarmInput) (usecase.BackfillResult, error)
	ClearCaches()
}

type SeasonSyncer interface {
	SyncCompetitionSeasons(ctx context.Context, competitionID string) (usecase.SyncSeasonsResult, error)
}

// Pinger reports whether the metadata store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	resolver  Resolver
	seasons   SeasonSyncer
	store     Pinger
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(resolver Resolver, seasons SeasonSyncer, store Pinger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		resolver:  resolver,
		seasons:   seasons,
		store:     store,
		logger:    logger.Named("httpapi"),
		validator: validator.New(),
	}
}

type resolveRequest struct {
	ClubText         string `json:"clubText" validate:"max=200"`
	SeasonText       string `json:"seasonText" validate:"max=50"`
	PlayerNameText   string `json:"playerNameText" validate:"max=200"`
	PlayerNumberText string `json:"playerNumberText" validate:"max=10"`
}

type prewarmRequest struct {
	ClubID     string   `json:"clubId" validate:"required,max=50"`
	SeasonText string   `json:"seasonText" validate:"required,max=50"`
	PlayerIDs  []string `json:"playerIds" validate:"omitempty,max=100,dive,required"`
}

type prewarmResponse struct {
	usecase.BackfillResult
	Partial bool `json:"partial"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.store != nil {
		pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		defer cancel()
		if err := h.store.Ping(pingCtx); err != nil {
			h.logger.WarnContext(ctx, "metadata store ping failed", "error", err)
			h.fail(ctx, w, span, fmt.Errorf("%w: metadata store unreachable", usecase.ErrUpstreamUnavailable))
			return
		}
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Resolve")
	defer span.End()

	var req resolveRequest
	if err := h.decode(ctx, r, &req); err != nil {
		h.fail(ctx, w, span, err)
		return
	}
	span.SetAttributes(
		attribute.String("club.text", req.ClubText),
		attribute.String("season.text", req.SeasonText),
	)

	result, err := h.resolver.Resolve(ctx, usecase.ResolveInput{
		ClubText:         req.ClubText,
		SeasonText:       req.SeasonText,
		PlayerNameText:   req.PlayerNameText,
		PlayerNumberText: req.PlayerNumberText,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resolve failed", "club_text", req.ClubText, "season_text", req.SeasonText, "error", err)
		h.fail(ctx, w, span, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *Handler) PrewarmClubSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PrewarmClubSeason")
	defer span.End()

	var req prewarmRequest
	if err := h.decode(ctx, r, &req); err != nil {
		h.fail(ctx, w, span, err)
		return
	}

	result, err := h.resolver.PrewarmClubSeason(ctx, usecase.PrewarmInput{
		ClubID:     req.ClubID,
		SeasonText: req.SeasonText,
		PlayerIDs:  req.PlayerIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "prewarm failed", "club_id", req.ClubID, "season_text", req.SeasonText, "error", err)
		h.fail(ctx, w, span, err)
		return
	}
	if result.Errors == nil {
		result.Errors = []usecase.BackfillError{}
	}

	writeSuccess(w, http.StatusOK, prewarmResponse{BackfillResult: result, Partial: result.Err() != nil})
}

func (h *Handler) SyncCompetitionSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncCompetitionSeasons")
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	span.SetAttributes(attribute.String("competition.id", competitionID))
	result, err := h.seasons.SyncCompetitionSeasons(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "competition season sync failed", "competition_id", competitionID, "error", err)
		h.fail(ctx, w, span, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *Handler) ClearCaches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearCaches")
	defer span.End()

	h.resolver.ClearCaches()
	h.logger.InfoContext(ctx, "caches cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, span trace.Span, err error) {
	failSpan(span, mapError(ctx, err).HTTPStatus, err)
	writeError(ctx, w, err)
}

func (h *Handler) decode(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
