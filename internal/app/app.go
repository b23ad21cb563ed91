package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/jersey-metadata/external/transfermarkt"
	"github.com/riskibarqy/jersey-metadata/internal/config"
	repocache "github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/jersey-metadata/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/jersey-metadata/internal/platform/cache"
	idgen "github.com/riskibarqy/jersey-metadata/internal/platform/id"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/platform/resilience"
	"github.com/riskibarqy/jersey-metadata/internal/platform/worker"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

// App owns the HTTP server and everything it depends on.
type App struct {
	Server     *http.Server
	Resolution *usecase.ResolutionService

	tasks  *worker.Pool
	db     *sqlx.DB
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	var (
		store  usecase.MetadataStore
		pinger httpapi.Pinger
	)
	if cfg.DBEnabled {
		db, err := OpenDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		pg := postgres.NewStore(db)
		store, pinger = pg, pg
		logger.Info("metadata store ready", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))
	} else {
		store = memory.NewStore()
		logger.Info("metadata store ready", "backend", "memory")
	}

	var provider usecase.StatsProvider = transfermarkt.NewClient(transfermarkt.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.StatsAPITimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:           cfg.StatsAPIBaseURL,
		APIKey:            cfg.StatsAPIKey,
		Timeout:           cfg.StatsAPITimeout,
		RequestsPerMinute: cfg.StatsAPIRequestsPerMinute,
		Retry: resilience.RetryPolicy{
			MaxAttempts: cfg.StatsAPIMaxAttempts,
			Delay:       cfg.StatsAPIRetryDelay,
		},
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StatsCircuitEnabled,
			FailureThreshold: cfg.StatsCircuitFailureCount,
			OpenTimeout:      cfg.StatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsCircuitHalfOpenMax,
		},
		Logger: logger,
	})

	var caches []usecase.CacheClearer
	if cfg.CacheEnabled {
		cachedStore := repocache.NewMetadataStore(store, basecache.NewStore(cfg.CacheTTL))
		cachedProvider := repocache.NewStatsProvider(provider, basecache.NewStore(cfg.CacheTTL))
		store, provider = cachedStore, cachedProvider
		caches = append(caches, cachedStore, cachedProvider)
	}

	tasks, err := worker.NewPool(cfg.TaskWorkers, cfg.TaskTimeout, logger)
	if err != nil {
		_ = a.closeDB()
		return nil, fmt.Errorf("create task pool: %w", err)
	}
	a.tasks = tasks

	seasonIDs := idgen.NewUUIDGenerator()
	backfill := usecase.NewBackfillService(store, provider, cfg.BackfillWorkers, logger)
	competitions := usecase.NewCompetitionService(store, provider, seasonIDs, logger)
	a.Resolution = usecase.NewResolutionService(
		usecase.NewClubMatcher(store, provider, logger),
		usecase.NewSeasonMatcher(store, seasonIDs, logger),
		usecase.NewPlayerMatcher(store, provider, cfg.BackfillWorkers, logger),
		backfill,
		competitions,
		store,
		tasks,
		usecase.ResolutionConfig{
			MinConfidence:         cfg.ResolutionMinConfidence,
			FewContractsThreshold: cfg.BackfillFewContractsThreshold,
		},
		logger,
		caches...,
	)

	handler := httpapi.NewHandler(a.Resolution, competitions, pinger, logger)
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Close waits for background tasks and releases the database pool. Call it
// after the server has stopped accepting requests.
func (a *App) Close() error {
	if a.tasks != nil {
		a.tasks.Close()
	}
	return a.closeDB()
}

func (a *App) closeDB() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
