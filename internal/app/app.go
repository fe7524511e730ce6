package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/football-predictions/external/apifootball"
	"github.com/riskibarqy/football-predictions/internal/config"
	"github.com/riskibarqy/football-predictions/internal/domain/league"
	"github.com/riskibarqy/football-predictions/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-predictions/internal/platform/cache"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/riskibarqy/football-predictions/internal/platform/resilience"
	"github.com/riskibarqy/football-predictions/internal/usecase"
)

const redisPingTimeout = 3 * time.Second

type statsStore interface {
	cache.Store
	cache.StatsReporter
}

// App holds the HTTP server and the resources it must release on shutdown.
type App struct {
	Server  *http.Server
	closers []func() error
}

func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app := &App{}
	store, err := buildCache(cfg, logger, app)
	if err != nil {
		return nil, err
	}

	client := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:           cfg.RapidAPIBaseURL,
		Host:              cfg.RapidAPIHost,
		APIKey:            cfg.RapidAPIKey,
		Timeout:           cfg.UpstreamTimeout,
		MaxRetries:        cfg.UpstreamMaxRetries,
		RequestsPerMinute: cfg.UpstreamRatePerMinute,
		Logger:            logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.UpstreamCircuitEnabled,
			FailureThreshold: cfg.UpstreamCircuitFailures,
			OpenTimeout:      cfg.UpstreamCircuitOpenFor,
			HalfOpenMaxReq:   cfg.UpstreamCircuitHalfOpen,
		},
		Cache: store,
	})

	registry := league.Default()

	leagueSvc := usecase.NewLeagueService(registry)
	matchSvc := usecase.NewMatchService(client, logger)
	fixtureSvc := usecase.NewFixtureService(client, registry, matchSvc, usecase.FixtureServiceConfig{
		Location:      cfg.Location,
		EnrichWorkers: cfg.EnrichWorkers,
	}, logger)
	searchSvc := usecase.NewSearchService(client, registry, usecase.SearchServiceConfig{
		MaxTeams:     cfg.SearchMaxTeams,
		NextFixtures: cfg.SearchNextFixtures,
	}, logger)
	predictionSvc := usecase.NewPredictionService(client, usecase.PredictionServiceConfig{
		Season:         cfg.TeamStatsSeason,
		Lookback:       cfg.TeamStatsLookback,
		HeadToHeadLast: cfg.HeadToHeadLast,
	}, logger)

	handler := httpapi.NewHandler(leagueSvc, fixtureSvc, searchSvc, predictionSvc, store, client, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	app.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"followed_leagues", registry.Len(),
		"timezone", cfg.Location.String(),
		"circuit_enabled", cfg.UpstreamCircuitEnabled,
	)

	return app, nil
}

// buildCache returns the in-process LRU, fronting Redis when REDIS_URL is
// set and reachable.
func buildCache(cfg config.Config, logger *logging.Logger, app *App) (statsStore, error) {
	local := cache.NewMemory(cfg.CacheTTL, cfg.CacheMaxEntries)
	if cfg.RedisURL == "" {
		return local, nil
	}

	shared, err := cache.NewRedisFromURL(cfg.RedisURL, cfg.CacheTTL, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := shared.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, using in-process cache only", "error", err)
		_ = shared.Close()
		return local, nil
	}

	app.closers = append(app.closers, shared.Close)
	logger.Info("redis cache enabled")
	return cache.NewTiered(local, shared), nil
}
