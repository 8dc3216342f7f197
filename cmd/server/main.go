package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/dharmasatrya/tripsearch/internal/aggregator"
	"github.com/dharmasatrya/tripsearch/internal/cache"
	"github.com/dharmasatrya/tripsearch/internal/config"
	"github.com/dharmasatrya/tripsearch/internal/graph"
	"github.com/dharmasatrya/tripsearch/internal/handler"
	"github.com/dharmasatrya/tripsearch/internal/providers"
	"github.com/dharmasatrya/tripsearch/internal/ratelimit"
	"github.com/dharmasatrya/tripsearch/internal/resilience"
	"github.com/dharmasatrya/tripsearch/internal/search"
	"github.com/dharmasatrya/tripsearch/internal/telemetry"
	"github.com/dharmasatrya/tripsearch/pkg/logger"
)

const serviceName = "tripsearch"

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("", os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.AppEnv, os.Stdout)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:  serviceName,
		Environment:  cfg.AppEnv,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Enabled:      cfg.Telemetry.Enabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	metrics, err := telemetry.NewMetrics(tel.Meter)
	if err != nil {
		return err
	}

	providerList, err := initializeProviders(cfg, log)
	if err != nil {
		return err
	}
	log.Info().Int("providers", len(providerList)).Msg("initialized transport providers")

	rateLimiter := ratelimit.New(ratelimit.Limit{}, map[string]ratelimit.Limit{
		"amadeus": {PerSecond: cfg.Amadeus.RPS, Burst: cfg.Amadeus.Burst},
	})

	aggConfig := aggregator.DefaultConfig()
	aggConfig.Timeout = cfg.Providers.Timeout
	aggConfig.MaxRetries = cfg.Providers.MaxRetries
	aggConfig.RateLimiter = rateLimiter
	aggConfig.Failures = metrics
	aggConfig.Logger = log
	agg := aggregator.NewAggregator(providerList, aggConfig)

	resultCache := cache.NewTieredCache(initializeStore(cfg, log),
		cache.WithCapacity(cfg.Cache.MemorySize),
		cache.WithLogger(log),
	)
	defer resultCache.Close()

	finder := graph.NewFinder(agg, graph.Config{
		MaxPairs:    cfg.Graph.MaxPairs,
		Concurrency: cfg.Graph.Concurrency,
		Logger:      log,
		Tracer:      tel.Tracer,
	})

	engine := search.NewEngine(search.Config{
		Providers:      agg,
		Graph:          finder,
		Cache:          resultCache,
		CacheTTL:       cfg.Cache.TTL,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        metrics,
		Tracer:         tel.Tracer,
		Logger:         log,
	})

	e := newServer(log)
	handler.NewSearchHandler(engine).Register(e)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting trip search server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newServer(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))

	return e
}

func initializeProviders(cfg *config.Config, log zerolog.Logger) ([]providers.Provider, error) {
	var providerList []providers.Provider

	amadeus := providers.NewAmadeusProvider(providers.AmadeusConfig{
		BaseURL:   cfg.Amadeus.BaseURL,
		APIKey:    cfg.Amadeus.APIKey,
		APISecret: cfg.Amadeus.APISecret,
		Client:    resilience.NewClient(resilience.DefaultConfig("amadeus")),
	})
	if amadeus.Enabled() {
		providerList = append(providerList, amadeus)
	} else {
		log.Info().Msg("amadeus credentials not set, flight search disabled")
	}

	rng := providers.NewRandom(time.Now().UnixNano())

	flixbus, err := providers.NewFlixBusProvider(rng)
	if err != nil {
		return nil, err
	}
	providerList = append(providerList, flixbus)

	trainline, err := providers.NewTrainlineProvider(rng)
	if err != nil {
		return nil, err
	}
	providerList = append(providerList, trainline)

	return providerList, nil
}

func initializeStore(cfg *config.Config, log zerolog.Logger) cache.Store {
	if !cfg.Cache.Enabled {
		log.Info().Msg("durable cache disabled, using in-process cache only")
		return cache.NoOpStore{}
	}

	store, err := cache.NewRedisStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).
			Str("host", cfg.Redis.Host).
			Str("port", cfg.Redis.Port).
			Msg("redis unavailable, using in-process cache only")
		return cache.NoOpStore{}
	}

	log.Info().
		Str("host", cfg.Redis.Host).
		Str("port", cfg.Redis.Port).
		Dur("ttl", cfg.Cache.TTL).
		Msg("redis cache enabled")
	return store
}
