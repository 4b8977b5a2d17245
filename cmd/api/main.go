package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefeed-backend/api/controllers"
	"github.com/angelmondragon/storefeed-backend/api/routes"
	"github.com/angelmondragon/storefeed-backend/internal/events"
	"github.com/angelmondragon/storefeed-backend/internal/feed"
	"github.com/angelmondragon/storefeed-backend/internal/preferences"
	product "github.com/angelmondragon/storefeed-backend/internal/products"
	"github.com/angelmondragon/storefeed-backend/internal/users"
	"github.com/angelmondragon/storefeed-backend/pkg/cache"
	"github.com/angelmondragon/storefeed-backend/pkg/config"
	"github.com/angelmondragon/storefeed-backend/pkg/db"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
	"github.com/angelmondragon/storefeed-backend/pkg/metrics"
	"github.com/angelmondragon/storefeed-backend/pkg/migrate"
	"github.com/angelmondragon/storefeed-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = db.DriverSQLite
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	pingers := map[string]controllers.Pinger{"db": dbClient}

	var backend cache.Store
	redisClient, err := connectRedis(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		pingers["redis"] = redisClient
		backend, err = cache.NewRedisStore(redisClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create candidate cache", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis unavailable, using in-process candidate cache")
		backend = cache.NewMemoryStore()
	}

	candidateCache, err := cache.NewBreakerStore(backend, cache.BreakerConfig{
		Name:             "candidate-cache",
		MaxRequests:      cfg.Cache.BreakerMaxRequests,
		Interval:         cfg.Cache.BreakerInterval,
		Timeout:          cfg.Cache.BreakerTimeout,
		FailureThreshold: cfg.Cache.BreakerFailureThreshold,
	}, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cache breaker", err)
		os.Exit(1)
	}

	feedMetrics := metrics.NewFeedMetrics(prometheus.DefaultRegisterer)

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB()).WithPriceBand(cfg.Feed.PriceBandRatio)
	metricRepo := product.NewMetricRepository(dbClient.DB())

	feedService, err := feed.NewService(feed.ServiceParams{
		Users:       userRepo,
		Preferences: preferences.NewRepository(dbClient.DB()),
		Products:    productRepo,
		Metrics:     metricRepo,
		Cache:       candidateCache,
		Logger:      logg,
		FeedMetrics: feedMetrics,
		Batches: feed.BatchSizes{
			Total:    cfg.Feed.TotalBatch,
			Popular:  cfg.Feed.PopularBatch,
			Price:    cfg.Feed.PriceBatch,
			Category: cfg.Feed.CategoryBatch,
		},
		CandidateTTL: cfg.Feed.CandidateTTL,
		BanTTL:       cfg.Feed.BanTTL,
		DefaultLimit: cfg.Feed.DefaultLimit,
		MaxLimit:     cfg.Feed.MaxLimit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create feed service", err)
		os.Exit(1)
	}

	eventService, err := events.NewService(events.ServiceParams{
		TxRunner:    dbClient,
		Events:      events.NewRepository(dbClient.DB()),
		Products:    productRepo,
		Metrics:     metricRepo,
		Users:       userRepo,
		Logger:      logg,
		FeedMetrics: feedMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create events service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Feed:        feedService,
			Events:      eventService,
			Pingers:     pingers,
			VisitorMemo: cache.NewMemoryStore(),
		}),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

// connectRedis returns a nil client when the service runs without redis:
// always under the sqlite flag, and in dev when the server is unreachable.
func connectRedis(cfg *config.Config, logg *logger.Logger) (*redis.Client, error) {
	if cfg.FeatureFlags.UseSQLite {
		return nil, nil
	}
	client, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		if cfg.App.IsDev() {
			logg.Warn(context.Background(), "redis connection failed in dev: "+err.Error())
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}
