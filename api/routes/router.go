package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefeed-backend/api/controllers"
	"github.com/angelmondragon/storefeed-backend/api/middleware"
	"github.com/angelmondragon/storefeed-backend/internal/events"
	"github.com/angelmondragon/storefeed-backend/internal/feed"
	"github.com/angelmondragon/storefeed-backend/pkg/cache"
	"github.com/angelmondragon/storefeed-backend/pkg/config"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
)

// Deps groups what the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Feed        feed.Service
	Events      events.Service
	Pingers     map[string]controllers.Pinger
	VisitorMemo cache.Store
	Gatherer    prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(middleware.Visitor(middleware.VisitorOptions{
			RequireUUID: cfg.Feed.RequireVisitorUUID,
			MemoTTL:     cfg.Feed.VisitorMemoTTL,
			Memo:        deps.VisitorMemo,
		}, logg))
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))

		r.Get("/feed", controllers.PersonalFeed(deps.Feed, logg))
		r.Post("/events", controllers.RecordEvent(deps.Events, logg))
	})

	return r
}
