package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/khatahq/khata/internal/adapter/http/handler"
	"github.com/khatahq/khata/internal/adapter/http/middleware"
	"github.com/khatahq/khata/internal/infrastructure/auth"
	"github.com/khatahq/khata/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ClientHandler    *handler.ClientHandler
	WorkHandler      *handler.WorkHandler
	LedgerHandler    *handler.LedgerHandler
	HistoryHandler   *handler.HistoryHandler
	AnalyticsHandler *handler.AnalyticsHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
	APIKey           string
	Resolver         auth.Resolver
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Wrap)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.APIKey, cfg.Resolver))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", cfg.ClientHandler.Create)
			r.Get("/", cfg.ClientHandler.List)
			r.Get("/{id}", cfg.ClientHandler.Get)
			r.Put("/{id}", cfg.ClientHandler.Update)
			r.Post("/{id}/balance/adjust", cfg.LedgerHandler.AdjustBalance)
			r.Post("/{id}/balance/reconcile", cfg.LedgerHandler.Reconcile)
			r.Get("/{id}/balance/history", cfg.HistoryHandler.History)
			r.Get("/{id}/balance/timeline", cfg.HistoryHandler.Timeline)
			r.Get("/{id}/balance/summary", cfg.HistoryHandler.Summary)
		})

		// Work transactions
		r.Route("/works", func(r chi.Router) {
			r.Post("/", cfg.WorkHandler.Create)
			r.Get("/", cfg.WorkHandler.List)
			r.Get("/stats", cfg.WorkHandler.Stats)
			r.Get("/{id}", cfg.WorkHandler.Get)
			r.Put("/{id}", cfg.WorkHandler.Update)
			r.Delete("/{id}", cfg.WorkHandler.Delete)
		})

		// Analytics
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/income", cfg.AnalyticsHandler.IncomeTrend)
			r.Get("/work-types", cfg.AnalyticsHandler.WorkTypes)
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Post("/history/cleanup", cfg.HistoryHandler.Cleanup)
			r.Post("/reconcile", cfg.LedgerHandler.ReconcileAll)
		})
	})

	return r
}
