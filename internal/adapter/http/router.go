package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mitraisp/mitrabooks/internal/adapter/http/handler"
	"github.com/mitraisp/mitrabooks/internal/adapter/http/middleware"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	PeriodHandler    *handler.PeriodHandler
	RuleHandler      *handler.RuleHandler
	EventHandler     *handler.EventHandler
	JournalHandler   *handler.JournalHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           zerolog.Logger
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

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Tenant)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)

		r.Route("/businesses/{businessID}", func(r chi.Router) {
			// Chart of accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Get("/{id}/chain", cfg.AccountHandler.Chain)
				r.Delete("/{id}", cfg.AccountHandler.Delete)
			})

			// Accounting periods
			r.Route("/accounting-periods", func(r chi.Router) {
				r.Post("/", cfg.PeriodHandler.Create)
				r.Get("/", cfg.PeriodHandler.List)
				r.Get("/{id}", cfg.PeriodHandler.Get)
				r.Post("/{id}/close", cfg.PeriodHandler.Close)
				r.Post("/{id}/reopen", cfg.PeriodHandler.Reopen)
				r.Post("/{id}/lock", cfg.PeriodHandler.Lock)
			})

			// Rules
			r.Route("/rules", func(r chi.Router) {
				r.Post("/", cfg.RuleHandler.Create)
				r.Get("/", cfg.RuleHandler.List)
				r.Patch("/{id}", cfg.RuleHandler.SetActive)
				r.Delete("/{id}", cfg.RuleHandler.Delete)
			})

			// Journal
			r.Route("/journal-entries", func(r chi.Router) {
				r.Get("/", cfg.JournalHandler.List)
				r.Get("/{id}", cfg.JournalHandler.Get)
				r.Post("/{id}/reverse", cfg.JournalHandler.Reverse)
			})

			// Event postings
			r.Post("/events", cfg.EventHandler.Post)
			r.Post("/manual-journals", cfg.EventHandler.PostManual)
		})
	})

	return r
}
