package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zapponejosh/valens-periods/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health                                public
//	GET    /metrics                               public
//	POST   /api/v1/charts                         create chart session
//	GET    /api/v1/charts/{sessionID}             cycle tables
//	GET    /api/v1/charts/{sessionID}/active      active period for ?age=
//	DELETE /api/v1/charts/{sessionID}             drop session
//	POST   /api/v1/calculate                      stateless report
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger, metrics *Metrics, gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger, metrics),
		CORSMiddleware(),
	)

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// ==========================================================================
	// Chart routes (API key)
	// ==========================================================================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg, logger))

		r.Post("/calculate", handlers.Calculate)

		r.Route("/charts", func(r chi.Router) {
			r.Post("/", handlers.CreateChart)
			r.Get("/{sessionID}", handlers.GetChart)
			r.Get("/{sessionID}/active", handlers.GetActive)
			r.Delete("/{sessionID}", handlers.DeleteChart)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	return r
}
