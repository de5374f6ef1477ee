package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MiguelMaleico/credit360-smart-market/pkg/observability"
)

// RouterConfig controls the cross-cutting behaviour of the HTTP surface.
type RouterConfig struct {
	ServiceName     string
	RateLimitRPS    int                        // <= 0 disables rate limiting
	Metrics         *observability.HTTPMetrics // nil disables request metrics
	MetricsHandler  http.Handler               // served on /metrics when set
	ReadinessChecks map[string]ReadinessCheck
}

// NewRouter assembles the full HTTP handler: probes, metrics and the API
// under /api/v1.
func NewRouter(cfg RouterConfig, uc UseCases, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(logger))
	if cfg.Metrics != nil {
		r.Use(MetricsMiddleware(cfg.Metrics))
	}

	NewHealthHandler(cfg.ServiceName, cfg.ReadinessChecks, logger).RegisterRoutes(r)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRPS > 0 {
			r.Use(RateLimitMiddleware(NewRateLimiter(cfg.RateLimitRPS)))
		}
		NewHandler(uc, logger).RegisterRoutes(r)
	})

	return r
}
