// Package httptransport composes the application router. Handlers live with
// their domains; this package only owns the middleware chain and the
// operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clinicalgoto/internal/platform/metrics"
	"clinicalgoto/internal/platform/middleware"
	"clinicalgoto/internal/transport/http/shared"
)

// Mountable is implemented by domain handlers that register their own routes.
type Mountable interface {
	Register(r chi.Router)
}

// RouterConfig carries everything NewRouter needs to assemble the app.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	RateLimiter    *middleware.RateLimiter
	RequestTimeout time.Duration
	Handlers       []Mountable
}

// NewRouter wires the middleware chain, the operational endpoints, and every
// domain handler.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.LatencyMiddleware(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler)
	}
	r.Use(middleware.ContentTypeJSON)

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range cfg.Handlers {
		h.Register(r)
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
