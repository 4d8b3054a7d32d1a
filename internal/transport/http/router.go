package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"housingml/internal/config"
	"housingml/internal/middleware"
	"housingml/internal/websocket"
)

// RouterDeps carries everything the router wires together
type RouterDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Service  OperationService
	Hub      *websocket.Hub
	Registry *prometheus.Registry
	Version  string
}

// NewRouter builds the full HTTP routing tree with the standard middleware
// stack.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Compress(5))

	if deps.Config != nil && deps.Config.Server.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			deps.Config.Server.RateLimit.RPS,
			deps.Config.Server.RateLimit.Burst,
			logger)
		r.Use(limiter.Handler)
	}

	r.Use(render.SetContentType(render.ContentTypeJSON))

	operationsHandler := NewOperationsHandler(deps.Service, logger)
	healthHandler := NewHealthHandler(deps.Version)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60*time.Second, logger))
		r.Mount("/operations", operationsHandler.Routes())
		r.Get("/health", healthHandler.Health)
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			deps.Registry, promhttp.HandlerOpts{}))
	}

	if deps.Hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(deps.Hub, w, r)
		})
	}

	return r
}
