// Package app assembles the pipeline server: configuration, logging,
// telemetry, the WebSocket hub, the operation manager and the HTTP router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"housingml/internal/config"
	"housingml/internal/infrastructure"
	"housingml/internal/operations"
	handlers "housingml/internal/transport/http"
	ws "housingml/internal/websocket"
)

// Version is the application version reported by the health endpoint
const Version = "1.0.0"

// Application is the composed pipeline server
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	Router        chi.Router
	Server        *http.Server
	Hub           *ws.Hub
	Manager       *operations.Manager
	Metrics       *operations.Metrics
	PromRegistry  *prometheus.Registry
	OTelProviders *infrastructure.OTelProviders
}

// NewApplication wires the full server from configuration
func NewApplication(configFile string) (*Application, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitOTel(context.Background(), Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	hub := ws.NewHub(logger)
	hub.Start()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := operations.NewMetrics(promRegistry)

	registry := operations.NewRegistry()
	if err := operations.RegisterPipeline(registry, cfg, paths, metrics); err != nil {
		return nil, fmt.Errorf("failed to register pipeline steps: %w", err)
	}

	manager := operations.NewManager(registry,
		operations.WithMetrics(metrics),
		operations.WithSink(hub))

	router := handlers.NewRouter(handlers.RouterDeps{
		Config:   cfg,
		Logger:   logger,
		Service:  manager,
		Hub:      hub,
		Registry: promRegistry,
		Version:  Version,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		Router:        router,
		Server:        server,
		Hub:           hub,
		Manager:       manager,
		Metrics:       metrics,
		PromRegistry:  promRegistry,
		OTelProviders: otelProviders,
	}, nil
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	}

	return a.Shutdown()
}

// Shutdown stops the server, the hub and the telemetry providers
func (a *Application) Shutdown() error {
	timeout := a.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	a.Hub.Shutdown()

	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.Error("telemetry shutdown failed", slog.String("error", err.Error()))
	}

	infrastructure.CloseLogFile()
	a.Logger.Info("application stopped")
	return nil
}
