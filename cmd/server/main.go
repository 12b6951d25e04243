package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DukeRupert/wrestaurant/internal"
	"github.com/DukeRupert/wrestaurant/internal/handler"
	"github.com/DukeRupert/wrestaurant/internal/metrics"
	"github.com/DukeRupert/wrestaurant/internal/middleware"
	"github.com/DukeRupert/wrestaurant/internal/session"
	"github.com/DukeRupert/wrestaurant/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize template renderer
	templates, err := fs.Sub(web.FS, "templates")
	if err != nil {
		return fmt.Errorf("embedded templates missing: %w", err)
	}
	renderer, err := handler.NewRenderer(handler.RendererConfig{
		FS:     templates,
		Logger: logger,
		DevDir: "web/templates",
		IsDev:  cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}
	logger.Info("Templates loaded", "count", len(renderer.ListTemplates()))

	// Screen state, one per browser
	isSecure := !cfg.IsDevelopment()
	store := session.NewStore(session.StoreConfig{
		IdleTimeout: cfg.SessionIdleTimeout,
		IsSecure:    isSecure,
		Logger:      logger,
	})
	go store.Run(ctx)

	// Initialize middleware
	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow, logger)
	go submitLimiter.Run(ctx)
	submitLimitMw := middleware.NewRateLimitMiddleware(submitLimiter, logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// Initialize handlers
	screenHandler := handler.NewScreenHandler(handler.ScreenConfig{
		Store:         store,
		Renderer:      renderer,
		Logger:        logger,
		IsSecure:      isSecure,
		BackgroundURL: cfg.BackgroundImageURL,
		FallbackURL:   cfg.FallbackImageURL,
		LimitSubmit:   submitLimitMw.Limit,
	})

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return fmt.Errorf("embedded static assets missing: %w", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics
	if cfg.MetricsUsername == "" || cfg.MetricsPassword == "" {
		logger.Warn("Metrics endpoint is unprotected; set METRICS_USERNAME and METRICS_PASSWORD")
	}
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Sign-in screen
	screenHandler.RegisterRoutes(mux)

	global := middleware.Stack(
		middleware.NewRequestLoggingMiddleware(logger).Handler,
		metrics.Middleware,
		middleware.NewSecurityHeadersMiddleware(isSecure, cfg.ImageOrigins()...).Handler,
		middleware.NewCSRFMiddleware(logger).Handler,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           global(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
