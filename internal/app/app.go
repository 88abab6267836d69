package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"surveyqc/internal/config"
	"surveyqc/internal/middleware"
	"surveyqc/internal/qc"
	transporthttp "surveyqc/internal/transport/http"
)

// Version is the service version reported by the health endpoint.
const Version = "1.0.0"

// App wires the HTTP server together: router, middleware chain, and the
// QC build handler.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// New creates the application from configuration.
func New(cfg *config.Config, logger *slog.Logger) *App {
	a := &App{
		cfg:    cfg,
		logger: logger,
	}
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a
}

// router builds the chi router with the middleware chain.
func (a *App) router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(a.logger))
	r.Use(middleware.Recoverer(a.logger))
	if a.cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			a.cfg.Security.RateLimit.RPS,
			a.cfg.Security.RateLimit.Burst,
			a.logger,
		)
		r.Use(limiter.Handler)
	}
	r.Use(render.SetContentType(render.ContentTypeJSON))

	health := transporthttp.NewHealthHandler(Version)
	r.Get("/healthz", health.Health)

	builder := qc.NewBuilder(a.logger)
	qcHandler := transporthttp.NewQCHandler(builder, a.cfg.Pipeline, a.cfg.Server.MaxUploadBytes, a.logger)
	r.Mount("/api/qc", qcHandler.Routes())

	return r
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down server")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Handler exposes the assembled router, primarily for tests.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}
