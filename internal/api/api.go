// Package api provides HTTP handlers and the main API server logic for StudyPlanner.
//
// It exposes the liveness route and the study plan and chat endpoints, and
// delegates all AI work to the planner module.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BTreeMap/StudyPlanner/internal/models"
	"github.com/BTreeMap/StudyPlanner/internal/planner"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":5000"
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// StudyPlanner is the orchestration surface the handlers depend on.
type StudyPlanner interface {
	GenerateStudyPlan(ctx context.Context, req models.StudyPlanRequest) (json.RawMessage, planner.Outcome)
	ChatResponse(ctx context.Context, message string) (string, planner.Outcome)
}

// Opts holds configuration options for the API server.
type Opts struct {
	Addr            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithShutdownTimeout sets how long in-flight requests get on shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Opts) { o.ShutdownTimeout = d }
}

// WithAllowedOrigins restricts CORS to the given origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(o *Opts) { o.AllowedOrigins = origins }
}

// Server holds the HTTP server dependencies.
type Server struct {
	planner StudyPlanner
	opts    Opts
}

// NewServer creates a server around a planner.
func NewServer(p StudyPlanner, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr, ShutdownTimeout: DefaultShutdownTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	slog.Debug("API NewServer options set", "addr", cfg.Addr, "shutdown_timeout", cfg.ShutdownTimeout, "allowed_origins", cfg.AllowedOrigins)
	return &Server{planner: p, opts: cfg}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.opts.Addr }

// Handler returns the routed handler wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", s.homeHandler)
	mux.HandleFunc("/api/generate-plan", s.generatePlanHandler)
	mux.HandleFunc("/api/chat", s.chatHandler)
	return withRequestLogging(withCORS(mux, s.opts.AllowedOrigins))
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("StudyPlanner API listening", "addr", s.opts.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down API server", "timeout", s.opts.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	return nil
}

// Run builds the planner from cfg, serves until SIGINT or SIGTERM, and
// releases the provider client on the way out.
func Run(cfg planner.Config, apiOpts []Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := planner.NewService(ctx, cfg)
	defer func() {
		if err := svc.Close(); err != nil {
			slog.Warn("Failed to close planner", "error", err)
		}
	}()

	return NewServer(svc, apiOpts...).Serve(ctx)
}
