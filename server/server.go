// Package server hosts the activity board over HTTP.
//
// The rendered page is plain HTML. Signup and unregister controls are form posts that
// run the board operation and redirect back to GET /board, which renders the updated
// state without another fetch.
//
// The catalog is shared by every visitor. Form values and the status banner are kept
// per browser session, identified by a cookie.
//
// # Endpoints
//
//   - GET / - Load the catalog and render the page
//   - GET /board - Render the visitor's current state, ?fragment=1 for the board elements only
//   - POST /signup - Sign up (form fields email, activity)
//   - POST /participants/{rowID}/unregister - Unregister the participant of a row
//   - POST /refresh - Reload the catalog, through the refresh trigger when one is configured
//   - GET /api/state - The visitor's UI state as JSON
//   - GET /api/refresh - Scheduled refresh status
//   - GET /api/logs - Recently captured log records
//   - GET /health - Simple health check, returns "ok"
//   - GET /version - Build and server properties
//   - GET /config - Effective configuration as YAML
//   - GET /metrics - Prometheus metrics
//
// # Example
//
//	srv, err := server.New(&cfg, board, server.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nomis52/activityboard/board"
	"github.com/nomis52/activityboard/buildinfo"
	"github.com/nomis52/activityboard/config"
	"github.com/nomis52/activityboard/logging"
	"github.com/nomis52/activityboard/render"
	"github.com/nomis52/activityboard/server/handlers"
	"github.com/nomis52/activityboard/server/refresh"
	"github.com/nomis52/activityboard/server/types"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Board is the controller the server drives.
type Board interface {
	handlers.Loader
	NewView() *board.View
}

// Server is the HTTP server for the activity board.
type Server struct {
	cfg       *config.Config
	board     Board
	logger    *slog.Logger
	collector *logging.LogCollector
	metrics   http.Handler
	sessions  *handlers.Sessions
	schedule  string
	trigger   *refresh.Trigger
	startedAt time.Time
	hostname  string

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// WithLogCollector exposes the collector's records at /api/logs.
func WithLogCollector(c *logging.LogCollector) Option {
	return func(s *Server) error {
		s.collector = c
		return nil
	}
}

// WithMetricsHandler serves h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) error {
		s.metrics = h
		return nil
	}
}

// WithRefresh reloads the catalog on the given cron schedule.
// The spec follows standard cron format (5 fields: minute, hour, day, month, weekday).
func WithRefresh(spec string) Option {
	return func(s *Server) error {
		s.schedule = spec
		return nil
	}
}

// New creates a Server for b using cfg.
func New(cfg *config.Config, b Board, opts ...Option) (*Server, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	s := &Server{
		cfg:       cfg,
		board:     b,
		logger:    slog.Default(),
		startedAt: time.Now(),
		hostname:  hostname,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.schedule != "" {
		trigger, err := refresh.NewTrigger(s.schedule, b, s.logger.With("component", "refresh"))
		if err != nil {
			return nil, fmt.Errorf("creating refresh trigger: %w", err)
		}
		s.trigger = trigger
	}

	s.sessions = handlers.NewSessions(
		func() handlers.Visitor { return b.NewView() },
		handlers.WithSessionTimeout(cfg.Board.SessionTimeout),
	)
	return s, nil
}

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Config returns the configuration the server was created with.
func (s *Server) Config() *config.Config {
	return s.cfg
}

// Properties returns metadata about the running server.
func (s *Server) Properties() types.ServerProperties {
	return types.ServerProperties{
		Build:      buildinfo.Get(),
		StartedAt:  s.startedAt,
		Hostname:   s.hostname,
		APIBaseURL: s.cfg.API.BaseURL,
	}
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/", handlers.NewPageHandler(s.logger, s.board, s.sessions))
	r.Method(http.MethodGet, handlers.BoardPath, handlers.NewBoardHandler(s.logger, s.sessions))
	r.Method(http.MethodPost, render.SignupPath, handlers.NewSignupHandler(s.logger, s.sessions))
	r.Method(http.MethodPost, "/participants/{"+handlers.RowIDParam+"}/unregister",
		handlers.NewUnregisterHandler(s.logger, s.sessions))
	r.Method(http.MethodPost, "/refresh", handlers.NewRefreshHandler(s.logger, s.refresher()))

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/state", handlers.NewStateHandler(s.sessions))
		r.Method(http.MethodGet, "/refresh", handlers.NewRefreshStatusHandler(s.refreshStatus()))
		if s.collector != nil {
			r.Method(http.MethodGet, "/logs", handlers.NewLogsHandler(s.collector))
		}
	})

	r.Get("/health", handlers.HandleHealth)
	r.Method(http.MethodGet, "/version", handlers.NewVersionHandler(s))
	r.Method(http.MethodGet, "/config", handlers.NewConfigHandler(s))
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// refresher runs manual refreshes through the trigger, when there is one, so its
// status covers them.
func (s *Server) refresher() handlers.Loader {
	if s.trigger == nil {
		return s.board
	}
	return handlers.LoaderFunc(s.trigger.RunNow)
}

// refreshStatus avoids handing the handler a typed nil.
func (s *Server) refreshStatus() handlers.RefreshStatusProvider {
	if s.trigger == nil {
		return nil
	}
	return s.trigger
}

// Run listens on the configured address and serves until ctx is cancelled, then
// shuts down gracefully. A configured refresh schedule starts with the server.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listener.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Listener.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	if s.cfg.TLSEnabled() {
		loader, err := NewCertLoader(s.cfg.Listener.TLSCertFile, s.cfg.Listener.TLSKeyFile, s.logger)
		if err != nil {
			ln.Close()
			return err
		}
		s.httpServer.TLSConfig = loader.TLSConfig()
	}

	if s.trigger != nil {
		s.logger.Info("starting refresh trigger", "next_run", s.trigger.NextRun())
		s.trigger.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"addr", ln.Addr().String(),
			"tls", s.cfg.TLSEnabled(),
			"api", s.cfg.API.BaseURL,
		)
		var err error
		if s.cfg.TLSEnabled() {
			err = s.httpServer.ServeTLS(ln, "", "")
		} else {
			err = s.httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
