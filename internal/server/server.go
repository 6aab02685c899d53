package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"docbridge/internal/config"
	"docbridge/internal/conversion"
	"docbridge/internal/deps"
	"docbridge/internal/history"
	"docbridge/internal/logging"
	"docbridge/internal/preflight"
	"docbridge/internal/services"
	"docbridge/internal/staging"
)

// HistoryReader is the part of the history store the API exposes.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]history.Entry, error)
	Clear(ctx context.Context) (int64, error)
}

// ToolProbe reports whether the converter can be run.
type ToolProbe func(ctx context.Context) deps.Status

// Option configures the server.
type Option func(*Server)

// WithHistory exposes a history store under /api/history.
func WithHistory(reader HistoryReader) Option {
	return func(s *Server) {
		s.history = reader
	}
}

// WithProbe replaces the markitdown version probe (primarily for tests).
func WithProbe(probe ToolProbe) Option {
	return func(s *Server) {
		if probe != nil {
			s.probe = probe
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server serves the docbridge HTTP API and enforces single-instance execution.
type Server struct {
	cfg          *config.Config
	bind         string
	logger       *slog.Logger
	orchestrator *conversion.Orchestrator
	stager       *staging.Stager
	history      HistoryReader
	probe        ToolProbe
	handler      http.Handler

	lockPath string
	lock     *flock.Flock
	running  atomic.Bool

	listener net.Listener
	server   *http.Server
}

// New constructs a server. The orchestrator and stager are required.
func New(cfg *config.Config, orchestrator *conversion.Orchestrator, stager *staging.Stager, opts ...Option) (*Server, error) {
	if cfg == nil || orchestrator == nil || stager == nil {
		return nil, errors.New("server requires config, orchestrator, and stager")
	}
	lockPath := cfg.LockPath()
	s := &Server{
		cfg:          cfg,
		bind:         strings.TrimSpace(cfg.API.Bind),
		logger:       logging.NewNop(),
		orchestrator: orchestrator,
		stager:       stager,
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
	}
	s.probe = func(ctx context.Context) deps.Status {
		return preflight.ConverterStatus(ctx, s.cfg)
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "api-server")

	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert", s.handleConvert)
	mux.HandleFunc("/api/formats", s.handleFormats)
	mux.HandleFunc("/api/uploads", s.handleUploads)
	mux.HandleFunc("/api/tool", s.handleTool)
	mux.HandleFunc("/api/history", s.handleHistory)
	s.handler = s.withRequestID(authMiddleware(cfg.API.Token, mux))

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler, including auth and request ids.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// LockPath returns the single-instance lock file.
func (s *Server) LockPath() string {
	return s.lockPath
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start acquires the instance lock and begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("server already running")
	}

	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another docbridge server instance is already running")
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.running.Store(true)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "api server stopped unexpectedly", "server_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that "+s.bind+" is free and restart docbridge serve"),
			)
		}
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", s.lockPath),
		logging.Bool("auth", s.cfg.API.Token != ""),
		logging.String(logging.FieldEventType, "server_started"),
	)
	s.reportPreflight(ctx)
	return nil
}

// Stop shuts the HTTP server down and releases the instance lock.
func (s *Server) Stop() {
	if !s.running.Load() {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release server lock", logging.Error(err))
	}
	s.running.Store(false)
	s.logger.Info("api server stopped", logging.String(logging.FieldEventType, "server_stopped"))
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Server) reportPreflight(ctx context.Context) {
	for _, result := range preflight.RunAll(ctx, s.cfg) {
		if result.Passed {
			s.logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
			)
			continue
		}
		logging.WarnWithContext(s.logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "run docbridge check for details"),
			logging.String(logging.FieldImpact, "conversions may fail until this is fixed"),
		)
	}
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := services.WithRequestID(r.Context(), id)
		logging.WithContext(ctx, s.logger).Debug("api request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
