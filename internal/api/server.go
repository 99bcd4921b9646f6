package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/logging"
	"github.com/smazurov/wordclock/internal/version"
)

// ErrMissingStore is returned by NewServer without a settings store.
var ErrMissingStore = errors.New("api: settings store is required")

// Server is the clock's HTTP API plus the preview page and /metrics.
type Server struct {
	api        huma.API
	router     chi.Router
	httpServer *http.Server
	opts       *Options
	logger     *slog.Logger

	mu       sync.RWMutex
	last     *events.DisplayUpdatedEvent
	unsubs   []func()
	stopOnce sync.Once
}

// NewServer builds the router and registers every route.
func NewServer(opts *Options) (*Server, error) {
	if opts == nil || opts.Store == nil {
		return nil, ErrMissingStore
	}
	if opts.EventBus == nil {
		opts.EventBus = events.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware(DefaultCORSConfig()))

	config := huma.DefaultConfig("Word Clock API", version.Get().Version)
	config.Info.Description = "Settings, puzzle words and live state of the word clock"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {Type: "http", Scheme: "basic"},
	}

	s := &Server{
		api:    humachi.New(router, config),
		router: router,
		opts:   opts,
		logger: logging.GetLogger("api"),
	}
	s.api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		s.api.UseMiddleware(basicAuth(s.api, opts.AuthUsername, opts.AuthPassword))
	}

	if opts.MetricsHandler != nil {
		router.Handle("/metrics", opts.MetricsHandler)
	}
	router.Get("/", s.preview)

	s.registerRoutes()
	s.watchDisplay()
	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// API returns the huma API.
func (s *Server) API() huma.API {
	return s.api
}

// Start listens on addr until Stop. It returns http.ErrServerClosed after a
// clean stop.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.logger.Info("Starting API server", "addr", addr, "docs", "/docs")
	return s.httpServer.ListenAndServe()
}

// Stop shuts the listener down, giving open requests until ctx ends. SSE
// streams are cut when ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		for _, unsub := range s.unsubs {
			unsub()
		}
		if s.httpServer == nil {
			return
		}
		s.logger.Info("Stopping API server")
		if err = s.httpServer.Shutdown(ctx); errors.Is(err, context.DeadlineExceeded) {
			err = s.httpServer.Close()
		}
	})
	return err
}

// watchDisplay keeps the latest display update for new SSE clients and
// GET /api/display.
func (s *Server) watchDisplay() {
	s.unsubs = append(s.unsubs, s.opts.EventBus.Subscribe(func(e events.DisplayUpdatedEvent) {
		s.mu.Lock()
		s.last = &e
		s.mu.Unlock()
	}))
}

func (s *Server) lastUpdate() *events.DisplayUpdatedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Server) registerRoutes() {
	s.registerSystemRoutes()
	s.registerSettingsRoutes()
	s.registerPuzzleRoutes()
	s.registerDisplayRoutes()
	s.registerSSERoutes()
	s.registerLogRoutes()
	s.registerLEDRoutes()
}

// withAuth marks an operation as requiring basic auth.
func withAuth() []map[string][]string {
	return []map[string][]string{{"basicAuth": {}}}
}

func now() string {
	return time.Now().Format(time.RFC3339)
}
