// Package web provides the HTTP API of the books proxy.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/justestif/go-books-proxy/internal/auth"
	"github.com/justestif/go-books-proxy/internal/googlebooks"
	"github.com/justestif/go-books-proxy/internal/library"
	"github.com/justestif/go-books-proxy/internal/metrics"
)

const (
	// DefaultAddr is the default server address.
	DefaultAddr = "127.0.0.1:8080"

	sessionSweepInterval = 10 * time.Minute
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr string

	// BasePath prefixes every API route, e.g. "/api". /health and /metrics
	// stay at the root.
	BasePath string

	Store   *library.Store
	Catalog *googlebooks.Client

	// Auth is nil when OAuth credentials are not configured.
	Auth     *auth.Authenticator
	Sessions SessionManager

	Metrics        metrics.Recorder
	MetricsHandler http.Handler

	Logger           *slog.Logger
	CORSOrigins      []string
	FrontendURL      string
	APIKeyConfigured bool
}

// Server is the HTTP server for the API.
type Server struct {
	router   chi.Router
	server   *http.Server
	sessions SessionManager
	handlers *Handlers
	logger   *slog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Store == nil {
		cfg.Store = library.NewStore()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = googlebooks.NewClient(googlebooks.Config{})
	}
	if cfg.Sessions == nil {
		cfg.Sessions = NewSessionStore()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		sessions: cfg.Sessions,
		handlers: NewHandlers(cfg),
		logger:   cfg.Logger,
	}

	// Configure middleware
	s.setupMiddleware(cfg)

	// Configure routes
	s.setupRoutes(cfg.MetricsHandler, strings.TrimRight(cfg.BasePath, "/"))

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware(cfg ServerConfig) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	// Outside recoverer so panics are counted as 500s.
	s.router.Use(instrument(cfg.Metrics))
	s.router.Use(recoverer(s.logger))
	s.router.Use(middleware.Compress(5))
	if len(cfg.CORSOrigins) > 0 {
		s.router.Use(corsHandler(cfg.CORSOrigins))
	}
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(metricsHandler http.Handler, basePath string) {
	r := s.router

	r.Get("/health", s.handlers.Health)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	if basePath != "" {
		r.Route(basePath, s.apiRoutes)
	} else {
		s.apiRoutes(r)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})
}

// apiRoutes registers the library, catalog, auth and My Library routes.
func (s *Server) apiRoutes(r chi.Router) {
	h := s.handlers

	r.Route("/books", func(r chi.Router) {
		r.Get("/search", h.SearchBooks)
		r.Get("/{volumeId}", h.GetBook)
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Get("/", h.ListFavorites)
		r.Post("/", h.AddFavorite)
		r.Delete("/{bookId}", h.RemoveFavorite)
	})

	r.Route("/reading-list", func(r chi.Router) {
		r.Get("/", h.ListReadingList)
		r.Post("/", h.AddToReadingList)
		r.Put("/{bookId}", h.UpdateReadingStatus)
		r.Delete("/{bookId}", h.RemoveFromReadingList)
	})

	r.Route("/notes/{bookId}", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.AddNote)
		r.Put("/{noteId}", h.UpdateNote)
		r.Delete("/{noteId}", h.DeleteNote)
	})

	r.Route("/reviews/{bookId}", func(r chi.Router) {
		r.Get("/", h.GetReview)
		r.Post("/", h.UpsertReview)
		r.Put("/", h.UpsertReview)
		r.Delete("/", h.DeleteReview)
	})

	r.Route("/bookshelves", func(r chi.Router) {
		r.Get("/", h.ListShelves)
		r.Post("/", h.CreateShelf)
		r.Put("/{shelfId}", h.RenameShelf)
		r.Delete("/{shelfId}", h.DeleteShelf)
		r.Get("/{shelfId}/books", h.ListShelfBooks)
		r.Post("/{shelfId}/books", h.AddBookToShelf)
		r.Delete("/{shelfId}/books/{bookId}", h.RemoveBookFromShelf)
	})

	// Auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.Login)
		r.Get("/authorize", h.Authorize)
		r.Get("/logout", h.Logout)
		r.Post("/logout", h.Logout)
		r.Get("/status", h.AuthStatus)
	})

	r.Route("/mylibrary/bookshelves", func(r chi.Router) {
		r.Get("/", h.MyBookshelves)
		r.Get("/{shelfId}/volumes", h.MyShelfVolumes)
		r.Post("/{shelfId}/addVolume", h.MyAddVolume)
		r.Post("/{shelfId}/removeVolume", h.MyRemoveVolume)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", "http://"+s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
// Expired sessions are swept in the background while it runs.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go s.sweepSessions(sweepCtx, sessionSweepInterval)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("shutting down server")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// sweepSessions deletes expired sessions every interval until ctx is done.
func (s *Server) sweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessions.DeleteExpired(ctx)
			if err != nil {
				s.logger.Warn("failed to delete expired sessions", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Debug("deleted expired sessions", "count", n)
			}
		}
	}
}
