// Command books-proxy runs the Google Books library proxy.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/justestif/go-books-proxy/internal/auth"
	"github.com/justestif/go-books-proxy/internal/config"
	"github.com/justestif/go-books-proxy/internal/db"
	"github.com/justestif/go-books-proxy/internal/googlebooks"
	"github.com/justestif/go-books-proxy/internal/library"
	"github.com/justestif/go-books-proxy/internal/logger"
	"github.com/justestif/go-books-proxy/internal/metrics"
	"github.com/justestif/go-books-proxy/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.Setup(logger.Config{
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
		Level:       logger.ParseLevel(cfg.LogLevel),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	catalog := googlebooks.NewClient(googlebooks.Config{
		APIKey:  cfg.GoogleBooksAPIKey,
		BaseURL: cfg.GoogleBooksBaseURL,
		Timeout: cfg.UpstreamTimeout,
		Metrics: collector,
	})
	if cfg.GoogleBooksAPIKey == "" {
		log.Warn("GOOGLE_BOOKS_API_KEY not set, using unauthenticated quota")
	}

	// OAuth is optional; My Library routes answer 503 without it.
	var authenticator *auth.Authenticator
	oauthCfg, err := cfg.OAuth()
	switch {
	case errors.Is(err, config.ErrMissingOAuthCredentials):
		log.Warn("Google OAuth not configured, My Library sign-in disabled")
	case err != nil:
		return err
	default:
		authenticator, err = auth.New(auth.Config{
			ClientID:     oauthCfg.ClientID,
			ClientSecret: oauthCfg.ClientSecret,
			RedirectURL:  oauthCfg.RedirectURL,
			Timeout:      cfg.UpstreamTimeout,
		})
		if err != nil {
			return fmt.Errorf("creating authenticator: %w", err)
		}
	}

	var sessions web.SessionManager = web.NewSessionStore()
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		database, err := db.New(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		sessions = web.NewDBSessionStore(database, log)
	}
	log.Info("session store ready", slog.String("store", sessions.Name()))

	server := web.NewServer(web.ServerConfig{
		Addr:             cfg.Addr,
		BasePath:         cfg.APIBasePath,
		Store:            library.NewStore(),
		Catalog:          catalog,
		Auth:             authenticator,
		Sessions:         sessions,
		Metrics:          collector,
		MetricsHandler:   metrics.Handler(reg),
		Logger:           log,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		FrontendURL:      cfg.FrontendURL,
		APIKeyConfigured: cfg.GoogleBooksAPIKey != "",
	})

	return server.Run()
}
