package web

import (
	"log/slog"

	"github.com/justestif/go-books-proxy/internal/auth"
	"github.com/justestif/go-books-proxy/internal/googlebooks"
	"github.com/justestif/go-books-proxy/internal/library"
)

// Handlers contains the HTTP handlers for the proxy.
type Handlers struct {
	store     *library.Store
	merger    *library.Merger
	catalog   *googlebooks.Client
	auth      *auth.Authenticator // nil when OAuth is not configured
	sessions  SessionManager
	validator *requestValidator
	logger    *slog.Logger

	frontendURL      string
	apiKeyConfigured bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg ServerConfig) *Handlers {
	return &Handlers{
		store:            cfg.Store,
		merger:           library.NewMerger(cfg.Store),
		catalog:          cfg.Catalog,
		auth:             cfg.Auth,
		sessions:         cfg.Sessions,
		validator:        newRequestValidator(),
		logger:           cfg.Logger,
		frontendURL:      cfg.FrontendURL,
		apiKeyConfigured: cfg.APIKeyConfigured,
	}
}
