// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingOAuthCredentials is returned by OAuth when GOOGLE_CLIENT_ID or
// GOOGLE_CLIENT_SECRET is not set.
var ErrMissingOAuthCredentials = errors.New("missing GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET environment variable")

// Defaults.
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultFrontendURL     = "http://localhost:3000"
	DefaultUpstreamTimeout = 10 * time.Second
)

// Config holds application configuration.
type Config struct {
	Addr        string
	Environment string

	// APIBasePath prefixes the API routes, e.g. "/api". Empty mounts them
	// at the root.
	APIBasePath string

	// Books API
	GoogleBooksAPIKey  string
	GoogleBooksBaseURL string
	UpstreamTimeout    time.Duration

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string

	// Frontend
	FrontendURL        string
	CORSAllowedOrigins []string

	// DatabaseURL enables the PostgreSQL session store when set.
	DatabaseURL string

	// Logging
	LogLevel  string
	LogFormat string
}

// OAuthConfig holds the Google OAuth client settings.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory if one exists. Variables already set in the
// environment take precedence over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		Addr:               getEnv("HTTP_ADDR", DefaultAddr),
		Environment:        getEnv("APP_ENV", "development"),
		APIBasePath:        normalizeBasePath(getEnv("API_BASE_PATH", "")),
		GoogleBooksAPIKey:  getEnv("GOOGLE_BOOKS_API_KEY", ""),
		GoogleBooksBaseURL: getEnv("GOOGLE_BOOKS_BASE_URL", ""),
		UpstreamTimeout:    getEnvDuration("UPSTREAM_TIMEOUT", DefaultUpstreamTimeout),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		FrontendURL:        getEnv("FRONTEND_URL", DefaultFrontendURL),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", ""),
	}
	cfg.OAuthRedirectURL = getEnv("OAUTH_REDIRECT_URL", "http://"+cfg.Addr+cfg.APIBasePath+"/auth/authorize")
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", cfg.FrontendURL))

	return cfg, nil
}

// OAuthConfigured reports whether Google OAuth credentials are present.
func (c *Config) OAuthConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// OAuth returns the OAuth client settings.
// Returns ErrMissingOAuthCredentials if the client id or secret is not set.
func (c *Config) OAuth() (*OAuthConfig, error) {
	if !c.OAuthConfigured() {
		return nil, ErrMissingOAuthCredentials
	}
	return &OAuthConfig{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RedirectURL:  c.OAuthRedirectURL,
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// normalizeBasePath returns p with one leading slash and no trailing slash.
// "" and "/" both mean the root.
func normalizeBasePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
