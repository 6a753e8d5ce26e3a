package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "APP_ENV", "GOOGLE_BOOKS_API_KEY", "GOOGLE_BOOKS_BASE_URL",
		"UPSTREAM_TIMEOUT", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"OAUTH_REDIRECT_URL", "FRONTEND_URL", "CORS_ALLOWED_ORIGINS",
		"DATABASE_URL", "LOG_LEVEL", "LOG_FORMAT", "API_BASE_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultUpstreamTimeout, cfg.UpstreamTimeout)
	assert.Equal(t, DefaultFrontendURL, cfg.FrontendURL)
	assert.Equal(t, []string{DefaultFrontendURL}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "http://"+DefaultAddr+"/auth/authorize", cfg.OAuthRedirectURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.APIBasePath)
	assert.False(t, cfg.OAuthConfigured())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("GOOGLE_BOOKS_API_KEY", "books-key")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("OAUTH_REDIRECT_URL", "http://example.test/cb")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "books-key", cfg.GoogleBooksAPIKey)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "http://example.test/cb", cfg.OAuthRedirectURL)
}

func TestLoad_APIBasePath(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		wantPath     string
		wantRedirect string
	}{
		{"unset", "", "", "http://" + DefaultAddr + "/auth/authorize"},
		{"root", "/", "", "http://" + DefaultAddr + "/auth/authorize"},
		{"prefix", "/api", "/api", "http://" + DefaultAddr + "/api/auth/authorize"},
		{"untrimmed", "api/", "/api", "http://" + DefaultAddr + "/api/auth/authorize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			t.Setenv("API_BASE_PATH", tt.value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, cfg.APIBasePath)
			assert.Equal(t, tt.wantRedirect, cfg.OAuthRedirectURL)
		})
	}
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultUpstreamTimeout, cfg.UpstreamTimeout)
}

func TestOAuth(t *testing.T) {
	tests := []struct {
		name         string
		clientID     string
		clientSecret string
		wantErr      error
	}{
		{
			name:         "valid credentials",
			clientID:     "client-id",
			clientSecret: "client-secret",
		},
		{
			name:         "missing client id",
			clientSecret: "client-secret",
			wantErr:      ErrMissingOAuthCredentials,
		},
		{
			name:     "missing client secret",
			clientID: "client-id",
			wantErr:  ErrMissingOAuthCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				GoogleClientID:     tt.clientID,
				GoogleClientSecret: tt.clientSecret,
				OAuthRedirectURL:   "http://localhost/auth/authorize",
			}

			oauth, err := cfg.OAuth()

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("OAuth() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			assert.Equal(t, tt.clientID, oauth.ClientID)
			assert.Equal(t, tt.clientSecret, oauth.ClientSecret)
			assert.Equal(t, "http://localhost/auth/authorize", oauth.RedirectURL)
		})
	}
}
