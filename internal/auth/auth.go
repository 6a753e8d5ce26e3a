// Package auth implements the Google OAuth2 authorization code flow used to
// reach a user's Google Books "My Library".
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	// ScopeBooks grants access to the user's Google Books library.
	ScopeBooks = "https://www.googleapis.com/auth/books"

	// DefaultUserInfoURL is the OpenID Connect userinfo endpoint.
	DefaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

	defaultTimeout = 10 * time.Second
)

var (
	// ErrMissingCredentials is returned when the client id or secret is not set.
	ErrMissingCredentials = errors.New("missing Google OAuth client id or secret")

	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")

	// ErrProfile is returned when the user profile cannot be fetched.
	ErrProfile = errors.New("fetching user profile")
)

// Config holds OAuth client configuration. Endpoint and UserInfoURL default
// to Google's and are overridden in tests.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	UserInfoURL  string
	Timeout      time.Duration
}

// Profile is the signed-in user's Google profile.
type Profile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// Authenticator handles Google OAuth2 authentication.
type Authenticator struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// New creates an Authenticator.
// Returns ErrMissingCredentials if the client id or secret is empty.
func New(cfg Config) (*Authenticator, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Endpoint.TokenURL == "" {
		cfg.Endpoint = endpoints.Google
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = DefaultUserInfoURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     cfg.Endpoint,
			Scopes:       []string{"openid", "email", "profile", ScopeBooks},
		},
		userInfoURL: cfg.UserInfoURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// AuthURL returns the consent page URL. Offline access is requested so the
// token can be refreshed without the user present.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.config.Exchange(a.withClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}
	return token, nil
}

// TokenSource returns a source that refreshes token when it expires.
// Callers compare the source's token with the original to persist refreshes.
func (a *Authenticator) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return a.config.TokenSource(a.withClient(ctx), token)
}

// Client returns an HTTP client authorized by ts.
func (a *Authenticator) Client(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(a.withClient(ctx), ts)
	client.Timeout = a.httpClient.Timeout
	return client
}

// BearerClient returns an HTTP client that forwards a caller-supplied access
// token as is. The token is never refreshed.
func BearerClient(ctx context.Context, accessToken string) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

// Profile fetches the profile of the user who owns ts.
func (a *Authenticator) Profile(ctx context.Context, ts oauth2.TokenSource) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := a.Client(ctx, ts).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrProfile, resp.StatusCode)
	}

	var info struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrProfile, err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("%w: response has no subject", ErrProfile)
	}

	return &Profile{
		ID:      info.Sub,
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}

// withClient makes oauth2 use the authenticator's HTTP client for token
// exchange and refresh.
func (a *Authenticator) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// GenerateState creates a random state string for OAuth.
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CheckState compares the state echoed by the provider with the one issued.
func CheckState(issued, received string) error {
	if issued == "" || issued != received {
		return ErrStateMismatch
	}
	return nil
}
