package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/justestif/go-books-proxy/internal/auth"
	"github.com/justestif/go-books-proxy/internal/db"
)

const (
	sessionCookieName = "session_id"
	sessionTTL        = 24 * time.Hour
)

// Session is an OAuth session for a signed-in Google user.
type Session struct {
	ID        string
	Token     *oauth2.Token
	Profile   auth.Profile
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionManager defines the interface for session management.
type SessionManager interface {
	Create(ctx context.Context, token *oauth2.Token, profile auth.Profile) (*Session, error)
	Get(ctx context.Context, id string) *Session
	Delete(ctx context.Context, id string)
	UpdateToken(ctx context.Context, id string, token *oauth2.Token)
	DeleteExpired(ctx context.Context) (int64, error)
	GetFromRequest(r *http.Request) *Session
	SetCookie(w http.ResponseWriter, session *Session)
	ClearCookie(w http.ResponseWriter)
	Name() string
}

// ============================================================================
// In-Memory Session Store
// ============================================================================

// SessionStore manages sessions in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create generates a new session with the given token and profile.
func (s *SessionStore) Create(_ context.Context, token *oauth2.Token, profile auth.Profile) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &Session{
		ID:        id,
		Token:     token,
		Profile:   profile,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves an unexpired session by ID. The returned session is a copy.
func (s *SessionStore) Get(_ context.Context, id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || !s.now().Before(session.ExpiresAt) {
		return nil
	}

	cp := *session
	return &cp
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// UpdateToken replaces the OAuth token for a session.
func (s *SessionStore) UpdateToken(_ context.Context, id string, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		session.Token = token
	}
}

// DeleteExpired removes expired sessions and returns how many were removed.
func (s *SessionStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for id, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// GetFromRequest extracts the session from the request cookie.
func (s *SessionStore) GetFromRequest(r *http.Request) *Session {
	return sessionFromCookie(r, s)
}

// SetCookie sets the session cookie on the response.
func (s *SessionStore) SetCookie(w http.ResponseWriter, session *Session) {
	setCookie(w, session)
}

// ClearCookie removes the session cookie from the response.
func (s *SessionStore) ClearCookie(w http.ResponseWriter) {
	clearCookie(w)
}

// Name identifies the store in health output.
func (s *SessionStore) Name() string { return "memory" }

// ============================================================================
// Database-Backed Session Store
// ============================================================================

// DBSessionStore manages sessions in PostgreSQL.
type DBSessionStore struct {
	database *db.DB
	logger   *slog.Logger
}

// NewDBSessionStore creates a new database-backed session store.
func NewDBSessionStore(database *db.DB, logger *slog.Logger) *DBSessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DBSessionStore{database: database, logger: logger}
}

// Create records the user's profile and stores a new session.
func (s *DBSessionStore) Create(ctx context.Context, token *oauth2.Token, profile auth.Profile) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	user := &db.User{
		ID:      profile.ID,
		Name:    profile.Name,
		Email:   profile.Email,
		Picture: profile.Picture,
	}
	if err := s.database.Users().Upsert(ctx, user); err != nil {
		return nil, err
	}

	now := time.Now()
	dbSession := &db.Session{
		ID:           id,
		UserID:       profile.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.Type(),
		TokenExpiry:  expiryPtr(token.Expiry),
		CreatedAt:    now,
		ExpiresAt:    now.Add(sessionTTL),
	}
	if err := s.database.Sessions().Create(ctx, dbSession); err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		Token:     token,
		Profile:   profile,
		CreatedAt: now,
		ExpiresAt: dbSession.ExpiresAt,
	}, nil
}

// Get retrieves an unexpired session by ID from the database.
func (s *DBSessionStore) Get(ctx context.Context, id string) *Session {
	sw, err := s.database.Sessions().GetWithUser(ctx, id)
	if err != nil {
		return nil
	}

	token := &oauth2.Token{
		AccessToken:  sw.AccessToken,
		RefreshToken: sw.RefreshToken,
		TokenType:    sw.TokenType,
	}
	if sw.TokenExpiry != nil {
		token.Expiry = *sw.TokenExpiry
	}

	return &Session{
		ID:    sw.ID,
		Token: token,
		Profile: auth.Profile{
			ID:      sw.User.ID,
			Name:    sw.User.Name,
			Email:   sw.User.Email,
			Picture: sw.User.Picture,
		},
		CreatedAt: sw.CreatedAt,
		ExpiresAt: sw.ExpiresAt,
	}
}

// Delete removes a session from the database.
func (s *DBSessionStore) Delete(ctx context.Context, id string) {
	if err := s.database.Sessions().Delete(ctx, id); err != nil {
		s.logger.Warn("failed to delete session", "error", err)
	}
}

// UpdateToken stores a refreshed OAuth token for a session.
func (s *DBSessionStore) UpdateToken(ctx context.Context, id string, token *oauth2.Token) {
	err := s.database.Sessions().UpdateToken(ctx, id, token.AccessToken, token.RefreshToken, expiryPtr(token.Expiry))
	if err != nil {
		s.logger.Warn("failed to update session token", "error", err)
	}
}

// Ping checks that the session database is reachable.
func (s *DBSessionStore) Ping(ctx context.Context) error {
	return s.database.Ping(ctx)
}

// DeleteExpired removes expired sessions from the database.
func (s *DBSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	return s.database.Sessions().DeleteExpired(ctx)
}

// GetFromRequest extracts the session from the request cookie.
func (s *DBSessionStore) GetFromRequest(r *http.Request) *Session {
	return sessionFromCookie(r, s)
}

// SetCookie sets the session cookie on the response.
func (s *DBSessionStore) SetCookie(w http.ResponseWriter, session *Session) {
	setCookie(w, session)
}

// ClearCookie removes the session cookie from the response.
func (s *DBSessionStore) ClearCookie(w http.ResponseWriter) {
	clearCookie(w)
}

// Name identifies the store in health output.
func (s *DBSessionStore) Name() string { return "postgres" }

// ============================================================================
// Helper Functions
// ============================================================================

// generateSessionID creates a cryptographically random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func sessionFromCookie(r *http.Request, sm SessionManager) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return sm.Get(r.Context(), cookie.Value)
}

func expiryPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// setCookie sets the session cookie on the response.
func setCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// clearCookie removes the session cookie from the response.
func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Ensure both stores implement SessionManager.
var (
	_ SessionManager = (*SessionStore)(nil)
	_ SessionManager = (*DBSessionStore)(nil)
	_ pinger         = (*DBSessionStore)(nil)
)
