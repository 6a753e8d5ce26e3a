package web

import (
	"net/http"

	"github.com/justestif/go-books-proxy/internal/apperr"
	"github.com/justestif/go-books-proxy/internal/auth"
)

const stateCookieName = "oauth_state"

type authStatusResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *auth.Profile `json:"user,omitempty"`
}

func (h *Handlers) requireOAuth() error {
	if h.auth == nil {
		return apperr.NotConfigured("OAuth is not configured")
	}
	return nil
}

// Login initiates the Google OAuth flow (GET /auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := h.requireOAuth(); err != nil {
		writeError(w, r, err)
		return
	}

	// Generate state for CSRF protection
	state, err := auth.GenerateState()
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Store state in cookie for validation on callback
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300, // 5 minutes
	})

	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusTemporaryRedirect)
}

// Authorize handles the OAuth callback from Google (GET /auth/authorize).
func (h *Handlers) Authorize(w http.ResponseWriter, r *http.Request) {
	if err := h.requireOAuth(); err != nil {
		writeError(w, r, err)
		return
	}

	// Verify state
	var issued string
	if c, err := r.Cookie(stateCookieName); err == nil {
		issued = c.Value
	}
	query := r.URL.Query()
	if err := auth.CheckState(issued, query.Get("state")); err != nil {
		writeError(w, r, apperr.Validation("State mismatch"))
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if errMsg := query.Get("error"); errMsg != "" {
		writeError(w, r, apperr.Validation("Authorization failed: "+errMsg))
		return
	}
	code := query.Get("code")
	if code == "" {
		writeError(w, r, apperr.Validation("Authorization code is required"))
		return
	}

	token, err := h.auth.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, r, apperr.Upstream(http.StatusBadGateway, "Failed to get token").WithCause(err))
		return
	}

	profile, err := h.auth.Profile(r.Context(), h.auth.TokenSource(r.Context(), token))
	if err != nil {
		writeError(w, r, apperr.Upstream(http.StatusBadGateway, "Failed to get user info").WithCause(err))
		return
	}

	session, err := h.sessions.Create(r.Context(), token, *profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.sessions.SetCookie(w, session)

	h.logger.Info("user signed in", "user_id", profile.ID)
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

// Logout clears the session and redirects to the frontend (GET|POST /auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := h.sessions.GetFromRequest(r); session != nil {
		h.sessions.Delete(r.Context(), session.ID)
	}

	h.sessions.ClearCookie(w)
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

// AuthStatus reports whether the caller has a session (GET /auth/status).
func (h *Handlers) AuthStatus(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.GetFromRequest(r)
	if session == nil {
		writeJSON(w, http.StatusOK, authStatusResponse{})
		return
	}

	profile := session.Profile
	writeJSON(w, http.StatusOK, authStatusResponse{Authenticated: true, User: &profile})
}
