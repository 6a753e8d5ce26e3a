package web

import (
	"context"
	"net/http"
)

type healthResponse struct {
	Status           string `json:"status"`
	OAuthConfigured  bool   `json:"oauthConfigured"`
	APIKeyConfigured bool   `json:"apiKeyConfigured"`
	SessionStore     string `json:"sessionStore"`
}

// pinger is implemented by session stores that depend on a database.
type pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /health. It answers 503 when the session database is
// unreachable.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:           "ok",
		OAuthConfigured:  h.auth != nil,
		APIKeyConfigured: h.apiKeyConfigured,
		SessionStore:     h.sessions.Name(),
	}

	status := http.StatusOK
	if p, ok := h.sessions.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "session store unreachable", "error", err)
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}
