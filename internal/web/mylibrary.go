package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"github.com/justestif/go-books-proxy/internal/apperr"
	"github.com/justestif/go-books-proxy/internal/auth"
	"github.com/justestif/go-books-proxy/internal/googlebooks"
)

// libraryClient returns a catalog client authorized as the caller and a func
// to run once the upstream call is done. A bearer token in the Authorization
// header is forwarded as is; otherwise the session's token is used and any
// refresh is written back to the session.
func (h *Handlers) libraryClient(r *http.Request) (*googlebooks.Client, func(), error) {
	ctx := r.Context()

	if token, ok := bearerToken(r); ok {
		return h.catalog.WithHTTPClient(auth.BearerClient(ctx, token)), func() {}, nil
	}

	session := h.sessions.GetFromRequest(r)
	if session == nil {
		return nil, nil, apperr.AuthRequired("Authentication required")
	}
	if err := h.requireOAuth(); err != nil {
		return nil, nil, err
	}

	ts := h.auth.TokenSource(ctx, session.Token)
	done := func() { h.saveRefreshedToken(r, session, ts) }
	return h.catalog.WithHTTPClient(h.auth.Client(ctx, ts)), done, nil
}

func (h *Handlers) saveRefreshedToken(r *http.Request, session *Session, ts oauth2.TokenSource) {
	token, err := ts.Token()
	if err != nil || token.AccessToken == session.Token.AccessToken {
		return
	}
	h.sessions.UpdateToken(r.Context(), session.ID, token)
	h.logger.Debug("refreshed session token", "user_id", session.Profile.ID)
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// MyBookshelves lists the caller's Google bookshelves (GET /mylibrary/bookshelves).
func (h *Handlers) MyBookshelves(w http.ResponseWriter, r *http.Request) {
	client, done, err := h.libraryClient(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer done()

	body, err := client.Bookshelves(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// MyShelfVolumes lists the volumes on one of the caller's Google bookshelves
// (GET /mylibrary/bookshelves/{shelfId}/volumes).
func (h *Handlers) MyShelfVolumes(w http.ResponseWriter, r *http.Request) {
	client, done, err := h.libraryClient(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer done()

	body, err := client.ShelfVolumes(r.Context(), chi.URLParam(r, "shelfId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// MyAddVolume handles POST /mylibrary/bookshelves/{shelfId}/addVolume.
func (h *Handlers) MyAddVolume(w http.ResponseWriter, r *http.Request) {
	client, done, err := h.libraryClient(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer done()

	if err := client.AddVolume(r.Context(), chi.URLParam(r, "shelfId"), r.URL.Query().Get("volumeId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Volume added to bookshelf")
}

// MyRemoveVolume handles POST /mylibrary/bookshelves/{shelfId}/removeVolume.
func (h *Handlers) MyRemoveVolume(w http.ResponseWriter, r *http.Request) {
	client, done, err := h.libraryClient(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer done()

	if err := client.RemoveVolume(r.Context(), chi.URLParam(r, "shelfId"), r.URL.Query().Get("volumeId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Volume removed from bookshelf")
}
