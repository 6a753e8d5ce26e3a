package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justestif/go-books-proxy/internal/library"
)

type addFavoriteRequest struct {
	UserID   string          `json:"user_id"`
	BookID   string          `json:"book_id" validate:"required"`
	BookInfo json.RawMessage `json:"bookInfo"`
}

// ListFavorites handles GET /favorites.
func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": h.store.ListFavorites(queryUser(r)),
	})
}

// AddFavorite handles POST /favorites.
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.store.AddFavorite(bodyUser(r, req.UserID), req.BookID, req.BookInfo)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		messageResponse
		Item library.FavoriteEntry `json:"item"`
	}{messageResponse{true, "Book added to favorites"}, entry})
}

// RemoveFavorite handles DELETE /favorites/{bookId}.
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveFavorite(queryUser(r), chi.URLParam(r, "bookId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Book removed from favorites")
}
