package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justestif/go-books-proxy/internal/library"
)

type addReadingListRequest struct {
	UserID   string          `json:"user_id"`
	BookID   string          `json:"book_id" validate:"required"`
	BookInfo json.RawMessage `json:"bookInfo"`
	Status   string          `json:"status"`
}

type updateReadingStatusRequest struct {
	UserID   string `json:"user_id"`
	Status   string `json:"status"`
	Progress *int   `json:"progress" validate:"omitempty,gte=0"`
}

type readingListItemResponse struct {
	messageResponse
	Item library.ReadingListEntry `json:"item"`
}

// ListReadingList handles GET /reading-list.
func (h *Handlers) ListReadingList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": h.store.ListReadingList(queryUser(r)),
	})
}

// AddToReadingList handles POST /reading-list.
func (h *Handlers) AddToReadingList(w http.ResponseWriter, r *http.Request) {
	var req addReadingListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.store.AddToReadingList(bodyUser(r, req.UserID), req.BookID, req.BookInfo, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, readingListItemResponse{messageResponse{true, "Book added to reading list"}, entry})
}

// UpdateReadingStatus handles PUT /reading-list/{bookId}. Omitted fields keep
// their current values.
func (h *Handlers) UpdateReadingStatus(w http.ResponseWriter, r *http.Request) {
	var req updateReadingStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.store.UpdateReadingStatus(bodyUser(r, req.UserID), chi.URLParam(r, "bookId"), req.Status, req.Progress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, readingListItemResponse{messageResponse{true, "Reading status updated"}, entry})
}

// RemoveFromReadingList handles DELETE /reading-list/{bookId}.
func (h *Handlers) RemoveFromReadingList(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveFromReadingList(queryUser(r), chi.URLParam(r, "bookId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Book removed from reading list")
}
