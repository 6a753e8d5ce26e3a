package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justestif/go-books-proxy/internal/library"
)

type noteRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text" validate:"required"`
}

type noteResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Note    library.Note `json:"note"`
}

// ListNotes handles GET /notes/{bookId}.
func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": h.store.ListNotes(queryUser(r), chi.URLParam(r, "bookId")),
	})
}

// AddNote handles POST /notes/{bookId}.
func (h *Handlers) AddNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.store.AddNote(bodyUser(r, req.UserID), chi.URLParam(r, "bookId"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, noteResponse{Success: true, Note: note})
}

// UpdateNote handles PUT /notes/{bookId}/{noteId}.
func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.store.UpdateNote(bodyUser(r, req.UserID), chi.URLParam(r, "bookId"), chi.URLParam(r, "noteId"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, noteResponse{Success: true, Message: "Note updated", Note: note})
}

// DeleteNote handles DELETE /notes/{bookId}/{noteId}.
func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteNote(queryUser(r), chi.URLParam(r, "bookId"), chi.URLParam(r, "noteId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Note deleted")
}
