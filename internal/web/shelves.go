package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/justestif/go-books-proxy/internal/library"
)

type shelfNameRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name" validate:"required"`
}

// addShelfBookRequest also accepts a volume record as posted by re-imports:
// {"id", "volumeInfo", "addedAt"} in place of book_id and bookInfo.
type addShelfBookRequest struct {
	UserID     string          `json:"user_id"`
	BookID     string          `json:"book_id" validate:"required_without=ID"`
	BookInfo   json.RawMessage `json:"bookInfo"`
	ID         string          `json:"id"`
	VolumeInfo json.RawMessage `json:"volumeInfo"`
	AddedAt    *time.Time      `json:"addedAt"`
}

func (req addShelfBookRequest) bookID() string {
	if req.BookID != "" {
		return req.BookID
	}
	return req.ID
}

func (req addShelfBookRequest) snapshot() json.RawMessage {
	if len(req.BookInfo) > 0 {
		return req.BookInfo
	}
	return req.VolumeInfo
}

type shelfResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Shelf   library.ShelfSummary `json:"shelf"`
}

// ListShelves handles GET /bookshelves.
func (h *Handlers) ListShelves(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"shelves": h.store.ListShelves(queryUser(r)),
	})
}

// CreateShelf handles POST /bookshelves.
func (h *Handlers) CreateShelf(w http.ResponseWriter, r *http.Request) {
	var req shelfNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	shelf, err := h.store.CreateShelf(bodyUser(r, req.UserID), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shelfResponse{Success: true, Shelf: shelf})
}

// RenameShelf handles PUT /bookshelves/{shelfId}.
func (h *Handlers) RenameShelf(w http.ResponseWriter, r *http.Request) {
	var req shelfNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}
	shelfID, err := shelfParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	shelf, err := h.store.RenameShelf(bodyUser(r, req.UserID), shelfID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shelfResponse{Success: true, Message: "Bookshelf updated", Shelf: shelf})
}

// DeleteShelf handles DELETE /bookshelves/{shelfId}.
func (h *Handlers) DeleteShelf(w http.ResponseWriter, r *http.Request) {
	shelfID, err := shelfParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.DeleteShelf(queryUser(r), shelfID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Bookshelf deleted")
}

// ListShelfBooks handles GET /bookshelves/{shelfId}/books.
func (h *Handlers) ListShelfBooks(w http.ResponseWriter, r *http.Request) {
	shelfID, err := shelfParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	contents, err := h.store.ListShelfBooks(queryUser(r), shelfID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contents)
}

// AddBookToShelf handles POST /bookshelves/{shelfId}/books. A supplied
// addedAt is kept so re-imports do not reorder the shelf.
func (h *Handlers) AddBookToShelf(w http.ResponseWriter, r *http.Request) {
	var req addShelfBookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}
	shelfID, err := shelfParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var addedAt time.Time
	if req.AddedAt != nil {
		addedAt = *req.AddedAt
	}

	book, err := h.store.AddBookToShelf(bodyUser(r, req.UserID), shelfID, req.bookID(), req.snapshot(), addedAt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		messageResponse
		Book library.ShelfBook `json:"book"`
	}{messageResponse{true, "Book added to shelf"}, book})
}

// RemoveBookFromShelf handles DELETE /bookshelves/{shelfId}/books/{bookId}.
func (h *Handlers) RemoveBookFromShelf(w http.ResponseWriter, r *http.Request) {
	shelfID, err := shelfParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.RemoveBookFromShelf(queryUser(r), shelfID, chi.URLParam(r, "bookId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Book removed from shelf")
}
