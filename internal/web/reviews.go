package web

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justestif/go-books-proxy/internal/apperr"
	"github.com/justestif/go-books-proxy/internal/library"
)

type reviewRequest struct {
	UserID string          `json:"user_id"`
	Rating json.RawMessage `json:"rating"`
	Text   string          `json:"text"`
}

// rating parses the rating as a number. Numeric strings such as "4.5" are
// accepted; a missing or null rating yields nil.
func (req reviewRequest) rating() (*float64, error) {
	raw := bytes.TrimSpace(req.Rating)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, apperr.Validation("Rating must be a number")
	}
	f, err := n.Float64()
	if err != nil {
		return nil, apperr.Validation("Rating must be a number")
	}
	return &f, nil
}

// GetReview handles GET /reviews/{bookId}. A missing review is reported as
// {"review": null}.
func (h *Handlers) GetReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Review *library.Review `json:"review"`
	}
	if review, ok := h.store.GetReview(queryUser(r), chi.URLParam(r, "bookId")); ok {
		body.Review = &review
	}
	writeJSON(w, http.StatusOK, body)
}

// UpsertReview handles POST and PUT /reviews/{bookId}.
func (h *Handlers) UpsertReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rating, err := req.rating()
	if err != nil {
		writeError(w, r, err)
		return
	}

	review, created, err := h.store.UpsertReview(bodyUser(r, req.UserID), chi.URLParam(r, "bookId"), rating, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg := "Review updated"
	if created {
		msg = "Review added"
	}
	writeJSON(w, http.StatusOK, struct {
		messageResponse
		Review library.Review `json:"review"`
	}{messageResponse{true, msg}, review})
}

// DeleteReview handles DELETE /reviews/{bookId}.
func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteReview(queryUser(r), chi.URLParam(r, "bookId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Review deleted")
}
