package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/justestif/go-books-proxy/internal/apperr"
)

// errorResponse is the body of every error response.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse acknowledges a mutation.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeRaw sends an upstream JSON body unchanged.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeMessage sends {"success": true, "message": msg}.
func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: msg})
}

// writeError maps err onto a status code and an error body.
// Authentication failures carry a Bearer challenge.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := apperr.Status(err)
	if errors.Is(err, apperr.ErrAuthRequired) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="books"`)
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
