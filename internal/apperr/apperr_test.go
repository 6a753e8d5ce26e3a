package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation("name is required"), http.StatusBadRequest, "name is required"},
		{"not found", NotFound("Bookshelf not found"), http.StatusNotFound, "Bookshelf not found"},
		{"forbidden", Forbidden("Cannot delete default bookshelves"), http.StatusForbidden, "Cannot delete default bookshelves"},
		{"auth required", AuthRequired("login required"), http.StatusUnauthorized, "login required"},
		{"not configured", NotConfigured("OAuth is not configured"), http.StatusServiceUnavailable, "OAuth is not configured"},
		{"upstream status verbatim", Upstream(http.StatusTooManyRequests, "quota"), http.StatusTooManyRequests, "quota"},
		{"upstream redirect status verbatim", Upstream(http.StatusNotModified, "not modified"), http.StatusNotModified, "not modified"},
		{"upstream without status", Upstream(0, "bad"), http.StatusBadGateway, "bad"},
		{"timeout", UpstreamTimeout(context.DeadlineExceeded), http.StatusGatewayTimeout, "upstream request timed out"},
		{"unavailable", UpstreamUnavailable(errors.New("dial tcp: refused")), http.StatusBadGateway, "upstream service unavailable"},
		{"wrapped", fmt.Errorf("removing favorite: %w", NotFound("gone")), http.StatusNotFound, "gone"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := Status(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Forbidden("no"))

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, AuthRequired("login required"), ErrAuthRequired)
}

func TestUpstreamTimeoutUnwrapsCause(t *testing.T) {
	err := UpstreamTimeout(context.DeadlineExceeded)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
	assert.Contains(t, err.Error(), "deadline exceeded")
}
