package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/justestif/go-books-proxy/internal/apperr"
)

// These calls act on the signed-in user's real library and need a client
// built with WithHTTPClient around an OAuth2 HTTP client.

// Bookshelves lists the user's My Library bookshelves.
func (c *Client) Bookshelves(ctx context.Context) (json.RawMessage, error) {
	body, err := c.do(ctx, opBookshelves, http.MethodGet, "/mylibrary/bookshelves", nil)
	if err != nil {
		return nil, fmt.Errorf("listing bookshelves: %w", err)
	}
	return json.RawMessage(body), nil
}

// ShelfVolumes lists the volumes on one of the user's bookshelves.
func (c *Client) ShelfVolumes(ctx context.Context, shelfID string) (json.RawMessage, error) {
	if shelfID == "" {
		return nil, apperr.Validation("Shelf ID is required")
	}

	body, err := c.do(ctx, opShelfVolumes, http.MethodGet, shelfPath(shelfID, "volumes"), nil)
	if err != nil {
		return nil, fmt.Errorf("listing shelf volumes: %w", err)
	}
	return json.RawMessage(body), nil
}

// AddVolume adds a volume to one of the user's bookshelves.
func (c *Client) AddVolume(ctx context.Context, shelfID, volumeID string) error {
	return c.shelfVolumeAction(ctx, opAddVolume, shelfID, volumeID, "addVolume")
}

// RemoveVolume removes a volume from one of the user's bookshelves.
func (c *Client) RemoveVolume(ctx context.Context, shelfID, volumeID string) error {
	return c.shelfVolumeAction(ctx, opRemoveVolume, shelfID, volumeID, "removeVolume")
}

func (c *Client) shelfVolumeAction(ctx context.Context, op, shelfID, volumeID, action string) error {
	if shelfID == "" {
		return apperr.Validation("Shelf ID is required")
	}
	if volumeID == "" {
		return apperr.Validation("Volume ID is required")
	}

	params := url.Values{"volumeId": {volumeID}}
	if _, err := c.do(ctx, op, http.MethodPost, shelfPath(shelfID, action), params); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

func shelfPath(shelfID, suffix string) string {
	return "/mylibrary/bookshelves/" + url.PathEscape(shelfID) + "/" + suffix
}
