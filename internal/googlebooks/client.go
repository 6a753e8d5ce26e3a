// Package googlebooks provides a Google Books API client for volume search,
// volume lookup and the authenticated My Library endpoints.
package googlebooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/justestif/go-books-proxy/internal/apperr"
	"github.com/justestif/go-books-proxy/internal/metrics"
)

const (
	// DefaultBaseURL is the public Books API root.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// DefaultTimeout bounds every outbound call.
	DefaultTimeout = 10 * time.Second

	userAgent = "go-books-proxy/1.0"
)

// Operation names used for metrics labels.
const (
	opSearch       = "search"
	opVolume       = "volume"
	opBookshelves  = "mylibrary_bookshelves"
	opShelfVolumes = "mylibrary_volumes"
	opAddVolume    = "mylibrary_add_volume"
	opRemoveVolume = "mylibrary_remove_volume"
)

// Config holds client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Metrics metrics.Recorder
}

// Client is a Google Books API client. It makes exactly one request per call:
// no retries, no caching.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	metrics    metrics.Recorder
}

// NewClient creates a new Books API client from the provided configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		metrics: cfg.Metrics,
	}
}

// WithHTTPClient returns a copy of the client that sends requests through hc,
// typically an OAuth2 client for My Library calls. A copy of hc inherits the
// client's timeout when it has none; hc itself is left untouched.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	authorized := *hc
	if authorized.Timeout == 0 {
		authorized.Timeout = c.httpClient.Timeout
	}
	clone := *c
	clone.httpClient = &authorized
	return &clone
}

// Search runs a volume search and returns the raw upstream response.
func (c *Client) Search(ctx context.Context, p SearchParams) (json.RawMessage, error) {
	if strings.TrimSpace(p.Query) == "" {
		return nil, apperr.Validation("Query parameter 'q' is required")
	}

	body, err := c.do(ctx, opSearch, http.MethodGet, "/volumes", p.values())
	if err != nil {
		return nil, fmt.Errorf("searching volumes: %w", err)
	}
	return json.RawMessage(body), nil
}

// Volume fetches a single volume by id.
// An upstream 404 is reported as apperr.ErrNotFound.
func (c *Client) Volume(ctx context.Context, volumeID, projection string) (Volume, error) {
	if volumeID == "" {
		return nil, apperr.Validation("Volume ID is required")
	}

	params := url.Values{}
	if projection != "" {
		params.Set("projection", projection)
	}

	body, err := c.do(ctx, opVolume, http.MethodGet, "/volumes/"+url.PathEscape(volumeID), params)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Code == apperr.CodeUpstream && appErr.StatusCode == http.StatusNotFound {
			return nil, apperr.NotFound("Volume not found").WithCause(err)
		}
		return nil, fmt.Errorf("fetching volume: %w", err)
	}

	volume, err := decodeVolume(body)
	if err != nil {
		return nil, fmt.Errorf("parsing volume response: %w", err)
	}
	return volume, nil
}

// decodeVolume decodes a volume keeping numbers exactly as sent upstream.
func decodeVolume(body []byte) (Volume, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v Volume
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// do performs a single request and classifies failures into apperr errors.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	reqURL := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.metrics.RecordUpstream(op, metrics.OutcomeTimeout, time.Since(start))
			return nil, apperr.UpstreamTimeout(err)
		}
		c.metrics.RecordUpstream(op, metrics.OutcomeUnavailable, time.Since(start))
		return nil, apperr.UpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.RecordUpstream(op, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		if isTimeout(err) {
			return nil, apperr.UpstreamTimeout(err)
		}
		return nil, apperr.UpstreamUnavailable(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Upstream(resp.StatusCode, upstreamMessage(resp.StatusCode, body))
	}

	return body, nil
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// upstreamMessage extracts the message from a Google API error body.
func upstreamMessage(status int, body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	if text := http.StatusText(status); text != "" {
		return "upstream: " + text
	}
	return fmt.Sprintf("upstream returned status %d", status)
}
