package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justestif/go-books-proxy/internal/apperr"
	"github.com/justestif/go-books-proxy/internal/metrics"
)

func newTestClient(server *httptest.Server, apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    server.URL,
		httpClient: server.Client(),
		metrics:    metrics.Nop{},
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		params    SearchParams
		apiKey    string
		wantQuery map[string]string
		status    int
		wantErr   error
	}{
		{
			name:   "defaults applied",
			params: SearchParams{Query: "dune"},
			wantQuery: map[string]string{
				"q":          "dune",
				"startIndex": "0",
				"maxResults": "10",
				"orderBy":    "relevance",
			},
			status: http.StatusOK,
		},
		{
			name: "all params and api key",
			params: SearchParams{
				Query:      "herbert",
				StartIndex: "20",
				MaxResults: "5",
				OrderBy:    "newest",
				Filter:     "ebooks",
				PrintType:  "books",
				Projection: "lite",
			},
			apiKey: "secret",
			wantQuery: map[string]string{
				"q":          "herbert",
				"startIndex": "20",
				"maxResults": "5",
				"orderBy":    "newest",
				"filter":     "ebooks",
				"printType":  "books",
				"projection": "lite",
				"key":        "secret",
			},
			status: http.StatusOK,
		},
		{
			name:    "upstream error status propagated",
			params:  SearchParams{Query: "dune"},
			status:  http.StatusTooManyRequests,
			wantErr: apperr.ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/volumes" {
					t.Errorf("path = %s, want /volumes", r.URL.Path)
				}
				for k, want := range tt.wantQuery {
					if got := r.URL.Query().Get(k); got != want {
						t.Errorf("query %s = %q, want %q", k, got, want)
					}
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.status != http.StatusOK {
					json.NewEncoder(w).Encode(map[string]any{
						"error": map[string]any{"code": tt.status, "message": "Quota exceeded"},
					})
					return
				}
				w.Write([]byte(`{"kind":"books#volumes","totalItems":1,"items":[{"id":"vol1"}]}`))
			}))
			defer server.Close()

			client := newTestClient(server, tt.apiKey)
			body, err := client.Search(context.Background(), tt.params)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Search() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				status, msg := apperr.Status(err)
				if status != tt.status {
					t.Errorf("status = %d, want %d", status, tt.status)
				}
				if msg != "Quota exceeded" {
					t.Errorf("message = %q, want upstream message", msg)
				}
				return
			}

			var decoded struct {
				TotalItems int `json:"totalItems"`
			}
			if err := json.Unmarshal(body, &decoded); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if decoded.TotalItems != 1 {
				t.Errorf("totalItems = %d, want 1", decoded.TotalItems)
			}
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
	}))
	defer server.Close()

	client := newTestClient(server, "")
	_, err := client.Search(context.Background(), SearchParams{Query: "  "})

	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Search() error = %v, want ErrValidation", err)
	}
	if count := requestCount.Load(); count != 0 {
		t.Errorf("expected no upstream request, got %d", count)
	}
}

func TestVolume(t *testing.T) {
	tests := []struct {
		name       string
		volumeID   string
		projection string
		status     int
		body       string
		wantErr    error
	}{
		{
			name:       "found",
			volumeID:   "zyTCAlFPjgYC",
			projection: "full",
			status:     http.StatusOK,
			body:       `{"id":"zyTCAlFPjgYC","volumeInfo":{"title":"The Google Story","pageCount":207}}`,
		},
		{
			name:     "not found",
			volumeID: "missing",
			status:   http.StatusNotFound,
			body:     `{"error":{"code":404,"message":"The volume ID could not be found."}}`,
			wantErr:  apperr.ErrNotFound,
		},
		{
			name:     "server error",
			volumeID: "broken",
			status:   http.StatusServiceUnavailable,
			body:     `oops`,
			wantErr:  apperr.ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/volumes/"+tt.volumeID {
					t.Errorf("path = %s, want /volumes/%s", r.URL.Path, tt.volumeID)
				}
				if got := r.URL.Query().Get("projection"); got != tt.projection {
					t.Errorf("projection = %q, want %q", got, tt.projection)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server, "")
			volume, err := client.Volume(context.Background(), tt.volumeID, tt.projection)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Volume() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if id, _ := volume["id"].(string); id != tt.volumeID {
				t.Errorf("volume id = %q, want %q", id, tt.volumeID)
			}
			out, err := json.Marshal(volume)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if want := `{"id":"zyTCAlFPjgYC","volumeInfo":{"pageCount":207,"title":"The Google Story"}}`; string(out) != want {
				t.Errorf("round trip = %s, want %s", out, want)
			}
		})
	}
}

func TestVolume_ServerStatusPropagated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server, "").Volume(context.Background(), "vol1", "")

	status, _ := apperr.Status(err)
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", status, http.StatusServiceUnavailable)
	}
}

func TestVolume_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server, "")
	client.httpClient.Timeout = 50 * time.Millisecond

	_, err := client.Volume(context.Background(), "slow", "")

	if !errors.Is(err, apperr.ErrUpstreamTimeout) {
		t.Errorf("Volume() error = %v, want ErrUpstreamTimeout", err)
	}
}

func TestVolume_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(server, "")
	server.Close()

	_, err := client.Volume(context.Background(), "vol1", "")

	if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Errorf("Volume() error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestMyLibrary(t *testing.T) {
	var gotMethod, gotPath, gotVolume string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotVolume = r.URL.Query().Get("volumeId")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`{"kind":"books#bookshelves","items":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server, "").WithHTTPClient(server.Client())
	ctx := context.Background()

	if _, err := client.Bookshelves(ctx); err != nil {
		t.Fatalf("Bookshelves() error = %v", err)
	}
	if gotMethod != http.MethodGet || gotPath != "/mylibrary/bookshelves" {
		t.Errorf("Bookshelves() sent %s %s", gotMethod, gotPath)
	}

	if _, err := client.ShelfVolumes(ctx, "3"); err != nil {
		t.Fatalf("ShelfVolumes() error = %v", err)
	}
	if gotPath != "/mylibrary/bookshelves/3/volumes" {
		t.Errorf("ShelfVolumes() path = %s", gotPath)
	}

	if err := client.AddVolume(ctx, "2", "vol1"); err != nil {
		t.Fatalf("AddVolume() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/mylibrary/bookshelves/2/addVolume" || gotVolume != "vol1" {
		t.Errorf("AddVolume() sent %s %s volumeId=%s", gotMethod, gotPath, gotVolume)
	}

	if err := client.RemoveVolume(ctx, "2", "vol1"); err != nil {
		t.Fatalf("RemoveVolume() error = %v", err)
	}
	if gotPath != "/mylibrary/bookshelves/2/removeVolume" {
		t.Errorf("RemoveVolume() path = %s", gotPath)
	}

	if err := client.AddVolume(ctx, "2", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("AddVolume() without volume error = %v, want ErrValidation", err)
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})

	if client.apiKey != "test-key" {
		t.Errorf("NewClient() apiKey = %s, want test-key", client.apiKey)
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("NewClient() baseURL = %s, want %s", client.baseURL, DefaultBaseURL)
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("NewClient() timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
	if client.metrics == nil {
		t.Error("NewClient() metrics is nil")
	}
}

func TestWithHTTPClient_LeavesCallerClientUntouched(t *testing.T) {
	client := NewClient(Config{Timeout: 3 * time.Second})
	hc := &http.Client{}

	authorized := client.WithHTTPClient(hc)

	if hc.Timeout != 0 {
		t.Errorf("caller client timeout = %v, want 0", hc.Timeout)
	}
	if authorized.httpClient == hc {
		t.Error("WithHTTPClient() shares the caller's client")
	}
	if authorized.httpClient.Timeout != 3*time.Second {
		t.Errorf("WithHTTPClient() timeout = %v, want 3s", authorized.httpClient.Timeout)
	}
	if client.httpClient.Timeout != 3*time.Second {
		t.Errorf("original client timeout = %v, want 3s", client.httpClient.Timeout)
	}
}
