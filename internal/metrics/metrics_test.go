package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordUpstream(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpstream("search", "200", 20*time.Millisecond)
	c.RecordUpstream("search", "200", 30*time.Millisecond)
	c.RecordUpstream("volume", OutcomeTimeout, 10*time.Second)

	if got := testutil.ToFloat64(c.upstreamRequests.WithLabelValues("search", "200")); got != 2 {
		t.Errorf("search/200 = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.upstreamRequests.WithLabelValues("volume", OutcomeTimeout)); got != 1 {
		t.Errorf("volume/timeout = %v, want 1", got)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPRequest(http.MethodGet, "/favorites", http.StatusOK, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "books_proxy_http_requests_total") {
		t.Error("response should contain books_proxy_http_requests_total")
	}
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	_ = NewCollector(reg)
}
