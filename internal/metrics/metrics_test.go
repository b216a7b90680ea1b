package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_RecordAndExpose(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, "/sessions", 200)
	c.RecordHTTPRequest(http.MethodGet, "/sessions", 200)
	c.RecordHTTPRequest(http.MethodPost, "/sessions", 400)
	c.RecordHTTPLatency(15 * time.Millisecond)
	c.RecordAuthFailure("invalid_token")
	c.RecordUserCreated()
	c.RecordSessionCreated()
	c.RecordAccountDeleted()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	expected := []string{
		`massago_http_requests_total{method="GET",path="/sessions",status_code="200"} 2`,
		`massago_http_requests_total{method="POST",path="/sessions",status_code="400"} 1`,
		`massago_auth_failures_total{reason="invalid_token"} 1`,
		`massago_users_created_total 1`,
		`massago_sessions_created_total 1`,
		`massago_accounts_deleted_total 1`,
		`massago_http_latency_seconds_count 1`,
	}
	for _, want := range expected {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollector_ImplementsInterface(t *testing.T) {
	var _ MetricsCollector = (*Collector)(nil)
}
