package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookparse/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveParse("partial", "", 80*time.Millisecond)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "bookparse_http_requests_total") {
		t.Fatalf("expected bookparse_http_requests_total in output")
	}
	if !strings.Contains(out, "bookparse_parse_outcomes_total") {
		t.Fatalf("expected bookparse_parse_outcomes_total in output")
	}
}

func TestServe_EmptyAddrIsDisabled(t *testing.T) {
	// must return without binding anything
	observability.Serve("")
}
