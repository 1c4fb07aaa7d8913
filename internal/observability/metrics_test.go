package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordsBuildsAndServesText(t *testing.T) {
	t.Parallel()
	m := New("mmtest")
	m.ObserveBuild("ingest", "built", 2*time.Millisecond, 5, 2, 1)
	m.ObserveBuild("ingest", "passthrough", time.Millisecond, 0, 0, 0)
	m.ObserveSidebar(0)
	m.ObserveSidebar(3)
	m.ObserveCache("get", "miss")

	if got := testutil.ToFloat64(m.builds.WithLabelValues("ingest", "built")); got != 1 {
		t.Fatalf("builds built: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(m.buildWarnings); got != 1 {
		t.Fatalf("warnings: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(m.sidebarResults.WithLabelValues("empty")); got != 1 {
		t.Fatalf("sidebar empty: got=%v want=1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "mmtest_graph_builds_total") {
		t.Fatalf("metrics output missing build counter:\n%s", body)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	t.Parallel()
	var m *Metrics
	m.APIInflightInc()
	m.APIInflightDec()
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveBuild("cli", "error", time.Millisecond, 0, 0, 0)
	m.ObserveLLMRequest("", "ok", time.Second, 1, 1)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("nil handler: got=%d want=404", rec.Code)
	}
}
