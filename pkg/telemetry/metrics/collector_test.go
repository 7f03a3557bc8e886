package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/driftbyte/esdump/pkg/config"
)

func enabledCollector() *Collector {
	return NewCollector(&config.MetricsConfig{Enabled: true}, prometheus.NewRegistry())
}

func TestCollector_PageFetched(t *testing.T) {
	c := enabledCollector()

	c.PageFetched("logs", 500, 120*time.Millisecond)
	c.PageFetched("logs", 230, 80*time.Millisecond)

	if got := testutil.ToFloat64(c.documentsTotal.WithLabelValues("logs")); got != 730 {
		t.Errorf("expected 730 documents, got %v", got)
	}
	if got := testutil.ToFloat64(c.pagesTotal.WithLabelValues("logs")); got != 2 {
		t.Errorf("expected 2 pages, got %v", got)
	}
}

func TestCollector_IndexFailed(t *testing.T) {
	c := enabledCollector()

	c.IndexFailed("broken", "open failed with status 403")

	if got := testutil.ToFloat64(c.indexFailures.WithLabelValues("broken")); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(c.indexFailures.WithLabelValues("healthy")); got != 0 {
		t.Errorf("expected 0 failures for other index, got %v", got)
	}
}

func TestCollector_RunLifecycle(t *testing.T) {
	c := enabledCollector()

	c.RunStarted()
	if got := testutil.ToFloat64(c.runInProgress); got != 1 {
		t.Errorf("expected run in progress, got %v", got)
	}

	c.BytesWritten(4096)
	c.RunFinished("partial")

	if got := testutil.ToFloat64(c.runInProgress); got != 0 {
		t.Errorf("expected run no longer in progress, got %v", got)
	}
	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues("partial")); got != 1 {
		t.Errorf("expected 1 partial run, got %v", got)
	}
	if got := testutil.ToFloat64(c.bytesTotal); got != 4096 {
		t.Errorf("expected 4096 bytes, got %v", got)
	}
}

func TestCollector_DisabledRecordsNothing(t *testing.T) {
	c := NewCollector(&config.MetricsConfig{Enabled: false}, prometheus.NewRegistry())

	c.PageFetched("logs", 100, time.Second)
	c.IndexFailed("logs", "boom")
	c.BytesWritten(1)
	c.RunStarted()
	c.RunFinished("ok")

	if got := testutil.ToFloat64(c.documentsTotal.WithLabelValues("logs")); got != 0 {
		t.Errorf("disabled collector recorded documents: %v", got)
	}
	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues("ok")); got != 0 {
		t.Errorf("disabled collector recorded runs: %v", got)
	}
}

func TestCollector_DefaultNamespace(t *testing.T) {
	c := enabledCollector()
	c.PageFetched("logs", 1, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "esdump_documents_exported_total") {
		t.Errorf("expected namespaced metric in scrape output:\n%s", body)
	}
}

func TestCollector_CustomNamespace(t *testing.T) {
	c := NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "acme"}, prometheus.NewRegistry())
	c.PageFetched("logs", 1, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "acme_documents_exported_total") {
		t.Error("expected custom namespace in scrape output")
	}
}
