package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecordFetch(t *testing.T) {
	r := NewRegistry()
	r.RecordFetch(true, 120*time.Millisecond)
	r.RecordFetch(true, 80*time.Millisecond)
	r.RecordFetch(false, 30*time.Second)

	ok, err := r.DocumentsFetchedTotal.GetMetricWithLabelValues("ok")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, ok); v != 2 {
		t.Errorf("ok = %v, want 2", v)
	}
	failed, _ := r.DocumentsFetchedTotal.GetMetricWithLabelValues("placeholder")
	if v := counterValue(t, failed); v != 1 {
		t.Errorf("placeholder = %v, want 1", v)
	}

	var m dto.Metric
	if err := r.FetchDuration.Write(&m); err != nil {
		t.Fatal(err)
	}
	if m.GetHistogram().GetSampleCount() != 3 {
		t.Errorf("sample count = %d, want 3", m.GetHistogram().GetSampleCount())
	}
}

func TestRunGauges(t *testing.T) {
	r := NewRegistry()
	r.SetLayout(9, 120, 4)
	r.SetDegraded(true)
	r.RecordRun("completed", 42*time.Second)

	var m dto.Metric
	if err := r.RunDocuments.Write(&m); err != nil {
		t.Fatal(err)
	}
	if m.GetGauge().GetValue() != 120 {
		t.Errorf("documents = %v, want 120", m.GetGauge().GetValue())
	}
	if err := r.ListingDegraded.Write(&m); err != nil {
		t.Fatal(err)
	}
	if m.GetGauge().GetValue() != 1 {
		t.Errorf("degraded = %v, want 1", m.GetGauge().GetValue())
	}

	r.SetDegraded(false)
	if err := r.ListingDegraded.Write(&m); err != nil {
		t.Fatal(err)
	}
	if m.GetGauge().GetValue() != 0 {
		t.Errorf("degraded = %v, want 0", m.GetGauge().GetValue())
	}

	runs, _ := r.RunsTotal.GetMetricWithLabelValues("completed")
	if v := counterValue(t, runs); v != 1 {
		t.Errorf("runs = %v, want 1", v)
	}
}

func TestGather(t *testing.T) {
	r := NewRegistry()
	r.RecordFetch(true, time.Millisecond)
	r.RecordPreviewRequest("GET", 200, time.Millisecond)

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
		if !strings.HasPrefix(f.GetName(), "roadmapdocs_") {
			t.Errorf("metric %s lacks the roadmapdocs_ prefix", f.GetName())
		}
	}
	for _, want := range []string{
		"roadmapdocs_documents_fetched_total",
		"roadmapdocs_fetch_duration_seconds",
		"roadmapdocs_run_sections",
		"roadmapdocs_preview_requests_total",
	} {
		if !names[want] {
			t.Errorf("expected metric %s", want)
		}
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordPreviewRequest("GET", 404, time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `roadmapdocs_preview_requests_total{method="GET",status="404"} 1`) {
		t.Errorf("unexpected exposition:\n%s", body)
	}
}
