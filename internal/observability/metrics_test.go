package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestObservePassRecordsCountAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCoverageCollector(reg)
	if err != nil {
		t.Fatalf("NewCoverageCollector: %v", err)
	}

	collector.ObservePass("complete", 0.05)
	collector.ObservePass("complete", 0.10)
	collector.ObservePass("aborted", 0.001)

	if got := testutil.ToFloat64(collector.Passes.WithLabelValues("complete")); got != 2 {
		t.Fatalf("coverage_passes_total{result=complete} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Passes.WithLabelValues("aborted")); got != 1 {
		t.Fatalf("coverage_passes_total{result=aborted} = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "coverage_pass_duration_seconds"); count != 3 {
		t.Fatalf("coverage_pass_duration_seconds sample_count = %d, want 3", count)
	}
}

func TestAddCellsAccumulates(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCoverageCollector(reg)
	if err != nil {
		t.Fatalf("NewCoverageCollector: %v", err)
	}

	collector.AddCells(100, 40)
	collector.AddCells(50, 10)

	if got := testutil.ToFloat64(collector.CellsEvaluated); got != 150 {
		t.Fatalf("coverage_cells_evaluated_total = %v, want 150", got)
	}
	if got := testutil.ToFloat64(collector.CellsPruned); got != 50 {
		t.Fatalf("coverage_cells_pruned_total = %v, want 50", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var collector *CoverageCollector
	collector.ObservePass("complete", 0.1)
	collector.AddCells(1, 2)
	collector.SetSceneCounts(1, 2, 3)
}

func TestDoubleRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCoverageCollector(reg)
	if err != nil {
		t.Fatalf("first NewCoverageCollector: %v", err)
	}
	second, err := NewCoverageCollector(reg)
	if err != nil {
		t.Fatalf("second NewCoverageCollector: %v", err)
	}

	first.ObservePass("complete", 0.01)
	second.ObservePass("complete", 0.01)
	if got := testutil.ToFloat64(first.Passes.WithLabelValues("complete")); got != 2 {
		t.Fatalf("shared coverage_passes_total = %v, want 2", got)
	}
}

func TestMetricsHandlerExposesSceneGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCoverageCollector(reg)
	if err != nil {
		t.Fatalf("NewCoverageCollector: %v", err)
	}
	collector.SetSceneCounts(3, 7, 21)
	collector.ObservePass("complete", 0.02)
	collector.AddCells(1000, 200)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"coverage_passes_total",
		"coverage_pass_duration_seconds",
		"coverage_cells_evaluated_total",
		"coverage_cells_pruned_total",
		"scene_transmitters",
		"scene_obstacles",
		"scene_virtual_transmitters",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	var families []*dto.MetricFamily
	families, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if h := m.GetHistogram(); h != nil {
				return h.GetSampleCount()
			}
		}
	}
	return 0
}
