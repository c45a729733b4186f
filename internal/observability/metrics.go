package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CoverageCollector bundles Prometheus metrics for rasterization passes and
// provides a ready-to-serve /metrics handler. It satisfies the core
// package's PassMetricsRecorder interface.
type CoverageCollector struct {
	gatherer prometheus.Gatherer

	Passes         *prometheus.CounterVec
	PassDurations  prometheus.Histogram
	CellsEvaluated prometheus.Counter
	CellsPruned    prometheus.Counter

	SceneTransmitters prometheus.Gauge
	SceneObstacles    prometheus.Gauge
	SceneVirtuals     prometheus.Gauge
}

// NewCoverageCollector registers the pass metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCoverageCollector(reg prometheus.Registerer) (*CoverageCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	passes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coverage_passes_total",
		Help: "Total number of rasterization passes, labeled by result (complete, aborted, superseded).",
	}, []string{"result"})
	passes, err := registerCounterVec(reg, passes, "coverage_passes_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coverage_pass_duration_seconds",
		Help:    "Rasterization pass wall time in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})
	durations, err = registerHistogram(reg, durations, "coverage_pass_duration_seconds")
	if err != nil {
		return nil, err
	}

	evaluated, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_cells_evaluated_total",
		Help: "Grid cells fully evaluated by the field sampler.",
	}), "coverage_cells_evaluated_total")
	if err != nil {
		return nil, err
	}
	pruned, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_cells_pruned_total",
		Help: "Grid cells skipped by the out-of-range prune.",
	}), "coverage_cells_pruned_total")
	if err != nil {
		return nil, err
	}

	transmitters, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scene_transmitters",
		Help: "Transmitters in the most recent pass.",
	}), "scene_transmitters")
	if err != nil {
		return nil, err
	}
	obstacles, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scene_obstacles",
		Help: "Obstacles in the most recent pass.",
	}), "scene_obstacles")
	if err != nil {
		return nil, err
	}
	virtuals, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scene_virtual_transmitters",
		Help: "Virtual transmitters synthesized in the most recent pass.",
	}), "scene_virtual_transmitters")
	if err != nil {
		return nil, err
	}

	return &CoverageCollector{
		gatherer:          gatherer,
		Passes:            passes,
		PassDurations:     durations,
		CellsEvaluated:    evaluated,
		CellsPruned:       pruned,
		SceneTransmitters: transmitters,
		SceneObstacles:    obstacles,
		SceneVirtuals:     virtuals,
	}, nil
}

// ObservePass records one finished pass and its wall time.
func (c *CoverageCollector) ObservePass(result string, seconds float64) {
	if c == nil {
		return
	}
	if c.Passes != nil {
		c.Passes.WithLabelValues(result).Inc()
	}
	if c.PassDurations != nil {
		c.PassDurations.Observe(seconds)
	}
}

// AddCells accumulates per-pass cell counters.
func (c *CoverageCollector) AddCells(evaluated, pruned int) {
	if c == nil {
		return
	}
	if c.CellsEvaluated != nil {
		c.CellsEvaluated.Add(float64(evaluated))
	}
	if c.CellsPruned != nil {
		c.CellsPruned.Add(float64(pruned))
	}
}

// SetSceneCounts tracks the size of the scene the rasterizer last saw.
func (c *CoverageCollector) SetSceneCounts(transmitters, obstacles, virtuals int) {
	if c == nil {
		return
	}
	if c.SceneTransmitters != nil {
		c.SceneTransmitters.Set(float64(transmitters))
	}
	if c.SceneObstacles != nil {
		c.SceneObstacles.Set(float64(obstacles))
	}
	if c.SceneVirtuals != nil {
		c.SceneVirtuals.Set(float64(virtuals))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *CoverageCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
