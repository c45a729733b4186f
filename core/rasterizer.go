package core

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/signalsfoundry/coverage-engine/internal/logging"
	"github.com/signalsfoundry/coverage-engine/model"
)

// MaxGridCells caps cols×rows for one pass. A request above the ceiling is
// aborted before any grid allocation happens.
const MaxGridCells = 25_000_000

// DefaultViewportM is the side of the square world viewport rendered when a
// plan contains no transmitters or obstacles to derive bounds from.
const DefaultViewportM = 20.0

// unboundedPaddingM pads the scene bounds when the colour mode has no finite
// range limit.
const unboundedPaddingM = 10.0

// PruneRangeFactor widens the mode's range limit for both bounds padding and
// cell pruning. Pruning strictly beyond this widened radius is a rendering
// shortcut: such cells would map transparent anyway, so skipping them must
// never change the output for cells within range.
const PruneRangeFactor = 1.5

// ErrGridTooLarge reports a pass whose cell count exceeds MaxGridCells. No
// raster is produced; any previously published overlay is stale.
var ErrGridTooLarge = errors.New("coverage grid exceeds cell ceiling")

// Pass outcome labels reported to the metrics recorder.
const (
	PassComplete   = "complete"
	PassAborted    = "aborted"
	PassSuperseded = "superseded"
)

// SitePlan bundles everything one rasterization pass consumes. All fields
// are read-only for the duration of the pass.
type SitePlan struct {
	Transmitters []model.Transmitter
	Obstacles    []model.Obstacle
	Mode         ColorMode

	// ScalePxPerM converts world metres to display pixels. Values <= 0
	// default to 1.
	ScalePxPerM float64

	// StepPx is the requested sample spacing in display pixels. Values <= 0
	// default to 1.
	StepPx float64
}

// Overlay is the completed product of one pass: an RGBA pixel buffer in
// display coordinates plus the point it should be composited at.
type Overlay struct {
	Image *image.NRGBA

	// OriginX, OriginY are the display-space coordinates of the buffer's
	// top-left corner (the padded world box scaled to pixels).
	OriginX float64
	OriginY float64
}

// PassMetricsRecorder receives counters from rasterization passes. The
// observability collector satisfies it; a nil recorder disables recording.
type PassMetricsRecorder interface {
	ObservePass(result string, seconds float64)
	AddCells(evaluated, pruned int)
	SetSceneCounts(transmitters, obstacles, virtuals int)
}

// GridRasterizer drives the field sampler over a bounded world grid and
// turns the sampled dBm values into a display-space overlay.
type GridRasterizer struct {
	sampler *FieldSampler
	log     logging.Logger
	metrics PassMetricsRecorder
	tracer  trace.Tracer
}

// RasterizerOption customises GridRasterizer construction.
type RasterizerOption func(*GridRasterizer)

// WithLogger attaches a structured logger for pass diagnostics.
func WithLogger(l logging.Logger) RasterizerOption {
	return func(gr *GridRasterizer) {
		if l != nil {
			gr.log = l
		}
	}
}

// WithMetrics attaches a pass metrics recorder.
func WithMetrics(m PassMetricsRecorder) RasterizerOption {
	return func(gr *GridRasterizer) { gr.metrics = m }
}

// WithObstructionAnalyzer swaps the obstruction scan, e.g. for a spatial
// index over large obstacle sets.
func WithObstructionAnalyzer(a ObstructionAnalyzer) RasterizerOption {
	return func(gr *GridRasterizer) {
		if a != nil {
			gr.sampler.Obstruction = a
		}
	}
}

func NewGridRasterizer(opts ...RasterizerOption) *GridRasterizer {
	gr := &GridRasterizer{
		sampler: NewFieldSampler(),
		log:     logging.Noop(),
		tracer:  otel.Tracer("coverage-engine/core"),
	}
	for _, opt := range opts {
		opt(gr)
	}
	return gr
}

// Render runs one full pass: sample the world grid, then smooth-resample it
// to display size. The only non-context error is ErrGridTooLarge. A
// cancelled context (a superseded pass) returns the context error with no
// raster; nothing partial is ever returned.
func (gr *GridRasterizer) Render(ctx context.Context, plan SitePlan) (*Overlay, error) {
	ctx, span := gr.tracer.Start(ctx, "coverage.pass", trace.WithAttributes(
		attribute.Int("transmitters", len(plan.Transmitters)),
		attribute.Int("obstacles", len(plan.Obstacles)),
	))
	defer span.End()

	start := time.Now()
	grid, box, stats, err := gr.rasterize(ctx, plan)
	if err != nil {
		if errors.Is(err, ErrGridTooLarge) {
			gr.observePass(PassAborted, time.Since(start).Seconds())
		} else {
			gr.observePass(PassSuperseded, time.Since(start).Seconds())
		}
		return nil, err
	}
	span.AddEvent("grid sampled", trace.WithAttributes(
		attribute.Int("cells_evaluated", stats.evaluated),
		attribute.Int("cells_pruned", stats.pruned),
	))

	scale := plan.ScalePxPerM
	if scale <= 0 {
		scale = 1
	}
	outW := max(1, int(math.Ceil((box.Max.X-box.Min.X)*scale)))
	outH := max(1, int(math.Ceil((box.Max.Y-box.Min.Y)*scale)))
	out := image.NewNRGBA(image.Rect(0, 0, outW, outH))
	xdraw.CatmullRom.Scale(out, out.Bounds(), grid, grid.Bounds(), xdraw.Src, nil)
	span.AddEvent("grid resampled")

	seconds := time.Since(start).Seconds()
	gr.observePass(PassComplete, seconds)
	gr.log.Debug(ctx, "coverage pass complete",
		logging.Int("cells_evaluated", stats.evaluated),
		logging.Int("cells_pruned", stats.pruned),
		logging.Int("overlay_w", outW),
		logging.Int("overlay_h", outH),
		logging.Float64("seconds", seconds),
	)
	return &Overlay{Image: out, OriginX: box.Min.X * scale, OriginY: box.Min.Y * scale}, nil
}

type passStats struct {
	evaluated int
	pruned    int
}

// rasterize runs the sampling loop at grid resolution and returns the raw
// cell buffer plus the padded world box it covers. Cells are visited in
// row-major order; that order is part of the contract so results stay
// reproducible.
func (gr *GridRasterizer) rasterize(ctx context.Context, plan SitePlan) (*image.NRGBA, r2.Box, passStats, error) {
	scale := plan.ScalePxPerM
	if scale <= 0 {
		scale = 1
	}
	stepPx := plan.StepPx
	if stepPx <= 0 {
		stepPx = 1
	}
	stepM := stepPx / scale

	limit := plan.Mode.RangeLimitM()
	pad := unboundedPaddingM
	if !math.IsInf(limit, 1) {
		pad = limit * PruneRangeFactor
	}
	box := sceneBounds(plan.Transmitters, plan.Obstacles)
	box.Min = r2.Sub(box.Min, r2.Vec{X: pad, Y: pad})
	box.Max = r2.Add(box.Max, r2.Vec{X: pad, Y: pad})

	cols := max(1, int(math.Ceil((box.Max.X-box.Min.X)/stepM)))
	rows := max(1, int(math.Ceil((box.Max.Y-box.Min.Y)/stepM)))
	if int64(cols)*int64(rows) > MaxGridCells {
		gr.log.Warn(ctx, "coverage pass aborted, grid exceeds cell ceiling",
			logging.Int("cols", cols),
			logging.Int("rows", rows),
			logging.Int("ceiling", MaxGridCells),
		)
		return nil, r2.Box{}, passStats{}, fmt.Errorf("%d x %d cells: %w", cols, rows, ErrGridTooLarge)
	}

	virtuals := SynthesizeVirtualTransmitters(plan.Transmitters, plan.Obstacles)
	gr.setSceneCounts(len(plan.Transmitters), len(plan.Obstacles), len(virtuals))

	pruneDistM := math.Inf(1)
	if !math.IsInf(limit, 1) {
		pruneDistM = limit * PruneRangeFactor
	}

	grid := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	var stats passStats
	for row := 0; row < rows; row++ {
		// Superseded passes stop between rows; the caller discards the
		// pass, so no partial buffer escapes.
		if err := ctx.Err(); err != nil {
			return nil, r2.Box{}, stats, err
		}
		y := box.Min.Y + (float64(row)+0.5)*stepM
		for col := 0; col < cols; col++ {
			p := r2.Vec{X: box.Min.X + (float64(col)+0.5)*stepM, Y: y}
			if minTransmitterDistance(p, plan.Transmitters) > pruneDistM {
				stats.pruned++
				continue
			}
			dbm := gr.sampler.TotalPowerAt(p, plan.Transmitters, virtuals, plan.Obstacles)
			grid.SetNRGBA(col, row, plan.Mode.Color(dbm))
			stats.evaluated++
		}
	}
	gr.addCells(stats.evaluated, stats.pruned)
	return grid, box, stats, nil
}

// sceneBounds returns the tight world box around every transmitter and
// obstacle, or the default viewport when the scene is empty.
func sceneBounds(transmitters []model.Transmitter, obstacles []model.Obstacle) r2.Box {
	box := r2.Box{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	empty := true
	extend := func(p r2.Vec) {
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
		empty = false
	}
	for i := range transmitters {
		extend(transmitters[i].Position)
	}
	for i := range obstacles {
		extend(obstacles[i].A)
		extend(obstacles[i].B)
	}
	if empty {
		return r2.Box{Max: r2.Vec{X: DefaultViewportM, Y: DefaultViewportM}}
	}
	return box
}

// minTransmitterDistance returns the distance from p to the closest
// transmitter, +Inf when there are none.
func minTransmitterDistance(p r2.Vec, transmitters []model.Transmitter) float64 {
	min := math.Inf(1)
	for i := range transmitters {
		if d := distance(p, transmitters[i].Position); d < min {
			min = d
		}
	}
	return min
}

func (gr *GridRasterizer) observePass(result string, seconds float64) {
	if gr.metrics != nil {
		gr.metrics.ObservePass(result, seconds)
	}
}

func (gr *GridRasterizer) addCells(evaluated, pruned int) {
	if gr.metrics != nil {
		gr.metrics.AddCells(evaluated, pruned)
	}
}

func (gr *GridRasterizer) setSceneCounts(transmitters, obstacles, virtuals int) {
	if gr.metrics != nil {
		gr.metrics.SetSceneCounts(transmitters, obstacles, virtuals)
	}
}
