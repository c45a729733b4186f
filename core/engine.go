package core

import (
	"context"
	"errors"
	"sync"

	"github.com/signalsfoundry/coverage-engine/internal/logging"
)

// CoverageEngine owns rasterization passes for a host application. Render is
// the synchronous core; Submit runs passes on their own goroutine with
// latest-request-wins semantics. Consumers only ever observe either the
// previous completed overlay or a new fully-completed one, never a
// half-written buffer.
type CoverageEngine struct {
	rasterizer *GridRasterizer
	log        logging.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	latest     *Overlay

	wg sync.WaitGroup
}

// NewCoverageEngine wraps a rasterizer; a nil logger is replaced by a noop.
func NewCoverageEngine(rasterizer *GridRasterizer, log logging.Logger) *CoverageEngine {
	if log == nil {
		log = logging.Noop()
	}
	return &CoverageEngine{rasterizer: rasterizer, log: log}
}

// Render runs one blocking pass without touching the published overlay.
func (e *CoverageEngine) Render(ctx context.Context, plan SitePlan) (*Overlay, error) {
	return e.rasterizer.Render(ctx, plan)
}

// Submit starts a pass for the plan on its own goroutine. Any in-flight pass
// is superseded: its context is cancelled and its result, even if it still
// completes, is discarded by generation check. Only a pass that is still the
// newest when it finishes publishes its overlay.
func (e *CoverageEngine) Submit(ctx context.Context, plan SitePlan) {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.generation++
	gen := e.generation
	passCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()

	ctx, log := logging.WithPassLogger(passCtx, e.log)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()

		overlay, err := e.rasterizer.Render(ctx, plan)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Debug(ctx, "coverage pass superseded")
			} else {
				log.Warn(ctx, "coverage pass failed", logging.String("error", err.Error()))
			}
			return
		}

		e.mu.Lock()
		if gen == e.generation {
			e.latest = overlay
		}
		e.mu.Unlock()
	}()
}

// Latest returns the newest completed overlay, if any has been published.
func (e *CoverageEngine) Latest() (*Overlay, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest, e.latest != nil
}

// Invalidate discards the published overlay, e.g. after an aborted pass left
// it stale.
func (e *CoverageEngine) Invalidate() {
	e.mu.Lock()
	e.latest = nil
	e.mu.Unlock()
}

// Wait blocks until every submitted pass goroutine has finished. Intended
// for shutdown and tests.
func (e *CoverageEngine) Wait() {
	e.wg.Wait()
}
