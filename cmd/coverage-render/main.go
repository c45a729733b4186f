package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"net/http"
	"os"

	"github.com/signalsfoundry/coverage-engine/core"
	"github.com/signalsfoundry/coverage-engine/internal/logging"
	"github.com/signalsfoundry/coverage-engine/internal/observability"
)

func main() {
	planPath := flag.String("plan", "configs/site_plan.json", "JSON site plan to render")
	outPath := flag.String("out", "coverage.png", "output PNG path")
	metricsAddr := flag.String("metrics-addr", "", "optional address for a /metrics listener, e.g. :9090")
	flag.Parse()

	ctx := context.Background()
	log := logging.NewFromEnv()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewCoverageCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics listener stopped", logging.String("error", err.Error()))
			}
		}()
	}

	f, err := os.Open(*planPath)
	if err != nil {
		log.Error(ctx, "failed to open site plan",
			logging.String("path", *planPath),
			logging.String("error", err.Error()))
		os.Exit(1)
	}
	plan, err := core.LoadSitePlan(f)
	f.Close()
	if err != nil {
		log.Error(ctx, "failed to load site plan", logging.String("error", err.Error()))
		os.Exit(1)
	}

	rasterizer := core.NewGridRasterizer(
		core.WithLogger(log),
		core.WithMetrics(collector),
	)

	ctx, log = logging.WithPassLogger(ctx, log)
	overlay, err := rasterizer.Render(ctx, *plan)
	if err != nil {
		log.Error(ctx, "coverage pass failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Error(ctx, "failed to create output file", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if err := png.Encode(out, overlay.Image); err != nil {
		out.Close()
		log.Error(ctx, "failed to encode PNG", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		log.Error(ctx, "failed to close output file", logging.String("error", err.Error()))
		os.Exit(1)
	}

	bounds := overlay.Image.Bounds()
	fmt.Printf("Rendered %d transmitters, %d obstacles -> %s (%dx%d at %.0f,%.0f)\n",
		len(plan.Transmitters), len(plan.Obstacles), *outPath,
		bounds.Dx(), bounds.Dy(), overlay.OriginX, overlay.OriginY)
}
