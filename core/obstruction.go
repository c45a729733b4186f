package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/signalsfoundry/coverage-engine/model"
)

// referenceThicknessM is the thickness at which material attenuation values
// are calibrated; obstacle loss scales linearly against it.
const referenceThicknessM = 0.1

// steepIncidenceCos is the |cos| threshold between the ray direction and the
// obstacle's own direction vector above which the ray runs within ~45° of
// the obstacle's line and traverses far more material; such crossings count
// double.
const steepIncidenceCos = 0.707

// ObstructionAnalyzer sums the attenuation picked up by a ray segment
// crossing the obstacle set. The interface is deliberately narrow so a
// spatial index over obstacles can replace the linear scan without touching
// callers.
type ObstructionAnalyzer interface {
	ObstructionLoss(from, to r2.Vec, obstacles []model.Obstacle) float64
}

// LinearObstructionAnalyzer tests every obstacle against the query segment.
// Adequate at current floor-plan scales.
type LinearObstructionAnalyzer struct{}

// ObstructionLoss returns the total attenuation in dB contributed by every
// obstacle strictly crossing the open segment from–to. Shared endpoints do
// not count as crossings, all crossing obstacles contribute (no early exit),
// and a clear ray returns 0.
func (LinearObstructionAnalyzer) ObstructionLoss(from, to r2.Vec, obstacles []model.Obstacle) float64 {
	ray := r2.Sub(to, from)
	total := 0.0
	for i := range obstacles {
		ob := &obstacles[i]
		if !segmentsIntersect(from, to, ob.A, ob.B) {
			continue
		}

		loss := ob.BaseAttenuationDb() * (ob.EffectiveThicknessM() / referenceThicknessM)

		// Both directions are non-degenerate here: a zero-length ray or
		// obstacle never reports an intersection.
		if math.Abs(r2.Cos(ray, r2.Sub(ob.B, ob.A))) > steepIncidenceCos {
			loss *= 2
		}
		total += loss
	}
	return total
}
