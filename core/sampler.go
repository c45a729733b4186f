package core

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/signalsfoundry/coverage-engine/model"
)

// FieldSampler evaluates the combined received power at single points. It is
// pure and deterministic: identical inputs yield identical output, at
// O(|transmitters| + |transmitters|·|obstacles|) cost per point.
type FieldSampler struct {
	Obstruction ObstructionAnalyzer
}

// NewFieldSampler returns a sampler backed by the linear obstruction scan.
func NewFieldSampler() *FieldSampler {
	return &FieldSampler{Obstruction: LinearObstructionAnalyzer{}}
}

// TotalPowerAt combines the direct signal from every transmitter with every
// valid single-bounce reflection at point p, summing non-coherently in the
// linear domain via CombineDbm.
//
// A reflected contribution is valid only when the straight segment from the
// virtual source to p crosses the generating obstacle's finite segment: that
// is the geometric test that the ray actually bounces off that wall.
// Invalid virtual sources are skipped entirely. Obstruction on a reflected
// path is counted from the bounce point to p only, never before the bounce.
func (fs *FieldSampler) TotalPowerAt(p r2.Vec, transmitters []model.Transmitter, virtuals []VirtualTransmitter, obstacles []model.Obstacle) float64 {
	contributions := make([]float64, 0, len(transmitters)+len(virtuals))

	for i := range transmitters {
		tx := &transmitters[i]
		loss := fs.Obstruction.ObstructionLoss(tx.Position, p, obstacles)
		contributions = append(contributions, RSSI(tx.PowerDbm, distance(tx.Position, p), loss))
	}

	for i := range virtuals {
		vt := &virtuals[i]
		ob := &obstacles[vt.Obstacle]
		bounce, ok := segmentCrossing(vt.Position, p, ob.A, ob.B)
		if !ok {
			continue
		}
		rssi := RSSI(vt.PowerDbm, distance(vt.Position, p), 0) -
			vt.ReflectionLossDb -
			fs.Obstruction.ObstructionLoss(bounce, p, obstacles)
		contributions = append(contributions, rssi)
	}

	return CombineDbm(contributions)
}
