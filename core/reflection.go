package core

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/signalsfoundry/coverage-engine/model"
)

// VirtualTransmitter is the mirror image of a real transmitter across one
// obstacle's line. The image method approximates a single specular
// reflection by treating the mirror image as an independent source whose
// rays pass through the reflecting wall.
//
// Virtual transmitters are derived per pass and never persisted.
type VirtualTransmitter struct {
	// Position is the mirror-image position in world metres.
	Position r2.Vec

	// PowerDbm is the original transmitter's power.
	PowerDbm float64

	// Obstacle indexes the generating obstacle in the pass's obstacle slice.
	Obstacle int

	// ReflectionLossDb is the bounce loss from the obstacle's material.
	ReflectionLossDb float64
}

// SynthesizeVirtualTransmitters mirrors every transmitter across every
// obstacle, producing |transmitters| × |obstacles| virtual sources. The
// result depends only on the transmitter and obstacle sets, so one
// synthesis is amortized across the whole grid rather than per cell.
func SynthesizeVirtualTransmitters(transmitters []model.Transmitter, obstacles []model.Obstacle) []VirtualTransmitter {
	virtuals := make([]VirtualTransmitter, 0, len(transmitters)*len(obstacles))
	for t := range transmitters {
		tx := &transmitters[t]
		for i := range obstacles {
			ob := &obstacles[i]
			virtuals = append(virtuals, VirtualTransmitter{
				Position:         mirrorAcross(tx.Position, ob.A, ob.B),
				PowerDbm:         tx.PowerDbm,
				Obstacle:         i,
				ReflectionLossDb: ob.ReflectionLossDb(),
			})
		}
	}
	return virtuals
}
