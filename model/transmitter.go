package model

import "gonum.org/v1/gonum/spatial/r2"

// Transmitter is a radio source placed on the floor plan. Transmitters are
// owned by the host application and may be mutated there; the engine treats
// them as read-only for the duration of one rasterization pass.
type Transmitter struct {
	ID string

	// Position is in world metres.
	Position r2.Vec

	// PowerDbm is the transmit power in dBm.
	PowerDbm float64
}
