package model

import "gonum.org/v1/gonum/spatial/r2"

// MinThicknessM is the floor applied to obstacle thickness so attenuation
// scaling never degenerates to zero.
const MinThicknessM = 0.01

// Obstacle is a straight attenuating segment on the floor plan (a wall,
// window, shelf edge, ...). Obstacles are owned by the host application and
// read-only during a pass.
type Obstacle struct {
	ID string

	// A and B are the segment endpoints in world metres.
	A r2.Vec
	B r2.Vec

	// ThicknessM is the wall thickness in metres. Values below MinThicknessM
	// are clamped at use sites via EffectiveThicknessM.
	ThicknessM float64

	Material Material

	// AttenuationDb overrides the material's default attenuation at the
	// reference thickness when set. A pointer is used to distinguish unset
	// (nil) from an explicitly lossless 0 dB segment.
	AttenuationDb *float64
}

// EffectiveThicknessM returns the thickness clamped to MinThicknessM.
func (o *Obstacle) EffectiveThicknessM() float64 {
	if o.ThicknessM < MinThicknessM {
		return MinThicknessM
	}
	return o.ThicknessM
}

// BaseAttenuationDb returns the attenuation at the reference thickness: the
// explicit override when present, the material default otherwise.
func (o *Obstacle) BaseAttenuationDb() float64 {
	if o.AttenuationDb != nil {
		return *o.AttenuationDb
	}
	return o.Material.Profile().AttenuationDb
}

// ReflectionLossDb returns the loss applied to a signal bouncing off this
// obstacle, falling back to DefaultReflectionLossDb when the material does
// not specify one.
func (o *Obstacle) ReflectionLossDb() float64 {
	if loss := o.Material.Profile().ReflectionLossDb; loss != 0 {
		return loss
	}
	return DefaultReflectionLossDb
}
