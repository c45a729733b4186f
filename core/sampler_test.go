package core

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/signalsfoundry/coverage-engine/model"
)

func TestTotalPowerAtDirectOnly(t *testing.T) {
	// One transmitter, no obstacles, 1 m away: exactly -20 dBm.
	fs := NewFieldSampler()
	transmitters := []model.Transmitter{{ID: "ap1", Position: r2.Vec{X: 0, Y: 0}, PowerDbm: 20}}

	got := fs.TotalPowerAt(r2.Vec{X: 1, Y: 0}, transmitters, nil, nil)
	if math.Abs(got+20) > 1e-9 {
		t.Errorf("TotalPowerAt 1 m from 20 dBm transmitter = %v, want -20", got)
	}
}

func TestTotalPowerAtNoSources(t *testing.T) {
	fs := NewFieldSampler()
	if got := fs.TotalPowerAt(r2.Vec{}, nil, nil, nil); got != FloorDbm {
		t.Errorf("TotalPowerAt with no sources = %v, want %v", got, FloorDbm)
	}
}

func TestReflectionAddsPowerWhenMirrorRayCrossesWall(t *testing.T) {
	// Transmitter above a long wall on the x-axis, sample point further up:
	// the mirror ray from the virtual source at (0,-1) to (0,2) bounces off
	// the wall at the origin, so the reflection contributes and the combined
	// level must strictly exceed the direct-only level.
	fs := NewFieldSampler()
	transmitters := []model.Transmitter{{ID: "ap1", Position: r2.Vec{X: 0, Y: 1}, PowerDbm: 20}}
	obstacles := []model.Obstacle{{
		ID: "wall", A: r2.Vec{X: -5, Y: 0}, B: r2.Vec{X: 5, Y: 0},
		ThicknessM: 0.1, Material: model.MaterialConcrete,
	}}
	virtuals := SynthesizeVirtualTransmitters(transmitters, obstacles)
	p := r2.Vec{X: 0, Y: 2}

	directOnly := fs.TotalPowerAt(p, transmitters, nil, obstacles)
	combined := fs.TotalPowerAt(p, transmitters, virtuals, obstacles)
	if combined <= directOnly {
		t.Errorf("combined %v not above direct-only %v despite valid reflection", combined, directOnly)
	}
}

func TestReflectionRemovedBeyondWallSegment(t *testing.T) {
	// Same geometry but the wall is finite and off to the side: the mirror
	// ray crosses the wall's infinite line outside the finite segment, so
	// the virtual source is skipped entirely. The drop at the segment
	// boundary is abrupt by design.
	fs := NewFieldSampler()
	transmitters := []model.Transmitter{{ID: "ap1", Position: r2.Vec{X: 0, Y: 1}, PowerDbm: 20}}
	obstacles := []model.Obstacle{{
		ID: "wall", A: r2.Vec{X: -5, Y: 0}, B: r2.Vec{X: -1, Y: 0},
		ThicknessM: 0.1, Material: model.MaterialConcrete,
	}}
	virtuals := SynthesizeVirtualTransmitters(transmitters, obstacles)
	p := r2.Vec{X: 0, Y: 2}

	directOnly := fs.TotalPowerAt(p, transmitters, nil, obstacles)
	combined := fs.TotalPowerAt(p, transmitters, virtuals, obstacles)
	if combined != directOnly {
		t.Errorf("combined %v differs from direct-only %v although mirror ray misses the segment",
			combined, directOnly)
	}
}

func TestReflectionIgnoresObstructionBeforeBounce(t *testing.T) {
	// A blocker between the virtual source and the bounce point must not
	// attenuate the reflected path: obstruction is counted from the bounce
	// point to the sample point only.
	fs := NewFieldSampler()
	transmitters := []model.Transmitter{{ID: "ap1", Position: r2.Vec{X: 0, Y: 1}, PowerDbm: 20}}
	wall := model.Obstacle{
		ID: "wall", A: r2.Vec{X: -5, Y: 0}, B: r2.Vec{X: 5, Y: 0},
		ThicknessM: 0.1, Material: model.MaterialConcrete,
	}
	blocker := model.Obstacle{
		ID: "blocker", A: r2.Vec{X: -1, Y: -0.5}, B: r2.Vec{X: 1, Y: -0.5},
		ThicknessM: 0.1, Material: model.MaterialMetal,
	}
	p := r2.Vec{X: 0, Y: 2}

	// Hand-built virtual list so the blocker itself contributes no mirror
	// image of its own.
	virtuals := SynthesizeVirtualTransmitters(transmitters, []model.Obstacle{wall})

	withoutBlocker := fs.TotalPowerAt(p, transmitters, virtuals, []model.Obstacle{wall})
	withBlocker := fs.TotalPowerAt(p, transmitters, virtuals, []model.Obstacle{wall, blocker})
	if withBlocker != withoutBlocker {
		t.Errorf("blocker below the wall changed the result: %v vs %v", withBlocker, withoutBlocker)
	}
}

func TestReflectionObstructedAfterBounce(t *testing.T) {
	// A blocker between the bounce point and the sample point attenuates
	// only the reflected contribution; the direct path stays clear here.
	fs := NewFieldSampler()
	transmitters := []model.Transmitter{{ID: "ap1", Position: r2.Vec{X: 0, Y: 1}, PowerDbm: 20}}
	wall := model.Obstacle{
		ID: "wall", A: r2.Vec{X: -5, Y: 0}, B: r2.Vec{X: 5, Y: 0},
		ThicknessM: 0.1, Material: model.MaterialConcrete,
	}
	// Sits between y=0 and y=1, to the side of the direct path but across
	// the bounce-to-sample leg.
	blocker := model.Obstacle{
		ID: "blocker", A: r2.Vec{X: 0.5, Y: 0.5}, B: r2.Vec{X: 1.5, Y: 0.5},
		ThicknessM: 0.1, Material: model.MaterialMetal,
	}
	p := r2.Vec{X: 1.2, Y: 2}

	virtuals := SynthesizeVirtualTransmitters(transmitters, []model.Obstacle{wall})

	unblocked := fs.TotalPowerAt(p, transmitters, virtuals, []model.Obstacle{wall})
	blocked := fs.TotalPowerAt(p, transmitters, virtuals, []model.Obstacle{wall, blocker})
	if blocked >= unblocked {
		t.Errorf("blocker on the bounce-to-sample leg did not attenuate: %v vs %v", blocked, unblocked)
	}
}
