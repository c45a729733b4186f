package core

import (
	"image/color"
	"math"

	"github.com/signalsfoundry/coverage-engine/model"
)

// overlayAlpha is the fixed opacity of every rendered coverage pixel.
const overlayAlpha = 150

// DefaultCoverageRangeM bounds how far from a transmitter threshold-based
// modes bother rendering, when no explicit limit is configured.
const DefaultCoverageRangeM = 30.0

// ColorMode maps sampled dBm values to pixels. The set of modes is closed
// and each variant carries exactly the data it needs, so "manual mode
// selected but thresholds missing" is representable only as DisabledMode and
// never needs a runtime check.
type ColorMode interface {
	// Color maps a sampled dBm value to a pixel. Pure, total, no side
	// effects; a zero NRGBA means fully transparent.
	Color(dbm float64) color.NRGBA

	// RangeLimitM reports how far from a transmitter this mode still
	// renders anything, in metres. +Inf means unlimited (no pruning).
	RangeLimitM() float64
}

// TestMode renders a fixed gradient for calibration work: dBm below -95 is
// transparent, and [-90,-30] maps onto the blue→red gradient with no range
// limit.
type TestMode struct{}

func (TestMode) Color(dbm float64) color.NRGBA {
	if dbm < -95 {
		return color.NRGBA{}
	}
	t := (dbm + 90) / 60
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return gradientAt(t)
}

func (TestMode) RangeLimitM() float64 { return math.Inf(1) }

// ThresholdMode renders a gradient across five explicit dBm breakpoints. It
// serves both the standard preset (model.DefaultThresholds) and manual
// thresholds supplied by the user.
type ThresholdMode struct {
	Thresholds model.ColorThresholds

	// MaxRangeM overrides DefaultCoverageRangeM when positive.
	MaxRangeM float64
}

func (m ThresholdMode) Color(dbm float64) color.NRGBA {
	th := m.Thresholds
	switch {
	case dbm >= th.RedDbm:
		return gradientStops[4]
	case dbm < th.BlueDbm:
		return color.NRGBA{}
	case dbm >= th.OrangeDbm:
		return lerpColor(gradientStops[3], gradientStops[4], bandFraction(dbm, th.OrangeDbm, th.RedDbm))
	case dbm >= th.YellowDbm:
		return lerpColor(gradientStops[2], gradientStops[3], bandFraction(dbm, th.YellowDbm, th.OrangeDbm))
	case dbm >= th.GreenDbm:
		return lerpColor(gradientStops[1], gradientStops[2], bandFraction(dbm, th.GreenDbm, th.YellowDbm))
	default:
		return lerpColor(gradientStops[0], gradientStops[1], bandFraction(dbm, th.BlueDbm, th.GreenDbm))
	}
}

func (m ThresholdMode) RangeLimitM() float64 {
	if m.MaxRangeM > 0 {
		return m.MaxRangeM
	}
	return DefaultCoverageRangeM
}

// DisabledMode renders nothing. It stands in for manual mode before the user
// has supplied threshold values.
type DisabledMode struct{}

func (DisabledMode) Color(float64) color.NRGBA { return color.NRGBA{} }

func (DisabledMode) RangeLimitM() float64 { return 0 }

// gradientStops are the weak-to-strong anchor colours: blue, green, yellow,
// orange, red.
var gradientStops = [5]color.NRGBA{
	{B: 255, A: overlayAlpha},
	{G: 255, A: overlayAlpha},
	{R: 255, G: 255, A: overlayAlpha},
	{R: 255, G: 165, A: overlayAlpha},
	{R: 255, A: overlayAlpha},
}

// gradientAt interpolates across the four equal quartiles of the stop list
// for t in [0,1].
func gradientAt(t float64) color.NRGBA {
	seg := t * 4
	i := int(seg)
	if i >= 4 {
		return gradientStops[4]
	}
	return lerpColor(gradientStops[i], gradientStops[i+1], seg-float64(i))
}

// bandFraction places dbm within [lo,hi], clamped. A zero-width band maps
// to 0 so inverted or collapsed thresholds degrade instead of dividing by
// zero.
func bandFraction(dbm, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	f := (dbm - lo) / (hi - lo)
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return f
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
		A: overlayAlpha,
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
