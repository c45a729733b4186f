package model

// ColorThresholds holds the five dBm breakpoints used by threshold-based
// colour mapping, red strongest/nearest through blue weakest/cutoff.
//
// The values are deliberately not validated: a non-monotonic set produces an
// inverted or collapsed gradient rather than an error. That degraded output
// is the documented contract for malformed manual thresholds.
type ColorThresholds struct {
	RedDbm    float64
	OrangeDbm float64
	YellowDbm float64
	GreenDbm  float64
	BlueDbm   float64
}

// DefaultThresholds is the preset used by the standard colour mode.
var DefaultThresholds = ColorThresholds{
	RedDbm:    -40,
	OrangeDbm: -55,
	YellowDbm: -65,
	GreenDbm:  -75,
	BlueDbm:   -85,
}
