package core

import "math"

// referenceLossDb is the calibrated path loss at 1 m for the supported
// frequency band. Together with the path-loss exponent it fixes the
// log-distance decay curve.
const referenceLossDb = 40.0

// DefaultPathLossExponent governs how fast power decays with distance. 2.0
// corresponds to free-space propagation; indoor clutter beyond the explicit
// obstacle set is not modelled here.
const DefaultPathLossExponent = 2.0

// nearFieldM is the distance below which the model stops applying path loss
// and reports the transmit power unchanged.
const nearFieldM = 0.1

// NoiseGateDbm is the level at or below which individual contributions are
// excluded from summation, avoiding precision artifacts near the floor.
const NoiseGateDbm = -100.0

// FloorDbm is reported when no contribution survives the noise gate.
const FloorDbm = -120.0

// RSSI returns the received signal strength in dBm for a transmitter at
// txPowerDbm seen over distanceM metres through obstacleLossDb of
// obstruction, using the default path-loss exponent.
//
// Total for distanceM >= 0; callers are responsible for non-negative
// distances.
func RSSI(txPowerDbm, distanceM, obstacleLossDb float64) float64 {
	return RSSIWithExponent(txPowerDbm, distanceM, obstacleLossDb, DefaultPathLossExponent)
}

// RSSIWithExponent is RSSI with an explicit path-loss exponent for tuning.
// Distances at or below the near-field cap return the transmit power
// unchanged, with no obstruction applied.
func RSSIWithExponent(txPowerDbm, distanceM, obstacleLossDb, pathLossExponent float64) float64 {
	if distanceM <= nearFieldM {
		return txPowerDbm
	}
	pathLoss := referenceLossDb + 10*pathLossExponent*math.Log10(distanceM)
	return txPowerDbm - pathLoss - obstacleLossDb
}

// DbmToMw converts a dBm level to linear milliwatts.
func DbmToMw(dbm float64) float64 {
	return math.Pow(10, dbm/10)
}

// MwToDbm converts linear milliwatts to dBm.
func MwToDbm(mw float64) float64 {
	return 10 * math.Log10(mw)
}

// CombineDbm sums signal contributions non-coherently: each surviving dBm
// value is converted to milliwatts and the linear powers are added. dBm
// values are never averaged. Contributions at or below NoiseGateDbm are
// discarded first; if nothing survives, the result floors to FloorDbm.
func CombineDbm(contributions []float64) float64 {
	sumMw := 0.0
	for _, dbm := range contributions {
		if dbm <= NoiseGateDbm {
			continue
		}
		sumMw += DbmToMw(dbm)
	}
	if sumMw == 0 {
		return FloorDbm
	}
	return MwToDbm(sumMw)
}
