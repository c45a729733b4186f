package core

import (
	"math"
	"testing"
)

func TestRSSIMonotonicInDistance(t *testing.T) {
	prev := math.Inf(1)
	for _, d := range []float64{0.2, 0.5, 1, 2, 5, 10, 50} {
		got := RSSI(20, d, 3)
		if got > prev {
			t.Errorf("RSSI(20, %v, 3) = %v, rose above %v at shorter distance", d, got, prev)
		}
		prev = got
	}
}

func TestRSSINearFieldCap(t *testing.T) {
	// At or below 0.1 m the transmit power is returned unchanged, with no
	// obstruction applied.
	if got := RSSI(17, 0.05, 33); got != 17 {
		t.Errorf("RSSI(17, 0.05, 33) = %v, want 17", got)
	}
	if got := RSSI(17, 0.1, 33); got != 17 {
		t.Errorf("RSSI(17, 0.1, 33) = %v, want 17", got)
	}
}

func TestRSSIAtOneMetre(t *testing.T) {
	// 20 - (40 + 20*log10(1)) - 0 = -20, exactly.
	if got := RSSI(20, 1, 0); got != -20 {
		t.Errorf("RSSI(20, 1, 0) = %v, want -20", got)
	}
}

func TestRSSIWithExponent(t *testing.T) {
	// n=3 at 10 m: 20 - (40 + 30*log10(10)) = -50.
	if got := RSSIWithExponent(20, 10, 0, 3); math.Abs(got+50) > 1e-9 {
		t.Errorf("RSSIWithExponent(20, 10, 0, 3) = %v, want -50", got)
	}
}

func TestCombineDbmEmpty(t *testing.T) {
	if got := CombineDbm(nil); got != FloorDbm {
		t.Errorf("CombineDbm(nil) = %v, want %v", got, FloorDbm)
	}
}

func TestCombineDbmNoiseGate(t *testing.T) {
	// A single contribution below the gate is excluded, so the sum has zero
	// milliwatts and floors.
	if got := CombineDbm([]float64{-150}); got != FloorDbm {
		t.Errorf("CombineDbm([-150]) = %v, want %v", got, FloorDbm)
	}
	if got := CombineDbm([]float64{NoiseGateDbm}); got != FloorDbm {
		t.Errorf("CombineDbm([%v]) = %v, want %v", NoiseGateDbm, got, FloorDbm)
	}
}

func TestCombineDbmSumsLinearPower(t *testing.T) {
	// Two equal sources add 3 dB, not average to the same level.
	want := -40 + 10*math.Log10(2)
	if got := CombineDbm([]float64{-40, -40}); math.Abs(got-want) > 1e-9 {
		t.Errorf("CombineDbm([-40, -40]) = %v, want %v", got, want)
	}
}

func TestCombineDbmMixedGatedAndKept(t *testing.T) {
	// The gated contribution must not perturb the surviving one.
	if got := CombineDbm([]float64{-40, -150}); math.Abs(got+40) > 1e-9 {
		t.Errorf("CombineDbm([-40, -150]) = %v, want -40", got)
	}
}

func TestDbmMwRoundTrip(t *testing.T) {
	for x := -100.0; x <= 30; x += 2.5 {
		if got := MwToDbm(DbmToMw(x)); math.Abs(got-x) > 1e-9 {
			t.Errorf("MwToDbm(DbmToMw(%v)) = %v", x, got)
		}
	}
}
