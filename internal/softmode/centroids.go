// Package softmode implements the weighted-softmax classifier over the
// six fixed autonomic mode centroids (§4.4).
package softmode

import "github.com/vagus-labs/coherence-pipeline/pkg/types"

// FeatureWeights are the per-feature weights applied to the squared
// distance in classification space, in (entrainment, breath_steady,
// amp_norm, inverse_volatility) order (§6.3).
var FeatureWeights = [4]float64{0.40, 0.30, 0.20, 0.10}

// Centroids is the build-time constant table of mode centroids (§6.3).
var Centroids = map[types.ModeName]types.Centroid4{
	types.ModeHeightenedAlertness: {0.10, 0.3, 0.20, 0.20},
	types.ModeSubtleAlertness:     {0.25, 0.3, 0.35, 0.40},
	types.ModeTransitional:        {0.40, 0.5, 0.45, 0.60},
	types.ModeSettling:            {0.55, 0.8, 0.55, 0.75},
	types.ModeEmergingCoherence:   {0.65, 1.0, 0.65, 0.85},
	types.ModeCoherentPresence:    {0.80, 1.0, 0.75, 0.95},
}

// DefaultTemperature is the softmax temperature. The spec cites a
// default of 1.0 throughout, but flags it as an open question: at
// T=1.0, upper modes barely clear their entry thresholds, and the
// reachability invariant (§8 property 6) can fail. Per the spec's own
// guidance the fix is to lower T rather than loosen entry thresholds;
// TestReachability pins this value.
const DefaultTemperature = 0.45

// Features builds the 4-vector x = (E, B, A, V') reused from the HRV
// extraction (§4.4).
func Features(entrainment float64, breathSteady bool, amplitude int, volatility float64) types.Centroid4 {
	b := 0.3
	if breathSteady {
		b = 1.0
	}
	a := amplitude
	ampNorm := float64(a) / 200
	if ampNorm > 1 {
		ampNorm = 1
	}
	vPrime := 1 - 5*volatility
	if vPrime < 0 {
		vPrime = 0
	}
	if vPrime > 1 {
		vPrime = 1
	}
	return types.Centroid4{entrainment, b, ampNorm, vPrime}
}
