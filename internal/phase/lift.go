// Package phase lifts HRV features into a three-dimensional phase
// manifold and computes trajectory dynamics through it.
package phase

import (
	"math"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// Lift maps an HRVRecord to a point in the unit cube
// (entrainment, breath_norm, amplitude_norm), per §4.2.
func Lift(rec types.HRVRecord) types.Position3 {
	ent := rec.Entrainment

	breath := 0.5
	if rec.BreathRate != nil {
		breath = clamp((*rec.BreathRate-4)/16, 0, 1)
	}

	amp := math.Min(1, float64(rec.Amplitude)/200)

	return types.Position3{ent, breath, amp}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
