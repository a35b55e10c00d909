// Package movement turns the first two derivatives of mode_score into a
// short English phrase describing how a mode was reached (§4.6).
package movement

import (
	"math"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

const (
	velocityThreshold     = 0.03
	accelerationThreshold = 0.01
	settledDwellSeconds   = 5.0
	recentTransitionWindow = 3.0
)

// Annotate computes the movement annotation for one step. velocityAbs is
// |d mode_score/dt|; nil means no derivative could be computed yet (the
// trajectory engine's warm-up phase). accel is the signed
// d²mode_score/dt². previousMode is nil if no prior mode is known.
//
// status is checked ahead of the velocity/acceleration thresholds: a mode
// that hasn't cleared provisional confidence yet has no established
// "how it got here" story worth narrating.
func Annotate(status types.ModeStatus, velocityAbs *float64, accel float64, dwellSeconds float64, previousMode *types.ModeName) string {
	if velocityAbs == nil {
		return "insufficient data"
	}
	if status == types.StatusUnknown {
		return "unknown"
	}

	var annotation string
	switch {
	case *velocityAbs < velocityThreshold:
		if dwellSeconds >= settledDwellSeconds {
			annotation = "settled"
		} else {
			annotation = "still"
		}
	case math.Abs(accel) > accelerationThreshold:
		if accel > 0 {
			annotation = "accelerating"
		} else {
			annotation = "decelerating"
		}
	default:
		annotation = "moving"
	}

	if previousMode != nil && dwellSeconds < recentTransitionWindow {
		annotation += " from " + string(*previousMode)
	}
	return annotation
}

// MovementAwareLabel composes the emitted mode name with its movement
// annotation, suppressing the parenthetical for the three annotations
// that carry no additional information about path.
func MovementAwareLabel(mode types.ModeName, annotation string) string {
	switch annotation {
	case "insufficient data", "unknown", "settled":
		return string(mode)
	default:
		return string(mode) + " (" + annotation + ")"
	}
}
