package hysteresis

import (
	"testing"
	"time"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

func dist(primary, secondary types.ModeName, primaryWeight float64) types.SoftModeDistribution {
	membership := map[types.ModeName]float64{}
	for _, m := range types.Modes {
		membership[m] = (1 - primaryWeight) / 5
	}
	membership[primary] = primaryWeight
	return types.SoftModeDistribution{Membership: membership, Primary: primary, Secondary: secondary, Ambiguity: 1 - primaryWeight}
}

// TestEntryThenPromotion exercises the no-current-mode entry followed by
// provisional-to-established promotion once dwell clears the threshold.
func TestEntryThenPromotion(t *testing.T) {
	history := types.NewModeHistory(20)
	m := New(history)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	r := m.Step(base, dist(types.ModeCoherentPresence, types.ModeEmergingCoherence, 0.5))
	if r.Mode != types.ModeCoherentPresence || r.Status != types.StatusProvisional {
		t.Fatalf("expected provisional entry into coherent presence, got %+v", r)
	}

	// Still within provisional dwell: status should not yet promote.
	r = m.Step(base.Add(2*time.Second), dist(types.ModeCoherentPresence, types.ModeEmergingCoherence, 0.5))
	if r.Status != types.StatusProvisional {
		t.Fatalf("expected still provisional before dwell threshold, got %+v", r)
	}

	// Past coherent presence's ProvisionalSeconds (5s).
	r = m.Step(base.Add(6*time.Second), dist(types.ModeCoherentPresence, types.ModeEmergingCoherence, 0.5))
	if r.Status != types.StatusEstablished {
		t.Fatalf("expected promotion to established after dwell, got %+v", r)
	}
}

// TestExitResistance verifies hysteresis asymmetry: an established mode
// resists a challenger whose raw membership clears the challenger's own
// entry threshold but not the current mode's (higher) exit threshold
// (§8 property 7).
func TestExitResistance(t *testing.T) {
	history := types.NewModeHistory(20)
	history.Commit(time.Unix(0, 0), types.ModeCoherentPresence, 0.9, types.StatusEstablished)
	m := New(history)

	challenge := dist(types.ModeEmergingCoherence, types.ModeCoherentPresence, 0.25)
	r := m.Step(time.Unix(1, 0), challenge)

	if r.Mode != types.ModeCoherentPresence {
		t.Fatalf("expected exit resistance to hold coherent presence, got mode %v", r.Mode)
	}
}

// TestExitAboveThreshold verifies that a challenger clearing the current
// mode's exit threshold does cause an exit+entry transition.
func TestExitAboveThreshold(t *testing.T) {
	history := types.NewModeHistory(20)
	history.Commit(time.Unix(0, 0), types.ModeCoherentPresence, 0.9, types.StatusEstablished)
	m := New(history)

	challenge := dist(types.ModeEmergingCoherence, types.ModeCoherentPresence, 0.9)
	r := m.Step(time.Unix(1, 0), challenge)

	if r.Mode != types.ModeEmergingCoherence || r.Transition != types.TransitionExit {
		t.Fatalf("expected exit into emerging coherence, got %+v", r)
	}
}

// TestTransitionCounting checks that TransitionCount increments once per
// actual mode change and not on confidence-only updates (§8 property 8).
func TestTransitionCounting(t *testing.T) {
	history := types.NewModeHistory(20)
	m := New(history)
	base := time.Unix(0, 0)

	m.Step(base, dist(types.ModeSettling, types.ModeTransitional, 0.5))
	m.Step(base.Add(time.Second), dist(types.ModeSettling, types.ModeTransitional, 0.6))
	if history.TransitionCount != 0 {
		t.Fatalf("expected no transitions while mode is unchanged, got %d", history.TransitionCount)
	}

	m.Step(base.Add(2*time.Second), dist(types.ModeHeightenedAlertness, types.ModeSubtleAlertness, 0.9))
	if history.TransitionCount != 1 {
		t.Fatalf("expected exactly one transition, got %d", history.TransitionCount)
	}
}

// TestRuptureDetection feeds an alternating two-mode sequence and checks
// that it is flagged, with the full §4.7 tuple, once enough transitions
// accumulate in the window.
func TestRuptureDetection(t *testing.T) {
	history := types.NewModeHistory(20)
	base := time.Unix(0, 0)
	a, b := types.ModeSettling, types.ModeTransitional

	if info := DetectRupture(history); info.Detected {
		t.Fatal("empty history must not be a rupture")
	}

	for i := 0; i < 6; i++ {
		mode := a
		if i%2 == 1 {
			mode = b
		}
		history.Commit(base.Add(time.Duration(i)*time.Second), mode, 0.5, types.StatusProvisional)
	}

	info := DetectRupture(history)
	if !info.Detected {
		t.Fatal("expected alternating 2-mode sequence to be flagged as rupture")
	}
	if info.TransitionCount < RuptureMinTransitions {
		t.Fatalf("transition_count = %d, want >= %d", info.TransitionCount, RuptureMinTransitions)
	}
	if info.Modes[0] == info.Modes[1] {
		t.Fatalf("expected two distinct alternating modes, got %v twice", info.Modes[0])
	}
	if (info.Modes != [2]types.ModeName{a, b}) && (info.Modes != [2]types.ModeName{b, a}) {
		t.Fatalf("modes = %v, want {%v, %v} in either order", info.Modes, a, b)
	}
	if info.OnsetIndex != 0 {
		t.Fatalf("onset_index = %d, want 0 (oscillation starts at the first entry)", info.OnsetIndex)
	}
}

// TestNoRuptureWithThreeModes checks that alternation across three
// distinct modes is not classified as a rupture, even with many
// transitions.
func TestNoRuptureWithThreeModes(t *testing.T) {
	history := types.NewModeHistory(20)
	base := time.Unix(0, 0)
	modes := []types.ModeName{types.ModeSettling, types.ModeTransitional, types.ModeSubtleAlertness}

	for i := 0; i < 9; i++ {
		history.Commit(base.Add(time.Duration(i)*time.Second), modes[i%3], 0.5, types.StatusProvisional)
	}

	if info := DetectRupture(history); info.Detected {
		t.Fatalf("three distinct alternating modes must not be flagged as a 2-mode rupture, got %+v", info)
	}
}
