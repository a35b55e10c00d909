package hysteresis

import "github.com/vagus-labs/coherence-pipeline/pkg/types"

// RuptureWindow is the number of most recent committed entries inspected
// for oscillation (§4.7).
const RuptureWindow = 10

// RuptureMinTransitions is the minimum count of mode changes within the
// window required to call it a rupture.
const RuptureMinTransitions = 4

// RuptureInfo is the full tuple spec.md §4.7 requires on a detected
// rupture: the two alternating modes, how many transitions the window
// contained, and the absolute index into history.Entries where the
// oscillation began. Detected is false (and the rest zero) when no
// rupture is present.
type RuptureInfo struct {
	Detected        bool
	Modes           [2]types.ModeName
	TransitionCount int
	OnsetIndex      int
}

// DetectRupture reports whether the tail of history shows rupture
// oscillation: at least RuptureMinTransitions mode changes within the
// last RuptureWindow entries, alternating between exactly two distinct
// modes. OnsetIndex points at the entry that began the earliest
// transition contributing to the run.
func DetectRupture(history *types.ModeHistory) RuptureInfo {
	entries := history.Entries
	windowStart := 0
	if len(entries) > RuptureWindow {
		windowStart = len(entries) - RuptureWindow
	}
	window := entries[windowStart:]
	if len(window) < 2 {
		return RuptureInfo{}
	}

	distinct := map[types.ModeName]bool{}
	transitions := 0
	onset := -1
	for i := 1; i < len(window); i++ {
		distinct[window[i-1].Mode] = true
		distinct[window[i].Mode] = true
		if window[i].Mode != window[i-1].Mode {
			transitions++
			if onset == -1 {
				onset = windowStart + i - 1
			}
		}
	}

	if transitions < RuptureMinTransitions || len(distinct) != 2 {
		return RuptureInfo{}
	}

	var modes [2]types.ModeName
	modes[0] = window[0].Mode
	for _, e := range window {
		if e.Mode != modes[0] {
			modes[1] = e.Mode
			break
		}
	}

	return RuptureInfo{
		Detected:        true,
		Modes:           modes,
		TransitionCount: transitions,
		OnsetIndex:      onset,
	}
}
