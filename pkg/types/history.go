package types

import "time"

// ModeHistoryEntry is one committed step in a mode history.
type ModeHistoryEntry struct {
	Timestamp  time.Time
	Mode       ModeName
	Confidence float64
}

// ModeHistory is the single per-pipeline record of committed modes. It
// is mutated exactly once per step, after the hysteresis state machine
// has chosen a final mode — see internal/hysteresis.
//
// Invariant: CurrentMode always equals Entries[len(Entries)-1].Mode once
// at least one entry has been committed. TransitionCount increments iff
// a committed mode differs from the previous CurrentMode.
type ModeHistory struct {
	MaxEntries int
	Entries    []ModeHistoryEntry

	HasCurrent      bool
	CurrentMode     ModeName
	PreviousMode    ModeName
	HasPrevious     bool
	ModeEnteredAt   time.Time
	TransitionCount int
	Status          ModeStatus
}

// NewModeHistory returns an empty history bounded to maxEntries.
func NewModeHistory(maxEntries int) *ModeHistory {
	if maxEntries <= 0 {
		maxEntries = 10
	}
	return &ModeHistory{MaxEntries: maxEntries, Status: StatusUnknown}
}

// Commit appends mode as the new current mode at timestamp ts with the
// given confidence, updating dwell/transition bookkeeping. It must be
// called exactly once per pipeline step.
func (h *ModeHistory) Commit(ts time.Time, mode ModeName, confidence float64, status ModeStatus) {
	if h.HasCurrent && mode != h.CurrentMode {
		h.TransitionCount++
		h.PreviousMode = h.CurrentMode
		h.HasPrevious = true
		h.ModeEnteredAt = ts
	} else if !h.HasCurrent {
		h.ModeEnteredAt = ts
	}

	h.CurrentMode = mode
	h.HasCurrent = true
	h.Status = status

	h.Entries = append(h.Entries, ModeHistoryEntry{Timestamp: ts, Mode: mode, Confidence: confidence})
	if len(h.Entries) > h.MaxEntries {
		h.Entries = h.Entries[len(h.Entries)-h.MaxEntries:]
	}
}

// DwellSeconds returns how long the current mode has been held as of ts.
func (h *ModeHistory) DwellSeconds(ts time.Time) float64 {
	if !h.HasCurrent {
		return 0
	}
	d := ts.Sub(h.ModeEnteredAt).Seconds()
	if d < 0 {
		return 0
	}
	return d
}
