package hysteresis

import (
	"time"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// Result is the state machine's decision for one step, prior to commit.
type Result struct {
	Mode       types.ModeName
	Confidence float64
	Status     types.ModeStatus
	Transition types.TransitionType
	DwellTime  float64
}

// Machine runs the hysteretic mode decision table (§4.5) against a
// ModeHistory, committing its decision exactly once per Step call.
type Machine struct {
	history *types.ModeHistory
}

// New returns a Machine that reads and commits into history.
func New(history *types.ModeHistory) *Machine {
	return &Machine{history: history}
}

// Step folds the soft mode distribution for this sample into the
// hysteresis state machine, committing the resulting mode to the
// underlying ModeHistory before returning.
func (m *Machine) Step(ts time.Time, dist types.SoftModeDistribution) Result {
	proposed := dist.Primary
	raw := dist.Membership[proposed]
	cfgProp := Configs[proposed]

	var res Result

	switch {
	case !m.history.HasCurrent:
		res = m.enterOrWait(proposed, raw, cfgProp)

	case proposed == m.history.CurrentMode:
		res = m.sameMode(ts, proposed, raw, cfgProp)

	default:
		current := m.history.CurrentMode
		cfgCurr := Configs[current]
		switch m.history.Status {
		case types.StatusEstablished:
			res = m.challengeEstablished(dist, current, proposed, raw, cfgCurr, cfgProp)
		default: // provisional or unknown
			res = m.challengeUnsettled(dist, current, proposed, raw, cfgProp)
		}
	}

	res.DwellTime = m.history.DwellSeconds(ts)
	m.history.Commit(ts, res.Mode, res.Confidence, res.Status)
	return res
}

// enterOrWait handles "no current mode": either a confident entry, or an
// unknown-status "transitional" placeholder while evidence accumulates.
func (m *Machine) enterOrWait(proposed types.ModeName, raw float64, cfgProp types.HysteresisConfig) Result {
	if raw >= cfgProp.EntryThreshold {
		return Result{Mode: proposed, Confidence: raw * cfgProp.EntryPenalty, Status: types.StatusProvisional, Transition: types.TransitionEntry}
	}
	return Result{Mode: types.ModeTransitional, Confidence: 0.3, Status: types.StatusUnknown, Transition: types.TransitionNone}
}

// sameMode handles the proposed == current cases: provisional promotion,
// established confidence refresh, and the unknown-status catch-up entry.
func (m *Machine) sameMode(ts time.Time, current types.ModeName, raw float64, cfgProp types.HysteresisConfig) Result {
	dwell := m.history.DwellSeconds(ts)

	switch m.history.Status {
	case types.StatusProvisional:
		if dwell >= cfgProp.ProvisionalSeconds {
			return Result{Mode: current, Confidence: raw, Status: types.StatusEstablished, Transition: types.TransitionHold}
		}
		return Result{Mode: current, Confidence: raw, Status: types.StatusProvisional, Transition: types.TransitionHold}

	case types.StatusEstablished:
		confidence := raw
		if dwell >= cfgProp.EstablishedSeconds {
			confidence = raw * cfgProp.SettledBonus
			if confidence > 1 {
				confidence = 1
			}
		}
		return Result{Mode: current, Confidence: confidence, Status: types.StatusEstablished, Transition: types.TransitionHold}

	default: // unknown: current mode was only ever a transitional placeholder
		if raw >= cfgProp.EntryThreshold {
			return Result{Mode: current, Confidence: raw * cfgProp.EntryPenalty, Status: types.StatusProvisional, Transition: types.TransitionEntry}
		}
		return Result{Mode: current, Confidence: 0.3, Status: types.StatusUnknown, Transition: types.TransitionNone}
	}
}

// challengeEstablished handles proposed != current while current is
// established: exit resistance below the exit threshold, exit above it.
func (m *Machine) challengeEstablished(dist types.SoftModeDistribution, current, proposed types.ModeName, raw float64, cfgCurr, cfgProp types.HysteresisConfig) Result {
	if raw < cfgCurr.ExitThreshold {
		return Result{Mode: current, Confidence: cfgCurr.ExitThreshold * 0.9, Status: types.StatusEstablished, Transition: types.TransitionNone}
	}
	return Result{Mode: proposed, Confidence: raw * cfgProp.EntryPenalty, Status: types.StatusProvisional, Transition: types.TransitionExit}
}

// challengeUnsettled handles proposed != current while current is only
// provisional or unknown: the challenger needs only its own entry
// threshold to switch; otherwise the current mode is held.
func (m *Machine) challengeUnsettled(dist types.SoftModeDistribution, current, proposed types.ModeName, raw float64, cfgProp types.HysteresisConfig) Result {
	if raw >= cfgProp.EntryThreshold {
		return Result{Mode: proposed, Confidence: raw * cfgProp.EntryPenalty, Status: types.StatusProvisional, Transition: types.TransitionEntry}
	}
	return Result{Mode: current, Confidence: dist.Membership[current], Status: m.history.Status, Transition: types.TransitionNone}
}
