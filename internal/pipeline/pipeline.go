// Package pipeline wires the leaf engines (admission, HRV, phase lift,
// trajectory, soft mode, hysteresis, movement, emission) into the single
// per-subject chain described in §2 of the design. A Pipeline owns all of
// its own state; nothing is shared across subjects (§5).
package pipeline

import (
	"time"

	"github.com/vagus-labs/coherence-pipeline/internal/emit"
	"github.com/vagus-labs/coherence-pipeline/internal/hrv"
	"github.com/vagus-labs/coherence-pipeline/internal/hysteresis"
	"github.com/vagus-labs/coherence-pipeline/internal/movement"
	"github.com/vagus-labs/coherence-pipeline/internal/phase"
	"github.com/vagus-labs/coherence-pipeline/internal/session"
	"github.com/vagus-labs/coherence-pipeline/internal/softmode"
	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// minRRForDynamics is the RR buffer length below which Step emits the
// "warming up" phase sentinel instead of trajectory dynamics.
const minRRForDynamics = 6

// Pipeline runs the full per-sample chain for one subject. It is not
// safe for concurrent use — samples must be fed in arrival order by a
// single goroutine (§5); the fleet package runs one Pipeline per
// goroutine for the multi-subject case.
type Pipeline struct {
	subjectID string
	header    session.Header

	rrBuffer     *hrv.RRBuffer
	phaseEngine  *phase.Engine
	scoreTracker *phase.ScoreTracker
	history      *types.ModeHistory
	machine      *hysteresis.Machine

	temperature    float64
	prevMembership map[types.ModeName]float64

	lastAdmitted int
	lastDropped  int
}

// New returns a Pipeline for one subject, configured per cfg.
func New(subjectID string, cfg Config) *Pipeline {
	cfg = cfg.withDefaults()
	history := types.NewModeHistory(cfg.ModeHistoryCapacity)
	return &Pipeline{
		subjectID:    subjectID,
		header:       session.NewHeader(subjectID, time.Now()),
		rrBuffer:     hrv.NewRRBuffer(cfg.RRBufferCapacity),
		phaseEngine:  phase.NewEngine(cfg.PhaseBufferCapacity, cfg.CoherenceLag),
		scoreTracker: phase.NewScoreTracker(),
		history:      history,
		machine:      hysteresis.New(history),
		temperature:  cfg.SoftmaxTemperature,
	}
}

// SubjectID returns the subject this pipeline was created for.
func (p *Pipeline) SubjectID() string { return p.subjectID }

// Header returns this pipeline's session-start header.
func (p *Pipeline) Header() session.Header { return p.header }

// Step runs one inbound sample through the full chain and returns its
// emitted step record. The pipeline is deterministic: the output for
// sample i is a pure function of (sample_0, ..., sample_i) and the
// build-time constants (§5).
func (p *Pipeline) Step(s types.Sample) types.StepRecord {
	p.lastAdmitted, p.lastDropped = p.rrBuffer.Admit(s.RR)
	hrvRec := hrv.Extract(p.rrBuffer)

	pos := phase.Lift(hrvRec)
	var dyn types.PhaseDynamics
	if p.rrBuffer.Len() < minRRForDynamics {
		// Too few RR values for meaningful dynamics: emit the warm-up
		// sentinel without advancing the trajectory.
		dyn = types.PhaseDynamics{Position: pos, Stability: 0.5, PhaseLabel: "warming up"}
	} else {
		dyn = p.phaseEngine.Step(s.Timestamp, pos)
	}
	dyn.ModeScore = hrvRec.ModeScore

	velocityAbs, accel := p.scoreTracker.Step(s.Timestamp, hrvRec.ModeScore)
	if velocityAbs != nil {
		dyn.ModeScoreVelocity = *velocityAbs
	}
	dyn.ModeScoreAcceleration = accel

	x := softmode.Features(hrvRec.Entrainment, hrvRec.BreathSteady, hrvRec.Amplitude, hrvRec.RRVolatility)
	dist := softmode.Classify(x, p.temperature, p.prevMembership)
	p.prevMembership = dist.Membership
	dyn.SoftMode = dist

	// Movement reads hysteresis state as committed by the *previous*
	// step, before this step's own decision lands — otherwise the
	// annotation would describe a transition using the very mode it is
	// meant to be commenting on.
	preStatus := p.history.Status
	preDwell := p.history.DwellSeconds(s.Timestamp)
	var previousMode *types.ModeName
	if p.history.HasPrevious {
		m := p.history.PreviousMode
		previousMode = &m
	}
	annotation := movement.Annotate(preStatus, velocityAbs, accel, preDwell, previousMode)

	result := p.machine.Step(s.Timestamp, dist)

	dyn.ModeStatus = result.Status
	dyn.DwellTime = result.DwellTime
	dyn.MovementAnnotation = annotation
	dyn.MovementAwareLabel = movement.MovementAwareLabel(result.Mode, annotation)

	return emit.Build(s.Timestamp, s.HeartRate, s.RR, s.SensorContact, hrvRec, dyn)
}

// Rupture reports the full rupture-oscillation tuple for the mode
// history's recent tail (§4.7): whether it is flagged, the two
// alternating modes, the transition count, and the onset index. It is a
// secondary, polled output, not part of the per-step emission schema.
func (p *Pipeline) Rupture() hysteresis.RuptureInfo {
	return hysteresis.DetectRupture(p.history)
}

// RuptureDetected is a convenience wrapper over Rupture for callers that
// only need the boolean flag.
func (p *Pipeline) RuptureDetected() bool {
	return p.Rupture().Detected
}

// LastAdmission reports how many RR values the most recent Step call
// admitted vs. dropped at the physiological filter (§4.5). Both are
// zero before the first Step call.
func (p *Pipeline) LastAdmission() (admitted, dropped int) {
	return p.lastAdmitted, p.lastDropped
}

// History exposes the underlying mode history read-only, for callers
// that want to report the rupture pattern's modes/onset alongside
// RuptureDetected.
func (p *Pipeline) History() *types.ModeHistory {
	return p.history
}
