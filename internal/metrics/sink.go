package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/vagus-labs/coherence-pipeline/internal/pipeline"
	"github.com/vagus-labs/coherence-pipeline/internal/session"
	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// InstrumentedSink wraps an EmissionSink, recording registry metrics for
// every header/step that passes through before forwarding to the
// wrapped sink unchanged.
type InstrumentedSink struct {
	reg    *Registry
	next   pipeline.EmissionSink

	mu        sync.Mutex
	lastMode  map[string]string // sessionID -> last bare mode name
	subjectOf map[string]string // sessionID -> subjectID
}

// Wrap returns an InstrumentedSink that records into reg and then
// forwards every call to next.
func Wrap(reg *Registry, next pipeline.EmissionSink) *InstrumentedSink {
	return &InstrumentedSink{
		reg:       reg,
		next:      next,
		lastMode:  make(map[string]string),
		subjectOf: make(map[string]string),
	}
}

func (s *InstrumentedSink) OnHeader(h session.Header) {
	s.mu.Lock()
	s.subjectOf[h.SessionID] = h.SubjectID
	s.mu.Unlock()

	s.reg.ActiveSubjects.Inc()
	s.next.OnHeader(h)
}

func (s *InstrumentedSink) OnStep(sessionID string, rec types.StepRecord) {
	start := time.Now()

	s.mu.Lock()
	subject := s.subjectOf[sessionID]
	if subject == "" {
		subject = sessionID
	}
	mode := bareMode(rec.Phase.MovementAwareLabel)
	previous, seen := s.lastMode[sessionID]
	s.lastMode[sessionID] = mode
	s.mu.Unlock()

	s.reg.SamplesProcessed.WithLabelValues(subject).Inc()
	s.reg.CurrentModeScore.WithLabelValues(subject, mode).Set(rec.Metrics.ModeScore)
	s.reg.ClassifierAmbiguity.WithLabelValues(subject).Set(rec.Phase.SoftMode.Ambiguity)

	if seen && previous != mode {
		s.reg.ModeTransitions.WithLabelValues(subject, previous, mode).Inc()
		// Drop the stale per-mode series now that subject has moved on;
		// otherwise CurrentModeScore accumulates one frozen gauge per
		// mode a subject has ever passed through.
		s.reg.CurrentModeScore.DeleteLabelValues(subject, previous)
	}

	s.next.OnStep(sessionID, rec)

	s.reg.StepDuration.WithLabelValues(subject).Observe(time.Since(start).Seconds())
}

// RecordRupture records a rupture-oscillation detection for subject. The
// pipeline's RuptureDetected output is a secondary, polled output rather
// than part of the per-step emission, so it is recorded separately from
// OnStep.
func (s *InstrumentedSink) RecordRupture(subject string) {
	s.reg.RupturesDetected.WithLabelValues(subject).Inc()
}

// RecordAdmission records how many RR values one step's admission
// filter let through vs. dropped, per §4.5. fleet.Pool calls this after
// OnStep using the same subject ID OnStep resolved via the session
// header, since the admission count itself carries no session ID.
func (s *InstrumentedSink) RecordAdmission(subject string, admitted, dropped int) {
	if admitted > 0 {
		s.reg.SamplesAdmitted.WithLabelValues(subject).Add(float64(admitted))
	}
	if dropped > 0 {
		s.reg.SamplesDropped.WithLabelValues(subject).Add(float64(dropped))
	}
}

// bareMode strips the " (annotation)" suffix MovementAwareLabel may
// carry, leaving just the mode name.
func bareMode(label string) string {
	if i := strings.Index(label, " ("); i >= 0 {
		return label[:i]
	}
	return label
}
