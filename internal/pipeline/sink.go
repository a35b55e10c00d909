package pipeline

import (
	"github.com/vagus-labs/coherence-pipeline/internal/session"
	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// InputSink accepts inbound samples from whatever transport is feeding a
// pipeline (the BLE sensor layer in production, a replay file in tests,
// a fleet's per-subject demux in the dyadic case). It is narrow by
// design so any of those can implement it without pulling in the rest
// of the pipeline's dependencies.
type InputSink interface {
	Submit(types.Sample)
}

// EmissionSink receives a pipeline's session header once, then every
// step record it emits thereafter.
type EmissionSink interface {
	OnHeader(session.Header)
	OnStep(sessionID string, rec types.StepRecord)
}

// RuptureRecorder is an optional capability an EmissionSink can also
// implement to be told about rupture-oscillation detections (§4.7). It
// is checked for via a type assertion rather than folded into
// EmissionSink itself, since rupture status is a secondary, polled
// pipeline output rather than part of the per-step emission.
type RuptureRecorder interface {
	RecordRupture(subject string)
}

// AdmissionRecorder is an optional capability an EmissionSink can also
// implement to be told how many RR values a step's admission filter let
// through vs. dropped (§4.5), for the same reason RuptureRecorder is
// kept separate from EmissionSink.
type AdmissionRecorder interface {
	RecordAdmission(subject string, admitted, dropped int)
}
