package api

import (
	"github.com/vagus-labs/coherence-pipeline/internal/session"
	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// Fanout implements pipeline.EmissionSink by delegating every header and
// step to both the live WebSocket broadcaster and the bounded in-memory
// recorder backing the recent-session lookup. cmd/coherence-server wraps
// a Fanout in metrics.Wrap before handing it to fleet.NewPool, so a
// single sink reaches live subscribers, the recent-session API, and the
// Prometheus registry.
type Fanout struct {
	Hub      *Hub
	Recorder *session.Recorder
}

// NewFanout returns a Fanout over hub and recorder.
func NewFanout(hub *Hub, recorder *session.Recorder) Fanout {
	return Fanout{Hub: hub, Recorder: recorder}
}

func (f Fanout) OnHeader(h session.Header) {
	f.Hub.OnHeader(h)
	f.Recorder.OnHeader(h)
}

func (f Fanout) OnStep(sessionID string, rec types.StepRecord) {
	f.Hub.OnStep(sessionID, rec)
	f.Recorder.OnStep(sessionID, rec)
}
