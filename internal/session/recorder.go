package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// DefaultRecentCapacity bounds how many step records a Recorder retains
// per subject for the recent-session endpoint.
const DefaultRecentCapacity = 500

// Recorder is an in-memory EmissionSink that retains the most recent
// step records per subject, keyed by session ID. It is explicitly not
// the durable append-only session log (that lives in the out-of-scope
// collaborator layer) — this is read-back for a live API surface only.
type Recorder struct {
	mu       sync.RWMutex
	logger   *zap.Logger
	capacity int
	headers  map[string]Header
	steps    map[string][]types.StepRecord
}

// NewRecorder returns an empty Recorder bounded to capacity records per
// session. A non-positive capacity falls back to DefaultRecentCapacity.
func NewRecorder(logger *zap.Logger, capacity int) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = DefaultRecentCapacity
	}
	return &Recorder{
		logger:   logger,
		capacity: capacity,
		headers:  make(map[string]Header),
		steps:    make(map[string][]types.StepRecord),
	}
}

// OnHeader registers a new session's header, implementing
// internal/pipeline.EmissionSink.
func (r *Recorder) OnHeader(h Header) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers[h.SessionID] = h
	r.steps[h.SessionID] = make([]types.StepRecord, 0, r.capacity)
	r.logger.Debug("session started", zap.String("sessionId", h.SessionID), zap.String("subjectId", h.SubjectID))
}

// OnStep appends rec to sessionID's ring, dropping the oldest entry on
// overflow, implementing internal/pipeline.EmissionSink.
func (r *Recorder) OnStep(sessionID string, rec types.StepRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	buf := append(r.steps[sessionID], rec)
	if over := len(buf) - r.capacity; over > 0 {
		buf = buf[over:]
	}
	r.steps[sessionID] = buf
}

// Recent returns a copy of the most recently retained records for
// sessionID, oldest first.
func (r *Recorder) Recent(sessionID string) []types.StepRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	buf := r.steps[sessionID]
	out := make([]types.StepRecord, len(buf))
	copy(out, buf)
	return out
}

// Header returns the header recorded for sessionID, if any.
func (r *Recorder) Header(sessionID string) (Header, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.headers[sessionID]
	return h, ok
}
