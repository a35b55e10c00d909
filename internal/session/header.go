// Package session carries the per-pipeline lifetime bookkeeping that
// sits outside the signal-processing chain itself: the session-start
// header and an in-memory sink that retains recently emitted records
// for inspection (the append-only persistence layer is an external
// collaborator, out of scope).
package session

import (
	"time"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
	"github.com/vagus-labs/coherence-pipeline/pkg/utils"
)

// Header is emitted once per pipeline lifetime, before the first
// StepRecord, so a downstream reader knows which schema version and
// subject/session it is about to receive (§6.2).
type Header struct {
	SchemaVersion string    `json:"schemaVersion"`
	SessionID     string    `json:"sessionId"`
	SubjectID     string    `json:"subjectId"`
	StartedAt     time.Time `json:"startedAt"`
}

// NewHeader builds the session-start header for a freshly constructed
// pipeline.
func NewHeader(subjectID string, startedAt time.Time) Header {
	return Header{
		SchemaVersion: types.SchemaVersion,
		SessionID:     utils.GenerateSessionID(),
		SubjectID:     subjectID,
		StartedAt:     startedAt,
	}
}
