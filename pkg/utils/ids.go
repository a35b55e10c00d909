// Package utils provides small helpers shared across the coherence
// pipeline: identifier generation and fixed-precision rounding.
package utils

import "github.com/google/uuid"

// GenerateSessionID returns a fresh session identifier.
func GenerateSessionID() string {
	return "sess_" + uuid.NewString()
}

// GenerateSubjectID returns a fresh subject identifier, used when the
// caller doesn't supply one of its own (e.g. ad-hoc single-subject runs).
func GenerateSubjectID() string {
	return "subj_" + uuid.NewString()
}
