package phase

import "time"

// scoreSample is one (timestamp, mode_score) pair retained by ScoreTracker.
type scoreSample struct {
	timestamp time.Time
	score     float64
}

// ScoreTracker computes the first two derivatives of the scalar
// mode_score series feeding the movement annotator (§4.6), using the
// same floored finite-difference approach as the position trajectory
// (§4.3). It keeps only the last three samples; nothing downstream needs
// more history than that.
type ScoreTracker struct {
	samples []scoreSample
}

// NewScoreTracker returns an empty tracker.
func NewScoreTracker() *ScoreTracker {
	return &ScoreTracker{}
}

// Step folds in the mode_score for this timestamp and returns its
// derivatives. velocityAbs is nil until at least three samples (current
// plus two priors) have been seen — mirroring the trajectory engine's
// warm-up behavior and the movement annotator's "insufficient data" path.
func (s *ScoreTracker) Step(ts time.Time, score float64) (velocityAbs *float64, accel float64) {
	defer s.append(ts, score)

	if len(s.samples) < 2 {
		return nil, 0
	}

	p1 := s.samples[len(s.samples)-1]
	p2 := s.samples[len(s.samples)-2]

	dt1 := floorSeconds(ts.Sub(p1.timestamp))
	dt2 := floorSeconds(p1.timestamp.Sub(p2.timestamp))

	v := (score - p1.score) / dt1
	vPrev := (p1.score - p2.score) / dt2
	a := (v - vPrev) / ((dt1 + dt2) / 2)

	vAbs := v
	if vAbs < 0 {
		vAbs = -vAbs
	}
	return &vAbs, a
}

func (s *ScoreTracker) append(ts time.Time, score float64) {
	s.samples = append(s.samples, scoreSample{timestamp: ts, score: score})
	if len(s.samples) > 3 {
		s.samples = s.samples[len(s.samples)-3:]
	}
}
