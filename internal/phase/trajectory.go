package phase

import (
	"math"
	"time"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// DefaultLag is the default lag L used for trajectory coherence (§4.3).
const DefaultLag = 5

// Engine is the trajectory engine: a bounded phase buffer plus the
// per-step dynamics computation (§4.3). It owns its buffer exclusively;
// callers never get an interior reference into it.
type Engine struct {
	buf *Buffer
	lag int
}

// NewEngine returns a trajectory engine with the given buffer capacity
// and coherence lag. Non-positive values fall back to the spec defaults.
func NewEngine(capacity, lag int) *Engine {
	if lag <= 0 {
		lag = DefaultLag
	}
	return &Engine{buf: NewBuffer(capacity), lag: lag}
}

// Step appends a new phase point and returns its dynamics. Only the
// phase-specific fields of types.PhaseDynamics are populated
// (Position, Velocity, VelocityMagnitude, Curvature, Stability,
// HistorySignature, PhaseLabel, Coherence); the caller (internal/pipeline)
// fills in the mode/movement fields from the other engines.
func (e *Engine) Step(ts time.Time, pos types.Position3) types.PhaseDynamics {
	prior := e.buf.Points()
	dyn := compute(prior, ts, pos)

	e.buf.Append(ts, pos)
	dyn.Coherence = Coherence(e.buf.Points(), e.lag)

	return dyn
}

// compute implements §4.3 steps 1-3 against the buffer state as it was
// before the new point was appended.
func compute(prior []types.PhasePoint, ts time.Time, pos types.Position3) types.PhaseDynamics {
	n := len(prior)
	if n < 2 {
		return types.PhaseDynamics{
			Position:   pos,
			Stability:  0.5,
			PhaseLabel: "warming up",
		}
	}

	p1 := prior[n-1]
	p2 := prior[n-2]

	dt1 := floorSeconds(ts.Sub(p1.Timestamp))
	dt2 := floorSeconds(p1.Timestamp.Sub(p2.Timestamp))

	v := scale(sub(pos, p1.Position), 1/dt1)
	vPrev := scale(sub(p1.Position, p2.Position), 1/dt2)

	a := scale(sub(v, vPrev), 1/((dt1+dt2)/2))

	velMag := magnitude(v)
	curvature := magnitude(a)

	stability := clamp(1/(1+2*(velMag+0.5*curvature)), 0, 1)

	historySig := windowedHistorySignature(append(prior, types.PhasePoint{Timestamp: ts, Position: pos}))

	ent := pos[0]
	label := phaseLabel(stability, curvature, velMag, ent)

	return types.PhaseDynamics{
		Position:          pos,
		Velocity:          v,
		VelocityMagnitude: velMag,
		Curvature:         curvature,
		Stability:         stability,
		HistorySignature:  historySig,
		PhaseLabel:        label,
	}
}

// floorSeconds returns the duration in seconds, floored at 1ms to avoid
// division by zero (§4.3).
func floorSeconds(d time.Duration) float64 {
	s := d.Seconds()
	if s < 0.001 {
		return 0.001
	}
	return s
}

// windowedHistorySignature sums inter-point distances within the
// current buffer window only (not session-cumulative — see Buffer's
// doc comment for why that would saturate), divides by the window's
// elapsed time, scales by 1/0.5, and clamps to [0,1].
func windowedHistorySignature(window []types.PhasePoint) float64 {
	if len(window) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(window); i++ {
		total += euclidean(window[i-1].Position, window[i].Position)
	}
	elapsed := window[len(window)-1].Timestamp.Sub(window[0].Timestamp).Seconds()
	if elapsed <= 0 {
		return 0
	}
	sig := (total / elapsed) / 0.5
	return clamp(sig, 0, 1)
}

func phaseLabel(stability, curvature, velMag, ent float64) string {
	switch {
	case stability > 0.7 && ent > 0.6:
		return "entrained dwelling"
	case curvature > 0.3:
		if ent > 0.5 {
			return "inflection (from entrainment)"
		}
		return "inflection (seeking)"
	case velMag > 0.1:
		if ent > 0.5 {
			return "flowing (entrained)"
		}
		return "active transition"
	case stability > 0.6:
		switch {
		case ent > 0.5:
			return "settling into entrainment"
		case ent > 0.3:
			return "neutral dwelling"
		default:
			return "alert stillness"
		}
	default:
		return "transitional"
	}
}

func sub(a, b types.Position3) types.Position3 {
	return types.Position3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func scale(v types.Position3, f float64) types.Position3 {
	return types.Position3{v[0] * f, v[1] * f, v[2] * f}
}

func magnitude(v types.Position3) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
