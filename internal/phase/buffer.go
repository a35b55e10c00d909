package phase

import (
	"math"
	"time"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// DefaultCapacity is W_phase from the spec's default (30).
const DefaultCapacity = 30

// Buffer is a bounded FIFO of PhasePoints, accompanied by a
// session-cumulative path length maintained on append.
//
// cumulativePathLength is a whole-session scalar kept for observability
// only (it is not used by any dynamics computation — the windowed
// history signature below is computed separately to avoid the
// saturation bug a session-cumulative divisor produces).
type Buffer struct {
	capacity              int
	points                []types.PhasePoint
	cumulativePathLength  float64
}

// NewBuffer returns an empty buffer with the given capacity. A
// non-positive capacity falls back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity, points: make([]types.PhasePoint, 0, capacity)}
}

// Append adds a new point, dropping the oldest on overflow, and updates
// the cumulative path length.
func (b *Buffer) Append(ts time.Time, pos types.Position3) {
	if len(b.points) > 0 {
		prev := b.points[len(b.points)-1]
		b.cumulativePathLength += euclidean(prev.Position, pos)
	}
	b.points = append(b.points, types.PhasePoint{Timestamp: ts, Position: pos})
	if over := len(b.points) - b.capacity; over > 0 {
		b.points = b.points[over:]
	}
}

// Points returns the buffer's current contents, oldest first.
func (b *Buffer) Points() []types.PhasePoint {
	out := make([]types.PhasePoint, len(b.points))
	copy(out, b.points)
	return out
}

// Len reports the number of points currently buffered.
func (b *Buffer) Len() int { return len(b.points) }

// CumulativePathLength returns the session-wide path length.
func (b *Buffer) CumulativePathLength() float64 { return b.cumulativePathLength }

func euclidean(a, c types.Position3) float64 {
	dx, dy, dz := a[0]-c[0], a[1]-c[1], a[2]-c[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
