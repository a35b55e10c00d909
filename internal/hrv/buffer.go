// Package hrv computes heart-rate-variability features from a bounded
// window of RR intervals.
package hrv

// minRR and maxRR bound the admission filter (§2 step 1): RR values
// outside this physiological window are dropped silently.
const (
	minRR = 300
	maxRR = 1500

	// DefaultCapacity is W_rr from the spec's default range (20-30).
	DefaultCapacity = 20
)

// RRBuffer is a bounded FIFO ring buffer of admitted RR intervals (ms).
// All elements satisfy minRR < x < maxRR; length never exceeds capacity.
type RRBuffer struct {
	capacity int
	values   []int
}

// NewRRBuffer returns an empty buffer with the given capacity. A
// non-positive capacity falls back to DefaultCapacity.
func NewRRBuffer(capacity int) *RRBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RRBuffer{capacity: capacity, values: make([]int, 0, capacity)}
}

// Admit filters rr against the physiological window and appends the
// survivors, dropping the oldest values on overflow. It never raises:
// out-of-range inputs are simply not appended. It reports how many of
// rr were admitted vs. dropped by the physiological filter, for callers
// that want to meter the admission step (§4.5).
func (b *RRBuffer) Admit(rr []int) (admitted, dropped int) {
	for _, v := range rr {
		if v <= minRR || v >= maxRR {
			dropped++
			continue
		}
		b.values = append(b.values, v)
		admitted++
	}
	if over := len(b.values) - b.capacity; over > 0 {
		b.values = b.values[over:]
	}
	return admitted, dropped
}

// Values returns the buffer's current contents, oldest first. The
// returned slice is a copy: callers never hold an interior reference.
func (b *RRBuffer) Values() []int {
	out := make([]int, len(b.values))
	copy(out, b.values)
	return out
}

// Len reports the number of admitted values currently buffered.
func (b *RRBuffer) Len() int { return len(b.values) }
