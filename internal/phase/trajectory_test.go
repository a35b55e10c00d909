package phase

import (
	"testing"
	"time"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

func TestWarmUpOnFirstTwoSamples(t *testing.T) {
	e := NewEngine(DefaultCapacity, DefaultLag)
	base := time.Unix(0, 0)

	for i := 0; i < 2; i++ {
		dyn := e.Step(base.Add(time.Duration(i)*time.Second), types.Position3{0.5, 0.5, 0.5})
		if dyn.PhaseLabel != "warming up" {
			t.Fatalf("step %d: phase label = %q, want %q", i, dyn.PhaseLabel, "warming up")
		}
		if dyn.VelocityMagnitude != 0 {
			t.Fatalf("step %d: velocity magnitude = %v, want 0", i, dyn.VelocityMagnitude)
		}
		if dyn.Stability != 0.5 {
			t.Fatalf("step %d: stability = %v, want 0.5", i, dyn.Stability)
		}
	}
}

func TestHistorySignatureBoundedByOne(t *testing.T) {
	e := NewEngine(DefaultCapacity, DefaultLag)
	base := time.Unix(0, 0)
	for i := 0; i < 200; i++ {
		pos := types.Position3{0.1 * float64(i%10), 0.2, 0.3}
		dyn := e.Step(base.Add(time.Duration(i)*time.Second), pos)
		if dyn.HistorySignature < 0 || dyn.HistorySignature > 1 {
			t.Fatalf("step %d: history signature = %v, out of [0,1]", i, dyn.HistorySignature)
		}
	}
}

func TestCoherenceNearStillIsHigh(t *testing.T) {
	base := time.Unix(0, 0)
	points := make([]types.PhasePoint, 0, 20)
	for i := 0; i < 20; i++ {
		points = append(points, types.PhasePoint{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Position:  types.Position3{0.5, 0.5, 0.5},
		})
	}
	c := Coherence(points, DefaultLag)
	if c < 0.8 {
		t.Fatalf("coherence = %v, want >= 0.8 for a still trajectory", c)
	}
}

func TestCoherenceInsufficientDataIsZero(t *testing.T) {
	base := time.Unix(0, 0)
	points := []types.PhasePoint{
		{Timestamp: base, Position: types.Position3{0.1, 0.1, 0.1}},
		{Timestamp: base.Add(time.Second), Position: types.Position3{0.2, 0.1, 0.1}},
	}
	if c := Coherence(points, DefaultLag); c != 0 {
		t.Fatalf("coherence = %v, want 0 with too few points", c)
	}
}
