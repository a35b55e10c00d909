package movement

import (
	"testing"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

func f(v float64) *float64 { return &v }
func mode(m types.ModeName) *types.ModeName { return &m }

func TestAnnotateInsufficientData(t *testing.T) {
	got := Annotate(types.StatusEstablished, nil, 0, 10, nil)
	if got != "insufficient data" {
		t.Fatalf("got %q, want insufficient data", got)
	}
}

func TestAnnotateUnknownStatus(t *testing.T) {
	got := Annotate(types.StatusUnknown, f(0.5), 0, 10, nil)
	if got != "unknown" {
		t.Fatalf("got %q, want unknown", got)
	}
}

func TestAnnotateSettled(t *testing.T) {
	got := Annotate(types.StatusEstablished, f(0.01), 0, 6, nil)
	if got != "settled" {
		t.Fatalf("got %q, want settled", got)
	}
}

func TestAnnotateStillBeforeSettled(t *testing.T) {
	got := Annotate(types.StatusEstablished, f(0.01), 0, 1, nil)
	if got != "still" {
		t.Fatalf("got %q, want still", got)
	}
}

func TestAnnotateAcceleratingAndDecelerating(t *testing.T) {
	if got := Annotate(types.StatusEstablished, f(0.5), 0.02, 10, nil); got != "accelerating" {
		t.Fatalf("got %q, want accelerating", got)
	}
	if got := Annotate(types.StatusEstablished, f(0.5), -0.02, 10, nil); got != "decelerating" {
		t.Fatalf("got %q, want decelerating", got)
	}
}

func TestAnnotateMoving(t *testing.T) {
	got := Annotate(types.StatusEstablished, f(0.5), 0.001, 10, nil)
	if got != "moving" {
		t.Fatalf("got %q, want moving", got)
	}
}

func TestAnnotateFromPreviousWithinWindow(t *testing.T) {
	got := Annotate(types.StatusProvisional, f(0.5), 0.001, 1, mode(types.ModeSettling))
	if got != "moving from settling" {
		t.Fatalf("got %q, want moving from settling", got)
	}
}

func TestMovementAwareLabelSuppressesUninformativeAnnotations(t *testing.T) {
	for _, a := range []string{"insufficient data", "unknown", "settled"} {
		got := MovementAwareLabel(types.ModeCoherentPresence, a)
		if got != string(types.ModeCoherentPresence) {
			t.Fatalf("annotation %q: got %q, want bare mode name", a, got)
		}
	}
}

func TestMovementAwareLabelIncludesParenthetical(t *testing.T) {
	got := MovementAwareLabel(types.ModeCoherentPresence, "accelerating")
	want := "coherent presence (accelerating)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
