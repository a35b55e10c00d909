package emit

import (
	"testing"
	"time"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

func TestBuildRoundsPerSchema(t *testing.T) {
	breath := 14.0 / 3.0
	hrv := types.HRVRecord{
		Amplitude:        120,
		Entrainment:      1.0 / 3.0,
		EntrainmentLabel: "entrained",
		BreathRate:       &breath,
		RRVolatility:     0.123456,
		ModeLabel:        "settling",
		ModeScore:        0.666666,
	}
	dyn := types.PhaseDynamics{
		Position:          types.Position3{0.5, 0.5, 0.5},
		VelocityMagnitude: 0.123456,
		Curvature:         0.0123456,
		Stability:         0.87654321,
		HistorySignature:  0.333333,
		PhaseLabel:        "settling into entrainment",
		Coherence:         0.5,
		MovementAnnotation: "settled",
		MovementAwareLabel: "settling",
		ModeStatus:        types.StatusEstablished,
		DwellTime:         12.34,
		ModeScoreAcceleration: 0.01234,
		SoftMode: types.SoftModeDistribution{
			Membership: map[types.ModeName]float64{
				types.ModeHeightenedAlertness: 0.01,
				types.ModeSubtleAlertness:     0.02,
				types.ModeTransitional:        0.05,
				types.ModeSettling:            0.60,
				types.ModeEmergingCoherence:   0.22,
				types.ModeCoherentPresence:    0.10,
			},
			Primary:   types.ModeSettling,
			Secondary: types.ModeEmergingCoherence,
			Ambiguity: 0.38,
		},
	}

	rec := Build(time.Unix(100, 0), 62, []int{800, 820}, true, hrv, dyn)

	if rec.Metrics.Entrainment != 0.3333 {
		t.Fatalf("entrainment = %v, want 0.3333", rec.Metrics.Entrainment)
	}
	if rec.Metrics.ModeScore != 0.667 {
		t.Fatalf("mode_score = %v, want 0.667", rec.Metrics.ModeScore)
	}
	if rec.Metrics.BreathRate == nil || *rec.Metrics.BreathRate != 4.7 {
		t.Fatalf("breath rate = %v, want 4.7", rec.Metrics.BreathRate)
	}
	if rec.Phase.Coherence != 0.5 {
		t.Fatalf("coherence = %v, want 0.5", rec.Phase.Coherence)
	}
	if len(rec.Phase.SoftMode.Membership) != 3 {
		t.Fatalf("expected top-3 membership, got %d entries", len(rec.Phase.SoftMode.Membership))
	}
	if _, ok := rec.Phase.SoftMode.Membership[types.ModeHeightenedAlertness]; ok {
		t.Fatal("lowest-weight mode should not appear in top-3 membership")
	}
	if _, ok := rec.Phase.SoftMode.Membership[types.ModeSettling]; !ok {
		t.Fatal("primary mode should appear in top-3 membership")
	}
}

func TestBuildCopiesRRSlice(t *testing.T) {
	rr := []int{800, 820}
	rec := Build(time.Unix(0, 0), 60, rr, true, types.HRVRecord{}, types.PhaseDynamics{})
	rec.RR[0] = 999
	if rr[0] == 999 {
		t.Fatal("Build must copy the rr slice, not alias the caller's backing array")
	}
}
