// Package emit assembles the final, schema-versioned StepRecord from the
// outputs of the upstream engines (§6.2) and applies the normative
// rounding conventions.
package emit

import (
	"time"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
	"github.com/vagus-labs/coherence-pipeline/pkg/utils"
)

const topMembershipCount = 3

// Build composes one immutable StepRecord from the raw sample plus the
// per-engine outputs computed for it. It never mutates its arguments.
func Build(ts time.Time, heartRate int, rr []int, sensorContact bool, hrv types.HRVRecord, dyn types.PhaseDynamics) types.StepRecord {
	rrCopy := make([]int, len(rr))
	copy(rrCopy, rr)

	return types.StepRecord{
		Timestamp: ts,
		HeartRate: heartRate,
		RR:        rrCopy,
		Metrics: types.StepMetrics{
			Amplitude:        hrv.Amplitude,
			Entrainment:      utils.RoundTo(hrv.Entrainment, 4),
			EntrainmentLabel: hrv.EntrainmentLabel,
			BreathRate:       utils.RoundToPtr(hrv.BreathRate, 1),
			Volatility:       utils.RoundTo(hrv.RRVolatility, 4),
			Mode:             hrv.ModeLabel,
			ModeScore:        utils.RoundTo(hrv.ModeScore, 3),
		},
		Phase: types.StepPhase{
			Position:           dyn.Position,
			Velocity:           dyn.Velocity,
			VelocityMagnitude:  utils.RoundTo(dyn.VelocityMagnitude, 4),
			Curvature:          utils.RoundTo(dyn.Curvature, 4),
			Stability:          utils.RoundTo(dyn.Stability, 4),
			HistorySignature:   utils.RoundTo(dyn.HistorySignature, 4),
			PhaseLabel:         dyn.PhaseLabel,
			Coherence:          utils.RoundTo(dyn.Coherence, 4),
			MovementAnnotation: dyn.MovementAnnotation,
			MovementAwareLabel: dyn.MovementAwareLabel,
			ModeStatus:         dyn.ModeStatus,
			DwellTime:          utils.RoundTo(dyn.DwellTime, 1),
			AccelerationMag:    utils.RoundTo(dyn.ModeScoreAcceleration, 4),
			SoftMode:           buildSoftMode(dyn.SoftMode),
		},
	}
}

// buildSoftMode narrows the full six-way membership down to the top 3
// modes by weight, per §6.2.
func buildSoftMode(dist types.SoftModeDistribution) types.StepSoftMode {
	return types.StepSoftMode{
		Primary:           dist.Primary,
		Secondary:         dist.Secondary,
		Ambiguity:         utils.RoundTo(dist.Ambiguity, 3),
		DistributionShift: utils.RoundToPtr(dist.DistributionShift, 4),
		Membership:        roundedTopN(dist.Membership, topMembershipCount),
	}
}

func roundedTopN(membership map[types.ModeName]float64, n int) map[types.ModeName]float64 {
	type pair struct {
		mode   types.ModeName
		weight float64
	}
	pairs := make([]pair, 0, len(membership))
	for _, m := range types.Modes {
		if w, ok := membership[m]; ok {
			pairs = append(pairs, pair{m, w})
		}
	}
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j].weight > pairs[j-1].weight; j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
	if n > len(pairs) {
		n = len(pairs)
	}
	out := make(map[types.ModeName]float64, n)
	for _, p := range pairs[:n] {
		out[p.mode] = utils.RoundTo(p.weight, 3)
	}
	return out
}
