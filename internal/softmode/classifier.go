package softmode

import (
	"math"
	"sort"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// klEpsilon avoids log(0) in the KL-divergence computation (§4.4).
const klEpsilon = 1e-10

// Classify computes the soft mode distribution for feature vector x at
// the given softmax temperature. If prev is non-nil, DistributionShift
// is set to KL(p‖prev).
func Classify(x types.Centroid4, temperature float64, prev map[types.ModeName]float64) types.SoftModeDistribution {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	negDist := make(map[types.ModeName]float64, len(types.Modes))
	maxNegDist := math.Inf(-1)
	for _, m := range types.Modes {
		c := Centroids[m]
		d := weightedSquaredDistance(x, c)
		neg := -d
		negDist[m] = neg
		if neg > maxNegDist {
			maxNegDist = neg
		}
	}

	weights := make(map[types.ModeName]float64, len(types.Modes))
	total := 0.0
	for _, m := range types.Modes {
		w := math.Exp((negDist[m] - maxNegDist) / temperature)
		weights[m] = w
		total += w
	}
	for _, m := range types.Modes {
		weights[m] /= total
	}

	primary, secondary := topTwo(weights)
	ambiguity := 1 - (weights[primary] - weights[secondary])

	dist := types.SoftModeDistribution{
		Membership: weights,
		Primary:    primary,
		Secondary:  secondary,
		Ambiguity:  ambiguity,
	}

	if prev != nil {
		shift := klDivergence(weights, prev)
		dist.DistributionShift = &shift
	}

	return dist
}

func weightedSquaredDistance(x, c types.Centroid4) float64 {
	d := 0.0
	for i := 0; i < 4; i++ {
		diff := x[i] - c[i]
		d += FeatureWeights[i] * diff * diff
	}
	return d
}

// topTwo returns the two highest-weighted modes, breaking ties by the
// modes' fixed calmness order for determinism.
func topTwo(weights map[types.ModeName]float64) (types.ModeName, types.ModeName) {
	ranked := make([]types.ModeName, len(types.Modes))
	copy(ranked, types.Modes[:])
	sort.SliceStable(ranked, func(i, j int) bool {
		return weights[ranked[i]] > weights[ranked[j]]
	})
	return ranked[0], ranked[1]
}

// TopN returns the n highest-weighted (mode, weight) pairs.
func TopN(weights map[types.ModeName]float64, n int) map[types.ModeName]float64 {
	ranked := make([]types.ModeName, len(types.Modes))
	copy(ranked, types.Modes[:])
	sort.SliceStable(ranked, func(i, j int) bool {
		return weights[ranked[i]] > weights[ranked[j]]
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make(map[types.ModeName]float64, n)
	for _, m := range ranked[:n] {
		out[m] = weights[m]
	}
	return out
}

// klDivergence computes KL(p‖q) with an epsilon floor to avoid log(0).
func klDivergence(p, q map[types.ModeName]float64) float64 {
	sum := 0.0
	for _, m := range types.Modes {
		pi, qi := p[m], q[m]
		sum += pi * math.Log((pi+klEpsilon)/(qi+klEpsilon))
	}
	return sum
}
