package phase

import (
	"math"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// Coherence computes the trajectory-coherence scalar (§4.3) over the
// given phase points for lag L. It requires at least L+3 points;
// with fewer, it returns 0 (§7 insufficient-data sentinel). A near-still
// trajectory (velocity magnitudes with variance below 1e-10) returns 0.8:
// it is coherent by dwelling.
//
// Coherence is distinct from entrainment: entrainment is instantaneous
// breath-heart coupling (a position coordinate), coherence is a
// property of the trajectory's motion through phase space.
func Coherence(points []types.PhasePoint, lag int) float64 {
	n := len(points)
	if n < lag+3 {
		return 0
	}

	velocities := make([]types.Position3, n-1)
	magnitudes := make([]float64, n-1)
	for i := 1; i < n; i++ {
		v := sub(points[i].Position, points[i-1].Position)
		velocities[i-1] = v
		magnitudes[i-1] = magnitude(v)
	}

	magAutocorr, still := magnitudeAutocorrelation(magnitudes, lag)
	if still {
		return 0.8
	}
	dirCoherence := directionalCoherence(velocities, lag)

	coherence := 0.5*math.Max(0, magAutocorr) + 0.5*dirCoherence
	return clamp(coherence, 0, 1)
}

// magnitudeAutocorrelation returns the lag autocorrelation of mags, and
// reports still=true when their variance is below 1e-10.
func magnitudeAutocorrelation(mags []float64, lag int) (autocorr float64, still bool) {
	n := len(mags)
	if lag >= n {
		return 0, false
	}

	mean := 0.0
	for _, m := range mags {
		mean += m
	}
	mean /= float64(n)

	variance := 0.0
	for _, m := range mags {
		d := m - mean
		variance += d * d
	}
	variance /= float64(n)

	if variance < 1e-10 {
		return 0, true
	}

	autocovariance := 0.0
	for i := 0; i < n-lag; i++ {
		autocovariance += (mags[i] - mean) * (mags[i+lag] - mean)
	}
	autocovariance /= float64(n)

	return autocovariance / variance, false
}

func directionalCoherence(velocities []types.Position3, lag int) float64 {
	n := len(velocities)
	sum := 0.0
	count := 0
	for i := 0; i+lag < n; i++ {
		a, b := velocities[i], velocities[i+lag]
		ma, mb := magnitude(a), magnitude(b)
		if ma <= 1e-6 || mb <= 1e-6 {
			continue
		}
		cos := dot(a, b) / (ma * mb)
		sum += (cos + 1) / 2
		count++
	}
	if count == 0 {
		return 0.5
	}
	return sum / float64(count)
}

func dot(a, b types.Position3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
