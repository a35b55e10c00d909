package hrv

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// entrainmentLags is the 4-8 beat lag band scanned for peak
// autocorrelation (§4.1).
var entrainmentLags = []int{4, 5, 6, 7, 8}

// Extract computes an HRVRecord from the current contents of an
// RRBuffer. It never raises: insufficient data yields the documented
// sentinel fields (§7).
func Extract(buf *RRBuffer) types.HRVRecord {
	rr := buf.Values()
	n := len(rr)

	if n == 0 {
		return types.HRVRecord{
			EntrainmentLabel: "[insufficient data]",
			ModeLabel:        "unknown",
		}
	}

	meanRR, minRR, maxRR, amplitude := basicStats(rr)
	entrainment, entLabel := entrainmentOf(rr)
	breathRate, breathSteady := breathRateOf(rr)
	volatility := volatilityOf(rr)
	modeLabel, modeScore := modeOf(entrainment, breathSteady, amplitude, volatility)

	return types.HRVRecord{
		MeanRR:           meanRR,
		MinRR:            minRR,
		MaxRR:            maxRR,
		Amplitude:        amplitude,
		Entrainment:      entrainment,
		EntrainmentLabel: entLabel,
		BreathRate:       breathRate,
		BreathSteady:     breathSteady,
		RRVolatility:     volatility,
		ModeLabel:        modeLabel,
		ModeScore:        modeScore,
	}
}

func basicStats(rr []int) (meanRR float64, minRR, maxRR, amplitude int) {
	minRR, maxRR = rr[0], rr[0]
	sum := 0
	for _, v := range rr {
		sum += v
		if v < minRR {
			minRR = v
		}
		if v > maxRR {
			maxRR = v
		}
	}
	meanRR = float64(sum) / float64(len(rr))
	if len(rr) >= 2 {
		amplitude = maxRR - minRR
	}
	return
}

// entrainmentOf computes E = clamp(max_k autocorrelation(k), 0, 1) for
// k in the 4-8 beat lag band, using an identical denominator n for both
// variance and every lag's autocovariance (§4.1's mixed-denominator
// regression trap is why this matters).
func entrainmentOf(rr []int) (float64, string) {
	n := len(rr)
	if n < 10 {
		return 0, "[insufficient data]"
	}

	xs := make([]float64, n)
	for i, v := range rr {
		xs[i] = float64(v)
	}
	mean := floats.Sum(xs) / float64(n)

	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(n)

	best := 0.0
	for _, lag := range entrainmentLags {
		if lag >= n {
			continue
		}
		c := autocorrelation(xs, mean, variance, lag)
		if c > best {
			best = c
		}
	}

	e := clamp(best, 0, 1)
	return e, entrainmentLabel(e)
}

// autocorrelation returns the lag-k sample autocorrelation of xs given a
// precomputed mean and variance, both using denominator n. Returns 0 for
// a degenerate (zero-variance) series.
func autocorrelation(xs []float64, mean, variance float64, lag int) float64 {
	n := len(xs)
	if variance <= 0 || lag >= n {
		return 0
	}
	autocovariance := 0.0
	for i := 0; i < n-lag; i++ {
		autocovariance += (xs[i] - mean) * (xs[i+lag] - mean)
	}
	autocovariance /= float64(n)
	return autocovariance / variance
}

func entrainmentLabel(e float64) string {
	switch {
	case e < 0.2:
		return "[low]"
	case e < 0.4:
		return "[emerging]"
	case e < 0.7:
		return "[entrained]"
	default:
		return "[high entrainment]"
	}
}

// breathRateOf estimates breath rate from local maxima in the RR series,
// falling back to zero-crossing counting when fewer than 2 peaks exist.
func breathRateOf(rr []int) (*float64, bool) {
	if len(rr) < 6 {
		return nil, false
	}

	peaks := findPeaks(rr)
	if len(peaks) >= 2 {
		return breathFromPeaks(rr, peaks)
	}
	return breathFromZeroCrossings(rr)
}

func findPeaks(rr []int) []int {
	var peaks []int
	for i := 1; i < len(rr)-1; i++ {
		if rr[i] > rr[i-1] && rr[i] > rr[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

func breathFromPeaks(rr []int, peaks []int) (*float64, bool) {
	spacings := make([]float64, 0, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		spacings = append(spacings, float64(peaks[i]-peaks[i-1]))
	}
	if len(spacings) == 0 {
		return nil, false
	}

	avgBeatsPerBreath := floats.Sum(spacings) / float64(len(spacings))

	sum := 0
	for _, v := range rr {
		sum += v
	}
	meanRR := float64(sum) / float64(len(rr))

	cycleMs := avgBeatsPerBreath * meanRR
	cycleMin := cycleMs / 60000
	if cycleMin <= 0 {
		return nil, false
	}
	rate := 1 / cycleMin
	if rate < 2 || rate > 20 {
		return nil, false
	}

	steady := false
	if len(spacings) >= 2 {
		meanSpacing := floats.Sum(spacings) / float64(len(spacings))
		variance := 0.0
		for _, s := range spacings {
			d := s - meanSpacing
			variance += d * d
		}
		variance /= float64(len(spacings))
		cv := 0.0
		if meanSpacing > 0 {
			cv = math.Sqrt(variance) / meanSpacing
		} else {
			cv = 1.0
		}
		steady = cv < 0.3
	}

	return &rate, steady
}

// breathFromZeroCrossings is the fallback estimator when fewer than 2
// peaks are found. It is never reported as steady (§4.1).
func breathFromZeroCrossings(rr []int) (*float64, bool) {
	sum := 0
	for _, v := range rr {
		sum += v
	}
	meanRR := float64(sum) / float64(len(rr))

	detrended := make([]float64, len(rr))
	for i, v := range rr {
		detrended[i] = float64(v) - meanRR
	}

	crossings := 0
	for i := 1; i < len(detrended); i++ {
		if detrended[i-1]*detrended[i] < 0 {
			crossings++
		}
	}
	if crossings < 2 {
		return nil, false
	}

	cycles := float64(crossings) / 2
	totalMs := float64(sum)
	totalMin := totalMs / 60000
	if totalMin <= 0 {
		return nil, false
	}
	rate := cycles / totalMin
	if rate < 2 || rate > 20 {
		return nil, false
	}
	return &rate, false
}

func volatilityOf(rr []int) float64 {
	if len(rr) < 2 {
		return 0
	}
	sum := 0
	for _, v := range rr {
		sum += v
	}
	mean := float64(sum) / float64(len(rr))
	if mean == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range rr {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(rr))
	return math.Sqrt(variance) / mean
}

// modeOf combines entrainment, breath steadiness, amplitude, and
// volatility into the scalar mode score and its six-band label (§4.1).
func modeOf(entrainment float64, breathSteady bool, amplitude int, volatility float64) (string, float64) {
	b := 0.3
	if breathSteady {
		b = 1.0
	}
	a := math.Min(1, float64(amplitude)/200)
	vPrime := clamp(1-5*volatility, 0, 1)

	calm := 0.4*entrainment + 0.3*b + 0.2*a + 0.1*vPrime
	calm = clamp(calm, 0, 1)

	return modeLabel(calm), calm
}

func modeLabel(score float64) string {
	switch {
	case score < 0.2:
		return string(types.ModeHeightenedAlertness)
	case score < 0.35:
		return string(types.ModeSubtleAlertness)
	case score < 0.5:
		return string(types.ModeTransitional)
	case score < 0.65:
		return string(types.ModeSettling)
	case score < 0.8:
		return string(types.ModeEmergingCoherence)
	default:
		return string(types.ModeCoherentPresence)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
