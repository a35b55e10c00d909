package hrv

import (
	"math"
	"math/rand"
	"testing"
)

func fillBuffer(t *testing.T, values []int) *RRBuffer {
	t.Helper()
	buf := NewRRBuffer(DefaultCapacity + 10)
	buf.Admit(values)
	return buf
}

func TestConstantSeriesIsZeroAmplitudeZeroVolatility(t *testing.T) {
	values := make([]int, 30)
	for i := range values {
		values[i] = 1000
	}
	rec := Extract(fillBuffer(t, values))

	if rec.Amplitude != 0 {
		t.Fatalf("amplitude = %d, want 0", rec.Amplitude)
	}
	if rec.RRVolatility != 0 {
		t.Fatalf("volatility = %v, want 0", rec.RRVolatility)
	}
	if rec.Entrainment != 0 {
		t.Fatalf("entrainment = %v, want 0 for a zero-variance series", rec.Entrainment)
	}
}

func TestSinusoidalSeriesIsEntrainedWithSteadyBreath(t *testing.T) {
	values := make([]int, 30)
	for i := range values {
		values[i] = 1000 + int(math.Round(80*math.Sin(2*math.Pi*float64(i)/5)))
	}
	rec := Extract(fillBuffer(t, values))

	if rec.Amplitude < 140 || rec.Amplitude > 160 {
		t.Fatalf("amplitude = %d, want in [140,160]", rec.Amplitude)
	}
	if rec.Entrainment <= 0.4 {
		t.Fatalf("entrainment = %v, want > 0.4", rec.Entrainment)
	}
	if rec.BreathRate == nil {
		t.Fatal("breath rate not estimated")
	} else if *rec.BreathRate < 8 || *rec.BreathRate > 16 {
		t.Fatalf("breath rate = %v, want in [8,16]", *rec.BreathRate)
	}
	if !rec.BreathSteady {
		t.Fatal("breath steady = false, want true")
	}
}

func TestRNGSeriesIsLowEntrainmentHighVolatility(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := make([]int, 30)
	for i := range values {
		values[i] = 650 + rng.Intn(451)
	}
	rec := Extract(fillBuffer(t, values))

	if rec.Entrainment >= 0.4 {
		t.Fatalf("entrainment = %v, want < 0.4", rec.Entrainment)
	}
	if rec.RRVolatility <= 0.05 {
		t.Fatalf("volatility = %v, want > 0.05", rec.RRVolatility)
	}
}

func TestInsufficientDataSentinel(t *testing.T) {
	rec := Extract(fillBuffer(t, []int{900, 950, 1000}))
	if rec.EntrainmentLabel != "[insufficient data]" {
		t.Fatalf("label = %q, want [insufficient data]", rec.EntrainmentLabel)
	}
	if rec.Entrainment != 0 {
		t.Fatalf("entrainment = %v, want 0", rec.Entrainment)
	}
}

func TestAutocorrelationDenominatorInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]int, 20)
	for i := range values {
		values[i] = 700 + rng.Intn(401)
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v)
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(len(xs))
	variance := 0.0
	for _, v := range xs {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(xs))

	a2 := autocorrelation(xs, mean, variance, 2)
	a8 := autocorrelation(xs, mean, variance, 8)

	diff := math.Abs(a2 - a8)
	if diff < 0 || diff > 1 {
		t.Fatalf("|autocorr(2)-autocorr(8)| = %v, want within [0,1]", diff)
	}
	if a2 > 0.5 && a8 > 0.5 {
		t.Fatalf("both lags exceeded 0.5 for i.i.d. noise: a2=%v a8=%v", a2, a8)
	}
}

func TestAdmissionFilterDropsOutOfRangeRR(t *testing.T) {
	buf := NewRRBuffer(10)
	admitted, dropped := buf.Admit([]int{900, 200, 950, 1600, 1000})
	if buf.Len() != 3 {
		t.Fatalf("buffer length = %d, want 3 (out-of-range values dropped)", buf.Len())
	}
	if admitted != 3 {
		t.Fatalf("admitted = %d, want 3", admitted)
	}
	if dropped != 2 {
		t.Fatalf("dropped = %d, want 2", dropped)
	}
}

func TestBufferOverflowDropsOldest(t *testing.T) {
	buf := NewRRBuffer(5)
	for i := 0; i < 10; i++ {
		buf.Admit([]int{900 + i})
	}
	values := buf.Values()
	if len(values) != 5 {
		t.Fatalf("buffer length = %d, want 5", len(values))
	}
	if values[0] != 905 {
		t.Fatalf("oldest retained value = %d, want 905", values[0])
	}
}
