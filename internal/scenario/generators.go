// Package scenario provides deterministic synthetic RR-interval
// generators and a replay harness for exercising a pipeline end-to-end,
// adapted from the event-driven replay shape of a backtesting engine.
package scenario

import (
	"math"
	"math/rand"
	"time"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// tick is the assumed inter-sample cadence for synthetic scenarios: one
// RR reading per second, matching the pipeline's ~1Hz design assumption.
const tick = time.Second

// Constant returns n samples of a constant RR interval (scenario S1).
func Constant(n int, rr int, start time.Time) []types.Sample {
	samples := make([]types.Sample, n)
	for i := 0; i < n; i++ {
		samples[i] = types.Sample{
			Timestamp:     start.Add(time.Duration(i) * tick),
			HeartRate:     60,
			RR:            []int{rr},
			SensorContact: true,
		}
	}
	return samples
}

// Sinusoidal returns n samples of RR = 1000 + round(amplitude*sin(2*pi*i/period))
// (scenario S2).
func Sinusoidal(n int, amplitude float64, period float64, start time.Time) []types.Sample {
	samples := make([]types.Sample, n)
	for i := 0; i < n; i++ {
		rr := 1000 + int(math.Round(amplitude*math.Sin(2*math.Pi*float64(i)/period)))
		samples[i] = types.Sample{
			Timestamp:     start.Add(time.Duration(i) * tick),
			HeartRate:     62,
			RR:            []int{rr},
			SensorContact: true,
		}
	}
	return samples
}

// Noisy returns n samples of uniformly distributed RR in [lo, hi],
// generated from a seeded RNG for reproducibility (scenario S3).
func Noisy(n int, lo, hi int, seed int64, start time.Time) []types.Sample {
	rng := rand.New(rand.NewSource(seed))
	samples := make([]types.Sample, n)
	for i := 0; i < n; i++ {
		rr := lo + rng.Intn(hi-lo+1)
		samples[i] = types.Sample{
			Timestamp:     start.Add(time.Duration(i) * tick),
			HeartRate:     75,
			RR:            []int{rr},
			SensorContact: true,
		}
	}
	return samples
}

// Concat joins scenario segments into one sample sequence, renumbering
// every sample's timestamp to a single monotonic tick sequence starting
// at the first segment's original start time (scenario S4).
func Concat(segments ...[]types.Sample) []types.Sample {
	var flat []types.Sample
	for _, seg := range segments {
		flat = append(flat, seg...)
	}
	if len(flat) == 0 {
		return flat
	}
	start := flat[0].Timestamp
	for i := range flat {
		flat[i].Timestamp = start.Add(time.Duration(i) * tick)
	}
	return flat
}

// Alternating interleaves two scenarios sample-by-sample for n steps,
// useful for forcing rupture oscillation (scenario S5).
func Alternating(a, b []types.Sample, n int) []types.Sample {
	out := make([]types.Sample, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			out = append(out, a[i%len(a)])
		} else {
			out = append(out, b[i%len(b)])
		}
		out[i].Timestamp = a[0].Timestamp.Add(time.Duration(i) * tick)
	}
	return out
}
