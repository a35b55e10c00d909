package softmode

import (
	"math"
	"testing"

	"github.com/vagus-labs/coherence-pipeline/pkg/types"
	"github.com/vagus-labs/coherence-pipeline/internal/hysteresis"
)

func TestMembershipSumsToOne(t *testing.T) {
	x := types.Centroid4{0.4, 0.7, 0.5, 0.6}
	dist := Classify(x, DefaultTemperature, nil)

	sum := 0.0
	for _, m := range types.Modes {
		w := dist.Membership[m]
		if w < 0 || w > 1 {
			t.Fatalf("weight for %s = %v, out of [0,1]", m, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Fatalf("sum of membership = %v, want 1", sum)
	}
}

// TestReachability pins the DefaultTemperature decision: at this
// temperature every mode's best-case membership (classifying exactly at
// its own centroid) must clear its own entry threshold, or the upper
// modes become unreachable (§8 property 6).
func TestReachability(t *testing.T) {
	for _, m := range types.Modes {
		centroid := Centroids[m]
		dist := Classify(centroid, DefaultTemperature, nil)
		cfg := hysteresis.Configs[m]
		if dist.Membership[m] < cfg.EntryThreshold {
			t.Fatalf("mode %s: best-case membership %v < entry threshold %v at T=%v",
				m, dist.Membership[m], cfg.EntryThreshold, DefaultTemperature)
		}
	}
}

func TestKLDivergenceOfIdenticalDistributionsIsZero(t *testing.T) {
	x := types.Centroid4{0.3, 0.5, 0.4, 0.5}
	dist := Classify(x, DefaultTemperature, nil)
	again := Classify(x, DefaultTemperature, dist.Membership)
	if again.DistributionShift == nil {
		t.Fatal("distribution shift not computed")
	}
	if math.Abs(*again.DistributionShift) > 1e-9 {
		t.Fatalf("KL divergence of identical distributions = %v, want ~0", *again.DistributionShift)
	}
}
