package pipeline

import (
	"github.com/vagus-labs/coherence-pipeline/internal/hrv"
	"github.com/vagus-labs/coherence-pipeline/internal/phase"
	"github.com/vagus-labs/coherence-pipeline/internal/softmode"
)

// Config overrides the pipeline's build-time defaults. Zero values fall
// back to the spec's documented defaults.
type Config struct {
	RRBufferCapacity    int
	PhaseBufferCapacity int
	CoherenceLag        int
	SoftmaxTemperature  float64
	ModeHistoryCapacity int
}

// withDefaults fills zero fields with the spec defaults (§2, §6.3).
func (c Config) withDefaults() Config {
	if c.RRBufferCapacity <= 0 {
		c.RRBufferCapacity = hrv.DefaultCapacity
	}
	if c.PhaseBufferCapacity <= 0 {
		c.PhaseBufferCapacity = phase.DefaultCapacity
	}
	if c.CoherenceLag <= 0 {
		c.CoherenceLag = phase.DefaultLag
	}
	if c.SoftmaxTemperature <= 0 {
		c.SoftmaxTemperature = softmode.DefaultTemperature
	}
	if c.ModeHistoryCapacity <= 0 {
		c.ModeHistoryCapacity = 10
	}
	return c
}
