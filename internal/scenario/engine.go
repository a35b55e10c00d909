package scenario

import (
	"go.uber.org/zap"

	"github.com/vagus-labs/coherence-pipeline/internal/hysteresis"
	"github.com/vagus-labs/coherence-pipeline/internal/pipeline"
	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// Result is the full output of replaying one scenario through a
// pipeline: every emitted step record plus the full §4.7 rupture tuple
// as of the final sample.
type Result struct {
	Steps   []types.StepRecord
	Rupture hysteresis.RuptureInfo
}

// Engine replays a fixed sample sequence through a single pipeline and
// collects every emitted record, in the style of a backtest replay loop.
type Engine struct {
	logger *zap.Logger
}

// NewEngine returns a replay engine. A nil logger falls back to a no-op
// logger, matching the teacher's constructor convention.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Run feeds samples through a freshly constructed pipeline for subject
// in arrival order and returns every emitted record.
func (e *Engine) Run(subject string, cfg pipeline.Config, samples []types.Sample) Result {
	p := pipeline.New(subject, cfg)
	steps := make([]types.StepRecord, 0, len(samples))

	for _, s := range samples {
		steps = append(steps, p.Step(s))
	}

	e.logger.Debug("scenario replay complete", zap.String("subject", subject), zap.Int("steps", len(steps)))

	return Result{Steps: steps, Rupture: p.Rupture()}
}
