// Package fleet runs N independently-owned pipelines concurrently — one
// goroutine per subject, each with its own buffers, consistent with the
// no-shared-state rule the core pipeline requires (§5). This is the
// dyadic-and-beyond multi-subject runner; it performs no cross-subject
// computation of its own.
package fleet

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vagus-labs/coherence-pipeline/internal/pipeline"
	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// DefaultQueueSize bounds how many unconsumed samples a subject's lane
// may buffer before Submit blocks.
const DefaultQueueSize = 256

// Pool fans inbound samples, keyed by subject ID, to one independent
// Pipeline goroutine per subject, and fans emitted records back out
// through a shared EmissionSink.
type Pool struct {
	logger *zap.Logger
	cfg    pipeline.Config
	sink   pipeline.EmissionSink

	mu      sync.Mutex
	lanes   map[string]*lane
	wg      sync.WaitGroup
}

type lane struct {
	pipe  *pipeline.Pipeline
	queue chan types.Sample
}

// NewPool returns an empty Pool. A nil logger falls back to a no-op
// logger.
func NewPool(logger *zap.Logger, cfg pipeline.Config, sink pipeline.EmissionSink) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		logger: logger,
		cfg:    cfg,
		sink:   sink,
		lanes:  make(map[string]*lane),
	}
}

// Submit routes a sample to its subject's lane, spawning a new pipeline
// goroutine on first use. Implements pipeline.InputSink for a given
// subject is done via SubjectInput.
func (p *Pool) Submit(subjectID string, s types.Sample) {
	l := p.laneFor(subjectID)
	l.queue <- s
}

// SubjectInput returns an InputSink bound to one subject's lane, for
// callers (e.g. a per-connection transport handler) that want a narrow
// interface instead of holding the whole Pool.
func (p *Pool) SubjectInput(subjectID string) pipeline.InputSink {
	return subjectInput{pool: p, subjectID: subjectID}
}

type subjectInput struct {
	pool      *Pool
	subjectID string
}

func (s subjectInput) Submit(sample types.Sample) { s.pool.Submit(s.subjectID, sample) }

func (p *Pool) laneFor(subjectID string) *lane {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.lanes[subjectID]; ok {
		return l
	}

	pipe := pipeline.New(subjectID, p.cfg)
	l := &lane{pipe: pipe, queue: make(chan types.Sample, DefaultQueueSize)}
	p.lanes[subjectID] = l

	p.sink.OnHeader(pipe.Header())

	p.wg.Add(1)
	go p.run(l)

	return l
}

func (p *Pool) run(l *lane) {
	defer p.wg.Done()
	sessionID := l.pipe.Header().SessionID
	subject := l.pipe.SubjectID()

	ruptureRecorder, recordsRupture := p.sink.(pipeline.RuptureRecorder)
	admissionRecorder, recordsAdmission := p.sink.(pipeline.AdmissionRecorder)

	for s := range l.queue {
		rec := l.pipe.Step(s)
		p.sink.OnStep(sessionID, rec)

		if recordsAdmission {
			admitted, dropped := l.pipe.LastAdmission()
			admissionRecorder.RecordAdmission(subject, admitted, dropped)
		}
		if recordsRupture && l.pipe.Rupture().Detected {
			ruptureRecorder.RecordRupture(subject)
		}
	}
}

// Close stops accepting new samples for every subject and waits for
// their lanes to drain. Subjects already running continue to receive
// samples submitted before Close is called.
func (p *Pool) Close() {
	p.mu.Lock()
	lanes := make([]*lane, 0, len(p.lanes))
	for _, l := range p.lanes {
		lanes = append(lanes, l)
	}
	p.mu.Unlock()

	for _, l := range lanes {
		close(l.queue)
	}
	p.wg.Wait()
}

// Subjects returns the subject IDs with an active lane.
func (p *Pool) Subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.lanes))
	for id := range p.lanes {
		out = append(out, id)
	}
	return out
}
