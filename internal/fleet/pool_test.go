package fleet

import (
	"sync"
	"testing"
	"time"

	"github.com/vagus-labs/coherence-pipeline/internal/pipeline"
	"github.com/vagus-labs/coherence-pipeline/internal/session"
	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

type recordingSink struct {
	mu      sync.Mutex
	headers []session.Header
	steps   map[string]int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{steps: make(map[string]int)}
}

func (r *recordingSink) OnHeader(h session.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers = append(r.headers, h)
}

func (r *recordingSink) OnStep(sessionID string, _ types.StepRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[sessionID]++
}

func (r *recordingSink) headerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.headers)
}

func (r *recordingSink) totalSteps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, n := range r.steps {
		total += n
	}
	return total
}

// TestDyadicFleetRunsIndependentLanes feeds two subjects' samples
// through a shared Pool and checks each gets its own session header and
// step count, with no cross-subject interference (§5).
func TestDyadicFleetRunsIndependentLanes(t *testing.T) {
	sink := newRecordingSink()
	pool := NewPool(nil, pipeline.Config{}, sink)

	alice := pool.SubjectInput("alice")
	bob := pool.SubjectInput("bob")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		alice.Submit(types.Sample{Timestamp: ts, HeartRate: 60, RR: []int{1000}, SensorContact: true})
		bob.Submit(types.Sample{Timestamp: ts, HeartRate: 70, RR: []int{820}, SensorContact: true})
	}

	pool.Close()

	if sink.headerCount() != 2 {
		t.Fatalf("expected 2 session headers, got %d", sink.headerCount())
	}
	if sink.totalSteps() != 20 {
		t.Fatalf("expected 20 total steps across both subjects, got %d", sink.totalSteps())
	}
	if len(pool.Subjects()) != 2 {
		t.Fatalf("expected 2 tracked subjects, got %d", len(pool.Subjects()))
	}
}

type recorderSink struct {
	*recordingSink

	mu         sync.Mutex
	admissions []int // admitted count per call
	drops      []int
	ruptures   []string
}

func (r *recorderSink) RecordAdmission(subject string, admitted, dropped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admissions = append(r.admissions, admitted)
	r.drops = append(r.drops, dropped)
}

func (r *recorderSink) RecordRupture(subject string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ruptures = append(r.ruptures, subject)
}

// TestPoolCallsOptionalRecorderInterfaces checks that a sink implementing
// pipeline.AdmissionRecorder gets told about every step's admitted/dropped
// RR counts, without requiring every EmissionSink to implement it.
func TestPoolCallsOptionalRecorderInterfaces(t *testing.T) {
	sink := &recorderSink{recordingSink: newRecordingSink()}
	pool := NewPool(nil, pipeline.Config{}, sink)

	carol := pool.SubjectInput("carol")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		carol.Submit(types.Sample{Timestamp: ts, HeartRate: 60, RR: []int{1000, 1600}, SensorContact: true})
	}
	pool.Close()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.admissions) != 5 {
		t.Fatalf("expected 5 admission recordings, got %d", len(sink.admissions))
	}
	for i, admitted := range sink.admissions {
		if admitted != 1 {
			t.Fatalf("step %d: admitted = %d, want 1 (one in-range RR per sample)", i, admitted)
		}
	}
	for i, dropped := range sink.drops {
		if dropped != 1 {
			t.Fatalf("step %d: dropped = %d, want 1 (one out-of-range RR per sample)", i, dropped)
		}
	}
}
