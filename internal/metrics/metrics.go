// Package metrics exposes a Prometheus registry for the pipeline's
// throughput and classifier behavior, scraped over /metrics (§9 of the
// design notes — the original websocket_server only logged ad hoc
// throughput counters; this promotes that to real registered metrics).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry groups every metric the pipeline and its surrounding API
// server emit. A single Registry is shared across all subjects in a
// fleet. Every metric except ActiveSubjects carries a subject label;
// ModeTransitions also carries from/to mode labels and CurrentModeScore
// a mode label.
type Registry struct {
	SamplesProcessed   *prometheus.CounterVec
	SamplesAdmitted    *prometheus.CounterVec
	SamplesDropped     *prometheus.CounterVec
	StepDuration       *prometheus.HistogramVec
	ModeTransitions    *prometheus.CounterVec
	RupturesDetected   *prometheus.CounterVec
	ActiveSubjects     prometheus.Gauge
	CurrentModeScore   *prometheus.GaugeVec
	ClassifierAmbiguity *prometheus.GaugeVec
}

// New registers every metric against reg and returns the Registry.
// Passing prometheus.NewRegistry() keeps tests isolated from the global
// default registry.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		SamplesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coherence",
			Name:      "samples_processed_total",
			Help:      "Total inbound samples admitted to a pipeline.",
		}, []string{"subject"}),

		SamplesAdmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coherence",
			Name:      "samples_admitted_total",
			Help:      "Total RR values that passed the physiological admission filter.",
		}, []string{"subject"}),

		SamplesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coherence",
			Name:      "samples_dropped_total",
			Help:      "Total RR values rejected by the physiological admission filter.",
		}, []string{"subject"}),

		StepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coherence",
			Name:      "step_duration_seconds",
			Help:      "Wall-clock time for the instrumented emission sink to record and forward one step record.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"subject"}),

		ModeTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coherence",
			Name:      "mode_transitions_total",
			Help:      "Total hysteresis state machine mode transitions.",
		}, []string{"subject", "from", "to"}),

		RupturesDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coherence",
			Name:      "ruptures_detected_total",
			Help:      "Total rupture-oscillation detections.",
		}, []string{"subject"}),

		ActiveSubjects: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "coherence",
			Name:      "active_subjects",
			Help:      "Number of subjects currently running in the fleet pool.",
		}),

		CurrentModeScore: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "coherence",
			Name:      "current_mode_score",
			Help:      "Most recently emitted mode_score per subject, labeled by its current mode.",
		}, []string{"subject", "mode"}),

		ClassifierAmbiguity: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "coherence",
			Name:      "classifier_ambiguity",
			Help:      "Most recently emitted soft-mode ambiguity per subject.",
		}, []string{"subject"}),
	}
}
