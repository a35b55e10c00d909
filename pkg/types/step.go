package types

import "time"

// StepRecord is the immutable, schema-versioned per-sample emission
// produced by the pipeline. Field names follow the wire schema (§6.2 of
// the spec) rather than Go naming conventions in the nested JSON maps.
type StepRecord struct {
	Timestamp time.Time `json:"ts"`
	HeartRate int       `json:"hr"`
	RR        []int     `json:"rr"`

	Metrics StepMetrics `json:"metrics"`
	Phase   StepPhase   `json:"phase"`
}

// StepMetrics mirrors the "metrics" object of the schema.
type StepMetrics struct {
	Amplitude        int      `json:"amp"`
	Entrainment      float64  `json:"ent"`
	EntrainmentLabel string   `json:"ent_label"`
	BreathRate       *float64 `json:"breath,omitempty"`
	Volatility       float64  `json:"volatility"`
	Mode             string   `json:"mode"`
	ModeScore        float64  `json:"mode_score"`
}

// StepPhase mirrors the "phase" object of the schema.
type StepPhase struct {
	Position           Position3      `json:"position"`
	Velocity           Position3      `json:"velocity"`
	VelocityMagnitude  float64        `json:"velocity_mag"`
	Curvature          float64        `json:"curvature"`
	Stability          float64        `json:"stability"`
	HistorySignature   float64        `json:"history_signature"`
	PhaseLabel         string         `json:"phase_label"`
	Coherence          float64        `json:"coherence"`
	MovementAnnotation string         `json:"movement_annotation"`
	MovementAwareLabel string         `json:"movement_aware_label"`
	ModeStatus         ModeStatus     `json:"mode_status"`
	DwellTime          float64        `json:"dwell_time"`
	AccelerationMag    float64        `json:"acceleration_mag"`
	SoftMode           StepSoftMode   `json:"soft_mode"`
}

// StepSoftMode mirrors the "soft_mode" object of the schema. Only the
// top-3 modes by weight are carried in Membership, per §6.2.
type StepSoftMode struct {
	Primary           ModeName           `json:"primary"`
	Secondary         ModeName           `json:"secondary"`
	Ambiguity         float64            `json:"ambiguity"`
	DistributionShift *float64           `json:"distribution_shift,omitempty"`
	Membership        map[ModeName]float64 `json:"membership"`
}

// SchemaVersion is the current emitted schema version (§6.2).
const SchemaVersion = "1.1.0"
