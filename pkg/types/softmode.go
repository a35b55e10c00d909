package types

// ModeName identifies one of the six fixed autonomic modes, totally
// ordered by calmness from least to most settled.
type ModeName string

const (
	ModeHeightenedAlertness ModeName = "heightened alertness"
	ModeSubtleAlertness     ModeName = "subtle alertness"
	ModeTransitional        ModeName = "transitional"
	ModeSettling            ModeName = "settling"
	ModeEmergingCoherence   ModeName = "emerging coherence"
	ModeCoherentPresence    ModeName = "coherent presence"
)

// Modes lists all six fixed modes in calmness order. Build-time constant;
// never mutated.
var Modes = [6]ModeName{
	ModeHeightenedAlertness,
	ModeSubtleAlertness,
	ModeTransitional,
	ModeSettling,
	ModeEmergingCoherence,
	ModeCoherentPresence,
}

// Centroid4 is a point in the four-dimensional classification space
// (entrainment, breath_steady_score, amp_norm, inverse_volatility).
type Centroid4 [4]float64

// HysteresisConfig is the per-mode hysteresis configuration from
// spec §6.3. Entry thresholds are lower than exit thresholds by
// construction of the constant table, never enforced in code.
type HysteresisConfig struct {
	EntryThreshold      float64
	ExitThreshold       float64
	ProvisionalSeconds  float64
	EstablishedSeconds  float64
	EntryPenalty        float64
	SettledBonus        float64
}

// ModeStatus is the hysteresis state machine's confidence tier for the
// currently emitted mode.
type ModeStatus string

const (
	StatusUnknown     ModeStatus = "unknown"
	StatusProvisional ModeStatus = "provisional"
	StatusEstablished ModeStatus = "established"
)

// TransitionType classifies why the emitted mode changed (or didn't) on
// a given step.
type TransitionType string

const (
	TransitionNone  TransitionType = ""
	TransitionEntry TransitionType = "entry"
	TransitionExit  TransitionType = "exit"
	TransitionHold  TransitionType = "sustained"
)

// SoftModeDistribution is the per-step weighted membership across all
// six modes, plus the summary scalars derived from it.
type SoftModeDistribution struct {
	Membership       map[ModeName]float64
	Primary          ModeName
	Secondary        ModeName
	Ambiguity        float64
	DistributionShift *float64 // KL(p‖q) from the previous step, if one existed
}
