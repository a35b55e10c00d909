// Package hysteresis implements the mode-history-driven state machine
// that turns a soft mode distribution into a single emitted mode with
// entry/exit asymmetric thresholds (§4.5), plus the rupture-oscillation
// detector (§4.7).
package hysteresis

import "github.com/vagus-labs/coherence-pipeline/pkg/types"

// Configs is the build-time constant hysteresis table (§6.3). Units:
// ProvisionalSeconds/EstablishedSeconds are seconds of dwell time — the
// spec names them "samples" but treats them as wall-clock duration at
// an assumed ~1Hz cadence; this package always compares them against
// dwell time in seconds derived from sample timestamps, never a sample
// count, so behavior is correct even if the emission rate drifts from
// 1Hz.
var Configs = map[types.ModeName]types.HysteresisConfig{
	types.ModeHeightenedAlertness: {EntryThreshold: 0.18, ExitThreshold: 0.24, ProvisionalSeconds: 3, EstablishedSeconds: 8, EntryPenalty: 0.85, SettledBonus: 1.05},
	types.ModeSubtleAlertness:     {EntryThreshold: 0.18, ExitThreshold: 0.24, ProvisionalSeconds: 3, EstablishedSeconds: 8, EntryPenalty: 0.85, SettledBonus: 1.05},
	types.ModeTransitional:        {EntryThreshold: 0.17, ExitThreshold: 0.22, ProvisionalSeconds: 2, EstablishedSeconds: 5, EntryPenalty: 0.90, SettledBonus: 1.00},
	types.ModeSettling:            {EntryThreshold: 0.19, ExitThreshold: 0.25, ProvisionalSeconds: 3, EstablishedSeconds: 10, EntryPenalty: 0.80, SettledBonus: 1.10},
	types.ModeEmergingCoherence:   {EntryThreshold: 0.20, ExitThreshold: 0.26, ProvisionalSeconds: 3, EstablishedSeconds: 10, EntryPenalty: 0.80, SettledBonus: 1.10},
	types.ModeCoherentPresence:    {EntryThreshold: 0.22, ExitThreshold: 0.28, ProvisionalSeconds: 5, EstablishedSeconds: 15, EntryPenalty: 0.75, SettledBonus: 1.15},
}
