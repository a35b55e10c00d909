// Package types provides shared value types for the coherence pipeline.
//
// These types are intentionally behavior-free: they are the leaf module
// that both internal/phase and internal/movement depend on, so that
// neither needs to import the other (see the trajectory/movement cyclic
// import note in the design notes).
package types

import "time"

// Sample is one inbound reading from the sensor transport layer.
//
// Only Timestamp and RR feed the pipeline. HeartRate passes through
// unmodified to the emitted step record; SensorContact is not carried
// into the step record.
type Sample struct {
	Timestamp     time.Time `json:"ts"`
	HeartRate     int       `json:"hr"`
	RR            []int     `json:"rr"`
	SensorContact bool      `json:"sensorContact"`
}
