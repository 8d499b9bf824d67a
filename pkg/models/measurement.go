package models

import (
	"time"
)

// Measurement kinds
const (
	KindTrace     = "trace"
	KindBandwidth = "bandwidth"
)

// Measurement records one plotting run (for internal use and history)
type Measurement struct {
	ID          string    `json:"id" doc:"Measurement unique identifier"`
	Kind        string    `json:"kind" enum:"trace,bandwidth" doc:"Plot kind"`
	Sources     []string  `json:"sources" doc:"Resolved input locations"`
	SampleCount int       `json:"sample_count" doc:"Number of samples loaded per sequence"`
	ThresholdDB *float64  `json:"threshold_db,omitempty" doc:"Bandwidth threshold in dB"`
	BandwidthHz *float64  `json:"bandwidth_hz,omitempty" doc:"First frequency at or below the threshold"`
	ChartKey    *string   `json:"chart_key,omitempty" doc:"Object key of the archived chart"`
	CreatedAt   time.Time `json:"created_at" doc:"When the run finished"`
}

// HasBandwidth reports whether a bandwidth frequency was found
func (m *Measurement) HasBandwidth() bool {
	return m.BandwidthHz != nil
}
