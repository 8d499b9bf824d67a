package models

// FrequencyPoint represents a single frequency measurement
type FrequencyPoint struct {
	Frequency float64 `json:"frequency" doc:"Frequency in Hz"`
	Magnitude float64 `json:"magnitude" doc:"Magnitude in dB"`
}

// FrequencyResponse zips index-aligned frequency and magnitude sequences.
// The result is truncated to the shorter of the two.
func FrequencyResponse(frequencies, magnitudes []float64) []FrequencyPoint {
	n := min(len(frequencies), len(magnitudes))
	points := make([]FrequencyPoint, n)
	for i := range n {
		points[i] = FrequencyPoint{Frequency: frequencies[i], Magnitude: magnitudes[i]}
	}
	return points
}
