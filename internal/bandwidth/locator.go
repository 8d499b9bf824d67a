// Package bandwidth locates the frequency at which a measured response first
// drops to or below a decibel threshold.
package bandwidth

import (
	"errors"
	"fmt"
)

// DefaultThreshold is the conventional half-power point in dB.
const DefaultThreshold = -3.0

var (
	// ErrInvalidInput is returned when the amplitude and frequency sequences
	// are not index-aligned.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoBandwidthFound reports a sweep that never reached the threshold.
	ErrNoBandwidthFound = errors.New("no bandwidth frequency found")
)

// Result is the outcome of a threshold scan. Frequency and Index are only
// meaningful when Found is true.
type Result struct {
	Index     int
	Frequency float64
	Found     bool
}

// Err returns ErrNoBandwidthFound for an empty result and nil otherwise.
func (r Result) Err() error {
	if !r.Found {
		return ErrNoBandwidthFound
	}
	return nil
}

// FindFrequency scans amplitudes from index 0 upward and returns the
// frequency at the first index whose amplitude is <= threshold.
//
// Frequencies are expected in ascending order for the result to be the lower
// corner of the response; the order is not checked.
func FindFrequency(amplitudes, frequencies []float64, threshold float64) (Result, error) {
	if len(amplitudes) != len(frequencies) {
		return Result{}, fmt.Errorf("%w: %d amplitudes but %d frequencies",
			ErrInvalidInput, len(amplitudes), len(frequencies))
	}

	for i, amplitude := range amplitudes {
		if amplitude <= threshold {
			return Result{Index: i, Frequency: frequencies[i], Found: true}, nil
		}
	}
	return Result{}, nil
}

// Summary is the one-line report printed after a bandwidth scan.
func Summary(r Result, threshold float64) string {
	if !r.Found {
		return fmt.Sprintf("No bandwidth frequency found at or below %g dB", threshold)
	}
	return fmt.Sprintf("Bandwidth Frequency: %.4f Hz", r.Frequency)
}

// MarkerLabel is the legend entry for the bandwidth marker line.
func MarkerLabel(r Result, threshold float64) string {
	return fmt.Sprintf("%g dB at %.4f Hz", threshold, r.Frequency)
}
