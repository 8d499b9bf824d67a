// Package render draws line charts of sample sequences as PNG images.
package render

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/RMahshie/sweepplot/internal/bandwidth"
)

// Default canvas size in pixels
const (
	DefaultWidth  = 1200
	DefaultHeight = 600
)

// Scale selects how an axis maps data values to positions
type Scale int

const (
	Linear Scale = iota
	Log
)

func (s Scale) String() string {
	if s == Log {
		return "log"
	}
	return "linear"
}

// Range is a closed interval in data units
type Range struct {
	Min, Max float64
}

// Axis describes one chart axis. A nil Range fits the data.
type Axis struct {
	Label string
	Scale Scale
	Range *Range
}

// Curve is one line series. A zero Color picks the next palette color.
type Curve struct {
	X, Y  []float64
	Label string
	Color drawing.Color
}

// Marker is a vertical dotted line spanning the full y-range
type Marker struct {
	X     float64
	Label string
	Color drawing.Color
}

// Figure is everything needed to draw one chart
type Figure struct {
	Title  string
	X, Y   Axis
	Curves []Curve
	Marker *Marker
	Legend bool
	Grid   bool
	Width  int
	Height int
}

// SampleCount returns the length of the longest curve
func (f Figure) SampleCount() int {
	n := 0
	for _, c := range f.Curves {
		n = max(n, len(c.Y))
	}
	return n
}

// TraceFigure plots samples against their index as a time-domain trace
func TraceFigure(samples []float64) Figure {
	index := make([]float64, len(samples))
	for i := range index {
		index[i] = float64(i)
	}

	return Figure{
		Title: "FIR Filtered Signal Plot",
		X:     Axis{Label: "Time", Scale: Linear},
		Y:     Axis{Label: "Amplitude", Scale: Linear},
		Curves: []Curve{
			{X: index, Y: samples, Label: "Signal", Color: chart.ColorBlue},
		},
		Grid:   true,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// ResponseFigure plots amplitude in dB against a logarithmic frequency axis.
// The bandwidth marker is only drawn when result was found.
func ResponseFigure(frequencies, amplitudes []float64, result bandwidth.Result, threshold float64) Figure {
	fig := Figure{
		Title: "Amplitude versus Frequency",
		X:     Axis{Label: "Frequency (Hz)", Scale: Log},
		Y:     Axis{Label: "Amplitude (dB)", Scale: Linear},
		Curves: []Curve{
			{X: frequencies, Y: amplitudes, Label: "Amplitude vs Frequency", Color: chart.ColorBlue},
		},
		Legend: true,
		Grid:   true,
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
	if result.Found {
		fig.Marker = &Marker{
			X:     result.Frequency,
			Label: bandwidth.MarkerLabel(result, threshold),
			Color: chart.ColorRed,
		}
	}
	return fig
}
