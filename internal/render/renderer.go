package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrInvalidFigure is returned for curves with mismatched X/Y lengths or
	// axis ranges that cannot be drawn.
	ErrInvalidFigure = errors.New("invalid figure")
	// ErrEmptyFigure is returned when no curve has a drawable point.
	ErrEmptyFigure = errors.New("nothing to draw")
)

var gridStyle = chart.Style{
	StrokeColor: drawing.ColorFromHex("d9d9d9"),
	StrokeWidth: 1,
}

// Renderer draws figures with go-chart
type Renderer struct {
	provider chart.RendererProvider
}

// NewRenderer creates a renderer producing PNG images
func NewRenderer() *Renderer {
	return &Renderer{provider: chart.PNG}
}

// ContentType is the MIME type of the rendered output
func (r *Renderer) ContentType() string {
	return "image/png"
}

// Render draws fig and writes the encoded image to w
func (r *Renderer) Render(w io.Writer, fig Figure) error {
	ch, err := buildChart(fig)
	if err != nil {
		return err
	}
	if err := ch.Render(r.provider, w); err != nil {
		return fmt.Errorf("failed to render %q: %w", fig.Title, err)
	}
	return nil
}

// buildChart projects every curve into axis space and lays out the chart.
// Log axes are drawn by plotting log10 values; ticks are labelled in data units.
func buildChart(fig Figure) (chart.Chart, error) {
	var (
		series       []chart.Series
		xSpan, ySpan span
	)

	for i, c := range fig.Curves {
		if len(c.X) != len(c.Y) {
			return chart.Chart{}, fmt.Errorf("%w: curve %d (%q) has %d x values and %d y values",
				ErrInvalidFigure, i, c.Label, len(c.X), len(c.Y))
		}

		xs := make([]float64, 0, len(c.X))
		ys := make([]float64, 0, len(c.Y))
		for j := range c.X {
			x, okX := project(fig.X.Scale, c.X[j])
			y, okY := project(fig.Y.Scale, c.Y[j])
			if !okX || !okY {
				continue
			}
			xs = append(xs, x)
			ys = append(ys, y)
			xSpan.add(x)
			ySpan.add(y)
		}
		if len(xs) == 0 {
			continue
		}

		series = append(series, chart.ContinuousSeries{
			Name:    c.Label,
			Style:   chart.Style{StrokeColor: c.Color, StrokeWidth: 1.5},
			XValues: xs,
			YValues: ys,
		})
	}
	if len(series) == 0 {
		return chart.Chart{}, fmt.Errorf("%w: %q", ErrEmptyFigure, fig.Title)
	}

	xRange, err := axisRange(fig.X, xSpan, 0)
	if err != nil {
		return chart.Chart{}, err
	}
	yRange, err := axisRange(fig.Y, ySpan, 0.05)
	if err != nil {
		return chart.Chart{}, err
	}

	if m := fig.Marker; m != nil {
		if x, ok := project(fig.X.Scale, m.X); ok && x >= xRange.Min && x <= xRange.Max {
			series = append(series, chart.ContinuousSeries{
				Name: m.Label,
				Style: chart.Style{
					StrokeColor:     m.Color,
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{2, 4},
				},
				XValues: []float64{x, x},
				YValues: []float64{yRange.Min, yRange.Max},
			})
		}
	}

	width, height := fig.Width, fig.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	ch := chart.Chart{
		Title:      fig.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           fig.X.Label,
			Range:          xRange,
			Ticks:          axisTicks(fig.X.Scale, xRange),
			ValueFormatter: formatter(fig.X.Scale),
		},
		YAxis: chart.YAxis{
			Name:           fig.Y.Label,
			Range:          yRange,
			Ticks:          axisTicks(fig.Y.Scale, yRange),
			ValueFormatter: formatter(fig.Y.Scale),
		},
		Series: series,
	}

	if fig.Grid {
		ch.XAxis.GridMajorStyle, ch.XAxis.GridMinorStyle = gridStyle, gridStyle
		ch.YAxis.GridMajorStyle, ch.YAxis.GridMinorStyle = gridStyle, gridStyle
	} else {
		hidden := chart.Style{Hidden: true}
		ch.XAxis.GridMajorStyle, ch.XAxis.GridMinorStyle = hidden, hidden
		ch.YAxis.GridMajorStyle, ch.YAxis.GridMinorStyle = hidden, hidden
	}

	if fig.Legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch, nil
}

// project maps v into axis space. Non-finite values, and non-positive values
// on a log axis, are not drawable.
func project(scale Scale, v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if scale == Log {
		if v <= 0 {
			return 0, false
		}
		return math.Log10(v), true
	}
	return v, true
}

type span struct {
	min, max float64
	seen     bool
}

func (s *span) add(v float64) {
	if !s.seen {
		s.min, s.max, s.seen = v, v, true
		return
	}
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
}

// axisRange returns the axis extent in axis space: the configured range when
// set, otherwise the data span widened by margin on both sides.
func axisRange(axis Axis, data span, margin float64) (*chart.ContinuousRange, error) {
	if axis.Range != nil {
		lo, okLo := project(axis.Scale, axis.Range.Min)
		hi, okHi := project(axis.Scale, axis.Range.Max)
		if !okLo || !okHi || lo >= hi {
			return nil, fmt.Errorf("%w: %s axis range [%g, %g] on a %s scale",
				ErrInvalidFigure, axis.Label, axis.Range.Min, axis.Range.Max, axis.Scale)
		}
		return &chart.ContinuousRange{Min: lo, Max: hi}, nil
	}

	lo, hi := data.min, data.max
	pad := (hi - lo) * margin
	if hi == lo {
		// Single-valued data still needs a non-zero extent.
		pad = math.Max(math.Abs(lo)*0.1, 0.5)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}, nil
}

// axisTicks returns explicit ticks for log axes. Linear axes use go-chart's
// own tick generation.
func axisTicks(scale Scale, r *chart.ContinuousRange) []chart.Tick {
	if scale != Log {
		return nil
	}
	return logTicks(r.Min, r.Max)
}

// logTicks places ticks at each decade between lo and hi (log10 units),
// adding 2x and 5x subdivisions when the range spans under two decades.
func logTicks(lo, hi float64) []chart.Tick {
	mantissas := []float64{1}
	if hi-lo < 2 {
		mantissas = []float64{1, 2, 5}
	}

	const eps = 1e-9
	var ticks []chart.Tick
	for k := math.Floor(lo); k <= math.Ceil(hi); k++ {
		for _, m := range mantissas {
			v := k + math.Log10(m)
			if v < lo-eps || v > hi+eps {
				continue
			}
			ticks = append(ticks, chart.Tick{Value: v, Label: formatValue(math.Pow(10, v))})
		}
	}
	if len(ticks) < 2 {
		return nil
	}
	return ticks
}

func formatter(scale Scale) chart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return fmt.Sprintf("%v", v)
		}
		if scale == Log {
			f = math.Pow(10, f)
		}
		return formatValue(f)
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
