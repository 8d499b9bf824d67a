package processing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/sweepplot/internal/bandwidth"
	"github.com/RMahshie/sweepplot/internal/render"
	"github.com/RMahshie/sweepplot/internal/repository"
	"github.com/RMahshie/sweepplot/pkg/models"
)

// SampleLoader resolves a sample source to its values
type SampleLoader interface {
	Load(ctx context.Context, source string) ([]float64, error)
}

// ChartRenderer draws a figure
type ChartRenderer interface {
	Render(w io.Writer, fig render.Figure) error
	ContentType() string
}

// ChartArchive stores rendered charts
type ChartArchive interface {
	UploadFile(ctx context.Context, key string, contentType string, data []byte) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

// PlotService runs one plotting pipeline: load, locate, render, record
type PlotService interface {
	PlotTrace(ctx context.Context) (*Report, error)
	PlotBandwidth(ctx context.Context) (*Report, error)
}

// Sources names the inputs of each plot
type Sources struct {
	Trace     string
	Amplitude string
	Frequency string
}

// ChartSize overrides the figure canvas; zero keeps the figure default
type ChartSize struct {
	Width  int
	Height int
}

// Report is the outcome of one run
type Report struct {
	Measurement *models.Measurement
	Figure      render.Figure
	Chart       []byte
	ContentType string

	// Bandwidth and Response are only set for bandwidth plots
	Bandwidth bandwidth.Result
	Response  []models.FrequencyPoint
}

// Summary is the line printed to stdout, empty for trace plots
func (r *Report) Summary() string {
	if r.Measurement.Kind != models.KindBandwidth {
		return ""
	}
	return bandwidth.Summary(r.Bandwidth, *r.Measurement.ThresholdDB)
}

type plotService struct {
	loader   SampleLoader
	renderer ChartRenderer
	sources  Sources
	size     ChartSize

	// Optional: nil disables archiving or history
	archive    ChartArchive
	repository repository.MeasurementRepository

	now func() time.Time
}

// Option configures optional collaborators of the plot service
type Option func(*plotService)

// WithArchive uploads every rendered chart
func WithArchive(archive ChartArchive) Option {
	return func(s *plotService) { s.archive = archive }
}

// WithHistory records every run
func WithHistory(repo repository.MeasurementRepository) Option {
	return func(s *plotService) { s.repository = repo }
}

// WithChartSize overrides the canvas size of every figure
func WithChartSize(size ChartSize) Option {
	return func(s *plotService) { s.size = size }
}

func NewPlotService(loader SampleLoader, renderer ChartRenderer, sources Sources, opts ...Option) PlotService {
	s := &plotService{
		loader:   loader,
		renderer: renderer,
		sources:  sources,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *plotService) PlotTrace(ctx context.Context) (*Report, error) {
	// Step 1: Load the trace
	trace, err := s.loader.Load(ctx, s.sources.Trace)
	if err != nil {
		return nil, fmt.Errorf("failed to load trace: %w", err)
	}

	report := &Report{
		Measurement: &models.Measurement{
			Kind:        models.KindTrace,
			Sources:     []string{s.sources.Trace},
			SampleCount: len(trace),
		},
		Figure: render.TraceFigure(trace),
	}

	// Step 2: Render, archive, record
	if err := s.finish(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *plotService) PlotBandwidth(ctx context.Context) (*Report, error) {
	// Step 1: Load both sequences
	amplitudes, err := s.loader.Load(ctx, s.sources.Amplitude)
	if err != nil {
		return nil, fmt.Errorf("failed to load amplitudes: %w", err)
	}
	frequencies, err := s.loader.Load(ctx, s.sources.Frequency)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequencies: %w", err)
	}

	// Step 2: Locate the threshold crossing
	threshold := bandwidth.DefaultThreshold
	result, err := bandwidth.FindFrequency(amplitudes, frequencies, threshold)
	if err != nil {
		return nil, fmt.Errorf("%s and %s: %w", s.sources.Amplitude, s.sources.Frequency, err)
	}
	if result.Found {
		log.Info().Int("index", result.Index).Float64("frequency", result.Frequency).Msg("Bandwidth frequency located")
	} else {
		log.Warn().Float64("threshold_db", threshold).Msg("Response never reached the threshold")
	}

	measurement := &models.Measurement{
		Kind:        models.KindBandwidth,
		Sources:     []string{s.sources.Amplitude, s.sources.Frequency},
		SampleCount: len(amplitudes),
		ThresholdDB: &threshold,
	}
	if result.Found {
		measurement.BandwidthHz = &result.Frequency
	}

	report := &Report{
		Measurement: measurement,
		Figure:      render.ResponseFigure(frequencies, amplitudes, result, threshold),
		Bandwidth:   result,
		Response:    models.FrequencyResponse(frequencies, amplitudes),
	}

	// Step 3: Render, archive, record
	if err := s.finish(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// finish renders the report's figure, then archives and records it when
// those collaborators are configured
func (s *plotService) finish(ctx context.Context, report *Report) error {
	if s.size.Width > 0 {
		report.Figure.Width = s.size.Width
	}
	if s.size.Height > 0 {
		report.Figure.Height = s.size.Height
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, report.Figure); err != nil {
		return err
	}
	report.Chart = buf.Bytes()
	report.ContentType = s.renderer.ContentType()

	id := uuid.New()
	report.Measurement.ID = id.String()
	report.Measurement.CreatedAt = s.now().UTC()

	log.Info().
		Str("measurementID", report.Measurement.ID).
		Str("kind", report.Measurement.Kind).
		Int("samples", report.Measurement.SampleCount).
		Bool("bandwidthFound", report.Measurement.HasBandwidth()).
		Int("chartBytes", len(report.Chart)).
		Msg("Chart rendered")

	if s.archive != nil {
		key := fmt.Sprintf("charts/%s.png", id)
		if err := s.archive.UploadFile(ctx, key, report.ContentType, report.Chart); err != nil {
			return fmt.Errorf("failed to archive chart: %w", err)
		}
		report.Measurement.ChartKey = &key

		url, err := s.archive.GenerateDownloadURL(ctx, key)
		if err != nil {
			// The chart is stored; only the shareable link is missing
			log.Warn().Err(err).Str("key", key).Msg("Chart archived, failed to presign download URL")
		} else {
			log.Info().Str("key", key).Str("url", url).Msg("Chart archived")
		}
	}

	if s.repository != nil {
		if err := s.repository.Create(ctx, report.Measurement); err != nil {
			return fmt.Errorf("failed to record measurement: %w", err)
		}
		log.Debug().Str("measurementID", report.Measurement.ID).Msg("Measurement recorded")
	}

	return nil
}
