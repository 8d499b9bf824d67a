// Package app wires configuration, storage, history and the viewer into the
// plot commands.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/sweepplot/internal/config"
	"github.com/RMahshie/sweepplot/internal/processing"
	"github.com/RMahshie/sweepplot/internal/render"
	"github.com/RMahshie/sweepplot/internal/repository"
	"github.com/RMahshie/sweepplot/internal/repository/sqlstore"
	"github.com/RMahshie/sweepplot/internal/samples"
	"github.com/RMahshie/sweepplot/internal/storage"
	"github.com/RMahshie/sweepplot/internal/viewer"
	"github.com/RMahshie/sweepplot/pkg/models"
)

// SetupLogging configures the global zerolog logger. Logs go to stderr so
// stdout carries only command output.
func SetupLogging(level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// App holds the collaborators shared by the plot commands
type App struct {
	Config *config.Config
	Plots  processing.PlotService
	Viewer *viewer.Viewer

	db *sql.DB
}

// New loads configuration and connects the optional object store and
// measurement history
func New(ctx context.Context) (*App, error) {
	SetupLogging(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	SetupLogging(cfg.Log.Level)

	log.Debug().
		Str("env", cfg.Env).
		Str("baseDir", cfg.Inputs.BaseDir).
		Bool("storage", cfg.StorageEnabled()).
		Bool("history", cfg.HistoryEnabled()).
		Msg("Configuration loaded")

	a := &App{Config: cfg}

	opts := []processing.Option{
		processing.WithChartSize(processing.ChartSize{Width: cfg.Chart.Width, Height: cfg.Chart.Height}),
	}

	var objects samples.ObjectDownloader
	if cfg.StorageEnabled() {
		store, err := storage.NewS3Service(ctx, storage.S3Config{
			Bucket:    cfg.AWS.S3Bucket,
			Endpoint:  cfg.AWS.S3Endpoint,
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 service: %w", err)
		}
		objects = store
		log.Debug().Str("bucket", store.Bucket()).Bool("archive", cfg.AWS.ArchiveCharts).Msg("Object storage enabled")
		if cfg.AWS.ArchiveCharts {
			opts = append(opts, processing.WithArchive(store))
		}
	}

	var history repository.MeasurementRepository
	if cfg.HistoryEnabled() {
		db, dialect, err := sqlstore.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open measurement history: %w", err)
		}
		if err := sqlstore.EnsureSchema(ctx, db, dialect); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare measurement history: %w", err)
		}
		a.db = db
		history = sqlstore.NewMeasurementRepository(db, dialect)
		opts = append(opts, processing.WithHistory(history))
	}

	sources := processing.Sources{
		Trace:     cfg.Inputs.TraceFile,
		Amplitude: cfg.Inputs.AmplitudeFile,
		Frequency: cfg.Inputs.FrequencyFile,
	}
	a.Plots = processing.NewPlotService(samples.NewLoader(objects), render.NewRenderer(), sources, opts...)
	a.Viewer = viewer.New(viewer.Config{
		Addr:            cfg.Viewer.Addr,
		OpenBrowser:     cfg.Viewer.OpenBrowser,
		AllowedOrigins:  cfg.Viewer.AllowedOrigins,
		ShutdownTimeout: cfg.Viewer.ShutdownTimeout,
	}, history)

	return a, nil
}

// Display shows the report's chart and blocks until the viewer is dismissed
func (a *App) Display(ctx context.Context, report *processing.Report) error {
	return a.Viewer.Show(ctx, PageFor(report))
}

// Close releases the history database, if any
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close measurement history")
		}
	}
}

// PageFor turns a finished report into a viewer page
func PageFor(report *processing.Report) viewer.Page {
	m := report.Measurement
	return viewer.Page{
		Title:       report.Figure.Title,
		Caption:     report.Summary(),
		Chart:       report.Chart,
		ContentType: report.ContentType,
		Summary: models.FigureSummary{
			Title:         report.Figure.Title,
			Kind:          m.Kind,
			SampleCount:   m.SampleCount,
			ThresholdDB:   m.ThresholdDB,
			BandwidthHz:   m.BandwidthHz,
			Response:      report.Response,
			MeasurementID: m.ID,
		},
	}
}
