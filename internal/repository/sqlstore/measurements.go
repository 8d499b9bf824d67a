package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/sweepplot/internal/repository"
	"github.com/RMahshie/sweepplot/pkg/models"
	"github.com/google/uuid"
)

// MeasurementRepository implements repository.MeasurementRepository over database/sql
type MeasurementRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewMeasurementRepository creates a new measurement repository
func NewMeasurementRepository(db *sql.DB, dialect Dialect) repository.MeasurementRepository {
	return &MeasurementRepository{db: db, dialect: dialect}
}

// Create inserts a new measurement record
func (r *MeasurementRepository) Create(ctx context.Context, m *models.Measurement) error {
	sources, err := json.Marshal(m.Sources)
	if err != nil {
		return fmt.Errorf("failed to marshal sources: %w", err)
	}

	query := `
		INSERT INTO measurements (id, kind, sources, sample_count, threshold_db, bandwidth_hz, chart_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, r.dialect.Rebind(query),
		m.ID,
		m.Kind,
		string(sources),
		m.SampleCount,
		nullFloat(m.ThresholdDB),
		nullFloat(m.BandwidthHz),
		nullString(m.ChartKey),
		m.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert measurement %s: %w", m.ID, err)
	}

	return nil
}

// GetByID retrieves a measurement by ID
func (r *MeasurementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Measurement, error) {
	query := `
		SELECT id, kind, sources, sample_count, threshold_db, bandwidth_hz, chart_key, created_at
		FROM measurements
		WHERE id = $1`

	m, err := scanMeasurement(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}

// ListRecent retrieves up to limit measurements, newest first
func (r *MeasurementRepository) ListRecent(ctx context.Context, limit int) ([]*models.Measurement, error) {
	query := `
		SELECT id, kind, sources, sample_count, threshold_db, bandwidth_hz, chart_key, created_at
		FROM measurements
		ORDER BY created_at DESC, id
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := []*models.Measurement{}
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}

	return measurements, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeasurement(row scanner) (*models.Measurement, error) {
	var m models.Measurement
	var sources string
	var thresholdDB, bandwidthHz sql.NullFloat64
	var chartKey sql.NullString
	var createdAt int64

	err := row.Scan(
		&m.ID,
		&m.Kind,
		&sources,
		&m.SampleCount,
		&thresholdDB,
		&bandwidthHz,
		&chartKey,
		&createdAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(sources), &m.Sources); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sources: %w", err)
	}
	if thresholdDB.Valid {
		m.ThresholdDB = &thresholdDB.Float64
	}
	if bandwidthHz.Valid {
		m.BandwidthHz = &bandwidthHz.Float64
	}
	if chartKey.Valid {
		m.ChartKey = &chartKey.String
	}
	m.CreatedAt = time.UnixMilli(createdAt).UTC()

	return &m, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
