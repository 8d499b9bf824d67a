package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/sweepplot/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no measurement matches the requested ID
var ErrNotFound = errors.New("measurement not found")

// MeasurementRepository defines the interface for measurement history operations
type MeasurementRepository interface {
	Create(ctx context.Context, measurement *models.Measurement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Measurement, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Measurement, error)
}
