package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/sweepplot/internal/repository"
	"github.com/RMahshie/sweepplot/pkg/models"
)

const defaultListLimit = 20

// Session is the figure currently on display
type Session interface {
	Summary() models.FigureSummary
	Close()
}

// ViewerHandler handles viewer HTTP requests
type ViewerHandler struct {
	session Session
	repo    repository.MeasurementRepository
	version string
}

// NewViewerHandler creates a new viewer handler. repo may be nil when
// measurement history is disabled.
func NewViewerHandler(session Session, repo repository.MeasurementRepository, version string) *ViewerHandler {
	return &ViewerHandler{
		session: session,
		repo:    repo,
		version: version,
	}
}

// Health reports that the viewer is up
func (h *ViewerHandler) Health(ctx context.Context, _ *struct{}) (*models.HealthResponse, error) {
	resp := &models.HealthResponse{}
	resp.Body.Status = "healthy"
	resp.Body.Version = h.version
	resp.Body.Time = time.Now()
	return resp, nil
}

// GetFigure returns a summary of the displayed figure
func (h *ViewerHandler) GetFigure(ctx context.Context, _ *struct{}) (*models.GetFigureResponse, error) {
	return &models.GetFigureResponse{Body: h.session.Summary()}, nil
}

// CloseViewer dismisses the viewer, which unblocks the waiting command
func (h *ViewerHandler) CloseViewer(ctx context.Context, _ *struct{}) (*models.CloseViewerResponse, error) {
	log.Info().Msg("Viewer dismissed")
	h.session.Close()

	resp := &models.CloseViewerResponse{}
	resp.Body.Message = "Viewer closed"
	return resp, nil
}

// ListMeasurements returns recent measurements, newest first
func (h *ViewerHandler) ListMeasurements(ctx context.Context, req *models.ListMeasurementsRequest) (*models.ListMeasurementsResponse, error) {
	if h.repo == nil {
		return nil, huma.Error503ServiceUnavailable("Measurement history is disabled")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	measurements, err := h.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list measurements", err)
	}

	resp := &models.ListMeasurementsResponse{}
	resp.Body.Measurements = measurements
	return resp, nil
}

// GetMeasurement returns a single measurement
func (h *ViewerHandler) GetMeasurement(ctx context.Context, req *models.GetMeasurementRequest) (*models.GetMeasurementResponse, error) {
	if h.repo == nil {
		return nil, huma.Error503ServiceUnavailable("Measurement history is disabled")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid measurement ID", err)
	}

	measurement, err := h.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error404NotFound("Measurement not found", err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get measurement", err)
	}

	return &models.GetMeasurementResponse{Body: measurement}, nil
}
