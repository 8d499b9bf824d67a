package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/sweepplot/internal/repository"
	"github.com/RMahshie/sweepplot/pkg/models"
)

// MockMeasurementRepository implements repository.MeasurementRepository for testing
type MockMeasurementRepository struct {
	mock.Mock
}

func (m *MockMeasurementRepository) Create(ctx context.Context, measurement *models.Measurement) error {
	args := m.Called(ctx, measurement)
	return args.Error(0)
}

func (m *MockMeasurementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Measurement, error) {
	args := m.Called(ctx, id)
	measurement, _ := args.Get(0).(*models.Measurement)
	return measurement, args.Error(1)
}

func (m *MockMeasurementRepository) ListRecent(ctx context.Context, limit int) ([]*models.Measurement, error) {
	args := m.Called(ctx, limit)
	measurements, _ := args.Get(0).([]*models.Measurement)
	return measurements, args.Error(1)
}

// MockSession implements Session for testing
type MockSession struct {
	mock.Mock
}

func (m *MockSession) Summary() models.FigureSummary {
	args := m.Called()
	return args.Get(0).(models.FigureSummary)
}

func (m *MockSession) Close() {
	m.Called()
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var statusErr huma.StatusError
	require.True(t, errors.As(err, &statusErr), "expected huma status error, got %v", err)
	return statusErr.GetStatus()
}

func TestHealth(t *testing.T) {
	handler := NewViewerHandler(&MockSession{}, nil, "1.0.0")

	resp, err := handler.Health(context.Background(), &struct{}{})

	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.Body.Status)
	assert.Equal(t, "1.0.0", resp.Body.Version)
	assert.False(t, resp.Body.Time.IsZero())
}

func TestGetFigure(t *testing.T) {
	bandwidthHz := 30.0
	threshold := -3.0
	summary := models.FigureSummary{
		Title:       "Amplitude versus Frequency",
		Kind:        models.KindBandwidth,
		SampleCount: 4,
		ThresholdDB: &threshold,
		BandwidthHz: &bandwidthHz,
	}

	session := &MockSession{}
	session.On("Summary").Return(summary)
	handler := NewViewerHandler(session, nil, "1.0.0")

	resp, err := handler.GetFigure(context.Background(), &struct{}{})

	require.NoError(t, err)
	assert.Equal(t, summary, resp.Body)
	session.AssertExpectations(t)
}

func TestCloseViewer(t *testing.T) {
	session := &MockSession{}
	session.On("Close").Return().Once()
	handler := NewViewerHandler(session, nil, "1.0.0")

	resp, err := handler.CloseViewer(context.Background(), &struct{}{})

	require.NoError(t, err)
	assert.Equal(t, "Viewer closed", resp.Body.Message)
	session.AssertExpectations(t)
}

func TestListMeasurements(t *testing.T) {
	recent := []*models.Measurement{
		{ID: uuid.NewString(), Kind: models.KindBandwidth, CreatedAt: time.Now()},
		{ID: uuid.NewString(), Kind: models.KindTrace, CreatedAt: time.Now().Add(-time.Minute)},
	}

	tests := []struct {
		name       string
		limit      int
		mockSetup  func(*MockMeasurementRepository)
		wantStatus int
		wantCount  int
	}{
		{
			name:  "returns recent measurements",
			limit: 5,
			mockSetup: func(repo *MockMeasurementRepository) {
				repo.On("ListRecent", mock.Anything, 5).Return(recent, nil)
			},
			wantCount: 2,
		},
		{
			name:  "zero limit falls back to default",
			limit: 0,
			mockSetup: func(repo *MockMeasurementRepository) {
				repo.On("ListRecent", mock.Anything, defaultListLimit).Return([]*models.Measurement{}, nil)
			},
			wantCount: 0,
		},
		{
			name:  "repository failure",
			limit: 5,
			mockSetup: func(repo *MockMeasurementRepository) {
				repo.On("ListRecent", mock.Anything, 5).Return(nil, fmt.Errorf("connection refused"))
			},
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockMeasurementRepository{}
			tt.mockSetup(repo)
			handler := NewViewerHandler(&MockSession{}, repo, "1.0.0")

			resp, err := handler.ListMeasurements(context.Background(), &models.ListMeasurementsRequest{Limit: tt.limit})

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.Len(t, resp.Body.Measurements, tt.wantCount)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestGetMeasurement(t *testing.T) {
	id := uuid.New()
	stored := &models.Measurement{ID: id.String(), Kind: models.KindTrace, SampleCount: 128}

	tests := []struct {
		name       string
		id         string
		mockSetup  func(*MockMeasurementRepository)
		wantStatus int
	}{
		{
			name: "found",
			id:   id.String(),
			mockSetup: func(repo *MockMeasurementRepository) {
				repo.On("GetByID", mock.Anything, id).Return(stored, nil)
			},
		},
		{
			name:       "malformed id",
			id:         "not-a-uuid",
			mockSetup:  func(repo *MockMeasurementRepository) {},
			wantStatus: 400,
		},
		{
			name: "not found",
			id:   id.String(),
			mockSetup: func(repo *MockMeasurementRepository) {
				repo.On("GetByID", mock.Anything, id).Return(nil, fmt.Errorf("get measurement: %w", repository.ErrNotFound))
			},
			wantStatus: 404,
		},
		{
			name: "repository failure",
			id:   id.String(),
			mockSetup: func(repo *MockMeasurementRepository) {
				repo.On("GetByID", mock.Anything, id).Return(nil, fmt.Errorf("connection reset"))
			},
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockMeasurementRepository{}
			tt.mockSetup(repo)
			handler := NewViewerHandler(&MockSession{}, repo, "1.0.0")

			resp, err := handler.GetMeasurement(context.Background(), &models.GetMeasurementRequest{ID: tt.id})

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, stored, resp.Body)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestHistoryDisabled(t *testing.T) {
	handler := NewViewerHandler(&MockSession{}, nil, "1.0.0")

	_, err := handler.ListMeasurements(context.Background(), &models.ListMeasurementsRequest{Limit: 10})
	assert.Equal(t, 503, statusOf(t, err))

	_, err = handler.GetMeasurement(context.Background(), &models.GetMeasurementRequest{ID: uuid.NewString()})
	assert.Equal(t, 503, statusOf(t, err))
}
