package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// FigureSummary describes the figure currently shown by the viewer
type FigureSummary struct {
	Title         string           `json:"title" doc:"Chart title"`
	Kind          string           `json:"kind" enum:"trace,bandwidth" doc:"Plot kind"`
	SampleCount   int              `json:"sample_count" doc:"Number of samples per sequence"`
	ThresholdDB   *float64         `json:"threshold_db,omitempty" doc:"Bandwidth threshold in dB"`
	BandwidthHz   *float64         `json:"bandwidth_hz,omitempty" doc:"Bandwidth frequency in Hz, absent when not found"`
	Response      []FrequencyPoint `json:"response,omitempty" doc:"Frequency response points (bandwidth plots only)"`
	MeasurementID string           `json:"measurement_id" doc:"Measurement identifier"`
}

// GetFigureResponse represents the figure summary response
type GetFigureResponse struct {
	Body FigureSummary
}

// CloseViewerResponse represents the response from dismissing the viewer
type CloseViewerResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// ListMeasurementsRequest represents a request for recent measurements
type ListMeasurementsRequest struct {
	Limit int `query:"limit" default:"20" minimum:"1" maximum:"200" doc:"Maximum number of measurements"`
}

// ListMeasurementsResponse represents recent measurements, newest first
type ListMeasurementsResponse struct {
	Body struct {
		Measurements []*Measurement `json:"measurements" doc:"Recent measurements"`
	}
}

// GetMeasurementRequest represents a request for one measurement
type GetMeasurementRequest struct {
	ID string `path:"id" doc:"Measurement ID"`
}

// GetMeasurementResponse represents a single measurement
type GetMeasurementResponse struct {
	Body *Measurement
}
