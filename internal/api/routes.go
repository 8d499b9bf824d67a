package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/sweepplot/internal/api/handlers"
)

// RegisterRoutes sets up all viewer API routes
func RegisterRoutes(api huma.API, h *handlers.ViewerHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the viewer",
	}, h.Health)

	huma.Register(api, huma.Operation{
		OperationID: "getFigure",
		Method:      http.MethodGet,
		Path:        "/api/figure",
		Summary:     "Get displayed figure",
		Description: "Returns the title, sample count and bandwidth result of the displayed chart",
		Tags:        []string{"Viewer"},
	}, h.GetFigure)

	huma.Register(api, huma.Operation{
		OperationID: "closeViewer",
		Method:      http.MethodPost,
		Path:        "/api/close",
		Summary:     "Close the viewer",
		Description: "Dismisses the chart and lets the command exit",
		Tags:        []string{"Viewer"},
	}, h.CloseViewer)

	huma.Register(api, huma.Operation{
		OperationID: "listMeasurements",
		Method:      http.MethodGet,
		Path:        "/api/measurements",
		Summary:     "List measurements",
		Description: "Returns recent measurements, newest first",
		Tags:        []string{"History"},
	}, h.ListMeasurements)

	huma.Register(api, huma.Operation{
		OperationID: "getMeasurement",
		Method:      http.MethodGet,
		Path:        "/api/measurements/{id}",
		Summary:     "Get measurement",
		Description: "Returns a single recorded measurement",
		Tags:        []string{"History"},
	}, h.GetMeasurement)
}
