package fakeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// healthHandler serves GET /health (liveness) and GET /health/ready
// (readiness: the data store answers).
type healthHandler struct {
	store *Store
}

func newHealthHandler(store *Store) *healthHandler {
	return &healthHandler{store: store}
}

func (h *healthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *healthHandler) Readiness(c echo.Context) error {
	deps := make(map[string]dependencyStatus)
	status, httpStatus := "ok", http.StatusOK

	if err := h.store.Ping(); err != nil {
		deps["store"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	} else {
		deps["store"] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
