package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	version string
	batches *BatchHandler
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, batches *BatchHandler) *HealthHandler {
	return &HealthHandler{version: version, batches: batches}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	BatchRunning bool   `json:"batch_running"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.batches != nil {
		response.BatchRunning = h.batches.Running()
	}
	c.JSON(http.StatusOK, response)
}
