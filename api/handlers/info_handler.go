package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/tubefetch/internal/app"
	"github.com/yourusername/tubefetch/internal/domain"
)

// InfoHandler serves video metadata lookups
type InfoHandler struct {
	service *app.DownloadService
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(service *app.DownloadService) *InfoHandler {
	return &InfoHandler{service: service}
}

// GetInfo handles GET /api/v1/info?url=
func (h *InfoHandler) GetInfo(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'url' is required"})
		return
	}

	info, err := h.service.Info(c.Request.Context(), url)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrInvalidItem) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}
