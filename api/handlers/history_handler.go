package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
)

// HistoryHandler serves the attempt history
type HistoryHandler struct {
	repo   domain.AttemptRepository
	logger *zap.Logger
}

// NewHistoryHandler creates a new history handler. repo may be nil when history is disabled.
func NewHistoryHandler(repo domain.AttemptRepository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, logger: logger}
}

// ListAttempts handles GET /api/v1/attempts
func (h *HistoryHandler) ListAttempts(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var (
		attempts []*domain.Attempt
		err      error
	)
	if batchID := c.Query("batch_id"); batchID != "" {
		attempts, err = h.repo.FindByBatch(batchID)
	} else {
		limit, convErr := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if convErr != nil || limit < 0 {
			limit = 50
		}
		if limit > 1000 {
			limit = 1000
		}
		attempts, err = h.repo.FindRecent(limit, c.Query("failed") == "true")
	}
	if err != nil {
		h.logger.Error("Failed to list attempts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}

	if attempts == nil {
		attempts = []*domain.Attempt{}
	}
	c.JSON(http.StatusOK, gin.H{
		"attempts": attempts,
		"count":    len(attempts),
	})
}

// GetStats handles GET /api/v1/stats
func (h *HistoryHandler) GetStats(c *gin.Context) {
	if !h.available(c) {
		return
	}

	stats, err := h.repo.GetStats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *HistoryHandler) available(c *gin.Context) bool {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return false
	}
	return true
}
