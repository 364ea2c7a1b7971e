package handlers

import (
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/app"
	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/internal/infrastructure"
)

// BatchHandler runs download batches submitted over HTTP. Batches are
// serialized so at most one fetch is in flight in the process.
type BatchHandler struct {
	service *app.DownloadService
	baseDir string
	logger  *zap.Logger

	mu      sync.Mutex
	running atomic.Bool
}

// NewBatchHandler creates a new batch handler. Request directories are
// resolved inside baseDir.
func NewBatchHandler(service *app.DownloadService, baseDir string, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{service: service, baseDir: baseDir, logger: logger}
}

// BatchRequest represents a request to run a batch
type BatchRequest struct {
	URLs    []string `json:"urls" binding:"required,min=1"`
	Format  string   `json:"format,omitempty"`
	Quality string   `json:"quality,omitempty"`
	Output  string   `json:"output,omitempty"`
	Dir     string   `json:"dir,omitempty"`
}

// Running reports whether a batch is in progress
func (h *BatchHandler) Running() bool {
	return h.running.Load()
}

// RunBatch handles POST /api/v1/batches
func (h *BatchHandler) RunBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	policy, err := h.service.BuildPolicy(domain.PolicyOptions{
		MediaKind: req.Format,
		Quality:   req.Quality,
		Container: req.Output,
		OutputDir: h.resolveDir(req.Dir),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := infrastructure.NewListSourceLoader(req.URLs).Load(c.Request.Context(), "")
	if err != nil || len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": app.ErrNoItems.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.running.Store(true)
	defer h.running.Store(false)

	h.logger.Info("Running batch from API",
		zap.Int("items", len(items)),
		zap.String("policy", policy.String()))

	summary := h.service.RunItems(c.Request.Context(), items, policy)
	c.JSON(http.StatusOK, summary)
}

// resolveDir keeps request directories below the configured download directory
func (h *BatchHandler) resolveDir(dir string) string {
	if dir == "" {
		return h.baseDir
	}
	return filepath.Join(h.baseDir, filepath.Clean("/"+dir))
}
