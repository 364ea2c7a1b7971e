package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/api/handlers"
	"github.com/yourusername/tubefetch/api/middleware"
	"github.com/yourusername/tubefetch/internal/app"
	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/pkg/logger"
)

// RouterDeps holds everything the HTTP router needs
type RouterDeps struct {
	Version string
	Service *app.DownloadService
	History domain.AttemptRepository // nil when history is disabled
	BaseDir string
	LogsDir string
	Logger  *zap.Logger
	Events  *logger.MultiLogger
}

// SetupRouter sets up the HTTP router
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(deps.Logger, deps.Events))
	router.Use(middleware.Recovery(deps.Logger))

	batchHandler := handlers.NewBatchHandler(deps.Service, deps.BaseDir, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Version, batchHandler)
	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/batches", batchHandler.RunBatch)

		historyHandler := handlers.NewHistoryHandler(deps.History, deps.Logger)
		v1.GET("/attempts", historyHandler.ListAttempts)
		v1.GET("/stats", historyHandler.GetStats)

		infoHandler := handlers.NewInfoHandler(deps.Service)
		v1.GET("/info", infoHandler.GetInfo)

		logHandler := handlers.NewLogHandler(deps.LogsDir)
		logs := v1.Group("/logs")
		{
			logs.GET("/categories", logHandler.GetCategories)
			logs.GET("/:category", logHandler.GetLogs)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
