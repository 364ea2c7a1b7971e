package app

import (
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/internal/infrastructure"
	"github.com/yourusername/tubefetch/pkg/logger"
)

// Container wires the configured components shared by the CLI and the server
type Container struct {
	Config  *domain.Config
	Logger  *zap.Logger
	Events  *logger.MultiLogger                     // nil when the logs directory is unusable
	History *infrastructure.SQLiteAttemptRepository // nil when history is disabled or unavailable
	Service *DownloadService
}

// NewContainer builds every component from config. History and category
// logs are optional: failing to open them is logged and the tool keeps working.
func NewContainer(config *domain.Config, log *zap.Logger, progress domain.ProgressReporter) (*Container, error) {
	c := &Container{Config: config, Logger: log}

	if config.Logging.LogsDir != "" {
		events, err := logger.NewMultiLogger(logger.MultiLoggerConfig{
			Level:   config.Logging.Level,
			LogsDir: config.Logging.LogsDir,
		})
		if err != nil {
			log.Warn("Category logs disabled", zap.Error(err))
		} else {
			c.Events = events
		}
	}

	if config.History.Enabled {
		repo, err := infrastructure.NewSQLiteAttemptRepository(config.History.DatabasePath)
		if err != nil {
			log.Warn("History disabled", zap.String("path", config.History.DatabasePath), zap.Error(err))
		} else {
			c.History = repo
		}
	}

	metadata, err := infrastructure.NewMetadataProvider(config.Metadata.Source, &config.Ytdlp)
	if err != nil {
		c.Close()
		return nil, err
	}

	opts := []BatchRunnerOption{}
	if c.History != nil {
		opts = append(opts, WithHistory(c.History))
	}
	if c.Events != nil {
		opts = append(opts, WithEventLog(c.Events))
	}
	if progress != nil {
		opts = append(opts, WithProgress(progress))
	}

	fetcher := infrastructure.NewYtdlpFetcher(&config.Ytdlp, config.Logging.LogsDir, log)
	c.Service = NewDownloadService(&config.Download, DownloadServiceDeps{
		Runner:   NewBatchRunner(fetcher, log, opts...),
		Files:    infrastructure.NewFileSourceLoader(),
		Single:   infrastructure.NewSingleSourceLoader(),
		Playlist: infrastructure.NewPlaylistLoader(&config.Ytdlp, log),
		Metadata: metadata,
		Notifier: infrastructure.NewNotificationService(&config.Notification, log),
		Logger:   log,
	})

	return c, nil
}

// HistoryRepository returns the history as an interface, nil when disabled
func (c *Container) HistoryRepository() domain.AttemptRepository {
	if c.History == nil {
		return nil
	}
	return c.History
}

// Close releases the database and log files
func (c *Container) Close() {
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			c.Logger.Warn("Failed to close history", zap.Error(err))
		}
	}
	if c.Events != nil {
		c.Events.Close()
	}
	c.Logger.Sync()
}
