package infrastructure

import (
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
)

// NotificationService sends desktop notifications when a batch finishes
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
	run    func(name string, args ...string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		config: config,
		logger: logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send sends a notification. Disabled or unknown methods are a no-op.
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	var err error
	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		err = n.run("osascript", "-e", script)
	case "notify-send":
		err = n.run("notify-send", title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err != nil {
		n.logger.Warn("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))
	return nil
}

// NotifyBatchCompleted reports the outcome of a finished batch
func (n *NotificationService) NotifyBatchCompleted(summary *domain.BatchSummary) {
	title := "Download Complete"
	if summary.Interrupted {
		title = "Download Interrupted"
	} else if summary.HasFailures() {
		title = "Download Finished With Errors"
	}

	message := fmt.Sprintf("%d/%d succeeded", summary.Succeeded, summary.Total)
	if summary.Failed > 0 {
		failed := make([]string, 0, len(summary.FailedItems))
		for _, item := range summary.FailedItems {
			failed = append(failed, truncateString(string(item), 30))
		}
		message += fmt.Sprintf(", failed: %s", truncateString(strings.Join(failed, ", "), 80))
	}

	n.Send(title, message)
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
