package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/pkg/logger"
)

// BatchRunner attempts a list of items one after another with a fixed policy
type BatchRunner struct {
	fetcher  domain.FetchOperation
	history  domain.AttemptRepository
	progress domain.ProgressReporter
	events   *logger.MultiLogger
	logger   *zap.Logger
}

// BatchRunnerOption configures optional collaborators of a BatchRunner
type BatchRunnerOption func(*BatchRunner)

// WithHistory records every attempt in repo. Recording errors are logged only.
func WithHistory(repo domain.AttemptRepository) BatchRunnerOption {
	return func(r *BatchRunner) { r.history = repo }
}

// WithProgress reports per-item progress to p
func WithProgress(p domain.ProgressReporter) BatchRunnerOption {
	return func(r *BatchRunner) { r.progress = p }
}

// WithEventLog writes batch lifecycle events to the batch category log
func WithEventLog(ml *logger.MultiLogger) BatchRunnerOption {
	return func(r *BatchRunner) { r.events = ml }
}

// NewBatchRunner creates a batch runner
func NewBatchRunner(fetcher domain.FetchOperation, log *zap.Logger, opts ...BatchRunnerOption) *BatchRunner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &BatchRunner{fetcher: fetcher, logger: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunBatch runs items through fetch without history, progress or event logging
func RunBatch(ctx context.Context, items []domain.WorkItem, policy domain.DownloadPolicy, fetch domain.FetchOperation) *domain.BatchSummary {
	return NewBatchRunner(fetch, nil).Run(ctx, items, policy)
}

// Run attempts every item exactly once, in order. A failed item never stops the
// batch. Cancelling ctx stops the batch before the next item; the fetch in
// progress runs to completion and the summary is marked interrupted.
func (r *BatchRunner) Run(ctx context.Context, items []domain.WorkItem, policy domain.DownloadPolicy) *domain.BatchSummary {
	summary := domain.NewBatchSummary(uuid.New().String())
	total := len(items)

	r.logger.Info("Batch started",
		zap.String("batch_id", summary.BatchID),
		zap.Int("items", total),
		zap.String("policy", policy.String()))
	r.event("batch_started",
		zap.String("batch_id", summary.BatchID),
		zap.Int("items", total),
		zap.Any("policy", policy))

	fetchCtx := context.WithoutCancel(ctx)

	for i, item := range items {
		if ctx.Err() != nil {
			summary.Interrupted = true
			summary.Remaining = total - i
			r.logger.Warn("Batch interrupted",
				zap.String("batch_id", summary.BatchID),
				zap.Int("remaining", summary.Remaining))
			break
		}

		if r.progress != nil {
			r.progress.ItemStarted(i+1, total, item)
		}

		startedAt := time.Now()
		result := r.attempt(fetchCtx, item, policy)
		if result.Duration == 0 {
			result.Duration = time.Since(startedAt)
		}

		summary.Record(result)
		r.record(summary.BatchID, policy, result, startedAt)

		if result.Succeeded {
			r.logger.Info("Item succeeded",
				zap.String("batch_id", summary.BatchID),
				zap.String("url", string(item)),
				zap.String("file", result.FilePath))
		} else {
			r.logger.Warn("Item failed",
				zap.String("batch_id", summary.BatchID),
				zap.String("url", string(item)),
				zap.String("kind", string(result.FailureKind)),
				zap.String("error", result.ErrorDetail))
			if r.events != nil {
				r.events.LogAppError("Item failed",
					zap.String("batch_id", summary.BatchID),
					zap.String("url", string(item)),
					zap.String("kind", string(result.FailureKind)),
					zap.String("error", result.ErrorDetail))
			}
		}
		r.event("item_finished",
			zap.String("batch_id", summary.BatchID),
			zap.Int("index", i+1),
			zap.String("url", string(item)),
			zap.Bool("succeeded", result.Succeeded),
			zap.String("failure_kind", string(result.FailureKind)),
			zap.Duration("duration", result.Duration))

		if r.progress != nil {
			r.progress.ItemFinished(i+1, total, result)
		}
	}

	summary.Finish()

	r.logger.Info("Batch finished",
		zap.String("batch_id", summary.BatchID),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Bool("interrupted", summary.Interrupted))
	r.event("batch_finished",
		zap.String("batch_id", summary.BatchID),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Bool("interrupted", summary.Interrupted),
		zap.Int("remaining", summary.Remaining))

	return summary
}

// attempt calls the fetcher once and normalizes its result
func (r *BatchRunner) attempt(ctx context.Context, item domain.WorkItem, policy domain.DownloadPolicy) (result domain.AttemptResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Fetch panicked", zap.String("url", string(item)), zap.Any("panic", rec))
			result = domain.Failed(item, domain.FailureFetch, fmt.Errorf("%w: panic: %v", domain.ErrFetchFailure, rec))
		}
	}()

	result = r.fetcher.Fetch(ctx, item, policy)
	result.Item = item
	if result.Succeeded {
		result.FailureKind = domain.FailureNone
		result.ErrorDetail = ""
	} else if result.FailureKind == domain.FailureNone {
		result.FailureKind = domain.FailureFetch
	}
	return result
}

// record stores the attempt in history; failures never affect the batch
func (r *BatchRunner) record(batchID string, policy domain.DownloadPolicy, result domain.AttemptResult, startedAt time.Time) {
	if r.history == nil {
		return
	}
	if err := r.history.Create(domain.NewAttempt(batchID, policy, result, startedAt)); err != nil {
		r.logger.Warn("Failed to record attempt",
			zap.String("batch_id", batchID),
			zap.String("url", string(result.Item)),
			zap.Error(err))
	}
}

func (r *BatchRunner) event(name string, fields ...zap.Field) {
	if r.events != nil {
		r.events.LogBatchEvent(name, fields...)
	}
}
