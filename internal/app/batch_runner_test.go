package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/pkg/logger"
)

// stubFetcher fails the items in fail and records every call
type stubFetcher struct {
	mu       sync.Mutex
	fail     map[domain.WorkItem]bool
	calls    []domain.WorkItem
	policies []domain.DownloadPolicy
	onFetch  func(item domain.WorkItem)
}

func newStubFetcher(fail ...domain.WorkItem) *stubFetcher {
	f := &stubFetcher{fail: map[domain.WorkItem]bool{}}
	for _, item := range fail {
		f.fail[item] = true
	}
	return f
}

func (f *stubFetcher) Fetch(ctx context.Context, item domain.WorkItem, policy domain.DownloadPolicy) domain.AttemptResult {
	f.mu.Lock()
	f.calls = append(f.calls, item)
	f.policies = append(f.policies, policy)
	f.mu.Unlock()

	if f.onFetch != nil {
		f.onFetch(item)
	}
	if f.fail[item] {
		return domain.Failed(item, domain.FailureFetch, errors.New("HTTP Error 403: Forbidden"))
	}
	return domain.Succeeded(item, "/out/"+string(item))
}

// recordingProgress captures progress events
type recordingProgress struct {
	started  []int
	finished []domain.AttemptResult
	totals   []int
}

func (p *recordingProgress) ItemStarted(index, total int, item domain.WorkItem) {
	p.started = append(p.started, index)
	p.totals = append(p.totals, total)
}

func (p *recordingProgress) ItemFinished(index, total int, result domain.AttemptResult) {
	p.finished = append(p.finished, result)
}

// memoryHistory is an in-memory AttemptRepository
type memoryHistory struct {
	attempts []*domain.Attempt
	err      error
}

func (m *memoryHistory) Create(a *domain.Attempt) error {
	if m.err != nil {
		return m.err
	}
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *memoryHistory) FindByBatch(batchID string) ([]*domain.Attempt, error) {
	var out []*domain.Attempt
	for _, a := range m.attempts {
		if a.BatchID == batchID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryHistory) FindRecent(limit int, onlyFailed bool) ([]*domain.Attempt, error) {
	return m.attempts, nil
}

func (m *memoryHistory) GetStats() (*domain.AttemptStats, error) {
	return &domain.AttemptStats{Total: int64(len(m.attempts))}, nil
}

func audioPolicy(t *testing.T) domain.DownloadPolicy {
	t.Helper()
	policy, err := domain.NewDownloadPolicy(domain.PolicyOptions{
		MediaKind: "audio",
		Quality:   "320k",
		Container: "mp3",
		OutputDir: "music",
	})
	require.NoError(t, err)
	return policy
}

func assertSummaryInvariants(t *testing.T, s *domain.BatchSummary) {
	t.Helper()
	assert.Equal(t, s.Total, s.Succeeded+s.Failed)
	assert.Len(t, s.FailedItems, s.Failed)
	assert.Len(t, s.Results, s.Total)
}

func TestRunBatch_AllSucceed(t *testing.T) {
	items := []domain.WorkItem{"https://youtu.be/u1", "https://youtu.be/u2", "https://youtu.be/u3"}
	fetcher := newStubFetcher()
	policy := audioPolicy(t)

	summary := RunBatch(context.Background(), items, policy, fetcher)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.FailedItems)
	assert.Equal(t, items, fetcher.calls)
	for _, p := range fetcher.policies {
		assert.Equal(t, policy, p)
	}
	assertSummaryInvariants(t, summary)
}

func TestRunBatch_PartialFailureContinues(t *testing.T) {
	items := []domain.WorkItem{"https://youtu.be/u1", "https://youtu.be/bad", "https://youtu.be/u3"}
	fetcher := newStubFetcher("https://youtu.be/bad")

	summary := RunBatch(context.Background(), items, audioPolicy(t), fetcher)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []domain.WorkItem{"https://youtu.be/bad"}, summary.FailedItems)
	assert.Equal(t, items, fetcher.calls, "fetch must still be called for the item after the failure")
	assert.Equal(t, domain.FailureFetch, summary.Results[1].FailureKind)
	assert.Contains(t, summary.Results[1].ErrorDetail, "403")
	assertSummaryInvariants(t, summary)
}

func TestRunBatch_Empty(t *testing.T) {
	fetcher := newStubFetcher()

	summary := RunBatch(context.Background(), nil, audioPolicy(t), fetcher)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.NotNil(t, summary.FailedItems)
	assert.Empty(t, summary.FailedItems)
	assert.Empty(t, fetcher.calls)
	assertSummaryInvariants(t, summary)
}

func TestRunBatch_FailedItemsKeepInputOrder(t *testing.T) {
	items := []domain.WorkItem{"e", "a", "d", "b", "c"}
	fetcher := newStubFetcher("c", "e", "b")

	summary := RunBatch(context.Background(), items, audioPolicy(t), fetcher)

	assert.Equal(t, []domain.WorkItem{"e", "b", "c"}, summary.FailedItems)
	assert.Equal(t, 5, summary.Total)
	assertSummaryInvariants(t, summary)
}

func TestRunBatch_Idempotent(t *testing.T) {
	items := []domain.WorkItem{"a", "b", "c", "d"}
	policy := audioPolicy(t)

	first := RunBatch(context.Background(), items, policy, newStubFetcher("b", "d"))
	second := RunBatch(context.Background(), items, policy, newStubFetcher("b", "d"))

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Succeeded, second.Succeeded)
	assert.Equal(t, first.Failed, second.Failed)
	assert.Equal(t, first.FailedItems, second.FailedItems)
	assert.NotEqual(t, first.BatchID, second.BatchID)
}

func TestRunBatch_DuplicateItemsAttemptedEachTime(t *testing.T) {
	items := []domain.WorkItem{"a", "a", "a"}
	fetcher := newStubFetcher("a")

	summary := RunBatch(context.Background(), items, audioPolicy(t), fetcher)

	assert.Len(t, fetcher.calls, 3)
	assert.Equal(t, []domain.WorkItem{"a", "a", "a"}, summary.FailedItems)
}

func TestBatchRunner_NormalizesResults(t *testing.T) {
	fetch := domain.FetchFunc(func(ctx context.Context, item domain.WorkItem, policy domain.DownloadPolicy) domain.AttemptResult {
		switch item {
		case "no-kind":
			return domain.AttemptResult{ErrorDetail: "exit status 1"}
		case "noisy-success":
			return domain.AttemptResult{Succeeded: true, FailureKind: domain.FailureFetch, ErrorDetail: "warning"}
		default:
			panic("extractor crashed")
		}
	})

	summary := NewBatchRunner(fetch, zap.NewNop()).Run(context.Background(),
		[]domain.WorkItem{"no-kind", "noisy-success", "panics"}, audioPolicy(t))

	require.Len(t, summary.Results, 3)
	assert.Equal(t, domain.WorkItem("no-kind"), summary.Results[0].Item)
	assert.Equal(t, domain.FailureFetch, summary.Results[0].FailureKind)

	assert.True(t, summary.Results[1].Succeeded)
	assert.Equal(t, domain.FailureNone, summary.Results[1].FailureKind)
	assert.Empty(t, summary.Results[1].ErrorDetail)

	assert.False(t, summary.Results[2].Succeeded)
	assert.Contains(t, summary.Results[2].ErrorDetail, "extractor crashed")
	assert.Equal(t, 2, summary.Failed)
	assertSummaryInvariants(t, summary)
}

func TestBatchRunner_InterruptStopsBetweenItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	items := []domain.WorkItem{"a", "b", "c", "d"}
	fetcher := newStubFetcher()
	var sawCancelled bool
	fetcher.onFetch = func(item domain.WorkItem) {
		if item == "b" {
			cancel()
		}
	}
	fetch := domain.FetchFunc(func(fctx context.Context, item domain.WorkItem, policy domain.DownloadPolicy) domain.AttemptResult {
		result := fetcher.Fetch(fctx, item, policy)
		if fctx.Err() != nil {
			sawCancelled = true
		}
		return result
	})

	summary := NewBatchRunner(fetch, zap.NewNop()).Run(ctx, items, audioPolicy(t))

	assert.Equal(t, []domain.WorkItem{"a", "b"}, fetcher.calls)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 2, summary.Remaining)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.False(t, sawCancelled, "in-flight fetch must not see the cancellation")
	assertSummaryInvariants(t, summary)
}

func TestBatchRunner_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetcher := newStubFetcher()

	summary := NewBatchRunner(fetcher, zap.NewNop()).Run(ctx, []domain.WorkItem{"a", "b"}, audioPolicy(t))

	assert.Empty(t, fetcher.calls)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 2, summary.Remaining)
	assert.Equal(t, 0, summary.Total)
}

func TestBatchRunner_ProgressAndHistory(t *testing.T) {
	items := []domain.WorkItem{"https://youtu.be/a", "https://youtu.be/b"}
	progress := &recordingProgress{}
	history := &memoryHistory{}
	policy := audioPolicy(t)

	runner := NewBatchRunner(newStubFetcher("https://youtu.be/b"), zap.NewNop(),
		WithProgress(progress), WithHistory(history))
	summary := runner.Run(context.Background(), items, policy)

	assert.Equal(t, []int{1, 2}, progress.started)
	assert.Equal(t, []int{2, 2}, progress.totals)
	require.Len(t, progress.finished, 2)
	assert.True(t, progress.finished[0].Succeeded)
	assert.False(t, progress.finished[1].Succeeded)

	recorded, err := history.FindByBatch(summary.BatchID)
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	assert.Equal(t, "https://youtu.be/a", recorded[0].URL)
	assert.True(t, recorded[0].Succeeded)
	assert.Equal(t, "https://youtu.be/b", recorded[1].URL)
	assert.Equal(t, domain.FailureFetch, recorded[1].FailureKind)
	assert.Equal(t, policy.Quality, recorded[1].Quality)
}

func TestBatchRunner_HistoryErrorDoesNotAffectOutcome(t *testing.T) {
	history := &memoryHistory{err: errors.New("database is locked")}

	runner := NewBatchRunner(newStubFetcher(), zap.NewNop(), WithHistory(history))
	summary := runner.Run(context.Background(), []domain.WorkItem{"a", "b"}, audioPolicy(t))

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
}

func TestBatchRunner_EventLog(t *testing.T) {
	logsDir := t.TempDir()
	ml, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "warn", LogsDir: logsDir})
	require.NoError(t, err)

	runner := NewBatchRunner(newStubFetcher("b"), zap.NewNop(), WithEventLog(ml))
	summary := runner.Run(context.Background(), []domain.WorkItem{"a", "b"}, audioPolicy(t))
	require.NoError(t, ml.Close())

	reader := logger.NewLogReader(logsDir)
	events, err := reader.ReadLogs(logger.CategoryBatch, time.Now(), 0)
	require.NoError(t, err)

	var messages []string
	for _, e := range events {
		messages = append(messages, e.Message)
		assert.Equal(t, summary.BatchID, e.Fields["batch_id"])
	}
	assert.Equal(t, []string{"batch_started", "item_finished", "item_finished", "batch_finished"}, messages)

	errs, err := reader.ReadLogs(logger.CategoryError, time.Now(), 0)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "b", errs[0].Fields["url"])
}
