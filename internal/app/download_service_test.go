package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/internal/infrastructure"
)

type stubLoader struct {
	items  []domain.WorkItem
	err    error
	source string
}

func (l *stubLoader) Load(ctx context.Context, source string) ([]domain.WorkItem, error) {
	l.source = source
	return l.items, l.err
}

type stubMetadata struct {
	info *domain.VideoInfo
	err  error
}

func (m *stubMetadata) Lookup(ctx context.Context, url string) (*domain.VideoInfo, error) {
	return m.info, m.err
}

type countingNotifier struct {
	summaries []*domain.BatchSummary
}

func (n *countingNotifier) NotifyBatchCompleted(s *domain.BatchSummary) {
	n.summaries = append(n.summaries, s)
}

func newTestService(t *testing.T, fetcher domain.FetchOperation, deps DownloadServiceDeps) *DownloadService {
	t.Helper()
	cfg := domain.DefaultConfig().Download
	cfg.Dir = filepath.Join(t.TempDir(), "downloads")
	deps.Runner = NewBatchRunner(fetcher, zap.NewNop())
	if deps.Single == nil {
		deps.Single = &stubLoader{}
	}
	return NewDownloadService(&cfg, deps)
}

func TestDownloadService_BuildPolicyUsesConfigDefaults(t *testing.T) {
	svc := newTestService(t, newStubFetcher(), DownloadServiceDeps{})

	policy, err := svc.BuildPolicy(domain.PolicyOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.MediaVideo, policy.MediaKind)
	assert.Equal(t, "best", policy.Quality)
	assert.Equal(t, domain.ContainerMP4, policy.Container)
	assert.Equal(t, svc.config.Dir, policy.OutputDir)
}

func TestDownloadService_BuildPolicyUnknownQuality(t *testing.T) {
	svc := newTestService(t, newStubFetcher(), DownloadServiceDeps{})

	_, err := svc.BuildPolicy(domain.PolicyOptions{Quality: "999p"})
	assert.ErrorIs(t, err, domain.ErrUnknownQuality)

	svc.config.PermissiveQuality = true
	policy, err := svc.BuildPolicy(domain.PolicyOptions{Quality: "999p"})
	require.NoError(t, err)
	assert.Equal(t, "best[ext=mp4]/best[ext=mp4]/best", policy.FormatSelector)
}

func TestDownloadService_DownloadSingle(t *testing.T) {
	notifier := &countingNotifier{}
	single := &stubLoader{items: []domain.WorkItem{"https://youtu.be/abc"}}
	fetcher := newStubFetcher()
	svc := newTestService(t, fetcher, DownloadServiceDeps{Single: single, Notifier: notifier})
	policy, err := svc.BuildPolicy(domain.PolicyOptions{})
	require.NoError(t, err)

	summary, err := svc.DownloadSingle(context.Background(), "https://youtu.be/abc", policy)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, "https://youtu.be/abc", single.source)
	assert.Len(t, notifier.summaries, 1)
	assert.Equal(t, 0, ExitCode(ModeSingle, summary, nil))
}

func TestDownloadService_DownloadSingleRejectsForeignURL(t *testing.T) {
	fetcher := newStubFetcher()
	svc := newTestService(t, fetcher, DownloadServiceDeps{})
	policy, err := svc.BuildPolicy(domain.PolicyOptions{})
	require.NoError(t, err)

	summary, err := svc.DownloadSingle(context.Background(), "https://vimeo.com/1", policy)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
	assert.Empty(t, fetcher.calls)
	assert.Equal(t, 1, ExitCode(ModeSingle, summary, err))
}

func TestDownloadService_DownloadPlaylistUsesSubdir(t *testing.T) {
	playlist := &stubLoader{items: []domain.WorkItem{"https://youtu.be/1", "https://youtu.be/2"}}
	fetcher := newStubFetcher("https://youtu.be/2")
	svc := newTestService(t, fetcher, DownloadServiceDeps{Playlist: playlist})
	policy, err := svc.BuildPolicy(domain.PolicyOptions{})
	require.NoError(t, err)

	summary, err := svc.DownloadPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1", policy)
	require.NoError(t, err)

	require.Len(t, fetcher.policies, 2)
	for _, p := range fetcher.policies {
		assert.Equal(t, filepath.Join(svc.config.Dir, "playlist_downloads"), p.OutputDir)
	}
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, ExitCode(ModePlaylist, summary, nil))
}

func TestDownloadService_DownloadPlaylistLoadFailure(t *testing.T) {
	playlist := &stubLoader{err: domain.ErrSourceUnavailable}
	svc := newTestService(t, newStubFetcher(), DownloadServiceDeps{Playlist: playlist})
	policy, err := svc.BuildPolicy(domain.PolicyOptions{})
	require.NoError(t, err)

	_, err = svc.DownloadPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1", policy)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestDownloadService_DownloadBulkPartialFailureExitsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://youtu.be/u1\nhttps://youtu.be/bad\nhttps://youtu.be/u3\n"), 0644))

	fetcher := newStubFetcher("https://youtu.be/bad")
	svc := newTestService(t, fetcher, DownloadServiceDeps{Files: infrastructure.NewFileSourceLoader()})
	policy, err := svc.BuildPolicy(domain.PolicyOptions{MediaKind: "audio", Quality: "320k", Container: "mp3"})
	require.NoError(t, err)

	summary, err := svc.DownloadBulk(context.Background(), path, policy)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, []domain.WorkItem{"https://youtu.be/bad"}, summary.FailedItems)
	assert.Equal(t, 0, ExitCode(ModeBulk, summary, nil))
}

func TestDownloadService_DownloadBulkMissingFile(t *testing.T) {
	fetcher := newStubFetcher()
	svc := newTestService(t, fetcher, DownloadServiceDeps{Files: infrastructure.NewFileSourceLoader()})
	policy, err := svc.BuildPolicy(domain.PolicyOptions{})
	require.NoError(t, err)

	summary, err := svc.DownloadBulk(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), policy)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Empty(t, fetcher.calls)
	assert.Equal(t, 1, ExitCode(ModeBulk, summary, err))
}

func TestDownloadService_DownloadBulkEmpty(t *testing.T) {
	svc := newTestService(t, newStubFetcher(), DownloadServiceDeps{Files: &stubLoader{items: []domain.WorkItem{}}})
	policy, err := svc.BuildPolicy(domain.PolicyOptions{})
	require.NoError(t, err)

	_, err = svc.DownloadBulk(context.Background(), "urls.txt", policy)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestDownloadService_Info(t *testing.T) {
	info := &domain.VideoInfo{Title: "Talk", Duration: 65}
	svc := newTestService(t, newStubFetcher(), DownloadServiceDeps{Metadata: &stubMetadata{info: info}})

	got, err := svc.Info(context.Background(), "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, info, got)

	_, err = svc.Info(context.Background(), "not a url")
	assert.ErrorIs(t, err, domain.ErrInvalidItem)

	failing := newTestService(t, newStubFetcher(), DownloadServiceDeps{Metadata: &stubMetadata{err: domain.ErrFetchFailure}})
	_, err = failing.Info(context.Background(), "https://youtu.be/abc")
	assert.ErrorIs(t, err, domain.ErrFetchFailure)
}

func TestExitCode(t *testing.T) {
	ok := domain.NewBatchSummary("ok")
	ok.Record(domain.Succeeded("a", ""))

	failed := domain.NewBatchSummary("failed")
	failed.Record(domain.Failed("a", domain.FailureFetch, errors.New("x")))

	interrupted := domain.NewBatchSummary("interrupted")
	interrupted.Record(domain.Failed("a", domain.FailureFetch, errors.New("x")))
	interrupted.Interrupted = true

	tests := []struct {
		name     string
		mode     Mode
		summary  *domain.BatchSummary
		err      error
		expected int
	}{
		{"single ok", ModeSingle, ok, nil, 0},
		{"single failed", ModeSingle, failed, nil, 1},
		{"playlist failed", ModePlaylist, failed, nil, 1},
		{"bulk failed", ModeBulk, failed, nil, 0},
		{"bulk load error", ModeBulk, nil, domain.ErrSourceUnavailable, 1},
		{"info ok", ModeInfo, nil, nil, 0},
		{"info error", ModeInfo, nil, domain.ErrFetchFailure, 1},
		{"interrupted", ModeSingle, interrupted, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCode(tt.mode, tt.summary, tt.err))
		})
	}
}
