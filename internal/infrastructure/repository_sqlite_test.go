package infrastructure

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tubefetch/internal/domain"
)

func setupTestRepo(t *testing.T) *SQLiteAttemptRepository {
	t.Helper()
	repo, err := NewSQLiteAttemptRepository(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestAttempt(t *testing.T, batchID string, result domain.AttemptResult, startedAt time.Time) *domain.Attempt {
	t.Helper()
	policy, err := domain.NewDownloadPolicy(domain.PolicyOptions{OutputDir: "/tmp/out"})
	require.NoError(t, err)
	result.Duration = time.Second
	return domain.NewAttempt(batchID, policy, result, startedAt)
}

func TestFindByBatch_PreservesOrder(t *testing.T) {
	repo := setupTestRepo(t)
	base := time.Now()

	urls := []domain.WorkItem{"https://youtu.be/c", "https://youtu.be/a", "https://youtu.be/b"}
	for i, u := range urls {
		a := newTestAttempt(t, "batch-1", domain.Succeeded(u, ""), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.Create(a))
	}
	require.NoError(t, repo.Create(newTestAttempt(t, "batch-2", domain.Succeeded("https://youtu.be/z", ""), base)))

	found, err := repo.FindByBatch("batch-1")
	require.NoError(t, err)
	require.Len(t, found, 3)
	for i, a := range found {
		assert.Equal(t, string(urls[i]), a.URL)
		assert.Equal(t, "batch-1", a.BatchID)
	}
}

func TestFindByBatch_Unknown(t *testing.T) {
	repo := setupTestRepo(t)

	found, err := repo.FindByBatch("missing")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindRecent_NewestFirstAndFilter(t *testing.T) {
	repo := setupTestRepo(t)
	base := time.Now().Add(-time.Hour)

	require.NoError(t, repo.Create(newTestAttempt(t, "b", domain.Succeeded("https://youtu.be/1", "/x/1.mp4"), base)))
	require.NoError(t, repo.Create(newTestAttempt(t, "b", domain.Failed("https://youtu.be/2", domain.FailureFetch, errors.New("boom")), base.Add(time.Minute))))
	require.NoError(t, repo.Create(newTestAttempt(t, "b", domain.Failed("bad", domain.FailureInvalid, errors.New("invalid item")), base.Add(2*time.Minute))))

	recent, err := repo.FindRecent(2, false)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "bad", recent[0].URL)
	assert.Equal(t, "https://youtu.be/2", recent[1].URL)

	failed, err := repo.FindRecent(0, true)
	require.NoError(t, err)
	require.Len(t, failed, 2)
	for _, a := range failed {
		assert.False(t, a.Succeeded)
	}
	assert.Equal(t, "invalid", failed[0].Status())
	assert.Equal(t, "boom", failed[1].ErrorMessage)
}

func TestGetStats(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now()

	require.NoError(t, repo.Create(newTestAttempt(t, "b1", domain.Succeeded("https://youtu.be/1", ""), now)))
	require.NoError(t, repo.Create(newTestAttempt(t, "b1", domain.Failed("https://youtu.be/2", domain.FailureFetch, errors.New("x")), now)))
	require.NoError(t, repo.Create(newTestAttempt(t, "b2", domain.Failed("nope", domain.FailureInvalid, errors.New("y")), now)))
	require.NoError(t, repo.Create(newTestAttempt(t, "b2", domain.Succeeded("https://youtu.be/3", ""), now)))

	stats, err := repo.GetStats()
	require.NoError(t, err)

	assert.Equal(t, &domain.AttemptStats{
		Total:     4,
		Succeeded: 2,
		Failed:    2,
		Invalid:   1,
		Batches:   2,
	}, stats)
}

func TestGetStats_Empty(t *testing.T) {
	repo := setupTestRepo(t)

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, &domain.AttemptStats{}, stats)
}
