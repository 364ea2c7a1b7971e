package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
)

func testConfig(t *testing.T) *domain.Config {
	t.Helper()
	dir := t.TempDir()
	config := domain.DefaultConfig()
	config.Download.Dir = filepath.Join(dir, "downloads")
	config.History.DatabasePath = filepath.Join(dir, "history.db")
	config.Logging.LogsDir = filepath.Join(dir, "logs")
	return config
}

func TestNewContainer_WiresOptionalParts(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop(), nil)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Service)
	assert.NotNil(t, c.History)
	assert.NotNil(t, c.Events)
	assert.NotNil(t, c.HistoryRepository())
	assert.DirExists(t, c.Config.Logging.LogsDir)
}

func TestNewContainer_HistoryDisabled(t *testing.T) {
	config := testConfig(t)
	config.History.Enabled = false

	c, err := NewContainer(config, zap.NewNop(), nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.History)
	assert.Nil(t, c.HistoryRepository())
}

func TestNewContainer_UnknownMetadataSource(t *testing.T) {
	config := testConfig(t)
	config.Metadata.Source = "scraper"

	_, err := NewContainer(config, zap.NewNop(), nil)
	assert.Error(t, err)
}
