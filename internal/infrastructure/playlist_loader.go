package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v=%s"

// PlaylistLoader expands a playlist URL into its entries without downloading them
type PlaylistLoader struct {
	runner *ytdlpRunner
	logger *zap.Logger
}

// NewPlaylistLoader creates a playlist loader
func NewPlaylistLoader(config *domain.YtdlpConfig, log *zap.Logger) *PlaylistLoader {
	return &PlaylistLoader{runner: newYtdlpRunner(config), logger: log}
}

type flatPlaylist struct {
	Title   string `json:"title"`
	Entries []struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"entries"`
}

// Load returns the entry URLs of the playlist in playlist order
func (l *PlaylistLoader) Load(ctx context.Context, source string) ([]domain.WorkItem, error) {
	source = strings.TrimSpace(source)
	if !domain.ValidateURL(source) {
		return nil, fmt.Errorf("%w: not a YouTube playlist URL: %s", domain.ErrSourceUnavailable, source)
	}

	runCtx, cancel := l.runner.withTimeout(ctx)
	defer cancel()

	cmd := l.runner.command().FlatPlaylist().DumpSingleJSON()
	res, err := l.runner.run(runCtx, cmd, source)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read playlist: %v", domain.ErrSourceUnavailable, err)
	}

	var playlist flatPlaylist
	if err := lastJSONLine(res.Stdout, &playlist); err != nil {
		return nil, fmt.Errorf("%w: failed to parse playlist: %v", domain.ErrSourceUnavailable, err)
	}

	items := make([]domain.WorkItem, 0, len(playlist.Entries))
	for _, entry := range playlist.Entries {
		url := entry.URL
		if !strings.HasPrefix(url, "http") {
			if entry.ID == "" {
				continue
			}
			url = fmt.Sprintf(youtubeWatchURL, entry.ID)
		}
		items = append(items, domain.WorkItem(url))
	}

	l.logger.Debug("Playlist expanded",
		zap.String("playlist", source),
		zap.String("title", playlist.Title),
		zap.Int("entries", len(items)))

	return items, nil
}
