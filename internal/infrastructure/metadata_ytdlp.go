package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/tubefetch/internal/domain"
)

// YtdlpMetadataProvider looks up video information with yt-dlp -J
type YtdlpMetadataProvider struct {
	runner *ytdlpRunner
}

// NewYtdlpMetadataProvider creates a yt-dlp backed metadata provider
func NewYtdlpMetadataProvider(config *domain.YtdlpConfig) *YtdlpMetadataProvider {
	return &YtdlpMetadataProvider{runner: newYtdlpRunner(config)}
}

type dumpedInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	Uploader   string  `json:"uploader"`
	Channel    string  `json:"channel"`
	ViewCount  int64   `json:"view_count"`
	UploadDate string  `json:"upload_date"`
}

// Lookup fetches metadata for url without downloading media
func (p *YtdlpMetadataProvider) Lookup(ctx context.Context, url string) (*domain.VideoInfo, error) {
	url = strings.TrimSpace(url)
	if !domain.ValidateURL(url) {
		return nil, fmt.Errorf("%w: not a YouTube URL: %s", domain.ErrInvalidItem, url)
	}

	runCtx, cancel := p.runner.withTimeout(ctx)
	defer cancel()

	cmd := p.runner.command().SkipDownload().DumpSingleJSON().NoPlaylist()
	res, err := p.runner.run(runCtx, cmd, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}

	var info dumpedInfo
	if err := lastJSONLine(res.Stdout, &info); err != nil {
		return nil, fmt.Errorf("%w: failed to parse video info: %v", domain.ErrFetchFailure, err)
	}
	return info.toDomain(), nil
}

func (d dumpedInfo) toDomain() *domain.VideoInfo {
	uploader := d.Uploader
	if uploader == "" {
		uploader = d.Channel
	}
	return &domain.VideoInfo{
		ID:         d.ID,
		Title:      d.Title,
		Duration:   int(d.Duration),
		Uploader:   uploader,
		ViewCount:  d.ViewCount,
		UploadDate: d.UploadDate,
	}
}
