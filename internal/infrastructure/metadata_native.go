package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/yourusername/tubefetch/internal/domain"
)

// NativeMetadataProvider reads video metadata directly from YouTube, without yt-dlp
type NativeMetadataProvider struct {
	client *youtube.Client
}

// NewNativeMetadataProvider creates a metadata provider backed by kkdai/youtube
func NewNativeMetadataProvider() *NativeMetadataProvider {
	return &NativeMetadataProvider{client: &youtube.Client{}}
}

// Lookup fetches metadata for url
func (p *NativeMetadataProvider) Lookup(ctx context.Context, url string) (*domain.VideoInfo, error) {
	url = strings.TrimSpace(url)
	if !domain.ValidateURL(url) {
		return nil, fmt.Errorf("%w: not a YouTube URL: %s", domain.ErrInvalidItem, url)
	}

	video, err := p.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}

	info := &domain.VideoInfo{
		ID:        video.ID,
		Title:     video.Title,
		Duration:  int(video.Duration.Seconds()),
		Uploader:  video.Author,
		ViewCount: int64(video.Views),
	}
	if !video.PublishDate.IsZero() {
		info.UploadDate = video.PublishDate.Format("20060102")
	}
	return info, nil
}

// NewMetadataProvider selects the metadata backend named by source
func NewMetadataProvider(source string, ytdlpConfig *domain.YtdlpConfig) (domain.MetadataProvider, error) {
	switch source {
	case "", domain.MetadataSourceYtdlp:
		return NewYtdlpMetadataProvider(ytdlpConfig), nil
	case domain.MetadataSourceNative:
		return NewNativeMetadataProvider(), nil
	default:
		return nil, fmt.Errorf("unknown metadata source: %s", source)
	}
}
