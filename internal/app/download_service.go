package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
)

// Mode is the CLI operating mode
type Mode string

const (
	ModeSingle   Mode = "single"
	ModePlaylist Mode = "playlist"
	ModeBulk     Mode = "bulk"
	ModeInfo     Mode = "info"
)

// ErrNoItems is returned when a bulk source holds no URLs
var ErrNoItems = errors.New("no valid URLs found")

// Notifier is told about finished batches
type Notifier interface {
	NotifyBatchCompleted(summary *domain.BatchSummary)
}

// DownloadServiceDeps holds the collaborators of a DownloadService
type DownloadServiceDeps struct {
	Runner   *BatchRunner
	Files    domain.SourceLoader
	Single   domain.SourceLoader
	Playlist domain.SourceLoader
	Metadata domain.MetadataProvider
	Notifier Notifier
	Logger   *zap.Logger
}

// DownloadService implements the single, playlist, bulk and info modes on top of BatchRunner
type DownloadService struct {
	config *domain.DownloadConfig
	deps   DownloadServiceDeps
	logger *zap.Logger
}

// NewDownloadService creates a download service
func NewDownloadService(config *domain.DownloadConfig, deps DownloadServiceDeps) *DownloadService {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &DownloadService{config: config, deps: deps, logger: log}
}

// BuildPolicy fills unset options from the download config and validates them
func (s *DownloadService) BuildPolicy(opts domain.PolicyOptions) (domain.DownloadPolicy, error) {
	if opts.MediaKind == "" {
		opts.MediaKind = s.config.Format
	}
	if opts.Quality == "" {
		opts.Quality = s.config.Quality
	}
	if opts.Container == "" {
		opts.Container = s.config.Output
	}
	if opts.OutputDir == "" {
		opts.OutputDir = s.config.Dir
	}
	if opts.OutputTemplate == "" {
		opts.OutputTemplate = s.config.OutputTemplate
	}
	opts.Permissive = opts.Permissive || s.config.PermissiveQuality
	return domain.NewDownloadPolicy(opts)
}

// DownloadSingle downloads one URL
func (s *DownloadService) DownloadSingle(ctx context.Context, url string, policy domain.DownloadPolicy) (*domain.BatchSummary, error) {
	if !domain.ValidateURL(url) {
		return nil, fmt.Errorf("%w: invalid YouTube URL: %s", domain.ErrInvalidItem, url)
	}
	return s.run(ctx, s.deps.Single, url, policy)
}

// DownloadPlaylist expands a playlist and downloads every entry into the playlist subdirectory
func (s *DownloadService) DownloadPlaylist(ctx context.Context, url string, policy domain.DownloadPolicy) (*domain.BatchSummary, error) {
	if !domain.ValidateURL(url) {
		return nil, fmt.Errorf("%w: invalid YouTube URL: %s", domain.ErrInvalidItem, url)
	}
	policy = policy.WithOutputDir(filepath.Join(policy.OutputDir, s.config.PlaylistSubdir))
	return s.run(ctx, s.deps.Playlist, url, policy)
}

// LoadBulk reads the URL list at path. A list without URLs is ErrNoItems.
func (s *DownloadService) LoadBulk(ctx context.Context, path string) ([]domain.WorkItem, error) {
	items, err := s.deps.Files.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w in file: %s", ErrNoItems, path)
	}
	return items, nil
}

// DownloadBulk downloads every URL listed in the file at path
func (s *DownloadService) DownloadBulk(ctx context.Context, path string, policy domain.DownloadPolicy) (*domain.BatchSummary, error) {
	items, err := s.LoadBulk(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.RunItems(ctx, items, policy), nil
}

// RunItems runs an already loaded item list
func (s *DownloadService) RunItems(ctx context.Context, items []domain.WorkItem, policy domain.DownloadPolicy) *domain.BatchSummary {
	summary := s.deps.Runner.Run(ctx, items, policy)
	if s.deps.Notifier != nil {
		s.deps.Notifier.NotifyBatchCompleted(summary)
	}
	return summary
}

// Info looks up metadata for url
func (s *DownloadService) Info(ctx context.Context, url string) (*domain.VideoInfo, error) {
	if !domain.ValidateURL(url) {
		return nil, fmt.Errorf("%w: invalid YouTube URL: %s", domain.ErrInvalidItem, url)
	}
	info, err := s.deps.Metadata.Lookup(ctx, url)
	if err != nil {
		s.logger.Warn("Info lookup failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	return info, nil
}

func (s *DownloadService) run(ctx context.Context, loader domain.SourceLoader, source string, policy domain.DownloadPolicy) (*domain.BatchSummary, error) {
	items, err := loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return s.RunItems(ctx, items, policy), nil
}

// ExitCode maps the outcome of a mode to the process exit status. Bulk mode
// exits 0 even when items failed; single and playlist modes exit 1 if any
// item failed. An interrupted batch exits 0.
func ExitCode(mode Mode, summary *domain.BatchSummary, err error) int {
	if err != nil {
		return 1
	}
	if summary == nil || summary.Interrupted {
		return 0
	}
	switch mode {
	case ModeSingle, ModePlaylist:
		if summary.HasFailures() {
			return 1
		}
	}
	return 0
}
