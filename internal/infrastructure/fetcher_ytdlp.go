package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/pkg/logger"
)

// YtdlpFetcher downloads single items with yt-dlp
type YtdlpFetcher struct {
	runner  *ytdlpRunner
	logsDir string
	logger  *zap.Logger

	logMu sync.Mutex
}

// NewYtdlpFetcher creates a fetcher. Raw tool output is appended to the
// per-day download log in logsDir; an empty logsDir disables that log.
func NewYtdlpFetcher(config *domain.YtdlpConfig, logsDir string, log *zap.Logger) *YtdlpFetcher {
	return &YtdlpFetcher{
		runner:  newYtdlpRunner(config),
		logsDir: logsDir,
		logger:  log,
	}
}

// printedInfo is the subset of the --print-json output used to find the written file
type printedInfo struct {
	Filename           string `json:"filename"`
	LegacyFilename     string `json:"_filename"`
	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`
}

func (p printedInfo) path() string {
	for i := len(p.RequestedDownloads) - 1; i >= 0; i-- {
		if p.RequestedDownloads[i].Filepath != "" {
			return p.RequestedDownloads[i].Filepath
		}
	}
	if p.Filename != "" {
		return p.Filename
	}
	return p.LegacyFilename
}

// Fetch downloads one item according to policy. It never returns an error;
// every failure is folded into the AttemptResult.
func (f *YtdlpFetcher) Fetch(ctx context.Context, item domain.WorkItem, policy domain.DownloadPolicy) domain.AttemptResult {
	start := time.Now()
	result := f.fetch(ctx, item, policy)
	result.Duration = time.Since(start)
	return result
}

func (f *YtdlpFetcher) fetch(ctx context.Context, item domain.WorkItem, policy domain.DownloadPolicy) domain.AttemptResult {
	url := strings.TrimSpace(string(item))
	if !domain.ValidateURL(url) {
		return domain.Failed(item, domain.FailureInvalid, fmt.Errorf("%w: not a YouTube URL: %s", domain.ErrInvalidItem, url))
	}

	if err := os.MkdirAll(policy.OutputDir, 0755); err != nil {
		return domain.Failed(item, domain.FailureFetch, fmt.Errorf("%w: failed to create output directory: %v", domain.ErrFetchFailure, err))
	}

	runCtx, cancel := f.runner.withTimeout(ctx)
	defer cancel()

	cmd := f.buildCommand(policy)

	f.logger.Debug("Running yt-dlp",
		zap.String("url", url),
		zap.String("format", policy.FormatSelector),
		zap.String("output_dir", policy.OutputDir))

	res, err := f.runner.run(runCtx, cmd, url)
	f.appendDownloadLog(url, res, err)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", f.runner.config.Timeout, err)
		}
		return domain.Failed(item, domain.FailureFetch, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err))
	}

	var info printedInfo
	if err := lastJSONLine(res.Stdout, &info); err != nil {
		// The download succeeded; only the reported path is missing.
		f.logger.Debug("Could not determine output file", zap.String("url", url), zap.Error(err))
	}
	return domain.Succeeded(item, info.path())
}

// buildCommand translates a DownloadPolicy into yt-dlp options
func (f *YtdlpFetcher) buildCommand(policy domain.DownloadPolicy) *ytdlp.Command {
	cmd := f.runner.command().
		Format(policy.FormatSelector).
		Output(filepath.Join(policy.OutputDir, policy.OutputTemplate)).
		NoPlaylist().
		PrintJSON()

	if policy.ExtractAudio {
		cmd = cmd.ExtractAudio().
			AudioFormat(string(policy.Container)).
			AudioQuality(policy.AudioQuality)
	} else if policy.MediaKind == domain.MediaVideo && policy.Container == domain.ContainerMP4 {
		cmd = cmd.MergeOutputFormat(string(domain.ContainerMP4))
	}
	return cmd
}

// appendDownloadLog writes the command line and raw output of one run to the download log
func (f *YtdlpFetcher) appendDownloadLog(url string, res *ytdlp.Result, runErr error) {
	if f.logsDir == "" {
		return
	}

	f.logMu.Lock()
	defer f.logMu.Unlock()

	if err := os.MkdirAll(f.logsDir, 0755); err != nil {
		f.logger.Warn("Failed to create logs directory", zap.Error(err))
		return
	}
	path := logger.CategoryLogPath(f.logsDir, logger.CategoryDownload, time.Now())
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		f.logger.Warn("Failed to open download log", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s %s ===\n", time.Now().Format(time.RFC3339), url)
	if res != nil {
		fmt.Fprintf(&b, "$ %s\n", ShellEscapeCommand(res.Executable, res.Args...))
		if out := strings.TrimSpace(res.Stderr); out != "" {
			b.WriteString(out)
			b.WriteString("\n")
		}
	}
	if runErr != nil {
		fmt.Fprintf(&b, "=== failed: %v ===\n", runErr)
	} else {
		b.WriteString("=== ok ===\n")
	}

	if _, err := file.WriteString(b.String()); err != nil {
		f.logger.Warn("Failed to write download log", zap.Error(err))
	}
}
