package infrastructure

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/lrstanley/go-ytdlp"

	"github.com/yourusername/tubefetch/internal/domain"
)

// ytdlpRunner builds yt-dlp commands from the shared tool configuration
type ytdlpRunner struct {
	config *domain.YtdlpConfig

	installOnce sync.Once
	installErr  error
}

func newYtdlpRunner(config *domain.YtdlpConfig) *ytdlpRunner {
	return &ytdlpRunner{config: config}
}

// command returns a yt-dlp command carrying the settings common to every call
func (r *ytdlpRunner) command() *ytdlp.Command {
	cmd := ytdlp.New()
	// go-ytdlp gives the child only the variables set on the command.
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
			cmd = cmd.SetEnvVar(key, value)
		}
	}
	if !r.config.AutoInstall && r.config.Binary != "" {
		cmd = cmd.SetExecutable(r.config.Binary)
	}
	if r.config.FFmpegLocation != "" {
		cmd = cmd.FFmpegLocation(r.config.FFmpegLocation)
	}
	if r.config.CookieFile != "" && fileExists(r.config.CookieFile) {
		cmd = cmd.Cookies(r.config.CookieFile)
	}
	if r.config.RestrictFilenames {
		cmd = cmd.RestrictFilenames()
	}
	return cmd
}

// ensureInstalled downloads a managed yt-dlp binary once when auto_install is on
func (r *ytdlpRunner) ensureInstalled(ctx context.Context) error {
	if !r.config.AutoInstall {
		return nil
	}
	r.installOnce.Do(func() {
		if _, err := ytdlp.Install(ctx, nil); err != nil {
			r.installErr = fmt.Errorf("failed to install yt-dlp: %w", err)
		}
	})
	return r.installErr
}

// withTimeout applies the per-call timeout, if configured
func (r *ytdlpRunner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.config.Timeout > 0 {
		return context.WithTimeout(ctx, r.config.Timeout)
	}
	return context.WithCancel(ctx)
}

// run executes cmd and returns stdout; failures carry yt-dlp's own error line
func (r *ytdlpRunner) run(ctx context.Context, cmd *ytdlp.Command, url string) (*ytdlp.Result, error) {
	if err := r.ensureInstalled(ctx); err != nil {
		return nil, err
	}
	res, err := cmd.Run(ctx, url)
	if err != nil {
		if res != nil {
			if line := lastErrorLine(res.Stderr); line != "" {
				return res, fmt.Errorf("%s: %w", line, err)
			}
		}
		return res, err
	}
	return res, nil
}

// lastErrorLine returns the last "ERROR:" line yt-dlp wrote, or the last non-empty line
func lastErrorLine(stderr string) string {
	var last, lastError string
	scanner := bufio.NewScanner(strings.NewReader(stderr))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		last = line
		if strings.HasPrefix(line, "ERROR:") {
			lastError = line
		}
	}
	if lastError != "" {
		return lastError
	}
	return last
}

// lastJSONLine decodes the last JSON object printed on stdout into v
func lastJSONLine(stdout string, v interface{}) error {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "{") {
			return json.Unmarshal([]byte(line), v)
		}
	}
	return fmt.Errorf("no JSON output from yt-dlp")
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
