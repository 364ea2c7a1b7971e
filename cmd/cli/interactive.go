package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/yourusername/tubefetch/internal/app"
	"github.com/yourusername/tubefetch/internal/console"
	"github.com/yourusername/tubefetch/internal/domain"
)

// runInteractive prompts for URLs until quit, exit, q, end of input or cancellation
func runInteractive(ctx context.Context, in io.Reader, p *console.Printer, svc downloader, policy domain.DownloadPolicy) int {
	p.Warnf("Interactive Mode")
	p.Plainf("Enter YouTube URL (or 'quit' to exit):")

	lines := bufio.NewScanner(in)
	readLine := func(prompt string) (string, bool) {
		p.Prompt(prompt)
		if ctx.Err() != nil || !lines.Scan() {
			return "", false
		}
		return strings.TrimSpace(lines.Text()), true
	}

	for {
		url, ok := readLine("URL: ")
		if !ok {
			p.Plainf("")
			break
		}

		switch strings.ToLower(url) {
		case "quit", "exit", "q":
			p.Successf("Goodbye!")
			return 0
		case "":
			continue
		}

		if !domain.ValidateURL(url) {
			p.Errorf("Invalid YouTube URL. Please try again.")
			continue
		}

		p.Warnf("\nSelect download type:")
		p.Plainf("1. Single video/audio")
		p.Plainf("2. Entire playlist")
		p.Plainf("3. Get video info only")
		p.Plainf("4. Enter new URL")

		choice, ok := readLine("Choice (1-4): ")
		if !ok {
			break
		}

		switch choice {
		case "1":
			summary, err := svc.DownloadSingle(ctx, url, policy)
			if err != nil || app.ExitCode(app.ModeSingle, summary, nil) != 0 {
				p.Errorf("Download failed. Try again with different settings.")
			}
		case "2":
			summary, err := svc.DownloadPlaylist(ctx, url, policy)
			if err != nil || summary.HasFailures() {
				p.Errorf("Playlist download failed.")
			}
			if summary != nil {
				p.Summary(summary)
			}
		case "3":
			info, err := svc.Info(ctx, url)
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidItem) {
					p.Errorf("Error getting video info: %v", err)
				}
			} else {
				p.VideoInfo(info)
			}
		case "4":
			continue
		default:
			p.Errorf("Invalid choice. Please select 1-4.")
			continue
		}

		p.Separator()
	}

	if ctx.Err() != nil {
		p.Warnf("Interrupted by user. Goodbye!")
	}
	return 0
}
