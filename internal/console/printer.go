package console

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/pkg/logger"
)

// Color modes accepted by NewPrinter
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Printer writes user-facing output. Colour is decided once, when the
// printer is built, and never through package-level state.
type Printer struct {
	out io.Writer

	title   *color.Color
	info    *color.Color
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	accent  *color.Color
}

// NewPrinter creates a printer on stdout. mode is auto, always or never;
// auto colours only a terminal without NO_COLOR set.
func NewPrinter(mode string) *Printer {
	enabled := false
	switch mode {
	case ColorAlways:
		enabled = true
	case ColorNever:
	default:
		fd := os.Stdout.Fd()
		enabled = os.Getenv("NO_COLOR") == "" &&
			(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	}

	if enabled {
		return NewPrinterTo(colorable.NewColorableStdout(), true)
	}
	return NewPrinterTo(os.Stdout, false)
}

// NewPrinterTo creates a printer on w
func NewPrinterTo(w io.Writer, colored bool) *Printer {
	p := &Printer{
		out:     w,
		title:   color.New(color.FgCyan, color.Bold),
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		accent:  color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.title, p.info, p.success, p.warn, p.fail, p.accent} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Writer returns the underlying output
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Banner prints the startup banner
func (p *Printer) Banner(version string) {
	line := strings.Repeat("=", 60)
	p.title.Fprintln(p.out, line)
	p.title.Fprintf(p.out, "    tubefetch %s\n", version)
	p.title.Fprintln(p.out, "    Supports: Single, Playlist, Bulk Downloads")
	p.title.Fprintln(p.out, "    Formats: MP4, MP3, M4A | Quality: 144p-4K")
	p.title.Fprintln(p.out, line)
	fmt.Fprintln(p.out)
}

// Infof prints an informational line
func (p *Printer) Infof(format string, args ...interface{}) {
	p.info.Fprintf(p.out, format+"\n", args...)
}

// Successf prints a success line
func (p *Printer) Successf(format string, args ...interface{}) {
	p.success.Fprintf(p.out, format+"\n", args...)
}

// Warnf prints a warning line
func (p *Printer) Warnf(format string, args ...interface{}) {
	p.warn.Fprintf(p.out, format+"\n", args...)
}

// Errorf prints an error line
func (p *Printer) Errorf(format string, args ...interface{}) {
	p.fail.Fprintf(p.out, format+"\n", args...)
}

// Plainf prints an uncoloured line
func (p *Printer) Plainf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Prompt prints a prompt without a trailing newline
func (p *Printer) Prompt(label string) {
	p.info.Fprint(p.out, label)
}

// Separator prints the divider used between interactive rounds
func (p *Printer) Separator() {
	p.accent.Fprintln(p.out, "\n"+strings.Repeat("=", 50))
}

// BatchStarting announces a batch and the policy it uses
func (p *Printer) BatchStarting(mode string, items int, policy domain.DownloadPolicy) {
	switch mode {
	case "bulk":
		p.Infof("Starting bulk download of %d URLs...", items)
	case "playlist":
		p.Warnf("Found %d videos in playlist", items)
	}
	p.Warnf("%s", policy)
}

// ItemStarted implements domain.ProgressReporter
func (p *Printer) ItemStarted(index, total int, item domain.WorkItem) {
	if total > 1 {
		p.accent.Fprintf(p.out, "\n[%d/%d] Processing: %s\n", index, total, item)
		return
	}
	p.Infof("Downloading: %s", item)
}

// ItemFinished implements domain.ProgressReporter
func (p *Printer) ItemFinished(index, total int, result domain.AttemptResult) {
	if result.Succeeded {
		if result.FilePath != "" {
			p.Successf("✓ Successfully downloaded: %s", result.FilePath)
		} else {
			p.Successf("✓ Successfully downloaded!")
		}
		return
	}
	p.Errorf("✗ Error downloading %s: %s", result.Item, result.ErrorDetail)
}

// Summary prints the outcome of a batch
func (p *Printer) Summary(summary *domain.BatchSummary) {
	fmt.Fprintln(p.out)
	if summary.Interrupted {
		p.Warnf("Download interrupted by user. %d item(s) not attempted.", summary.Remaining)
	} else {
		p.Successf("Download completed!")
	}
	p.Plainf("Successful: %d", summary.Succeeded)
	p.Plainf("Failed: %d", summary.Failed)
	for _, item := range summary.FailedItems {
		p.Errorf("  - %s", item)
	}
}

// VideoInfo prints metadata returned by an info lookup
func (p *Printer) VideoInfo(info *domain.VideoInfo) {
	p.Successf("Video Information:")
	p.Plainf("  Title: %s", info.Title)
	p.Plainf("  Duration: %s", FormatDuration(info.Duration))
	p.Plainf("  Uploader: %s", info.Uploader)
	p.Plainf("  Views: %s", FormatViews(info.ViewCount))
	p.Plainf("  Upload Date: %s", FormatUploadDate(info.UploadDate))
}

// Attempts prints history rows as a table
func (p *Printer) Attempts(attempts []*domain.Attempt) {
	if len(attempts) == 0 {
		p.Warnf("No attempts recorded")
		return
	}
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSTATUS\tFORMAT\tURL\tDETAIL")
	for _, a := range attempts {
		detail := a.FilePath
		if !a.Succeeded {
			detail = a.ErrorMessage
		}
		fmt.Fprintf(w, "%s\t%s\t%s/%s/%s\t%s\t%s\n",
			a.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			a.Status(),
			a.MediaKind, a.Quality, a.Container,
			a.URL,
			truncate(detail, 60))
	}
	w.Flush()
}

// Stats prints aggregate history counts
func (p *Printer) Stats(stats *domain.AttemptStats) {
	p.title.Fprintln(p.out, "Download history")
	p.Plainf("  Batches:   %d", stats.Batches)
	p.Plainf("  Attempts:  %d", stats.Total)
	p.Successf("  Succeeded: %d", stats.Succeeded)
	p.Errorf("  Failed:    %d (invalid: %d)", stats.Failed, stats.Invalid)
}

// LogEntries prints entries read from a category log
func (p *Printer) LogEntries(entries []logger.LogEntry) {
	for _, e := range entries {
		if e.Timestamp == "" {
			p.Plainf("%s", e.Message)
			continue
		}
		line := fmt.Sprintf("%s %-5s %s%s", formatTimestamp(e.Timestamp), strings.ToUpper(e.Level), e.Message, formatFields(e.Fields))
		switch e.Level {
		case "error":
			p.Errorf("%s", line)
		case "warn":
			p.Warnf("%s", line)
		default:
			p.Plainf("%s", line)
		}
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("15:04:05")
}

func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
