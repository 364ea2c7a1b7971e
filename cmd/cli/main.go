package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/tubefetch/internal/app"
	"github.com/yourusername/tubefetch/internal/console"
	"github.com/yourusername/tubefetch/internal/domain"
	"github.com/yourusername/tubefetch/pkg/logger"
)

var (
	configPath string
	noColor    bool
	verbose    bool

	formatFlag   string
	qualityFlag  string
	outputFlag   string
	dirFlag      string
	playlistFlag bool
	bulkFlag     string
	infoFlag     bool

	exitCode int

	rootCmd = &cobra.Command{
		Use:   "tubefetch [url]",
		Short: "Download YouTube videos, audio, playlists and URL lists",
		Long: `tubefetch downloads single videos, whole playlists or a list of URLs read
from a file, as video (mp4) or audio (mp3, m4a), using yt-dlp.

Without a URL or --bulk it starts an interactive prompt.`,
		Example: `  tubefetch "https://youtube.com/watch?v=VIDEO_ID"
  tubefetch "PLAYLIST_URL" -p -f audio -o mp3
  tubefetch -b urls.txt -q 720p
  tubefetch "VIDEO_URL" -i`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run:           runRoot,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./configs/config.yaml, $HOME/.tubefetch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Download format: video or audio (default from config: video)")
	rootCmd.Flags().StringVarP(&qualityFlag, "quality", "q", "", "Quality (video: 144p,240p,360p,480p,720p,1080p,1440p,2160p,best,worst | audio: best,worst,128k,192k,256k,320k)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: mp4, mp3 or m4a (default from config: mp4)")
	rootCmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Output directory (default from config: downloads)")
	rootCmd.Flags().BoolVarP(&playlistFlag, "playlist", "p", false, "Download the entire playlist")
	rootCmd.Flags().StringVarP(&bulkFlag, "bulk", "b", "", "Bulk download from file (one URL per line)")
	rootCmd.Flags().BoolVarP(&infoFlag, "info", "i", false, "Show video info without downloading")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// cliEnv holds what every command needs after configuration is loaded
type cliEnv struct {
	config  *domain.Config
	log     *zap.Logger
	printer *console.Printer
}

func loadEnv() (*cliEnv, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logCfg := logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		log = logger.NewDefault()
		log.Warn("Failed to open log output, using stderr", zap.Error(err))
	}

	colorMode := config.Console.Color
	if noColor {
		colorMode = console.ColorNever
	}

	return &cliEnv{
		config:  config,
		log:     log,
		printer: console.NewPrinter(colorMode),
	}, nil
}

// signalContext is cancelled by the first SIGINT/SIGTERM. The batch then stops
// after the current item; a second signal terminates the process.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

func runRoot(cmd *cobra.Command, args []string) {
	rt, err := loadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = 1
		return
	}

	rt.printer.Banner(version)

	container, err := app.NewContainer(rt.config, rt.log, rt.printer)
	if err != nil {
		rt.printer.Errorf("Error: %v", err)
		exitCode = 1
		return
	}
	defer container.Close()

	ctx, stop := signalContext()
	defer stop()

	svc := container.Service
	policyOpts := domain.PolicyOptions{
		MediaKind: formatFlag,
		Quality:   qualityFlag,
		Container: outputFlag,
		OutputDir: dirFlag,
	}

	var url string
	if len(args) > 0 {
		url = args[0]
	}

	// --info does not need a policy
	if bulkFlag == "" && url != "" && infoFlag {
		info, err := svc.Info(ctx, url)
		if err != nil {
			reportError(rt.printer, err, url)
		} else {
			rt.printer.VideoInfo(info)
		}
		exitCode = app.ExitCode(app.ModeInfo, nil, err)
		return
	}

	policy, err := svc.BuildPolicy(policyOpts)
	if err != nil {
		rt.printer.Errorf("Error: %v", err)
		exitCode = 1
		return
	}

	switch {
	case bulkFlag != "":
		exitCode = runBulk(ctx, rt.printer, svc, bulkFlag, policy)
	case url != "":
		mode := app.ModeSingle
		if playlistFlag {
			mode = app.ModePlaylist
		}
		exitCode = runURL(ctx, rt.printer, svc, mode, url, policy)
	default:
		exitCode = runInteractive(ctx, os.Stdin, rt.printer, svc, policy)
	}
}

func runBulk(ctx context.Context, p *console.Printer, svc *app.DownloadService, path string, policy domain.DownloadPolicy) int {
	items, err := svc.LoadBulk(ctx, path)
	if err != nil {
		reportError(p, err, path)
		return app.ExitCode(app.ModeBulk, nil, err)
	}
	p.Infof("Loaded %d URLs from file", len(items))
	p.BatchStarting(string(app.ModeBulk), len(items), policy)

	summary := svc.RunItems(ctx, items, policy)
	p.Summary(summary)
	return app.ExitCode(app.ModeBulk, summary, nil)
}

// downloader is the part of DownloadService used by the URL and interactive modes
type downloader interface {
	DownloadSingle(ctx context.Context, url string, policy domain.DownloadPolicy) (*domain.BatchSummary, error)
	DownloadPlaylist(ctx context.Context, url string, policy domain.DownloadPolicy) (*domain.BatchSummary, error)
	Info(ctx context.Context, url string) (*domain.VideoInfo, error)
}

func runURL(ctx context.Context, p *console.Printer, svc downloader, mode app.Mode, url string, policy domain.DownloadPolicy) int {
	var (
		summary *domain.BatchSummary
		err     error
	)
	p.Warnf("%s", policy)
	if mode == app.ModePlaylist {
		p.Infof("Downloading playlist: %s", url)
		summary, err = svc.DownloadPlaylist(ctx, url, policy)
	} else {
		summary, err = svc.DownloadSingle(ctx, url, policy)
	}
	if err != nil {
		reportError(p, err, url)
		return app.ExitCode(mode, nil, err)
	}
	if mode == app.ModePlaylist || summary.Interrupted {
		p.Summary(summary)
	}
	return app.ExitCode(mode, summary, nil)
}

func reportError(p *console.Printer, err error, subject string) {
	switch {
	case errors.Is(err, domain.ErrInvalidItem):
		p.Errorf("Invalid YouTube URL: %s", subject)
	case errors.Is(err, app.ErrNoItems):
		p.Errorf("No valid URLs found in file: %s", subject)
	case errors.Is(err, domain.ErrSourceUnavailable):
		p.Errorf("Error reading %s: %v", subject, err)
	default:
		p.Errorf("Error: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
