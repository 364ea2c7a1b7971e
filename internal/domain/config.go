package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Download     DownloadConfig     `mapstructure:"download"`
	Ytdlp        YtdlpConfig        `mapstructure:"ytdlp"`
	Metadata     MetadataConfig     `mapstructure:"metadata"`
	History      HistoryConfig      `mapstructure:"history"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Console      ConsoleConfig      `mapstructure:"console"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DownloadConfig holds the defaults a DownloadPolicy is built from.
// CLI flags override these per invocation.
type DownloadConfig struct {
	Dir               string `mapstructure:"dir"`
	Format            string `mapstructure:"format"`  // video, audio
	Quality           string `mapstructure:"quality"` // key of the quality tables
	Output            string `mapstructure:"output"`  // mp4, mp3, m4a
	PlaylistSubdir    string `mapstructure:"playlist_subdir"`
	OutputTemplate    string `mapstructure:"output_template"`
	PermissiveQuality bool   `mapstructure:"permissive_quality"`
}

// YtdlpConfig configures the external yt-dlp tool
type YtdlpConfig struct {
	Binary            string        `mapstructure:"binary"`
	CookieFile        string        `mapstructure:"cookie_file"`
	FFmpegLocation    string        `mapstructure:"ffmpeg_location"`
	RestrictFilenames bool          `mapstructure:"restrict_filenames"`
	Timeout           time.Duration `mapstructure:"timeout"` // 0 disables the per-item timeout
	AutoInstall       bool          `mapstructure:"auto_install"`
}

// MetadataConfig selects the backend used for --info lookups
type MetadataConfig struct {
	Source string `mapstructure:"source"` // ytdlp, native
}

// HistoryConfig configures the attempt history database
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // notify-send, osascript
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
	LogsDir    string `mapstructure:"logs_dir"`
}

// ConsoleConfig controls terminal output
type ConsoleConfig struct {
	Color string `mapstructure:"color"` // auto, always, never
}

// Metadata sources
const (
	MetadataSourceYtdlp  = "ytdlp"
	MetadataSourceNative = "native"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8090,
		},
		Download: DownloadConfig{
			Dir:            "downloads",
			Format:         string(MediaVideo),
			Quality:        DefaultQuality,
			Output:         string(ContainerMP4),
			PlaylistSubdir: "playlist_downloads",
			OutputTemplate: "%(title)s.%(ext)s",
		},
		Ytdlp: YtdlpConfig{
			Binary: "yt-dlp",
		},
		Metadata: MetadataConfig{
			Source: MetadataSourceYtdlp,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "$HOME/.tubefetch/history.db",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "console",
			OutputPath: "stderr",
			LogsDir:    "$HOME/.tubefetch/logs",
		},
		Console: ConsoleConfig{
			Color: "auto",
		},
	}
}
