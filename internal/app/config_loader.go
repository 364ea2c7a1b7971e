package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/tubefetch/internal/domain"
)

// EnvPrefix is the prefix of environment overrides, e.g. TUBEFETCH_DOWNLOAD_DIR
const EnvPrefix = "TUBEFETCH"

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.tubefetch")
		v.AddConfigPath("/etc/tubefetch")
	}

	// Registering every key as a default lets AutomaticEnv override keys
	// that the config file does not mention.
	for key, value := range configValues(config) {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// configValues flattens config into viper keys
func configValues(config *domain.Config) map[string]interface{} {
	return map[string]interface{}{
		"server.host": config.Server.Host,
		"server.port": config.Server.Port,

		"download.dir":                config.Download.Dir,
		"download.format":             config.Download.Format,
		"download.quality":            config.Download.Quality,
		"download.output":             config.Download.Output,
		"download.playlist_subdir":    config.Download.PlaylistSubdir,
		"download.output_template":    config.Download.OutputTemplate,
		"download.permissive_quality": config.Download.PermissiveQuality,

		"ytdlp.binary":             config.Ytdlp.Binary,
		"ytdlp.cookie_file":        config.Ytdlp.CookieFile,
		"ytdlp.ffmpeg_location":    config.Ytdlp.FFmpegLocation,
		"ytdlp.restrict_filenames": config.Ytdlp.RestrictFilenames,
		"ytdlp.timeout":            config.Ytdlp.Timeout.String(),
		"ytdlp.auto_install":       config.Ytdlp.AutoInstall,

		"metadata.source": config.Metadata.Source,

		"history.enabled":       config.History.Enabled,
		"history.database_path": config.History.DatabasePath,

		"notification.enabled": config.Notification.Enabled,
		"notification.method":  config.Notification.Method,

		"logging.level":       config.Logging.Level,
		"logging.format":      config.Logging.Format,
		"logging.output_path": config.Logging.OutputPath,
		"logging.logs_dir":    config.Logging.LogsDir,

		"console.color": config.Console.Color,
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.Dir = expandPath(config.Download.Dir)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)
	config.Logging.LogsDir = expandPath(config.Logging.LogsDir)
	config.Ytdlp.CookieFile = expandPath(config.Ytdlp.CookieFile)
	config.Ytdlp.FFmpegLocation = expandPath(config.Ytdlp.FFmpegLocation)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if strings.Contains(path, "$HOME") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return os.ExpandEnv(path)
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Download.Dir == "" {
		return fmt.Errorf("download directory not configured")
	}

	if !domain.ValidateMediaKind(domain.MediaKind(config.Download.Format)) {
		return fmt.Errorf("invalid download format: %q", config.Download.Format)
	}

	if !domain.ValidateContainer(domain.Container(config.Download.Output)) {
		return fmt.Errorf("invalid download output: %q", config.Download.Output)
	}

	if config.Download.PlaylistSubdir == "" {
		return fmt.Errorf("playlist subdirectory not configured")
	}

	if config.Ytdlp.Timeout < 0 {
		return fmt.Errorf("ytdlp timeout cannot be negative")
	}

	switch config.Metadata.Source {
	case domain.MetadataSourceYtdlp, domain.MetadataSourceNative:
	default:
		return fmt.Errorf("invalid metadata source: %q", config.Metadata.Source)
	}

	if config.History.Enabled && config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	switch config.Console.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid console color mode: %q", config.Console.Color)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "warn"
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range configValues(config) {
		v.Set(key, value)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
