package domain

import (
	"fmt"
	"sort"
	"strings"
)

// MediaKind selects between a video download and an audio-only download
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// Container is the requested output container/codec
type Container string

const (
	ContainerMP4 Container = "mp4"
	ContainerMP3 Container = "mp3"
	ContainerM4A Container = "m4a"
)

// DefaultQuality is the quality key used when none is given
const DefaultQuality = "best"

// Fallback selectors used when permissive quality is enabled and the key is unknown.
const (
	fallbackVideoSelector = "best"
	fallbackAudioSelector = "bestaudio/best"
	defaultAudioBitrate   = "192"
)

// videoQualities maps the named video qualities to yt-dlp format queries
var videoQualities = map[string]string{
	"144p":  "worst[height<=144]",
	"240p":  "worst[height<=240]",
	"360p":  "best[height<=360]",
	"480p":  "best[height<=480]",
	"720p":  "best[height<=720]",
	"1080p": "best[height<=1080]",
	"1440p": "best[height<=1440]",
	"2160p": "best[height<=2160]",
	"best":  "best",
	"worst": "worst",
}

// audioQualities maps the named audio qualities to yt-dlp format queries
var audioQualities = map[string]string{
	"best":  "bestaudio/best",
	"worst": "worstaudio/worst",
	"128k":  "bestaudio[abr<=128]",
	"192k":  "bestaudio[abr<=192]",
	"256k":  "bestaudio[abr<=256]",
	"320k":  "bestaudio[abr<=320]",
}

// DownloadPolicy is the format/quality/output setting shared by every item of a batch.
// It is built once by NewDownloadPolicy and passed by value afterwards.
type DownloadPolicy struct {
	MediaKind      MediaKind `json:"media_kind"`
	Quality        string    `json:"quality"`
	Container      Container `json:"container"`
	OutputDir      string    `json:"output_dir"`
	OutputTemplate string    `json:"output_template"`

	// Derived from the quality tables
	FormatSelector string `json:"format_selector"`
	ExtractAudio   bool   `json:"extract_audio"`
	AudioQuality   string `json:"audio_quality,omitempty"`
}

// PolicyOptions is the caller input a DownloadPolicy is built from
type PolicyOptions struct {
	MediaKind      string
	Quality        string
	Container      string
	OutputDir      string
	OutputTemplate string

	// Permissive restores the legacy behaviour of silently falling back to the
	// default selector for unknown quality keys.
	Permissive bool
}

// NewDownloadPolicy validates the options and resolves the format selector
func NewDownloadPolicy(opts PolicyOptions) (DownloadPolicy, error) {
	kind := MediaKind(strings.ToLower(strings.TrimSpace(opts.MediaKind)))
	if kind == "" {
		kind = MediaVideo
	}
	if !ValidateMediaKind(kind) {
		return DownloadPolicy{}, fmt.Errorf("%w: format must be video or audio, got %q", ErrInvalidPolicy, opts.MediaKind)
	}

	container := Container(strings.ToLower(strings.TrimSpace(opts.Container)))
	if container == "" {
		container = ContainerMP4
	}
	if !ValidateContainer(container) {
		return DownloadPolicy{}, fmt.Errorf("%w: output must be mp4, mp3 or m4a, got %q", ErrInvalidPolicy, opts.Container)
	}

	if strings.TrimSpace(opts.OutputDir) == "" {
		return DownloadPolicy{}, fmt.Errorf("%w: output directory not set", ErrInvalidPolicy)
	}

	quality := strings.ToLower(strings.TrimSpace(opts.Quality))
	if quality == "" {
		quality = DefaultQuality
	}

	template := opts.OutputTemplate
	if template == "" {
		template = "%(title)s.%(ext)s"
	}

	policy := DownloadPolicy{
		MediaKind:      kind,
		Quality:        quality,
		Container:      container,
		OutputDir:      opts.OutputDir,
		OutputTemplate: template,
	}

	selector, known := LookupQuality(kind, quality)
	if !known {
		if !opts.Permissive {
			return DownloadPolicy{}, fmt.Errorf("%w %q for %s (valid: %s)",
				ErrUnknownQuality, quality, kind, strings.Join(QualityKeys(kind), ", "))
		}
		selector = fallbackVideoSelector
		if kind == MediaAudio {
			selector = fallbackAudioSelector
		}
	}

	switch kind {
	case MediaVideo:
		if container == ContainerMP4 {
			policy.FormatSelector = selector + "[ext=mp4]/best[ext=mp4]/best"
		} else {
			policy.FormatSelector = selector
		}
	case MediaAudio:
		policy.FormatSelector = selector
		if container == ContainerMP3 || container == ContainerM4A {
			policy.ExtractAudio = true
			policy.AudioQuality = audioBitrate(quality)
		}
	}

	return policy, nil
}

// WithOutputDir returns a copy of the policy writing into dir
func (p DownloadPolicy) WithOutputDir(dir string) DownloadPolicy {
	p.OutputDir = dir
	return p
}

// String renders the policy for console and log output
func (p DownloadPolicy) String() string {
	return fmt.Sprintf("Format: %s | Quality: %s | Output: %s", p.MediaKind, p.Quality, p.Container)
}

// LookupQuality returns the format query for a quality key
func LookupQuality(kind MediaKind, quality string) (string, bool) {
	table := videoQualities
	if kind == MediaAudio {
		table = audioQualities
	}
	selector, ok := table[strings.ToLower(quality)]
	return selector, ok
}

// QualityKeys lists the accepted quality keys for a media kind, sorted
func QualityKeys(kind MediaKind) []string {
	table := videoQualities
	if kind == MediaAudio {
		table = audioQualities
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateMediaKind checks if a media kind is valid
func ValidateMediaKind(kind MediaKind) bool {
	return kind == MediaVideo || kind == MediaAudio
}

// ValidateContainer checks if a container is valid
func ValidateContainer(container Container) bool {
	return container == ContainerMP4 || container == ContainerMP3 || container == ContainerM4A
}

// audioBitrate turns "320k" into "320"; anything without a k gets the default bitrate.
func audioBitrate(quality string) string {
	if strings.Contains(quality, "k") {
		return strings.ReplaceAll(quality, "k", "")
	}
	return defaultAudioBitrate
}
