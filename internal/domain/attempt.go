package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attempt is the persisted history record of one fetch attempt
type Attempt struct {
	ID           string      `json:"id" gorm:"primaryKey"`
	BatchID      string      `json:"batch_id" gorm:"not null;index"`
	URL          string      `json:"url" gorm:"not null;index"`
	MediaKind    MediaKind   `json:"media_kind"`
	Quality      string      `json:"quality"`
	Container    Container   `json:"container"`
	OutputDir    string      `json:"output_dir"`
	Succeeded    bool        `json:"succeeded" gorm:"index"`
	FailureKind  FailureKind `json:"failure_kind,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty" gorm:"type:text"`
	FilePath     string      `json:"file_path,omitempty"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   time.Time   `json:"finished_at" gorm:"index"`
}

// NewAttempt builds a history record from a result
func NewAttempt(batchID string, policy DownloadPolicy, result AttemptResult, startedAt time.Time) *Attempt {
	return &Attempt{
		ID:           uuid.New().String(),
		BatchID:      batchID,
		URL:          string(result.Item),
		MediaKind:    policy.MediaKind,
		Quality:      policy.Quality,
		Container:    policy.Container,
		OutputDir:    policy.OutputDir,
		Succeeded:    result.Succeeded,
		FailureKind:  result.FailureKind,
		ErrorMessage: result.ErrorDetail,
		FilePath:     result.FilePath,
		StartedAt:    startedAt,
		FinishedAt:   startedAt.Add(result.Duration),
	}
}

// Status renders the outcome for listings
func (a *Attempt) Status() string {
	if a.Succeeded {
		return "ok"
	}
	if a.FailureKind == FailureInvalid {
		return "invalid"
	}
	return "failed"
}

// youtubeHosts are the hosts accepted by ValidateURL
var youtubeHosts = []string{
	"youtube.com",
	"youtu.be",
	"www.youtube.com",
	"m.youtube.com",
}

// ValidateURL does a basic shape check for supported video URLs
func ValidateURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range youtubeHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
