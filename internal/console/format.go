package console

import (
	"fmt"
	"time"
)

// FormatDuration renders seconds as MM:SS, or HH:MM:SS from one hour up.
// Zero or negative durations are "Unknown".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "Unknown"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatViews abbreviates a view count: 1.2K, 3.4M, 5.6B
func FormatViews(views int64) string {
	switch {
	case views <= 0:
		return "Unknown"
	case views >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(views)/1_000_000_000)
	case views >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(views)/1_000_000)
	case views >= 1_000:
		return fmt.Sprintf("%.1fK", float64(views)/1_000)
	default:
		return fmt.Sprintf("%d", views)
	}
}

// FormatUploadDate turns yt-dlp's YYYYMMDD into YYYY-MM-DD; other input is returned as is
func FormatUploadDate(date string) string {
	t, err := time.Parse("20060102", date)
	if err != nil {
		if date == "" {
			return "Unknown"
		}
		return date
	}
	return t.Format("2006-01-02")
}
