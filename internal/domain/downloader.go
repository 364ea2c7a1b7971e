package domain

import "context"

// FetchOperation downloads (and optionally transcodes) one item.
// Every failure mode is reported through the returned AttemptResult.
type FetchOperation interface {
	Fetch(ctx context.Context, item WorkItem, policy DownloadPolicy) AttemptResult
}

// FetchFunc adapts a function to FetchOperation
type FetchFunc func(ctx context.Context, item WorkItem, policy DownloadPolicy) AttemptResult

// Fetch calls f
func (f FetchFunc) Fetch(ctx context.Context, item WorkItem, policy DownloadPolicy) AttemptResult {
	return f(ctx, item, policy)
}

// SourceLoader produces the ordered item list for a batch
type SourceLoader interface {
	// Load returns ErrSourceUnavailable (wrapped) when the source cannot be read.
	// A readable source without qualifying entries yields an empty slice.
	Load(ctx context.Context, source string) ([]WorkItem, error)
}

// ProgressReporter receives per-item progress events from the batch runner
type ProgressReporter interface {
	ItemStarted(index, total int, item WorkItem)
	ItemFinished(index, total int, result AttemptResult)
}

// MetadataProvider looks up video information without downloading
type MetadataProvider interface {
	Lookup(ctx context.Context, url string) (*VideoInfo, error)
}

// VideoInfo is the metadata shown by --info
type VideoInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Duration   int    `json:"duration"` // seconds
	Uploader   string `json:"uploader"`
	ViewCount  int64  `json:"view_count"`
	UploadDate string `json:"upload_date"`
}
