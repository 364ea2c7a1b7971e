package domain

import "time"

// WorkItem is one media reference (a URL) to fetch
type WorkItem string

// FailureKind classifies a failed attempt
type FailureKind string

const (
	FailureNone    FailureKind = ""
	FailureFetch   FailureKind = "fetch_failure"
	FailureInvalid FailureKind = "invalid_item"
)

// AttemptResult is the outcome of one fetch attempt
type AttemptResult struct {
	Item        WorkItem      `json:"item"`
	Succeeded   bool          `json:"succeeded"`
	FailureKind FailureKind   `json:"failure_kind,omitempty"`
	ErrorDetail string        `json:"error_detail,omitempty"`
	FilePath    string        `json:"file_path,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Succeeded builds a successful result
func Succeeded(item WorkItem, filePath string) AttemptResult {
	return AttemptResult{Item: item, Succeeded: true, FilePath: filePath}
}

// Failed builds a failed result from an error
func Failed(item WorkItem, kind FailureKind, err error) AttemptResult {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return AttemptResult{Item: item, FailureKind: kind, ErrorDetail: detail}
}

// BatchSummary aggregates the results of a batch run
type BatchSummary struct {
	BatchID     string          `json:"batch_id"`
	Total       int             `json:"total"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	FailedItems []WorkItem      `json:"failed_items"`
	Results     []AttemptResult `json:"results"`
	Interrupted bool            `json:"interrupted,omitempty"`
	Remaining   int             `json:"remaining,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
}

// NewBatchSummary creates an empty summary
func NewBatchSummary(batchID string) *BatchSummary {
	return &BatchSummary{
		BatchID:     batchID,
		FailedItems: []WorkItem{},
		Results:     []AttemptResult{},
		StartedAt:   time.Now(),
	}
}

// Record adds one attempt result. Results must be recorded in input order.
func (s *BatchSummary) Record(result AttemptResult) {
	s.Total++
	s.Results = append(s.Results, result)
	if result.Succeeded {
		s.Succeeded++
		return
	}
	s.Failed++
	s.FailedItems = append(s.FailedItems, result.Item)
}

// Finish stamps the completion time
func (s *BatchSummary) Finish() {
	s.FinishedAt = time.Now()
}

// HasFailures reports whether any attempt failed
func (s *BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// FailedResults returns only the failed results
func (s *BatchSummary) FailedResults() []AttemptResult {
	var failed []AttemptResult
	for _, r := range s.Results {
		if !r.Succeeded {
			failed = append(failed, r)
		}
	}
	return failed
}
