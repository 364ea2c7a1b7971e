package domain

// AttemptRepository defines the interface for attempt history persistence
type AttemptRepository interface {
	// Create stores one attempt
	Create(attempt *Attempt) error

	// FindByBatch returns the attempts of a batch in the order they were made
	FindByBatch(batchID string) ([]*Attempt, error)

	// FindRecent returns the newest attempts first, optionally only failures
	FindRecent(limit int, onlyFailed bool) ([]*Attempt, error)

	// GetStats returns aggregate counts over the whole history
	GetStats() (*AttemptStats, error)
}

// AttemptStats represents history statistics
type AttemptStats struct {
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Invalid   int64 `json:"invalid"`
	Batches   int64 `json:"batches"`
}
