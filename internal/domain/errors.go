package domain

import "errors"

var (
	// ErrSourceUnavailable means the item list could not be produced. Nothing is attempted.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrFetchFailure is the normalized failure of a single item.
	ErrFetchFailure = errors.New("fetch failed")

	// ErrInvalidItem means an identifier failed shape validation before any fetch.
	ErrInvalidItem = errors.New("invalid item")

	// ErrUnknownQuality is returned when a quality key is not in the selector tables.
	ErrUnknownQuality = errors.New("unknown quality")

	// ErrInvalidPolicy covers media kind and container validation failures.
	ErrInvalidPolicy = errors.New("invalid download policy")
)
