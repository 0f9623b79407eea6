package library

import "errors"

// Sentinel kinds for library errors.
var (
	// ErrLibraryUnavailable is returned when the index cannot be read.
	ErrLibraryUnavailable = errors.New("library unavailable")
	// ErrNotFound is returned for an album identifier the index does not hold.
	ErrNotFound = errors.New("album not found")
)
