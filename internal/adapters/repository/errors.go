package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	// ErrStorage wraps every failure of the underlying database.
	ErrStorage = errors.New("storage error")
	// ErrNotFound is returned when deleting an exclusion that does not exist.
	ErrNotFound = errors.New("exclusion not found")
	// ErrInvalidPreference is returned for preferences that cannot be stored.
	ErrInvalidPreference = errors.New("invalid preference")
)
