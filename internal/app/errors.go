package service

import "errors"

var (
	// ErrNotStarted is returned by Exclude before any ranking pass built a sequence.
	ErrNotStarted = errors.New("browser not started")
	// ErrNoCurrentAlbum is returned by Exclude for the empty result.
	ErrNoCurrentAlbum = errors.New("no album under the cursor")
	// ErrStaleCursor is returned by Exclude when the given album is not the
	// one under the cursor.
	ErrStaleCursor = errors.New("album is not under the cursor")
)
