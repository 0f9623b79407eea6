package scoring

import "errors"

// Sentinel errors for ordering policy parsing.
var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrUnknownDirection = errors.New("unknown sort direction")
)
