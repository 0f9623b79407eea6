package model

import "time"

// Exclusion is one entry of the persisted exclusion list.
type Exclusion struct {
	ID        string // album-group identifier
	Title     string
	Artist    string
	CreatedAt time.Time
}

// Preferences are the user settings consulted on every ranking pass.
type Preferences struct {
	// UseRatings includes track ratings in scoring. When false ratings are
	// treated as absent.
	UseRatings bool
	// SortKey names the score used to order albums; empty keeps library order.
	SortKey string
	// Direction is "ascending" or "descending".
	Direction string
	// SkipExcluded drops excluded albums from the browsed sequence instead of
	// only flagging them.
	SkipExcluded bool
}

// DefaultPreferences mirrors the settings a fresh store starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		UseRatings: true,
		Direction:  "descending",
	}
}
