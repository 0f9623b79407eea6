package repository

import (
	"context"
	"fmt"

	"github.com/okian/nextalbum/internal/domain/model"
	scoring "github.com/okian/nextalbum/internal/domain/scoring"
)

// Store provides the exclusion list and the preferences.
type Store interface {
	// ListExclusions returns every exclusion in the order they were added.
	ListExclusions(ctx context.Context) ([]model.Exclusion, error)
	// AddExclusion records an album. Adding an album twice keeps the first entry.
	AddExclusion(ctx context.Context, id, title, artist string) error
	// DeleteExclusion removes an album from the list.
	// Returns ErrNotFound if the album is not on the list.
	DeleteExclusion(ctx context.Context, id string) error

	// GetPreferences returns the stored preferences.
	GetPreferences(ctx context.Context) (model.Preferences, error)
	// SetPreferences validates and replaces the stored preferences.
	SetPreferences(ctx context.Context, p model.Preferences) error
}

// Validate checks that p names a known sort key and direction and returns
// it in canonical form.
func Validate(p model.Preferences) (model.Preferences, error) {
	order, err := scoring.ParseOrder(p.SortKey, p.Direction)
	if err != nil {
		return model.Preferences{}, fmt.Errorf("%w: %w", ErrInvalidPreference, err)
	}
	p.SortKey = string(order.Key)
	p.Direction = string(order.Direction)
	return p, nil
}
