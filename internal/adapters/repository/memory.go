package repository

import (
	"context"
	"sync"

	"github.com/okian/nextalbum/internal/domain/model"
)

// MemoryStore is a Store kept in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	exclusions []model.Exclusion
	prefs      model.Preferences
	opts       options
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{prefs: o.defaults, opts: o}
}

// ListExclusions implements Store.
func (s *MemoryStore) ListExclusions(context.Context) ([]model.Exclusion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Exclusion, len(s.exclusions))
	copy(out, s.exclusions)
	return out, nil
}

// AddExclusion implements Store.
func (s *MemoryStore) AddExclusion(_ context.Context, id, title, artist string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.exclusions {
		if e.ID == id {
			return nil
		}
	}
	s.exclusions = append(s.exclusions, model.Exclusion{
		ID:        id,
		Title:     title,
		Artist:    artist,
		CreatedAt: s.opts.now().UTC(),
	})
	return nil
}

// DeleteExclusion implements Store.
func (s *MemoryStore) DeleteExclusion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.exclusions {
		if e.ID == id {
			s.exclusions = append(s.exclusions[:i], s.exclusions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// GetPreferences implements Store.
func (s *MemoryStore) GetPreferences(context.Context) (model.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs, nil
}

// SetPreferences implements Store.
func (s *MemoryStore) SetPreferences(_ context.Context, p model.Preferences) error {
	p, err := Validate(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.prefs = p
	s.mu.Unlock()
	return nil
}
