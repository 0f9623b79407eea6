package service

import (
	"github.com/okian/nextalbum/internal/domain/model"
	"github.com/okian/nextalbum/pkg/logger"
)

// Option applies a configuration option to the Browser.
type Option func(*Browser)

// WithLogger sets a custom logger for the browser.
func WithLogger(l logger.Logger) Option {
	return func(b *Browser) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithPreferenceSource makes every ranking pass read the stored preferences.
func WithPreferenceSource(src PreferenceSource) Option {
	return func(b *Browser) {
		b.prefs = src
	}
}

// WithPreferences sets the preferences used when no preference source is
// configured.
func WithPreferences(p model.Preferences) Option {
	return func(b *Browser) {
		b.defaults = p
	}
}
