// Package repository persists the exclusion list and user preferences.
package repository

import (
	"time"

	"github.com/okian/nextalbum/internal/domain/model"
	"github.com/okian/nextalbum/pkg/logger"
)

type options struct {
	defaults model.Preferences
	now      func() time.Time
	logger   logger.Logger
}

func defaultOptions() options {
	return options{
		defaults: model.DefaultPreferences(),
		now:      time.Now,
	}
}

// Option applies a configuration option to a Store implementation.
type Option func(*options)

// WithDefaults sets the preferences a fresh store starts with.
func WithDefaults(p model.Preferences) Option {
	return func(o *options) {
		o.defaults = p
	}
}

// WithClock sets the time source used to stamp new exclusions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
