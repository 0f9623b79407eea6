// Package library indexes audio files and serves tracks and album detail.
package library

import "github.com/okian/nextalbum/pkg/logger"

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithLogger sets a custom logger for the index.
func WithLogger(l logger.Logger) Option {
	return func(i *Index) {
		if l != nil {
			i.logger = l
		}
	}
}

// ScanOption applies a configuration option to the Scanner.
type ScanOption func(*Scanner)

// WithScanLogger sets a custom logger for the scanner.
func WithScanLogger(l logger.Logger) ScanOption {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExtensions replaces the set of file extensions the scanner reads.
// Extensions are matched case-insensitively and include the dot.
func WithExtensions(exts ...string) ScanOption {
	return func(s *Scanner) {
		if len(exts) > 0 {
			s.extensions = normalizeExtensions(exts)
		}
	}
}

// WithWorkers sets how many files have their tags read concurrently.
func WithWorkers(n int) ScanOption {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}
