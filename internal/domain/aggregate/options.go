package aggregate

import scoring "github.com/okian/nextalbum/internal/domain/scoring"

// Option applies a configuration option to an aggregation pass.
type Option func(*config)

type config struct {
	order    scoring.Order
	calcOpts []scoring.Option
}

// WithOrder orders the grouped albums by an album score. The zero Order
// keeps first-seen order.
func WithOrder(o scoring.Order) Option {
	return func(c *config) {
		c.order = o
	}
}

// WithoutRatings treats every rating as absent.
func WithoutRatings() Option {
	return func(c *config) {
		c.calcOpts = append(c.calcOpts, scoring.WithoutRatings())
	}
}
