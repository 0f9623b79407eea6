// Package scoring converts per-track play-count and rating statistics into
// comparable scores.
//
// Four scores are computed for every track:
//
//	bayesianEstimate             = (p/(p+limit))·r + (limit/(p+limit))·ratingAvg
//	estimatedTrueValue           = (p/playCountMax)·r + (1 − p/playCountMax)·ratingAvg
//	baseNWeightedRatingPlayCount = 1000·r + 100·p
//	baseNWeightedPlayCountRating = 1000·p + 100·r
//
// where p and r are the play count and rating shifted by one (absent values
// become 1) and the averages and maxima are taken over the whole batch.
package scoring

import (
	"github.com/okian/nextalbum/internal/domain/model"
)

// limit is the minimum-significance constant of the Bayesian estimate.
const limit = 1.0

// Stats are the batch-wide aggregates every score is computed against.
type Stats struct {
	RatingAvg    float64
	RatingMax    float64 // computed for completeness; no score reads it
	PlayCountAvg float64
	PlayCountMax float64 // never below 1
}

// Calculator scores tracks. The zero value is not usable; use NewCalculator.
type Calculator struct {
	useRatings bool
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithoutRatings makes the calculator treat every rating as absent, both for
// the per-track term and for the batch statistics.
func WithoutRatings() Option {
	return func(c *Calculator) {
		c.useRatings = false
	}
}

// NewCalculator creates a calculator that uses ratings unless told otherwise.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{useRatings: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) rating(t *model.Track) float64 {
	if !c.useRatings {
		return 0
	}
	return t.Rating
}

// Stats computes the batch statistics over every track of the batch.
// An empty batch yields zero averages and PlayCountMax of 1.
func (c *Calculator) Stats(tracks []*model.Track) Stats {
	s := Stats{PlayCountMax: 1}
	if len(tracks) == 0 {
		return s
	}

	var ratingSum, playSum, playMax float64
	for i, t := range tracks {
		r := c.rating(t)
		pc := float64(max(t.PlayCount, 0))
		ratingSum += r
		playSum += pc
		if i == 0 || r > s.RatingMax {
			s.RatingMax = r
		}
		if pc > playMax {
			playMax = pc
		}
	}

	n := float64(len(tracks))
	s.RatingAvg = ratingSum / n
	s.PlayCountAvg = playSum / n
	if playMax > 0 {
		s.PlayCountMax = playMax
	}
	return s
}

// Score computes the bundle of one track against the batch statistics.
func (c *Calculator) Score(t *model.Track, s Stats) model.ScoreBundle {
	return Calculate(t.PlayCount, c.rating(t), s)
}

// ScoreAll attaches a bundle to every track of the batch and returns the
// statistics used.
func (c *Calculator) ScoreAll(tracks []*model.Track) Stats {
	s := c.Stats(tracks)
	for _, t := range tracks {
		t.Score = c.Score(t, s)
	}
	return s
}

// ComputeStats is Stats with ratings enabled.
func ComputeStats(tracks []*model.Track) Stats {
	return NewCalculator().Stats(tracks)
}

// Calculate is the pure score function. It never fails and never returns NaN:
// absent values are floored to 1 and a non-positive PlayCountMax is treated as 1.
func Calculate(playCount int, rating float64, s Stats) model.ScoreBundle {
	p := 1.0
	if playCount > 0 {
		p = float64(playCount) + 1
	}
	r := 1.0
	if rating > 0 {
		r = rating + 1
	}
	playCountMax := s.PlayCountMax
	if playCountMax <= 0 {
		playCountMax = 1
	}

	significance := p / playCountMax

	return model.ScoreBundle{
		BayesianEstimate:             (p/(p+limit))*r + (limit/(p+limit))*s.RatingAvg,
		EstimatedTrueValue:           significance*r + (1-significance)*s.RatingAvg,
		BaseNWeightedRatingPlayCount: 1000*r + 100*p,
		BaseNWeightedPlayCountRating: 1000*p + 100*r,
	}
}
