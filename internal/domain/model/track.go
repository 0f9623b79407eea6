// Package model contains domain models passed between layers.
package model

// Track is a single library track as read from the library source.
// Source fields are never modified after reading; Score is derived by the
// scoring package on every ranking pass and is never persisted.
type Track struct {
	ID          string
	AlbumID     string // album-group identifier
	Title       string
	Artist      string
	AlbumTitle  string
	AlbumArtist string
	PlayCount   int     // zero when absent
	Rating      float64 // zero when absent
	Score       ScoreBundle
}

// ScoreBundle holds the four independently computed track scores.
type ScoreBundle struct {
	BayesianEstimate             float64 `json:"bayesian_estimate"`
	EstimatedTrueValue           float64 `json:"estimated_true_value"`
	BaseNWeightedRatingPlayCount float64 `json:"base_n_weighted_rating_play_count"`
	BaseNWeightedPlayCountRating float64 `json:"base_n_weighted_play_count_rating"`
}
