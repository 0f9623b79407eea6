// Package aggregate scores a batch of tracks and groups them into albums.
package aggregate

import (
	"github.com/okian/nextalbum/internal/domain/model"
	scoring "github.com/okian/nextalbum/internal/domain/scoring"
)

// Aggregate scores every track against the whole batch, groups tracks by
// AlbumID and flags albums present in the exclusion list.
//
// Groups appear in the order their first track appears in the input and keep
// the input order of their tracks. Excluded albums are flagged, never dropped.
// An empty batch yields an empty, non-nil sequence.
func Aggregate(tracks []*model.Track, exclusions []model.Exclusion, opts ...Option) []*model.Album {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(tracks) == 0 {
		return []*model.Album{}
	}

	scoring.NewCalculator(cfg.calcOpts...).ScoreAll(tracks)

	excluded := make(map[string]struct{}, len(exclusions))
	for _, e := range exclusions {
		excluded[e.ID] = struct{}{}
	}

	albums := make([]*model.Album, 0)
	byID := make(map[string]*model.Album)
	for _, t := range tracks {
		a, ok := byID[t.AlbumID]
		if !ok {
			_, isExcluded := excluded[t.AlbumID]
			a = &model.Album{ID: t.AlbumID, Excluded: isExcluded}
			byID[t.AlbumID] = a
			albums = append(albums, a)
		}
		a.Tracks = append(a.Tracks, t)
	}

	cfg.order.Apply(albums)
	return albums
}

// CountExcluded returns how many albums of the sequence are flagged.
func CountExcluded(albums []*model.Album) int {
	n := 0
	for _, a := range albums {
		if a.Excluded {
			n++
		}
	}
	return n
}

// WithoutExcluded returns the albums that are not flagged, in order.
func WithoutExcluded(albums []*model.Album) []*model.Album {
	out := make([]*model.Album, 0, len(albums))
	for _, a := range albums {
		if !a.Excluded {
			out = append(out, a)
		}
	}
	return out
}
