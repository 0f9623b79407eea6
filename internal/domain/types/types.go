// Package types contains the JSON views returned by the HTTP API.
package types

import (
	"encoding/base64"
	"time"

	"github.com/okian/nextalbum/internal/domain/model"
)

// TrackView is one track of an album view.
type TrackView struct {
	TrackID   string            `json:"track_id"`
	Title     string            `json:"title"`
	Artist    string            `json:"artist"`
	PlayCount int               `json:"play_count"`
	Rating    float64           `json:"rating"`
	Score     model.ScoreBundle `json:"score"`
}

// AlbumView is the album under the cursor.
type AlbumView struct {
	AlbumID  string      `json:"album_id"`
	Title    string      `json:"title"`
	Artist   string      `json:"artist"`
	Genre    string      `json:"genre,omitempty"`
	Year     int         `json:"year,omitempty"`
	Excluded bool        `json:"excluded"`
	Done     bool        `json:"done"`
	Index    int         `json:"index"`
	Total    int         `json:"total"`
	Artwork  string      `json:"artwork,omitempty"`
	Tracks   []TrackView `json:"tracks"`
}

// BrowseResponse wraps a browser result. Album is nil for the empty result.
type BrowseResponse struct {
	Album *AlbumView `json:"album"`
	Done  bool       `json:"done"`
}

// ExclusionView is one entry of the exclusion list.
type ExclusionView struct {
	AlbumID   string    `json:"album_id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	CreatedAt time.Time `json:"created_at"`
}

// PreferencesView is the stored preferences.
type PreferencesView struct {
	UseRatings    bool   `json:"use_ratings"`
	SortKey       string `json:"sort_key"`
	SortDirection string `json:"sort_direction"`
	SkipExcluded  bool   `json:"skip_excluded"`
}

// NewBrowseResponse renders a cursor position. ok is false for the empty result.
func NewBrowseResponse(a *model.Album, ok, done bool, index, total int) BrowseResponse {
	if !ok || a == nil {
		return BrowseResponse{Done: true}
	}
	view := NewAlbumView(a)
	view.Done = done
	view.Index = index
	view.Total = total
	return BrowseResponse{Album: &view, Done: done}
}

// NewAlbumView renders an album and its tracks.
func NewAlbumView(a *model.Album) AlbumView {
	v := AlbumView{
		AlbumID:  a.ID,
		Title:    a.Title(),
		Artist:   a.Artist(),
		Excluded: a.Excluded,
		Tracks:   make([]TrackView, len(a.Tracks)),
	}
	if a.Detail != nil {
		v.Genre = a.Detail.Genre
		v.Year = a.Detail.Year
		v.Artwork = DataURI(a.Detail.ArtworkMIME, a.Detail.Artwork)
	}
	for i, t := range a.Tracks {
		v.Tracks[i] = TrackView{
			TrackID:   t.ID,
			Title:     t.Title,
			Artist:    t.Artist,
			PlayCount: t.PlayCount,
			Rating:    t.Rating,
			Score:     t.Score,
		}
	}
	return v
}

// DataURI encodes artwork as a base64 data URI. Empty artwork yields "".
func DataURI(mime string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// NewExclusionView renders an exclusion entry.
func NewExclusionView(e model.Exclusion) ExclusionView {
	return ExclusionView{AlbumID: e.ID, Title: e.Title, Artist: e.Artist, CreatedAt: e.CreatedAt}
}

// NewPreferencesView renders preferences.
func NewPreferencesView(p model.Preferences) PreferencesView {
	return PreferencesView{
		UseRatings:    p.UseRatings,
		SortKey:       p.SortKey,
		SortDirection: p.Direction,
		SkipExcluded:  p.SkipExcluded,
	}
}

// Model converts the view back into preferences.
func (v PreferencesView) Model() model.Preferences {
	return model.Preferences{
		UseRatings:   v.UseRatings,
		SortKey:      v.SortKey,
		Direction:    v.SortDirection,
		SkipExcluded: v.SkipExcluded,
	}
}
