package model

// AlbumDetail is the extended album data fetched lazily from the library.
type AlbumDetail struct {
	Title       string
	Artist      string
	Genre       string
	Year        int
	Artwork     []byte
	ArtworkMIME string
}

// Album groups the tracks of one album-group identifier.
// Tracks is never empty and every track carries AlbumID == ID.
type Album struct {
	ID       string
	Tracks   []*Track
	Excluded bool
	Detail   *AlbumDetail
}

// HasDetail reports whether the album has already been enriched.
func (a *Album) HasDetail() bool {
	return a.Detail != nil
}

// Enrich attaches detail to the album. Detail fields replace any previous
// detail; the track list is left untouched.
func (a *Album) Enrich(d AlbumDetail) {
	a.Detail = &d
}

// Title prefers the enriched title and falls back to the first track.
func (a *Album) Title() string {
	if a.Detail != nil && a.Detail.Title != "" {
		return a.Detail.Title
	}
	if len(a.Tracks) > 0 {
		return a.Tracks[0].AlbumTitle
	}
	return ""
}

// Artist prefers the enriched artist and falls back to the first track's
// album artist, then its track artist.
func (a *Album) Artist() string {
	if a.Detail != nil && a.Detail.Artist != "" {
		return a.Detail.Artist
	}
	if len(a.Tracks) == 0 {
		return ""
	}
	if a.Tracks[0].AlbumArtist != "" {
		return a.Tracks[0].AlbumArtist
	}
	return a.Tracks[0].Artist
}
