package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/okian/nextalbum/internal/domain/model"
	"github.com/okian/nextalbum/pkg/logger"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS albums (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	artist       TEXT NOT NULL DEFAULT '',
	genre        TEXT NOT NULL DEFAULT '',
	year         INTEGER NOT NULL DEFAULT 0,
	artwork      BLOB,
	artwork_mime TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tracks (
	id           TEXT PRIMARY KEY,
	album_id     TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	artist       TEXT NOT NULL DEFAULT '',
	album_title  TEXT NOT NULL DEFAULT '',
	album_artist TEXT NOT NULL DEFAULT '',
	play_count   INTEGER NOT NULL DEFAULT 0,
	rating       REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS tracks_album_id ON tracks (album_id);
`

const selectTracksSQL = `SELECT id, album_id, title, artist, album_title, album_artist, play_count, rating FROM tracks ORDER BY rowid`

const selectAlbumSQL = `SELECT title, artist, genre, year, artwork, artwork_mime FROM albums WHERE id = ?`

const upsertTrackSQL = `INSERT INTO tracks (id, album_id, title, artist, album_title, album_artist, play_count, rating)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	album_id = excluded.album_id,
	title = excluded.title,
	artist = excluded.artist,
	album_title = excluded.album_title,
	album_artist = excluded.album_artist,
	play_count = excluded.play_count,
	rating = excluded.rating`

const upsertAlbumSQL = `INSERT INTO albums (id, title, artist, genre, year, artwork, artwork_mime)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	artist = excluded.artist,
	genre = excluded.genre,
	year = excluded.year,
	artwork = COALESCE(excluded.artwork, albums.artwork),
	artwork_mime = CASE WHEN excluded.artwork IS NULL THEN albums.artwork_mime ELSE excluded.artwork_mime END`

// Index is the SQLite-backed track and album index.
type Index struct {
	db     *sql.DB
	logger logger.Logger
}

// Open opens (creating if needed) the index database at dsn.
func Open(ctx context.Context, dsn string, opts ...Option) (*Index, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open library index: %w", err)
	}
	idx := New(db, opts...)
	if err := idx.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	idx.logger.Info(ctx, "library index ready", logger.String("dsn", dsn))
	return idx, nil
}

// New wraps an open database handle. The schema is not created; call Migrate.
func New(db *sql.DB, opts ...Option) *Index {
	idx := &Index{db: db}
	for _, opt := range opts {
		opt(idx)
	}
	if idx.logger == nil {
		idx.logger = logger.Get().Named("library")
	}
	return idx
}

// Migrate creates the index tables if they do not exist.
func (i *Index) Migrate(ctx context.Context) error {
	if _, err := i.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create library schema: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (i *Index) Close() error {
	if i.db == nil {
		return nil
	}
	return i.db.Close()
}

// FetchAllTracks returns every indexed track in insertion order.
func (i *Index) FetchAllTracks(ctx context.Context) ([]*model.Track, error) {
	rows, err := i.db.QueryContext(ctx, selectTracksSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: query tracks: %w", ErrLibraryUnavailable, err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		t := &model.Track{}
		if err := rows.Scan(&t.ID, &t.AlbumID, &t.Title, &t.Artist, &t.AlbumTitle, &t.AlbumArtist, &t.PlayCount, &t.Rating); err != nil {
			return nil, fmt.Errorf("%w: scan track: %w", ErrLibraryUnavailable, err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate tracks: %w", ErrLibraryUnavailable, err)
	}
	return tracks, nil
}

// FetchAlbumDetail returns the stored detail of one album.
func (i *Index) FetchAlbumDetail(ctx context.Context, albumID string) (model.AlbumDetail, error) {
	var d model.AlbumDetail
	err := i.db.QueryRowContext(ctx, selectAlbumSQL, albumID).
		Scan(&d.Title, &d.Artist, &d.Genre, &d.Year, &d.Artwork, &d.ArtworkMIME)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AlbumDetail{}, fmt.Errorf("%w: %s", ErrNotFound, albumID)
	}
	if err != nil {
		return model.AlbumDetail{}, fmt.Errorf("%w: query album %s: %w", ErrLibraryUnavailable, albumID, err)
	}
	return d, nil
}

// UpsertTrack inserts or replaces a track. A replaced track keeps its
// position in the library order.
func (i *Index) UpsertTrack(ctx context.Context, t *model.Track) error {
	_, err := i.db.ExecContext(ctx, upsertTrackSQL,
		t.ID, t.AlbumID, t.Title, t.Artist, t.AlbumTitle, t.AlbumArtist, t.PlayCount, t.Rating)
	if err != nil {
		return fmt.Errorf("upsert track %s: %w", t.ID, err)
	}
	return nil
}

// UpsertAlbum inserts or replaces album detail. Nil artwork keeps any
// artwork already stored.
func (i *Index) UpsertAlbum(ctx context.Context, albumID string, d model.AlbumDetail) error {
	var artwork any
	if len(d.Artwork) > 0 {
		artwork = d.Artwork
	}
	_, err := i.db.ExecContext(ctx, upsertAlbumSQL,
		albumID, d.Title, d.Artist, d.Genre, d.Year, artwork, d.ArtworkMIME)
	if err != nil {
		return fmt.Errorf("upsert album %s: %w", albumID, err)
	}
	return nil
}

// Count returns the number of indexed tracks and albums.
func (i *Index) Count(ctx context.Context) (tracks, albums int, err error) {
	err = i.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM tracks), (SELECT COUNT(*) FROM albums)`).Scan(&tracks, &albums)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: count: %w", ErrLibraryUnavailable, err)
	}
	return tracks, albums, nil
}
