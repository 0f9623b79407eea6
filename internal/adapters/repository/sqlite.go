package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/okian/nextalbum/internal/domain/model"
	"github.com/okian/nextalbum/pkg/logger"
)

// Settings keys.
const (
	keyUseRatings   = "use_ratings"
	keySortKey      = "sort_key"
	keyDirection    = "sort_direction"
	keySkipExcluded = "skip_excluded"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ignore_list (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	artist     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const (
	seedSettingSQL    = `INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`
	upsertSettingSQL  = `INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	selectSettingsSQL = `SELECT key, value FROM settings`
	listIgnoreSQL     = `SELECT id, title, artist, created_at FROM ignore_list ORDER BY created_at, rowid`
	addIgnoreSQL      = `INSERT OR IGNORE INTO ignore_list (id, title, artist, created_at) VALUES (?, ?, ?, ?)`
	deleteIgnoreSQL   = `DELETE FROM ignore_list WHERE id = ?`
)

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// OpenSQLite opens (creating if needed) the state database at dsn, creates
// its tables and seeds the default preferences.
func OpenSQLite(ctx context.Context, dsn string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorage, dsn, err)
	}
	s := NewSQLiteStore(db, opts...)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.opts.logger.Info(ctx, "state store ready", logger.String("dsn", dsn))
	return s, nil
}

// NewSQLiteStore wraps an open database handle. Call Migrate before use.
func NewSQLiteStore(db *sql.DB, opts ...Option) *SQLiteStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("repository")
	}
	return &SQLiteStore{db: db, opts: o}
}

// Migrate creates the tables and inserts any missing default setting.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%w: create schema: %w", ErrStorage, err)
	}
	for _, kv := range encodePreferences(s.opts.defaults) {
		if _, err := s.db.ExecContext(ctx, seedSettingSQL, kv[0], kv[1]); err != nil {
			return fmt.Errorf("%w: seed setting %s: %w", ErrStorage, kv[0], err)
		}
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ListExclusions implements Store.
func (s *SQLiteStore) ListExclusions(ctx context.Context) ([]model.Exclusion, error) {
	rows, err := s.db.QueryContext(ctx, listIgnoreSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: list exclusions: %w", ErrStorage, err)
	}
	defer rows.Close()

	out := make([]model.Exclusion, 0)
	for rows.Next() {
		var e model.Exclusion
		if err := rows.Scan(&e.ID, &e.Title, &e.Artist, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan exclusion: %w", ErrStorage, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate exclusions: %w", ErrStorage, err)
	}
	return out, nil
}

// AddExclusion implements Store.
func (s *SQLiteStore) AddExclusion(ctx context.Context, id, title, artist string) error {
	if _, err := s.db.ExecContext(ctx, addIgnoreSQL, id, title, artist, s.opts.now().UTC()); err != nil {
		s.opts.logger.Error(ctx, "failed to add exclusion", logger.String("album_id", id), logger.Error(err))
		return fmt.Errorf("%w: add exclusion %s: %w", ErrStorage, id, err)
	}
	s.opts.logger.Debug(ctx, "exclusion added", logger.String("album_id", id), logger.String("title", title))
	return nil
}

// DeleteExclusion implements Store.
func (s *SQLiteStore) DeleteExclusion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, deleteIgnoreSQL, id)
	if err != nil {
		return fmt.Errorf("%w: delete exclusion %s: %w", ErrStorage, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete exclusion %s: %w", ErrStorage, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPreferences implements Store. Keys missing from the table take their
// default value.
func (s *SQLiteStore) GetPreferences(ctx context.Context) (model.Preferences, error) {
	rows, err := s.db.QueryContext(ctx, selectSettingsSQL)
	if err != nil {
		return model.Preferences{}, fmt.Errorf("%w: read settings: %w", ErrStorage, err)
	}
	defer rows.Close()

	p := s.opts.defaults
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.Preferences{}, fmt.Errorf("%w: scan setting: %w", ErrStorage, err)
		}
		decodeSetting(&p, key, value)
	}
	if err := rows.Err(); err != nil {
		return model.Preferences{}, fmt.Errorf("%w: iterate settings: %w", ErrStorage, err)
	}
	return p, nil
}

// SetPreferences implements Store. All keys are written in one transaction.
func (s *SQLiteStore) SetPreferences(ctx context.Context, p model.Preferences) error {
	p, err := Validate(p)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrStorage, err)
	}
	for _, kv := range encodePreferences(p) {
		if _, err := tx.ExecContext(ctx, upsertSettingSQL, kv[0], kv[1]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: write setting %s: %w", ErrStorage, kv[0], err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrStorage, err)
	}
	s.opts.logger.Info(ctx, "preferences updated",
		logger.Bool(keyUseRatings, p.UseRatings),
		logger.String(keySortKey, p.SortKey),
		logger.String(keyDirection, p.Direction),
		logger.Bool(keySkipExcluded, p.SkipExcluded),
	)
	return nil
}

func encodePreferences(p model.Preferences) [][2]string {
	return [][2]string{
		{keyUseRatings, strconv.FormatBool(p.UseRatings)},
		{keySortKey, p.SortKey},
		{keyDirection, p.Direction},
		{keySkipExcluded, strconv.FormatBool(p.SkipExcluded)},
	}
}

// decodeSetting applies one stored setting. Unknown keys and unparsable
// booleans are ignored.
func decodeSetting(p *model.Preferences, key, value string) {
	switch key {
	case keyUseRatings:
		if b, err := strconv.ParseBool(value); err == nil {
			p.UseRatings = b
		}
	case keySortKey:
		p.SortKey = value
	case keyDirection:
		p.Direction = value
	case keySkipExcluded:
		if b, err := strconv.ParseBool(value); err == nil {
			p.SkipExcluded = b
		}
	}
}

var _ Store = (*SQLiteStore)(nil)
var _ Store = (*MemoryStore)(nil)
