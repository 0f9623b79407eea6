// Package service orchestrates ranking passes and browsing over the ranked
// album sequence.
package service

import (
	"context"
	"fmt"
	"time"

	aggregate "github.com/okian/nextalbum/internal/domain/aggregate"
	iterator "github.com/okian/nextalbum/internal/domain/iterator"
	"github.com/okian/nextalbum/internal/domain/model"
	scoring "github.com/okian/nextalbum/internal/domain/scoring"
	"github.com/okian/nextalbum/pkg/logger"
	"github.com/okian/nextalbum/pkg/metrics"
)

// LibrarySource provides the track batch and per-album detail.
type LibrarySource interface {
	FetchAllTracks(ctx context.Context) ([]*model.Track, error)
	FetchAlbumDetail(ctx context.Context, albumID string) (model.AlbumDetail, error)
}

// ExclusionStore persists the albums the user rejected.
type ExclusionStore interface {
	ListExclusions(ctx context.Context) ([]model.Exclusion, error)
	AddExclusion(ctx context.Context, id, title, artist string) error
}

// PreferenceSource provides the preferences consulted on each ranking pass.
type PreferenceSource interface {
	GetPreferences(ctx context.Context) (model.Preferences, error)
}

// Result is the album under the cursor after a browser operation.
type Result = iterator.Result[*model.Album]

// Browser steps through the ranked album sequence. It performs no locking:
// callers issue one operation at a time.
type Browser struct {
	library    LibrarySource
	exclusions ExclusionStore
	prefs      PreferenceSource
	defaults   model.Preferences
	logger     logger.Logger

	it *iterator.Iterator[*model.Album]
}

// New constructs a Browser over its collaborators.
func New(library LibrarySource, exclusions ExclusionStore, opts ...Option) *Browser {
	b := &Browser{
		library:    library,
		exclusions: exclusions,
		defaults:   model.DefaultPreferences(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = logger.Get().Named("browser")
	}
	return b
}

// Start performs a full ranking pass, positions the cursor on the first album
// and enriches it. On a collaborator failure the previous sequence is kept.
func (b *Browser) Start(ctx context.Context) (Result, error) {
	begin := time.Now()

	tracks, err := b.fetchTracks(ctx)
	if err != nil {
		return iterator.Empty[*model.Album](), err
	}
	exclusions, err := b.listExclusions(ctx)
	if err != nil {
		return iterator.Empty[*model.Album](), err
	}
	prefs, err := b.preferences(ctx)
	if err != nil {
		return iterator.Empty[*model.Album](), err
	}

	opts, err := aggregateOptions(prefs)
	if err != nil {
		// A stored sort key this build does not know falls back to library order.
		b.logger.Warn(ctx, "ignoring invalid ordering preference",
			logger.String("sort_key", prefs.SortKey),
			logger.String("direction", prefs.Direction),
			logger.Error(err),
		)
	}

	albums := aggregate.Aggregate(tracks, exclusions, opts...)
	excluded := aggregate.CountExcluded(albums)
	if prefs.SkipExcluded {
		albums = aggregate.WithoutExcluded(albums)
	}
	b.it = iterator.New(albums)

	elapsed := time.Since(begin)
	metrics.RecordRankingPass(float64(elapsed.Milliseconds()), len(tracks), len(albums), excluded)
	b.logger.Info(ctx, "ranking pass complete",
		logger.Int("tracks", len(tracks)),
		logger.Int("albums", len(albums)),
		logger.Int("excluded", excluded),
		logger.Bool("skip_excluded", prefs.SkipExcluded),
		logger.Duration("elapsed", elapsed),
	)

	r := b.it.Next()
	metrics.RecordCursorMove("next")
	return b.enrich(ctx, r)
}

// Advance moves the cursor forward, starting a ranking pass when none exists.
func (b *Browser) Advance(ctx context.Context) (Result, error) {
	if b.it == nil {
		return b.Start(ctx)
	}
	metrics.RecordCursorMove("next")
	return b.enrich(ctx, b.it.Next())
}

// Retreat moves the cursor backward, starting a ranking pass when none exists.
func (b *Browser) Retreat(ctx context.Context) (Result, error) {
	if b.it == nil {
		return b.Start(ctx)
	}
	metrics.RecordCursorMove("prev")
	return b.enrich(ctx, b.it.Prev())
}

// Exclude persists the album of current into the exclusion list and, on
// success, removes it from the sequence. The album now under the cursor is
// enriched and returned.
func (b *Browser) Exclude(ctx context.Context, current Result) (Result, error) {
	if b.it == nil {
		return current, ErrNotStarted
	}
	if !current.OK || current.Value == nil {
		return current, ErrNoCurrentAlbum
	}
	under := b.it.Current()
	if !under.OK || under.Value.ID != current.Value.ID {
		return current, fmt.Errorf("%w: %s", ErrStaleCursor, current.Value.ID)
	}

	album := current.Value
	begin := time.Now()
	if err := b.exclusions.AddExclusion(ctx, album.ID, album.Title(), album.Artist()); err != nil {
		metrics.RecordCollaboratorError("exclusions", "add_exclusion")
		b.logger.Error(ctx, "failed to persist exclusion",
			logger.String("album_id", album.ID),
			logger.Error(err),
		)
		return current, fmt.Errorf("add exclusion %s: %w", album.ID, err)
	}
	metrics.RecordCollaboratorLatency("exclusions", "add_exclusion", msSince(begin))
	metrics.RecordExclusion()

	r := b.it.Remove()
	metrics.RecordCursorMove("remove")
	metrics.UpdateRankedAlbums(b.it.Len())
	b.logger.Info(ctx, "album excluded",
		logger.String("album_id", album.ID),
		logger.String("title", album.Title()),
		logger.Int("remaining", b.it.Len()),
	)
	return b.enrich(ctx, r)
}

// Current returns the album under the cursor without moving it.
func (b *Browser) Current() Result {
	if b.it == nil {
		return iterator.Empty[*model.Album]()
	}
	return b.it.Current()
}

// Len returns the number of albums left in the sequence.
func (b *Browser) Len() int {
	if b.it == nil {
		return 0
	}
	return b.it.Len()
}

// Invalidate drops the current sequence; the next operation runs a fresh
// ranking pass.
func (b *Browser) Invalidate() {
	b.it = nil
}

// enrich attaches album detail to r when it has a value and no detail yet.
func (b *Browser) enrich(ctx context.Context, r Result) (Result, error) {
	if !r.OK || r.Value == nil {
		metrics.RecordEnrichment("empty")
		return r, nil
	}
	if r.Value.HasDetail() {
		metrics.RecordEnrichment("cached")
		return r, nil
	}

	begin := time.Now()
	detail, err := b.library.FetchAlbumDetail(ctx, r.Value.ID)
	if err != nil {
		metrics.RecordEnrichment("error")
		metrics.RecordCollaboratorError("library", "fetch_album_detail")
		b.logger.Warn(ctx, "album detail fetch failed",
			logger.String("album_id", r.Value.ID),
			logger.Error(err),
		)
		return r, fmt.Errorf("fetch album detail %s: %w", r.Value.ID, err)
	}
	latency := msSince(begin)
	metrics.RecordEnrichmentLatency(latency)
	metrics.RecordCollaboratorLatency("library", "fetch_album_detail", latency)
	metrics.RecordEnrichment("fetched")

	r.Value.Enrich(detail)
	return r, nil
}

func (b *Browser) fetchTracks(ctx context.Context) ([]*model.Track, error) {
	begin := time.Now()
	tracks, err := b.library.FetchAllTracks(ctx)
	if err != nil {
		metrics.RecordCollaboratorError("library", "fetch_all_tracks")
		b.logger.Error(ctx, "failed to fetch tracks", logger.Error(err))
		return nil, fmt.Errorf("fetch tracks: %w", err)
	}
	metrics.RecordCollaboratorLatency("library", "fetch_all_tracks", msSince(begin))
	return tracks, nil
}

func (b *Browser) listExclusions(ctx context.Context) ([]model.Exclusion, error) {
	begin := time.Now()
	exclusions, err := b.exclusions.ListExclusions(ctx)
	if err != nil {
		metrics.RecordCollaboratorError("exclusions", "list_exclusions")
		b.logger.Error(ctx, "failed to list exclusions", logger.Error(err))
		return nil, fmt.Errorf("list exclusions: %w", err)
	}
	metrics.RecordCollaboratorLatency("exclusions", "list_exclusions", msSince(begin))
	return exclusions, nil
}

func (b *Browser) preferences(ctx context.Context) (model.Preferences, error) {
	if b.prefs == nil {
		return b.defaults, nil
	}
	p, err := b.prefs.GetPreferences(ctx)
	if err != nil {
		metrics.RecordCollaboratorError("preferences", "get_preferences")
		b.logger.Error(ctx, "failed to read preferences", logger.Error(err))
		return model.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

func aggregateOptions(p model.Preferences) ([]aggregate.Option, error) {
	var opts []aggregate.Option
	if !p.UseRatings {
		opts = append(opts, aggregate.WithoutRatings())
	}
	order, err := scoring.ParseOrder(p.SortKey, p.Direction)
	if err != nil {
		return opts, err
	}
	return append(opts, aggregate.WithOrder(order)), nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
