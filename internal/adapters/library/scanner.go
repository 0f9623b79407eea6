package library

import (
	"context"
	"crypto/sha1" //nolint:gosec // identifiers, not security
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/okian/nextalbum/internal/domain/model"
	"github.com/okian/nextalbum/pkg/logger"
	"github.com/okian/nextalbum/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Frame identifiers read beyond the common text frames.
const (
	frameAlbumArtist   = "TPE2"
	framePopularimeter = "POPM"
	framePicture       = "APIC"
)

// Store is what the scanner writes into.
type Store interface {
	UpsertTrack(ctx context.Context, t *model.Track) error
	UpsertAlbum(ctx context.Context, albumID string, d model.AlbumDetail) error
}

// ScanReport summarises one scan.
type ScanReport struct {
	Indexed int
	Skipped int
	Failed  int
	Albums  int
}

// Scanner walks directory trees and indexes the ID3 tags of audio files.
// Tags are read by a pool of workers; the store is written from the calling
// goroutine in walk order, so library order is stable across scans.
type Scanner struct {
	store      Store
	extensions map[string]struct{}
	workers    int
	logger     logger.Logger
}

// NewScanner creates a scanner writing into store. By default only .mp3
// files are read, with one tag reader per CPU.
func NewScanner(store Store, opts ...ScanOption) *Scanner {
	s := &Scanner{
		store:      store,
		extensions: normalizeExtensions([]string{".mp3"}),
		workers:    runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scanner")
	}
	return s
}

func normalizeExtensions(exts []string) map[string]struct{} {
	out := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out[e] = struct{}{}
	}
	return out
}

type scanJob struct {
	seq  int
	path string
}

type scanResult struct {
	seq    int
	path   string
	track  *model.Track
	detail model.AlbumDetail
	err    error
}

// Scan indexes every matching file under roots. Unreadable files are counted
// and skipped; store failures and context cancellation abort the scan.
func (s *Scanner) Scan(ctx context.Context, roots ...string) (ScanReport, error) {
	jobs := make(chan scanJob, s.workers)
	results := make(chan scanResult, s.workers)

	var (
		report  ScanReport
		skipped int
	)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		n, err := s.walk(ctx, roots, jobs)
		skipped = n
		return err
	})

	g.Go(func() error {
		defer close(results)
		var readers errgroup.Group
		for i := 0; i < s.workers; i++ {
			readers.Go(func() error {
				s.read(ctx, jobs, results)
				return nil
			})
		}
		return readers.Wait()
	})

	g.Go(func() error {
		return s.write(ctx, results, &report)
	})

	err := g.Wait()
	report.Skipped = skipped
	if err != nil {
		return report, err
	}

	s.logger.Info(ctx, "library scan complete",
		logger.Int("indexed", report.Indexed),
		logger.Int("skipped", report.Skipped),
		logger.Int("failed", report.Failed),
		logger.Int("albums", report.Albums),
	)
	return report, nil
}

// walk feeds every matching file under roots into jobs and returns the number
// of files skipped for their extension.
func (s *Scanner) walk(ctx context.Context, roots []string, jobs chan<- scanJob) (int, error) {
	skipped, seq := 0, 0
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				s.logger.Warn(ctx, "cannot read path", logger.String("path", path), logger.Error(walkErr))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := s.extensions[strings.ToLower(filepath.Ext(path))]; !ok {
				skipped++
				metrics.RecordScannedFile("skipped")
				return nil
			}

			select {
			case jobs <- scanJob{seq: seq, path: path}:
				seq++
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			return skipped, fmt.Errorf("scan %s: %w", root, err)
		}
	}
	return skipped, nil
}

// read parses the tags of each job until jobs is closed or ctx is done.
func (s *Scanner) read(ctx context.Context, jobs <-chan scanJob, results chan<- scanResult) {
	for job := range jobs {
		track, detail, err := ReadFile(job.path)
		select {
		case results <- scanResult{seq: job.seq, path: job.path, track: track, detail: detail, err: err}:
		case <-ctx.Done():
			return
		}
	}
}

// write stores results in walk order. Results that arrive early wait in
// pending until every earlier file has been stored.
func (s *Scanner) write(ctx context.Context, results <-chan scanResult, report *ScanReport) error {
	albums := make(map[string]struct{})
	pending := make(map[int]scanResult)
	next := 0

	for r := range results {
		pending[r.seq] = r
		for {
			p, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := s.index(ctx, p, albums, report); err != nil {
				return err
			}
		}
	}
	report.Albums = len(albums)
	return nil
}

func (s *Scanner) index(ctx context.Context, r scanResult, albums map[string]struct{}, report *ScanReport) error {
	if r.err != nil {
		report.Failed++
		metrics.RecordScannedFile("error")
		s.logger.Warn(ctx, "cannot read tags", logger.String("path", r.path), logger.Error(r.err))
		return nil
	}
	if err := s.store.UpsertTrack(ctx, r.track); err != nil {
		return fmt.Errorf("index %s: %w", r.path, err)
	}
	if _, seen := albums[r.track.AlbumID]; !seen {
		if err := s.store.UpsertAlbum(ctx, r.track.AlbumID, r.detail); err != nil {
			return fmt.Errorf("index album of %s: %w", r.path, err)
		}
		albums[r.track.AlbumID] = struct{}{}
	}
	report.Indexed++
	metrics.RecordScannedFile("indexed")
	s.logger.Debug(ctx, "indexed track",
		logger.String("path", r.path),
		logger.String("album_id", r.track.AlbumID),
	)
	return nil
}

// ReadFile parses the ID3 tag of one file.
func ReadFile(path string) (*model.Track, model.AlbumDetail, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, model.AlbumDetail{}, err
	}
	defer tag.Close()

	track, detail := FromTag(path, tag)
	return track, detail, nil
}

// FromTag builds the track and album detail described by tag. The track
// identifier derives from path; the album identifier from album artist and
// album title, so every file of one album shares it.
func FromTag(path string, tag *id3v2.Tag) (*model.Track, model.AlbumDetail) {
	albumArtist := textFrame(tag, frameAlbumArtist)
	artist := strings.TrimSpace(tag.Artist())
	albumTitle := strings.TrimSpace(tag.Album())
	if albumTitle == "" {
		albumTitle = filepath.Base(filepath.Dir(path))
	}
	groupArtist := albumArtist
	if groupArtist == "" {
		groupArtist = artist
	}

	title := strings.TrimSpace(tag.Title())
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	rating, playCount := popularimeter(tag)
	track := &model.Track{
		ID:          hashID(path),
		AlbumID:     AlbumID(groupArtist, albumTitle),
		Title:       title,
		Artist:      artist,
		AlbumTitle:  albumTitle,
		AlbumArtist: albumArtist,
		PlayCount:   playCount,
		Rating:      rating,
	}

	detail := model.AlbumDetail{
		Title:  albumTitle,
		Artist: groupArtist,
		Genre:  strings.TrimSpace(tag.Genre()),
		Year:   parseYear(tag.Year()),
	}
	if pic, ok := frontCover(tag); ok {
		detail.Artwork = pic.Picture
		detail.ArtworkMIME = pic.MimeType
	}
	return track, detail
}

// AlbumID derives the album-group identifier from artist and title.
func AlbumID(artist, title string) string {
	key := strings.ToLower(strings.TrimSpace(artist)) + "|" + strings.ToLower(strings.TrimSpace(title))
	return hashID(key)
}

func hashID(s string) string {
	sum := sha1.Sum([]byte(s)) //nolint:gosec // identifiers, not security
	return hex.EncodeToString(sum[:8])
}

func textFrame(tag *id3v2.Tag, id string) string {
	if f, ok := tag.GetLastFrame(id).(id3v2.TextFrame); ok {
		return strings.TrimSpace(f.Text)
	}
	return ""
}

func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) > 4 {
		s = s[:4]
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 0 {
		return 0
	}
	return y
}

// frontCover prefers the front-cover picture and falls back to the first one.
func frontCover(tag *id3v2.Tag) (id3v2.PictureFrame, bool) {
	var first *id3v2.PictureFrame
	for _, f := range tag.GetFrames(framePicture) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if pic.PictureType == id3v2.PTFrontCover {
			return pic, true
		}
		if first == nil {
			first = &pic
		}
	}
	if first == nil {
		return id3v2.PictureFrame{}, false
	}
	return *first, true
}

// popularimeter reads the first POPM frame: a rating byte mapped onto zero to
// five stars and a big-endian play counter.
func popularimeter(tag *id3v2.Tag) (rating float64, playCount int) {
	for _, f := range tag.GetFrames(framePopularimeter) {
		uf, ok := f.(id3v2.UnknownFrame)
		if !ok {
			continue
		}
		return parsePopularimeter(uf.Body)
	}
	return 0, 0
}

// parsePopularimeter decodes "email\x00 rating counter".
func parsePopularimeter(body []byte) (rating float64, playCount int) {
	sep := -1
	for i, b := range body {
		if b == 0 {
			sep = i
			break
		}
	}
	if sep < 0 || sep+1 >= len(body) {
		return 0, 0
	}
	rating = stars(body[sep+1])

	counter := body[sep+2:]
	if len(counter) == 0 {
		return rating, 0
	}
	if len(counter) > 8 {
		counter = counter[len(counter)-8:]
	}
	buf := make([]byte, 8)
	copy(buf[8-len(counter):], counter)
	n := binary.BigEndian.Uint64(buf)
	if n > uint64(maxPlayCount) {
		n = uint64(maxPlayCount)
	}
	return rating, int(n)
}

const maxPlayCount = 1<<31 - 1

// stars maps the POPM rating byte onto the common five-star scale.
func stars(b byte) float64 {
	switch {
	case b == 0:
		return 0
	case b < 32:
		return 1
	case b < 96:
		return 2
	case b < 160:
		return 3
	case b < 224:
		return 4
	default:
		return 5
	}
}

// PopularimeterBody encodes a POPM frame body, the inverse of what the
// scanner reads.
func PopularimeterBody(email string, ratingByte byte, playCount uint32) []byte {
	body := make([]byte, 0, len(email)+6)
	body = append(body, email...)
	body = append(body, 0, ratingByte)
	return binary.BigEndian.AppendUint32(body, playCount)
}
