package library

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/nextalbum/internal/domain/model"
	"github.com/okian/nextalbum/pkg/logger"
)

// Ranges of the generated library.
const (
	maxTracksPerAlbum = 14
	minTracksPerAlbum = 3
	maxSeedPlayCount  = 250
	maxSeedRating     = 5
	firstSeedYear     = 1965
	seedYearSpan      = 60
)

// Listening profiles, chosen uniformly per album.
const (
	caseHeavyRotation = iota
	caseOccasional
	caseUnplayed
	caseMixed
	profileCount
)

var seedGenres = []string{"Rock", "Jazz", "Electronic", "Folk", "Hip-Hop", "Classical", "Ambient", "Soul"} //nolint:gochecknoglobals // fixed vocabulary

// SeedConfig describes a generated demo library.
type SeedConfig struct {
	Albums int
}

// Seed fills store with randomly generated albums and tracks so the browser
// can be tried without a real music collection.
func Seed(ctx context.Context, store Store, cfg SeedConfig) (ScanReport, error) {
	var report ScanReport
	log := logger.Get().Named("seeder")
	log.Info(ctx, "seeding demo library", logger.Int("albums", cfg.Albums))

	for a := 0; a < cfg.Albums; a++ {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("seed cancelled: %w", err)
		}

		albumID := uuid.New().String()
		detail := model.AlbumDetail{
			Title:  fmt.Sprintf("Album %03d", a+1),
			Artist: fmt.Sprintf("Artist %02d", randomInt(cfg.Albums/2+1)+1),
			Genre:  seedGenres[randomInt(len(seedGenres))],
			Year:   firstSeedYear + randomInt(seedYearSpan),
		}
		if err := store.UpsertAlbum(ctx, albumID, detail); err != nil {
			return report, err
		}

		profile := randomInt(profileCount)
		n := minTracksPerAlbum + randomInt(maxTracksPerAlbum-minTracksPerAlbum+1)
		for i := 0; i < n; i++ {
			playCount, rating := seedStats(profile)
			t := &model.Track{
				ID:          uuid.New().String(),
				AlbumID:     albumID,
				Title:       fmt.Sprintf("Track %02d", i+1),
				Artist:      detail.Artist,
				AlbumTitle:  detail.Title,
				AlbumArtist: detail.Artist,
				PlayCount:   playCount,
				Rating:      rating,
			}
			if err := store.UpsertTrack(ctx, t); err != nil {
				return report, err
			}
			report.Indexed++
		}
		report.Albums++
	}

	log.Info(ctx, "demo library seeded",
		logger.Int("albums", report.Albums),
		logger.Int("tracks", report.Indexed),
	)
	return report, nil
}

// seedStats draws a play count and star rating for one track of a profile.
func seedStats(profile int) (playCount int, rating float64) {
	switch profile {
	case caseHeavyRotation:
		return maxSeedPlayCount/2 + randomInt(maxSeedPlayCount/2), float64(3 + randomInt(3))
	case caseOccasional:
		return 1 + randomInt(20), float64(randomInt(maxSeedRating + 1))
	case caseUnplayed:
		return 0, 0
	default:
		return randomInt(maxSeedPlayCount), float64(randomInt(maxSeedRating + 1))
	}
}

// randomInt returns a uniform value in [0, n) using crypto/rand.
func randomInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
