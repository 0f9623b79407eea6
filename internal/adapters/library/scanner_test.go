package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/okian/nextalbum/internal/domain/model"
	"github.com/okian/nextalbum/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type memoryStore struct {
	tracks     []*model.Track
	albums     map[string]model.AlbumDetail
	failTracks bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{albums: map[string]model.AlbumDetail{}}
}

func (m *memoryStore) UpsertTrack(_ context.Context, t *model.Track) error {
	if m.failTracks {
		return errors.New("disk full")
	}
	m.tracks = append(m.tracks, t)
	return nil
}

func (m *memoryStore) UpsertAlbum(_ context.Context, id string, d model.AlbumDetail) error {
	m.albums[id] = d
	return nil
}

func writeMP3(path, title, artist, album string) error {
	tag := id3v2.NewEmptyTag()
	tag.SetTitle(title)
	tag.SetArtist(artist)
	tag.SetAlbum(album)
	tag.SetGenre("Rock")
	tag.SetYear("1999")
	tag.AddTextFrame(frameAlbumArtist, id3v2.EncodingUTF8, artist)
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/png",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     []byte{0x89, 'P', 'N', 'G'},
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := tag.WriteTo(f); err != nil {
		return err
	}
	// a few bytes standing in for audio frames
	_, err = f.Write([]byte{0xff, 0xfb, 0x90, 0x00})
	return err
}

func TestParsePopularimeter(t *testing.T) {
	Convey("Given POPM frame bodies", t, func() {
		Convey("A full body yields stars and play count", func() {
			rating, plays := parsePopularimeter(PopularimeterBody("me@example.com", 196, 42))
			So(rating, ShouldEqual, 4.0)
			So(plays, ShouldEqual, 42)
		})

		Convey("A body without counter has no plays", func() {
			rating, plays := parsePopularimeter([]byte{0, 255})
			So(rating, ShouldEqual, 5.0)
			So(plays, ShouldEqual, 0)
		})

		Convey("A malformed body is ignored", func() {
			rating, plays := parsePopularimeter([]byte("no terminator"))
			So(rating, ShouldEqual, 0.0)
			So(plays, ShouldEqual, 0)
		})

		Convey("An oversized counter is clamped", func() {
			body := append([]byte{0, 1}, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
			_, plays := parsePopularimeter(body)
			So(plays, ShouldEqual, maxPlayCount)
		})

		Convey("Rating bytes map onto stars", func() {
			So(stars(0), ShouldEqual, 0.0)
			So(stars(1), ShouldEqual, 1.0)
			So(stars(64), ShouldEqual, 2.0)
			So(stars(128), ShouldEqual, 3.0)
			So(stars(255), ShouldEqual, 5.0)
		})
	})
}

func TestFromTag(t *testing.T) {
	Convey("Given an in-memory tag", t, func() {
		tag := id3v2.NewEmptyTag()
		tag.SetTitle("Intro")
		tag.SetArtist("Guest")
		tag.SetAlbum("First")
		tag.SetYear("1999-04-01")
		tag.AddTextFrame(frameAlbumArtist, id3v2.EncodingUTF8, "Band")
		tag.AddFrame(framePopularimeter, id3v2.UnknownFrame{Body: PopularimeterBody("", 255, 12)})

		track, detail := FromTag("/music/Band/First/01.mp3", tag)

		Convey("Then track fields come from the frames", func() {
			So(track.Title, ShouldEqual, "Intro")
			So(track.Artist, ShouldEqual, "Guest")
			So(track.AlbumArtist, ShouldEqual, "Band")
			So(track.PlayCount, ShouldEqual, 12)
			So(track.Rating, ShouldEqual, 5.0)
		})

		Convey("And the album groups by album artist and title", func() {
			So(track.AlbumID, ShouldEqual, AlbumID("band", "FIRST"))
			So(detail.Artist, ShouldEqual, "Band")
			So(detail.Year, ShouldEqual, 1999)
		})
	})

	Convey("Given a tag with no text frames", t, func() {
		track, detail := FromTag("/music/Unknown Album/track.mp3", id3v2.NewEmptyTag())

		Convey("Then names fall back to the path", func() {
			So(track.Title, ShouldEqual, "track")
			So(track.AlbumTitle, ShouldEqual, "Unknown Album")
			So(detail.Artwork, ShouldBeNil)
			So(track.PlayCount, ShouldEqual, 0)
		})
	})
}

func TestScanner(t *testing.T) {
	Convey("Given a directory with two albums and a non-audio file", t, func() {
		root := t.TempDir()
		So(os.MkdirAll(filepath.Join(root, "a"), 0o755), ShouldBeNil)
		So(writeMP3(filepath.Join(root, "a", "01.mp3"), "One", "Band", "First"), ShouldBeNil)
		So(writeMP3(filepath.Join(root, "a", "02.MP3"), "Two", "Band", "First"), ShouldBeNil)
		So(writeMP3(filepath.Join(root, "b.mp3"), "Solo", "Other", "Second"), ShouldBeNil)
		So(os.WriteFile(filepath.Join(root, "cover.txt"), []byte("x"), 0o600), ShouldBeNil)

		store := newMemoryStore()
		s := NewScanner(store, WithScanLogger(logger.Nop()))

		Convey("When scanned", func() {
			report, err := s.Scan(context.Background(), root)

			Convey("Then readable audio files are indexed", func() {
				So(err, ShouldBeNil)
				So(report.Indexed, ShouldEqual, 3)
				So(report.Skipped, ShouldEqual, 1)
				So(report.Failed, ShouldEqual, 0)
				So(report.Albums, ShouldEqual, 2)
				So(store.tracks, ShouldHaveLength, 3)
			})

			Convey("And tracks of one album share its identifier and artwork", func() {
				first := AlbumID("Band", "First")
				n := 0
				for _, tr := range store.tracks {
					if tr.AlbumID == first {
						n++
					}
				}
				So(n, ShouldEqual, 2)
				So(store.albums[first].Title, ShouldEqual, "First")
				So(store.albums[first].Genre, ShouldEqual, "Rock")
				So(store.albums[first].ArtworkMIME, ShouldEqual, "image/png")
				So(store.albums[first].Artwork, ShouldResemble, []byte{0x89, 'P', 'N', 'G'})
			})
		})

		Convey("When scanned by several readers", func() {
			s := NewScanner(store, WithScanLogger(logger.Nop()), WithWorkers(4))
			_, err := s.Scan(context.Background(), root)

			Convey("Then tracks are stored in walk order", func() {
				So(err, ShouldBeNil)
				titles := make([]string, len(store.tracks))
				for i, tr := range store.tracks {
					titles[i] = tr.Title
				}
				So(titles, ShouldResemble, []string{"One", "Two", "Solo"})
			})
		})

		Convey("When the store rejects a write", func() {
			store.failTracks = true
			_, err := s.Scan(context.Background(), root)

			So(err, ShouldNotBeNil)
		})

		Convey("When only other extensions are accepted", func() {
			s := NewScanner(store, WithScanLogger(logger.Nop()), WithExtensions("flac"))
			report, err := s.Scan(context.Background(), root)

			So(err, ShouldBeNil)
			So(report.Indexed, ShouldEqual, 0)
			So(report.Skipped, ShouldEqual, 4)
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := s.Scan(ctx, root)

			So(err, ShouldNotBeNil)
		})
	})
}
