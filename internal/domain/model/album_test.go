package model_test

import (
	"testing"

	"github.com/okian/nextalbum/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAlbum(t *testing.T) {
	Convey("Given an album built from two tracks", t, func() {
		a := &model.Album{
			ID: "alb-1",
			Tracks: []*model.Track{
				{ID: "t1", AlbumID: "alb-1", AlbumTitle: "Blue Train", AlbumArtist: "", Artist: "John Coltrane"},
				{ID: "t2", AlbumID: "alb-1", AlbumTitle: "Blue Train", Artist: "John Coltrane"},
			},
		}

		Convey("When it has no detail", func() {
			Convey("Then title and artist come from the first track", func() {
				So(a.HasDetail(), ShouldBeFalse)
				So(a.Title(), ShouldEqual, "Blue Train")
				So(a.Artist(), ShouldEqual, "John Coltrane")
			})
		})

		Convey("When it is enriched", func() {
			tracks := a.Tracks
			a.Enrich(model.AlbumDetail{Title: "Blue Train (Remastered)", Artist: "Coltrane", Year: 1957})

			Convey("Then detail fields win and the tracks are kept verbatim", func() {
				So(a.HasDetail(), ShouldBeTrue)
				So(a.Title(), ShouldEqual, "Blue Train (Remastered)")
				So(a.Artist(), ShouldEqual, "Coltrane")
				So(a.Detail.Year, ShouldEqual, 1957)
				So(a.Tracks, ShouldResemble, tracks)
				So(len(a.Tracks), ShouldEqual, 2)
			})
		})

		Convey("When detail carries empty strings", func() {
			a.Enrich(model.AlbumDetail{Genre: "Jazz"})

			Convey("Then the track fallbacks still apply", func() {
				So(a.Title(), ShouldEqual, "Blue Train")
				So(a.Artist(), ShouldEqual, "John Coltrane")
			})
		})
	})

	Convey("An album without tracks has empty accessors", t, func() {
		a := &model.Album{ID: "x"}
		So(a.Title(), ShouldEqual, "")
		So(a.Artist(), ShouldEqual, "")
	})
}

func TestDefaultPreferences(t *testing.T) {
	Convey("Default preferences use ratings and keep library order", t, func() {
		p := model.DefaultPreferences()
		So(p.UseRatings, ShouldBeTrue)
		So(p.SortKey, ShouldEqual, "")
		So(p.Direction, ShouldEqual, "descending")
		So(p.SkipExcluded, ShouldBeFalse)
	})
}
