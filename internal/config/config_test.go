package config_test

import (
	"errors"
	"testing"

	"github.com/okian/nextalbum/internal/config"
	scoring "github.com/okian/nextalbum/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.LibraryPath, convey.ShouldEqual, "library.db")
			convey.So(cfg.StatePath, convey.ShouldEqual, "nextalbum.db")
			convey.So(cfg.UseRatings, convey.ShouldBeTrue)
			convey.So(cfg.SortKey, convey.ShouldEqual, "")
			convey.So(cfg.SortDirection, convey.ShouldEqual, "descending")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad setting", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = " " },
			"empty library path": func(c *config.Config) { c.LibraryPath = "" },
			"empty state path":   func(c *config.Config) { c.StatePath = "" },
			"unknown log format": func(c *config.Config) { c.LogFormat = "xml" },
			"unknown log level":  func(c *config.Config) { c.LogLevel = "loud" },
			"unknown sort key":   func(c *config.Config) { c.SortKey = "popularity" },
			"unknown direction":  func(c *config.Config) { c.SortDirection = "up" },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			if name == "unknown sort key" {
				convey.So(errors.Is(err, scoring.ErrUnknownSortKey), convey.ShouldBeTrue)
			}
		}
	})
}

func TestConfig_Preferences(t *testing.T) {
	convey.Convey("Given a config with an abbreviated ordering", t, func() {
		cfg := config.New()
		cfg.SortKey = "ESTIMATEDTRUEVALUE"
		cfg.SortDirection = "asc"
		cfg.SkipExcluded = true

		convey.Convey("Then preferences come back in canonical form", func() {
			p := cfg.Preferences()
			convey.So(p.SortKey, convey.ShouldEqual, "estimatedTrueValue")
			convey.So(p.Direction, convey.ShouldEqual, "ascending")
			convey.So(p.UseRatings, convey.ShouldBeTrue)
			convey.So(p.SkipExcluded, convey.ShouldBeTrue)
		})
	})
}
