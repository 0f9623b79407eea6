package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/nextalbum/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"NEXTALBUM_CONFIG",
	"NEXTALBUM_ADDR",
	"NEXTALBUM_LOG_LEVEL",
	"NEXTALBUM_LOG_FORMAT",
	"NEXTALBUM_LIBRARY_PATH",
	"NEXTALBUM_STATE_PATH",
	"NEXTALBUM_SCAN_ROOTS",
	"NEXTALBUM_SORT_KEY",
	"NEXTALBUM_SORT_DIRECTION",
	"NEXTALBUM_USE_RATINGS",
	"NEXTALBUM_SKIP_EXCLUDED",
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, config.WithEnvFile(""))

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			setEnv(map[string]string{
				"NEXTALBUM_ADDR":           ":8080",
				"NEXTALBUM_LOG_LEVEL":      "debug",
				"NEXTALBUM_SCAN_ROOTS":     "/music/a, /music/b,,",
				"NEXTALBUM_SORT_KEY":       "bayesianEstimate",
				"NEXTALBUM_SORT_DIRECTION": "ascending",
				"NEXTALBUM_USE_RATINGS":    "false",
				"NEXTALBUM_SKIP_EXCLUDED":  "true",
			})

			cfg, err := config.Load(ctx, config.WithEnvFile(""))

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.ScanRoots, convey.ShouldResemble, []string{"/music/a", "/music/b"})
				convey.So(cfg.SortKey, convey.ShouldEqual, "bayesianEstimate")
				convey.So(cfg.SortDirection, convey.ShouldEqual, "ascending")
				convey.So(cfg.UseRatings, convey.ShouldBeFalse)
				convey.So(cfg.SkipExcluded, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := createTempConfigFile(t, `
# listen on a different port
addr: ":9090"
library_path: /var/lib/nextalbum/library.db
scan_roots:
  - /srv/music
sort_key: baseNWeightedPlayCountRating
`)
			setEnv(map[string]string{"NEXTALBUM_CONFIG": path})

			cfg, err := config.Load(ctx, config.WithEnvFile(""))

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LibraryPath, convey.ShouldEqual, "/var/lib/nextalbum/library.db")
				convey.So(cfg.ScanRoots, convey.ShouldResemble, []string{"/srv/music"})
				convey.So(cfg.SortKey, convey.ShouldEqual, "baseNWeightedPlayCountRating")
				convey.So(cfg.StatePath, convey.ShouldEqual, "nextalbum.db")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := createTempConfigFile(t, "addr: \":9090\"\nstate_path: state.db\n")
			setEnv(map[string]string{
				"NEXTALBUM_CONFIG": path,
				"NEXTALBUM_ADDR":   ":8080",
			})

			cfg, err := config.Load(ctx, config.WithEnvFile(""))

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StatePath, convey.ShouldEqual, "state.db")
			})
		})

		convey.Convey("When a dotenv file is present", func() {
			dir := t.TempDir()
			envFile := filepath.Join(dir, ".env")
			convey.So(os.WriteFile(envFile, []byte("NEXTALBUM_ADDR=:7070\nNEXTALBUM_LOG_FORMAT=json\n"), 0o600), convey.ShouldBeNil)
			setEnv(map[string]string{"NEXTALBUM_LOG_FORMAT": "text"})

			cfg, err := config.Load(ctx, config.WithEnvFile(envFile))

			convey.Convey("Then it feeds the env layer without overriding the real environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			})
		})

		convey.Convey("When the dotenv file does not exist", func() {
			_, err := config.Load(ctx, config.WithEnvFile(filepath.Join(t.TempDir(), "missing.env")))

			convey.Convey("Then it is ignored", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := createTempConfigFile(t, "addr: [unclosed\n")
			setEnv(map[string]string{"NEXTALBUM_CONFIG": path})

			_, err := config.Load(ctx, config.WithEnvFile(""))

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			setEnv(map[string]string{"NEXTALBUM_CONFIG": filepath.Join(t.TempDir(), "nope.yaml")})

			_, err := config.Load(ctx, config.WithEnvFile(""))

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			path := createTempConfigFile(t, "addr: \"\"\n")
			setEnv(map[string]string{"NEXTALBUM_CONFIG": path})

			_, err := config.Load(ctx, config.WithEnvFile(""))

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with an unknown sort key", func() {
			setEnv(map[string]string{"NEXTALBUM_SORT_KEY": "loudness"})

			_, err := config.Load(ctx, config.WithEnvFile(""))

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func setEnv(vars map[string]string) {
	for k, v := range vars {
		_ = os.Setenv(k, v)
	}
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
