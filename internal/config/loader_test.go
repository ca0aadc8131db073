package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arenalab/skillboard/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a clean environment", t, func() {
		Reset(func() {
			for _, key := range []string{
				"SKILLBOARD_CONFIG", "SKILLBOARD_ADDR", "SKILLBOARD_PAGE_SIZE",
				"SKILLBOARD_BASELINE_MEAN", "SKILLBOARD_DB_PATH",
			} {
				_ = os.Unsetenv(key)
			}
		})

		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the defaults come back", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, config.New().Addr)
			})
		})

		Convey("When environment variables override defaults", func() {
			_ = os.Setenv("SKILLBOARD_ADDR", ":8088")
			_ = os.Setenv("SKILLBOARD_PAGE_SIZE", "25")
			_ = os.Setenv("SKILLBOARD_BASELINE_MEAN", "1200")

			cfg, err := config.Load(ctx)

			Convey("Then they take precedence", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8088")
				So(cfg.PageSize, ShouldEqual, 25)
				So(cfg.BaselineMean, ShouldEqual, 1200)
			})
		})

		Convey("When a YAML file is provided", func() {
			path := filepath.Join(t.TempDir(), "skillboard.yaml")
			So(os.WriteFile(path, []byte("addr: \":7070\"\npage_size: 5\n"), 0o600), ShouldBeNil)
			_ = os.Setenv("SKILLBOARD_CONFIG", path)

			cfg, err := config.Load(ctx)

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.PageSize, ShouldEqual, 5)
			})

			Convey("And env still beats the file", func() {
				_ = os.Setenv("SKILLBOARD_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
			})
		})

		Convey("When the file path is bogus", func() {
			_ = os.Setenv("SKILLBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			_, err := config.Load(ctx)

			Convey("Then loading fails with the load sentinel", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, config.ErrLoadConfig.Error())
			})
		})

		Convey("When validation fails", func() {
			_ = os.Setenv("SKILLBOARD_PAGE_SIZE", "0")
			_, err := config.Load(ctx)

			Convey("Then the invalid-config sentinel surfaces", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, config.ErrInvalidConfig.Error())
			})
		})
	})
}
