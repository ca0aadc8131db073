package main

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/arenalab/skillboard/internal/adapters/http/api"
	"github.com/arenalab/skillboard/internal/adapters/http/swagger"
	app "github.com/arenalab/skillboard/internal/app"
	"github.com/arenalab/skillboard/internal/config"
	"github.com/arenalab/skillboard/pkg/logger"
	"github.com/arenalab/skillboard/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SKILLBOARD_ADDR", ":8080")
			_ = os.Setenv("SKILLBOARD_SNAPSHOT_QUEUE_SIZE", "1000")
			_ = os.Setenv("SKILLBOARD_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("SKILLBOARD_ADDR")
				_ = os.Unsetenv("SKILLBOARD_SNAPSHOT_QUEUE_SIZE")
				_ = os.Unsetenv("SKILLBOARD_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SnapshotQueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithDedupeSize(1000),
					app.WithBaseline(25, 8),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager()
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics collection", func() {
			convey.Convey("Then updating system metrics should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing route registration", func() {
			mux := http.NewServeMux()
			ctx := context.Background()

			convey.Convey("Then swagger routes should register without panic", func() {
				convey.So(func() { swagger.Register(ctx, mux) }, convey.ShouldNotPanic)
			})

			convey.Convey("And API routes should register without panic", func() {
				svc := app.New()
				server := api.NewServer(svc, svc)
				convey.So(func() { server.Register(ctx, mux) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then updating service metrics should not panic", func() {
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})
	})
}
