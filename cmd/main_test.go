package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/academy/internal/adapters/repository"
	app "github.com/okian/academy/internal/app"
	"github.com/okian/academy/internal/config"
	"github.com/okian/academy/internal/fixtures"
	"github.com/okian/academy/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("ACADEMY_ADDR", ":8080")
			_ = os.Setenv("ACADEMY_STORE_DRIVER", "file")
			_ = os.Setenv("ACADEMY_WARM_INTERVAL_SECONDS", "60")
			defer func() {
				_ = os.Unsetenv("ACADEMY_ADDR")
				_ = os.Unsetenv("ACADEMY_STORE_DRIVER")
				_ = os.Unsetenv("ACADEMY_WARM_INTERVAL_SECONDS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "file")
				convey.So(cfg.WarmInterval(), convey.ShouldEqual, time.Minute)
			})
		})

		convey.Convey("When the address is blanked", func() {
			_ = os.Setenv("ACADEMY_ADDR", "")
			defer func() { _ = os.Unsetenv("ACADEMY_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When no Bugsnag key is configured", func() {
			convey.So(configureBugsnag(config.New()), convey.ShouldBeNil)
		})
	})
}

func TestMainRoutes(t *testing.T) {
	convey.Convey("Given the full mux over fixture files", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		dir := filepath.Join(t.TempDir(), "fixtures")
		set, err := fixtures.Generate(ctx, fixtures.Config{Players: 12, Seed: 9})
		convey.So(err, convey.ShouldBeNil)
		convey.So(set.WriteDir(dir), convey.ShouldBeNil)

		cfg := config.New()
		cfg.StoreDriver = repository.DriverFile
		cfg.FixturesDir = dir

		store, err := repository.Open(ctx, cfg.StoreDriver, repository.WithFixturesDir(cfg.FixturesDir))
		convey.So(err, convey.ShouldBeNil)

		svc := app.New(app.WithStore(store), app.WithResolver(staticResolver{}))
		mux := newMux(ctx, cfg, svc, nil)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then every route answers", func() {
			for path, want := range map[string]int{
				"/":                               http.StatusOK,
				"/healthz":                        http.StatusOK,
				"/stats":                          http.StatusOK,
				"/api-docs":                       http.StatusOK,
				"/openapi.yaml":                   http.StatusOK,
				"/leaderboards/academy?limit=5":   http.StatusOK,
				"/leaderboards/shiny":             http.StatusOK,
				"/leaderboards/shiny?limit=10000": http.StatusBadRequest,
				"/players/nobody/rank":            http.StatusNotFound,
				"/players/nobody/summary":         http.StatusNotFound,
				"/players/nobody/pokedex":         http.StatusOK,
				"/nothing-here":                   http.StatusNotFound,
			} {
				convey.So(get(path).Code, convey.ShouldEqual, want)
			}
		})

		convey.Convey("Then a generated player has every view", func() {
			id := set.Players[0]["uuid"].(string)
			for _, view := range []string{"summary", "party", "pc", "pokedex", "rank"} {
				convey.So(get("/players/"+id+"/"+view).Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

type staticResolver struct{}

func (staticResolver) ResolveDisplayName(context.Context, string) string { return "Trainer" }

func TestNewResolver(t *testing.T) {
	convey.Convey("Given a resolver configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When Redis is reachable", func() {
			mr := miniredis.RunT(t)
			cfg.RedisAddr = mr.Addr()

			r, closeFn, err := newResolver(ctx, cfg, logger.Get())
			defer closeFn()

			convey.So(err, convey.ShouldBeNil)
			convey.So(r, convey.ShouldNotBeNil)
		})

		convey.Convey("When Redis is unreachable", func() {
			mr := miniredis.RunT(t)
			cfg.RedisAddr = mr.Addr()
			mr.Close()

			_, _, err := newResolver(ctx, cfg, logger.Get())

			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})
	})
}
