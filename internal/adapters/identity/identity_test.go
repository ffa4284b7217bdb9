package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/okian/academy/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const playerUUID = "069a79f4-44e9-4726-a5be-fca90e38aaf5"

type stubSource struct {
	name  string
	err   error
	calls atomic.Int32
}

func (s *stubSource) ProfileName(context.Context, string) (string, error) {
	s.calls.Add(1)
	return s.name, s.err
}

// ctxSource fails the way an HTTP client does once its context is done.
type ctxSource struct {
	name string
}

func (s *ctxSource) ProfileName(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.name, nil
}

func TestCleanUUID(t *testing.T) {
	Convey("Given dashed and undashed identities", t, func() {
		So(CleanUUID(playerUUID), ShouldEqual, "069a79f444e94726a5befca90e38aaf5")
		So(CleanUUID("069A79F444E94726A5BEFCA90E38AAF5"), ShouldEqual, "069a79f444e94726a5befca90e38aaf5")
		So(CleanUUID("not-a-uuid"), ShouldEqual, "notauuid")
	})
}

func TestMojangClient(t *testing.T) {
	Convey("Given a fake session server", t, func() {
		var lastPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastPath = r.URL.Path
			id := strings.TrimPrefix(r.URL.Path, "/profile/")
			switch id {
			case "069a79f444e94726a5befca90e38aaf5":
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`))
			case "00000000000000000000000000000000":
				w.WriteHeader(http.StatusNoContent)
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		}))
		defer srv.Close()

		c := NewMojangClient(WithBaseURL(srv.URL+"/profile"), WithRateLimit(1000, 100), WithHTTPClient(srv.Client()))
		ctx := context.Background()

		Convey("Then a 200 yields the profile name", func() {
			name, err := c.ProfileName(ctx, playerUUID)
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "Notch")
			So(lastPath, ShouldEqual, "/profile/069a79f444e94726a5befca90e38aaf5")
		})

		Convey("Then a 204 is ErrNoProfile", func() {
			_, err := c.ProfileName(ctx, "00000000-0000-0000-0000-000000000000")
			So(errors.Is(err, ErrNoProfile), ShouldBeTrue)
		})

		Convey("Then other statuses are ErrUpstream", func() {
			_, err := c.ProfileName(ctx, "11111111-1111-1111-1111-111111111111")
			So(errors.Is(err, ErrUpstream), ShouldBeTrue)
		})
	})
}

func TestNameResolver(t *testing.T) {
	_ = logger.Init()

	Convey("Given a resolver with a fake clock", t, func() {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		cache := NewMemoryNameCache()
		ctx := context.Background()

		Convey("When the cached name is fresh", func() {
			_ = cache.Store(ctx, playerUUID, NameRecord{Name: "Cached", UpdatedAt: now.Add(-time.Hour)})
			src := &stubSource{name: "Upstream"}
			r := NewNameResolver(WithCache(cache), WithSource(src), WithClock(clock))

			Convey("Then the upstream is not called", func() {
				So(r.ResolveDisplayName(ctx, playerUUID), ShouldEqual, "Cached")
				So(src.calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("When the cached name is older than seven days", func() {
			_ = cache.Store(ctx, playerUUID, NameRecord{Name: "Old", UpdatedAt: now.Add(-8 * 24 * time.Hour)})

			Convey("And the upstream answers", func() {
				src := &stubSource{name: "New"}
				r := NewNameResolver(WithCache(cache), WithSource(src), WithClock(clock))

				Convey("Then the new name is returned and cached", func() {
					So(r.ResolveDisplayName(ctx, playerUUID), ShouldEqual, "New")
					rec, ok, _ := cache.Lookup(ctx, playerUUID)
					So(ok, ShouldBeTrue)
					So(rec.Name, ShouldEqual, "New")
					So(rec.UpdatedAt.Equal(now), ShouldBeTrue)
				})
			})

			Convey("And the upstream fails", func() {
				src := &stubSource{err: ErrUpstream}
				r := NewNameResolver(WithCache(cache), WithSource(src), WithClock(clock))

				Convey("Then the stale name is returned", func() {
					So(r.ResolveDisplayName(ctx, playerUUID), ShouldEqual, "Old")
				})
			})
		})

		Convey("When nothing is cached and the profile does not exist", func() {
			r := NewNameResolver(WithCache(cache), WithSource(&stubSource{err: ErrNoProfile}), WithClock(clock))

			Convey("Then the fallback name is returned", func() {
				So(r.ResolveDisplayName(ctx, playerUUID), ShouldEqual, UnknownTrainer)
			})
		})

		Convey("When nothing is cached and the upstream errors", func() {
			r := NewNameResolver(WithCache(cache), WithSource(&stubSource{err: errors.New("dial")}), WithClock(clock))
			So(r.ResolveDisplayName(ctx, playerUUID), ShouldEqual, UnknownTrainer)
		})

		Convey("When the caller that starts the lookup is already cancelled", func() {
			r := NewNameResolver(WithCache(cache), WithSource(&ctxSource{name: "Notch"}), WithClock(clock))
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then the shared lookup still resolves and caches the name", func() {
				So(r.ResolveDisplayName(cancelled, playerUUID), ShouldEqual, "Notch")
				rec, ok, _ := cache.Lookup(ctx, playerUUID)
				So(ok, ShouldBeTrue)
				So(rec.Name, ShouldEqual, "Notch")
			})
		})
	})
}

func TestRedisNameCache(t *testing.T) {
	Convey("Given a Redis name cache on miniredis", t, func() {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()
		c := NewRedisNameCache(client)
		ctx := context.Background()

		Convey("Then a missing key is a miss", func() {
			_, ok, err := c.Lookup(ctx, playerUUID)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("Then a stored record round trips at second precision", func() {
			at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
			So(c.Store(ctx, playerUUID, NameRecord{Name: "Notch", UpdatedAt: at}), ShouldBeNil)

			rec, ok, err := c.Lookup(ctx, playerUUID)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(rec.Name, ShouldEqual, "Notch")
			So(rec.UpdatedAt.Equal(at), ShouldBeTrue)
			So(mr.HGet(redisKeyPrefix+playerUUID, fieldName), ShouldEqual, "Notch")
		})

		Convey("Then Ping succeeds", func() {
			So(c.Ping(ctx), ShouldBeNil)
		})
	})
}
