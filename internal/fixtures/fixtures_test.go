package fixtures

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/academy/internal/adapters/repository"
	"github.com/okian/academy/internal/domain/decode"
	"github.com/okian/academy/internal/domain/types"
	"github.com/okian/academy/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a fixture config", t, func() {
		ctx := context.Background()
		cfg := Config{Players: 25, Seed: 42}

		set, err := Generate(ctx, cfg)
		So(err, ShouldBeNil)

		Convey("Then every collection has one document per player", func() {
			So(set.Players, ShouldHaveLength, 25)
			So(set.Party, ShouldHaveLength, 25)
			So(set.PC, ShouldHaveLength, 25)
		})

		Convey("Then every player document decodes", func() {
			for _, doc := range set.Players {
				_, err := decode.PlayerData(doc)
				So(err, ShouldBeNil)
			}
		})

		Convey("Then the same seed yields the same set", func() {
			again, err := Generate(ctx, cfg)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, set)
		})

		Convey("Then a different seed yields different players", func() {
			other, err := Generate(ctx, Config{Players: 25, Seed: 7})
			So(err, ShouldBeNil)
			So(other.Players[0]["uuid"], ShouldNotEqual, set.Players[0]["uuid"])
		})
	})

	Convey("Given a malformed rate", t, func() {
		set, err := Generate(context.Background(), Config{Players: 10, Seed: 1, MalformedRate: 0.5})
		So(err, ShouldBeNil)

		Convey("Then identity-less documents are appended", func() {
			So(set.Players, ShouldHaveLength, 11)
			_, err := decode.Identity(set.Players[10])
			So(err, ShouldEqual, decode.ErrMissingIdentity)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Generate(ctx, Config{Players: 5})
		So(err, ShouldNotBeNil)
	})
}

func TestWriteDir(t *testing.T) {
	Convey("Given a generated set written to disk", t, func() {
		dir := filepath.Join(t.TempDir(), "fixtures")
		set, err := Generate(context.Background(), Config{Players: 8, Seed: 3})
		So(err, ShouldBeNil)
		So(set.WriteDir(dir), ShouldBeNil)

		Convey("When the file store opens it", func() {
			store, err := repository.OpenFiles(dir)
			So(err, ShouldBeNil)

			Convey("Then every collection is loaded", func() {
				for _, c := range store.Collections() {
					n, err := c.Count(context.Background())
					So(err, ShouldBeNil)
					So(n, ShouldEqual, 8)
				}
			})
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given an API serving a consistent ranking", t, func() {
		rows := []types.AcademyRankEntry{
			{UUID: "a", AcademyScore: 90, Rank: 1, TotalPlayers: 2},
			{UUID: "b", AcademyScore: 40, Rank: 2, TotalPlayers: 2},
		}
		byID := map[string]types.AcademyRankEntry{"a": rows[0], "b": rows[1]}

		mux := http.NewServeMux()
		mux.HandleFunc("GET /leaderboards/academy", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(rows)
		})
		mux.HandleFunc("GET /players/{uuid}/rank", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(byID[r.PathValue("uuid")])
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := VerifyConfig{BaseURL: srv.URL, TopN: 10, Timeout: 5 * time.Second}

		Convey("When verifying", func() {
			rep, err := Verify(context.Background(), cfg)

			So(err, ShouldBeNil)
			So(rep.OK(), ShouldBeTrue)
			So(rep.Entries, ShouldEqual, 2)
			So(rep.Population, ShouldEqual, 2)
		})

		Convey("When a player's rank disagrees", func() {
			byID["b"] = types.AcademyRankEntry{UUID: "b", AcademyScore: 40, Rank: 3, TotalPlayers: 2}
			rep, err := Verify(context.Background(), cfg)

			So(err, ShouldBeNil)
			So(rep.OK(), ShouldBeFalse)
			So(rep.Violations, ShouldHaveLength, 1)
		})

		Convey("When scores are out of order", func() {
			rows[1].AcademyScore = 95
			byID["b"] = rows[1]
			rep, err := Verify(context.Background(), cfg)

			So(err, ShouldBeNil)
			So(rep.OK(), ShouldBeFalse)
		})
	})
}
