package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/academy/internal/domain/scoring"
	types "github.com/okian/academy/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewAcademyRankEntry(t *testing.T) {
	Convey("Given a composite entry", t, func() {
		e := scoring.Entry{
			UUID:         "u1",
			Score:        72.5,
			Rank:         2,
			TotalPlayers: 9,
			Ranks:        map[scoring.Category]int{scoring.Pokedex: 1, scoring.Eggs: 4},
			Normalized:   map[scoring.Category]float64{scoring.Pokedex: 1, scoring.Eggs: 0.625},
			Raw:          map[scoring.Category]float64{scoring.Pokedex: 30, scoring.Eggs: 2},
		}

		Convey("When converting it", func() {
			out := types.NewAcademyRankEntry(e, "Ash")

			Convey("Then scalar fields carry over", func() {
				So(out.UUID, ShouldEqual, "u1")
				So(out.Username, ShouldEqual, "Ash")
				So(out.AcademyScore, ShouldEqual, 72.5)
				So(out.Rank, ShouldEqual, 2)
				So(out.TotalPlayers, ShouldEqual, 9)
			})

			Convey("Then categories are keyed by name", func() {
				So(out.Categories, ShouldHaveLength, 2)
				So(out.Categories["eggs"], ShouldResemble, types.CategoryScore{Value: 2, Rank: 4, Normalized: 0.625})
			})

			Convey("Then the JSON shape uses snake case keys", func() {
				raw, err := json.Marshal(out)
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"academy_score":72.5`)
				So(string(raw), ShouldContainSubstring, `"total_players":9`)
				So(string(raw), ShouldContainSubstring, `"pokedex":{"value":30,"rank":1,"normalized":1}`)
			})
		})
	})
}

func TestLeaderboardEntryJSON(t *testing.T) {
	Convey("Given a leaderboard entry", t, func() {
		raw, err := json.Marshal(types.LeaderboardEntry{UUID: "u1", Username: "Misty", Value: 12, Rank: 1})

		Convey("Then it encodes the public field names", func() {
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"uuid":"u1","username":"Misty","value":12,"rank":1}`)
		})
	})
}
