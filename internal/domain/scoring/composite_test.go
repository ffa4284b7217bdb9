package scoring_test

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/okian/academy/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultWeights(t *testing.T) {
	Convey("Given the default weights", t, func() {
		sum := 0.0
		for _, w := range scoring.DefaultWeights {
			sum += w
		}

		Convey("Then they sum to one", func() {
			So(sum, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("Then every composite category is weighted", func() {
			for _, c := range scoring.CompositeCategories() {
				So(scoring.DefaultWeights, ShouldContainKey, c)
			}
		})
	})
}

func TestComposite(t *testing.T) {
	Convey("Given two players with identical composite scores", t, func() {
		raw := map[scoring.Category]map[string]float64{
			scoring.Pokedex: {"A": 5, "B": 5, "C": 5},
			scoring.Shiny:   {"A": 4, "B": 2, "C": 2},
			scoring.Battles: {"A": 7},
			scoring.Eggs:    {"A": 3, "B": 1, "C": 1},
		}

		entries, err := scoring.NewScorer().Composite(raw)

		So(err, ShouldBeNil)
		So(entries, ShouldHaveLength, 3)

		Convey("Then the leader scores 100", func() {
			So(entries[0].UUID, ShouldEqual, "A")
			So(entries[0].Score, ShouldEqual, 100.0)
			So(entries[0].Rank, ShouldEqual, 1)
		})

		Convey("Then the tied players score 55.00 at consecutive ranks", func() {
			So(entries[1].Score, ShouldEqual, 55.0)
			So(entries[2].Score, ShouldEqual, 55.0)
			So(entries[1].Rank, ShouldEqual, 2)
			So(entries[2].Rank, ShouldEqual, 3)
		})

		Convey("Then per-category details are carried", func() {
			b := entries[1]
			So(b.Ranks[scoring.Shiny], ShouldEqual, 2)
			So(b.Normalized[scoring.Shiny], ShouldEqual, 0.5)
			So(b.Ranks[scoring.Battles], ShouldEqual, 2)
			So(b.Normalized[scoring.Battles], ShouldEqual, 0.0)
			So(b.Raw[scoring.Eggs], ShouldEqual, 1.0)
			So(b.TotalPlayers, ShouldEqual, 3)
		})

		Convey("And recomputing yields identical results", func() {
			again, err := scoring.NewScorer().Composite(raw)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, entries)
		})
	})

	Convey("Given a population of one", t, func() {
		raw := map[scoring.Category]map[string]float64{
			scoring.Pokedex: {"solo": 12},
			scoring.Shiny:   {"solo": 0},
			scoring.Battles: {},
			scoring.Eggs:    {},
		}

		entries, err := scoring.NewScorer().Composite(raw)

		Convey("Then non-zero categories normalize to 1", func() {
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
			So(entries[0].Normalized[scoring.Pokedex], ShouldEqual, 1.0)
			So(entries[0].Normalized[scoring.Shiny], ShouldEqual, 0.0)
			So(entries[0].Score, ShouldEqual, 35.0)
			So(entries[0].TotalPlayers, ShouldEqual, 1)
		})
	})

	Convey("Given no players at all", t, func() {
		entries, err := scoring.NewScorer().Composite(map[scoring.Category]map[string]float64{
			scoring.Pokedex: {}, scoring.Shiny: {}, scoring.Battles: {}, scoring.Eggs: {},
		})
		So(err, ShouldBeNil)
		So(entries, ShouldBeEmpty)
	})

	Convey("Given weights that do not sum to one", t, func() {
		s := scoring.NewScorer(scoring.WithWeights(map[scoring.Category]float64{
			scoring.Pokedex: 0.5, scoring.Shiny: 0.3, scoring.Battles: 0.25, scoring.Eggs: 0.1,
		}))
		_, err := s.Composite(map[scoring.Category]map[string]float64{
			scoring.Pokedex: {"A": 1}, scoring.Shiny: {}, scoring.Battles: {}, scoring.Eggs: {},
		})

		Convey("Then the computation fails as a defect", func() {
			So(errors.Is(err, scoring.ErrComputation), ShouldBeTrue)
		})
	})

	Convey("Given a category outside the composite", t, func() {
		_, err := scoring.NewScorer().Composite(map[scoring.Category]map[string]float64{
			scoring.Pokedex: {}, scoring.Shiny: {}, scoring.Battles: {}, scoring.Eggs: {},
			scoring.Captures: {"A": 1},
		})
		So(errors.Is(err, scoring.ErrUnknownCategory), ShouldBeTrue)
	})

	Convey("Given a missing composite category", t, func() {
		_, err := scoring.NewScorer().Composite(map[scoring.Category]map[string]float64{
			scoring.Pokedex: {"A": 1},
		})
		So(errors.Is(err, scoring.ErrComputation), ShouldBeTrue)
	})
}

func TestCompositeProperties(t *testing.T) {
	Convey("Given random populations", t, func() {
		rng := rand.New(rand.NewSource(7))

		for round := 0; round < 25; round++ {
			raw := map[scoring.Category]map[string]float64{}
			for _, c := range scoring.CompositeCategories() {
				raw[c] = map[string]float64{}
			}
			n := 1 + rng.Intn(40)
			for i := 0; i < n; i++ {
				id := "p" + strconv.Itoa(i)
				for _, c := range scoring.CompositeCategories() {
					if rng.Intn(4) > 0 {
						raw[c][id] = float64(rng.Intn(6))
					}
				}
			}

			entries, err := scoring.NewScorer().Composite(raw)
			So(err, ShouldBeNil)

			for i, e := range entries {
				So(e.Score, ShouldBeBetweenOrEqual, 0.0, 100.0)
				So(e.Rank, ShouldEqual, i+1)
				So(e.TotalPlayers, ShouldEqual, len(entries))
				if i > 0 {
					So(e.Score, ShouldBeLessThanOrEqualTo, entries[i-1].Score)
				}
			}

			for _, c := range scoring.CompositeCategories() {
				for _, a := range entries {
					for _, b := range entries {
						if a.Raw[c] > b.Raw[c] {
							So(a.Ranks[c], ShouldBeLessThan, b.Ranks[c])
						}
						if a.Raw[c] == b.Raw[c] {
							So(a.Ranks[c], ShouldEqual, b.Ranks[c])
						}
					}
				}
			}
		}
	})
}

func TestRound2(t *testing.T) {
	Convey("Given values at the rounding boundary", t, func() {
		So(scoring.Round2(12.345), ShouldEqual, 12.35)
		So(scoring.Round2(55.00000000000001), ShouldEqual, 55.0)
		So(scoring.Round2(0.004), ShouldEqual, 0.0)
	})
}
