package scan_test

import (
	"testing"

	"github.com/okian/academy/internal/domain/model"
	"github.com/okian/academy/internal/domain/scan"
	. "github.com/smartystreets/goconvey/convey"
)

func mon(species string, shiny bool) model.Pokemon {
	return model.Pokemon{Species: species, Shiny: shiny}
}

func TestScanner(t *testing.T) {
	Convey("Given a party with a shiny Pikachu and a box with an Eevee", t, func() {
		s := scan.New()
		s.AddParty(model.PartyDocument{UUID: "u1", Slots: []model.PartySlot{{Index: 0, Pokemon: mon("Pikachu", true)}}})
		s.AddPC(model.PCDocument{UUID: "u1", BoxCount: 1, Slots: []model.PCSlot{{Box: 0, Slot: 0, Pokemon: mon("Eevee", false)}}})
		res := s.Result()

		Convey("Then the pokedex scan holds both species lower-cased", func() {
			So(res.Species["u1"], ShouldContainKey, "pikachu")
			So(res.Species["u1"], ShouldContainKey, "eevee")
			So(res.SpeciesCounts()["u1"], ShouldEqual, 2)
		})

		Convey("Then the shiny scan counts one", func() {
			So(res.ShinyCounts()["u1"], ShouldEqual, 1)
		})
	})

	Convey("Given the same species in different casing and storage", t, func() {
		s := scan.New()
		s.AddParty(model.PartyDocument{UUID: "u1", Slots: []model.PartySlot{
			{Index: 0, Pokemon: mon("Eevee", true)},
			{Index: 1, Pokemon: mon("EEVEE", true)},
		}})
		s.AddPC(model.PCDocument{UUID: "u1", Slots: []model.PCSlot{{Pokemon: mon("eevee", true)}}})
		res := s.Result()

		Convey("Then species are deduplicated case-insensitively", func() {
			So(res.SpeciesCounts()["u1"], ShouldEqual, 1)
		})

		Convey("Then every shiny instance counts", func() {
			So(res.ShinyCounts()["u1"], ShouldEqual, 3)
		})
	})

	Convey("Given players owning nothing", t, func() {
		s := scan.New()
		s.AddParty(model.PartyDocument{UUID: "empty-party"})
		s.AddPC(model.PCDocument{UUID: "empty-pc"})
		res := s.Result()

		Convey("Then they are still present with zero metrics", func() {
			So(res.Species, ShouldContainKey, "empty-party")
			So(res.Species, ShouldContainKey, "empty-pc")
			So(res.ShinyCounts()["empty-party"], ShouldEqual, 0)
			So(res.ShinyCounts(), ShouldContainKey, "empty-pc")
			So(res.SpeciesCounts()["empty-pc"], ShouldEqual, 0)
		})
	})
}

func TestOwnedSpecies(t *testing.T) {
	Convey("Given a single player's documents", t, func() {
		party := &model.PartyDocument{UUID: "u1", Slots: []model.PartySlot{{Pokemon: mon("Mew", false)}}}
		pc := &model.PCDocument{UUID: "u1", Slots: []model.PCSlot{{Pokemon: mon("mew", false)}, {Pokemon: mon("Ditto", false)}}}

		So(scan.OwnedSpecies(party, pc), ShouldHaveLength, 2)
		So(scan.OwnedSpecies(nil, pc), ShouldHaveLength, 2)
		So(scan.OwnedSpecies(party, nil), ShouldHaveLength, 1)
		So(scan.OwnedSpecies(nil, nil), ShouldBeEmpty)
	})
}
