// Package scan reduces typed party and storage documents to per-player metrics.
package scan

import (
	"strings"

	"github.com/okian/academy/internal/domain/model"
)

// Result holds the per-player metrics derived from one pass over party and
// storage documents. Every player seen in either collection has an entry in
// both maps, even when it owns nothing.
type Result struct {
	Species map[string]map[string]struct{}
	Shiny   map[string]int
}

// Scanner accumulates party and storage documents. It is not safe for
// concurrent use.
type Scanner struct {
	res Result
}

// New returns an empty Scanner.
func New() *Scanner {
	return &Scanner{res: Result{
		Species: make(map[string]map[string]struct{}),
		Shiny:   make(map[string]int),
	}}
}

func (s *Scanner) touch(id string) {
	if _, ok := s.res.Species[id]; !ok {
		s.res.Species[id] = make(map[string]struct{})
	}
	if _, ok := s.res.Shiny[id]; !ok {
		s.res.Shiny[id] = 0
	}
}

func (s *Scanner) add(id string, p model.Pokemon) {
	species := strings.ToLower(p.Species)
	if species != "" {
		s.res.Species[id][species] = struct{}{}
	}
	if p.Shiny {
		s.res.Shiny[id]++
	}
}

// AddParty folds a party document into the result.
func (s *Scanner) AddParty(doc model.PartyDocument) {
	s.touch(doc.UUID)
	for _, slot := range doc.Slots {
		s.add(doc.UUID, slot.Pokemon)
	}
}

// AddPC folds a storage document into the result.
func (s *Scanner) AddPC(doc model.PCDocument) {
	s.touch(doc.UUID)
	for _, slot := range doc.Slots {
		s.add(doc.UUID, slot.Pokemon)
	}
}

// Result returns the accumulated metrics.
func (s *Scanner) Result() Result {
	return s.res
}

// SpeciesCounts maps each player to the number of distinct species owned.
func (r Result) SpeciesCounts() map[string]float64 {
	out := make(map[string]float64, len(r.Species))
	for id, set := range r.Species {
		out[id] = float64(len(set))
	}
	return out
}

// ShinyCounts maps each player to the number of shiny creatures owned.
func (r Result) ShinyCounts() map[string]float64 {
	out := make(map[string]float64, len(r.Shiny))
	for id, n := range r.Shiny {
		out[id] = float64(n)
	}
	return out
}

// OwnedSpecies returns the distinct lower-cased species held by one player's
// party and storage.
func OwnedSpecies(party *model.PartyDocument, pc *model.PCDocument) map[string]struct{} {
	s := New()
	if party != nil {
		s.AddParty(*party)
	}
	if pc != nil {
		s.AddPC(*pc)
	}
	owned := make(map[string]struct{})
	for _, set := range s.res.Species {
		for sp := range set {
			owned[sp] = struct{}{}
		}
	}
	return owned
}
