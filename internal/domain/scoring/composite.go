package scoring

import (
	"math"
	"sort"

	pkgerrors "github.com/pkg/errors"
)

const (
	maxCompositeScore = 100
	weightTolerance   = 1e-9
)

// Entry is one player's row in the composite ranking.
type Entry struct {
	UUID         string
	Score        float64
	Rank         int
	TotalPlayers int
	Ranks        map[Category]int
	Normalized   map[Category]float64
	Raw          map[Category]float64
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights replaces the composite weights. The weights are validated on
// every computation, not here.
func WithWeights(weights map[Category]float64) Option {
	return func(s *Scorer) {
		s.weights = make(map[Category]float64, len(weights))
		for c, w := range weights {
			s.weights[c] = w
		}
	}
}

// Scorer computes the weighted composite ranking.
type Scorer struct {
	weights map[Category]float64
}

// NewScorer creates a Scorer using DefaultWeights unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{}
	WithWeights(DefaultWeights)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns the weighted categories in a stable order.
func (s *Scorer) Categories() []Category {
	out := make([]Category, 0, len(s.weights))
	for c := range s.weights {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if s.weights[out[i]] != s.weights[out[j]] {
			return s.weights[out[i]] > s.weights[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func (s *Scorer) checkWeights() error {
	sum := 0.0
	for c, w := range s.weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return pkgerrors.Wrapf(ErrComputation, "invalid weight %v for %s", w, c)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return pkgerrors.Wrapf(ErrComputation, "weights sum to %v", sum)
	}
	return nil
}

// Composite ranks the population formed by the union of all identities in
// raw. Each weighted category must be present in raw (it may be empty).
// Composite ranks are dense and positional: equal scores get consecutive
// ranks in identity order.
func (s *Scorer) Composite(raw map[Category]map[string]float64) ([]Entry, error) {
	if err := s.checkWeights(); err != nil {
		return nil, err
	}
	for c := range raw {
		if _, ok := s.weights[c]; !ok {
			return nil, pkgerrors.Wrapf(ErrUnknownCategory, "category %q", c)
		}
	}
	cats := s.Categories()
	for _, c := range cats {
		if _, ok := raw[c]; !ok {
			return nil, pkgerrors.Wrapf(ErrComputation, "missing scores for %s", c)
		}
	}

	population := Population(raw)
	n := len(population)
	ranks := make(map[Category]map[string]int, len(cats))
	for _, c := range cats {
		ranks[c] = CompetitionRanks(raw[c], population)
	}

	entries := make([]Entry, 0, n)
	for _, id := range population {
		e := Entry{
			UUID:         id,
			TotalPlayers: n,
			Ranks:        make(map[Category]int, len(cats)),
			Normalized:   make(map[Category]float64, len(cats)),
			Raw:          make(map[Category]float64, len(cats)),
		}
		total := 0.0
		for _, c := range cats {
			v := raw[c][id]
			r := ranks[c][id]
			norm := Normalize(v, r, n)
			e.Raw[c] = v
			e.Ranks[c] = r
			e.Normalized[c] = norm
			total += norm * s.weights[c]
		}
		e.Score = Round2(total * maxCompositeScore)
		if math.IsNaN(e.Score) || e.Score < 0 || e.Score > maxCompositeScore {
			return nil, pkgerrors.Wrapf(ErrComputation, "composite score %v for %s", e.Score, id)
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
