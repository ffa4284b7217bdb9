// Package scoring ranks players per category and combines the category
// ranks into the weighted Academy composite.
//
// Everything here is a pure function of its inputs; callers supply the raw
// per-category score maps.
package scoring

// Category names a scoring category.
type Category string

// Composite categories.
const (
	Pokedex Category = "pokedex"
	Shiny   Category = "shiny"
	Battles Category = "battles"
	Eggs    Category = "eggs"
)

// Leaderboard-only categories.
const (
	Captures Category = "captures"
	Aspects  Category = "aspects"
	Breeders Category = "breeders"
)

// DefaultWeights are the Academy composite weights. They sum to 1.
var DefaultWeights = map[Category]float64{
	Pokedex: 0.35,
	Shiny:   0.30,
	Battles: 0.25,
	Eggs:    0.10,
}

// CompositeCategories lists the composite categories in weight order.
func CompositeCategories() []Category {
	return []Category{Pokedex, Shiny, Battles, Eggs}
}
