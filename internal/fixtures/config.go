// Package fixtures generates deterministic synthetic player collections and
// checks a running API against the ranking invariants.
package fixtures

import "time"

// Config holds configuration for fixture generation.
type Config struct {
	Players       int     // Number of players to generate
	Seed          uint64  // Seed for the deterministic generator
	Boxes         int     // BoxCount of every storage document
	MaxPerBox     int     // Upper bound of creatures per storage box
	ShinyRate     float64 // Probability that a creature is shiny
	MalformedRate float64 // Probability of emitting an unusable slot or document
}

// Defaults for Config fields left at zero.
const (
	DefaultPlayers   = 200
	DefaultBoxes     = 4
	DefaultMaxPerBox = 12
	DefaultShinyRate = 0.05
)

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.Players <= 0 {
		c.Players = DefaultPlayers
	}
	if c.Boxes <= 0 {
		c.Boxes = DefaultBoxes
	}
	if c.MaxPerBox <= 0 {
		c.MaxPerBox = DefaultMaxPerBox
	}
	if c.ShinyRate <= 0 {
		c.ShinyRate = DefaultShinyRate
	}
	return c
}

// VerifyConfig holds configuration for an API verification run.
type VerifyConfig struct {
	BaseURL string        // Base URL of the service
	TopN    int           // Academy entries to fetch
	Timeout time.Duration // HTTP request timeout
}
