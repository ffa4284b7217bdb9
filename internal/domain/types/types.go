// Package types contains the response shapes shared by the service and the
// HTTP layer.
package types

import (
	"github.com/okian/academy/internal/domain/model"
	"github.com/okian/academy/internal/domain/scoring"
)

// Default result sizes.
const (
	DefaultLeaderboardLimit = 10
	DefaultAcademyLimit     = 100
	DefaultPCPageSize       = 50
)

// LeaderboardEntry is one row of a single-category leaderboard.
type LeaderboardEntry struct {
	UUID     string  `json:"uuid"`
	Username string  `json:"username"`
	Value    float64 `json:"value"`
	Rank     int     `json:"rank"`
}

// CategoryScore is a player's standing in one composite category.
type CategoryScore struct {
	Value      float64 `json:"value"`
	Rank       int     `json:"rank"`
	Normalized float64 `json:"normalized"`
}

// AcademyRankEntry is one row of the composite Academy ranking.
type AcademyRankEntry struct {
	UUID         string                   `json:"uuid"`
	Username     string                   `json:"username"`
	AcademyScore float64                  `json:"academy_score"`
	Rank         int                      `json:"rank"`
	TotalPlayers int                      `json:"total_players"`
	Categories   map[string]CategoryScore `json:"categories"`
}

// NewAcademyRankEntry converts a composite entry into its response shape.
func NewAcademyRankEntry(e scoring.Entry, username string) AcademyRankEntry {
	cats := make(map[string]CategoryScore, len(e.Ranks))
	for c, r := range e.Ranks {
		cats[string(c)] = CategoryScore{
			Value:      e.Raw[c],
			Rank:       r,
			Normalized: e.Normalized[c],
		}
	}
	return AcademyRankEntry{
		UUID:         e.UUID,
		Username:     username,
		AcademyScore: e.Score,
		Rank:         e.Rank,
		TotalPlayers: e.TotalPlayers,
		Categories:   cats,
	}
}

// PlayerSummary is a player's progression counters and display name.
type PlayerSummary struct {
	UUID            string                `json:"uuid"`
	Username        string                `json:"username"`
	AdvancementData model.AdvancementData `json:"advancementData"`
}

// PokedexStats summarizes the distinct species a player owns.
type PokedexStats struct {
	TotalSeen            int     `json:"total_seen"`
	TotalCaught          int     `json:"total_caught"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// PCQuery selects a page of a player's storage.
type PCQuery struct {
	Page  int
	Limit int
	// Shiny, when set, keeps only creatures with a matching flag.
	Shiny *bool
	// Species keeps creatures whose species contains it, ignoring case.
	Species string
}
