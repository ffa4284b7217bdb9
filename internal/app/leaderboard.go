package service

import (
	"context"
	"sort"

	"github.com/okian/academy/internal/domain/scoring"
	"github.com/okian/academy/internal/domain/types"
)

// Leaderboard returns the top players of one category, ordered by value
// descending with ties broken by uuid. Ranks are positional. An unknown
// category yields an empty list.
func (s *Service) Leaderboard(ctx context.Context, category string, limit int) ([]types.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = types.DefaultLeaderboardLimit
	}
	scores, err := s.categoryScores(ctx, scoring.Category(category))
	if err != nil {
		return nil, err
	}

	rows := make([]types.LeaderboardEntry, 0, len(scores))
	for id, v := range scores {
		rows = append(rows, types.LeaderboardEntry{UUID: id, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].UUID < rows[j].UUID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	ids := make([]string, len(rows))
	for i := range rows {
		rows[i].Rank = i + 1
		ids[i] = rows[i].UUID
	}
	names := s.resolveNames(ctx, ids)
	for i := range rows {
		rows[i].Username = names[rows[i].UUID]
	}
	return rows, nil
}
