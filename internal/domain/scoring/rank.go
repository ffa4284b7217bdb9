package scoring

import (
	"sort"
)

// Population returns the sorted union of player identities across all
// score maps.
func Population[K comparable](scores map[K]map[string]float64) []string {
	seen := make(map[string]struct{})
	for _, m := range scores {
		for id := range m {
			seen[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CompetitionRanks assigns standard competition ranks ("1224") over
// population ordered by score descending. Players missing from scores count
// as 0. Equal scores share a rank and the next lower score takes its 1-based
// position, so [10, 10, 8] ranks [1, 1, 3]. Ties keep population order.
func CompetitionRanks(scores map[string]float64, population []string) map[string]int {
	order := make([]string, len(population))
	copy(order, population)
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	ranks := make(map[string]int, len(order))
	rank := 1
	for i, id := range order {
		if i > 0 && scores[id] < scores[order[i-1]] {
			rank = i + 1
		}
		ranks[id] = rank
	}
	return ranks
}

// Normalize maps a competition rank within a population of size n onto
// [0, 1]. A raw score of 0 is always 0; a lone player is always 1.
func Normalize(raw float64, rank, n int) float64 {
	if raw == 0 {
		return 0
	}
	if n <= 1 {
		return 1
	}
	return 1 - float64(rank-1)/float64(n-1)
}
