package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/academy/internal/domain/types"
	"github.com/okian/academy/pkg/logger"
)

// Report summarizes a verification run.
type Report struct {
	Entries    int
	Population int
	Violations []string
}

// OK reports whether no invariant was violated.
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

func (r *Report) failf(format string, args ...any) {
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

// Verify fetches the Academy leaderboard and each listed player's rank and
// checks the ranking invariants.
func Verify(ctx context.Context, cfg VerifyConfig) (Report, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	var rep Report

	var rows []types.AcademyRankEntry
	url := cfg.BaseURL + "/leaderboards/academy?limit=" + strconv.Itoa(cfg.TopN)
	if err := getJSON(ctx, client, url, &rows); err != nil {
		return rep, err
	}
	rep.Entries = len(rows)

	for i, row := range rows {
		if row.Rank != i+1 {
			rep.failf("row %d: rank %d, want %d", i, row.Rank, i+1)
		}
		if row.AcademyScore < 0 || row.AcademyScore > 100 {
			rep.failf("row %d: score %.2f out of [0, 100]", i, row.AcademyScore)
		}
		if i > 0 && row.AcademyScore > rows[i-1].AcademyScore {
			rep.failf("row %d: score %.2f above previous %.2f", i, row.AcademyScore, rows[i-1].AcademyScore)
		}
		if i == 0 {
			rep.Population = row.TotalPlayers
		} else if row.TotalPlayers != rep.Population {
			rep.failf("row %d: total_players %d, want %d", i, row.TotalPlayers, rep.Population)
		}

		var own types.AcademyRankEntry
		if err := getJSON(ctx, client, cfg.BaseURL+"/players/"+row.UUID+"/rank", &own); err != nil {
			rep.failf("row %d: rank lookup: %v", i, err)
			continue
		}
		if own.Rank != row.Rank || own.AcademyScore != row.AcademyScore {
			rep.failf("row %d: player rank %d/%.2f disagrees with leaderboard %d/%.2f",
				i, own.Rank, own.AcademyScore, row.Rank, row.AcademyScore)
		}
	}

	logger.Get().Info(ctx, "verification completed",
		logger.Int("entries", rep.Entries),
		logger.Int("population", rep.Population),
		logger.Int("violations", len(rep.Violations)),
	)
	return rep, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}
	return json.Unmarshal(body, out)
}
