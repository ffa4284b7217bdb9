package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/academy/internal/domain/scoring"
	"github.com/okian/academy/internal/domain/types"
	"github.com/okian/academy/pkg/logger"
	"github.com/okian/academy/pkg/metrics"
)

// computeAcademy builds the composite ranking from fresh category scores.
func (s *Service) computeAcademy(ctx context.Context) ([]scoring.Entry, error) {
	start := time.Now()

	raw := make(map[scoring.Category]map[string]float64)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range s.scorer.Categories() {
		g.Go(func() error {
			scores, err := s.categoryScores(gctx, c)
			if err != nil {
				return err
			}
			mu.Lock()
			raw[c] = scores
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordCompositeError()
		return nil, err
	}

	entries, err := s.scorer.Composite(raw)
	if err != nil {
		metrics.RecordCompositeError()
		s.logger.Error(ctx, "composite ranking failed", logger.Error(err), logger.Stack(err))
		return nil, err
	}

	metrics.RecordCompositeRecompute(time.Since(start), len(entries))
	s.logger.Debug(ctx, "academy ranking computed",
		logger.Int("players", len(entries)),
		logger.Duration("took", time.Since(start)),
	)
	return entries, nil
}

// AcademyLeaderboard returns the top players by composite score. A
// non-positive limit selects the default.
func (s *Service) AcademyLeaderboard(ctx context.Context, limit int) ([]types.AcademyRankEntry, error) {
	if limit <= 0 {
		limit = types.DefaultAcademyLimit
	}
	entries, err := s.academy.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.UUID
	}
	names := s.resolveNames(ctx, ids)

	out := make([]types.AcademyRankEntry, len(entries))
	for i, e := range entries {
		out[i] = types.NewAcademyRankEntry(e, names[e.UUID])
	}
	return out, nil
}

// PlayerRank returns one player's composite standing.
func (s *Service) PlayerRank(ctx context.Context, uuid string) (types.AcademyRankEntry, error) {
	entries, err := s.academy.Get(ctx)
	if err != nil {
		return types.AcademyRankEntry{}, err
	}
	for _, e := range entries {
		if e.UUID == uuid {
			return types.NewAcademyRankEntry(e, s.resolver.ResolveDisplayName(ctx, uuid)), nil
		}
	}
	return types.AcademyRankEntry{}, fmt.Errorf("player %s: %w", uuid, ErrNotFound)
}
