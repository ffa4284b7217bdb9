package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// resolveNames looks up display names for ids with bounded concurrency.
// Resolution never fails; unknown players get the resolver's fallback.
func (s *Service) resolveNames(ctx context.Context, ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.resolveConcurrency)
	for _, id := range ids {
		mu.Lock()
		_, seen := names[id]
		if !seen {
			names[id] = ""
		}
		mu.Unlock()
		if seen {
			continue
		}
		g.Go(func() error {
			name := s.resolver.ResolveDisplayName(gctx, id)
			mu.Lock()
			names[id] = name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return names
}
