package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/academy/internal/adapters/repository"
	"github.com/okian/academy/internal/domain/decode"
	"github.com/okian/academy/internal/domain/model"
	"github.com/okian/academy/internal/domain/scan"
	"github.com/okian/academy/internal/domain/scoring"
	"github.com/okian/academy/pkg/logger"
	"github.com/okian/academy/pkg/metrics"
)

// Skip reasons, used as metric labels.
const (
	skipMissingIdentity = "missing_identity"
	skipMalformed       = "malformed"
)

// categorySource produces the raw per-player value map of one category.
type categorySource interface {
	scores(ctx context.Context, s *Service) (map[string]float64, error)
}

// fieldCategory projects one progression counter per player.
type fieldCategory struct {
	project func(model.AdvancementData) float64
}

func (f fieldCategory) scores(ctx context.Context, s *Service) (map[string]float64, error) {
	out := make(map[string]float64)
	err := eachDecoded(ctx, s, s.store.Players, decode.PlayerData, func(pd model.PlayerData) {
		out[pd.UUID] = f.project(pd.AdvancementData)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scanCategory reads from the cached party and storage scan.
type scanCategory struct {
	pick func(scan.Result) map[string]float64
}

func (c scanCategory) scores(ctx context.Context, s *Service) (map[string]float64, error) {
	res, err := s.scans.Get(ctx)
	if err != nil {
		return nil, err
	}
	return c.pick(res), nil
}

func counter(get func(model.AdvancementData) int) fieldCategory {
	return fieldCategory{project: func(a model.AdvancementData) float64 { return float64(get(a)) }}
}

func eggsHatched(a model.AdvancementData) int { return a.TotalEggsHatched }

func captures(a model.AdvancementData) int { return a.TotalCaptureCount }

// categories dispatches every known category to its source.
var categories = map[scoring.Category]categorySource{ //nolint:gochecknoglobals // dispatch table
	scoring.Pokedex:  scanCategory{pick: scan.Result.SpeciesCounts},
	scoring.Shiny:    scanCategory{pick: scan.Result.ShinyCounts},
	scoring.Battles:  counter(model.AdvancementData.BattleWins),
	scoring.Eggs:     counter(eggsHatched),
	scoring.Breeders: counter(eggsHatched),
	scoring.Captures: counter(captures),
	scoring.Aspects:  counter(model.AdvancementData.AspectCount),
}

// KnownCategory reports whether name is a leaderboard category.
func KnownCategory(name string) bool {
	_, ok := categories[scoring.Category(name)]
	return ok
}

// categoryScores computes the raw scores of one category. Unknown
// categories yield an empty map.
func (s *Service) categoryScores(ctx context.Context, c scoring.Category) (map[string]float64, error) {
	src, ok := categories[c]
	if !ok {
		return map[string]float64{}, nil
	}
	start := time.Now()
	out, err := src.scores(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", c, err)
	}
	metrics.RecordCategoryScan(string(c), time.Since(start))
	return out, nil
}

// computeScan walks party and storage collections once and reduces them to
// species and shiny counts.
func (s *Service) computeScan(ctx context.Context) (scan.Result, error) {
	var (
		party []model.PartyDocument
		pcs   []model.PCDocument
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return eachDecoded(gctx, s, s.store.Party, decode.Party, func(d model.PartyDocument) {
			party = append(party, d)
		})
	})
	g.Go(func() error {
		return eachDecoded(gctx, s, s.store.PC, decode.PC, func(d model.PCDocument) {
			pcs = append(pcs, d)
		})
	})
	if err := g.Wait(); err != nil {
		return scan.Result{}, err
	}

	sc := scan.New()
	for _, d := range party {
		sc.AddParty(d)
	}
	for _, d := range pcs {
		sc.AddPC(d)
	}
	return sc.Result(), nil
}

// eachDecoded decodes every document of c and passes the usable ones to fn.
// Undecodable documents are skipped and counted; iteration errors abort.
func eachDecoded[T any](ctx context.Context, s *Service, c repository.Collection, dec func(model.Document) (T, error), fn func(T)) error {
	read := 0
	for doc, err := range c.ScanAll(ctx) {
		if err != nil {
			return fmt.Errorf("scan %s: %w", c.Name(), err)
		}
		read++
		v, err := dec(doc)
		if err != nil {
			reason := skipMalformed
			if errors.Is(err, decode.ErrMissingIdentity) {
				reason = skipMissingIdentity
			}
			metrics.RecordSkippedRecord(c.Name(), reason)
			s.logger.Debug(ctx, "skipping document",
				logger.String("collection", c.Name()),
				logger.String("reason", reason),
				logger.Error(err),
			)
			continue
		}
		fn(v)
	}
	metrics.RecordCollectionRead(c.Name(), read)
	return nil
}
