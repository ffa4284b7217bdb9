package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/academy/internal/adapters/repository"
	"github.com/okian/academy/internal/domain/decode"
	"github.com/okian/academy/internal/domain/model"
	"github.com/okian/academy/internal/domain/scan"
	"github.com/okian/academy/internal/domain/scoring"
	"github.com/okian/academy/internal/domain/types"
	"github.com/okian/academy/pkg/logger"
)

// findDecoded fetches one document and decodes it. A document that does not
// decode is reported as not found.
func findDecoded[T any](ctx context.Context, s *Service, c repository.Collection, uuid string, dec func(model.Document) (T, error)) (T, error) {
	var zero T
	doc, err := c.FindOne(ctx, uuid)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", c.Name(), uuid, err)
	}
	v, err := dec(doc)
	if err != nil {
		s.logger.Warn(ctx, "undecodable player document",
			logger.String("collection", c.Name()),
			logger.String("uuid", uuid),
			logger.Error(err),
		)
		return zero, fmt.Errorf("%s %s: %w", c.Name(), uuid, ErrNotFound)
	}
	return v, nil
}

// PlayerSummary returns a player's progression counters and display name.
func (s *Service) PlayerSummary(ctx context.Context, uuid string) (types.PlayerSummary, error) {
	pd, err := findDecoded(ctx, s, s.store.Players, uuid, decode.PlayerData)
	if err != nil {
		return types.PlayerSummary{}, err
	}
	adv := pd.AdvancementData
	if adv.TotalTypeCaptureCounts == nil {
		adv.TotalTypeCaptureCounts = map[string]int{}
	}
	if adv.AspectsCollected == nil {
		adv.AspectsCollected = map[string][]string{}
	}
	return types.PlayerSummary{
		UUID:            pd.UUID,
		Username:        s.resolver.ResolveDisplayName(ctx, uuid),
		AdvancementData: adv,
	}, nil
}

// PlayerParty lists the creatures in a player's party, in slot order.
func (s *Service) PlayerParty(ctx context.Context, uuid string) ([]model.Pokemon, error) {
	party, err := findDecoded(ctx, s, s.store.Party, uuid, decode.Party)
	if err != nil {
		return nil, err
	}
	out := make([]model.Pokemon, 0, len(party.Slots))
	for _, slot := range party.Slots {
		if slot.Pokemon.Partial {
			continue
		}
		out = append(out, slot.Pokemon)
	}
	return out, nil
}

// PlayerPC lists one page of a player's storage, ordered by box then slot.
// Filters apply before paging.
func (s *Service) PlayerPC(ctx context.Context, uuid string, q types.PCQuery) ([]model.Pokemon, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = types.DefaultPCPageSize
	}
	pc, err := findDecoded(ctx, s, s.store.PC, uuid, decode.PC)
	if err != nil {
		return nil, err
	}

	species := strings.ToLower(q.Species)
	matched := make([]model.Pokemon, 0, len(pc.Slots))
	for _, slot := range pc.Slots {
		p := slot.Pokemon
		if p.Partial || slot.Slot < 0 {
			continue
		}
		if q.Shiny != nil && p.Shiny != *q.Shiny {
			continue
		}
		if species != "" && !strings.Contains(strings.ToLower(p.Species), species) {
			continue
		}
		box, idx := slot.Box, slot.Slot
		p.BoxIndex, p.SlotIndex = &box, &idx
		matched = append(matched, p)
	}

	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return []model.Pokemon{}, nil
	}
	end := min(start+q.Limit, len(matched))
	return matched[start:end], nil
}

// PlayerPokedex summarizes the distinct species a player owns across party
// and storage. Missing documents count as empty.
func (s *Service) PlayerPokedex(ctx context.Context, uuid string) (types.PokedexStats, error) {
	party, err := s.optionalParty(ctx, uuid)
	if err != nil {
		return types.PokedexStats{}, err
	}
	pc, err := s.optionalPC(ctx, uuid)
	if err != nil {
		return types.PokedexStats{}, err
	}

	caught := len(scan.OwnedSpecies(party, pc))
	return types.PokedexStats{
		TotalSeen:            caught,
		TotalCaught:          caught,
		CompletionPercentage: scoring.Round2(float64(caught) / float64(s.totalSpecies) * 100),
	}, nil
}

func (s *Service) optionalParty(ctx context.Context, uuid string) (*model.PartyDocument, error) {
	doc, err := s.store.Party.FindOne(ctx, uuid)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("party %s: %w", uuid, err)
	}
	party, err := decode.Party(doc)
	if err != nil {
		return nil, nil //nolint:nilerr // undecodable counts as empty
	}
	return &party, nil
}

func (s *Service) optionalPC(ctx context.Context, uuid string) (*model.PCDocument, error) {
	doc, err := s.store.PC.FindOne(ctx, uuid)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pc %s: %w", uuid, err)
	}
	pc, err := decode.PC(doc)
	if err != nil {
		return nil, nil //nolint:nilerr // undecodable counts as empty
	}
	return &pc, nil
}
