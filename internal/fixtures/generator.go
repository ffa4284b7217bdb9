package fixtures

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/academy/internal/adapters/repository"
	"github.com/okian/academy/internal/domain/model"
	"github.com/okian/academy/pkg/logger"
)

// Constants for counter generation ranges.
const (
	maxCaptures     = 900
	maxEggs         = 120
	maxBattleWins   = 400
	maxEvolutions   = 150
	maxLevel        = 100
	maxIV           = 31
	maxEVTotalShare = 85
	maxFriendship   = 255
	maxAspects      = 12
	maxMoves        = 4
)

var species = []string{ //nolint:gochecknoglobals // fixture vocabulary
	"bulbasaur", "ivysaur", "charmander", "charmeleon", "squirtle", "wartortle",
	"caterpie", "weedle", "pidgey", "rattata", "spearow", "ekans", "pikachu",
	"sandshrew", "nidoran", "clefairy", "vulpix", "jigglypuff", "zubat", "oddish",
	"paras", "venonat", "diglett", "meowth", "psyduck", "mankey", "growlithe",
	"poliwag", "abra", "machop", "bellsprout", "tentacool", "geodude", "ponyta",
	"slowpoke", "magnemite", "doduo", "seel", "grimer", "shellder", "gastly",
	"onix", "drowzee", "krabby", "voltorb", "exeggcute", "cubone", "koffing",
	"rhyhorn", "chansey", "tangela", "horsea", "goldeen", "staryu", "scyther",
	"magikarp", "lapras", "ditto", "eevee", "porygon", "omanyte", "kabuto",
	"aerodactyl", "snorlax", "dratini", "chikorita", "cyndaquil", "totodile",
	"mareep", "togepi", "riolu", "gible", "ralts", "larvitar", "bagon",
}

var natures = []string{ //nolint:gochecknoglobals // fixture vocabulary
	"cobblemon:adamant", "cobblemon:bold", "cobblemon:calm", "cobblemon:jolly",
	"cobblemon:modest", "cobblemon:timid", "cobblemon:hardy", "cobblemon:careful",
}

var pokemonTypes = []string{ //nolint:gochecknoglobals // fixture vocabulary
	"normal", "fire", "water", "grass", "electric", "ice", "fighting", "poison",
	"ground", "flying", "psychic", "bug", "rock", "ghost", "dragon", "fairy",
}

var balls = []string{ //nolint:gochecknoglobals // fixture vocabulary
	"cobblemon:poke_ball", "cobblemon:great_ball", "cobblemon:ultra_ball", "cobblemon:premier_ball",
}

// Set is one generated snapshot of the three collections.
type Set struct {
	Players []model.Document
	Party   []model.Document
	PC      []model.Document
}

// Store loads the set into an in-memory store.
func (s Set) Store() *repository.Store {
	return repository.NewStore(
		repository.NewMemoryCollection(repository.PlayerDataCollection, s.Players...),
		repository.NewMemoryCollection(repository.PartyCollection, s.Party...),
		repository.NewMemoryCollection(repository.PCCollection, s.PC...),
	)
}

type generator struct {
	cfg Config
	rng *rand.Rand
	src *rand.ChaCha8
}

// Generate builds a Set from cfg. The same Config always yields the same Set.
func Generate(ctx context.Context, cfg Config) (Set, error) {
	cfg = cfg.withDefaults()
	var seed [32]byte
	copy(seed[:], strconv.FormatUint(cfg.Seed, 16))
	src := rand.NewChaCha8(seed)
	g := &generator{cfg: cfg, rng: rand.New(src), src: src}

	logger.Get().Info(ctx, "generating fixtures",
		logger.Int("players", cfg.Players),
		logger.Int("boxes", cfg.Boxes),
	)

	set := Set{
		Players: make([]model.Document, 0, cfg.Players),
		Party:   make([]model.Document, 0, cfg.Players),
		PC:      make([]model.Document, 0, cfg.Players),
	}
	for i := 0; i < cfg.Players; i++ {
		if err := ctx.Err(); err != nil {
			return Set{}, fmt.Errorf("context cancelled during generation: %w", err)
		}
		id, err := uuid.NewRandomFromReader(g.src)
		if err != nil {
			return Set{}, fmt.Errorf("player %d id: %w", i, err)
		}
		set.Players = append(set.Players, g.playerDoc(id.String()))
		set.Party = append(set.Party, g.partyDoc(id.String()))
		set.PC = append(set.PC, g.pcDoc(id.String()))
	}

	if cfg.MalformedRate > 0 {
		set.Players = append(set.Players, model.Document{"advancementData": map[string]any{}})
		set.Party = append(set.Party, model.Document{"Slot0": g.pokemon()})
	}

	logger.Get().Info(ctx, "generated fixtures", logger.Int("players", len(set.Players)))
	return set, nil
}

func (g *generator) chance(p float64) bool {
	return g.rng.Float64() < p
}

func (g *generator) pick(from []string) string {
	return from[g.rng.IntN(len(from))]
}

func (g *generator) playerDoc(id string) model.Document {
	typeCounts := map[string]any{}
	for _, t := range pokemonTypes {
		if g.chance(0.5) {
			typeCounts[t] = g.rng.IntN(maxCaptures / len(pokemonTypes))
		}
	}
	aspects := map[string]any{}
	for n := g.rng.IntN(maxAspects); n > 0; n-- {
		aspects[g.pick(species)] = []any{"shiny"}
	}
	captures := g.rng.IntN(maxCaptures)
	eggs := g.rng.IntN(maxEggs)
	pvp := g.rng.IntN(maxBattleWins)
	pvn := g.rng.IntN(maxBattleWins)
	pvw := g.rng.IntN(maxBattleWins)
	return model.Document{
		"uuid": id,
		"advancementData": map[string]any{
			"totalCaptureCount":          captures,
			"totalShinyCaptureCount":     g.rng.IntN(captures/50 + 1),
			"totalEggsCollected":         eggs + g.rng.IntN(maxEggs/4+1),
			"totalEggsHatched":           eggs,
			"totalEvolvedCount":          g.rng.IntN(maxEvolutions),
			"totalBattleVictoryCount":    pvp + pvn + pvw,
			"totalPvPBattleVictoryCount": pvp,
			"totalPvWBattleVictoryCount": pvw,
			"totalPvNBattleVictoryCount": pvn,
			"totalTypeCaptureCounts":     typeCounts,
			"aspectsCollected":           aspects,
		},
	}
}

func (g *generator) stats(maxEach int) map[string]any {
	return map[string]any{
		"cobblemon:hp":              g.rng.IntN(maxEach + 1),
		"cobblemon:attack":          g.rng.IntN(maxEach + 1),
		"cobblemon:defence":         g.rng.IntN(maxEach + 1),
		"cobblemon:special_attack":  g.rng.IntN(maxEach + 1),
		"cobblemon:special_defence": g.rng.IntN(maxEach + 1),
		"cobblemon:speed":           g.rng.IntN(maxEach + 1),
	}
}

func (g *generator) pokemon() map[string]any {
	moves := make([]any, 0, maxMoves)
	for n := 1 + g.rng.IntN(maxMoves); n > 0; n-- {
		moves = append(moves, map[string]any{"MoveName": "tackle", "MovePP": 35, "RaisedPPStages": 0})
	}
	level := 1 + g.rng.IntN(maxLevel)
	p := map[string]any{
		"Species":    g.pick(species),
		"Level":      level,
		"Experience": level * level * level,
		"Gender":     []string{"MALE", "FEMALE", "GENDERLESS"}[g.rng.IntN(3)],
		"Shiny":      g.chance(g.cfg.ShinyRate),
		"Nature":     g.pick(natures),
		"Ability":    map[string]any{"AbilityName": "overgrow", "AbilityIndex": 0},
		"IVs":        g.stats(maxIV),
		"EVs":        g.stats(maxEVTotalShare),
		"MoveSet":    moves,
		"Health":     level * 3,
		"Friendship": g.rng.IntN(maxFriendship + 1),
		"CaughtBall": g.pick(balls),
	}
	if g.chance(0.2) {
		p["FormId"] = "alolan"
	}
	return p
}

// slot returns a creature, or an unusable value at MalformedRate.
func (g *generator) slot() any {
	if !g.chance(g.cfg.MalformedRate) {
		return g.pokemon()
	}
	switch g.rng.IntN(3) {
	case 0:
		return map[string]any{}
	case 1:
		return map[string]any{"Species": ""}
	default:
		return "corrupt"
	}
}

func (g *generator) partyDoc(id string) model.Document {
	doc := model.Document{"uuid": id}
	for i := 0; i < model.PartySize; i++ {
		if g.chance(0.75) {
			doc["Slot"+strconv.Itoa(i)] = g.slot()
		}
	}
	return doc
}

func (g *generator) pcDoc(id string) model.Document {
	doc := model.Document{"uuid": id, "BoxCount": g.cfg.Boxes}
	for b := 0; b < g.cfg.Boxes; b++ {
		n := g.rng.IntN(g.cfg.MaxPerBox + 1)
		if n == 0 {
			continue
		}
		box := map[string]any{}
		for _, s := range g.rng.Perm(30)[:min(n, 30)] {
			box["Slot"+strconv.Itoa(s)] = g.slot()
		}
		doc["Box"+strconv.Itoa(b)] = box
	}
	return doc
}
