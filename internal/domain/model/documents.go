// Package model contains the typed player documents passed between layers.
//
// Raw collection documents are decoded into these types once, at the
// collection boundary (see package decode). Field tags:
//   - doc: key in the stored document
//   - json: key in API responses (mirrors the stored key names)
package model

// Document layout constants.
const (
	// PartySize is the number of party slots a player carries.
	PartySize = 6
	// DefaultBoxCount is used when a storage document has no BoxCount.
	DefaultBoxCount = 50
	// MaxBoxCount bounds BoxCount; larger or negative values fall back to DefaultBoxCount.
	MaxBoxCount = 1000
	// DefaultFormID is the form of a creature without an explicit FormId.
	DefaultFormID = "normal"
	// DefaultScaleModifier is the scale of a creature without an explicit ScaleModifier.
	DefaultScaleModifier = 1.0
)

// Stats holds the six per-stat values used for IVs and EVs.
type Stats struct {
	HP             int `doc:"cobblemon:hp" json:"cobblemon:hp"`
	Attack         int `doc:"cobblemon:attack" json:"cobblemon:attack"`
	Defence        int `doc:"cobblemon:defence" json:"cobblemon:defence"`
	SpecialAttack  int `doc:"cobblemon:special_attack" json:"cobblemon:special_attack"`
	SpecialDefence int `doc:"cobblemon:special_defence" json:"cobblemon:special_defence"`
	Speed          int `doc:"cobblemon:speed" json:"cobblemon:speed"`
}

// Move is a single known move.
type Move struct {
	MoveName       string `doc:"MoveName" json:"MoveName"`
	MovePP         int    `doc:"MovePP" json:"MovePP"`
	RaisedPPStages int    `doc:"RaisedPPStages" json:"RaisedPPStages"`
}

// Ability is the creature's ability.
type Ability struct {
	AbilityName     string `doc:"AbilityName" json:"AbilityName"`
	AbilityIndex    int    `doc:"AbilityIndex" json:"AbilityIndex"`
	AbilityPriority string `doc:"AbilityPriority" json:"AbilityPriority,omitempty"`
}

// Pokemon is one creature instance held in a party or storage slot.
type Pokemon struct {
	Species         string  `doc:"Species" json:"Species" validate:"required"`
	Level           int     `doc:"Level" json:"Level" validate:"gte=0"`
	Experience      int     `doc:"Experience" json:"Experience" validate:"gte=0"`
	Gender          string  `doc:"Gender" json:"Gender"`
	Shiny           bool    `doc:"Shiny" json:"Shiny"`
	Nature          string  `doc:"Nature" json:"Nature"`
	Ability         Ability `doc:"Ability" json:"Ability"`
	IVs             Stats   `doc:"IVs" json:"IVs"`
	EVs             Stats   `doc:"EVs" json:"EVs"`
	MoveSet         []Move  `doc:"MoveSet" json:"MoveSet"`
	Health          int     `doc:"Health" json:"Health"`
	Friendship      int     `doc:"Friendship" json:"Friendship"`
	FormID          string  `doc:"FormId" json:"FormId"`
	TeraType        string  `doc:"TeraType" json:"TeraType,omitempty"`
	CaughtBall      string  `doc:"CaughtBall" json:"CaughtBall"`
	ScaleModifier   float64 `doc:"ScaleModifier" json:"ScaleModifier"`
	OriginalTrainer string  `doc:"PokemonOriginalTrainer" json:"PokemonOriginalTrainer,omitempty"`

	// Storage position, set only for creatures listed from a PC.
	BoxIndex  *int `doc:"-" json:"boxIndex,omitempty"`
	SlotIndex *int `doc:"-" json:"slotIndex,omitempty"`

	// Partial marks a creature whose species decoded but whose details did
	// not. Partial creatures count for scans but are not listed.
	Partial bool `doc:"-" json:"-"`
}

// PartySlot is an occupied party slot.
type PartySlot struct {
	Index   int
	Pokemon Pokemon
}

// PartyDocument is a player's active roster.
type PartyDocument struct {
	UUID  string
	Slots []PartySlot
}

// PCSlot is an occupied storage slot.
type PCSlot struct {
	Box     int
	Slot    int
	Pokemon Pokemon
}

// PCDocument is a player's storage, flattened to occupied slots ordered by
// box then slot.
type PCDocument struct {
	UUID     string
	BoxCount int
	Slots    []PCSlot
}

// AdvancementData holds the pre-computed progression counters of a player.
type AdvancementData struct {
	TotalCaptureCount          int                 `doc:"totalCaptureCount" json:"totalCaptureCount"`
	TotalShinyCaptureCount     int                 `doc:"totalShinyCaptureCount" json:"totalShinyCaptureCount"`
	TotalEggsCollected         int                 `doc:"totalEggsCollected" json:"totalEggsCollected"`
	TotalEggsHatched           int                 `doc:"totalEggsHatched" json:"totalEggsHatched"`
	TotalEvolvedCount          int                 `doc:"totalEvolvedCount" json:"totalEvolvedCount"`
	TotalBattleVictoryCount    int                 `doc:"totalBattleVictoryCount" json:"totalBattleVictoryCount"`
	TotalPvPBattleVictoryCount int                 `doc:"totalPvPBattleVictoryCount" json:"totalPvPBattleVictoryCount"`
	TotalPvWBattleVictoryCount int                 `doc:"totalPvWBattleVictoryCount" json:"totalPvWBattleVictoryCount"`
	TotalPvNBattleVictoryCount int                 `doc:"totalPvNBattleVictoryCount" json:"totalPvNBattleVictoryCount"`
	TotalTypeCaptureCounts     map[string]int      `doc:"totalTypeCaptureCounts" json:"totalTypeCaptureCounts"`
	AspectsCollected           map[string][]string `doc:"aspectsCollected" json:"aspectsCollected"`
}

// BattleWins sums PvP and PvN victories. The stored total is not used.
func (a AdvancementData) BattleWins() int {
	return a.TotalPvPBattleVictoryCount + a.TotalPvNBattleVictoryCount
}

// AspectCount is the number of species with at least one collected aspect entry.
func (a AdvancementData) AspectCount() int {
	return len(a.AspectsCollected)
}

// PlayerData is a player's progression document.
type PlayerData struct {
	UUID            string          `doc:"uuid" json:"uuid" validate:"required"`
	AdvancementData AdvancementData `doc:"advancementData" json:"advancementData"`
}

// Document is a raw, schemaless collection document.
type Document = map[string]any
