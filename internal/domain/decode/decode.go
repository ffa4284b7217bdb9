// Package decode turns raw collection documents into typed model records.
//
// This is the only place that inspects document shape. Unusable slots are
// dropped here so the scanners downstream never see partial records; a
// document without a player identity is rejected as a whole.
package decode

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/okian/academy/internal/domain/model"
)

const (
	identityKey = "uuid"
	slotPrefix  = "Slot"
	boxPrefix   = "Box"
	boxCountKey = "BoxCount"
	tagName     = "doc"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// core is the minimum a slot needs to take part in scans.
type core struct {
	Species string `doc:"Species"`
	Shiny   bool   `doc:"Shiny"`
}

func into(input any, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tagName,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return d.Decode(input)
}

// Identity returns the player identity of doc, or ErrMissingIdentity.
func Identity(doc model.Document) (string, error) {
	if doc == nil {
		return "", ErrMissingIdentity
	}
	id, ok := doc[identityKey].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", ErrMissingIdentity
	}
	return id, nil
}

// PlayerData decodes a progression document.
func PlayerData(doc model.Document) (model.PlayerData, error) {
	id, err := Identity(doc)
	if err != nil {
		return model.PlayerData{}, err
	}
	var pd model.PlayerData
	if err := into(doc, &pd); err != nil {
		return model.PlayerData{}, fmt.Errorf("%w: player %s: %v", ErrMalformed, id, err)
	}
	if err := validate.Struct(pd); err != nil {
		return model.PlayerData{}, fmt.Errorf("%w: player %s: %v", ErrMalformed, id, err)
	}
	return pd, nil
}

// Pokemon decodes a single slot value. It reports false when the value is
// not a document or has no species.
func Pokemon(raw any) (model.Pokemon, bool) {
	m, ok := raw.(map[string]any)
	if !ok || len(m) == 0 {
		return model.Pokemon{}, false
	}
	var c core
	if err := into(m, &c); err != nil || strings.TrimSpace(c.Species) == "" {
		return model.Pokemon{}, false
	}

	var p model.Pokemon
	if err := into(m, &p); err != nil || validate.Struct(p) != nil {
		return model.Pokemon{Species: c.Species, Shiny: c.Shiny, FormID: model.DefaultFormID, ScaleModifier: model.DefaultScaleModifier, Partial: true}, true
	}
	if p.FormID == "" {
		p.FormID = model.DefaultFormID
	}
	if _, set := m["ScaleModifier"]; !set {
		p.ScaleModifier = model.DefaultScaleModifier
	}
	return p, true
}

// Party decodes a party document. Empty or unusable slots are skipped.
func Party(doc model.Document) (model.PartyDocument, error) {
	id, err := Identity(doc)
	if err != nil {
		return model.PartyDocument{}, err
	}
	party := model.PartyDocument{UUID: id}
	for i := 0; i < model.PartySize; i++ {
		p, ok := Pokemon(doc[slotPrefix+strconv.Itoa(i)])
		if !ok {
			continue
		}
		party.Slots = append(party.Slots, model.PartySlot{Index: i, Pokemon: p})
	}
	return party, nil
}

// PC decodes a storage document. Boxes beyond BoxCount are ignored.
func PC(doc model.Document) (model.PCDocument, error) {
	id, err := Identity(doc)
	if err != nil {
		return model.PCDocument{}, err
	}
	count := model.DefaultBoxCount
	if v, set := doc[boxCountKey]; set {
		if n, ok := toInt(v); ok && n >= 0 && n <= model.MaxBoxCount {
			count = n
		}
	}
	pc := model.PCDocument{UUID: id, BoxCount: count}
	for _, b := range boxIndexes(doc, count) {
		box, ok := doc[boxPrefix+strconv.Itoa(b)].(map[string]any)
		if !ok || len(box) == 0 {
			continue
		}
		pc.Slots = append(pc.Slots, boxSlots(b, box)...)
	}
	return pc, nil
}

// boxIndexes lists the Box<n> keys present in doc with n < count, ascending.
func boxIndexes(doc model.Document, count int) []int {
	var idx []int
	for key := range doc {
		if !strings.HasPrefix(key, boxPrefix) || key == boxCountKey {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(key, boxPrefix))
		if err != nil || n < 0 || n >= count || key != boxPrefix+strconv.Itoa(n) {
			continue
		}
		idx = append(idx, n)
	}
	sort.Ints(idx)
	return idx
}

func boxSlots(b int, box map[string]any) []model.PCSlot {
	slots := make([]model.PCSlot, 0, len(box))
	for key, raw := range box {
		if !strings.HasPrefix(key, slotPrefix) {
			continue
		}
		p, ok := Pokemon(raw)
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(key, slotPrefix))
		if err != nil {
			// counted by scans, never listed
			idx = -1
			p.Partial = true
		}
		slots = append(slots, model.PCSlot{Box: b, Slot: idx, Pokemon: p})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Slot < slots[j].Slot })
	return slots
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}
