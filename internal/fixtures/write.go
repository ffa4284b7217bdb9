package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/academy/internal/adapters/repository"
	"github.com/okian/academy/internal/domain/model"
)

// File permission constants.
const (
	dirPermission  = 0o755
	filePermission = 0o644
)

// WriteDir writes the set as <dir>/<collection>.json, the layout read by the
// file store driver.
func (s Set) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	files := map[string][]model.Document{
		repository.PlayerDataCollection: s.Players,
		repository.PartyCollection:      s.Party,
		repository.PCCollection:         s.PC,
	}
	for name, docs := range files {
		raw, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		path := filepath.Join(dir, name+".json")
		if err := os.WriteFile(path, raw, filePermission); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
