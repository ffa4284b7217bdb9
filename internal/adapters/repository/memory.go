package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/academy/internal/domain/model"
)

const identityKey = "uuid"

// MemoryCollection holds documents in memory. Documents are keyed by their
// uuid field; later documents with the same uuid replace earlier ones.
// Documents without a uuid are kept so scans can see (and skip) them.
type MemoryCollection struct {
	name string

	mu    sync.RWMutex
	docs  []model.Document
	index map[string]int
}

var _ Collection = (*MemoryCollection)(nil)

// NewMemoryCollection creates a collection seeded with docs.
func NewMemoryCollection(name string, docs ...model.Document) *MemoryCollection {
	c := &MemoryCollection{name: name, index: make(map[string]int)}
	for _, d := range docs {
		c.Put(d)
	}
	return c
}

// Name returns the collection name.
func (c *MemoryCollection) Name() string { return c.name }

// Put inserts or replaces doc.
func (c *MemoryCollection) Put(doc model.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := doc[identityKey].(string)
	if !ok || id == "" {
		c.docs = append(c.docs, doc)
		return
	}
	if i, exists := c.index[id]; exists {
		c.docs[i] = doc
		return
	}
	c.index[id] = len(c.docs)
	c.docs = append(c.docs, doc)
}

// FindOne returns the document for uuid.
func (c *MemoryCollection) FindOne(ctx context.Context, uuid string) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[uuid]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", c.name, uuid, ErrNotFound)
	}
	return c.docs[i], nil
}

// ScanAll yields a snapshot of the collection.
func (c *MemoryCollection) ScanAll(ctx context.Context) iter.Seq2[model.Document, error] {
	c.mu.RLock()
	snapshot := make([]model.Document, len(c.docs))
	copy(snapshot, c.docs)
	c.mu.RUnlock()

	return func(yield func(model.Document, error) bool) {
		for _, d := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(d, nil) {
				return
			}
		}
	}
}

// Count returns the number of stored documents.
func (c *MemoryCollection) Count(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs), ctx.Err()
}

// LoadFile appends the documents of a JSON array file.
func (c *MemoryCollection) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var docs []model.Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	for _, d := range docs {
		if d != nil {
			c.Put(d)
		}
	}
	return nil
}

// OpenFiles loads <dir>/<collection>.json for each collection. Missing files
// yield empty collections.
func OpenFiles(dir string) (*Store, error) {
	cols := make([]*MemoryCollection, 0, 3)
	for _, name := range []string{PlayerDataCollection, PartyCollection, PCCollection} {
		c := NewMemoryCollection(name)
		err := c.LoadFile(filepath.Join(dir, name+".json"))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cols = append(cols, c)
	}
	return NewStore(cols[0], cols[1], cols[2]), nil
}

// NewMemoryStore returns a Store over three empty in-memory collections.
func NewMemoryStore() *Store {
	return NewStore(
		NewMemoryCollection(PlayerDataCollection),
		NewMemoryCollection(PartyCollection),
		NewMemoryCollection(PCCollection),
	)
}
