// Package repository reads player documents from the backing collections.
//
// Collections are read-only from this service's point of view. A document is
// returned as a plain map; typed decoding happens in package decode.
package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/okian/academy/internal/domain/model"
)

// Collection names, shared by the Mongo and fixture-file drivers.
const (
	PlayerDataCollection = "PlayerDataCollection"
	PartyCollection      = "PlayerPartyCollection"
	PCCollection         = "PCCollection"
)

// Store drivers.
const (
	DriverMongo = "mongo"
	DriverFile  = "file"
)

// Collection is a read-only keyed document collection.
type Collection interface {
	// Name returns the collection name.
	Name() string
	// FindOne returns the document for uuid or ErrNotFound.
	FindOne(ctx context.Context, uuid string) (model.Document, error)
	// ScanAll yields every document. Iteration stops at the first error.
	ScanAll(ctx context.Context) iter.Seq2[model.Document, error]
	// Count returns the number of documents.
	Count(ctx context.Context) (int, error)
}

// Store groups the three player collections.
type Store struct {
	Players Collection
	Party   Collection
	PC      Collection

	close func(context.Context) error
}

// NewStore builds a Store over arbitrary collections.
func NewStore(players, party, pc Collection) *Store {
	return &Store{Players: players, Party: party, PC: pc}
}

// Open connects to the configured driver.
func Open(ctx context.Context, driver string, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch driver {
	case DriverMongo:
		return openMongo(ctx, o)
	case DriverFile:
		return OpenFiles(o.fixturesDir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Close releases the underlying connection, if any.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Collections returns the three collections in a fixed order.
func (s *Store) Collections() []Collection {
	return []Collection{s.Players, s.Party, s.PC}
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
