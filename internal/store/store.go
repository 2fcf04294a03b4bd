// Package store provides the persistence layer for the place catalog: a
// read-then-write upsert interface with sqlite and in-memory backends.
//
// The interface itself is not safe against interleaved writers; the sqlite
// backend closes that gap with a UNIQUE(source, source_detail) constraint
// so concurrent imports fail cleanly instead of duplicating identities.
package store

import (
	"context"

	"github.com/placedex/placedex/pkg/places"
)

// Store is the upsert interface the importer persists places through.
type Store interface {
	// FindByIdentity returns the place with the given identity, or
	// errors.ErrNotFound when no such place exists.
	FindByIdentity(ctx context.Context, source places.Source, sourceDetail string) (*places.Place, error)

	// Create inserts a new place and returns it with its storage id set.
	Create(ctx context.Context, place *places.Place) (*places.Place, error)

	// Update replaces the stored place with the given id.
	Update(ctx context.Context, id string, place *places.Place) (*places.Place, error)

	// Count returns the number of persisted places.
	Count(ctx context.Context) (int, error)

	// Close releases the backing resources.
	Close() error
}
