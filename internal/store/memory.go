package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/placedex/placedex/pkg/errors"
	"github.com/placedex/placedex/pkg/places"
)

// Memory is an in-memory store for tests and dry runs. Like the import
// engine it backs, it is owned by a single run and needs no locking.
type Memory struct {
	byID       map[string]*places.Place
	byIdentity map[identity]string

	// FailWith, when set, is returned by every write. Tests use it to
	// exercise failure isolation in the importer.
	FailWith error
}

type identity struct {
	source places.Source
	detail string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:       make(map[string]*places.Place),
		byIdentity: make(map[identity]string),
	}
}

// FindByIdentity returns the place with the given identity.
func (m *Memory) FindByIdentity(_ context.Context, source places.Source, sourceDetail string) (*places.Place, error) {
	id, ok := m.byIdentity[identity{source, sourceDetail}]
	if !ok {
		return nil, errors.NewNotFoundError("place", sourceDetail)
	}
	copied := *m.byID[id]
	return &copied, nil
}

// Create inserts a new place, assigning a storage id when absent.
func (m *Memory) Create(_ context.Context, place *places.Place) (*places.Place, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	key := identity{place.Source, place.SourceDetail}
	if _, exists := m.byIdentity[key]; exists {
		return nil, errors.ErrAlreadyExists
	}

	copied := *place
	if copied.ID == "" {
		copied.ID = uuid.NewString()
	}
	m.byID[copied.ID] = &copied
	m.byIdentity[key] = copied.ID

	result := copied
	return &result, nil
}

// Update replaces the stored place with the given id.
func (m *Memory) Update(_ context.Context, id string, place *places.Place) (*places.Place, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	existing, ok := m.byID[id]
	if !ok {
		return nil, errors.NewNotFoundError("place", id)
	}
	delete(m.byIdentity, identity{existing.Source, existing.SourceDetail})

	copied := *place
	copied.ID = id
	m.byID[id] = &copied
	m.byIdentity[identity{copied.Source, copied.SourceDetail}] = id

	result := copied
	return &result, nil
}

// Count returns the number of stored places.
func (m *Memory) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error {
	return nil
}
