package api

import (
	"sort"
	"sync"

	"datakiln/domain/core"
	"datakiln/domain/table"
	"datakiln/internal/errors"
)

// StoredDataset pairs a dataset version with its handle and lineage.
// Because datasets are immutable, keeping every version is what makes
// undo possible: cleaning and transformation store a new version and
// leave the parent untouched.
type StoredDataset struct {
	ID        core.DatasetID `json:"id"`
	ParentID  core.DatasetID `json:"parent_id,omitempty"`
	Label     string         `json:"label"`
	CreatedAt core.Timestamp `json:"created_at"`
	Dataset   table.Dataset  `json:"-"`
}

// DatasetStore is an in-memory dataset registry keyed by handle. The
// engine itself is stateless; this store only serves the HTTP surface.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[core.DatasetID]StoredDataset
}

// NewDatasetStore creates an empty store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{datasets: make(map[core.DatasetID]StoredDataset)}
}

// Put registers a dataset version and returns its handle.
func (s *DatasetStore) Put(ds table.Dataset, parent core.DatasetID, label string) StoredDataset {
	stored := StoredDataset{
		ID:        core.DatasetID(core.NewID()),
		ParentID:  parent,
		Label:     label,
		CreatedAt: core.Now(),
		Dataset:   ds,
	}
	s.mu.Lock()
	s.datasets[stored.ID] = stored
	s.mu.Unlock()
	return stored
}

// Get looks a dataset version up by handle.
func (s *DatasetStore) Get(id core.DatasetID) (StoredDataset, error) {
	s.mu.RLock()
	stored, ok := s.datasets[id]
	s.mu.RUnlock()
	if !ok {
		return StoredDataset{}, errors.NotFound("dataset %q not found", id)
	}
	return stored, nil
}

// List returns all stored versions ordered by handle (UUIDv7 handles
// sort chronologically).
func (s *DatasetStore) List() []StoredDataset {
	s.mu.RLock()
	all := make([]StoredDataset, 0, len(s.datasets))
	for _, stored := range s.datasets {
		all = append(all, stored)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}
