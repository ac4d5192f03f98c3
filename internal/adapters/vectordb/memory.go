// Package vectordb provides vector store adapters implementing
// ports.VectorStore.
package vectordb

import (
	"context"
	"sync"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

// InMemoryStore keeps chunk records in process memory. Readers observe
// either the pre- or post-add snapshot of a bulk add, never a torn one.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []entities.ChunkRecord
}

// NewInMemoryStore creates an empty in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Add bulk-inserts records.
func (s *InMemoryStore) Add(_ context.Context, records []entities.ChunkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

// GetAll returns every stored record in insertion order.
func (s *InMemoryStore) GetAll(_ context.Context) ([]entities.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.ChunkRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Count returns the number of stored records.
func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
