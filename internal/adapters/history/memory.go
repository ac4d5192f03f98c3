// Package history provides the conversation history adapter
// implementing ports.HistoryStore.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

// InMemoryStore keeps per-phone conversation turns for the process
// lifetime. Underlying storage is unbounded; older turns are never
// evicted, which is an accepted limitation of this design. Reads are
// windowed by the caller.
type InMemoryStore struct {
	mu    sync.Mutex
	turns map[string][]entities.ConversationTurn
}

// NewInMemoryStore creates an empty history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		turns: make(map[string][]entities.ConversationTurn),
	}
}

// Append records one turn for the phone. Histories are created lazily
// on first message.
func (s *InMemoryStore) Append(_ context.Context, phone string, role entities.Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[phone] = append(s.turns[phone], entities.ConversationTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
	return nil
}

// Recent returns at most limit most-recent turns in insertion order.
// Unknown phones yield an empty slice.
func (s *InMemoryStore) Recent(_ context.Context, phone string, limit int) ([]entities.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.turns[phone]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]entities.ConversationTurn, len(all))
	copy(out, all)
	return out, nil
}
