// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions, not concrete implementations;
// adapters implement them.
package ports

import (
	"context"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

// EmbeddingGateway converts a batch of texts into numeric vectors,
// one vector per input text, in input order.
type EmbeddingGateway interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionGateway produces a single-turn completion for a prompt.
// The model has no built-in memory; conversation history must be part
// of the prompt.
type CompletionGateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// VectorStore persists chunk records and supports full retrieval.
// Readers must observe either the pre- or post-add snapshot of a bulk
// add, never a torn state.
type VectorStore interface {
	// Add bulk-inserts records. All-or-nothing per call.
	Add(ctx context.Context, records []entities.ChunkRecord) error

	// GetAll returns every stored record.
	GetAll(ctx context.Context) ([]entities.ChunkRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}

// ProductRegistry owns products keyed by code.
type ProductRegistry interface {
	// Reserve atomically claims every code in the batch. If any code is
	// already present none are claimed and a DuplicateCodeError is
	// returned.
	Reserve(ctx context.Context, products []entities.Product) error

	// Release undoes a reservation after a downstream failure.
	Release(ctx context.Context, codes []string) error

	// Count returns the number of registered products.
	Count(ctx context.Context) (int, error)
}

// HistoryStore owns per-phone conversation history. Underlying storage
// is append-only and unbounded; reads are windowed by the caller.
type HistoryStore interface {
	// Append records one turn. Atomic per phone: concurrent appends for
	// the same phone must not lose either turn.
	Append(ctx context.Context, phone string, role entities.Role, content string) error

	// Recent returns at most limit most-recent turns in insertion
	// order. Unknown phones yield an empty slice.
	Recent(ctx context.Context, phone string, limit int) ([]entities.ConversationTurn, error)
}

// CatalogEvent signals a product batch file appearing in the watched
// catalog directory.
type CatalogEvent struct {
	Path string
}

// CatalogWatcher monitors a directory for dropped product batch files.
type CatalogWatcher interface {
	Watch(ctx context.Context, dir string) (<-chan CatalogEvent, error)
	Stop() error
}
