// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tiendabot/salesrag-go/internal/chunker"
	"github.com/tiendabot/salesrag-go/internal/domain/entities"
	"github.com/tiendabot/salesrag-go/internal/domain/ports"
)

// IngestUseCase handles product catalog ingestion into the vector store.
type IngestUseCase struct {
	embedder     ports.EmbeddingGateway
	vectors      ports.VectorStore
	registry     ports.ProductRegistry
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
func NewIngestUseCase(
	embedder ports.EmbeddingGateway,
	vectors ports.VectorStore,
	registry ports.ProductRegistry,
	chunkSize, chunkOverlap int,
	logger *slog.Logger,
) *IngestUseCase {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultMaxSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = chunker.DefaultOverlap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestUseCase{
		embedder:     embedder,
		vectors:      vectors,
		registry:     registry,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Ingest registers a batch of products: validates, chunks each product's
// composed text, embeds all chunks in a single gateway call, and
// bulk-inserts the records. The whole batch is rejected on the first
// duplicate or invalid product, before any gateway call or store
// mutation. Returns the number of products ingested.
func (uc *IngestUseCase) Ingest(ctx context.Context, products []entities.Product) (int, error) {
	if len(products) == 0 {
		return 0, entities.ErrEmptyBatch
	}
	for _, p := range products {
		if p.Code == "" {
			return 0, &entities.InvalidProductError{Code: p.Code, Reason: "código vacío"}
		}
		if p.SalePrice < 0 {
			return 0, &entities.InvalidProductError{Code: p.Code, Reason: "precio de venta negativo"}
		}
	}

	// Claim every code up front. The claim is atomic per batch and is
	// rolled back if any later stage fails, so a rejected batch leaves
	// no partial state behind.
	if err := uc.registry.Reserve(ctx, products); err != nil {
		return 0, err
	}

	var (
		records []entities.ChunkRecord
		texts   []string
	)
	for _, p := range products {
		segments, err := chunker.Split(p.ComposedText(), uc.chunkSize, uc.chunkOverlap)
		if err != nil {
			uc.rollback(ctx, products)
			return 0, fmt.Errorf("chunking product %s: %w", p.Code, err)
		}
		for i, segment := range segments {
			records = append(records, entities.ChunkRecord{
				ID:          entities.ChunkID(p.Code, i),
				ProductCode: p.Code,
				Text:        segment,
				Index:       i,
			})
			texts = append(texts, segment)
		}
	}

	// One embedding call for the entire batch.
	embeddings, err := uc.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		uc.rollback(ctx, products)
		return 0, &entities.GatewayError{Op: "embed", Err: err}
	}
	if len(embeddings) != len(texts) {
		uc.rollback(ctx, products)
		return 0, &entities.GatewayError{
			Op:  "embed",
			Err: fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeddings)),
		}
	}
	for i := range records {
		records[i].Embedding = embeddings[i]
	}

	if err := uc.vectors.Add(ctx, records); err != nil {
		uc.rollback(ctx, products)
		return 0, fmt.Errorf("storing chunks: %w", err)
	}

	uc.logger.InfoContext(ctx, "catalog batch ingested",
		"batch_id", uuid.NewString(),
		"products", len(products),
		"chunks", len(records))

	return len(products), nil
}

func (uc *IngestUseCase) rollback(ctx context.Context, products []entities.Product) {
	codes := make([]string, len(products))
	for i, p := range products {
		codes[i] = p.Code
	}
	if err := uc.registry.Release(ctx, codes); err != nil {
		uc.logger.ErrorContext(ctx, "failed to release reserved product codes", "error", err)
	}
}
