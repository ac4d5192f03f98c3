// Package entities contains core business entities.
// These are pure domain objects with no knowledge of storage or transport.
package entities

import (
	"fmt"
	"time"
)

// Product is a catalog entry registered by a seller. Products are
// write-once: they are never updated or deleted after ingestion.
type Product struct {
	Code        string
	Image       string
	Description string
	Features    string
	SalePrice   float64
}

// ComposedText renders the canonical labelled text a product is chunked
// and embedded from.
func (p Product) ComposedText() string {
	return fmt.Sprintf(
		"Codigo: %s\nDescripcion: %s\nCaracteristicas: %s\nPrecio: %v",
		p.Code, p.Description, p.Features, p.SalePrice,
	)
}

// ChunkRecord is the unit of retrieval: a bounded text segment derived
// from a product's composed text, together with its embedding and the
// owning product code.
type ChunkRecord struct {
	ID          string // "{code}_{index}"
	ProductCode string
	Text        string
	Index       int
	Embedding   []float32
}

// ChunkID builds the deterministic chunk identifier for a product chunk.
func ChunkID(code string, index int) string {
	return fmt.Sprintf("%s_%d", code, index)
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleCustomer  Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in a per-phone conversation.
// Turns are append-only and ordered by arrival.
type ConversationTurn struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}
