// Package registry provides the product registry adapter implementing
// ports.ProductRegistry.
package registry

import (
	"context"
	"sync"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

// InMemoryRegistry keys products by code under a single mutex, making
// the batch check-then-insert atomic with respect to concurrent
// ingestion calls.
type InMemoryRegistry struct {
	mu       sync.Mutex
	products map[string]entities.Product
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		products: make(map[string]entities.Product),
	}
}

// Reserve atomically claims every code in the batch. A code already
// registered, or repeated within the batch, rejects the whole batch
// with a DuplicateCodeError naming it; nothing is claimed.
func (r *InMemoryRegistry) Reserve(_ context.Context, products []entities.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := r.products[p.Code]; ok {
			return &entities.DuplicateCodeError{Code: p.Code}
		}
		if _, ok := seen[p.Code]; ok {
			return &entities.DuplicateCodeError{Code: p.Code}
		}
		seen[p.Code] = struct{}{}
	}
	for _, p := range products {
		r.products[p.Code] = p
	}
	return nil
}

// Release undoes a reservation after a downstream failure.
func (r *InMemoryRegistry) Release(_ context.Context, codes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range codes {
		delete(r.products, code)
	}
	return nil
}

// Count returns the number of registered products.
func (r *InMemoryRegistry) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), nil
}
