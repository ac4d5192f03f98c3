package entities

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned when an ingestion call carries no products.
var ErrEmptyBatch = errors.New("la lista de productos está vacía")

// DuplicateCodeError rejects a whole ingestion batch because one of its
// product codes already exists (or appears twice within the batch).
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("el producto con código %s ya existe, debes quitarlo de la lista", e.Code)
}

// InvalidProductError rejects a batch containing a malformed product.
type InvalidProductError struct {
	Code   string
	Reason string
}

func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("producto inválido %q: %s", e.Code, e.Reason)
}

// GatewayError wraps a failed embedding or completion call. It aborts the
// current request only; no store state is mutated after one occurs.
type GatewayError struct {
	Op  string // "embed" or "complete"
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
