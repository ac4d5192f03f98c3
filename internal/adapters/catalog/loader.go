// Package catalog loads product batch files and watches a directory
// for new ones, feeding them through the ingestion orchestrator.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

// productFile is the on-disk batch format, matching the HTTP ingestion
// body field for field.
type productFile struct {
	Code        string  `json:"codigo"`
	Image       string  `json:"imagen"`
	Description string  `json:"descripcion"`
	Features    string  `json:"caracteristicas"`
	SalePrice   float64 `json:"precio_venta"`
}

// LoadBatch reads a JSON file containing an array of products.
func LoadBatch(path string) ([]entities.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}

	var items []productFile
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding batch file %s: %w", path, err)
	}

	products := make([]entities.Product, len(items))
	for i, item := range items {
		products[i] = entities.Product{
			Code:        item.Code,
			Image:       item.Image,
			Description: item.Description,
			Features:    item.Features,
			SalePrice:   item.SalePrice,
		}
	}
	return products, nil
}
