// Package productparser loads and validates the product catalog from its
// JSON data file. The file is the only persistent input of the service; a
// parsed snapshot is handed to the data container and never mutated.
package productparser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/larksois/catalog-api/interfaces"
	"github.com/larksois/catalog-api/logging"
	"github.com/larksois/catalog-api/productparser/entities"
)

// Compile-time check to ensure ProductParser implements Parser
var _ interfaces.Parser = (*ProductParser)(nil)

// ProductParser reads product records from a JSON file.
type ProductParser struct {
	path      string
	validator interfaces.DataValidator
}

// NewProductParser creates a parser for the given data file path.
func NewProductParser(path string, validator interfaces.DataValidator) *ProductParser {
	return &ProductParser{path: path, validator: validator}
}

// ParseProducts reads, decodes and validates the product file. It returns
// the records in file order plus the slug lookup map. Any integrity failure
// rejects the whole snapshot so a bad deploy cannot half-replace the data.
func (p *ProductParser) ParseProducts() ([]entities.Product, map[string]entities.Product, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read product file %s: %w", p.path, err)
	}

	var products []entities.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, nil, fmt.Errorf("failed to decode product file %s: %w", p.path, err)
	}

	if err := p.validator.ValidateDataIntegrity(products); err != nil {
		return nil, nil, fmt.Errorf("product data integrity check failed: %w", err)
	}

	report := p.validator.ReportDataQuality(products)
	if report.ProductsWithoutForm > 0 {
		logging.Info("Products without dosage form", "count", report.ProductsWithoutForm)
	}
	if report.ProductsWithoutStrength > 0 {
		logging.Info("Products without strength", "count", report.ProductsWithoutStrength)
	}

	slugMap := make(map[string]entities.Product, len(products))
	for i := range products {
		slugMap[products[i].Slug] = products[i]
	}

	return products, slugMap, nil
}
