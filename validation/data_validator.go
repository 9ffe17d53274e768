// Package validation provides data and input validation for the catalog API.
package validation

import (
	"fmt"
	"strings"

	"github.com/larksois/catalog-api/interfaces"
	"github.com/larksois/catalog-api/logging"
	"github.com/larksois/catalog-api/productparser/entities"
)

// Dangerous substrings rejected in user-supplied search input. Substring
// checks are cheaper than regex for a closed list like this.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "eval(", "expression(", "@import",
	"union select", "drop table", "delete from", "insert into", "--", "/*", "*/",
	"../", "..\\", "%2e%2e", "file://",
}

// maxSearchInputLength bounds free-text query length; anything longer is not
// a plausible product search.
const maxSearchInputLength = 200

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// Compile-time check to ensure DataValidatorImpl implements DataValidator
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateProduct checks the invariants a single product record must hold.
func (v *DataValidatorImpl) ValidateProduct(p *entities.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	if p.ID <= 0 {
		return fmt.Errorf("invalid product id: %d", p.ID)
	}

	if strings.TrimSpace(p.Slug) == "" {
		return fmt.Errorf("empty slug for product id %d", p.ID)
	}

	if strings.ContainsAny(p.Slug, " /?#%") {
		return fmt.Errorf("slug %q for product id %d is not URL-safe", p.Slug, p.ID)
	}

	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("empty name for product id %d", p.ID)
	}

	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("empty category for product id %d", p.ID)
	}

	if strings.TrimSpace(p.Details) == "" {
		return fmt.Errorf("empty details for product id %d", p.ID)
	}

	return nil
}

// ValidateDataIntegrity validates the whole product set and fails on any
// violation of the uniqueness invariants.
func (v *DataValidatorImpl) ValidateDataIntegrity(products []entities.Product) error {
	if len(products) == 0 {
		return fmt.Errorf("no products found")
	}

	for i := range products {
		if err := v.ValidateProduct(&products[i]); err != nil {
			return fmt.Errorf("product %d invalid: %w", i, err)
		}
	}

	report := v.ReportDataQuality(products)
	if len(report.DuplicateIDs) > 0 {
		return fmt.Errorf("found %d duplicate product ids: %v", len(report.DuplicateIDs), report.DuplicateIDs)
	}
	if len(report.DuplicateSlugs) > 0 {
		return fmt.Errorf("found %d duplicate slugs: %v", len(report.DuplicateSlugs), report.DuplicateSlugs)
	}

	return nil
}

// ReportDataQuality collects all data quality findings without failing.
// Duplicates are invariant violations; missing optional fields are only
// counted so loads can log them.
func (v *DataValidatorImpl) ReportDataQuality(products []entities.Product) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{}

	idCount := make(map[int]int, len(products))
	slugCount := make(map[string]int, len(products))

	for _, p := range products {
		idCount[p.ID]++
		slugCount[p.Slug]++

		if strings.TrimSpace(p.Category) == "" {
			report.ProductsWithoutCategory++
		}
		if strings.TrimSpace(p.Details) == "" {
			report.ProductsWithoutDetails++
		}
		if strings.TrimSpace(p.DosageForm) == "" {
			report.ProductsWithoutForm++
		}
		if strings.TrimSpace(p.Strength) == "" {
			report.ProductsWithoutStrength++
		}
	}

	for id, count := range idCount {
		if count > 1 {
			report.DuplicateIDs = append(report.DuplicateIDs, id)
		}
	}
	for slug, count := range slugCount {
		if count > 1 {
			report.DuplicateSlugs = append(report.DuplicateSlugs, slug)
		}
	}

	if len(report.DuplicateIDs) > 0 {
		logging.Error("Duplicate product ids detected", "count", len(report.DuplicateIDs), "ids", report.DuplicateIDs)
	}
	if len(report.DuplicateSlugs) > 0 {
		logging.Error("Duplicate slugs detected", "count", len(report.DuplicateSlugs), "slugs", report.DuplicateSlugs)
	}

	return report
}

// ValidateSearchInput rejects user search text that is too long or carries
// injection-shaped content. Extraction and filtering never evaluate input,
// so this is defense for the logs and any downstream consumer.
func (v *DataValidatorImpl) ValidateSearchInput(input string) error {
	if len(input) > maxSearchInputLength {
		return fmt.Errorf("search input too long: %d characters (max %d)", len(input), maxSearchInputLength)
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("search input contains disallowed sequence")
		}
	}

	return nil
}
