// Package data provides thread-safe storage for the product snapshot. The
// ProductContainer uses atomic pointers so scheduled reloads swap the whole
// snapshot with zero downtime, and callers never observe a partial update.
package data

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/larksois/catalog-api/interfaces"
	"github.com/larksois/catalog-api/logging"
	"github.com/larksois/catalog-api/productparser/entities"
)

// Compile-time check to ensure ProductContainer implements ProductStore
var _ interfaces.ProductStore = (*ProductContainer)(nil)

// ProductContainer holds the product snapshot with atomic pointers for
// zero-downtime updates.
type ProductContainer struct {
	products        atomic.Value // []entities.Product
	slugMap         atomic.Value // map[string]entities.Product
	categoryCounts  atomic.Value // []entities.CategoryCount
	formOptions     atomic.Value // []string
	strengthOptions atomic.Value // []string
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewProductContainer creates a container with empty data.
func NewProductContainer() *ProductContainer {
	pc := &ProductContainer{}
	pc.products.Store(make([]entities.Product, 0))
	pc.slugMap.Store(make(map[string]entities.Product))
	pc.categoryCounts.Store(make([]entities.CategoryCount, 0))
	pc.formOptions.Store(make([]string, 0))
	pc.strengthOptions.Store(make([]string, 0))
	pc.lastUpdated.Store(time.Time{})
	pc.serverStartTime.Store(time.Time{})
	return pc
}

// Thread-safe getters with type check

// GetProducts returns the full product set in file order.
func (pc *ProductContainer) GetProducts() []entities.Product {
	if v := pc.products.Load(); v != nil {
		if products, ok := v.([]entities.Product); ok {
			return products
		}
	}

	logging.Warn("Product list is empty or invalid")
	return []entities.Product{}
}

// GetProductBySlug looks a product up by slug. A miss is a normal outcome
// that callers render as not-found, never an error.
func (pc *ProductContainer) GetProductBySlug(slug string) (entities.Product, bool) {
	if v := pc.slugMap.Load(); v != nil {
		if slugMap, ok := v.(map[string]entities.Product); ok {
			product, exists := slugMap[slug]
			return product, exists
		}
	}

	logging.Warn("Slug map is empty or invalid")
	return entities.Product{}, false
}

// GetCategoryCounts returns the category aggregation, descending by count.
func (pc *ProductContainer) GetCategoryCounts() []entities.CategoryCount {
	if v := pc.categoryCounts.Load(); v != nil {
		if counts, ok := v.([]entities.CategoryCount); ok {
			return counts
		}
	}

	logging.Warn("Category counts are empty or invalid")
	return []entities.CategoryCount{}
}

// GetRelated returns other products sharing the category, in file order,
// truncated to limit. No scoring beyond the category match.
func (pc *ProductContainer) GetRelated(product entities.Product, limit int) []entities.Product {
	if limit <= 0 {
		return []entities.Product{}
	}

	related := make([]entities.Product, 0, limit)
	for _, candidate := range pc.GetProducts() {
		if candidate.Slug == product.Slug || candidate.Category != product.Category {
			continue
		}
		related = append(related, candidate)
		if len(related) == limit {
			break
		}
	}

	return related
}

// DosageFormOptions returns the distinct non-empty dosage forms, sorted.
func (pc *ProductContainer) DosageFormOptions() []string {
	if v := pc.formOptions.Load(); v != nil {
		if options, ok := v.([]string); ok {
			return options
		}
	}

	logging.Warn("Dosage form options are empty or invalid")
	return []string{}
}

// StrengthOptions returns the distinct non-empty strengths, sorted.
func (pc *ProductContainer) StrengthOptions() []string {
	if v := pc.strengthOptions.Load(); v != nil {
		if options, ok := v.([]string); ok {
			return options
		}
	}

	logging.Warn("Strength options are empty or invalid")
	return []string{}
}

// GetLastUpdated returns the timestamp of the last snapshot swap.
func (pc *ProductContainer) GetLastUpdated() time.Time {
	if v := pc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true while a reload is in progress.
func (pc *ProductContainer) IsUpdating() bool {
	return pc.updating.Load()
}

// SetServerStartTime sets the server start time.
func (pc *ProductContainer) SetServerStartTime(startTime time.Time) {
	pc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time.
func (pc *ProductContainer) GetServerStartTime() time.Time {
	if v := pc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically swaps in a new product snapshot. The aggregations
// are computed once here so reads stay allocation-free.
func (pc *ProductContainer) UpdateData(products []entities.Product, slugMap map[string]entities.Product) {
	pc.products.Store(products)
	pc.slugMap.Store(slugMap)
	pc.categoryCounts.Store(buildCategoryCounts(products))
	pc.formOptions.Store(distinctSorted(products, func(p entities.Product) string { return p.DosageForm }))
	pc.strengthOptions.Store(distinctSorted(products, func(p entities.Product) string { return p.Strength }))
	pc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a reload. It returns false when another
// reload is already running.
func (pc *ProductContainer) BeginUpdate() bool {
	return pc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload.
func (pc *ProductContainer) EndUpdate() {
	pc.updating.Store(false)
}

// buildCategoryCounts groups products by category in a single pass and sorts
// descending by count. The sort is stable so tied categories keep their
// first-encountered order.
func buildCategoryCounts(products []entities.Product) []entities.CategoryCount {
	index := make(map[string]int, len(products))
	counts := make([]entities.CategoryCount, 0, len(products))

	for _, product := range products {
		if i, ok := index[product.Category]; ok {
			counts[i].Count++
			continue
		}
		index[product.Category] = len(counts)
		counts = append(counts, entities.CategoryCount{Name: product.Category, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	return counts
}

// distinctSorted collects the distinct non-empty values of a field, sorted
// ascending for the filter dropdowns.
func distinctSorted(products []entities.Product, field func(entities.Product) string) []string {
	seen := make(map[string]struct{}, len(products))
	values := make([]string, 0, len(products))

	for _, product := range products {
		value := field(product)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	sort.Strings(values)
	return values
}
