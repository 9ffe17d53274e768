// Package catalog implements the product query engine: filtering, sorting,
// pagination and CSV export over the immutable product set, plus the derived
// display content (FAQs, quotation mailto) for detail pages.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/larksois/catalog-api/productparser/entities"
)

// Wildcard disables filtering on a dimension.
const Wildcard = "All"

// DefaultPageSize is the catalog page size when none is requested.
const DefaultPageSize = 12

// FilterSpec selects the visible subset of the catalog. All active conditions
// are AND-ed; Wildcard dimensions and an empty query match everything.
type FilterSpec struct {
	Query      string
	Category   string
	DosageForm string
	Strength   string
}

// DefaultFilter returns the unfiltered spec.
func DefaultFilter() FilterSpec {
	return FilterSpec{
		Category:   Wildcard,
		DosageForm: Wildcard,
		Strength:   Wildcard,
	}
}

// SortField names a sortable product column.
type SortField string

const (
	SortByName       SortField = "name"
	SortByCategory   SortField = "category"
	SortByDosageForm SortField = "dosageForm"
	SortByStrength   SortField = "strength"
)

// ValidSortField reports whether field names a sortable column.
func ValidSortField(field SortField) bool {
	switch field {
	case SortByName, SortByCategory, SortByDosageForm, SortByStrength:
		return true
	}
	return false
}

// SortDirection is asc or desc.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortSpec is the single active sort column and direction.
type SortSpec struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort returns the initial sort: name ascending.
func DefaultSort() SortSpec {
	return SortSpec{Field: SortByName, Direction: Ascending}
}

// PageSpec is the requested page window. Page is clamped during Query, so
// out-of-range values from URLs are not an error.
type PageSpec struct {
	Page     int
	PageSize int
}

// DefaultPage returns the first page at the default size.
func DefaultPage() PageSpec {
	return PageSpec{Page: 1, PageSize: DefaultPageSize}
}

// Result is one visible page of the catalog plus the totals needed to render
// pagination controls.
type Result struct {
	Items      []entities.Product
	TotalCount int
	TotalPages int
	Page       int
	PageSize   int
}

// The collator is not safe for concurrent use, so comparisons are serialized.
// The catalog is small enough that this has never shown up in profiles.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English)
)

// compareCollated compares two strings with locale-aware ordering.
func compareCollated(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// Matches reports whether a product satisfies every active filter condition.
func Matches(product entities.Product, filter FilterSpec) bool {
	if filter.Category != Wildcard && filter.Category != "" && product.Category != filter.Category {
		return false
	}
	if filter.DosageForm != Wildcard && filter.DosageForm != "" && product.DosageForm != filter.DosageForm {
		return false
	}
	if filter.Strength != Wildcard && filter.Strength != "" && product.Strength != filter.Strength {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	if q == "" {
		return true
	}

	return strings.Contains(strings.ToLower(product.Name), q) ||
		strings.Contains(strings.ToLower(product.Details), q) ||
		strings.Contains(strings.ToLower(product.Category), q) ||
		strings.Contains(strings.ToLower(product.DosageForm), q) ||
		(product.Strength != "" && strings.Contains(strings.ToLower(product.Strength), q))
}

// Filter returns the products satisfying the spec, in input order.
func Filter(products []entities.Product, filter FilterSpec) []entities.Product {
	filtered := make([]entities.Product, 0, len(products))
	for _, product := range products {
		if Matches(product, filter) {
			filtered = append(filtered, product)
		}
	}
	return filtered
}

// sortKey picks the compared field value. Missing values compare as empty
// strings rather than being special-cased.
func sortKey(product entities.Product, field SortField) string {
	switch field {
	case SortByName:
		return product.Name
	case SortByCategory:
		return product.Category
	case SortByDosageForm:
		return product.DosageForm
	case SortByStrength:
		return product.Strength
	}
	return ""
}

// Sort orders products by the spec, in place. The sort is stable: equal keys
// keep their relative input order, and descending is the exact negation of
// the ascending comparator so ties behave identically under reversal.
func Sort(products []entities.Product, spec SortSpec) {
	if !ValidSortField(spec.Field) {
		return
	}

	sort.SliceStable(products, func(i, j int) bool {
		cmp := compareCollated(sortKey(products[i], spec.Field), sortKey(products[j], spec.Field))
		if spec.Direction == Descending {
			cmp = -cmp
		}
		return cmp < 0
	})
}

// Paginate slices one page out of the filtered set. The requested page is
// clamped to [1, totalPages]; totalPages is at least 1 even when empty.
func Paginate(filtered []entities.Product, page PageSpec) (items []entities.Product, totalPages, clampedPage int) {
	pageSize := page.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	totalPages = (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	clampedPage = page.Page
	if clampedPage < 1 {
		clampedPage = 1
	}
	if clampedPage > totalPages {
		clampedPage = totalPages
	}

	start := (clampedPage - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], totalPages, clampedPage
}

// Query runs the full filter, sort, paginate pipeline and returns the visible
// page with its totals.
func Query(products []entities.Product, filter FilterSpec, sortSpec SortSpec, page PageSpec) Result {
	filtered := Filter(products, filter)
	Sort(filtered, sortSpec)

	pageSize := page.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	items, totalPages, clampedPage := Paginate(filtered, PageSpec{Page: page.Page, PageSize: pageSize})

	return Result{
		Items:      items,
		TotalCount: len(filtered),
		TotalPages: totalPages,
		Page:       clampedPage,
		PageSize:   pageSize,
	}
}
