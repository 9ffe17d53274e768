package catalog

import (
	"fmt"
	"testing"

	"github.com/larksois/catalog-api/productparser/entities"
)

var testProducts = []entities.Product{
	{ID: 1, Slug: "paclitaxel", Name: "Paclitaxel Injection", Category: "Oncology", DosageForm: "Injection", Strength: "100 mg", Details: "Paclitaxel BP liquid injection"},
	{ID: 2, Slug: "letrozole", Name: "Letrozole Tablets", Category: "Oncology", DosageForm: "Tablet", Strength: "2.5 mg", Details: "Letrozole USP film coated tablets"},
	{ID: 3, Slug: "amoxicillin", Name: "Amoxicillin Capsules", Category: "Anti-Infective", DosageForm: "Capsule", Strength: "500 mg", Details: "Amoxicillin BP hard gelatin capsules"},
	{ID: 4, Slug: "azithromycin", Name: "Azithromycin Tablets", Category: "Anti-Infective", DosageForm: "Tablet", Strength: "500 mg", Details: "Azithromycin USP film coated tablets"},
	{ID: 5, Slug: "ors", Name: "Oral Rehydration Salts", Category: "Gastroenterology", DosageForm: "Powder", Strength: "", Details: "Oral rehydration salts IP pouch"},
}

func TestMatches(t *testing.T) {
	testCases := []struct {
		name     string
		product  entities.Product
		filter   FilterSpec
		expected bool
	}{
		{"Default filter matches everything", testProducts[4], DefaultFilter(), true},
		{"Wildcard category matches", testProducts[0], FilterSpec{Category: Wildcard, DosageForm: Wildcard, Strength: Wildcard}, true},
		{"Category mismatch", testProducts[0], FilterSpec{Category: "Anti-Infective", DosageForm: Wildcard, Strength: Wildcard}, false},
		{"Category match", testProducts[0], FilterSpec{Category: "Oncology", DosageForm: Wildcard, Strength: Wildcard}, true},
		{"Query matches name case-insensitively", testProducts[0], FilterSpec{Query: "PACLI", Category: Wildcard, DosageForm: Wildcard, Strength: Wildcard}, true},
		{"Query matches details", testProducts[2], FilterSpec{Query: "hard gelatin", Category: Wildcard, DosageForm: Wildcard, Strength: Wildcard}, true},
		{"Query is trimmed", testProducts[0], FilterSpec{Query: "  paclitaxel  ", Category: Wildcard, DosageForm: Wildcard, Strength: Wildcard}, true},
		{"Query with no match", testProducts[0], FilterSpec{Query: "does-not-exist", Category: Wildcard, DosageForm: Wildcard, Strength: Wildcard}, false},
		{"Empty strength never matched by query", testProducts[4], FilterSpec{Query: "salts", Category: Wildcard, DosageForm: Wildcard, Strength: Wildcard}, true},
		{"Conditions are AND-ed", testProducts[3], FilterSpec{Query: "tablets", Category: "Oncology", DosageForm: Wildcard, Strength: Wildcard}, false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.product, tt.filter); got != tt.expected {
				t.Errorf("Matches(%q, %+v) = %v, want %v", tt.product.Slug, tt.filter, got, tt.expected)
			}
		})
	}
}

func TestFilterPreservesInputOrder(t *testing.T) {
	filter := DefaultFilter()
	filter.DosageForm = "Tablet"

	filtered := Filter(testProducts, filter)

	if len(filtered) != 2 {
		t.Fatalf("expected 2 tablets, got %d", len(filtered))
	}
	if filtered[0].Slug != "letrozole" || filtered[1].Slug != "azithromycin" {
		t.Errorf("expected file order [letrozole azithromycin], got [%s %s]", filtered[0].Slug, filtered[1].Slug)
	}
}

func TestSortDirections(t *testing.T) {
	asc := make([]entities.Product, len(testProducts))
	copy(asc, testProducts)
	Sort(asc, SortSpec{Field: SortByName, Direction: Ascending})

	for i := 1; i < len(asc); i++ {
		if compareCollated(asc[i-1].Name, asc[i].Name) > 0 {
			t.Errorf("ascending sort out of order at %d: %q > %q", i, asc[i-1].Name, asc[i].Name)
		}
	}

	desc := make([]entities.Product, len(testProducts))
	copy(desc, testProducts)
	Sort(desc, SortSpec{Field: SortByName, Direction: Descending})

	// All names are distinct, so descending must be the exact reversal.
	for i := range asc {
		if desc[i].Slug != asc[len(asc)-1-i].Slug {
			t.Errorf("descending sort is not the reversal at %d: got %q, want %q",
				i, desc[i].Slug, asc[len(asc)-1-i].Slug)
		}
	}
}

func TestSortStability(t *testing.T) {
	products := make([]entities.Product, len(testProducts))
	copy(products, testProducts)

	// Both anti-infectives share strength "500 mg"; stable sort keeps their
	// input order.
	Sort(products, SortSpec{Field: SortByStrength, Direction: Ascending})

	amoxIdx, azithIdx := -1, -1
	for i, p := range products {
		switch p.Slug {
		case "amoxicillin":
			amoxIdx = i
		case "azithromycin":
			azithIdx = i
		}
	}
	if amoxIdx == -1 || azithIdx == -1 {
		t.Fatal("sorted set lost products")
	}
	if amoxIdx > azithIdx {
		t.Errorf("equal strength keys changed relative order: amoxicillin at %d, azithromycin at %d", amoxIdx, azithIdx)
	}
}

func TestSortInvalidFieldIsNoop(t *testing.T) {
	products := make([]entities.Product, len(testProducts))
	copy(products, testProducts)

	Sort(products, SortSpec{Field: SortField("bogus"), Direction: Ascending})

	for i := range products {
		if products[i].Slug != testProducts[i].Slug {
			t.Fatalf("invalid sort field reordered products at %d", i)
		}
	}
}

func TestPaginate(t *testing.T) {
	many := make([]entities.Product, 37)
	for i := range many {
		many[i] = entities.Product{ID: i + 1, Slug: fmt.Sprintf("p-%02d", i+1), Name: fmt.Sprintf("Product %02d", i+1)}
	}

	testCases := []struct {
		name          string
		page          PageSpec
		expectedLen   int
		expectedPages int
		expectedPage  int
		firstSlug     string
	}{
		{"First page", PageSpec{Page: 1, PageSize: 12}, 12, 4, 1, "p-01"},
		{"Middle page", PageSpec{Page: 2, PageSize: 12}, 12, 4, 2, "p-13"},
		{"Last page is partial", PageSpec{Page: 4, PageSize: 12}, 1, 4, 4, "p-37"},
		{"Overflow clamps to last", PageSpec{Page: 10, PageSize: 12}, 1, 4, 4, "p-37"},
		{"Zero page clamps to first", PageSpec{Page: 0, PageSize: 12}, 12, 4, 1, "p-01"},
		{"Invalid page size falls back to default", PageSpec{Page: 1, PageSize: 0}, 12, 4, 1, "p-01"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			items, totalPages, clampedPage := Paginate(many, tt.page)

			if len(items) != tt.expectedLen {
				t.Errorf("len(items) = %d, want %d", len(items), tt.expectedLen)
			}
			if totalPages != tt.expectedPages {
				t.Errorf("totalPages = %d, want %d", totalPages, tt.expectedPages)
			}
			if clampedPage != tt.expectedPage {
				t.Errorf("clampedPage = %d, want %d", clampedPage, tt.expectedPage)
			}
			if len(items) > 0 && items[0].Slug != tt.firstSlug {
				t.Errorf("first item = %q, want %q", items[0].Slug, tt.firstSlug)
			}
		})
	}
}

func TestPaginateEmptySet(t *testing.T) {
	items, totalPages, clampedPage := Paginate(nil, PageSpec{Page: 3, PageSize: 12})

	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
	if totalPages != 1 {
		t.Errorf("totalPages = %d, want 1", totalPages)
	}
	if clampedPage != 1 {
		t.Errorf("clampedPage = %d, want 1", clampedPage)
	}
}

func TestQueryPipeline(t *testing.T) {
	filter := DefaultFilter()
	filter.Category = "Anti-Infective"

	result := Query(testProducts, filter, SortSpec{Field: SortByName, Direction: Descending}, PageSpec{Page: 1, PageSize: 1})

	if result.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", result.TotalCount)
	}
	if result.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", result.TotalPages)
	}
	if len(result.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(result.Items))
	}
	if result.Items[0].Slug != "azithromycin" {
		t.Errorf("first item = %q, want %q", result.Items[0].Slug, "azithromycin")
	}
	if result.Page != 1 || result.PageSize != 1 {
		t.Errorf("Page/PageSize = %d/%d, want 1/1", result.Page, result.PageSize)
	}
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	before := make([]entities.Product, len(testProducts))
	copy(before, testProducts)

	Query(testProducts, DefaultFilter(), SortSpec{Field: SortByName, Direction: Descending}, DefaultPage())

	for i := range before {
		if testProducts[i].Slug != before[i].Slug {
			t.Fatalf("Query reordered the input slice at %d", i)
		}
	}
}
