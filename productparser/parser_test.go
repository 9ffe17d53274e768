package productparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/larksois/catalog-api/validation"
)

func TestParseProducts(t *testing.T) {
	parser := NewProductParser(filepath.Join("testdata", "products.json"), validation.NewDataValidator())

	products, slugMap, err := parser.ParseProducts()
	if err != nil {
		t.Fatalf("ParseProducts failed: %v", err)
	}

	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if len(slugMap) != 3 {
		t.Fatalf("expected 3 slug entries, got %d", len(slugMap))
	}

	// File order is preserved.
	if products[0].Slug != "paclitaxel-injection-100mg" || products[2].Slug != "ors-powder-sachet" {
		t.Errorf("file order not preserved: %q ... %q", products[0].Slug, products[2].Slug)
	}

	letrozole, ok := slugMap["letrozole-tablets-2-5mg"]
	if !ok {
		t.Fatal("slug map missing letrozole")
	}
	if letrozole.CasID != "112809-51-5" || letrozole.DosageForm != "Tablet" {
		t.Errorf("unexpected letrozole record: %+v", letrozole)
	}
}

func TestParseProductsMissingFile(t *testing.T) {
	parser := NewProductParser(filepath.Join("testdata", "does-not-exist.json"), validation.NewDataValidator())

	if _, _, err := parser.ParseProducts(); err == nil {
		t.Error("missing file must fail")
	}
}

func TestParseProductsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`[{"id": 1,`), 0o644); err != nil {
		t.Fatal(err)
	}

	parser := NewProductParser(path, validation.NewDataValidator())
	if _, _, err := parser.ParseProducts(); err == nil {
		t.Error("malformed JSON must fail")
	}
}

func TestParseProductsRejectsDuplicateSlugs(t *testing.T) {
	parser := NewProductParser(filepath.Join("testdata", "duplicate_slugs.json"), validation.NewDataValidator())

	if _, _, err := parser.ParseProducts(); err == nil {
		t.Error("duplicate slugs must reject the whole snapshot")
	}
}
