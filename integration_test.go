package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/larksois/catalog-api/config"
	"github.com/larksois/catalog-api/data"
	"github.com/larksois/catalog-api/handlers"
	"github.com/larksois/catalog-api/health"
	"github.com/larksois/catalog-api/mailer"
	"github.com/larksois/catalog-api/productparser"
	"github.com/larksois/catalog-api/validation"
)

// TestIntegrationCatalogPipeline loads the shipped product file through the
// real parser and serves it through the real handlers, end to end.
func TestIntegrationCatalogPipeline(t *testing.T) {
	validator := validation.NewDataValidator()
	parser := productparser.NewProductParser("data/products.json", validator)

	products, slugMap, err := parser.ParseProducts()
	if err != nil {
		t.Fatalf("failed to parse shipped product file: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("shipped product file is empty")
	}

	container := data.NewProductContainer()
	container.UpdateData(products, slugMap)

	h := handlers.NewHTTPHandler(container, validator,
		mailer.NewEmailJSMailer(&config.Config{}), health.NewHealthChecker(container))

	router := chi.NewRouter()
	router.Get("/products", h.ServeCatalog)
	router.Get("/products/export", h.ExportCatalogCSV)
	router.Get("/products/{slug}", h.ServeProductDetail)
	router.Get("/categories", h.ServeCategories)
	router.Get("/health", h.HealthCheck)

	endpoints := []struct {
		name     string
		path     string
		expected int
	}{
		{"Catalog first page", "/products", http.StatusOK},
		{"Catalog filtered", "/products?category=Oncology&sort=strength&order=desc", http.StatusOK},
		{"Catalog overflow page clamps", "/products?page=9999", http.StatusOK},
		{"CSV export", "/products/export", http.StatusOK},
		{"Known product detail", "/products/" + products[0].Slug, http.StatusOK},
		{"Unknown product detail", "/products/not-a-real-slug", http.StatusNotFound},
		{"Categories", "/categories", http.StatusOK},
		{"Health", "/health", http.StatusOK},
	}

	for _, tt := range endpoints {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != tt.expected {
				t.Errorf("GET %s = %d, want %d", tt.path, recorder.Code, tt.expected)
			}
		})
	}

	// Every shipped product must resolve attributes without panicking and the
	// detail payload must carry all derived sections.
	req := httptest.NewRequest(http.MethodGet, "/products/"+products[0].Slug, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var detail handlers.ProductDetailResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &detail); err != nil {
		t.Fatalf("detail payload does not parse: %v", err)
	}
	if detail.Attributes.PackSize == "" || detail.Attributes.CasID == "" {
		t.Errorf("derived attributes missing: %+v", detail.Attributes)
	}
	if len(detail.FAQs) != 5 {
		t.Errorf("expected 5 FAQs, got %d", len(detail.FAQs))
	}
}
