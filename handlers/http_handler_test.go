package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/larksois/catalog-api/config"
	"github.com/larksois/catalog-api/data"
	"github.com/larksois/catalog-api/health"
	"github.com/larksois/catalog-api/mailer"
	"github.com/larksois/catalog-api/productparser/entities"
	"github.com/larksois/catalog-api/validation"
)

var testProducts = []entities.Product{
	{ID: 1, Slug: "paclitaxel-injection", Name: "Paclitaxel Injection", Category: "Oncology", DosageForm: "Injection", Strength: "100 mg", Details: "Paclitaxel BP liquid injection, vial of 16.7 ml"},
	{ID: 2, Slug: "letrozole-tablets", Name: "Letrozole Tablets", Category: "Oncology", DosageForm: "Tablet", Strength: "2.5 mg", Details: "Letrozole USP film coated tablets, pack of 3 x 10's"},
	{ID: 3, Slug: "etoposide-capsules", Name: "Etoposide Capsules", Category: "Oncology", DosageForm: "Capsule", Strength: "50 mg", Details: "Etoposide USP soft gelatin capsules, pack of 1 x 10's"},
	{ID: 4, Slug: "amoxicillin-capsules", Name: "Amoxicillin Capsules", Category: "Anti-Infective", DosageForm: "Capsule", Strength: "500 mg", Details: "Amoxicillin BP hard gelatin capsules, pack of 10 x 10's"},
}

var testContainer *data.ProductContainer

func TestMain(m *testing.M) {
	testContainer = data.NewProductContainer()

	slugMap := make(map[string]entities.Product, len(testProducts))
	for i := range testProducts {
		slugMap[testProducts[i].Slug] = testProducts[i]
	}
	testContainer.UpdateData(testProducts, slugMap)

	os.Exit(m.Run())
}

// newTestRouter wires the handlers over a chi router the way the server does,
// with the relay pointed at relayURL (empty disables it).
func newTestRouter(relayURL string) chi.Router {
	cfg := &config.Config{
		EmailJSServiceID:  "service_test",
		EmailJSTemplateID: "template_main",
		EmailJSPublicKey:  "public_key",
		EmailJSEndpoint:   relayURL,
	}
	if relayURL == "" {
		cfg = &config.Config{}
	}

	h := NewHTTPHandler(
		testContainer,
		validation.NewDataValidator(),
		mailer.NewEmailJSMailer(cfg),
		health.NewHealthChecker(testContainer),
	)

	router := chi.NewRouter()
	router.Get("/products", h.ServeCatalog)
	router.Get("/products/export", h.ExportCatalogCSV)
	router.Get("/products/{slug}", h.ServeProductDetail)
	router.Get("/categories", h.ServeCategories)
	router.Get("/company", h.ServeCompanyProfile)
	router.Post("/contact", h.HandleContact)
	router.Get("/health", h.HealthCheck)
	return router
}

func doRequest(t *testing.T, router chi.Router, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestServeCatalog(t *testing.T) {
	router := newTestRouter("")

	recorder := doRequest(t, router, http.MethodGet, "/products?category=Oncology&sort=strength&order=desc&limit=2", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var response CatalogResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if response.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", response.TotalItems)
	}
	if response.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", response.TotalPages)
	}
	if len(response.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(response.Items))
	}
	// Strength descending: "50 mg" > "2.5 mg" > "100 mg" in collated order.
	if response.Items[0].Slug != "etoposide-capsules" {
		t.Errorf("first item = %q, want etoposide-capsules", response.Items[0].Slug)
	}
	if response.Items[0].Attributes.FormulationType != "Soft Gelatin" {
		t.Errorf("derived attributes missing: %+v", response.Items[0].Attributes)
	}
	if len(response.Categories) == 0 || len(response.DosageForms) == 0 {
		t.Error("facet lists missing from catalog response")
	}
	if !strings.Contains(response.QueryString, "category=Oncology") {
		t.Errorf("query string not echoed: %q", response.QueryString)
	}
}

func TestServeCatalogClampsPage(t *testing.T) {
	router := newTestRouter("")

	recorder := doRequest(t, router, http.MethodGet, "/products?page=99", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var response CatalogResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if response.Page != 1 {
		t.Errorf("Page = %d, want clamp to 1", response.Page)
	}
	if strings.Contains(response.QueryString, "page=99") {
		t.Errorf("query string kept the unclamped page: %q", response.QueryString)
	}
}

func TestServeCatalogRejectsDangerousQuery(t *testing.T) {
	router := newTestRouter("")

	recorder := doRequest(t, router, http.MethodGet, "/products?q=%3Cscript%3Ealert(1)%3C/script%3E", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestExportCatalogCSV(t *testing.T) {
	router := newTestRouter("")

	recorder := doRequest(t, router, http.MethodGet, "/products/export?category=Oncology", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := recorder.Header().Get("Content-Disposition"); !strings.Contains(cd, "pharmaceutical-products.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	records, err := csv.NewReader(recorder.Body).ReadAll()
	if err != nil {
		t.Fatalf("export does not parse as CSV: %v", err)
	}
	// Header plus the 3 oncology products, never paginated.
	if len(records) != 4 {
		t.Errorf("expected 4 CSV records, got %d", len(records))
	}
}

func TestServeProductDetail(t *testing.T) {
	router := newTestRouter("")

	recorder := doRequest(t, router, http.MethodGet, "/products/letrozole-tablets", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var response ProductDetailResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if response.Product.Slug != "letrozole-tablets" {
		t.Errorf("product = %q", response.Product.Slug)
	}
	if response.Attributes.PackSize != "3 x 10's" {
		t.Errorf("pack size = %q, want 3 x 10's", response.Attributes.PackSize)
	}
	if len(response.FAQs) != 5 {
		t.Errorf("expected 5 FAQs, got %d", len(response.FAQs))
	}
	if len(response.Related) != 2 {
		t.Errorf("expected 2 related oncology products, got %d", len(response.Related))
	}
	if !strings.HasPrefix(response.QuoteMailto, "mailto:") {
		t.Errorf("quote mailto missing: %q", response.QuoteMailto)
	}
}

func TestServeProductDetailNotFound(t *testing.T) {
	router := newTestRouter("")

	recorder := doRequest(t, router, http.MethodGet, "/products/no-such-product", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("error response is not JSON: %v", err)
	}
	if body["message"] != "Product not found" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestServeCategories(t *testing.T) {
	router := newTestRouter("")

	recorder := doRequest(t, router, http.MethodGet, "/categories", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var counts []entities.CategoryCount
	if err := json.Unmarshal(recorder.Body.Bytes(), &counts); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(counts) != 2 || counts[0].Name != "Oncology" || counts[0].Count != 3 {
		t.Errorf("unexpected category counts: %+v", counts)
	}
}

func TestServeCompanyProfile(t *testing.T) {
	router := newTestRouter("")

	recorder := doRequest(t, router, http.MethodGet, "/company", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if cc := recorder.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age=3600") {
		t.Errorf("Cache-Control = %q", cc)
	}

	var profile map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &profile); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if profile["brand"] == "" {
		t.Error("brand missing from company profile")
	}
}

func TestHandleContact(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer relay.Close()

	router := newTestRouter(relay.URL)

	inquiry := map[string]string{
		"companyName":   "Acme Pharma Distributors",
		"contactPerson": "Jordan Reyes",
		"email":         "jordan@acmepharma.example",
		"phone":         "+1 555 010 2030",
		"country":       "Kenya",
		"requirements":  "Looking for 50,000 packs of letrozole tablets for the East African market.",
	}
	body, _ := json.Marshal(inquiry)

	recorder := doRequest(t, router, http.MethodPost, "/contact", body)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", recorder.Code, recorder.Body.String())
	}

	var response map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if response["status"] != "sent" || response["reference"] == "" {
		t.Errorf("unexpected confirmation: %v", response)
	}
}

func TestHandleContactRejectsBadSubmissions(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer relay.Close()

	router := newTestRouter(relay.URL)

	testCases := []struct {
		name     string
		body     string
		expected int
	}{
		{"Malformed JSON", `{"companyName":`, http.StatusBadRequest},
		{"Unknown field", `{"companyName":"A","unexpected":true}`, http.StatusBadRequest},
		{"Missing required fields", `{"companyName":"Acme"}`, http.StatusBadRequest},
		{
			"Invalid email",
			`{"companyName":"Acme","contactPerson":"J","email":"bad","phone":"12345678","country":"KE","requirements":"Need a full quotation for tablets."}`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(t, router, http.MethodPost, "/contact", []byte(tt.body))
			if recorder.Code != tt.expected {
				t.Errorf("status = %d, want %d, body: %s", recorder.Code, tt.expected, recorder.Body.String())
			}
		})
	}
}

func TestHandleContactRelayFailure(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "relay down", http.StatusServiceUnavailable)
	}))
	defer relay.Close()

	router := newTestRouter(relay.URL)

	inquiry := map[string]string{
		"companyName":   "Acme Pharma Distributors",
		"contactPerson": "Jordan Reyes",
		"email":         "jordan@acmepharma.example",
		"phone":         "+1 555 010 2030",
		"country":       "Kenya",
		"requirements":  "Looking for 50,000 packs of letrozole tablets for the East African market.",
	}
	body, _ := json.Marshal(inquiry)

	recorder := doRequest(t, router, http.MethodPost, "/contact", body)
	if recorder.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", recorder.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter("")

	recorder := doRequest(t, router, http.MethodGet, "/health", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
	if _, ok := response["system"]; !ok {
		t.Error("system statistics missing from health response")
	}
}
