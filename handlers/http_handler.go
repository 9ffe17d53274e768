// Package handlers provides the HTTP request handlers for the catalog API:
// catalog queries, CSV export, product detail lookups, category aggregation,
// the company profile, the contact relay, and health reporting. Handlers are
// built with injected dependencies so they are testable without a server.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/larksois/catalog-api/catalog"
	"github.com/larksois/catalog-api/company"
	"github.com/larksois/catalog-api/extraction"
	"github.com/larksois/catalog-api/interfaces"
	"github.com/larksois/catalog-api/logging"
	"github.com/larksois/catalog-api/metrics"
	"github.com/larksois/catalog-api/productparser/entities"
	"github.com/larksois/catalog-api/state"
)

// relatedProductLimit caps the related-products strip on detail pages.
const relatedProductLimit = 6

// HTTPHandlerImpl bundles the injected collaborators for all endpoints.
type HTTPHandlerImpl struct {
	store     interfaces.ProductStore
	validator interfaces.DataValidator
	mailer    interfaces.Mailer
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a handler set with injected dependencies.
func NewHTTPHandler(store interfaces.ProductStore, validator interfaces.DataValidator,
	mailer interfaces.Mailer, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:     store,
		validator: validator,
		mailer:    mailer,
		health:    health,
	}
}

// RespondWithJSON writes a JSON response.
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response.
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// CatalogItem is one catalog row: the product plus its derived attributes,
// computed fresh for every response.
type CatalogItem struct {
	entities.Product
	Attributes extraction.Attributes `json:"attributes"`
}

// CatalogResponse is the catalog query result plus everything the product
// finder needs to render its controls.
type CatalogResponse struct {
	Items       []CatalogItem            `json:"items"`
	Page        int                      `json:"page"`
	PageSize    int                      `json:"pageSize"`
	TotalItems  int                      `json:"totalItems"`
	TotalPages  int                      `json:"totalPages"`
	QueryString string                   `json:"queryString"`
	Categories  []entities.CategoryCount `json:"categories"`
	DosageForms []string                 `json:"dosageForms"`
	Strengths   []string                 `json:"strengths"`
}

// ServeCatalog handles GET /products: filter, sort and paginate the catalog
// from URL query parameters. Malformed parameters coerce to defaults.
func (h *HTTPHandlerImpl) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	view := state.Decode(r.URL.Query())

	if err := h.validator.ValidateSearchInput(view.Filter.Query); err != nil {
		logging.Warn("Unusual search input rejected", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := catalog.Query(h.store.GetProducts(), view.Filter, view.Sort,
		catalog.PageSpec{Page: view.Page, PageSize: view.PageSize})

	items := make([]CatalogItem, 0, len(result.Items))
	for _, product := range result.Items {
		items = append(items, CatalogItem{Product: product, Attributes: extraction.Derive(product)})
	}

	// Echo back the canonical page so shared links match the clamped state.
	view.Page = result.Page

	filtered := view.Filter != catalog.DefaultFilter()
	metrics.CatalogQueryTotal.WithLabelValues(fmt.Sprintf("%t", filtered)).Inc()

	h.RespondWithJSON(w, http.StatusOK, CatalogResponse{
		Items:       items,
		Page:        result.Page,
		PageSize:    result.PageSize,
		TotalItems:  result.TotalCount,
		TotalPages:  result.TotalPages,
		QueryString: view.QueryString(),
		Categories:  h.store.GetCategoryCounts(),
		DosageForms: h.store.DosageFormOptions(),
		Strengths:   h.store.StrengthOptions(),
	})
}

// ExportCatalogCSV handles GET /products/export: the full filtered set in the
// requested sort order, never paginated, as a CSV download.
func (h *HTTPHandlerImpl) ExportCatalogCSV(w http.ResponseWriter, r *http.Request) {
	view := state.Decode(r.URL.Query())

	if err := h.validator.ValidateSearchInput(view.Filter.Query); err != nil {
		logging.Warn("Unusual search input rejected", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filtered := catalog.Filter(h.store.GetProducts(), view.Filter)
	catalog.Sort(filtered, view.Sort)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="pharmaceutical-products.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := catalog.WriteCSV(w, filtered); err != nil {
		// Headers are already sent; all we can do is log.
		logging.Error("CSV export failed mid-stream", "error", err)
		return
	}

	metrics.CatalogExportTotal.Inc()
}

// ProductDetailResponse is the full detail-page payload.
type ProductDetailResponse struct {
	Product     entities.Product      `json:"product"`
	Attributes  extraction.Attributes `json:"attributes"`
	FAQs        []entities.FAQ        `json:"faqs"`
	Related     []CatalogItem         `json:"related"`
	QuoteMailto string                `json:"quoteMailto"`
}

// ServeProductDetail handles GET /products/{slug}. An unknown slug is a
// normal not-found outcome, never a 5xx.
func (h *HTTPHandlerImpl) ServeProductDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing product slug")
		return
	}

	product, exists := h.store.GetProductBySlug(slug)
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	related := h.store.GetRelated(product, relatedProductLimit)
	relatedItems := make([]CatalogItem, 0, len(related))
	for _, item := range related {
		relatedItems = append(relatedItems, CatalogItem{Product: item, Attributes: extraction.Derive(item)})
	}

	h.RespondWithJSON(w, http.StatusOK, ProductDetailResponse{
		Product:     product,
		Attributes:  extraction.Derive(product),
		FAQs:        catalog.BuildProductFAQs(product),
		Related:     relatedItems,
		QuoteMailto: catalog.BuildQuoteMailto(product.Name),
	})
}

// ServeCategories handles GET /categories.
func (h *HTTPHandlerImpl) ServeCategories(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.store.GetCategoryCounts())
}

// ServeCompanyProfile handles GET /company.
func (h *HTTPHandlerImpl) ServeCompanyProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600") // 1 hour
	h.RespondWithJSON(w, http.StatusOK, company.Default)
}

// HandleContact handles POST /contact: validates the inquiry and relays it
// through the mailer. Failures surface to the submitter; nothing is retried
// or persisted.
func (h *HTTPHandlerImpl) HandleContact(w http.ResponseWriter, r *http.Request) {
	var inquiry entities.Inquiry

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&inquiry); err != nil {
		metrics.ContactInquiryTotal.WithLabelValues("rejected").Inc()
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reference, err := h.mailer.SendInquiry(r.Context(), inquiry)
	if err != nil {
		logging.Warn("Contact inquiry failed", "error", err)

		// Validation problems are the submitter's to fix; relay problems are
		// not, and they mean the inquiry is lost unless resubmitted.
		if isValidationError(err) {
			metrics.ContactInquiryTotal.WithLabelValues("rejected").Inc()
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		metrics.ContactInquiryTotal.WithLabelValues("failed").Inc()
		h.RespondWithError(w, http.StatusBadGateway,
			"Could not send your inquiry. Please try again or email us directly.")
		return
	}

	metrics.ContactInquiryTotal.WithLabelValues("relayed").Inc()
	h.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "sent",
		"reference": reference,
	})
}

// isValidationError reports whether the failure came from inquiry field
// validation rather than the relay itself.
func isValidationError(err error) bool {
	var fieldErrors validator.ValidationErrors
	return errors.As(err, &fieldErrors)
}

// HealthCheck handles GET /health with data status plus system statistics.
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, data, httpStatus := h.health.HealthCheck()
	uptime := time.Since(h.store.GetServerStartTime())

	response := map[string]interface{}{
		"status":         status,
		"uptime_seconds": uptime.Seconds(),
		"data":           data,
		"system": map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}
