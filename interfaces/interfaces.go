// Package interfaces defines the core abstractions of the catalog API to
// keep the store, parser, scheduler and mail relay substitutable in tests.
package interfaces

import (
	"context"
	"time"

	"github.com/larksois/catalog-api/productparser/entities"
)

// DataQualityReport summarizes integrity issues found in a loaded product set.
type DataQualityReport struct {
	DuplicateIDs            []int
	DuplicateSlugs          []string
	ProductsWithoutCategory int
	ProductsWithoutDetails  int
	ProductsWithoutForm     int
	ProductsWithoutStrength int
}

// ProductStore provides thread-safe access to the product snapshot with
// atomic swaps for zero-downtime reloads. Within one snapshot the data is
// immutable; all views are computed.
type ProductStore interface {
	GetProducts() []entities.Product
	GetProductBySlug(slug string) (entities.Product, bool)
	GetCategoryCounts() []entities.CategoryCount
	GetRelated(product entities.Product, limit int) []entities.Product
	DosageFormOptions() []string
	StrengthOptions() []string

	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	SetServerStartTime(startTime time.Time)

	UpdateData(products []entities.Product, slugMap map[string]entities.Product)
	BeginUpdate() bool
	EndUpdate()
}

// Parser loads and validates the product data file.
type Parser interface {
	ParseProducts() ([]entities.Product, map[string]entities.Product, error)
}

// Scheduler manages the periodic snapshot reload and health monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// Mailer relays a contact inquiry to the transactional email provider and
// returns the inquiry reference handed back to the submitter.
type Mailer interface {
	SendInquiry(ctx context.Context, inquiry entities.Inquiry) (reference string, err error)
}

// DataValidator checks loaded products and user-supplied input.
type DataValidator interface {
	ValidateProduct(p *entities.Product) error
	ValidateDataIntegrity(products []entities.Product) error
	ReportDataQuality(products []entities.Product) *DataQualityReport
	ValidateSearchInput(input string) error
}

// HealthChecker reports the data-driven health of the service.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
}
