// Package health provides health checking functionality for the catalog API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/larksois/catalog-api/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store interfaces.ProductStore
}

// NewHealthChecker creates a health checker over the product store.
func NewHealthChecker(store interfaces.ProductStore) *HealthCheckerImpl {
	return &HealthCheckerImpl{store: store}
}

// HealthCheck reports data-driven health. The snapshot reloads daily, so a
// snapshot older than two days means reloads are failing.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	products := h.store.GetProducts()
	categories := h.store.GetCategoryCounts()
	lastUpdate := h.store.GetLastUpdated()
	isUpdating := h.store.IsUpdating()

	dataAge := time.Since(lastUpdate)

	switch {
	case len(products) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"products":       len(products),
		"categories":     len(categories),
		"is_updating":    isUpdating,
	}

	return status, data, httpStatus
}
