// Package scheduler provides automated catalog reloads and health monitoring
// for the catalog API. It handles cron-based snapshot refreshes and
// coordinates them with the product store using dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/larksois/catalog-api/interfaces"
	"github.com/larksois/catalog-api/logging"
	"github.com/larksois/catalog-api/validation"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles catalog reloads and health monitoring using dependency injection
type Scheduler struct {
	store     interfaces.ProductStore
	parser    interfaces.Parser
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(store interfaces.ProductStore, parser interfaces.Parser) *Scheduler {
	return &Scheduler{
		store:     store,
		parser:    parser,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial catalog load and schedules daily reloads.
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.reloadCatalog(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	// Reload once a day; the data file changes rarely
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.reloadCatalog(); err != nil {
			logging.Error("Failed to reload catalog", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule reloads", "error", err)
		return fmt.Errorf("failed to schedule reloads: %w", err)
	}

	s.scheduler.StartAsync()

	// Start health monitoring
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reloadCatalog parses the data file and swaps the snapshot in. On any
// failure the previous snapshot stays live.
func (s *Scheduler) reloadCatalog() error {
	// Prevent concurrent reloads
	if !s.store.BeginUpdate() {
		logging.Info("Reload already in progress, skipping...")
		return nil
	}
	defer s.store.EndUpdate()

	logging.Info(fmt.Sprintf("Starting catalog reload at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	newProducts, newSlugMap, err := s.parser.ParseProducts()
	if err != nil {
		logging.Error("Failed to parse products", "error", err)
		return fmt.Errorf("failed to parse products: %w", err)
	}

	validator := validation.NewDataValidator()
	report := validator.ReportDataQuality(newProducts)

	if len(report.DuplicateIDs) > 0 {
		logging.Warn("Duplicate product IDs detected",
			"total", len(report.DuplicateIDs),
			"id_list", report.DuplicateIDs,
		)
	}

	if len(report.DuplicateSlugs) > 0 {
		logging.Warn("Duplicate product slugs detected",
			"total", len(report.DuplicateSlugs),
			"slug_list", report.DuplicateSlugs,
		)
	}

	if report.ProductsWithoutDetails > 0 {
		logging.Warn("Products without details", "count", report.ProductsWithoutDetails)
	}

	// Atomic swap (zero downtime replacement)
	s.store.UpdateData(newProducts, newSlugMap)

	elapsed := time.Since(start)
	logging.Info("Catalog reload completed", "duration", elapsed.String(), "product_count", len(newProducts))

	return nil
}

// startHealthMonitoring monitors the freshness of the catalog snapshot
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.store.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Catalog hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
