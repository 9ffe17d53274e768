package state

import (
	"sync"

	"github.com/larksois/catalog-api/catalog"
	"github.com/larksois/catalog-api/productparser/entities"
)

// Controller is the catalog view state machine. Draft filters track every
// input immediately; applied filters feed the query engine and update either
// through an explicit Apply or, for the free-text query, through the 500ms
// trailing-edge debounce. Every applied change is pushed to the onChange hook
// so the owner can reflect it in the address bar.
//
// The controller is session-scoped: one instance per interactive catalog
// view. It is safe for use from the debounce timer goroutine.
type Controller struct {
	mu sync.Mutex

	products []entities.Product
	draft    catalog.FilterSpec
	view     ViewState

	debouncer *Debouncer
	onChange  func(ViewState)
}

// NewController builds a controller hydrated from URL query values. A nil
// onChange disables URL pushes.
func NewController(products []entities.Product, initial ViewState, clock Clock, onChange func(ViewState)) *Controller {
	if clock == nil {
		clock = SystemClock
	}

	return &Controller{
		products:  products,
		draft:     initial.Filter,
		view:      initial,
		debouncer: NewDebouncer(clock, SearchDebounceDelay),
		onChange:  onChange,
	}
}

// notifyLocked pushes the current view to the onChange hook. Caller holds mu.
func (c *Controller) notifyLocked() {
	if c.onChange != nil {
		c.onChange(c.view)
	}
}

// scheduleCommitLocked arms or disarms the debounced query commit depending
// on whether the draft query diverges from the applied one. Caller holds mu.
func (c *Controller) scheduleCommitLocked() {
	if c.draft.Query == c.view.Filter.Query {
		c.debouncer.Cancel()
		return
	}

	pending := c.draft
	c.debouncer.Schedule(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.view.Filter = pending
		c.view.Page = 1
		c.notifyLocked()
	})
}

// SetQuery records a search keystroke in the draft. The applied filters
// follow after the debounce window of input inactivity.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Query = query
	c.scheduleCommitLocked()
}

// SetCategory records a category selection in the draft.
func (c *Controller) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Category = category
	c.scheduleCommitLocked()
}

// SetDosageForm records a dosage form selection in the draft.
func (c *Controller) SetDosageForm(form string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.DosageForm = form
	c.scheduleCommitLocked()
}

// SetStrength records a strength selection in the draft.
func (c *Controller) SetStrength(strength string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Strength = strength
	c.scheduleCommitLocked()
}

// Apply commits the draft filters immediately and resets to the first page.
func (c *Controller) Apply() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.debouncer.Cancel()
	c.view.Filter = c.draft
	c.view.Page = 1
	c.notifyLocked()
}

// Clear resets draft and applied filters, sort and page to their defaults.
// The chosen page size is kept.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.debouncer.Cancel()
	c.draft = catalog.DefaultFilter()
	c.view.Filter = c.draft
	c.view.Sort = catalog.DefaultSort()
	c.view.Page = 1
	c.notifyLocked()
}

// ToggleSort activates the column or flips its direction when it is already
// active. Sorting never resets the page.
func (c *Controller) ToggleSort(field catalog.SortField) {
	if !catalog.ValidSortField(field) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.Sort.Field == field {
		if c.view.Sort.Direction == catalog.Ascending {
			c.view.Sort.Direction = catalog.Descending
		} else {
			c.view.Sort.Direction = catalog.Ascending
		}
	} else {
		c.view.Sort = catalog.SortSpec{Field: field, Direction: catalog.Ascending}
	}

	c.notifyLocked()
}

// SetPage moves to the requested page. Out-of-range values are clamped when
// the results are computed, not here, so Next/Last stay simple for callers.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Page = page
	c.notifyLocked()
}

// SetPageSize changes the page size and resets to the first page.
func (c *Controller) SetPageSize(size int) {
	if size < 1 {
		size = catalog.DefaultPageSize
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.PageSize = size
	c.view.Page = 1
	c.notifyLocked()
}

// Snapshot returns the applied view state.
func (c *Controller) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Draft returns the draft filters as currently typed or selected.
func (c *Controller) Draft() catalog.FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Results runs the query engine over the applied view state.
func (c *Controller) Results() catalog.Result {
	c.mu.Lock()
	view := c.view
	products := c.products
	c.mu.Unlock()

	return catalog.Query(products, view.Filter,
		view.Sort, catalog.PageSpec{Page: view.Page, PageSize: view.PageSize})
}

// Close cancels any pending debounced commit.
func (c *Controller) Close() {
	c.debouncer.Cancel()
}
