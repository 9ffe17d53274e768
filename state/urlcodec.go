package state

import (
	"net/url"
	"strconv"

	"github.com/larksois/catalog-api/catalog"
)

// URL query parameter names. Absent parameters mean "use default"; defaults
// are never written back, keeping shared links minimal.
const (
	paramQuery      = "q"
	paramCategory   = "category"
	paramDosageForm = "form"
	paramStrength   = "strength"
	paramPageSize   = "limit"
	paramPage       = "page"
	paramSortField  = "sort"
	paramSortOrder  = "order"
)

// ViewState is the complete shareable catalog view: applied filters, sort and
// pagination. It round-trips through URL query parameters.
type ViewState struct {
	Filter   catalog.FilterSpec
	Sort     catalog.SortSpec
	Page     int
	PageSize int
}

// DefaultView returns the initial view state.
func DefaultView() ViewState {
	return ViewState{
		Filter:   catalog.DefaultFilter(),
		Sort:     catalog.DefaultSort(),
		Page:     1,
		PageSize: catalog.DefaultPageSize,
	}
}

// Encode serializes the non-default parts of the view into URL query values.
func (v ViewState) Encode() url.Values {
	params := url.Values{}

	if v.Filter.Query != "" {
		params.Set(paramQuery, v.Filter.Query)
	}
	if v.Filter.Category != catalog.Wildcard && v.Filter.Category != "" {
		params.Set(paramCategory, v.Filter.Category)
	}
	if v.Filter.DosageForm != catalog.Wildcard && v.Filter.DosageForm != "" {
		params.Set(paramDosageForm, v.Filter.DosageForm)
	}
	if v.Filter.Strength != catalog.Wildcard && v.Filter.Strength != "" {
		params.Set(paramStrength, v.Filter.Strength)
	}
	if v.PageSize != catalog.DefaultPageSize {
		params.Set(paramPageSize, strconv.Itoa(v.PageSize))
	}
	if v.Page != 1 {
		params.Set(paramPage, strconv.Itoa(v.Page))
	}
	if v.Sort.Field != catalog.SortByName {
		params.Set(paramSortField, string(v.Sort.Field))
	}
	if v.Sort.Direction != catalog.Ascending {
		params.Set(paramSortOrder, string(v.Sort.Direction))
	}

	return params
}

// QueryString returns the encoded view as a query string without the leading
// question mark.
func (v ViewState) QueryString() string {
	return v.Encode().Encode()
}

// Decode hydrates a view state from URL query values. Malformed or missing
// values coerce to their defaults rather than failing; a hand-edited URL must
// never break the catalog.
func Decode(params url.Values) ViewState {
	view := DefaultView()

	if q := params.Get(paramQuery); q != "" {
		view.Filter.Query = q
	}
	if category := params.Get(paramCategory); category != "" {
		view.Filter.Category = category
	}
	if form := params.Get(paramDosageForm); form != "" {
		view.Filter.DosageForm = form
	}
	if strength := params.Get(paramStrength); strength != "" {
		view.Filter.Strength = strength
	}

	if limit, err := strconv.Atoi(params.Get(paramPageSize)); err == nil && limit >= 1 {
		view.PageSize = limit
	}
	if page, err := strconv.Atoi(params.Get(paramPage)); err == nil && page >= 1 {
		view.Page = page
	}

	if field := catalog.SortField(params.Get(paramSortField)); catalog.ValidSortField(field) {
		view.Sort.Field = field
	}
	if order := params.Get(paramSortOrder); order == string(catalog.Descending) {
		view.Sort.Direction = catalog.Descending
	}

	return view
}
