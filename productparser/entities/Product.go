// Package entities defines the data structures shared across the catalog API.
package entities

// Product is a single catalog entry as loaded from the product data file.
// The record set is immutable after loading; every display attribute beyond
// these fields is derived on demand from Details and DosageForm.
type Product struct {
	ID         int    `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	DosageForm string `json:"dosageForm"`
	Strength   string `json:"strength"`
	Details    string `json:"details"`
	CasID      string `json:"casId"`
}

// CategoryCount is one entry of the category aggregation, ordered by
// descending product count.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FAQ is a generated question/answer pair shown on product detail pages.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
