package catalog

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/larksois/catalog-api/extraction"
	"github.com/larksois/catalog-api/productparser/entities"
)

// CSVHeader is the export header row. The last four columns are derived
// attributes computed fresh at export time.
var CSVHeader = []string{"Name", "Form", "Category", "Strength", "Pack Size", "Formulation Type", "CAS ID", "Pharm Spec"}

// WriteCSV writes the full filtered set (never paginated) as CSV. Fields are
// quoted and escaped by encoding/csv, so commas inside details-derived values
// cannot break rows.
func WriteCSV(w io.Writer, products []entities.Product) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, product := range products {
		form := product.DosageForm
		if form == "" {
			form = extraction.Unknown
		}
		strength := product.Strength
		if strength == "" {
			strength = extraction.Unknown
		}

		attrs := extraction.Derive(product)
		row := []string{
			product.Name,
			form,
			product.Category,
			strength,
			attrs.PackSize,
			attrs.FormulationType,
			attrs.CasID,
			attrs.PharmSpec,
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %q: %w", product.Slug, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
