package catalog

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/larksois/catalog-api/productparser/entities"
)

func TestWriteCSV(t *testing.T) {
	products := []entities.Product{
		{
			ID: 1, Slug: "letrozole", Name: "Letrozole Tablets", Category: "Oncology",
			DosageForm: "Tablet", Strength: "2.5 mg",
			Details: "Letrozole USP film coated tablets, pack of 3 x 10's",
			CasID:   "112809-51-5",
		},
		{
			ID: 2, Slug: "ors", Name: "Oral Rehydration Salts", Category: "Gastroenterology",
			DosageForm: "", Strength: "",
			Details: "Oral rehydration salts IP, pouch of 21.8 g",
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, products); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}

	header := strings.Join(records[0], "|")
	expectedHeader := "Name|Form|Category|Strength|Pack Size|Formulation Type|CAS ID|Pharm Spec"
	if header != expectedHeader {
		t.Errorf("header = %q, want %q", header, expectedHeader)
	}

	letrozole := records[1]
	if letrozole[0] != "Letrozole Tablets" || letrozole[1] != "Tablet" || letrozole[3] != "2.5 mg" {
		t.Errorf("unexpected letrozole row: %v", letrozole)
	}
	if letrozole[4] != "3 x 10's" {
		t.Errorf("pack size = %q, want %q", letrozole[4], "3 x 10's")
	}
	if letrozole[5] != "Film Coated" {
		t.Errorf("formulation = %q, want %q", letrozole[5], "Film Coated")
	}
	if letrozole[6] != "112809-51-5" {
		t.Errorf("cas id = %q, want %q", letrozole[6], "112809-51-5")
	}

	// Missing form and strength render as the display sentinel.
	ors := records[2]
	if ors[1] != "--" || ors[3] != "--" {
		t.Errorf("expected sentinel form and strength, got %q and %q", ors[1], ors[3])
	}
}

func TestWriteCSVEscapesCommas(t *testing.T) {
	products := []entities.Product{
		{
			ID: 1, Slug: "carboplatin", Name: "Carboplatin Injection", Category: "Oncology",
			DosageForm: "Injection", Strength: "450 mg/45 ml",
			Details: "Carboplatin USP liquid injection, vial of 45 ml, BP grade",
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, products); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}

	// Two pharmacopoeia codes join with ", "; the comma inside the field must
	// not split the row.
	if len(records[1]) != len(CSVHeader) {
		t.Fatalf("row has %d fields, want %d", len(records[1]), len(CSVHeader))
	}
	if records[1][7] != "USP, BP" {
		t.Errorf("pharm spec = %q, want %q", records[1][7], "USP, BP")
	}
}

func TestWriteCSVDeterministic(t *testing.T) {
	products := []entities.Product{
		{ID: 1, Slug: "a", Name: "Alpha", Category: "Oncology", DosageForm: "Tablet", Strength: "10 mg", Details: "film coated tablets, pack of 1 x 10's"},
		{ID: 2, Slug: "b", Name: "Beta", Category: "Oncology", DosageForm: "Injection", Strength: "20 mg", Details: "liquid injection, vial of 5 ml"},
	}

	var first, second bytes.Buffer
	if err := WriteCSV(&first, products); err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if err := WriteCSV(&second, products); err != nil {
		t.Fatalf("second export failed: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("identical input produced different CSV output")
	}
}
