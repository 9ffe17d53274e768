// Package extraction derives display attributes from free-text product
// descriptions using ordered rule matching. Extraction never fails: when no
// rule matches, the functions return the Unknown sentinel so catalog rows
// always render.
package extraction

import (
	"regexp"
	"strings"

	"github.com/larksois/catalog-api/productparser/entities"
)

// Unknown is the display sentinel for attributes that could not be derived.
const Unknown = "--"

// pharmSpecRegex matches the closed set of pharmacopoeia codes found in
// product details. BP/USP must come before BP and USP so the combined token
// wins over its parts.
var pharmSpecRegex = regexp.MustCompile(`(?i)\b(BP/USP|BP|USP|INH|IP|IH)\b`)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// packSizePatterns is evaluated in order and the first match wins. Structural
// multiplier patterns come before single-unit mentions: "pack of 10 x 1's"
// must beat an earlier "10 mg". Reordering changes observable output.
var packSizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+\s*[xX]\s*\d+(?:\s*[xX]\s*\d+)?(?:\s*'?s)?)`),
	regexp.MustCompile(`(?i)(\d+\s*(?:ml|g|mg|mcg|tablet|cap|vial|ampoule|bottle|pouch|kit)s?)`),
	regexp.MustCompile(`(?i)(vial(?:\s*of)?\s*[^,.;]+)`),
	regexp.MustCompile(`(?i)(bottle(?:\s*of)?\s*[^,.;]+)`),
	regexp.MustCompile(`(?i)(ampoule(?:\s*of)?\s*[^,.;]+)`),
	regexp.MustCompile(`(?i)(pouch(?:\s*of)?\s*[^,.;]+)`),
	regexp.MustCompile(`(?i)(kit)`),
}

// formulationRule maps detail-text phrases to a formulation label. Rules are
// mutually exclusive by order: the first rule with any matching phrase wins.
type formulationRule struct {
	phrases []string
	label   string
}

// The two-letter triggers ("er ", "sr ", "ir ") are literal substrings and
// can fire inside unrelated words. That is a known limitation of the rule
// set, kept as-is for output compatibility.
var formulationRules = []formulationRule{
	{phrases: []string{"dry powder for injection"}, label: "Dry Powder For Injection"},
	{phrases: []string{"liquid injection"}, label: "Liquid Injection"},
	{phrases: []string{"film coated"}, label: "Film Coated"},
	{phrases: []string{"hard gelatin"}, label: "Hard Gelatin"},
	{phrases: []string{"soft gelatin"}, label: "Soft Gelatin"},
	{phrases: []string{"oral liquid"}, label: "Oral Liquid"},
	{phrases: []string{"extended release", "er "}, label: "Extended Release"},
	{phrases: []string{"sustained release", "sr "}, label: "Sustained Release"},
	{phrases: []string{"immediate release", "ir "}, label: "Immediate Release"},
	{phrases: []string{"effervescent"}, label: "Effervescent"},
	{phrases: []string{"chewable"}, label: "Chewable"},
	{phrases: []string{"orally disintegrating", "odt"}, label: "Orally Disintegrating"},
}

// casNumberRegex matches the CAS registry number shape. The number is treated
// as opaque structured text, not validated against the registry.
var casNumberRegex = regexp.MustCompile(`\b\d{2,7}-\d{2}-\d\b`)

// casLookupRule resolves a known substance name to its CAS registry number.
type casLookupRule struct {
	namePattern *regexp.Regexp
	cas         string
}

// casLookupRules is the static substance reference table used as the last
// resolution tier. The set is fixed domain data, not inferred from input.
var casLookupRules = []casLookupRule{
	{regexp.MustCompile(`(?i)\bcarboplatin\b`), "41575-94-4"},
	{regexp.MustCompile(`(?i)\bcisplatin\b`), "15663-27-1"},
	{regexp.MustCompile(`(?i)\bcyclophosphamide\b`), "6055-19-2"},
	{regexp.MustCompile(`(?i)\bdoxorubicin hydrochloride\b`), "25316-40-9"},
	{regexp.MustCompile(`(?i)\bepirubicin hydrochloride\b`), "56390-09-1"},
	{regexp.MustCompile(`(?i)\betoposide\b`), "33419-42-0"},
	{regexp.MustCompile(`(?i)\bfluorouracil\b`), "51-21-8"},
	{regexp.MustCompile(`(?i)\bifosfamide\b`), "3778-73-2"},
	{regexp.MustCompile(`(?i)\birinotecan hydrochloride\b`), "136572-09-3"},
	{regexp.MustCompile(`(?i)\bletrozole\b`), "112809-51-5"},
	{regexp.MustCompile(`(?i)\bmethotrexate\b`), "59-05-2"},
	{regexp.MustCompile(`(?i)\bpaclitaxel\b`), "33069-62-4"},
	{regexp.MustCompile(`(?i)\bvinblastine sulphate\b`), "143-67-9"},
	{regexp.MustCompile(`(?i)\bvincristine sulphate\b`), "2068-78-2"},
}

// normalizeSpec uppercases a pharmacopoeia token and strips internal
// whitespace so variants like "bp / usp" de-duplicate to one entry.
func normalizeSpec(spec string) string {
	return whitespaceRegex.ReplaceAllString(strings.ToUpper(spec), "")
}

// PharmSpec extracts all distinct pharmacopoeia specification codes from the
// details text, joined with ", " in first-seen order.
func PharmSpec(details string) string {
	matches := pharmSpecRegex.FindAllString(details, -1)
	if len(matches) == 0 {
		return Unknown
	}

	seen := make(map[string]struct{}, len(matches))
	var unique []string
	for _, match := range matches {
		normalized := normalizeSpec(match)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, normalized)
	}

	return strings.Join(unique, ", ")
}

// PackSize extracts the pack size from the details text using the ordered
// pattern list, returning the first matching pattern's capture group.
func PackSize(details string) string {
	for _, pattern := range packSizePatterns {
		if match := pattern.FindStringSubmatch(details); len(match) > 1 && match[1] != "" {
			return strings.TrimSpace(match[1])
		}
	}

	return Unknown
}

// FormulationType classifies the formulation from the details text. When no
// rule matches, the product's dosage form is used verbatim, then the sentinel.
func FormulationType(details, dosageForm string) string {
	text := strings.ToLower(details)

	for _, rule := range formulationRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(text, phrase) {
				return rule.label
			}
		}
	}

	if dosageForm != "" {
		return dosageForm
	}

	return Unknown
}

// CasID resolves the CAS registry number for a product with a three-tier
// fallback: the explicit field, CAS-shaped numbers found in the name and
// details, then the static substance lookup table.
func CasID(product entities.Product) string {
	if product.CasID != "" && product.CasID != Unknown {
		return product.CasID
	}

	source := product.Name + " " + product.Details

	if direct := casNumberRegex.FindAllString(source, -1); len(direct) > 0 {
		seen := make(map[string]struct{}, len(direct))
		var unique []string
		for _, cas := range direct {
			if _, ok := seen[cas]; ok {
				continue
			}
			seen[cas] = struct{}{}
			unique = append(unique, cas)
		}
		return strings.Join(unique, ", ")
	}

	for _, rule := range casLookupRules {
		if rule.namePattern.MatchString(source) {
			return rule.cas
		}
	}

	return Unknown
}

// Attributes bundles every derived display attribute for a product.
type Attributes struct {
	PackSize        string `json:"packSize"`
	FormulationType string `json:"formulationType"`
	CasID           string `json:"casId"`
	PharmSpec       string `json:"pharmSpec"`
}

// Derive computes all derived attributes for a product in one pass.
func Derive(product entities.Product) Attributes {
	return Attributes{
		PackSize:        PackSize(product.Details),
		FormulationType: FormulationType(product.Details, product.DosageForm),
		CasID:           CasID(product),
		PharmSpec:       PharmSpec(product.Details),
	}
}
