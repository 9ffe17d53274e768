package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/larksois/catalog-api/company"
	"github.com/larksois/catalog-api/productparser/entities"
)

// BuildProductFAQs generates the fixed question set shown on a product detail
// page, interpolating the product name and category.
func BuildProductFAQs(product entities.Product) []entities.FAQ {
	name := product.Name
	if name == "" {
		name = "this product"
	}
	category := product.Category
	if category == "" {
		category = "therapeutic"
	}

	return []entities.FAQ{
		{
			Question: fmt.Sprintf("Can I request quotation for %s?", name),
			Answer: "Yes. Use the Get Quote button on this page or contact form to " +
				"submit quantity, destination country, and company details for pricing review.",
		},
		{
			Question: "Is online checkout available on this website?",
			Answer: "No. This is a B2B inquiry portal only. Commercial terms, availability, " +
				"and documentation are shared through direct communication.",
		},
		{
			Question: fmt.Sprintf("What information should I share for %s products?", category),
			Answer: "Share required strength, dosage form, estimated quantity, target market, " +
				"and preferred pack type. This helps us provide accurate quotation support.",
		},
		{
			Question: "Can I ask for regulatory or technical documents?",
			Answer: "Yes. Mention your documentation need in the inquiry email and the team " +
				"will guide based on product and market requirements.",
		},
		{
			Question: "How quickly will I get a response?",
			Answer: "Initial response is usually shared within business timelines after inquiry " +
				"receipt, followed by quotation discussion based on product scope.",
		},
	}
}

// BuildQuoteMailto builds the mailto link used by the Get Quote button.
func BuildQuoteMailto(productName string) string {
	if productName == "" {
		productName = "Product Inquiry"
	}

	subject := fmt.Sprintf("Quote Request - %s", productName)
	body := strings.Join([]string{
		"Hello Larkosis Pharma Team,",
		"",
		fmt.Sprintf("I would like a quotation for: %s", productName),
		"",
		"Required quantity:",
		"Target market / destination country:",
		"Company name:",
		"Contact person:",
		"Phone / WhatsApp:",
		"",
		"Thank you.",
	}, "\n")

	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		company.Default.Email,
		escapeMailtoComponent(subject),
		escapeMailtoComponent(body))
}

// escapeMailtoComponent percent-encodes a mailto component. QueryEscape's
// plus-for-space form breaks in mail clients, so spaces become %20.
func escapeMailtoComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
