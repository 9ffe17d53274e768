// Package company holds the static company profile served on the about and
// contact surfaces. The profile is fixed reference data, not configuration.
package company

// Profile describes the distributor behind the catalog.
type Profile struct {
	Brand         string   `json:"brand"`
	LegalName     string   `json:"legalName"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Website       string   `json:"website"`
	OfficeAddress string   `json:"officeAddress"`
	Overview      string   `json:"overview"`
	MarketFocus   string   `json:"marketFocus"`
	Manufacturing string   `json:"manufacturing"`
	Quality       string   `json:"quality"`
	Research      string   `json:"research"`
	Values        []string `json:"values"`
	Therapeutic   []string `json:"therapeuticCoverage"`
	Documents     Docs     `json:"documents"`
}

// Docs lists the downloadable company documents.
type Docs struct {
	CompanyProfilePDF string `json:"companyProfilePdf"`
	ProductListPDF    string `json:"productListPdf"`
}

// Default is the Larksois Pharma profile.
var Default = Profile{
	Brand:     "Larkosis Pharma",
	LegalName: "Larksois Pharma Pvt. Ltd.",
	Email:     "larksoispharma@gmail.com",
	Phone:     "+91 (0) 22-3557-3071",
	Website:   "https://www.larksois.com",
	OfficeAddress: "#06 Triveni Apartment, Plot 157-160, Sector 19, Kharghar, " +
		"New Mumbai, Maharashtra, India 410210",
	Overview: "Larksois Pharma Pvt. Ltd., headquartered in Mumbai, India, is an " +
		"emerging global pharmaceutical company focused on product research, " +
		"manufacturing, and marketing of quality and affordable generic and " +
		"branded formulations.",
	MarketFocus: "The company serves regulated and unregulated markets across " +
		"Asia, Africa, and South America, with exports contributing a " +
		"substantial share of business.",
	Manufacturing: "Manufacturing is supported by facilities benchmarked to " +
		"international standards, with capabilities in tablets, capsules, " +
		"injections, ointments, and powders.",
	Quality: "Quality systems are aligned to cGMP and global regulatory " +
		"expectations, with strong QA/QC controls, SOP-led batch checks, and " +
		"continuous compliance monitoring.",
	Research: "R&D activity includes formulation development, novel drug " +
		"delivery systems, and market-aligned product innovation, with focus " +
		"areas such as anti-malarials, oncology, cardiology, and ophthalmology.",
	Values: []string{
		"Sustained performance",
		"Integrity",
		"Entrepreneurship",
		"Customer focus",
		"Working together",
		"Respect",
	},
	Therapeutic: []string{
		"Anthelmintic",
		"Anti-malarial",
		"Anti-bacterial",
		"Anti-depressant",
		"Anti-histaminic",
		"Anti-diabetic",
		"Anti-spasmodic",
		"Anti-osteoporotic",
		"Anti-fungal",
		"Anesthetic",
		"Anti-ulcerant",
		"Anti-tussive",
		"NSAID",
		"Cardio-vascular",
		"Anxiolytic",
		"Skeletal muscle relaxant",
		"Steroids",
		"Anti-emetic",
		"Other antibiotics",
		"Oncology",
		"Ophthalmology",
	},
	Documents: Docs{
		CompanyProfilePDF: "/documents/larksois-company-profile.pdf",
		ProductListPDF:    "/documents/larksois-product-list.pdf",
	},
}
