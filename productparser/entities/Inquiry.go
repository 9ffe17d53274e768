package entities

// Inquiry is a contact-form submission. Field tags drive the request
// validator; delivery is at-most-once via the mail relay.
type Inquiry struct {
	CompanyName      string `json:"companyName" validate:"required"`
	ContactPerson    string `json:"contactPerson" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,min=8"`
	Country          string `json:"country" validate:"required"`
	Requirements     string `json:"requirements" validate:"required,min=20"`
	InquiryType      string `json:"inquiryType" validate:"omitempty,oneof=general urgent"`
	PreferredContact string `json:"preferredContact" validate:"omitempty,oneof=email phone"`
}
