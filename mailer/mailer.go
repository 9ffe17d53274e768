// Package mailer relays contact-form inquiries to the EmailJS transactional
// email service. Delivery is at-most-once: a failed relay is reported to the
// submitter and the inquiry is not persisted or retried.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/larksois/catalog-api/company"
	"github.com/larksois/catalog-api/config"
	"github.com/larksois/catalog-api/interfaces"
	"github.com/larksois/catalog-api/logging"
	"github.com/larksois/catalog-api/productparser/entities"
)

// Compile-time check to ensure EmailJSMailer implements Mailer
var _ interfaces.Mailer = (*EmailJSMailer)(nil)

// EmailJSMailer posts templated messages to the EmailJS REST endpoint.
type EmailJSMailer struct {
	cfg      *config.Config
	client   *http.Client
	validate *validator.Validate
}

// NewEmailJSMailer creates a mailer from the relay configuration.
func NewEmailJSMailer(cfg *config.Config) *EmailJSMailer {
	return &EmailJSMailer{
		cfg:      cfg,
		client:   &http.Client{Timeout: 15 * time.Second},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateInquiry checks a submission against the inquiry field rules.
func (m *EmailJSMailer) ValidateInquiry(inquiry entities.Inquiry) error {
	return m.validate.Struct(inquiry)
}

// inquiryTypeLabel maps the inquiry type to its display label.
func inquiryTypeLabel(inquiry entities.Inquiry) string {
	if inquiry.InquiryType == "urgent" {
		return "Urgent / Express"
	}
	return "General Inquiry"
}

// preferredContactLabel maps the contact preference to its display label.
func preferredContactLabel(inquiry entities.Inquiry) string {
	if inquiry.PreferredContact == "phone" {
		return "Phone/WhatsApp"
	}
	return "Email"
}

// buildSubject builds the inquiry mail subject, flagging urgent requests.
func buildSubject(inquiry entities.Inquiry) string {
	subject := fmt.Sprintf("Business Inquiry - %s", inquiry.CompanyName)
	if inquiry.InquiryType == "urgent" {
		subject = "URGENT: " + subject
	}
	return subject
}

// buildMessage renders the plain-text inquiry body sent to the sales team.
func buildMessage(inquiry entities.Inquiry) string {
	return strings.Join([]string{
		"A new business inquiry has been submitted.",
		"",
		fmt.Sprintf("Company Name: %s", inquiry.CompanyName),
		fmt.Sprintf("Contact Person: %s", inquiry.ContactPerson),
		fmt.Sprintf("Email: %s", inquiry.Email),
		fmt.Sprintf("Phone / WhatsApp: %s", inquiry.Phone),
		fmt.Sprintf("Country: %s", inquiry.Country),
		fmt.Sprintf("Preferred Contact Method: %s", preferredContactLabel(inquiry)),
		fmt.Sprintf("Inquiry Type: %s", inquiryTypeLabel(inquiry)),
		"",
		"Requirements:",
		inquiry.Requirements,
	}, "\n")
}

// templateParams builds the main template payload.
func (m *EmailJSMailer) templateParams(inquiry entities.Inquiry) map[string]string {
	return map[string]string{
		"to_email":          company.Default.Email,
		"from_name":         inquiry.ContactPerson,
		"company_name":      inquiry.CompanyName,
		"reply_to":          inquiry.Email,
		"email":             inquiry.Email,
		"phone":             inquiry.Phone,
		"country":           inquiry.Country,
		"inquiry_type":      inquiryTypeLabel(inquiry),
		"preferred_contact": preferredContactLabel(inquiry),
		"subject":           buildSubject(inquiry),
		"message":           buildMessage(inquiry),
		"requirements":      inquiry.Requirements,
	}
}

// autoReplyParams builds the optional acknowledgement template payload.
func (m *EmailJSMailer) autoReplyParams(inquiry entities.Inquiry) map[string]string {
	return map[string]string{
		"to_email":          inquiry.Email,
		"to_name":           inquiry.ContactPerson,
		"company_name":      inquiry.CompanyName,
		"inquiry_type":      inquiryTypeLabel(inquiry),
		"preferred_contact": preferredContactLabel(inquiry),
		"submitted_subject": buildSubject(inquiry),
		"support_email":     company.Default.Email,
		"support_phone":     company.Default.Phone,
		"website":           company.Default.Website,
		"message": "Thank you for contacting Larkosis Pharma. We have received " +
			"your inquiry and our team will review it shortly.",
	}
}

// emailJSRequest is the EmailJS send API request body.
type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// send posts one templated message to the EmailJS endpoint.
func (m *EmailJSMailer) send(ctx context.Context, templateID string, params map[string]string) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      m.cfg.EmailJSServiceID,
		TemplateID:     templateID,
		UserID:         m.cfg.EmailJSPublicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.EmailJSEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail relay returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return nil
}

// SendInquiry validates and relays an inquiry. The auto-reply is best-effort:
// a failure there is logged but does not fail the submission. The returned
// reference identifies the submission in logs and the caller's confirmation.
func (m *EmailJSMailer) SendInquiry(ctx context.Context, inquiry entities.Inquiry) (string, error) {
	if !m.cfg.MailRelayConfigured() {
		return "", fmt.Errorf("mail relay is not configured")
	}

	if err := m.ValidateInquiry(inquiry); err != nil {
		return "", fmt.Errorf("invalid inquiry: %w", err)
	}

	reference := uuid.NewString()

	if err := m.send(ctx, m.cfg.EmailJSTemplateID, m.templateParams(inquiry)); err != nil {
		return "", err
	}

	if m.cfg.EmailJSAutoReplyTemplate != "" {
		if err := m.send(ctx, m.cfg.EmailJSAutoReplyTemplate, m.autoReplyParams(inquiry)); err != nil {
			logging.Warn("Auto-reply send failed", "reference", reference, "error", err)
		}
	}

	logging.Info("Inquiry relayed", "reference", reference, "company", inquiry.CompanyName, "type", inquiry.InquiryType)

	return reference, nil
}
