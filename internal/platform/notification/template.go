package notification

import (
	"fmt"
	"strings"
	"sync"
)

// Built-in template IDs. These are the clinic events the domain layer reports.
const (
	TemplateVisitReminder  = "appointment-reminder"
	TemplateVisitCancelled = "appointment-cancelled"
	TemplateRecallDue      = "recall-due"
	TemplateInvoiceIssued  = "invoice-issued"
	TemplateClaimStatus    = "claim-status-update"
	TemplatePasswordReset  = "password-reset"
)

// Template is a reusable message body with {{key}} placeholders.
type Template struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	Channel Channel `json:"channel"`
}

// TemplateEngine stores templates and renders them with event data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine returns an engine with the built-in clinic templates
// registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	for _, t := range builtInTemplates() {
		e.RegisterTemplate(t)
	}
	return e
}

func builtInTemplates() []Template {
	return []Template{
		{
			ID:      TemplateVisitReminder,
			Name:    "Appointment Reminder",
			Subject: "Appointment Reminder for {{patient_name}}",
			Body:    "Dear {{patient_name}}, this is a reminder of your appointment on {{date}} at {{time}} with {{provider}}.",
			Channel: ChannelEmail,
		},
		{
			ID:      TemplateVisitCancelled,
			Name:    "Appointment Cancelled",
			Subject: "Your Appointment Has Been Cancelled",
			Body:    "Dear {{patient_name}}, your appointment on {{date}} at {{time}} has been cancelled. Please contact us to reschedule.",
			Channel: ChannelEmail,
		},
		{
			ID:      TemplateRecallDue,
			Name:    "Recall Due",
			Subject: "Time for Your Next Dental Checkup",
			Body:    "Dear {{patient_name}}, it has been {{months_since_visit}} months since your last visit. Please call {{clinic_phone}} to schedule a checkup.",
			Channel: ChannelEmail,
		},
		{
			ID:      TemplateInvoiceIssued,
			Name:    "Invoice Issued",
			Subject: "Invoice {{invoice_number}} from Your Dental Clinic",
			Body:    "Dear {{patient_name}}, an invoice for {{amount}} has been issued for your recent treatment. It is due on {{due_date}}.",
			Channel: ChannelEmail,
		},
		{
			ID:      TemplateClaimStatus,
			Name:    "Claim Status Update",
			Subject: "Update on Your Insurance Claim",
			Body:    "Dear {{patient_name}}, your insurance claim {{claim_number}} is now {{status}}. Estimated insurance portion: {{insurance_estimate}}.",
			Channel: ChannelEmail,
		},
		{
			ID:      TemplatePasswordReset,
			Name:    "Password Reset",
			Subject: "Password Reset Request",
			Body:    "You requested a password reset. Click the following link to reset your password: {{reset_link}}",
			Channel: ChannelEmail,
		},
	}
}

// RegisterTemplate adds or replaces a template.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Lookup returns the template with the given ID.
func (e *TemplateEngine) Lookup(id string) (*Template, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.templates[id]
	return t, ok
}

// Render substitutes {{key}} placeholders in the template's subject and body
// with values from data. Placeholders without a matching key are left as-is.
func (e *TemplateEngine) Render(id string, data map[string]string) (subject, body string, err error) {
	t, ok := e.Lookup(id)
	if !ok {
		return "", "", fmt.Errorf("template %q not found", id)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}
