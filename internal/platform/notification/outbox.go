// Package notification delivers patient-facing messages over email and SMS.
// Domain services hand events to a PatientMessenger, which renders a template
// and queues the result in an Outbox for delivery and later inspection.
package notification

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Channel is the delivery mechanism for a message.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Message delivery statuses.
const (
	StatusQueued = "queued"
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Message is one outbound notification and its delivery outcome.
type Message struct {
	ID           string            `json:"id"`
	Channel      Channel           `json:"channel"`
	Recipient    string            `json:"recipient"`
	Subject      string            `json:"subject,omitempty"`
	Body         string            `json:"body"`
	TemplateID   string            `json:"template_id,omitempty"`
	TemplateData map[string]string `json:"template_data,omitempty"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	SentAt       *time.Time        `json:"sent_at,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// EmailSender delivers a single email message.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a single SMS message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Outbox dispatches messages through the configured senders and keeps an
// in-memory record of every attempt so failed deliveries can be retried.
type Outbox struct {
	email     EmailSender
	sms       SMSSender
	templates *TemplateEngine

	mu       sync.RWMutex
	messages map[string]*Message
}

// NewOutbox constructs an Outbox backed by the given senders.
func NewOutbox(email EmailSender, sms SMSSender, templates *TemplateEngine) *Outbox {
	return &Outbox{
		email:     email,
		sms:       sms,
		templates: templates,
		messages:  make(map[string]*Message),
	}
}

// Send dispatches m through its channel and records the outcome. A delivery
// failure is recorded on the message and returned.
func (o *Outbox) Send(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC()
	m.Status = StatusQueued

	err := o.deliver(ctx, m)
	o.record(m, err)

	o.mu.Lock()
	o.messages[m.ID] = m
	o.mu.Unlock()

	return err
}

// SendTemplate renders templateID with data and sends the result to recipient
// over the template's channel.
func (o *Outbox) SendTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*Message, error) {
	subject, body, err := o.templates.Render(templateID, data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	tpl, _ := o.templates.Lookup(templateID)

	m := &Message{
		Channel:      tpl.Channel,
		Recipient:    recipient,
		Subject:      subject,
		Body:         body,
		TemplateID:   templateID,
		TemplateData: data,
	}
	if err := o.Send(ctx, m); err != nil {
		return m, err
	}
	return m, nil
}

func (o *Outbox) deliver(ctx context.Context, m *Message) error {
	switch m.Channel {
	case ChannelEmail:
		return o.email.SendEmail(ctx, m.Recipient, m.Subject, m.Body)
	case ChannelSMS:
		return o.sms.SendSMS(ctx, m.Recipient, m.Body)
	default:
		return fmt.Errorf("unsupported channel: %s", m.Channel)
	}
}

func (o *Outbox) record(m *Message, err error) {
	if err != nil {
		m.Status = StatusFailed
		m.Error = err.Error()
		return
	}
	now := time.Now().UTC()
	m.Status = StatusSent
	m.SentAt = &now
	m.Error = ""
}

// Get returns a message by ID.
func (o *Outbox) Get(_ context.Context, id string) (*Message, error) {
	o.mu.RLock()
	m, ok := o.messages[id]
	o.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("message %q not found", id)
	}
	return m, nil
}

// ListByRecipient returns up to limit messages for recipient, newest first.
func (o *Outbox) ListByRecipient(_ context.Context, recipient string, limit int) []*Message {
	o.mu.RLock()
	var result []*Message
	for _, m := range o.messages {
		if m.Recipient == recipient {
			result = append(result, m)
		}
	}
	o.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// Retry re-sends a failed message. Messages in any other status are rejected.
func (o *Outbox) Retry(ctx context.Context, id string) error {
	o.mu.RLock()
	m, ok := o.messages[id]
	o.mu.RUnlock()
	if !ok {
		return fmt.Errorf("message %q not found", id)
	}
	if m.Status != StatusFailed {
		return fmt.Errorf("message %q is not failed (current status: %s)", id, m.Status)
	}

	err := o.deliver(ctx, m)

	o.mu.Lock()
	o.record(m, err)
	o.mu.Unlock()

	return err
}

// Stats returns message counts grouped by status.
func (o *Outbox) Stats(_ context.Context) map[string]int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := make(map[string]int)
	for _, m := range o.messages {
		stats[m.Status]++
	}
	return stats
}
