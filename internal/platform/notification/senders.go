package notification

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// LogEmailSender writes email messages to the log instead of delivering
// them. Used until an SMTP provider is configured.
type LogEmailSender struct {
	Logger zerolog.Logger
}

func (s *LogEmailSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.Logger.Info().
		Str("channel", "email").
		Str("to", to).
		Str("subject", subject).
		Msg("outbound message")
	return nil
}

// LogSMSSender writes SMS messages to the log instead of delivering them.
type LogSMSSender struct {
	Logger zerolog.Logger
}

func (s *LogSMSSender) SendSMS(_ context.Context, to, _ string) error {
	s.Logger.Info().
		Str("channel", "sms").
		Str("to", to).
		Msg("outbound message")
	return nil
}

// CapturedEmail is one email recorded by a CaptureEmailSender.
type CapturedEmail struct {
	To      string
	Subject string
	Body    string
}

// CaptureEmailSender records sent emails for tests. Set Fail to make sends
// return that error.
type CaptureEmailSender struct {
	mu   sync.Mutex
	sent []CapturedEmail
	Fail error
}

func (s *CaptureEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, CapturedEmail{To: to, Subject: subject, Body: body})
	return s.Fail
}

// Sent returns a copy of the recorded emails.
func (s *CaptureEmailSender) Sent() []CapturedEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedEmail, len(s.sent))
	copy(out, s.sent)
	return out
}

// CapturedSMS is one SMS recorded by a CaptureSMSSender.
type CapturedSMS struct {
	To   string
	Body string
}

// CaptureSMSSender records sent SMS messages for tests.
type CaptureSMSSender struct {
	mu   sync.Mutex
	sent []CapturedSMS
	Fail error
}

func (s *CaptureSMSSender) SendSMS(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, CapturedSMS{To: to, Body: body})
	return s.Fail
}

// Sent returns a copy of the recorded messages.
func (s *CaptureSMSSender) Sent() []CapturedSMS {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedSMS, len(s.sent))
	copy(out, s.sent)
	return out
}
