// Package email delivers finalized replies via SendGrid.
package email

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Service sends finalized email replies to a configured recipient.
type Service struct {
	apiKey    string
	fromEmail string
	toEmail   string
}

// NewService creates an email delivery service. Sending is a no-op error when
// the API key or recipient is not configured.
func NewService(apiKey, fromEmail, toEmail string) *Service {
	return &Service{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}
}

// Configured reports whether delivery can be attempted.
func (s *Service) Configured() bool {
	return s.apiKey != "" && s.toEmail != ""
}

// SendFinalReply delivers a thread's canonical reply.
func (s *Service) SendFinalReply(subject, body string) error {
	if !s.Configured() {
		return fmt.Errorf("email delivery not configured")
	}

	from := mail.NewEmail("ReplyDesk", s.fromEmail)
	to := mail.NewEmail("Recipient", s.toEmail)
	if subject == "" {
		subject = "Generated Reply"
	}

	message := mail.NewSingleEmail(from, "RE: "+subject, to, body, "")
	client := sendgrid.NewSendClient(s.apiKey)

	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending reply email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sending reply email: status %d", response.StatusCode)
	}
	return nil
}
