// Package notify sends the welcome email. Delivery is best-effort everywhere:
// callers log failures and move on, registration never depends on it.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"clinicalgoto/internal/registrant"
)

// Mailer is the outbound mail contract.
type Mailer interface {
	SendWelcome(ctx context.Context, reg registrant.Registrant) error
}

// SMTPMailer delivers the welcome email over plain SMTP with AUTH.
type SMTPMailer struct {
	addr   string
	auth   smtp.Auth
	from   string
	logger *slog.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP builds a mailer for host:port using PLAIN auth.
func NewSMTP(host string, port int, user, pass, from string, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		auth:   smtp.PlainAuth("", user, pass, host),
		from:   from,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// SendWelcome sends the registration confirmation to reg.Email.
func (m *SMTPMailer) SendWelcome(ctx context.Context, reg registrant.Registrant) error {
	msg := buildWelcomeMessage(m.from, reg)
	if err := m.send(m.addr, m.auth, m.from, []string{reg.Email}, msg); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	m.logger.InfoContext(ctx, "welcome email sent", "email", reg.Email)
	return nil
}

func buildWelcomeMessage(from string, reg registrant.Registrant) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", reg.Email)
	b.WriteString("Subject: Welcome to ClinicalGoTo - Your Clinical Trial Journey Begins\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Hello %s!\r\n\r\n", reg.FullName)
	b.WriteString("Thank you for registering with ClinicalGoTo! We're excited to help you discover clinical trial opportunities that match your needs.\r\n\r\n")
	b.WriteString("Your registration details:\r\n")
	fmt.Fprintf(&b, "  Name: %s\r\n", reg.FullName)
	fmt.Fprintf(&b, "  Email: %s\r\n", reg.Email)
	fmt.Fprintf(&b, "  Phone: %s\r\n", reg.Phone)
	if reg.Condition != "" {
		fmt.Fprintf(&b, "  Condition: %s\r\n", reg.Condition)
	}
	if reg.Location != "" {
		fmt.Fprintf(&b, "  Location: %s\r\n", reg.Location)
	}
	b.WriteString("\r\nOur system will continuously search for clinical trials that match your criteria, and you'll receive notifications when new relevant trials become available.\r\n\r\n")
	b.WriteString("Always consult with your healthcare provider before considering participation in any clinical trial.\r\n\r\n")
	b.WriteString("Questions? Contact support@clinicalgoto.com\r\n")
	return []byte(b.String())
}

// NopMailer is used when SMTP is not configured; sends are silently skipped.
type NopMailer struct{}

func (NopMailer) SendWelcome(context.Context, registrant.Registrant) error {
	return nil
}
