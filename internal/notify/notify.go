// Package notify delivers best-effort status-change notifications to
// business owners. Delivery failures are reported to callers as a plain
// error so the moderation service can log them and surface an email_sent
// flag; they never roll back or block the underlying state transition.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/localspot/go-directory-backend/internal/config"
	"github.com/localspot/go-directory-backend/internal/domain"
)

// StatusNotification carries everything needed to tell an owner about a
// moderation decision on their listing.
type StatusNotification struct {
	RecipientEmail string
	RecipientName  string
	BusinessName   string
	NewStatus      domain.Status
	// RejectionReason is included in the message only for REJECTED.
	RejectionReason string
}

// Notifier is the outbound notification contract. Implementations must be
// safe for concurrent use.
type Notifier interface {
	// StatusChanged sends one notification. A non-nil error means delivery
	// failed; callers treat this as non-fatal.
	StatusChanged(ctx context.Context, n StatusNotification) error
}

// New selects an implementation from config: a real SMTP sender when a host
// is configured, otherwise a log-only fallback suitable for development.
func New(cfg config.SMTPConfig) Notifier {
	if strings.TrimSpace(cfg.Host) == "" {
		return LogNotifier{}
	}
	return &SMTPNotifier{cfg: cfg}
}

// LogNotifier writes notifications to the structured log instead of sending
// mail. Used when no SMTP relay is configured.
type LogNotifier struct{}

// StatusChanged implements Notifier.
func (LogNotifier) StatusChanged(_ context.Context, n StatusNotification) error {
	log.Info().
		Str("recipient", n.RecipientEmail).
		Str("business", n.BusinessName).
		Str("status", n.NewStatus.String()).
		Msg("status notification (log only, SMTP not configured)")
	return nil
}

// SMTPNotifier sends plain-text notifications through a configured relay.
type SMTPNotifier struct {
	cfg config.SMTPConfig

	// send is injectable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// StatusChanged implements Notifier. The context is accepted for interface
// symmetry; net/smtp performs its own connection handling.
func (s *SMTPNotifier) StatusChanged(_ context.Context, n StatusNotification) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := buildMessage(s.cfg.From, n)
	sender := s.send
	if sender == nil {
		sender = smtp.SendMail
	}
	return sender(addr, auth, s.cfg.From, []string{n.RecipientEmail}, msg)
}

// buildMessage renders the notification as an RFC 5322 plain-text message.
func buildMessage(from string, n StatusNotification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", n.RecipientEmail)
	fmt.Fprintf(&b, "Subject: Your listing %q is now %s\r\n", n.BusinessName, strings.ToLower(n.NewStatus.String()))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	name := n.RecipientName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", name)
	switch n.NewStatus {
	case domain.StatusApproved:
		fmt.Fprintf(&b, "Good news: your listing %q has been approved and is now visible in the directory.\r\n", n.BusinessName)
	case domain.StatusRejected:
		fmt.Fprintf(&b, "Your listing %q was not approved.\r\n", n.BusinessName)
		if n.RejectionReason != "" {
			fmt.Fprintf(&b, "\r\nReason: %s\r\n", n.RejectionReason)
		}
		b.WriteString("\r\nYou can edit the listing and resubmit it for review.\r\n")
	default:
		fmt.Fprintf(&b, "Your listing %q is pending review. We'll let you know once a decision is made.\r\n", n.BusinessName)
	}
	b.WriteString("\r\n— The directory team\r\n")
	return []byte(b.String())
}
