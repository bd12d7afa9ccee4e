package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes messages to the log instead of delivering them. It is the
// development fallback when no SMTP relay is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	m.Logger.InfoContext(ctx, "mail not delivered (no smtp relay)",
		"mail_to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
