package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailgun delivers rendered emails through the Mailgun API.
type Mailgun struct {
	mg     *mailgun.MailgunImpl
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{mg: mailgun.NewMailgun(domain, apiKey), sender: sender}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.mg.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, _, err := m.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	return nil
}
