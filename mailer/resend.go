package mailer

import (
	"context"
	"fmt"
	"time"

	resend "github.com/resend/resend-go/v2"
)

type ResendMailer struct {
	client *resend.Client
	from   string
	ttl    time.Duration
}

func NewResendMailer(apiKey, from string, ttl time.Duration) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		ttl:    ttl,
	}
}

func (m *ResendMailer) SendCode(ctx context.Context, address, code string) error {
	body, err := renderCode(code, m.ttl)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{address},
		Subject: codeSubject,
		Html:    body,
	}
	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
