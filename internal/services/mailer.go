package services

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type Mailer interface {
	SendInvite(ctx context.Context, to, organizationName, token string) error
}

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *ResendMailer) SendInvite(ctx context.Context, to, organizationName, token string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: fmt.Sprintf("You have been invited to %s", organizationName),
		Html: fmt.Sprintf(
			`<p>%s invited you to join their gym. Use the code below to finish signing up.</p><p><strong>%s</strong></p>`,
			organizationName,
			token,
		),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send invite to %s: %w", to, err)
	}
	return nil
}
