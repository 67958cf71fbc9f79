package email

import (
	"context"

	"github.com/resend/resend-go/v2"
)

var _ Deliverer = (*Resend)(nil)

// Resend delivers email through the Resend transactional email API.
type Resend struct {
	client *resend.Client
}

// NewResend creates a Resend deliverer authenticated with apiKey.
func NewResend(apiKey string) *Resend {
	return &Resend{client: resend.NewClient(apiKey)}
}

// Deliver sends req and returns the Resend email id.
func (r *Resend) Deliver(ctx context.Context, req Request) (string, error) {
	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    req.From,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
	})
	if err != nil {
		return "", err
	}

	return sent.Id, nil
}
