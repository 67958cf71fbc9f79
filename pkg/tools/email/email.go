// Package email implements the notification tool: it builds a message
// payload, optionally styles the body through a Formatter, and hands it to a
// Deliverer. Failures are always reported as data, never raised.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/germanamz/pairloop/pkg/tools/toolbox"
)

// SuccessMessage is the human-readable message attached to a successful send.
const SuccessMessage = "Email sent successfully."

// Request is the outbound payload handed to a Deliverer.
type Request struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Deliverer sends a Request through an external transactional email API and
// returns the provider's delivery identifier.
type Deliverer interface {
	Deliver(ctx context.Context, req Request) (string, error)
}

// Formatter turns a plain subject/body pair into styled HTML.
type Formatter interface {
	Format(ctx context.Context, subject, body string) (string, error)
}

// FormatterFunc adapts a plain function to the Formatter interface.
type FormatterFunc func(ctx context.Context, subject, body string) (string, error)

// Format calls the underlying function.
func (f FormatterFunc) Format(ctx context.Context, subject, body string) (string, error) {
	return f(ctx, subject, body)
}

// DeliveryError wraps a failure reported by the Deliverer.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return "email: delivery: " + e.Err.Error() }

func (e *DeliveryError) Unwrap() error { return e.Err }

// Args are the typed tool arguments.
type Args struct {
	To      string `json:"to" jsonschema_description:"The recipient's email address"`
	Subject string `json:"subject" jsonschema_description:"The subject of the email"`
	Body    string `json:"body" jsonschema_description:"The body content of the email (can include HTML)"`
}

// Option configures a Sender.
type Option func(*Sender)

// WithFormatter routes the body through f before delivery.
func WithFormatter(f Formatter) Option {
	return func(s *Sender) { s.formatter = f }
}

// WithLogger sets the logger used for formatter fallbacks and delivery failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sender) { s.log = log }
}

// Sender implements the send-email tool.
type Sender struct {
	from      string
	deliverer Deliverer
	formatter Formatter
	log       *slog.Logger
}

// NewSender creates a Sender that sends from the given address.
func NewSender(from string, d Deliverer, opts ...Option) *Sender {
	s := &Sender{
		from:      from,
		deliverer: d,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send builds and delivers the email described by args.
func (s *Sender) Send(ctx context.Context, args Args) toolbox.Status {
	if err := args.validate(); err != nil {
		return errorStatus(err)
	}

	req := Request{
		From:    s.from,
		To:      []string{args.To},
		Subject: args.Subject,
		HTML:    s.render(ctx, args),
	}

	id, err := s.deliverer.Deliver(ctx, req)
	if err != nil {
		derr := &DeliveryError{Err: err}
		s.log.WarnContext(ctx, "email delivery failed", "to", args.To, "error", derr)
		return errorStatus(derr)
	}

	return toolbox.Status{
		Status:    "success",
		MessageID: id,
		Message:   SuccessMessage,
	}
}

// render returns the HTML body, falling back to a plain paragraph when the
// formatter is absent, fails, or returns nothing.
func (s *Sender) render(ctx context.Context, args Args) string {
	plain := fmt.Sprintf("<p>%s</p>", args.Body)
	if s.formatter == nil {
		return plain
	}

	html, err := s.formatter.Format(ctx, args.Subject, args.Body)
	if err != nil {
		s.log.WarnContext(ctx, "email formatter failed, sending plain body", "error", err)
		return plain
	}

	html = strings.TrimSpace(html)
	if html == "" {
		return plain
	}

	return html
}

func (a Args) validate() error {
	if strings.TrimSpace(a.To) == "" {
		return errors.New("recipient address is required")
	}
	if !strings.Contains(a.To, "@") {
		return fmt.Errorf("invalid recipient address %q", a.To)
	}
	return nil
}

func errorStatus(err error) toolbox.Status {
	return toolbox.Status{Status: "error", Message: err.Error()}
}
