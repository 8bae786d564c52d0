package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/sevasetu/backend/internal/config"
	"gopkg.in/gomail.v2"
)

// Provider is the outbound mail delivery port.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg *Message) (messageID string, err error)
}

// ProviderError classifies provider call failures as transient/permanent.
type ProviderError struct {
	StatusCode int
	Message    string
	Transient  bool
	Cause      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := make([]string, 0, 4)
	parts = append(parts, "provider error")

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsTransient reports whether an error should be retried.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Transient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// SMTPProvider sends mail through one SMTP account via gomail.
type SMTPProvider struct {
	name   string
	from   string
	dialer *gomail.Dialer
}

// NewSMTPProvider creates an SMTP provider from one account's config
func NewSMTPProvider(name string, cfg config.SMTPConfig) *SMTPProvider {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPProvider{
		name:   name,
		from:   from,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (p *SMTPProvider) Name() string { return p.name }

// Send transmits the message over SMTP. gomail has no context support;
// the engine races this call against the per-attempt timeout.
func (p *SMTPProvider) Send(_ context.Context, msg *Message) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if att := msg.Attachment; att != nil {
		if len(att.Content) > 0 {
			m.Attach(att.Name, gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(att.Content)
				return err
			}))
		} else if att.Path != "" {
			m.Attach(att.Path, gomail.Rename(att.Name))
		}
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return "", &ProviderError{
			Message:   "smtp send failed",
			Transient: true,
			Cause:     err,
		}
	}

	// SMTP does not return a provider message id; synthesize a stable-ish one.
	return fmt.Sprintf("smtp-%s", p.name), nil
}
