package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sevasetu/backend/internal/mailer"
	pkglogger "github.com/sevasetu/backend/pkg/logger"
)

// Options tune a single notification
type Options struct {
	// To overrides the recipient derived from the record
	To string

	// Attachment is an optional generated artifact (PDF card/receipt)
	Attachment *mailer.Attachment

	// Extra feeds kind-specific template fields (contact subject/message)
	Extra map[string]string

	// Sync delivers inline and propagates the delivery error instead of
	// enqueueing. Used by resend, where staff want to see the failure.
	Sync bool
}

// Dispatcher builds messages from templates and hands them to the delivery
// engine. It is side-effect only: callers must not let a notification
// failure abort the state transition that triggered it, so async failures
// are logged and swallowed here.
type Dispatcher struct {
	engine     *mailer.Engine
	queue      *mailer.Queue
	adminEmail string
	orgName    string
	log        zerolog.Logger
}

// NewDispatcher creates a Dispatcher over the delivery engine and queue
func NewDispatcher(engine *mailer.Engine, queue *mailer.Queue, adminEmail, orgName string) *Dispatcher {
	if orgName == "" {
		orgName = "Seva Setu Foundation"
	}
	return &Dispatcher{
		engine:     engine,
		queue:      queue,
		adminEmail: adminEmail,
		orgName:    orgName,
		log:        pkglogger.WithComponent("notify"),
	}
}

// Notify renders the template for kind over the normalized record and
// dispatches it. In the default deferred mode it always returns nil; with
// opts.Sync the delivery outcome is returned to the caller.
func (d *Dispatcher) Notify(ctx context.Context, kind Kind, record map[string]interface{}, opts Options) error {
	canonical := Normalize(record)

	to := opts.To
	if to == "" {
		switch kind {
		case KindAdminNewSubmission, KindContactNotifyAdmin:
			to = d.adminEmail
		default:
			to = canonical.Email
		}
	}
	if to == "" || to == notProvided {
		d.log.Warn().Str("kind", string(kind)).Msg("no recipient, notification skipped")
		return nil
	}

	subject, body, err := render(kind, templateData{
		R:       canonical,
		OrgName: d.orgName,
		Extra:   opts.Extra,
	})
	if err != nil {
		d.log.Error().Err(err).Str("kind", string(kind)).Msg("template render failed")
		if opts.Sync {
			return fmt.Errorf("notify %s: %w", kind, err)
		}
		return nil
	}

	msg := &mailer.Message{
		To:         to,
		Subject:    subject,
		HTMLBody:   body,
		Attachment: opts.Attachment,
	}

	if opts.Sync {
		_, err := d.engine.Send(ctx, msg)
		return err
	}

	kindLabel := string(kind)
	d.queue.Enqueue(msg, mailer.Callbacks{
		OnError: func(err error) {
			d.log.Error().Err(err).Str("kind", kindLabel).Str("to", to).Msg("deferred notification failed")
		},
	})
	return nil
}
