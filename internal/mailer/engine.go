package mailer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/config"
	"github.com/sevasetu/backend/internal/observability"
	pkglogger "github.com/sevasetu/backend/pkg/logger"
)

// Engine defaults
const (
	DefaultMaxRetries     = 3
	DefaultAttemptTimeout = 15 * time.Second
	defaultBackoffBase    = 1 * time.Second
	defaultBackoffCap     = 5 * time.Second
)

// Options tunes the delivery engine
type Options struct {
	MaxRetries     int
	AttemptTimeout time.Duration
	BackoffBase    time.Duration
	BackoffCap     time.Duration
}

func (o *Options) fillDefaults() {
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = DefaultAttemptTimeout
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = defaultBackoffBase
	}
	if o.BackoffCap <= 0 {
		o.BackoffCap = defaultBackoffCap
	}
}

// Engine attempts delivery through an ordered provider list, retrying each
// with capped exponential backoff and falling back to a local capture sink
// so callers never observe total failure while the sink is healthy.
//
// The engine owns its provider connections; it is constructed once at
// process start and passed by reference to callers. It performs no
// deduplication: two Send calls send two messages.
type Engine struct {
	providers []Provider
	sink      Provider
	opts      Options
	log       zerolog.Logger
}

// NewEngine creates a delivery engine over the given real providers and sink
func NewEngine(providers []Provider, sink Provider, opts Options) *Engine {
	opts.fillDefaults()
	return &Engine{
		providers: providers,
		sink:      sink,
		opts:      opts,
		log:       pkglogger.WithComponent("mailer"),
	}
}

// NewEngineFromConfig builds the provider list from whichever providers
// have valid configuration present, in priority order: primary SMTP,
// secondary SMTP, HTTP mail API.
func NewEngineFromConfig(cfg config.MailConfig, opts Options) *Engine {
	var providers []Provider

	if cfg.Primary.IsConfigured() {
		providers = append(providers, NewSMTPProvider("smtp-primary", cfg.Primary))
	}
	if cfg.Secondary.IsConfigured() {
		providers = append(providers, NewSMTPProvider("smtp-secondary", cfg.Secondary))
	}
	if cfg.API.IsConfigured() {
		if api, err := NewAPIProvider(cfg.API); err == nil {
			providers = append(providers, api)
		}
	}

	return NewEngine(providers, NewFileSink(cfg.CaptureDir), opts)
}

// ProviderCount returns the number of configured real providers
func (e *Engine) ProviderCount() int { return len(e.providers) }

// Send runs the full provider/retry/sink sequence for one message.
// Zero configured providers fail immediately with ConfigurationError —
// no retries and no sink.
func (e *Engine) Send(ctx context.Context, msg *Message) (*SendResult, error) {
	if len(e.providers) == 0 {
		return nil, &common.ConfigurationError{Msg: "no mail providers configured"}
	}

	result := &SendResult{}
	var lastErr error

	for _, p := range e.providers {
		for attempt := 1; attempt <= e.opts.MaxRetries; attempt++ {
			start := time.Now()
			id, err := e.attempt(ctx, p, msg)
			elapsed := time.Since(start)

			result.Attempts = append(result.Attempts, Attempt{
				Provider: p.Name(),
				Number:   attempt,
				Err:      err,
				Duration: elapsed,
			})
			observability.ObserveDeliveryAttempt(p.Name(), err == nil, elapsed)

			if err == nil {
				result.Provider = p.Name()
				result.MessageID = id
				e.log.Info().
					Str("provider", p.Name()).
					Int("attempt", attempt).
					Str("to", msg.To).
					Msg("mail delivered")
				observability.ObserveDeliveryOutcome("delivered")
				return result, nil
			}

			lastErr = err
			e.log.Warn().
				Err(err).
				Str("provider", p.Name()).
				Int("attempt", attempt).
				Str("to", msg.To).
				Msg("mail attempt failed")

			// A permanent failure (bad credentials, rejected payload) will
			// not change on retry; move straight to the next provider.
			if !IsTransient(err) {
				break
			}

			if attempt < e.opts.MaxRetries {
				if err := e.wait(ctx, e.backoff(attempt)); err != nil {
					return nil, err
				}
			}
		}
	}

	// All real providers exhausted: capture locally so the caller does not
	// observe total failure. IsTestDelivery lets callers tell the two apart.
	id, sinkErr := e.sink.Send(ctx, msg)
	if sinkErr != nil {
		e.log.Error().Err(sinkErr).Str("to", msg.To).Msg("capture sink failed")
		observability.ObserveDeliveryOutcome("exhausted")
		return nil, &common.DeliveryExhaustedError{LastErr: lastErr}
	}

	result.Provider = e.sink.Name()
	result.MessageID = id
	result.IsTestDelivery = true
	e.log.Warn().
		Str("to", msg.To).
		Str("capture_id", id).
		Msg("all providers exhausted, mail captured locally")
	observability.ObserveDeliveryOutcome("captured")
	return result, nil
}

// attempt races one provider call against the per-attempt timeout. Some
// transports (SMTP) have no native timeout, so the timer is authoritative;
// a timed-out transmission keeps running in its goroutine but its result
// is discarded.
func (e *Engine) attempt(ctx context.Context, p Provider, msg *Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.AttemptTimeout)
	defer cancel()

	type outcome struct {
		id  string
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		id, err := p.Send(ctx, msg)
		done <- outcome{id: id, err: err}
	}()

	select {
	case o := <-done:
		return o.id, o.err
	case <-ctx.Done():
		return "", &ProviderError{
			Message:   "attempt timed out",
			Transient: true,
			Cause:     ctx.Err(),
		}
	}
}

// backoff is exponential with a cap: min(base * 2^(attempt-1), cap)
func (e *Engine) backoff(attempt int) time.Duration {
	d := e.opts.BackoffBase << (attempt - 1)
	if d > e.opts.BackoffCap {
		d = e.opts.BackoffCap
	}
	return d
}

func (e *Engine) wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
