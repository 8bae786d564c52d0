package mailer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider fails a fixed number of times before succeeding
type fakeProvider struct {
	name      string
	failures  int
	permanent bool

	mu    sync.Mutex
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Send(_ context.Context, _ *Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		if f.permanent {
			return "", &ProviderError{StatusCode: 401, Message: "bad credentials"}
		}
		return "", &ProviderError{Message: "connection refused", Transient: true}
	}
	return f.name + "-msg-1", nil
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// slowProvider blocks until its context expires
type slowProvider struct{ name string }

func (s *slowProvider) Name() string { return s.name }

func (s *slowProvider) Send(ctx context.Context, _ *Message) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func fastOptions() Options {
	return Options{
		MaxRetries:     3,
		AttemptTimeout: 200 * time.Millisecond,
		BackoffBase:    time.Millisecond,
		BackoffCap:     4 * time.Millisecond,
	}
}

func testMessage() *Message {
	return &Message{To: "asha@example.com", Subject: "Welcome", HTMLBody: "<p>Hello</p>"}
}

func TestSendFirstProviderSucceeds(t *testing.T) {
	primary := &fakeProvider{name: "smtp-primary"}
	secondary := &fakeProvider{name: "smtp-secondary"}
	engine := NewEngine([]Provider{primary, secondary}, NewFileSink(t.TempDir()), fastOptions())

	result, err := engine.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "smtp-primary", result.Provider)
	assert.False(t, result.IsTestDelivery)
	assert.Len(t, result.Attempts, 1)
	assert.Equal(t, 0, secondary.Calls())
}

func TestSendRetriesThenFallsBack(t *testing.T) {
	primary := &fakeProvider{name: "smtp-primary", failures: 99}
	secondary := &fakeProvider{name: "smtp-secondary"}
	engine := NewEngine([]Provider{primary, secondary}, NewFileSink(t.TempDir()), fastOptions())

	result, err := engine.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "smtp-secondary", result.Provider)
	assert.False(t, result.IsTestDelivery)

	// Primary exhausted its three attempts before the fallback fired
	assert.Equal(t, 3, primary.Calls())
	assert.Len(t, result.Attempts, 4)
	assert.Equal(t, "smtp-primary", result.Attempts[0].Provider)
	assert.Equal(t, 3, result.Attempts[2].Number)
	assert.Equal(t, "smtp-secondary", result.Attempts[3].Provider)
}

func TestSendRetrySucceedsOnSameProvider(t *testing.T) {
	primary := &fakeProvider{name: "smtp-primary", failures: 2}
	engine := NewEngine([]Provider{primary}, NewFileSink(t.TempDir()), fastOptions())

	result, err := engine.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "smtp-primary", result.Provider)
	assert.Equal(t, 3, primary.Calls())
}

func TestSendPermanentErrorSkipsRetries(t *testing.T) {
	primary := &fakeProvider{name: "smtp-primary", failures: 99, permanent: true}
	secondary := &fakeProvider{name: "smtp-secondary"}
	engine := NewEngine([]Provider{primary, secondary}, NewFileSink(t.TempDir()), fastOptions())

	result, err := engine.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "smtp-secondary", result.Provider)

	// One permanent rejection, no further attempts against that provider
	assert.Equal(t, 1, primary.Calls())
	assert.Len(t, result.Attempts, 2)
}

func TestSendAllProvidersExhaustedCaptures(t *testing.T) {
	dir := t.TempDir()
	primary := &fakeProvider{name: "smtp-primary", failures: 99}
	secondary := &fakeProvider{name: "smtp-secondary", failures: 99}
	engine := NewEngine([]Provider{primary, secondary}, NewFileSink(dir), fastOptions())

	result, err := engine.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.True(t, result.IsTestDelivery)
	assert.Equal(t, SinkName, result.Provider)
	assert.Len(t, result.Attempts, 6)

	// The capture landed on disk as an .eml file
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".eml", filepath.Ext(entries[0].Name()))
}

func TestSendSinkFailureSurfacesExhaustion(t *testing.T) {
	primary := &fakeProvider{name: "smtp-primary", failures: 99}
	// A sink that cannot write: point it at a file path, not a directory
	unusable := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(unusable, []byte("x"), 0o644))
	engine := NewEngine([]Provider{primary}, NewFileSink(filepath.Join(unusable, "sub")), fastOptions())

	_, err := engine.Send(context.Background(), testMessage())
	var exhausted *common.DeliveryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Error(t, exhausted.LastErr)
}

func TestSendNoProvidersIsConfigurationError(t *testing.T) {
	engine := NewEngine(nil, NewFileSink(t.TempDir()), fastOptions())

	_, err := engine.Send(context.Background(), testMessage())
	var cfgErr *common.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSendAttemptTimeout(t *testing.T) {
	slow := &slowProvider{name: "smtp-slow"}
	fast := &fakeProvider{name: "smtp-fast"}
	opts := fastOptions()
	opts.MaxRetries = 1
	opts.AttemptTimeout = 20 * time.Millisecond
	engine := NewEngine([]Provider{slow, fast}, NewFileSink(t.TempDir()), opts)

	result, err := engine.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "smtp-fast", result.Provider)

	var pe *ProviderError
	require.ErrorAs(t, result.Attempts[0].Err, &pe)
	assert.True(t, pe.Transient)
}

func TestBackoffCapped(t *testing.T) {
	engine := NewEngine(nil, nil, Options{
		BackoffBase: time.Second,
		BackoffCap:  5 * time.Second,
	})

	assert.Equal(t, time.Second, engine.backoff(1))
	assert.Equal(t, 2*time.Second, engine.backoff(2))
	assert.Equal(t, 4*time.Second, engine.backoff(3))
	assert.Equal(t, 5*time.Second, engine.backoff(4))
	assert.Equal(t, 5*time.Second, engine.backoff(10))
}

func TestNewEngineFromConfigProviderOrder(t *testing.T) {
	cfg := config.MailConfig{
		Primary:    config.SMTPConfig{Host: "smtp1.example.com", Port: 587, User: "a", Password: "b"},
		Secondary:  config.SMTPConfig{Host: "smtp2.example.com", Port: 587, User: "c", Password: "d"},
		CaptureDir: t.TempDir(),
	}
	engine := NewEngineFromConfig(cfg, Options{})
	assert.Equal(t, 2, engine.ProviderCount())

	// Unconfigured blocks contribute nothing
	empty := NewEngineFromConfig(config.MailConfig{CaptureDir: t.TempDir()}, Options{})
	assert.Equal(t, 0, empty.ProviderCount())
}

func TestProviderErrorTransient(t *testing.T) {
	transient := &ProviderError{StatusCode: 503, Message: "unavailable", Transient: true}
	permanent := &ProviderError{StatusCode: 401, Message: "bad credentials"}

	assert.True(t, IsTransient(transient))
	assert.False(t, IsTransient(permanent))
	assert.False(t, IsTransient(errors.New("plain")))
}
