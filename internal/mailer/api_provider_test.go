package mailer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sevasetu/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIProviderFixture(t *testing.T, handler http.HandlerFunc) (*APIProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewAPIProvider(config.MailAPIConfig{
		Endpoint: server.URL,
		APIKey:   "key",
		From:     "noreply@sevasetu.org",
	})
	require.NoError(t, err)
	return provider, server
}

func captureRequest(t *testing.T, dest *apiMailRequest) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(dest))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"api-msg-1"}`))
	}
}

func TestAPIProviderSendsInlineAttachment(t *testing.T) {
	var got apiMailRequest
	provider, _ := newAPIProviderFixture(t, captureRequest(t, &got))

	msg := testMessage()
	msg.Attachment = &Attachment{Name: "donation-receipt.pdf", Content: []byte("%PDF-fake")}

	id, err := provider.Send(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "api-msg-1", id)
	assert.Equal(t, "donation-receipt.pdf", got.Filename)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-fake")), got.Attachment)
}

func TestAPIProviderReadsPathAttachment(t *testing.T) {
	var got apiMailRequest
	provider, _ := newAPIProviderFixture(t, captureRequest(t, &got))

	path := filepath.Join(t.TempDir(), "receipt.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-on-disk"), 0o644))

	msg := testMessage()
	msg.Attachment = &Attachment{Name: "donation-receipt.pdf", Path: path}

	_, err := provider.Send(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "donation-receipt.pdf", got.Filename)

	decoded, err := base64.StdEncoding.DecodeString(got.Attachment)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-on-disk"), decoded, "path-based attachment must reach the request body")
}

func TestAPIProviderMissingAttachmentFileIsPermanent(t *testing.T) {
	called := false
	provider, _ := newAPIProviderFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	msg := testMessage()
	msg.Attachment = &Attachment{Name: "card.pdf", Path: filepath.Join(t.TempDir(), "gone.pdf")}

	_, err := provider.Send(context.Background(), msg)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.False(t, IsTransient(err), "a message missing its artifact must not burn retries")
	assert.False(t, called, "no request without the attachment")
}

func TestAPIProviderStatusClassification(t *testing.T) {
	status := http.StatusServiceUnavailable
	provider, _ := newAPIProviderFixture(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	})

	_, err := provider.Send(context.Background(), testMessage())
	assert.True(t, IsTransient(err))

	status = http.StatusUnauthorized
	_, err = provider.Send(context.Background(), testMessage())
	assert.False(t, IsTransient(err))
}
