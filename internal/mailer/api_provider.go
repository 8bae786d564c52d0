package mailer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sevasetu/backend/internal/config"
)

type apiMailRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Subject    string `json:"subject"`
	HTML       string `json:"html"`
	Attachment string `json:"attachment,omitempty"`
	Filename   string `json:"filename,omitempty"`
}

type apiMailResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// APIProvider sends mail through an HTTP mail API (mailgun-style JSON
// endpoint). Used as a fallback when SMTP accounts are unreachable.
type APIProvider struct {
	client   *resty.Client
	endpoint string
	from     string
}

// NewAPIProvider creates an HTTP mail API provider
func NewAPIProvider(cfg config.MailAPIConfig) (*APIProvider, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("mail api endpoint is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid mail api endpoint: %w", err)
	}

	client := resty.New()
	client.SetRetryCount(0)
	client.SetAuthToken(cfg.APIKey)

	return &APIProvider{
		client:   client,
		endpoint: endpoint,
		from:     cfg.From,
	}, nil
}

func (p *APIProvider) Name() string { return "mail-api" }

func (p *APIProvider) Send(ctx context.Context, msg *Message) (string, error) {
	reqBody := apiMailRequest{
		From:    p.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
	}
	if att := msg.Attachment; att != nil {
		content := att.Content
		if len(content) == 0 && att.Path != "" {
			data, readErr := os.ReadFile(att.Path)
			if readErr != nil {
				// A missing artifact will not appear on retry
				return "", &ProviderError{
					Message: fmt.Sprintf("attachment read failed: %s", att.Path),
					Cause:   readErr,
				}
			}
			content = data
		}
		if len(content) > 0 {
			reqBody.Attachment = base64.StdEncoding.EncodeToString(content)
			reqBody.Filename = att.Name
		}
	}

	var respBody apiMailResponse
	response, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		SetResult(&respBody).
		Post(p.endpoint)
	if err != nil {
		return "", &ProviderError{
			Message:   "mail api request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}

	statusCode := response.StatusCode()
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return respBody.ID, nil
	}

	return "", &ProviderError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("mail api rejected message: %s", strings.TrimSpace(response.String())),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

// isTransientHTTPStatus treats rate limiting and server errors as retryable
func isTransientHTTPStatus(status int) bool {
	if status == http.StatusTooManyRequests || status == http.StatusRequestTimeout {
		return true
	}
	return status >= http.StatusInternalServerError
}
