package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pawsconnect/internal/domain"
)

// EmailAPI sends transactional email through an HTTP email API that accepts
// {from, to, subject, html} and honours an Idempotency-Key header.
type EmailAPI struct {
	URL        string
	APIKey     string
	From       string
	HTTPClient *http.Client
}

// NewEmailAPI returns an email client with a bounded request timeout.
func NewEmailAPI(url, apiKey, from string) *EmailAPI {
	return &EmailAPI{
		URL:        url,
		APIKey:     apiKey,
		From:       from,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendEmail delivers one message. key is forwarded as the idempotency key so
// a retried job is not delivered twice by the provider.
func (c *EmailAPI) SendEmail(ctx context.Context, key, to, subject, htmlBody string) error {
	if strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("email: %w", domain.ErrProviderUnavailable)
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return nil
	}

	payload, err := json.Marshal(emailRequest{From: c.From, To: []string{to}, Subject: subject, HTML: htmlBody})
	if err != nil {
		return Permanent(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return statusError("email", resp.StatusCode, raw)
}
