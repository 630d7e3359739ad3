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
)

// ExpoPush sends push notifications through the Expo push API.
type ExpoPush struct {
	URL         string
	AccessToken string
	HTTPClient  *http.Client
}

// NewExpoPush returns a push client with a bounded request timeout.
func NewExpoPush(url, accessToken string) *ExpoPush {
	return &ExpoPush{
		URL:         url,
		AccessToken: accessToken,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

type expoResponse struct {
	Data []struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Details struct {
			Error string `json:"error"`
		} `json:"details"`
	} `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// SendPush delivers one message to an Expo push token. An empty token means
// the user never registered a device and is not an error.
func (c *ExpoPush) SendPush(ctx context.Context, token, title, body, deepLink string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	msg := expoMessage{To: token, Title: title, Body: body, Sound: "default"}
	if deepLink != "" {
		msg.Data = map[string]string{"url": deepLink}
	}
	payload, err := json.Marshal([]expoMessage{msg})
	if err != nil {
		return Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("expo push: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	if err := statusError("expo push", resp.StatusCode, raw); err != nil {
		return err
	}

	var decoded expoResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("expo push: decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return fmt.Errorf("expo push: %s: %s", decoded.Errors[0].Code, decoded.Errors[0].Message)
	}
	for _, ticket := range decoded.Data {
		if ticket.Status == "ok" {
			continue
		}
		err := fmt.Errorf("expo push: %s: %s", ticket.Details.Error, ticket.Message)
		if ticket.Details.Error == "DeviceNotRegistered" || ticket.Details.Error == "InvalidCredentials" {
			return Permanent(err)
		}
		return err
	}
	return nil
}

// statusError maps an HTTP status to a delivery error. Throttling and server
// errors are retried; other client errors are permanent.
func statusError(provider string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	err := fmt.Errorf("%s: status %d: %s", provider, status, strings.TrimSpace(string(body)))
	if status == http.StatusTooManyRequests || status >= 500 || status == http.StatusRequestTimeout {
		return err
	}
	return Permanent(err)
}
