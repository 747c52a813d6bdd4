package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"revive-orders/internal/core/httpclient"
)

// emailPayload is the JSON body posted to the mail relay.
type emailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// HTTPMailer implements the order engine's NotificationSink by posting
// emails to an HTTP mail relay.
type HTTPMailer struct {
	relayURL string
	client   *http.Client
}

// NewHTTPMailer creates an HTTPMailer targeting the given relay URL.
func NewHTTPMailer(relayURL string) *HTTPMailer {
	return &HTTPMailer{
		relayURL: relayURL,
		client:   httpclient.NewClient(10 * time.Second),
	}
}

// SendEmail posts the email to the relay. Any non-2xx response is an
// error so the caller's retry loop kicks in.
func (m *HTTPMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(emailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.relayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mail relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay rejected email to %s: status %d", to, resp.StatusCode)
	}
	return nil
}
