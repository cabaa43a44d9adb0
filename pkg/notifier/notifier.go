// Package notifier delivers audit reports to chat webhooks.
package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/younsl/volcost/internal/models"
)

// DefaultTimeout is the HTTP timeout used when no client is supplied
const DefaultTimeout = 10 * time.Second

// PayloadBuilder turns a report into a webhook body
type PayloadBuilder interface {
	Payload(report models.Report) (any, error)
}

// Webhook posts JSON payloads to an incoming webhook URL
type Webhook struct {
	url     string
	builder PayloadBuilder
	client  *http.Client
}

// NewWebhook creates a Webhook. A nil client gets DefaultTimeout.
func NewWebhook(url string, builder PayloadBuilder, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Webhook{url: url, builder: builder, client: client}
}

// Send builds the payload for report and posts it once, without retries
func (w *Webhook) Send(ctx context.Context, report models.Report) error {
	payload, err := w.builder.Payload(report)
	if err != nil {
		return fmt.Errorf("failed to build payload: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	return nil
}

// Writer prints the payload instead of sending it
type Writer struct {
	out     io.Writer
	builder PayloadBuilder
}

// NewWriter creates a Writer
func NewWriter(out io.Writer, builder PayloadBuilder) *Writer {
	return &Writer{out: out, builder: builder}
}

// Send writes the indented payload to the underlying writer
func (w *Writer) Send(_ context.Context, report models.Report) error {
	payload, err := w.builder.Payload(report)
	if err != nil {
		return fmt.Errorf("failed to build payload: %w", err)
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = fmt.Fprintf(w.out, "%s\n", body)
	return err
}
