// Package notify tells the external automation webhook about saved and
// resent quotes.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/diewo77/workshop-quotes/internal/config"
	"github.com/diewo77/workshop-quotes/internal/models"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ttacon/libphonenumber"
)

// Events sent to the webhook.
const (
	EventQuoteCreated = "quote.created"
	EventQuoteResent  = "quote.resent"
)

// DefaultRegion is used to parse client phone numbers written without a country code.
const DefaultRegion = "BR"

// ErrNotConfigured is returned when WEBHOOK_URL is empty.
var ErrNotConfigured = errors.New("webhook not configured")

// maxErrorBody bounds how much of a failed response ends up in the error.
const maxErrorBody = 512

// Notifier delivers quote events.
type Notifier interface {
	Notify(ctx context.Context, event string, q *models.Quote) error
}

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Event           string        `json:"event"`
	Quote           *models.Quote `json:"quote"`
	ClientPhoneE164 string        `json:"clientPhoneE164"`
	PDFPath         string        `json:"pdfPath"`
}

// StatusError is a non-2xx webhook response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook responded %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook responded %d: %s", e.StatusCode, e.Body)
}

// WebhookNotifier posts Payloads with a bearer token.
type WebhookNotifier struct {
	url    string
	token  string
	client *http.Client
}

func NewWebhookNotifier(cfg config.WebhookConfig) *WebhookNotifier {
	return &WebhookNotifier{
		url:    cfg.URL,
		token:  cfg.Token,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether a webhook URL is set.
func (n *WebhookNotifier) Configured() bool { return n.url != "" }

func (n *WebhookNotifier) Notify(ctx context.Context, event string, q *models.Quote) error {
	if !n.Configured() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(NewPayload(event, q))
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}
	if id := middleware.GetReqID(ctx); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("call webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// NewPayload builds the webhook body for q.
func NewPayload(event string, q *models.Quote) Payload {
	return Payload{
		Event:           event,
		Quote:           q,
		ClientPhoneE164: E164(q.Client.Data().Phone, DefaultRegion),
		PDFPath:         PDFPath(q.Number),
	}
}

// PDFPath is where the server renders the quote's PDF.
func PDFPath(number string) string {
	return "/quotes/" + url.PathEscape(number) + "/pdf"
}

// E164 formats phone as +5511987654321. Numbers that do not parse, or are not
// valid for their region, yield "".
func E164(phone, region string) string {
	if strings.TrimSpace(phone) == "" {
		return ""
	}
	p, err := libphonenumber.Parse(phone, region)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return ""
	}
	return libphonenumber.Format(p, libphonenumber.E164)
}
