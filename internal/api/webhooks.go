package api

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Webhook is an outbound event subscription.
type Webhook struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	Events    []string   `json:"events"`
	TenantID  *uuid.UUID `json:"tenant_id"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// WebhookCreate is the payload for registering a webhook.
type WebhookCreate struct {
	Name     string     `json:"name" validate:"required"`
	URL      string     `json:"url" validate:"required,url"`
	Events   []string   `json:"events"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Secret   string     `json:"secret,omitempty"`
}

// WebhookUpdate is a partial webhook update.
type WebhookUpdate struct {
	Name     *string    `json:"name,omitempty"`
	URL      *string    `json:"url,omitempty" validate:"omitempty,url"`
	Events   []string   `json:"events,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
	Secret   *string    `json:"secret,omitempty"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
}

// WebhookDelivery is one attempted delivery of an event.
type WebhookDelivery struct {
	ID             uuid.UUID      `json:"id"`
	WebhookID      uuid.UUID      `json:"webhook_id"`
	EventType      string         `json:"event_type"`
	Payload        map[string]any `json:"payload"`
	ResponseStatus string         `json:"response_status,omitempty"`
	Success        bool           `json:"success"`
	DeliveredAt    time.Time      `json:"delivered_at"`
}

// WebhookTestResult is the outcome of a test ping.
type WebhookTestResult struct {
	Success    bool   `json:"success"`
	StatusCode *int   `json:"status_code"`
	Response   string `json:"response,omitempty"`
	Error      string `json:"error,omitempty"`
}

// WebhookEventTrigger is the payload for manually dispatching an event to
// every matching webhook.
type WebhookEventTrigger struct {
	EventType string         `json:"event_type" validate:"required"`
	Data      map[string]any `json:"data,omitempty"`
	TenantID  *uuid.UUID     `json:"tenant_id,omitempty"`
}

// TriggerWebhookEvent dispatches an event to all subscribed webhooks and
// returns the resulting deliveries.
func (c *Client) TriggerWebhookEvent(ctx context.Context, req WebhookEventTrigger) ([]WebhookDelivery, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var deliveries []WebhookDelivery
	if err := c.do(ctx, "POST", "/webhooks/trigger", nil, req, &deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// ListWebhooks returns all registered webhooks.
func (c *Client) ListWebhooks(ctx context.Context, skip, limit int) ([]Webhook, error) {
	var hooks []Webhook
	if err := c.get(ctx, "/webhooks/", pageQuery(skip, limit), &hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

// GetWebhook fetches a webhook by ID.
func (c *Client) GetWebhook(ctx context.Context, webhookID string) (*Webhook, error) {
	var hook Webhook
	if err := c.get(ctx, "/webhooks/"+webhookID, nil, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

// CreateWebhook registers a new webhook.
func (c *Client) CreateWebhook(ctx context.Context, req WebhookCreate) (*Webhook, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var hook Webhook
	if err := c.do(ctx, "POST", "/webhooks/", nil, req, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

// UpdateWebhook applies a partial update to a webhook.
func (c *Client) UpdateWebhook(ctx context.Context, webhookID string, req WebhookUpdate) (*Webhook, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var hook Webhook
	if err := c.do(ctx, "PUT", "/webhooks/"+webhookID, nil, req, &hook); err != nil {
		return nil, err
	}
	return &hook, nil
}

// DeleteWebhook removes a webhook.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	return c.do(ctx, "DELETE", "/webhooks/"+webhookID, nil, nil, nil)
}

// TestWebhook sends a test event to a webhook endpoint.
func (c *Client) TestWebhook(ctx context.Context, webhookID, eventType string) (*WebhookTestResult, error) {
	body := struct {
		EventType string `json:"event_type,omitempty"`
	}{EventType: eventType}

	var result WebhookTestResult
	if err := c.do(ctx, "POST", "/webhooks/"+webhookID+"/test", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListWebhookDeliveries returns recent delivery attempts for a webhook.
func (c *Client) ListWebhookDeliveries(ctx context.Context, webhookID string, skip, limit int) ([]WebhookDelivery, error) {
	var deliveries []WebhookDelivery
	if err := c.get(ctx, "/webhooks/"+webhookID+"/deliveries", pageQuery(skip, limit), &deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}
