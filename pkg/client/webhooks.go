package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Webhook describes an outbound notification subscription.
type Webhook struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret,omitempty"`
}

// RegisterWebhook subscribes a URL to backend events after validating the
// subscription against the webhook schema.
func (c *Client) RegisterWebhook(ctx context.Context, hook Webhook) (json.RawMessage, error) {
	if err := validatePayload(ctx, "webhook", hook); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/webhooks", nil, hook, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Webhooks lists the caller's registered webhooks.
func (c *Client) Webhooks(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/webhooks", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteWebhook removes a subscription.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	if webhookID == "" {
		return fmt.Errorf("webhook id is required")
	}
	return c.do(ctx, http.MethodDelete, "/api/webhooks/"+webhookID, nil, nil, nil)
}
