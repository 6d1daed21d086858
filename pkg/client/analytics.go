package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// EventAnalyticsSummary aggregates stats across all events the caller
// organizes for the given period.
func (c *Client) EventAnalyticsSummary(ctx context.Context, period string) (json.RawMessage, error) {
	q := url.Values{}
	setStr(q, "period", period)

	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/analytics/events", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NetworkAnalytics returns connection-growth stats for the given period.
func (c *Client) NetworkAnalytics(ctx context.Context, period string) (json.RawMessage, error) {
	q := url.Values{}
	setStr(q, "period", period)

	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/analytics/network", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
