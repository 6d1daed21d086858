package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meshline/meshline-go/pkg/models"
)

// DiscoveryDashboard returns the aggregated discovery page payload.
func (c *Client) DiscoveryDashboard(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/discovery/dashboard", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContentFeed pages through the personalized content feed. Failures
// downgrade to an empty list.
func (c *Client) ContentFeed(ctx context.Context, opts models.FeedOptions) ([]json.RawMessage, error) {
	q := url.Values{}
	setStr(q, "type", opts.Type)
	setStr(q, "filter", opts.Filter)
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)
	setStr(q, "location", opts.Location)

	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/discovery/feed", q, nil, &out); err != nil {
		logger.Error("client: fetch content feed", "err", err)
		return []json.RawMessage{}, nil
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

// Trending returns what is trending for the given period and category.
func (c *Client) Trending(ctx context.Context, opts models.TrendingOptions) (json.RawMessage, error) {
	q := url.Values{}
	setStr(q, "period", opts.Period)
	setStr(q, "category", opts.Category)
	setStr(q, "location", opts.Location)

	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/discovery/trending", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search runs a typed search across users, posts, jobs, and events.
func (c *Client) Search(ctx context.Context, query string, opts models.SearchOptions) (json.RawMessage, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	q := url.Values{}
	q.Set("q", query)
	setStr(q, "type", opts.Type)
	setStr(q, "filter", opts.Filter)
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)

	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/search", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
