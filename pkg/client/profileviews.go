package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
)

// objectIDPattern matches the backend's 24-hex record ids. View recording is
// skipped for anything else (slugs, "view", empty) to avoid noisy 400s.
var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// RecordProfileView registers that the caller viewed a profile. Invalid ids
// are silently skipped; recording is best effort and never surfaces an error
// to the view layer.
func (c *Client) RecordProfileView(ctx context.Context, userID, source string) {
	if !objectIDPattern.MatchString(userID) {
		return
	}
	body := map[string]string{}
	if source != "" {
		body["source"] = source
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/"+userID+"/views", nil, body, nil); err != nil {
		logger.Debug("client: record profile view", "userID", userID, "err", err)
	}
}

// ProfileViewers lists who viewed the caller's profile. Failures downgrade
// to an empty list.
func (c *Client) ProfileViewers(ctx context.Context, limit, page int) ([]json.RawMessage, error) {
	q := url.Values{}
	setInt(q, "limit", limit)
	setInt(q, "page", page)

	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/profile/viewers", q, nil, &out); err != nil {
		logger.Error("client: fetch profile viewers", "err", err)
		return []json.RawMessage{}, nil
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

// ProfileViewAnalytics returns aggregate view counts for the given period
// (defaults to the backend's window when empty).
func (c *Client) ProfileViewAnalytics(ctx context.Context, period string) (json.RawMessage, error) {
	q := url.Values{}
	setStr(q, "period", period)

	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/profile/views/analytics", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfileViewPrivacy sets whether the caller appears in others' viewer
// lists.
func (c *Client) UpdateProfileViewPrivacy(ctx context.Context, mode string) (json.RawMessage, error) {
	if mode == "" {
		return nil, fmt.Errorf("privacy mode is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/profile/views/privacy", nil, map[string]string{"mode": mode}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProfileViewActivity lists the caller's own recent viewing activity.
func (c *Client) ProfileViewActivity(ctx context.Context, limit int) ([]json.RawMessage, error) {
	q := url.Values{}
	setInt(q, "limit", limit)

	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/profile/views/activity", q, nil, &out); err != nil {
		logger.Error("client: fetch profile view activity", "err", err)
		return []json.RawMessage{}, nil
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}
