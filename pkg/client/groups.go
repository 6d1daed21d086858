package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meshline/meshline-go/pkg/models"
)

// CreateGroup creates a professional group, cover image attached as a
// multipart part.
func (c *Client) CreateGroup(ctx context.Context, form *Form) (json.RawMessage, error) {
	if form.Value("name") == "" {
		return nil, fmt.Errorf("group name is required")
	}
	var out json.RawMessage
	if err := c.doMultipart(ctx, http.MethodPost, "/api/groups", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Groups lists groups the user can see. Failures downgrade to an empty list.
func (c *Client) Groups(ctx context.Context, opts models.PageOptions) ([]models.Group, error) {
	var out []models.Group
	if err := c.do(ctx, http.MethodGet, "/api/groups", pageQuery(opts), nil, &out); err != nil {
		logger.Error("client: fetch groups", "err", err)
		return []models.Group{}, nil
	}
	if out == nil {
		out = []models.Group{}
	}
	return out, nil
}

// ManageGroupMembership joins or leaves a group. action is "join" or "leave".
func (c *Client) ManageGroupMembership(ctx context.Context, groupID, action string) (json.RawMessage, error) {
	if groupID == "" {
		return nil, fmt.Errorf("group id is required")
	}
	if action != "join" && action != "leave" {
		return nil, fmt.Errorf("action must be join or leave, got %q", action)
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/groups/"+groupID+"/"+action, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReviewMembershipRequest approves or rejects a pending join request.
func (c *Client) ReviewMembershipRequest(ctx context.Context, groupID, userID, decision string) (json.RawMessage, error) {
	if groupID == "" || userID == "" {
		return nil, fmt.Errorf("group id and user id are required")
	}
	if decision != "approve" && decision != "reject" {
		return nil, fmt.Errorf("decision must be approve or reject, got %q", decision)
	}
	body := map[string]string{"userId": userID, "decision": decision}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/groups/"+groupID+"/requests", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateGroupPost publishes a post inside a group, media attached as
// multipart parts.
func (c *Client) CreateGroupPost(ctx context.Context, groupID string, form *Form) (json.RawMessage, error) {
	if groupID == "" {
		return nil, fmt.Errorf("group id is required")
	}
	var out json.RawMessage
	if err := c.doMultipart(ctx, http.MethodPost, "/api/groups/"+groupID+"/posts", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NearbyGroups lists groups around a position for the map overlay. Failures
// downgrade to an empty list.
func (c *Client) NearbyGroups(ctx context.Context, opts models.NearbyGroupOptions) ([]models.Group, error) {
	q := url.Values{}
	setFloat(q, "latitude", opts.Latitude)
	setFloat(q, "longitude", opts.Longitude)
	setInt(q, "radius", opts.Radius)
	setStr(q, "types", opts.Types)
	setStr(q, "categories", opts.Categories)
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)

	var out []models.Group
	if err := c.do(ctx, http.MethodGet, "/api/map/groups", q, nil, &out); err != nil {
		logger.Error("client: fetch nearby groups", "err", err)
		return []models.Group{}, nil
	}
	if out == nil {
		out = []models.Group{}
	}
	return out, nil
}
