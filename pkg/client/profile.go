package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meshline/meshline-go/internal/realtime"
	"github.com/meshline/meshline-go/pkg/models"
)

// UpdateProfile replaces the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, profile any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/profile", nil, profile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Profile fetches a user's profile. The special id "view" routes to the
// profile-view analytics endpoint instead.
func (c *Client) Profile(ctx context.Context, userID string) (json.RawMessage, error) {
	if userID == "view" {
		return c.ProfileViewAnalytics(ctx, "")
	}
	if userID == "" || userID == "undefined" {
		return nil, fmt.Errorf("valid user id is required")
	}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/users/"+userID+"/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateLocation persists a position and mirrors it on the realtime channel
// once the HTTP call has succeeded.
func (c *Client) UpdateLocation(ctx context.Context, latitude, longitude float64) (json.RawMessage, error) {
	body := map[string]float64{"latitude": latitude, "longitude": longitude}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/location", nil, body, &out); err != nil {
		return nil, err
	}
	c.channel.Emit(realtime.EventUpdateLocation, body)
	return out, nil
}

// UpdatePrivacySettings replaces the privacy block of the user's settings.
func (c *Client) UpdatePrivacySettings(ctx context.Context, privacy any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/privacy-settings", nil, map[string]any{"privacy": privacy}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BlockUser blocks another user.
func (c *Client) BlockUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	return c.do(ctx, http.MethodPost, "/api/users/"+userID+"/block", nil, nil, nil)
}

// Settings fetches the app settings.
func (c *Client) Settings(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSettings replaces the app settings.
func (c *Client) UpdateSettings(ctx context.Context, settings any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/settings", nil, settings, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EndorseSkill endorses one of a user's skills.
func (c *Client) EndorseSkill(ctx context.Context, userID, skillName string) error {
	if userID == "" || skillName == "" {
		return fmt.Errorf("user id and skill name are required")
	}
	body := map[string]string{"skillName": skillName}
	return c.do(ctx, http.MethodPost, "/api/users/"+userID+"/endorse", nil, body, nil)
}

// WriteRecommendation submits a recommendation for a user.
func (c *Client) WriteRecommendation(ctx context.Context, userID string, recommendation any) (json.RawMessage, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/users/"+userID+"/recommend", nil, recommendation, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ManageRecommendation accepts, hides, or declines a pending recommendation.
func (c *Client) ManageRecommendation(ctx context.Context, recommendationID string, action any) (json.RawMessage, error) {
	if recommendationID == "" {
		return nil, fmt.Errorf("recommendation id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/recommendations/"+recommendationID, nil, action, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// pageQuery builds the shared limit/page/period query block.
func pageQuery(opts models.PageOptions) url.Values {
	q := url.Values{}
	setInt(q, "limit", opts.Limit)
	setInt(q, "page", opts.Page)
	setStr(q, "period", opts.Period)
	return q
}
