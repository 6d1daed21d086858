package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/meshline/meshline-go/internal/realtime"
	"github.com/meshline/meshline-go/pkg/models"
)

// ContinuousLocationUpdate pushes one periodic position. It validates the
// coordinates locally and downgrades every failure into the result value, so
// a background tracking loop never has to branch on an error.
func (c *Client) ContinuousLocationUpdate(ctx context.Context, loc models.ContinuousLocation) models.UpdateResult {
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return models.UpdateResult{Error: fmt.Sprintf("coordinates out of range: %v, %v", loc.Latitude, loc.Longitude)}
	}

	if err := c.do(ctx, http.MethodPut, "/api/location/continuous", nil, loc, nil); err != nil {
		logger.Warn("client: continuous location update", "err", err)
		return models.UpdateResult{Error: err.Error()}
	}

	if c.channel.Connected() {
		c.channel.Emit(realtime.EventUpdateLocation, loc)
	}
	return models.UpdateResult{Success: true}
}

// ToggleLocationSharing starts or stops sharing live location with a chat.
func (c *Client) ToggleLocationSharing(ctx context.Context, chatID string, enabled bool, durationMinutes int) (json.RawMessage, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}
	body := map[string]any{"enabled": enabled}
	if durationMinutes > 0 {
		body["duration"] = durationMinutes
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/chats/"+chatID+"/location-sharing", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSharedLocation refreshes the position shown to a chat's members.
func (c *Client) UpdateSharedLocation(ctx context.Context, chatID string, latitude, longitude float64) (json.RawMessage, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}
	body := map[string]float64{"latitude": latitude, "longitude": longitude}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/chats/"+chatID+"/shared-location", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SharedLocationUsers lists chat members currently sharing their position.
// Failures downgrade to an empty list.
func (c *Client) SharedLocationUsers(ctx context.Context, chatID string) ([]json.RawMessage, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}
	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/chats/"+chatID+"/shared-location", nil, nil, &out); err != nil {
		logger.Error("client: fetch shared locations", "chatID", chatID, "err", err)
		return []json.RawMessage{}, nil
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

// IPLocation resolves an approximate position from the caller's IP. The
// backend is tried first; when it cannot answer, the external IP service
// configured in APIConfig.IPServiceURL is queried directly, without auth.
func (c *Client) IPLocation(ctx context.Context) (models.IPLocation, error) {
	var loc models.IPLocation
	if err := c.do(ctx, http.MethodGet, "/api/location/ip", nil, nil, &loc); err == nil {
		return loc, nil
	} else {
		logger.Debug("client: backend ip lookup failed, trying external service", "err", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.IPServiceURL, nil)
	if err != nil {
		return loc, fmt.Errorf("build ip service request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return loc, fmt.Errorf("ip service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return loc, fmt.Errorf("ip service returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return loc, fmt.Errorf("decode ip service response: %w", err)
	}
	return loc, nil
}
