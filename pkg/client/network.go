package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/meshline/meshline-go/internal/geo"
	"github.com/meshline/meshline-go/pkg/models"
)

// SendConnectionRequest asks another user to connect.
func (c *Client) SendConnectionRequest(ctx context.Context, targetUserID string) (json.RawMessage, error) {
	if targetUserID == "" {
		return nil, fmt.Errorf("target user id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/network/connect", nil, map[string]string{"targetUserId": targetUserID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AcceptConnection accepts a pending request from senderUserID.
func (c *Client) AcceptConnection(ctx context.Context, senderUserID string) (json.RawMessage, error) {
	if senderUserID == "" {
		return nil, fmt.Errorf("sender user id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/network/accept", nil, map[string]string{"senderUserId": senderUserID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeclineConnection declines a pending request from senderUserID.
func (c *Client) DeclineConnection(ctx context.Context, senderUserID string) (json.RawMessage, error) {
	if senderUserID == "" {
		return nil, fmt.Errorf("sender user id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/network/decline", nil, map[string]string{"senderUserId": senderUserID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Connections lists the user's established connections, optionally filtered
// by connection type. Failures downgrade to an empty list.
func (c *Client) Connections(ctx context.Context, connType string) ([]json.RawMessage, error) {
	q := url.Values{}
	setStr(q, "type", connType)

	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/network/connections", q, nil, &out); err != nil {
		logger.Error("client: fetch connections", "err", err)
		return []json.RawMessage{}, nil
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

// ConnectionRequests lists pending incoming requests. Failures downgrade to
// an empty list.
func (c *Client) ConnectionRequests(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/network/requests", nil, nil, &out); err != nil {
		logger.Error("client: fetch connection requests", "err", err)
		return []json.RawMessage{}, nil
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

// FollowUser follows a user without a connection handshake.
func (c *Client) FollowUser(ctx context.Context, userID string) (json.RawMessage, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/users/"+userID+"/follow", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// nearbyEnvelope tolerates every shape the backend has returned for the
// nearby listing: a bare array or an object keyed users/data/results.
type nearbyEnvelope struct {
	users []models.NearbyUser
}

func (e *nearbyEnvelope) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &e.users); err == nil {
		return nil
	}
	var wrapped struct {
		Users   []models.NearbyUser `json:"users"`
		Data    []models.NearbyUser `json:"data"`
		Results []models.NearbyUser `json:"results"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	switch {
	case wrapped.Users != nil:
		e.users = wrapped.Users
	case wrapped.Data != nil:
		e.users = wrapped.Data
	case wrapped.Results != nil:
		e.users = wrapped.Results
	}
	return nil
}

// NearbyProfessionals lists users within distanceKM of the given position,
// closest first; users the backend reports without a distance sort last.
// Failures downgrade to an empty list so the map view stays renderable.
func (c *Client) NearbyProfessionals(ctx context.Context, distanceKM, latitude, longitude float64) ([]models.NearbyUser, error) {
	q := url.Values{}
	q.Set("distance", strconv.FormatFloat(distanceKM, 'f', -1, 64))
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))

	var env nearbyEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/network/nearby", q, nil, &env); err != nil {
		logger.Error("client: fetch nearby professionals", "err", err)
		return []models.NearbyUser{}, nil
	}
	users := env.users
	if users == nil {
		users = []models.NearbyUser{}
	}
	geo.SortByDistance(users)
	return users, nil
}

// ProfessionalSuggestions lists connection suggestions, filtering out the
// caller and anyone already connected. Failures downgrade to an empty list.
func (c *Client) ProfessionalSuggestions(ctx context.Context, opts models.SuggestionOptions) ([]models.NearbyUser, error) {
	q := url.Values{}
	setInt(q, "limit", opts.Limit)
	setStr(q, "industry", opts.Industry)
	setStr(q, "skills", opts.Skills)

	var env nearbyEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/network/suggestions", q, nil, &env); err != nil {
		logger.Error("client: fetch professional suggestions", "err", err)
		return []models.NearbyUser{}, nil
	}

	self, _ := c.session.UserID(ctx)
	out := make([]models.NearbyUser, 0, len(env.users))
	for _, u := range env.users {
		if u.ID == self || u.IsConnected {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// MapUsers lists users for the map overlay within the given bounds.
func (c *Client) MapUsers(ctx context.Context, opts models.MapUserOptions) ([]models.NearbyUser, error) {
	q := url.Values{}
	setFloat(q, "latitude", opts.Latitude)
	setFloat(q, "longitude", opts.Longitude)
	setInt(q, "radius", opts.Radius)
	setStr(q, "industries", opts.Industries)
	setStr(q, "skills", opts.Skills)
	setBool(q, "availableForMeeting", opts.AvailableForMeeting)
	setBool(q, "availableForHiring", opts.AvailableForHiring)
	setBool(q, "lookingForWork", opts.LookingForWork)
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)

	var env nearbyEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/map/users", q, nil, &env); err != nil {
		logger.Error("client: fetch map users", "err", err)
		return []models.NearbyUser{}, nil
	}
	if env.users == nil {
		return []models.NearbyUser{}, nil
	}
	return env.users, nil
}

// UpdateLocationStatus toggles the user's visibility on the map.
func (c *Client) UpdateLocationStatus(ctx context.Context, visible bool, status string) (json.RawMessage, error) {
	body := map[string]any{"visible": visible}
	if status != "" {
		body["status"] = status
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/location/status", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RequestMeeting proposes an in-person meeting with a nearby user.
func (c *Client) RequestMeeting(ctx context.Context, targetUserID string, details any) (json.RawMessage, error) {
	if targetUserID == "" {
		return nil, fmt.Errorf("target user id is required")
	}
	body := map[string]any{
		"targetUserId": targetUserID,
		"details":      details,
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/meetings/request", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RespondToMeeting accepts or declines a meeting request.
func (c *Client) RespondToMeeting(ctx context.Context, meetingID, response string) (json.RawMessage, error) {
	if meetingID == "" || response == "" {
		return nil, fmt.Errorf("meeting id and response are required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/meetings/"+meetingID, nil, map[string]string{"response": response}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Meetings lists the user's meetings, optionally filtered by status.
func (c *Client) Meetings(ctx context.Context, opts models.MeetingOptions) ([]json.RawMessage, error) {
	q := url.Values{}
	setStr(q, "status", opts.Status)
	setStr(q, "type", opts.Type)
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)

	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/meetings", q, nil, &out); err != nil {
		logger.Error("client: fetch meetings", "err", err)
		return []json.RawMessage{}, nil
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}
