package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meshline/meshline-go/pkg/models"
)

// CreateEvent publishes an event. The form's scalar fields are validated
// against the event schema before anything goes on the wire.
func (c *Client) CreateEvent(ctx context.Context, form *Form) (json.RawMessage, error) {
	payload := map[string]any{
		"title":    form.Value("title"),
		"startsAt": form.Value("startsAt"),
	}
	if err := validatePayload(ctx, "event", payload); err != nil {
		return nil, err
	}

	var out json.RawMessage
	if err := c.doMultipart(ctx, http.MethodPost, "/api/events", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRecurringEvent publishes an event with a recurrence rule attached.
func (c *Client) CreateRecurringEvent(ctx context.Context, form *Form, recurrence any) (json.RawMessage, error) {
	if recurrence == nil {
		return nil, fmt.Errorf("recurrence rule is required")
	}
	form.Set("recurrence", recurrence)
	return c.CreateEvent(ctx, form)
}

// Events lists upcoming events. Failures downgrade to an empty list.
func (c *Client) Events(ctx context.Context, opts models.PageOptions) ([]models.Event, error) {
	var out []models.Event
	if err := c.do(ctx, http.MethodGet, "/api/events", pageQuery(opts), nil, &out); err != nil {
		logger.Error("client: fetch events", "err", err)
		return []models.Event{}, nil
	}
	if out == nil {
		out = []models.Event{}
	}
	return out, nil
}

// RespondToEvent records an RSVP (going, interested, declined).
func (c *Client) RespondToEvent(ctx context.Context, eventID, response string) (json.RawMessage, error) {
	if eventID == "" || response == "" {
		return nil, fmt.Errorf("event id and response are required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/events/"+eventID+"/respond", nil, map[string]string{"response": response}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventAttendees pages through an event's attendee list.
func (c *Client) EventAttendees(ctx context.Context, eventID string, opts models.AttendeeOptions) ([]json.RawMessage, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	q := url.Values{}
	setStr(q, "status", opts.Status)
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)
	setStr(q, "search", opts.Search)

	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/events/"+eventID+"/attendees", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InviteToEvent invites users to an event.
func (c *Client) InviteToEvent(ctx context.Context, eventID string, userIDs []string) (json.RawMessage, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("at least one user id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/events/"+eventID+"/invite", nil, map[string]any{"userIds": userIDs}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckInToEvent records attendance, optionally with the check-in position.
func (c *Client) CheckInToEvent(ctx context.Context, eventID string, location *models.UserLocation) (json.RawMessage, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	body := map[string]any{}
	if location != nil {
		body["latitude"] = location.Latitude
		body["longitude"] = location.Longitude
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/events/"+eventID+"/checkin", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventAnalytics returns attendance and engagement stats for an event the
// caller organizes.
func (c *Client) EventAnalytics(ctx context.Context, eventID string) (json.RawMessage, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/events/"+eventID+"/analytics", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NearbyEvents lists events around a position for the map overlay. Failures
// downgrade to an empty list.
func (c *Client) NearbyEvents(ctx context.Context, opts models.NearbyEventOptions) ([]models.Event, error) {
	q := url.Values{}
	setFloat(q, "latitude", opts.Latitude)
	setFloat(q, "longitude", opts.Longitude)
	setInt(q, "radius", opts.Radius)
	setStr(q, "startDate", opts.StartDate)
	setStr(q, "endDate", opts.EndDate)
	setStr(q, "categories", opts.Categories)
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)

	var out []models.Event
	if err := c.do(ctx, http.MethodGet, "/api/map/events", q, nil, &out); err != nil {
		logger.Error("client: fetch nearby events", "err", err)
		return []models.Event{}, nil
	}
	if out == nil {
		out = []models.Event{}
	}
	return out, nil
}
