package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CreateStory uploads a story, media attached as multipart parts.
func (c *Client) CreateStory(ctx context.Context, form *Form) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doMultipart(ctx, http.MethodPost, "/api/stories", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stories fetches the story tray. Failures downgrade to an empty list.
func (c *Client) Stories(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/stories", nil, nil, &out); err != nil {
		logger.Error("client: fetch stories", "err", err)
		return []json.RawMessage{}, nil
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

// ViewStory records a view.
func (c *Client) ViewStory(ctx context.Context, storyID string) error {
	if storyID == "" {
		return fmt.Errorf("story id is required")
	}
	return c.do(ctx, http.MethodPost, "/api/stories/"+storyID+"/view", nil, nil, nil)
}

// ReactToStory adds a reaction to a story.
func (c *Client) ReactToStory(ctx context.Context, storyID, reaction string) (json.RawMessage, error) {
	if storyID == "" {
		return nil, fmt.Errorf("story id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/stories/"+storyID+"/react", nil, map[string]string{"reaction": reaction}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplyToStory sends a direct reply to a story.
func (c *Client) ReplyToStory(ctx context.Context, storyID, message string) (json.RawMessage, error) {
	if storyID == "" {
		return nil, fmt.Errorf("story id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/stories/"+storyID+"/reply", nil, map[string]string{"message": message}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Highlights lists a user's story highlights.
func (c *Client) Highlights(ctx context.Context, userID string) (json.RawMessage, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/highlights/"+userID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateHighlight groups stories under a titled highlight.
func (c *Client) CreateHighlight(ctx context.Context, title string, storyIDs []string) (json.RawMessage, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	body := map[string]any{"title": title, "stories": storyIDs}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/highlights", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}
