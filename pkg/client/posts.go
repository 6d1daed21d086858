package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meshline/meshline-go/pkg/models"
)

// CreatePost uploads a post, with any media attached as multipart parts.
func (c *Client) CreatePost(ctx context.Context, form *Form) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doMultipart(ctx, http.MethodPost, "/api/posts", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// postsEnvelope tolerates both a bare array and a {posts: [...]} wrapper.
type postsEnvelope struct {
	Posts []json.RawMessage `json:"posts"`
}

// Posts fetches the feed page. Transport failures downgrade to an empty
// list so the feed stays renderable.
func (c *Client) Posts(ctx context.Context, opts models.PostOptions) ([]json.RawMessage, error) {
	q := url.Values{}
	setInt(q, "limit", opts.Limit)
	setStr(q, "before", opts.Before)
	setStr(q, "after", opts.After)

	var env postsEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/posts", q, nil, &env); err != nil {
		logger.Error("client: fetch posts", "err", err)
		return []json.RawMessage{}, nil
	}
	if env.Posts == nil {
		return []json.RawMessage{}, nil
	}
	return env.Posts, nil
}

// ReactToPost adds a reaction; the default reaction is "like".
func (c *Client) ReactToPost(ctx context.Context, postID, reaction string) (json.RawMessage, error) {
	if postID == "" {
		return nil, fmt.Errorf("post id is required")
	}
	if reaction == "" {
		reaction = "like"
	}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/react", nil, map[string]string{"reaction": reaction}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CommentOnPost adds a comment.
func (c *Client) CommentOnPost(ctx context.Context, postID, content string) (json.RawMessage, error) {
	if postID == "" {
		return nil, fmt.Errorf("post id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/comments", nil, map[string]string{"content": content}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PostComments lists a post's comments.
func (c *Client) PostComments(ctx context.Context, postID string, limit int) (json.RawMessage, error) {
	if postID == "" {
		return nil, fmt.Errorf("post id is required")
	}
	q := url.Values{}
	setInt(q, "limit", limit)

	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postID+"/comments", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SharePost re-shares a post with optional commentary.
func (c *Client) SharePost(ctx context.Context, postID, content string) (json.RawMessage, error) {
	if postID == "" {
		return nil, fmt.Errorf("post id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/share", nil, map[string]string{"content": content}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	if postID == "" {
		return fmt.Errorf("post id is required")
	}
	return c.do(ctx, http.MethodDelete, "/api/posts/"+postID, nil, nil, nil)
}
