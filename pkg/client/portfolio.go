package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meshline/meshline-go/pkg/models"
)

// CreateProject adds a portfolio project. The title is checked before
// anything goes on the wire.
func (c *Client) CreateProject(ctx context.Context, form *Form) (json.RawMessage, error) {
	if form.Value("title") == "" {
		return nil, fmt.Errorf("project title is required")
	}
	var out json.RawMessage
	if err := c.doMultipart(ctx, http.MethodPost, "/api/portfolio/projects", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteProject removes a portfolio project.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	if projectID == "" {
		return fmt.Errorf("project id is required")
	}
	return c.do(ctx, http.MethodDelete, "/api/portfolio/projects/"+projectID, nil, nil, nil)
}

// CreateAchievement records an achievement.
func (c *Client) CreateAchievement(ctx context.Context, achievement any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/portfolio/achievements", nil, achievement, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAchievement removes an achievement.
func (c *Client) DeleteAchievement(ctx context.Context, achievementID string) error {
	if achievementID == "" {
		return fmt.Errorf("achievement id is required")
	}
	return c.do(ctx, http.MethodDelete, "/api/portfolio/achievements/"+achievementID, nil, nil, nil)
}

// CreateStreak starts tracking a professional streak.
func (c *Client) CreateStreak(ctx context.Context, streak any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/portfolio/streaks", nil, streak, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteStreak stops tracking a streak.
func (c *Client) DeleteStreak(ctx context.Context, streakID string) error {
	if streakID == "" {
		return fmt.Errorf("streak id is required")
	}
	return c.do(ctx, http.MethodDelete, "/api/portfolio/streaks/"+streakID, nil, nil, nil)
}

// pagedPortfolio downgrades a listing failure to an empty page.
func (c *Client) pagedPortfolio(ctx context.Context, path string, q url.Values) (models.PagedItems, error) {
	var out models.PagedItems
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		logger.Error("client: fetch portfolio listing", "path", path, "err", err)
		return models.PagedItems{Items: []json.RawMessage{}}, nil
	}
	if out.Items == nil {
		out.Items = []json.RawMessage{}
	}
	return out, nil
}

// UserProjects pages a user's projects. Failures downgrade to an empty page.
func (c *Client) UserProjects(ctx context.Context, userID string, opts models.PageOptions) (models.PagedItems, error) {
	if userID == "" {
		return models.PagedItems{}, fmt.Errorf("user id is required")
	}
	q := url.Values{}
	setInt(q, "limit", opts.Limit)
	setInt(q, "page", opts.Page)
	return c.pagedPortfolio(ctx, "/api/users/"+userID+"/projects", q)
}

// UserAchievements pages a user's achievements. Failures downgrade to an
// empty page.
func (c *Client) UserAchievements(ctx context.Context, userID string, opts models.PageOptions) (models.PagedItems, error) {
	if userID == "" {
		return models.PagedItems{}, fmt.Errorf("user id is required")
	}
	q := url.Values{}
	setInt(q, "limit", opts.Limit)
	setInt(q, "page", opts.Page)
	return c.pagedPortfolio(ctx, "/api/users/"+userID+"/achievements", q)
}

// UserStreaks pages a user's streaks, optionally filtered to active ones.
// Failures downgrade to an empty page.
func (c *Client) UserStreaks(ctx context.Context, userID string, opts models.StreakOptions) (models.PagedItems, error) {
	if userID == "" {
		return models.PagedItems{}, fmt.Errorf("user id is required")
	}
	q := url.Values{}
	setInt(q, "limit", opts.Limit)
	setInt(q, "page", opts.Page)
	if opts.Active != nil {
		q.Set("active", fmt.Sprint(*opts.Active))
	}
	return c.pagedPortfolio(ctx, "/api/users/"+userID+"/streaks", q)
}
