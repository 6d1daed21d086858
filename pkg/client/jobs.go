package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meshline/meshline-go/pkg/models"
)

// CreateJob publishes a job listing after validating it against the job
// schema.
func (c *Client) CreateJob(ctx context.Context, job any) (json.RawMessage, error) {
	if err := validatePayload(ctx, "job", job); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/jobs", nil, job, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Jobs lists job postings. Failures downgrade to an empty list.
func (c *Client) Jobs(ctx context.Context, opts models.PageOptions) ([]models.Job, error) {
	var out []models.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs", pageQuery(opts), nil, &out); err != nil {
		logger.Error("client: fetch jobs", "err", err)
		return []models.Job{}, nil
	}
	if out == nil {
		out = []models.Job{}
	}
	return out, nil
}

// ApplyToJob submits an application, resume attached as a multipart part.
func (c *Client) ApplyToJob(ctx context.Context, jobID string, form *Form) (json.RawMessage, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	var out json.RawMessage
	if err := c.doMultipart(ctx, http.MethodPost, "/api/jobs/"+jobID+"/apply", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveJob bookmarks a job for later.
func (c *Client) SaveJob(ctx context.Context, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("job id is required")
	}
	return c.do(ctx, http.MethodPost, "/api/jobs/"+jobID+"/save", nil, nil, nil)
}

// NearbyJobs lists jobs around a position for the map overlay. Failures
// downgrade to an empty list.
func (c *Client) NearbyJobs(ctx context.Context, opts models.NearbyJobOptions) ([]models.Job, error) {
	q := url.Values{}
	setFloat(q, "latitude", opts.Latitude)
	setFloat(q, "longitude", opts.Longitude)
	setInt(q, "radius", opts.Radius)
	setStr(q, "jobTypes", opts.JobTypes)
	setStr(q, "experienceLevels", opts.ExperienceLevels)
	setStr(q, "industries", opts.Industries)
	setBool(q, "remote", opts.Remote)
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)

	var out []models.Job
	if err := c.do(ctx, http.MethodGet, "/api/map/jobs", q, nil, &out); err != nil {
		logger.Error("client: fetch nearby jobs", "err", err)
		return []models.Job{}, nil
	}
	if out == nil {
		out = []models.Job{}
	}
	return out, nil
}
