package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/meshline/meshline-go/pkg/models"
)

// CreateCompany registers a company page, logo attached as a multipart part.
func (c *Client) CreateCompany(ctx context.Context, form *Form) (json.RawMessage, error) {
	if form.Value("name") == "" {
		return nil, fmt.Errorf("company name is required")
	}
	var out json.RawMessage
	if err := c.doMultipart(ctx, http.MethodPost, "/api/companies", form, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Companies lists companies, optionally filtered by industry. Failures
// downgrade to an empty list.
func (c *Client) Companies(ctx context.Context, industry string, opts models.PageOptions) ([]models.Company, error) {
	q := pageQuery(opts)
	setStr(q, "industry", industry)

	var out []models.Company
	if err := c.do(ctx, http.MethodGet, "/api/companies", q, nil, &out); err != nil {
		logger.Error("client: fetch companies", "err", err)
		return []models.Company{}, nil
	}
	if out == nil {
		out = []models.Company{}
	}
	return out, nil
}

// Company fetches one company page.
func (c *Client) Company(ctx context.Context, companyID string) (json.RawMessage, error) {
	if companyID == "" {
		return nil, fmt.Errorf("company id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/companies/"+companyID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FollowCompany follows a company page.
func (c *Client) FollowCompany(ctx context.Context, companyID string) (json.RawMessage, error) {
	if companyID == "" {
		return nil, fmt.Errorf("company id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/companies/"+companyID+"/follow", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompanyJobs lists a company's open positions.
func (c *Client) CompanyJobs(ctx context.Context, companyID string, opts models.PageOptions) ([]models.Job, error) {
	if companyID == "" {
		return nil, fmt.Errorf("company id is required")
	}
	q := url.Values{}
	setInt(q, "limit", opts.Limit)
	setInt(q, "page", opts.Page)

	var out []models.Job
	if err := c.do(ctx, http.MethodGet, "/api/companies/"+companyID+"/jobs", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
