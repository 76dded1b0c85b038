package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListCompanies returns all companies, or only active ones.
func (c *Client) ListCompanies(ctx context.Context, activeOnly bool) ([]Company, error) {
	var query url.Values
	if activeOnly {
		query = url.Values{"active": {"true"}}
	}
	var companies []Company
	_, err := c.do(ctx, http.MethodGet, "/perusahaan", query, nil, &companies)
	return companies, err
}

// GetCompany returns one company.
func (c *Client) GetCompany(ctx context.Context, id int64) (Company, error) {
	var co Company
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/perusahaan/%d", id), nil, nil, &co)
	return co, err
}

// CreateCompany creates a company.
func (c *Client) CreateCompany(ctx context.Context, in CompanyInput) (Company, error) {
	var co Company
	_, err := c.do(ctx, http.MethodPost, "/perusahaan", nil, in, &co)
	return co, err
}

// UpdateCompany changes the non-empty fields of in.
func (c *Client) UpdateCompany(ctx context.Context, id int64, in CompanyInput) (Company, error) {
	var co Company
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/perusahaan/%d", id), nil, in, &co)
	return co, err
}

// DeleteCompany deletes a company.
func (c *Client) DeleteCompany(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/perusahaan/%d", id), nil, nil, nil)
	return err
}
