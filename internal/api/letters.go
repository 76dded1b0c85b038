package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListLetters returns every letter matching f. Pagination happens client-side.
func (c *Client) ListLetters(ctx context.Context, f LetterFilter) ([]Letter, error) {
	var letters []Letter
	if _, err := c.do(ctx, http.MethodGet, "/surat", f.Values(), nil, &letters); err != nil {
		return nil, err
	}
	if letters == nil {
		letters = []Letter{}
	}
	return letters, nil
}

// GetLetter returns one letter.
func (c *Client) GetLetter(ctx context.Context, id int64) (Letter, error) {
	var l Letter
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/surat/%d", id), nil, nil, &l)
	return l, err
}

// CreateLetter creates a letter. The returned letter carries the reference
// number the server generated.
func (c *Client) CreateLetter(ctx context.Context, in NewLetter) (Letter, error) {
	var l Letter
	_, err := c.do(ctx, http.MethodPost, "/surat", nil, in, &l)
	return l, err
}

// UpdateLetter applies patch to a letter and returns the stored result.
func (c *Client) UpdateLetter(ctx context.Context, id int64, patch LetterPatch) (Letter, error) {
	var l Letter
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/surat/%d", id), nil, patch, &l)
	return l, err
}

// DeleteLetter deletes a letter.
func (c *Client) DeleteLetter(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/surat/%d", id), nil, nil, nil)
	return err
}

// LetterStats returns the dashboard statistics.
func (c *Client) LetterStats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	_, err := c.do(ctx, http.MethodGet, "/surat/stats", nil, nil, &s)
	return s, err
}

// AvailableYears returns the years that have letters, for the year filter.
func (c *Client) AvailableYears(ctx context.Context) ([]int, error) {
	var years []int
	_, err := c.do(ctx, http.MethodGet, "/surat/years", nil, nil, &years)
	return years, err
}

// CountByCompany returns letter counts per company.
func (c *Client) CountByCompany(ctx context.Context) ([]NamedCount, error) {
	var counts []NamedCount
	_, err := c.do(ctx, http.MethodGet, "/surat/count/perusahaan", nil, nil, &counts)
	return counts, err
}

// CountByCategory returns letter counts per category.
func (c *Client) CountByCategory(ctx context.Context) ([]NamedCount, error) {
	var counts []NamedCount
	_, err := c.do(ctx, http.MethodGet, "/surat/count/kategori", nil, nil, &counts)
	return counts, err
}
