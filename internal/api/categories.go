package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListCategories returns all letter categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	_, err := c.do(ctx, http.MethodGet, "/kategori", nil, nil, &cats)
	return cats, err
}

// GetCategory returns one category.
func (c *Client) GetCategory(ctx context.Context, id int64) (Category, error) {
	var cat Category
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/kategori/%d", id), nil, nil, &cat)
	return cat, err
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	var cat Category
	_, err := c.do(ctx, http.MethodPost, "/kategori", nil, in, &cat)
	return cat, err
}

// UpdateCategory changes the non-empty fields of in.
func (c *Client) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (Category, error) {
	var cat Category
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/kategori/%d", id), nil, in, &cat)
	return cat, err
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/kategori/%d", id), nil, nil, nil)
	return err
}
