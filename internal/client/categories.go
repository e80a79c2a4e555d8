package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"wallet/internal/pagination"
)

// Category is a user's category.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryInput is the body of POST and PATCH /categories.
type CategoryInput struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

type categoryEnvelope struct {
	Category Category `json:"category"`
}

// Categories lists one page of categories.
func (c *Client) Categories(ctx context.Context, page, perPage int) ([]Category, pagination.Query, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	var resp pagination.PageResponse[Category]
	if err := c.do(ctx, http.MethodGet, "/categories", q, nil, &resp); err != nil {
		return nil, pagination.Query{}, err
	}
	return resp.Items("categories"), resp.Query, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	var resp categoryEnvelope
	if err := c.do(ctx, http.MethodPost, "/categories", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

// GetCategory fetches a category by id.
func (c *Client) GetCategory(ctx context.Context, id string) (*Category, error) {
	var resp categoryEnvelope
	if err := c.do(ctx, http.MethodGet, "/categories/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

// UpdateCategory renames or recolors a category.
func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error) {
	var resp categoryEnvelope
	if err := c.do(ctx, http.MethodPatch, "/categories/"+url.PathEscape(id), nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

// DeleteCategory deletes a category. Its entries become uncategorized.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil, nil)
}
