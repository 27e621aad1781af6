package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dukerupert/basket/internal/model"
)

func (c *Client) DefaultCategories(ctx context.Context) ([]model.Category, error) {
	return c.categories(ctx, "null")
}

func (c *Client) HouseholdCategories(ctx context.Context, householdID string) ([]model.Category, error) {
	return c.categories(ctx, householdID)
}

func (c *Client) categories(ctx context.Context, householdID string) ([]model.Category, error) {
	var cats []model.Category
	err := c.do(ctx, request{op: "fetch categories", method: http.MethodGet, path: "/api/categories",
		query: url.Values{"household_id": {householdID}}}, &cats)
	return cats, err
}

func (c *Client) InsertCategory(ctx context.Context, householdID, name string) (*model.Category, error) {
	var cat model.Category
	err := c.do(ctx, request{op: "add category", method: http.MethodPost, path: "/api/categories",
		body: map[string]string{"household_id": householdID, "name": name}}, &cat)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, categoryID, name string) (*model.Category, error) {
	var cat model.Category
	err := c.do(ctx, request{op: "update category", method: http.MethodPatch, path: "/api/categories/" + id(categoryID),
		body: map[string]string{"name": name}}, &cat)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, categoryID string) error {
	return c.do(ctx, request{op: "delete category", method: http.MethodDelete, path: "/api/categories/" + id(categoryID)}, nil)
}

func (c *Client) ReassignItemsCategory(ctx context.Context, householdID, from, to string) (int64, error) {
	var out struct {
		Updated int64 `json:"updated"`
	}
	err := c.do(ctx, request{op: "reassign items", method: http.MethodPost,
		path: "/api/households/" + id(householdID) + "/items/reassign",
		body: map[string]string{"from": from, "to": to}}, &out)
	return out.Updated, err
}
