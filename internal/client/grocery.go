package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dukerupert/basket/internal/model"
)

func (c *Client) Lists(ctx context.Context, householdID string, includeArchived bool) ([]model.GroceryList, error) {
	var lists []model.GroceryList
	err := c.do(ctx, request{op: "fetch lists", method: http.MethodGet, path: "/api/grocery_lists",
		query: url.Values{
			"household_id":     {householdID},
			"include_archived": {strconv.FormatBool(includeArchived)},
		}}, &lists)
	return lists, err
}

func (c *Client) GetList(ctx context.Context, listID string) (*model.GroceryList, error) {
	var l model.GroceryList
	err := c.do(ctx, request{op: "get list", method: http.MethodGet, path: "/api/grocery_lists/" + id(listID)}, &l)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) InsertList(ctx context.Context, in model.NewList) (*model.GroceryList, error) {
	var l model.GroceryList
	err := c.do(ctx, request{op: "create list", method: http.MethodPost, path: "/api/grocery_lists", body: in}, &l)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) UpdateList(ctx context.Context, listID string, p model.ListPatch) (*model.GroceryList, error) {
	var l model.GroceryList
	err := c.do(ctx, request{op: "update list", method: http.MethodPatch, path: "/api/grocery_lists/" + id(listID), body: p}, &l)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) DeleteList(ctx context.Context, listID string) error {
	return c.do(ctx, request{op: "delete list", method: http.MethodDelete, path: "/api/grocery_lists/" + id(listID)}, nil)
}

// UploadReceipt streams the image as the raw request body.
func (c *Client) UploadReceipt(ctx context.Context, listID, contentType string, body io.Reader) (string, error) {
	var out struct {
		ReceiptURL string `json:"receipt_url"`
	}
	err := c.do(ctx, request{op: "upload receipt", method: http.MethodPost,
		path: "/api/grocery_lists/" + id(listID) + "/receipt",
		raw:  body, contentType: contentType}, &out)
	return out.ReceiptURL, err
}

func (c *Client) Items(ctx context.Context, listID string) ([]model.GroceryItem, error) {
	var items []model.GroceryItem
	err := c.do(ctx, request{op: "fetch items", method: http.MethodGet,
		path: "/api/grocery_lists/" + id(listID) + "/items"}, &items)
	return items, err
}

func (c *Client) GetItem(ctx context.Context, itemID string) (*model.GroceryItem, error) {
	var item model.GroceryItem
	err := c.do(ctx, request{op: "get item", method: http.MethodGet, path: "/api/grocery_items/" + id(itemID)}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) InsertItem(ctx context.Context, in model.NewItem) (*model.GroceryItem, error) {
	var item model.GroceryItem
	err := c.do(ctx, request{op: "add item", method: http.MethodPost, path: "/api/grocery_items", body: in}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateItem(ctx context.Context, itemID string, p model.ItemPatch) (*model.GroceryItem, error) {
	var item model.GroceryItem
	err := c.do(ctx, request{op: "update item", method: http.MethodPatch, path: "/api/grocery_items/" + id(itemID), body: p}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	return c.do(ctx, request{op: "delete item", method: http.MethodDelete, path: "/api/grocery_items/" + id(itemID)}, nil)
}

func (c *Client) DeleteItemsByList(ctx context.Context, listID string) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	err := c.do(ctx, request{op: "delete items", method: http.MethodDelete,
		path: "/api/grocery_lists/" + id(listID) + "/items"}, &out)
	return out.Deleted, err
}
