// Package client drives one todo widget instance: it issues the RPC
// calls and patches the rendered fragments into a region.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/HuongNV13/moodle-block-todo/internal/export"
)

// Client calls the widget RPC surface. Any transport error or non-2xx
// response comes back as an error; the caller decides what to do with
// its region.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewClient(baseURL, accessToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

type getItemsArgs struct {
	InstanceID int64  `json:"instanceid"`
	ContextID  int64  `json:"contextid"`
	Sort       string `json:"sort"`
}

type addItemArgs struct {
	Text    string `json:"todotext"`
	DueDate *int64 `json:"duedate"`
}

type itemIDArgs struct {
	ID int64 `json:"id"`
}

type deletedItemReply struct {
	ID int64 `json:"id"`
}

func (c *Client) GetItems(ctx context.Context, instanceID, contextID int64, sort string) (export.ListViewModel, error) {
	var reply export.ListViewModel
	err := c.call(ctx, "/api/v1/todo/get_items", getItemsArgs{
		InstanceID: instanceID,
		ContextID:  contextID,
		Sort:       sort,
	}, &reply)
	return reply, err
}

func (c *Client) AddItem(ctx context.Context, text string, dueDate *int64) (export.ItemViewModel, error) {
	var reply export.ItemViewModel
	err := c.call(ctx, "/api/v1/todo/add_item", addItemArgs{
		Text:    text,
		DueDate: dueDate,
	}, &reply)
	return reply, err
}

func (c *Client) ToggleItem(ctx context.Context, id int64) (export.ItemViewModel, error) {
	var reply export.ItemViewModel
	err := c.call(ctx, "/api/v1/todo/toggle_item", itemIDArgs{ID: id}, &reply)
	return reply, err
}

func (c *Client) DeleteItem(ctx context.Context, id int64) (int64, error) {
	var reply deletedItemReply
	err := c.call(ctx, "/api/v1/todo/delete_item", itemIDArgs{ID: id}, &reply)
	return reply.ID, err
}

func (c *Client) call(ctx context.Context, path string, args, reply any) error {
	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal args: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote call %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote call %s failed: status %d: %s", path, resp.StatusCode, msg)
	}

	err = json.NewDecoder(resp.Body).Decode(reply)
	if err != nil {
		return fmt.Errorf("failed to decode reply of %s: %w", path, err)
	}
	return nil
}
