// Package rooms is the client for the rooms resource of the Open Data API.
package rooms

import (
	"context"
	"errors"

	"github.com/campus-oda/oda-rooms/pkg/httpclient"
	"github.com/campus-oda/oda-rooms/pkg/oda"
)

// Endpoint is the resource path of the room collection.
const Endpoint = "rooms"

// Client fetches rooms through the shared oda helper.
type Client struct {
	base *oda.Base
}

// NewClient builds a rooms client on top of an existing helper.
func NewClient(base *oda.Base) (*Client, error) {
	if base == nil {
		return nil, errors.New("rooms: base must not be nil")
	}
	return &Client{base: base}, nil
}

// New builds the helper for baseURL and returns a rooms client using it.
func New(baseURL string, client httpclient.Client, log oda.Logger) (*Client, error) {
	base, err := oda.NewBase(client, baseURL, log)
	if err != nil {
		return nil, err
	}
	return NewClient(base)
}

// Endpoint returns the collection path this client serves.
func (c *Client) Endpoint() string { return Endpoint }

// List returns all rooms matching params. Use params.Page to select a page.
func (c *Client) List(ctx context.Context, params oda.Params) ([]Room, error) {
	return oda.Fetch(ctx, c.base, Endpoint, params, DecodeRooms)
}

// Get returns the room at path. An absolute http(s) URL is used as-is, any
// other path is resolved against the base URL.
func (c *Client) Get(ctx context.Context, path string, params oda.Params) (Room, error) {
	return oda.Fetch(ctx, c.base, path, params, DecodeRoom)
}

// ListAsync runs List in the background. Exactly one Result is delivered before the channel closes.
func (c *Client) ListAsync(ctx context.Context, params oda.Params) <-chan oda.Result[[]Room] {
	return oda.Async(ctx, func(ctx context.Context) ([]Room, error) {
		return c.List(ctx, params)
	})
}

// GetAsync runs Get in the background. Exactly one Result is delivered before the channel closes.
func (c *Client) GetAsync(ctx context.Context, path string, params oda.Params) <-chan oda.Result[Room] {
	return oda.Async(ctx, func(ctx context.Context) (Room, error) {
		return c.Get(ctx, path, params)
	})
}
