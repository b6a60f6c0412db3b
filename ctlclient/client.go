// Package ctlclient talks to a running cecinput daemon over its control
// socket.
package ctlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cecinput/cecinput/internal/ctl"
	"github.com/cecinput/cecinput/internal/daemon"
)

// Client wraps a Transport with typed calls.
type Client struct{ transport *Transport }

// New constructs a client for the socket at path.
func New(path string) *Client { return &Client{transport: NewTransport(path)} }

// WithTransport constructs a Client using a custom Transport.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

func (c *Client) Ping(ctx context.Context) (*ctl.PingResponse, error) {
	return call[ctl.PingResponse](ctx, c, "ping", nil)
}

func (c *Client) Status(ctx context.Context) (*daemon.Status, error) {
	return call[daemon.Status](ctx, c, "status", nil)
}

// Key taps the named remote key (e.g. "SELECT").
func (c *Client) Key(ctx context.Context, name string) (*ctl.CommandResponse, error) {
	return call[ctl.CommandResponse](ctx, c, "key/{name}", map[string]string{"name": name})
}

func (c *Client) Standby(ctx context.Context) (*ctl.CommandResponse, error) {
	return call[ctl.CommandResponse](ctx, c, "standby", nil)
}

func (c *Client) Restart(ctx context.Context) (*ctl.CommandResponse, error) {
	return call[ctl.CommandResponse](ctx, c, "restart", nil)
}

func (c *Client) Exit(ctx context.Context) (*ctl.CommandResponse, error) {
	return call[ctl.CommandResponse](ctx, c, "exit", nil)
}

func (c *Client) Keymap(ctx context.Context) (*ctl.KeymapResponse, error) {
	return call[ctl.KeymapResponse](ctx, c, "keymap", nil)
}

// Raw sends path and payload unchanged and returns the response line.
func (c *Client) Raw(ctx context.Context, path, payload string) (string, error) {
	var p any
	if payload != "" {
		p = payload
	}
	return c.transport.DoCtx(ctx, path, p, nil)
}

func call[T any](ctx context.Context, c *Client, path string, params map[string]string) (*T, error) {
	raw, err := c.transport.DoCtx(ctx, path, nil, params)
	if err != nil {
		return nil, err
	}
	return parse[T](raw)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem ctl.Error
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	if err := json.NewDecoder(bytes.NewReader([]byte(data))).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
