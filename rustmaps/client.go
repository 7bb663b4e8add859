package rustmaps

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Client exposes the map operations of the API.
//
// Every method collapses API errors (any *RequestError) into a nil result
// with a nil error, so callers cannot tell "not found" from "forbidden"
// here. Use HTTP().Request when the distinction matters. Only transport
// failures are returned as errors.
type Client struct {
	apiKey string
	http   *HTTPClient
	logger zerolog.Logger
}

// NewClient creates a client for the given API key. The key is checked
// locally first; a rejected key yields an *InvalidTokenError.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	o := buildOptions(opts)
	if !o.validateToken(apiKey) {
		err := &InvalidTokenError{Token: apiKey}
		o.logger.Error().Err(err).Msg("Rejected API key")
		return nil, err
	}

	return &Client{
		apiKey: apiKey,
		http:   newHTTPClient(o),
		logger: o.logger,
	}, nil
}

// HTTP returns the underlying transport.
func (c *Client) HTTP() *HTTPClient {
	return c.http
}

// Close releases the underlying session.
func (c *Client) Close() {
	c.http.Close()
}

// Limits returns the current rate limit status.
func (c *Client) Limits(ctx context.Context) (any, error) {
	return c.do(ctx, NewRoute(MethodGet, "/maps/limits"))
}

// GetMap returns a generated map by its ID.
func (c *Client) GetMap(ctx context.Context, mapID string, opts ...RequestOption) (any, error) {
	o := buildRequestOptions(opts)
	route := NewRoute(MethodGet, "/maps/"+mapID,
		Param{Key: "staging", Value: o.staging})
	return c.do(ctx, route)
}

// GetMapBySeedSize returns the map for a seed and size. Depending on the
// API, the map may still be generating, in which case the result is nil.
func (c *Client) GetMapBySeedSize(ctx context.Context, seed, size int, opts ...RequestOption) (any, error) {
	o := buildRequestOptions(opts)
	route := NewRoute(MethodGet, fmt.Sprintf("/maps/%d/%d", size, seed),
		Param{Key: "staging", Value: o.staging})
	return c.do(ctx, route)
}

// CreateMap requests generation of a map with a random seed and size.
func (c *Client) CreateMap(ctx context.Context) (any, error) {
	return c.do(ctx, NewRoute(MethodPost, "/maps"))
}

// SavedConfigs returns the custom map configurations saved on the account.
func (c *Client) SavedConfigs(ctx context.Context) (any, error) {
	return c.do(ctx, NewRoute(MethodGet, "/maps/custom/saved-configs"))
}

func (c *Client) do(ctx context.Context, route Route) (any, error) {
	body, err := c.http.Request(ctx, route, map[string]string{"X-API-Key": c.apiKey})
	return unwrapData(body, err)
}

// unwrapData returns the "data" member of a successful object body. API
// errors and bodies without "data" yield (nil, nil); other errors pass
// through.
func unwrapData(body Body, err error) (any, error) {
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			return nil, nil
		}
		return nil, err
	}

	data, ok := body.Field("data")
	if !ok {
		return nil, nil
	}
	return data, nil
}
