// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package serp queries a Google SERP service for a person and saves the
// result pages as local HTML snapshots.
//
// Deployments differ in where they put the result list and what they
// call the URL field, so discovery walks the payload heuristically
// instead of binding to a schema.
package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/meshintel/footprint/internal/httputil"
	"github.com/meshintel/footprint/pkg/types"
)

// pagedCap is the server-side ceiling for the paged endpoint.
const pagedCap = 100

// Client calls the SERP API.
type Client struct {
	HTTP *http.Client
	Cfg  types.SERPConfig
}

// New returns a Client. A nil httpClient falls back to a client with
// the configured timeout.
func New(httpClient *http.Client, cfg types.SERPConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.APIKeyHeader == "" {
		cfg.APIKeyHeader = "X-API-Key"
	}
	return &Client{HTTP: httpClient, Cfg: cfg}
}

// headers builds the auth headers from the configured credentials.
func (c *Client) headers() map[string]string {
	h := map[string]string{
		"Accept":     "application/json",
		"User-Agent": c.Cfg.UserAgent,
	}
	if c.Cfg.APIKey != "" {
		h[c.Cfg.APIKeyHeader] = c.Cfg.APIKey
	}
	if c.Cfg.BearerToken != "" {
		h["Authorization"] = "Bearer " + c.Cfg.BearerToken
	}
	return h
}

// endpointURL joins the configured base URL with an endpoint path.
func (c *Client) endpointURL(endpoint string) string {
	return strings.TrimRight(c.Cfg.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// SearchResponse records the payload and which request produced it, for
// the run summary.
type SearchResponse struct {
	Payload  any
	URL      string
	Method   string
	Endpoint string
	Params   map[string]any
}

// Search performs a single-page GET /search request.
func (c *Client) Search(ctx context.Context, name string, num, start int) (*SearchResponse, error) {
	params := url.Values{
		"q":     {name},
		"num":   {fmt.Sprintf("%d", num)},
		"start": {fmt.Sprintf("%d", start)},
	}
	reqURL := c.endpointURL("/search") + "?" + params.Encode()

	var payload any
	if err := httputil.GetJSON(ctx, c.HTTP, reqURL, c.headers(), &payload, httputil.DefaultMaxRetries, 0); err != nil {
		return nil, err
	}

	return &SearchResponse{
		Payload:  payload,
		URL:      reqURL,
		Method:   http.MethodGet,
		Endpoint: "/search",
		Params:   map[string]any{"q": name, "num": num, "start": start},
	}, nil
}

// SearchPaged performs a POST /search/paged request for result counts
// beyond a single page. total is capped at pagedCap.
func (c *Client) SearchPaged(ctx context.Context, name string, start, total int) (*SearchResponse, error) {
	if total > pagedCap {
		total = pagedCap
	}
	body := map[string]any{
		"q":             name,
		"start":         start,
		"num":           10,
		"per_request":   10,
		"total_results": total,
	}
	reqURL := c.endpointURL("/search/paged")

	var payload any
	if err := httputil.PostJSON(ctx, c.HTTP, reqURL, c.headers(), body, &payload, httputil.DefaultMaxRetries, 0); err != nil {
		return nil, err
	}

	return &SearchResponse{
		Payload:  payload,
		URL:      reqURL,
		Method:   http.MethodPost,
		Endpoint: "/search/paged",
		Params:   body,
	}, nil
}
