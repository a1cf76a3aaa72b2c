// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// errBodyExcerpt limits how much of an error response body is carried
// in the returned error.
const errBodyExcerpt = 800

// GetJSON performs a GET request through DoWithRetry and decodes the
// JSON response into v. Non-2xx statuses produce an error carrying a
// truncated body excerpt.
func GetJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, v any, maxRetries int, backoff time.Duration) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return doJSON(ctx, client, req, headers, v, maxRetries, backoff)
}

// PostJSON performs a POST request with a JSON body through DoWithRetry
// and decodes the JSON response into v.
func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload, v any, maxRetries int, backoff time.Duration) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON(ctx, client, req, headers, v, maxRetries, backoff)
}

func doJSON(ctx context.Context, client *http.Client, req *http.Request, headers map[string]string, v any, maxRetries int, backoff time.Duration) error {
	for k, val := range headers {
		req.Header.Set(k, val)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := DoWithRetry(ctx, client, req, maxRetries, backoff)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyExcerpt))
		return fmt.Errorf("HTTP %d for %s: %s", resp.StatusCode, req.URL, string(excerpt))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL, err)
	}
	return nil
}
