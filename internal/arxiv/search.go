// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/meshintel/footprint/internal/httputil"
	"github.com/meshintel/footprint/pkg/types"
)

const (
	// MaxAPIResults is how deep the arXiv API allows paging (start + count).
	MaxAPIResults = 30000

	// MaxPageSize is the largest max_results the API accepts per call.
	MaxPageSize = 2000

	defaultPageSize = 100
)

// DefaultBaseURL is the public arXiv query endpoint.
const DefaultBaseURL = "https://export.arxiv.org/api/query"

// Client queries the arXiv API.
type Client struct {
	HTTP *http.Client
	Cfg  types.ArxivConfig
}

// New returns a Client. A nil httpClient falls back to a client with
// the configured timeout.
func New(httpClient *http.Client, cfg types.ArxivConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.SortBy == "" {
		cfg.SortBy = "relevance"
	}
	if cfg.SortOrder == "" {
		cfg.SortOrder = "descending"
	}
	return &Client{HTTP: httpClient, Cfg: cfg}
}

// Search pages through the API until targetCount entries are collected.
// The loop stops early on an empty page, a short page, or when the
// offset passes the feed's totalResults. Requests are retried on
// 429/5xx via httputil. Progress lines go to w. Returns the entries
// and the totalResults reported by the feed.
func (c *Client) Search(ctx context.Context, searchQuery string, start, targetCount int, w io.Writer) ([]types.ArxivPaper, int, error) {
	var collected []types.ArxivPaper
	totalAvailable := 0
	currentStart := start

	for len(collected) < targetCount {
		batchSize := c.Cfg.PageSize
		if remaining := targetCount - len(collected); batchSize > remaining {
			batchSize = remaining
		}
		if batchSize > MaxPageSize {
			batchSize = MaxPageSize
		}

		params := url.Values{
			"search_query": {searchQuery},
			"start":        {fmt.Sprintf("%d", currentStart)},
			"max_results":  {fmt.Sprintf("%d", batchSize)},
			"sortBy":       {c.Cfg.SortBy},
			"sortOrder":    {c.Cfg.SortOrder},
		}
		reqURL := c.Cfg.BaseURL + "?" + params.Encode()

		total, batch, err := c.fetchPage(ctx, reqURL)
		if err != nil {
			return collected, totalAvailable, err
		}
		totalAvailable = total
		fmt.Fprintf(w, "query %s\n", reqURL)

		if len(batch) == 0 {
			break
		}

		collected = append(collected, batch...)
		currentStart += len(batch)

		if len(batch) < batchSize {
			break
		}
		if totalAvailable > 0 && currentStart >= totalAvailable {
			break
		}
		if len(collected) < targetCount && c.Cfg.APIDelay > 0 {
			select {
			case <-ctx.Done():
				return collected, totalAvailable, ctx.Err()
			case <-time.After(c.Cfg.APIDelay):
			}
		}
	}

	if len(collected) > targetCount {
		collected = collected[:targetCount]
	}
	return collected, totalAvailable, nil
}

func (c *Client) fetchPage(ctx context.Context, reqURL string) (int, []types.ArxivPaper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Cfg.MaxRetries, c.Cfg.Backoff)
	if err != nil {
		return 0, nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return 0, nil, fmt.Errorf("HTTP %d for %s: %s", resp.StatusCode, reqURL, string(excerpt))
	}

	return ParseFeed(resp.Body)
}
