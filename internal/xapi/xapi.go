// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xapi fetches a user's posts from the X API v2.
//
// A fetch is two steps: resolve the username to an account ID
// (GET /2/users/by/username/:username), then walk the paginated
// timeline (GET /2/users/:id/tweets) until the pagination token runs
// out or the requested count is reached.
package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/meshintel/footprint/internal/httputil"
	"github.com/meshintel/footprint/pkg/types"
)

// apiBase is the X API v2 root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.x.com/2"

// timelinePageSize is the per-request maximum the API accepts.
const timelinePageSize = 100

// postFields lists the tweet.fields requested for each post.
const postFields = "id,text,created_at,author_id,public_metrics,entities,referenced_tweets"

// Client calls the X API v2 with bearer-token auth.
type Client struct {
	HTTP *http.Client
	Cfg  types.PostsConfig
}

// New returns a Client. A nil httpClient falls back to a client with
// the configured timeout.
func New(httpClient *http.Client, cfg types.PostsConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.PageDelay == 0 {
		cfg.PageDelay = 500 * time.Millisecond
	}
	return &Client{HTTP: httpClient, Cfg: cfg}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.Cfg.BearerToken,
		"User-Agent":    c.Cfg.UserAgent,
	}
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type userResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []apiError      `json:"errors"`
}

// Lookup resolves a username (without "@") to an account. The raw API
// object is returned alongside the typed account for --raw output.
func (c *Client) Lookup(ctx context.Context, username string) (types.Account, map[string]any, error) {
	u := fmt.Sprintf("%s/users/by/username/%s", apiBase, url.PathEscape(username))

	var ur userResponse
	if err := httputil.GetJSON(ctx, c.HTTP, u, c.headers(), &ur, httputil.DefaultMaxRetries, 0); err != nil {
		return types.Account{}, nil, fmt.Errorf("user lookup: %w", err)
	}

	if len(ur.Data) == 0 {
		if len(ur.Errors) > 0 {
			return types.Account{}, nil, fmt.Errorf("user @%s not found: %s", username, ur.Errors[0].Detail)
		}
		return types.Account{}, nil, fmt.Errorf("user @%s not found", username)
	}

	var account types.Account
	if err := json.Unmarshal(ur.Data, &account); err != nil {
		return types.Account{}, nil, fmt.Errorf("parsing user object: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(ur.Data, &raw); err != nil {
		return types.Account{}, nil, fmt.Errorf("parsing user object: %w", err)
	}

	return account, raw, nil
}

// Timeline API JSON structures.
type timelineResponse struct {
	Data []json.RawMessage `json:"data"`
	Meta struct {
		NextToken   string `json:"next_token"`
		ResultCount int    `json:"result_count"`
	} `json:"meta"`
}

type postJSON struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		LikeCount    int `json:"like_count"`
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
	} `json:"public_metrics"`
}

// TimelineResult holds the normalized posts and the raw API objects in
// fetch order.
type TimelineResult struct {
	Posts []types.Post
	Raw   []map[string]any
}

// Timeline fetches the user's posts page by page, newest first. It
// stops when the API stops returning a next_token or maxResults posts
// have been collected (maxResults <= 0 fetches everything available,
// at most the 3200 most recent). Posts seen twice across pages are
// dropped. Progress lines go to w.
func (c *Client) Timeline(ctx context.Context, userID string, maxResults int, w io.Writer) (TimelineResult, error) {
	var result TimelineResult
	seen := make(map[string]bool)

	paginationToken := ""
	for page := 1; ; page++ {
		params := url.Values{
			"max_results":  {fmt.Sprintf("%d", timelinePageSize)},
			"tweet.fields": {postFields},
		}
		if paginationToken != "" {
			params.Set("pagination_token", paginationToken)
		}
		u := fmt.Sprintf("%s/users/%s/tweets?%s", apiBase, url.PathEscape(userID), params.Encode())

		fmt.Fprintf(w, "fetching page %d... ", page)
		var tr timelineResponse
		if err := httputil.GetJSON(ctx, c.HTTP, u, c.headers(), &tr, httputil.DefaultMaxRetries, 0); err != nil {
			return result, fmt.Errorf("timeline page %d: %w", page, err)
		}
		fmt.Fprintf(w, "got %d posts\n", len(tr.Data))

		if len(tr.Data) == 0 {
			break
		}

		for _, rawPost := range tr.Data {
			var p postJSON
			if err := json.Unmarshal(rawPost, &p); err != nil || p.ID == "" {
				continue
			}
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true

			var m map[string]any
			json.Unmarshal(rawPost, &m)

			result.Posts = append(result.Posts, formatPost(p))
			result.Raw = append(result.Raw, m)

			if maxResults > 0 && len(result.Posts) >= maxResults {
				return result, nil
			}
		}

		paginationToken = tr.Meta.NextToken
		if paginationToken == "" {
			break
		}

		// Rate limit: be nice to the API.
		if c.Cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(c.Cfg.PageDelay):
			}
		}
	}

	return result, nil
}

// formatPost flattens an API post object into the normalized record.
func formatPost(p postJSON) types.Post {
	createdAt := p.CreatedAt
	if createdAt == "" {
		createdAt = "N/A"
	}
	return types.Post{
		ID:        p.ID,
		Text:      p.Text,
		CreatedAt: createdAt,
		Likes:     p.PublicMetrics.LikeCount,
		Reposts:   p.PublicMetrics.RetweetCount,
		Replies:   p.PublicMetrics.ReplyCount,
	}
}
