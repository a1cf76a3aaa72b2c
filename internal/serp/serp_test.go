package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/footprint/pkg/types"
)

func testCfg(baseURL string) types.SERPConfig {
	return types.SERPConfig{
		HTTPConfig:  types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "footprint-test/0.1"},
		BaseURL:     baseURL,
		APIKey:      "key-1",
		BearerToken: "tok-1",
	}
}

func TestSearchSendsAuthHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "jane doe", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("num"))
		assert.Equal(t, "1", r.URL.Query().Get("start"))
		assert.Equal(t, "key-1", r.Header.Get("X-API-Key"))
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"results":[{"url":"https://example.com","title":"Jane"}]}`)
	}))
	defer ts.Close()

	resp, err := New(ts.Client(), testCfg(ts.URL)).Search(context.Background(), "jane doe", 5, 1)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, resp.Method)
	assert.Equal(t, "/search", resp.Endpoint)
	assert.Len(t, FindResults(resp.Payload), 1)
}

func TestSearchCustomAPIKeyHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get("X-Serp-Key"))
		assert.Empty(t, r.Header.Get("X-API-Key"))
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	cfg := testCfg(ts.URL)
	cfg.APIKeyHeader = "X-Serp-Key"
	_, err := New(ts.Client(), cfg).Search(context.Background(), "jane", 5, 1)
	require.NoError(t, err)
}

func TestSearchPagedCapsTotal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/paged", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(100), body["total_results"])
		assert.Equal(t, "jane", body["q"])
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer ts.Close()

	resp, err := New(ts.Client(), testCfg(ts.URL)).SearchPaged(context.Background(), "jane", 1, 250)
	require.NoError(t, err)
	assert.Equal(t, "/search/paged", resp.Endpoint)
	assert.Equal(t, 100, resp.Params["total_results"])
}

func unmarshalPayload(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestFindResults(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"top-level list", `[{"url":"https://a"},{"url":"https://b"}]`, 2},
		{"results key", `{"results":[{"url":"https://a"}]}`, 1},
		{"organic_results key", `{"meta":1,"organic_results":[{"link":"https://a"}]}`, 1},
		{"nested walk", `{"response":{"pages":[{"hits":[{"href":"https://a"},{"href":"https://b"}]}]}}`, 2},
		{"prefers result-like list", `{"tags":[{"name":"x"}],"deep":{"hits":[{"url":"https://a"}]}}`, 1},
		{"nothing found", `{"message":"ok","count":3}`, 0},
		{"scalar payload", `"just a string"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindResults(unmarshalPayload(t, tt.payload))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	item := unmarshalPayload(t, `{
		"link": "https://example.com/p",
		"headline": "  Jane Doe  ",
		"description": "profile page",
		"extra": 7
	}`)

	r := Normalize(item, 3)
	require.NotNil(t, r)
	assert.Equal(t, 3, r.Rank)
	assert.Equal(t, "https://example.com/p", r.URL)
	assert.Equal(t, "Jane Doe", r.Title)
	assert.Equal(t, "profile page", r.Snippet)
	assert.Equal(t, float64(7), r.Raw["extra"])
}

func TestNormalizeRejectsBadURLs(t *testing.T) {
	assert.Nil(t, Normalize(unmarshalPayload(t, `{"title":"no url"}`), 1))
	assert.Nil(t, Normalize(unmarshalPayload(t, `{"url":"ftp://example.com"}`), 1))
	assert.Nil(t, Normalize("not an object", 1))
}

func TestNormalizeAllDedupAndCap(t *testing.T) {
	raw := FindResults(unmarshalPayload(t, `{"results":[
		{"url":"https://a","title":"A"},
		{"url":"https://a","title":"A again"},
		{"title":"no url"},
		{"url":"https://b"},
		{"url":"https://c"}
	]}`))

	out := NormalizeAll(raw, 2)
	require.Len(t, out, 2)
	assert.Equal(t, "https://a", out[0].URL)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, "https://b", out[1].URL)
	assert.Equal(t, 2, out[1].Rank)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Jane_Doe", SanitizeName("Jane Doe!", 60))
	assert.Equal(t, "result", SanitizeName("???", 60))
	assert.Equal(t, "abcde", SanitizeName("abcdefgh", 5))
}
