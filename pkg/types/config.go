package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "footprint/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryConfig holds retry/backoff tuning shared by the HTTP clients.
type RetryConfig struct {
	// MaxRetries is the number of retry attempts for 429/5xx responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Backoff is the initial retry delay; it doubles each retry.
	Backoff time.Duration `json:"backoff" yaml:"backoff"`
}

// PostsConfig holds settings for the X timeline fetch command.
type PostsConfig struct {
	HTTPConfig `yaml:",inline"`

	// BearerToken authenticates against the X API v2.
	BearerToken string `json:"bearer_token,omitempty" yaml:"bearer_token,omitempty"`

	// MaxResults caps the number of posts fetched. Zero fetches everything
	// the API exposes (at most the 3200 most recent).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PageDelay is the pause between timeline page requests (default 500ms).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`
}

// SERPConfig holds settings for the person search command.
type SERPConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the SERP API base URL.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is sent in the APIKeyHeader header when non-empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// APIKeyHeader names the header carrying APIKey (default "X-API-Key").
	APIKeyHeader string `json:"api_key_header,omitempty" yaml:"api_key_header,omitempty"`

	// BearerToken is sent as an Authorization bearer token when non-empty.
	BearerToken string `json:"bearer_token,omitempty" yaml:"bearer_token,omitempty"`

	// MaxResults is the number of result pages to save (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ArxivConfig holds settings for the arXiv search and download command.
type ArxivConfig struct {
	HTTPConfig  `yaml:",inline"`
	RetryConfig `yaml:",inline"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PageSize is the number of results fetched per API call (max 2000, default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// SortBy is the arXiv sortBy value: relevance, lastUpdatedDate, or submittedDate.
	SortBy string `json:"sort_by" yaml:"sort_by"`

	// SortOrder is the arXiv sortOrder value: ascending or descending.
	SortOrder string `json:"sort_order" yaml:"sort_order"`

	// APIDelay is the pause between API page requests (default 3s).
	APIDelay time.Duration `json:"api_delay" yaml:"api_delay"`

	// DownloadDelay is the pause between consecutive PDF downloads.
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// Overwrite re-downloads PDFs that already exist on disk.
	Overwrite bool `json:"overwrite" yaml:"overwrite"`
}

// ArchiveConfig holds settings for the local run archive.
type ArchiveConfig struct {
	// Dir is the directory holding the archive database (default "archive").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all command configurations.
type Config struct {
	Posts   PostsConfig   `json:"posts" yaml:"posts"`
	Person  SERPConfig    `json:"person" yaml:"person"`
	Papers  ArxivConfig   `json:"papers" yaml:"papers"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
}
