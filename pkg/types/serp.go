// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SERPResult is a normalized search result plus the outcome of its
// local snapshot download.
type SERPResult struct {
	// Rank is the 1-based position within this run's output.
	Rank int `json:"rank" yaml:"rank"`

	// Title is the result title, empty when the source offered none.
	Title string `json:"title" yaml:"title"`

	// URL is the result URL. Always http(s); records without a URL are dropped.
	URL string `json:"url" yaml:"url"`

	// Snippet is the result snippet or description.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Raw is the original result object from the API payload.
	Raw map[string]any `json:"raw,omitempty" yaml:"raw,omitempty"`

	// LocalFile is the snapshot path relative to the run output directory.
	LocalFile string `json:"local_file,omitempty" yaml:"local_file,omitempty"`

	// Status is "saved" or "failed" once the snapshot was attempted.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// FetchError describes a snapshot failure; empty on success.
	FetchError string `json:"fetch_error,omitempty" yaml:"fetch_error,omitempty"`

	// StatusCode is the HTTP status of the snapshot fetch, 0 when the
	// request never completed.
	StatusCode int `json:"status_code,omitempty" yaml:"status_code,omitempty"`

	// ContentType is the Content-Type of the fetched page.
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`

	// PageTitle is the <title> extracted from the saved HTML.
	PageTitle string `json:"page_title,omitempty" yaml:"page_title,omitempty"`
}

// SERPSummary is the search_results.json document written by the person command.
type SERPSummary struct {
	TargetName          string         `json:"target_name"`
	RequestedMaxResults int            `json:"requested_max_results"`
	ResultsFound        int            `json:"results_found"`
	ResultsSaved        int            `json:"results_saved"`
	UsedSearchMethod    string         `json:"used_search_method"`
	UsedSearchEndpoint  string         `json:"used_search_endpoint"`
	UsedSearchURL       string         `json:"used_search_url"`
	UsedSearchParams    map[string]any `json:"used_search_params"`
	GeneratedAt         time.Time      `json:"generated_at"`
	Results             []SERPResult   `json:"results"`
}
