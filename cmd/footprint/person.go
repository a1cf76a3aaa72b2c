// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/footprint/internal/archive"
	"github.com/meshintel/footprint/internal/secrets"
	"github.com/meshintel/footprint/internal/serp"
	"github.com/meshintel/footprint/pkg/types"
)

const (
	htmlResultsDir  = "html_results"
	snapshotNameLen = 60
)

var personCmd = &cobra.Command{
	Use:   "person <name>",
	Short: "Search the web for a person and snapshot the result pages",
	Long: `Person queries a SERP API for a person's name, saves the raw API
response, downloads an HTML snapshot of every result page, and writes a
browsable index plus a JSON summary into the run's output directory.

Result counts up to 10 use a single GET request; larger counts go
through the API's paged POST endpoint (capped at 100).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPerson,
}

func init() {
	personCmd.Flags().Int("max-results", 10, "number of search results to fetch (1-100)")
	personCmd.Flags().Int("start", 1, "1-based result position to start from")
	personCmd.Flags().String("output-dir", "", "output directory (default: results/search_<name>_<timestamp>)")
	personCmd.Flags().String("base-url", "", "SERP API base URL")
	personCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	personCmd.Flags().Bool("no-fetch", false, "skip downloading result page snapshots")
	personCmd.Flags().Bool("archive", false, "record search results in the local archive")

	rootCmd.AddCommand(personCmd)
}

func runPerson(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("person name must not be empty")
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults < 1 {
		return fmt.Errorf("--max-results must be at least 1")
	}
	start, _ := cmd.Flags().GetInt("start")
	if start < 1 {
		return fmt.Errorf("--start must be at least 1")
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = viper.GetString("person.base_url")
	}
	if baseURL == "" {
		baseURL = os.Getenv("SERP_API_BASE_URL")
	}
	if baseURL == "" {
		return fmt.Errorf("no SERP API base URL: set --base-url, person.base_url in the config, or SERP_API_BASE_URL")
	}

	apiKey := secrets.Resolve("", "SERP_API_KEY", "serp-api-key", loadedSecrets)
	bearer := secrets.Resolve("", "SERP_BEARER_TOKEN", "serp-bearer-token", loadedSecrets)
	if apiKey == "" && bearer == "" {
		fmt.Fprintln(os.Stderr, "Warning: no SERP_API_KEY or SERP_BEARER_TOKEN set, sending unauthenticated requests")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	startedAt := time.Now().UTC()
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = filepath.Join("results", fmt.Sprintf("search_%s_%s",
			serp.SanitizeName(name, 40), startedAt.Format("20060102_150405")))
	}
	if err := os.MkdirAll(filepath.Join(outputDir, htmlResultsDir), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	cfg := types.SERPConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		BaseURL:     baseURL,
		APIKey:      apiKey,
		BearerToken: bearer,
		MaxResults:  maxResults,
	}
	client := serp.New(&http.Client{Timeout: cfg.Timeout}, cfg)
	ctx := context.Background()

	fmt.Fprintf(os.Stderr, "Searching for %q...\n", name)
	var (
		resp *serp.SearchResponse
		err  error
	)
	if maxResults <= 10 {
		resp, err = client.Search(ctx, name, maxResults, start)
	} else {
		resp, err = client.SearchPaged(ctx, name, start, maxResults)
	}
	if err != nil {
		return err
	}

	if err := writeIndentedJSON(filepath.Join(outputDir, "api_response.json"), resp.Payload); err != nil {
		return err
	}

	rawResults := serp.FindResults(resp.Payload)
	results := serp.NormalizeAll(rawResults, maxResults)
	fmt.Fprintf(os.Stderr, "Found %d result(s)\n", len(results))

	noFetch, _ := cmd.Flags().GetBool("no-fetch")
	saved := 0
	if !noFetch {
		saved = fetchSnapshots(ctx, client.HTTP, outputDir, results)
	}

	indexFile, err := os.Create(filepath.Join(outputDir, "index.html"))
	if err != nil {
		return fmt.Errorf("creating index.html: %w", err)
	}
	if err := serp.WriteIndex(indexFile, name, results); err != nil {
		indexFile.Close()
		return err
	}
	if err := indexFile.Close(); err != nil {
		return err
	}

	summary := personSummary(name, maxResults, resp, results, saved, startedAt)
	if err := writeIndentedJSON(filepath.Join(outputDir, "search_results.json"), summary); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Output written to %s\n", outputDir)
	archiveRun(cmd, archive.NewRun(archive.KindSERP, name, startedAt), archive.SERPRecords(results, startedAt))
	return nil
}

// personSummary assembles the search_results.json document. results_found
// counts the normalized, URL-deduped records, not the raw payload list.
func personSummary(name string, maxResults int, resp *serp.SearchResponse, results []types.SERPResult, saved int, at time.Time) types.SERPSummary {
	return types.SERPSummary{
		TargetName:          name,
		RequestedMaxResults: maxResults,
		ResultsFound:        len(results),
		ResultsSaved:        saved,
		UsedSearchMethod:    resp.Method,
		UsedSearchEndpoint:  resp.Endpoint,
		UsedSearchURL:       resp.URL,
		UsedSearchParams:    resp.Params,
		GeneratedAt:         at,
		Results:             results,
	}
}

// fetchSnapshots downloads each result page, recording the outcome on
// the result itself. Returns the number of snapshots saved.
func fetchSnapshots(ctx context.Context, client *http.Client, outputDir string, results []types.SERPResult) int {
	saved := 0
	for i := range results {
		r := &results[i]
		fname := fmt.Sprintf("%03d_%s.html", r.Rank, serp.SanitizeName(resultHost(r.URL), snapshotNameLen))
		dest := filepath.Join(outputDir, htmlResultsDir, fname)

		fmt.Fprintf(os.Stderr, "  [%d/%d] %s... ", r.Rank, len(results), r.URL)
		status := serp.FetchSnapshot(ctx, client, r.URL, dest)

		r.StatusCode = status.StatusCode
		r.ContentType = status.ContentType
		r.PageTitle = status.PageTitle
		if status.Saved {
			r.Status = "saved"
			r.LocalFile = filepath.ToSlash(filepath.Join(htmlResultsDir, fname))
			saved++
			fmt.Fprintln(os.Stderr, "saved")
		} else {
			r.Status = "failed"
			if status.Err != nil {
				r.FetchError = status.Err.Error()
			}
			fmt.Fprintln(os.Stderr, "failed")
		}
	}
	return saved
}

func resultHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "result"
	}
	return u.Host
}

// writeIndentedJSON writes v as indented JSON to path.
func writeIndentedJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
