// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshintel/footprint/internal/archive"
	"github.com/meshintel/footprint/internal/arxiv"
	"github.com/meshintel/footprint/pkg/types"
)

const (
	defaultPapersDir     = "arxiv_papers"
	defaultAPIDelay      = 3 * time.Second
	defaultDownloadDelay = 1 * time.Second
	defaultMaxRetries    = 5
	defaultRetryBackoff  = 5 * time.Second
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Search arXiv and download matching PDFs",
	Long: `Papers queries the arXiv API for papers by author and/or topic,
paginating through results, then downloads each paper's PDF and writes
per-paper YAML metadata plus a run-level metadata.json.

At least one of --author or --topic is required. Multi-word values are
quoted for exact phrase matching.`,
	RunE: runPapers,
}

func init() {
	papersCmd.Flags().String("author", "", "author name to search for")
	papersCmd.Flags().String("topic", "", "topic to search all fields for")
	papersCmd.Flags().Int("max-results", 10, "maximum papers to retrieve")
	papersCmd.Flags().Int("start", 0, "result offset to start from")
	papersCmd.Flags().Int("page-size", 100, "results per API request (1-2000)")
	papersCmd.Flags().String("sort-by", "relevance", "sort order: relevance, lastUpdatedDate, or submittedDate")
	papersCmd.Flags().String("sort-order", "descending", "sort direction: ascending or descending")
	papersCmd.Flags().String("output-dir", defaultPapersDir, "output directory for PDFs and metadata")
	papersCmd.Flags().String("metadata-file", "metadata.json", "run metadata filename within the output directory")
	papersCmd.Flags().Duration("api-delay", 0, "pause between API page requests (default 3s)")
	papersCmd.Flags().Duration("download-delay", 0, "pause between PDF downloads (default 1s)")
	papersCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	papersCmd.Flags().String("user-agent", defaultUserAgent, "User-Agent header for API and download requests")
	papersCmd.Flags().Int("max-retries", defaultMaxRetries, "retry attempts for rate-limited API requests")
	papersCmd.Flags().Duration("retry-backoff", defaultRetryBackoff, "initial retry delay, doubled per attempt")
	papersCmd.Flags().Bool("overwrite", false, "re-download PDFs that already exist")
	papersCmd.Flags().Bool("no-download", false, "search only, skip PDF downloads")
	papersCmd.Flags().Bool("archive", false, "record found papers in the local archive")

	rootCmd.AddCommand(papersCmd)
}

func runPapers(cmd *cobra.Command, args []string) error {
	author, _ := cmd.Flags().GetString("author")
	topic, _ := cmd.Flags().GetString("topic")
	query := arxiv.BuildQuery(author, topic)
	if query == "" {
		return fmt.Errorf("provide --author and/or --topic")
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults < 1 {
		return fmt.Errorf("--max-results must be at least 1")
	}
	start, _ := cmd.Flags().GetInt("start")
	if start < 0 || start >= arxiv.MaxAPIResults {
		return fmt.Errorf("--start must be in [0, %d)", arxiv.MaxAPIResults)
	}
	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize < 1 || pageSize > arxiv.MaxPageSize {
		return fmt.Errorf("--page-size must be in [1, %d]", arxiv.MaxPageSize)
	}
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	if maxRetries < 0 {
		return fmt.Errorf("--max-retries must not be negative")
	}
	retryBackoff, _ := cmd.Flags().GetDuration("retry-backoff")
	if retryBackoff < 0 {
		return fmt.Errorf("--retry-backoff must not be negative")
	}

	// The API refuses to page past its hard result ceiling.
	effective := maxResults
	if start+effective > arxiv.MaxAPIResults {
		effective = arxiv.MaxAPIResults - start
		fmt.Fprintf(os.Stderr, "Warning: capping requested results to %d (API limit)\n", effective)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	apiDelay, _ := cmd.Flags().GetDuration("api-delay")
	if apiDelay == 0 {
		apiDelay = defaultAPIDelay
	}
	downloadDelay, _ := cmd.Flags().GetDuration("download-delay")
	if downloadDelay == 0 {
		downloadDelay = defaultDownloadDelay
	}
	userAgent, _ := cmd.Flags().GetString("user-agent")
	sortBy, _ := cmd.Flags().GetString("sort-by")
	sortOrder, _ := cmd.Flags().GetString("sort-order")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	cfg := types.ArxivConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		RetryConfig: types.RetryConfig{
			MaxRetries: maxRetries,
			Backoff:    retryBackoff,
		},
		PageSize:      pageSize,
		SortBy:        sortBy,
		SortOrder:     sortOrder,
		APIDelay:      apiDelay,
		DownloadDelay: downloadDelay,
		Overwrite:     overwrite,
	}
	client := arxiv.New(&http.Client{Timeout: cfg.Timeout}, cfg)
	ctx := context.Background()
	startedAt := time.Now().UTC()

	fmt.Fprintf(os.Stderr, "Searching arXiv for %s...\n", query)
	papers, total, err := client.Search(ctx, query, start, effective, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Retrieved %d of %d available paper(s)\n", len(papers), total)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var summary arxiv.DownloadSummary
	noDownload, _ := cmd.Flags().GetBool("no-download")
	if !noDownload && len(papers) > 0 {
		summary, err = client.DownloadAll(ctx, papers, filepath.Join(outputDir, "pdf"), os.Stderr)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Downloads: %d new, %d existing, %d failed\n",
			summary.Downloaded, summary.Skipped, summary.Failed)
	}

	if len(papers) > 0 {
		if err := arxiv.WriteMetadataFiles(papers, filepath.Join(outputDir, "metadata")); err != nil {
			return err
		}
	}

	meta := types.ArxivRunMetadata{
		GeneratedAt:         startedAt,
		SearchQuery:         query,
		Author:              author,
		Topic:               topic,
		RequestedResults:    maxResults,
		EffectiveRequested:  effective,
		RetrievedResults:    len(papers),
		TotalAvailable:      total,
		DownloadedCount:     summary.Downloaded,
		DownloadFailedCount: summary.Failed,
		OutputDir:           outputDir,
		PDFDir:              filepath.Join(outputDir, "pdf"),
		Entries:             papers,
	}
	metadataFile, _ := cmd.Flags().GetString("metadata-file")
	metaPath := filepath.Join(outputDir, metadataFile)
	if err := writeIndentedJSON(metaPath, meta); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Metadata written to %s\n", metaPath)

	archiveRun(cmd, archive.NewRun(archive.KindPaper, query, startedAt), archive.PaperRecords(papers, startedAt))
	return nil
}
