// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/footprint/internal/archive"
	"github.com/meshintel/footprint/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Search and export the local run archive",
	Long: `Archive manages the local SQLite database that the fetch commands
write into when run with --archive. Use subcommands to search archived
records, list runs, or export everything.`,
}

func archiveConfig(cmd *cobra.Command) types.ArchiveConfig {
	dir, _ := cmd.Flags().GetString("archive-dir")
	if dir == "" {
		dir = viper.GetString("archive.dir")
	}
	if dir == "" {
		dir = "archive"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return types.ArchiveConfig{Dir: dir, MaxResults: maxResults}
}

// archiveRun stores one fetch run when the command asked for it.
// Archive failures are reported but never fail the fetch itself.
func archiveRun(cmd *cobra.Command, run archive.Run, records []archive.Record) {
	enabled, _ := cmd.Flags().GetBool("archive")
	if !enabled {
		return
	}

	store, err := archive.Open(archiveConfig(cmd))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: archive unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.RecordRun(context.Background(), run, records); err != nil {
		fmt.Fprintf(os.Stderr, "warning: archiving run failed: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Archived %d record(s) as run %s\n", len(records), run.ID)
}

// --- query subcommand ---

var archiveQueryCmd = &cobra.Command{
	Use:   "query [search terms]",
	Short: "Query archived records with full-text search and filters",
	Long: `Query searches archived records using FTS5 full-text search over
titles and content, structured filters (kind, target, run), or a
combination of both.`,
	RunE: runArchiveQuery,
}

func runArchiveQuery(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(archiveConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	listRuns, _ := cmd.Flags().GetBool("runs")
	if listRuns {
		runs, err := store.Runs(context.Background())
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Fprintf(os.Stdout, "%-40s  %-6s  %-30s  %s  (%d records)\n",
				r.ID, r.Kind, r.Target, r.StartedAt, r.RecordCount)
		}
		fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
		return nil
	}

	opts := archiveQueryOpts(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --kind, --target, or --run")
	}

	results, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-40s  %-50s  %s\n", "Kind", "Title", "Content", "Target")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-6s  %-40s  %-50s  %s\n",
			r.Kind, truncate(r.Title, 40), truncate(r.Content, 50), r.RunTarget)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max-3]) + "..."
	}
	return s
}

func archiveQueryOpts(cmd *cobra.Command, args []string) archive.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	kind, _ := cmd.Flags().GetString("kind")
	target, _ := cmd.Flags().GetString("target")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")

	return archive.QueryOptions{
		Query:      queryText,
		Kind:       kind,
		Target:     target,
		RunID:      runID,
		MaxResults: limit,
	}
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive to YAML or JSON",
	Long: `Export writes the archive (or a filtered subset) to export.yaml or
export.json in the archive directory. Supports the same filter flags as
query for partial exports.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg := archiveConfig(cmd)
	store, err := archive.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := archiveQueryOpts(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", cfg.Dir)
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", cfg.Dir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

func init() {
	archiveCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	archiveQueryCmd.Flags().String("query", "", "full-text search query")
	archiveQueryCmd.Flags().String("kind", "", "filter by record kind: post, serp, paper")
	archiveQueryCmd.Flags().String("target", "", "filter by run target (username, name, or query)")
	archiveQueryCmd.Flags().String("run", "", "filter by run ID")
	archiveQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	archiveQueryCmd.Flags().Bool("runs", false, "list archived runs instead of records")
	archiveQueryCmd.Flags().Bool("json", false, "output results as JSON")

	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	archiveExportCmd.Flags().String("kind", "", "filter by record kind for partial export")
	archiveExportCmd.Flags().String("target", "", "filter by run target for partial export")
	archiveExportCmd.Flags().String("run", "", "filter by run ID for partial export")
	archiveExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	archiveCmd.AddCommand(archiveQueryCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
