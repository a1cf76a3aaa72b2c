// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshintel/footprint/internal/archive"
	"github.com/meshintel/footprint/internal/secrets"
	"github.com/meshintel/footprint/internal/xapi"
	"github.com/meshintel/footprint/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "footprint/0.1"
)

var postsCmd = &cobra.Command{
	Use:   "posts <username>",
	Short: "Fetch a user's X timeline via the official API",
	Long: `Posts resolves an X username to an account ID and downloads the
account's recent posts through the X API v2, paginating until the API
runs out or --max-results posts have been collected. The result is a
JSON document on stdout (or --output).

Requires a bearer token: --bearer-token, the X_BEARER_TOKEN environment
variable, or a .secrets/x-bearer-token file.`,
	Args: cobra.ExactArgs(1),
	RunE: runPosts,
}

func init() {
	postsCmd.Flags().Int("max-results", 0, "maximum posts to fetch (0 = all available)")
	postsCmd.Flags().String("output", "", "write the JSON document to this file instead of stdout")
	postsCmd.Flags().Bool("raw", false, "emit the unmodified API objects instead of the normalized document")
	postsCmd.Flags().Duration("page-delay", 0, "pause between timeline page requests (default 500ms)")
	postsCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	postsCmd.Flags().String("bearer-token", "", "X API bearer token")
	postsCmd.Flags().Bool("archive", false, "record fetched posts in the local archive")

	rootCmd.AddCommand(postsCmd)
}

func runPosts(cmd *cobra.Command, args []string) error {
	username := strings.TrimPrefix(strings.TrimSpace(args[0]), "@")
	if username == "" {
		return fmt.Errorf("username must not be empty")
	}

	tokenFlag, _ := cmd.Flags().GetString("bearer-token")
	token := secrets.Resolve(tokenFlag, "X_BEARER_TOKEN", "x-bearer-token", loadedSecrets)
	if token == "" {
		return fmt.Errorf("no bearer token: set --bearer-token, X_BEARER_TOKEN, or .secrets/x-bearer-token (see https://developer.x.com)")
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults < 0 {
		return fmt.Errorf("--max-results must not be negative")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	pageDelay, _ := cmd.Flags().GetDuration("page-delay")

	cfg := types.PostsConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		BearerToken: token,
		MaxResults:  maxResults,
		PageDelay:   pageDelay,
	}

	client := xapi.New(&http.Client{Timeout: cfg.Timeout}, cfg)
	ctx := context.Background()
	startedAt := time.Now().UTC()

	fmt.Fprintf(os.Stderr, "Looking up @%s...\n", username)
	account, rawAccount, err := client.Lookup(ctx, username)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Found %s (%s), fetching posts...\n", account.Name, account.ID)

	tl, err := client.Timeline(ctx, account.ID, maxResults, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Fetched %d posts\n", len(tl.Posts))

	raw, _ := cmd.Flags().GetBool("raw")
	var document any
	doc := types.PostsDocument{
		Account:   account,
		PostCount: len(tl.Posts),
		Posts:     tl.Posts,
		FetchedAt: startedAt,
	}
	if raw {
		document = types.RawPostsDocument{Account: rawAccount, Posts: tl.Raw}
	} else {
		document = doc
	}

	if err := writeJSONDocument(cmd, document); err != nil {
		return err
	}

	archiveRun(cmd, archive.NewRun(archive.KindPost, username, startedAt), archive.PostRecords(&doc))
	return nil
}

// writeJSONDocument writes v as indented JSON to --output, or stdout
// when the flag is unset.
func writeJSONDocument(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	data = append(data, '\n')

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
	return nil
}
