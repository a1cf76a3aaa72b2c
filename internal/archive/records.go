// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"fmt"
	"time"

	"github.com/meshintel/footprint/pkg/types"
)

// Record kinds written by the fetch commands.
const (
	KindPost  = "post"
	KindSERP  = "serp"
	KindPaper = "paper"
)

// NewRun builds a Run for a fetch command invocation. The ID encodes
// the kind, target, and start time so reruns against the same target
// archive as distinct runs.
func NewRun(kind, target string, startedAt time.Time) Run {
	return Run{
		ID:        fmt.Sprintf("%s:%s:%s", kind, target, startedAt.UTC().Format("20060102T150405Z")),
		Kind:      kind,
		Target:    target,
		StartedAt: startedAt.UTC().Format(time.RFC3339),
	}
}

// PostRecords converts a fetched timeline into archive records. Record
// IDs reuse the platform post IDs, so refetching a timeline updates the
// existing records instead of duplicating them.
func PostRecords(doc *types.PostsDocument) []Record {
	records := make([]Record, 0, len(doc.Posts))
	fetchedAt := doc.FetchedAt.UTC().Format(time.RFC3339)
	for _, p := range doc.Posts {
		records = append(records, Record{
			ID:        KindPost + ":" + p.ID,
			Kind:      KindPost,
			Title:     fmt.Sprintf("@%s", doc.Account.Username),
			URL:       fmt.Sprintf("https://x.com/%s/status/%s", doc.Account.Username, p.ID),
			Content:   p.Text,
			FetchedAt: fetchedAt,
		})
	}
	return records
}

// SERPRecords converts normalized search results into archive records,
// keyed by result URL.
func SERPRecords(results []types.SERPResult, fetchedAt time.Time) []Record {
	records := make([]Record, 0, len(results))
	ts := fetchedAt.UTC().Format(time.RFC3339)
	for _, r := range results {
		records = append(records, Record{
			ID:        KindSERP + ":" + r.URL,
			Kind:      KindSERP,
			Title:     r.Title,
			URL:       r.URL,
			Content:   r.Snippet,
			FetchedAt: ts,
		})
	}
	return records
}

// PaperRecords converts arXiv search entries into archive records,
// keyed by arXiv ID.
func PaperRecords(papers []types.ArxivPaper, fetchedAt time.Time) []Record {
	records := make([]Record, 0, len(papers))
	ts := fetchedAt.UTC().Format(time.RFC3339)
	for _, p := range papers {
		records = append(records, Record{
			ID:        KindPaper + ":" + p.ArxivID,
			Kind:      KindPaper,
			Title:     p.Title,
			URL:       p.IDURL,
			Content:   p.Summary,
			FetchedAt: ts,
		})
	}
	return records
}
