package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/footprint/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(types.ArchiveConfig{Dir: dir, MaxResults: 20})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func seedRun(t *testing.T, store *Store, run Run, records []Record) {
	t.Helper()
	if err := store.RecordRun(context.Background(), run, records); err != nil {
		t.Fatal(err)
	}
}

func TestRecordRunAndQueryFTS(t *testing.T) {
	store, _ := testStore(t)

	run := NewRun(KindPost, "janedoe", time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	seedRun(t, store, run, []Record{
		{ID: "post:1", Kind: KindPost, Title: "@janedoe", Content: "announcing our new compiler", FetchedAt: "2026-02-01T12:00:00Z"},
		{ID: "post:2", Kind: KindPost, Title: "@janedoe", Content: "lunch was good", FetchedAt: "2026-02-01T12:00:00Z"},
	})

	results, err := store.Query(context.Background(), QueryOptions{Query: "compiler"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "post:1" {
		t.Errorf("expected post:1, got %s", results[0].ID)
	}
	if results[0].RunTarget != "janedoe" {
		t.Errorf("expected run target janedoe, got %q", results[0].RunTarget)
	}
}

func TestQueryStructuredFilters(t *testing.T) {
	store, _ := testStore(t)

	seedRun(t, store,
		NewRun(KindPost, "janedoe", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		[]Record{{ID: "post:1", Kind: KindPost, Content: "a", FetchedAt: "2026-02-01T00:00:00Z"}})
	seedRun(t, store,
		NewRun(KindPaper, "quantum error correction", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)),
		[]Record{
			{ID: "paper:2301.00001v1", Kind: KindPaper, Title: "QEC Survey", Content: "b", FetchedAt: "2026-02-02T00:00:00Z"},
			{ID: "paper:2301.00002v1", Kind: KindPaper, Title: "Another", Content: "c", FetchedAt: "2026-02-02T00:00:00Z"},
		})

	byKind, err := store.Query(context.Background(), QueryOptions{Kind: KindPaper})
	if err != nil {
		t.Fatal(err)
	}
	if len(byKind) != 2 {
		t.Fatalf("kind filter: expected 2, got %d", len(byKind))
	}

	byTarget, err := store.Query(context.Background(), QueryOptions{Target: "janedoe"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byTarget) != 1 || byTarget[0].ID != "post:1" {
		t.Fatalf("target filter: got %+v", byTarget)
	}

	limited, err := store.Query(context.Background(), QueryOptions{MaxResults: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit: expected 1, got %d", len(limited))
	}
}

func TestRecordRunUpsertsDuplicates(t *testing.T) {
	store, _ := testStore(t)

	first := NewRun(KindSERP, "Jane Doe", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	seedRun(t, store, first, []Record{
		{ID: "serp:https://example.com/a", Kind: KindSERP, Title: "Old Title", Content: "old snippet"},
	})

	second := NewRun(KindSERP, "Jane Doe", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	seedRun(t, store, second, []Record{
		{ID: "serp:https://example.com/a", Kind: KindSERP, Title: "New Title", Content: "fresh snippet"},
	})

	all, err := store.Query(context.Background(), QueryOptions{Kind: KindSERP})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", len(all))
	}
	if all[0].Title != "New Title" {
		t.Errorf("expected updated title, got %q", all[0].Title)
	}
	if all[0].RunID != second.ID {
		t.Errorf("expected record moved to run %s, got %s", second.ID, all[0].RunID)
	}

	// The FTS index must follow the update: the old text is gone.
	stale, err := store.Query(context.Background(), QueryOptions{Query: "old"})
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 0 {
		t.Errorf("stale FTS entry survived the upsert: %+v", stale)
	}
	fresh, err := store.Query(context.Background(), QueryOptions{Query: "fresh"})
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 1 {
		t.Errorf("expected updated FTS entry, got %d results", len(fresh))
	}
}

func TestQuerySubstringFallback(t *testing.T) {
	store, _ := testStore(t)

	seedRun(t, store,
		NewRun(KindPost, "janedoe", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		[]Record{
			{ID: "post:1", Kind: KindPost, Content: "announcing our new compiler", FetchedAt: "2026-02-01T00:00:00Z"},
			{ID: "post:2", Kind: KindPost, Content: "lunch was good", FetchedAt: "2026-02-01T00:00:00Z"},
		})

	// Binaries built without the fts5 module search by substring instead.
	store.fts = false

	results, err := store.Query(context.Background(), QueryOptions{Query: "compil"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "post:1" {
		t.Fatalf("substring query: got %+v", results)
	}
}

func TestRuns(t *testing.T) {
	store, _ := testStore(t)

	seedRun(t, store,
		NewRun(KindPost, "janedoe", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		[]Record{{ID: "post:1", Kind: KindPost}})
	seedRun(t, store,
		NewRun(KindPaper, "qec", time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)),
		[]Record{{ID: "paper:a", Kind: KindPaper}, {ID: "paper:b", Kind: KindPaper}})

	runs, err := store.Runs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Kind != KindPaper {
		t.Errorf("expected newest run first, got %s", runs[0].Kind)
	}
	if runs[0].RecordCount != 2 {
		t.Errorf("expected record_count 2, got %d", runs[0].RecordCount)
	}
}

func TestExport(t *testing.T) {
	store, dir := testStore(t)

	seedRun(t, store,
		NewRun(KindPost, "janedoe", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		[]Record{{ID: "post:1", Kind: KindPost, Content: "hello", FetchedAt: "2026-02-01T00:00:00Z"}})

	if err := store.ExportYAML(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := store.ExportJSON(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	yamlData, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []QueryResult
	if err := yaml.Unmarshal(yamlData, &fromYAML); err != nil {
		t.Fatal(err)
	}
	if len(fromYAML) != 1 || fromYAML[0].ID != "post:1" {
		t.Errorf("yaml export: got %+v", fromYAML)
	}

	jsonData, err := os.ReadFile(filepath.Join(dir, "export.json"))
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []QueryResult
	if err := json.Unmarshal(jsonData, &fromJSON); err != nil {
		t.Fatal(err)
	}
	if len(fromJSON) != 1 || fromJSON[0].Content != "hello" {
		t.Errorf("json export: got %+v", fromJSON)
	}
}

func TestExportHonorsLimit(t *testing.T) {
	store, dir := testStore(t)

	seedRun(t, store,
		NewRun(KindPost, "janedoe", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		[]Record{
			{ID: "post:1", Kind: KindPost, Content: "a", FetchedAt: "2026-02-01T00:00:00Z"},
			{ID: "post:2", Kind: KindPost, Content: "b", FetchedAt: "2026-02-01T00:00:01Z"},
		})

	if err := store.ExportYAML(context.Background(), QueryOptions{MaxResults: 1}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var entries []QueryResult
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 exported record, got %d", len(entries))
	}
}

func TestRecordConverters(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	doc := &types.PostsDocument{
		Account:   types.Account{ID: "42", Username: "janedoe"},
		Posts:     []types.Post{{ID: "100", Text: "hi"}},
		FetchedAt: now,
	}
	posts := PostRecords(doc)
	if len(posts) != 1 {
		t.Fatalf("expected 1 post record, got %d", len(posts))
	}
	if posts[0].ID != "post:100" || posts[0].URL != "https://x.com/janedoe/status/100" {
		t.Errorf("post record: %+v", posts[0])
	}

	serp := SERPRecords([]types.SERPResult{
		{Title: "T", URL: "https://example.com", Snippet: "s"},
	}, now)
	if len(serp) != 1 || serp[0].ID != "serp:https://example.com" {
		t.Errorf("serp record: %+v", serp)
	}

	papers := PaperRecords([]types.ArxivPaper{
		{ArxivID: "2301.00001v1", IDURL: "http://arxiv.org/abs/2301.00001v1", Title: "P", Summary: "a"},
	}, now)
	if len(papers) != 1 || papers[0].ID != "paper:2301.00001v1" {
		t.Errorf("paper record: %+v", papers)
	}

	run := NewRun(KindPost, "janedoe", now)
	if run.ID != "post:janedoe:20260201T120000Z" {
		t.Errorf("run id: %s", run.ID)
	}
	if run.StartedAt != "2026-02-01T12:00:00Z" {
		t.Errorf("run started_at: %s", run.StartedAt)
	}
}
