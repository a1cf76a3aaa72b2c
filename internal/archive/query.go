// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for archive queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over title and content.
	Query string

	// Kind filters by record kind ("post", "serp", "paper").
	Kind string

	// Target filters by the run's target (username, person name, query).
	Target string

	// RunID filters by a single run.
	RunID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Kind == "" && q.Target == "" && q.RunID == ""
}

// QueryResult is a Record joined with its run's target.
type QueryResult struct {
	Record
	RunTarget string `json:"run_target" yaml:"run_target"`
}

// Query searches the archive with optional full-text search and
// structured filters. Full-text queries are ranked by relevance;
// structured-only queries are sorted by fetch time, newest first. When
// the binary was built without the fts5 module, search terms match as
// substrings of title or content instead.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	if useFTS {
		qb.WriteString(
			`SELECT r.id, r.run_id, r.kind, r.title, r.url, r.content, r.fetched_at,
				ru.target, records_fts.rank
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			LEFT JOIN runs ru ON r.run_id = ru.id
			WHERE records_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT r.id, r.run_id, r.kind, r.title, r.url, r.content, r.fetched_at,
				ru.target, 0 AS rank
			FROM records r
			LEFT JOIN runs ru ON r.run_id = ru.id
			WHERE 1=1`)
		if opts.Query != "" {
			qb.WriteString(` AND (r.title LIKE ? OR r.content LIKE ?)`)
			pattern := "%" + opts.Query + "%"
			args = append(args, pattern, pattern)
		}
	}

	if opts.Kind != "" {
		qb.WriteString(` AND r.kind = ?`)
		args = append(args, opts.Kind)
	}

	if opts.Target != "" {
		qb.WriteString(` AND ru.target = ?`)
		args = append(args, opts.Target)
	}

	if opts.RunID != "" {
		qb.WriteString(` AND r.run_id = ?`)
		args = append(args, opts.RunID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.fetched_at DESC, r.id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr        QueryResult
			title     sql.NullString
			url       sql.NullString
			content   sql.NullString
			fetchedAt sql.NullString
			target    sql.NullString
			rank      float64
		)

		if err := rows.Scan(
			&qr.ID, &qr.RunID, &qr.Kind, &title, &url, &content, &fetchedAt,
			&target, &rank,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.Title = title.String
		qr.URL = url.String
		qr.Content = content.String
		qr.FetchedAt = fetchedAt.String
		qr.RunTarget = target.String

		results = append(results, qr)
	}

	return results, rows.Err()
}

// Runs lists archived runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, target, started_at, record_count
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.Target, &r.StartedAt, &r.RecordCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
