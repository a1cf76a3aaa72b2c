// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv searches the arXiv API and downloads matching PDFs.
package arxiv

import (
	"regexp"
	"strings"
)

// NormalizeTerm collapses whitespace and quotes multi-word terms for the
// arXiv query language. Embedded quotes are removed before quoting.
func NormalizeTerm(term string) string {
	term = strings.Join(strings.Fields(term), " ")
	if term == "" {
		return term
	}
	if strings.Contains(term, " ") {
		term = `"` + strings.ReplaceAll(term, `"`, "") + `"`
	}
	return term
}

// BuildQuery constructs the search_query value from author and topic
// clauses joined with AND.
func BuildQuery(author, topic string) string {
	var clauses []string
	if author != "" {
		clauses = append(clauses, "au:"+NormalizeTerm(author))
	}
	if topic != "" {
		clauses = append(clauses, "all:"+NormalizeTerm(topic))
	}
	return strings.Join(clauses, " AND ")
}

var fragmentPattern = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sanitizeFragment reduces an identifier to a filesystem-safe filename stem.
func sanitizeFragment(value string, maxLen int) string {
	cleaned := strings.Trim(fragmentPattern.ReplaceAllString(value, "_"), "_")
	if cleaned == "" {
		cleaned = "paper"
	}
	if len(cleaned) > maxLen {
		cleaned = cleaned[:maxLen]
	}
	return cleaned
}
