// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package serp

import (
	"regexp"
	"strings"

	"github.com/meshintel/footprint/pkg/types"
)

// resultListKeys are the well-known payload keys checked before falling
// back to the recursive walk.
var resultListKeys = []string{"results", "items", "organic_results", "search_results", "data"}

// urlKeys are the candidate URL fields of a result object, in preference order.
var urlKeys = []string{"url", "link", "href", "target_url", "result_url"}

var titleKeys = []string{"title", "name", "headline"}

var snippetKeys = []string{"snippet", "description", "summary", "body"}

// FindResults locates the result item list in an arbitrary API payload.
// A top-level list is taken as-is; otherwise the well-known keys are
// checked, and failing that the payload is walked recursively for the
// list whose items look most like search results (objects carrying a
// url/link/href key).
func FindResults(payload any) []any {
	if list, ok := payload.([]any); ok {
		return list
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}

	for _, key := range resultListKeys {
		if list, ok := obj[key].([]any); ok {
			return list
		}
	}

	var best []any
	var walk func(node any)
	walk = func(node any) {
		switch n := node.(type) {
		case map[string]any:
			for _, v := range n {
				walk(v)
			}
		case []any:
			if len(n) > 0 && allObjects(n) {
				score := 0
				for _, item := range n {
					if looksLikeResult(item) {
						score++
					}
				}
				if score > 0 && score >= len(best) {
					best = n
				}
			}
			for _, v := range n {
				walk(v)
			}
		}
	}
	walk(obj)
	return best
}

func allObjects(list []any) bool {
	for _, item := range list {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// looksLikeResult reports whether an item carries a URL-ish key.
func looksLikeResult(item any) bool {
	obj, ok := item.(map[string]any)
	if !ok {
		return false
	}
	for k := range obj {
		switch strings.ToLower(k) {
		case "url", "link", "href":
			return true
		}
	}
	return false
}

// pickURL returns the first http(s) URL field of a result object.
func pickURL(item map[string]any) string {
	for _, key := range urlKeys {
		if v, ok := item[key].(string); ok {
			if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
				return v
			}
		}
	}
	return ""
}

func pickString(item map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := item[key].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// Normalize converts a raw result object into a stable record. It
// returns nil when the item carries no usable URL.
func Normalize(item any, rank int) *types.SERPResult {
	obj, ok := item.(map[string]any)
	if !ok {
		return nil
	}
	u := pickURL(obj)
	if u == "" {
		return nil
	}
	return &types.SERPResult{
		Rank:    rank,
		Title:   pickString(obj, titleKeys),
		URL:     u,
		Snippet: pickString(obj, snippetKeys),
		Raw:     obj,
	}
}

// NormalizeAll normalizes raw results in order, dropping items without a
// URL and duplicate URLs, and stopping at max records (max <= 0 keeps all).
func NormalizeAll(raw []any, max int) []types.SERPResult {
	var out []types.SERPResult
	seen := make(map[string]bool)

	for _, item := range raw {
		if max > 0 && len(out) >= max {
			break
		}
		r := Normalize(item, len(out)+1)
		if r == nil {
			continue
		}
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, *r)
	}
	return out
}

var sanitizePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeName reduces text to a filesystem-safe fragment.
func SanitizeName(text string, maxLen int) string {
	cleaned := strings.Trim(sanitizePattern.ReplaceAllString(text, "_"), "_")
	if cleaned == "" {
		cleaned = "result"
	}
	if len(cleaned) > maxLen {
		cleaned = cleaned[:maxLen]
	}
	return cleaned
}
