// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package serp

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// snapshotUserAgent identifies the snapshot fetcher to result sites.
const snapshotUserAgent = "Mozilla/5.0 (compatible; FootprintBot/1.0)"

// htmlSniffLen is how many leading bytes are checked for an <html tag
// when the Content-Type is not conclusive.
const htmlSniffLen = 2048

// SnapshotStatus records the outcome of one snapshot download.
type SnapshotStatus struct {
	Saved       bool
	StatusCode  int
	ContentType string
	PageTitle   string
	Err         error
}

var nonHTMLTemplate = template.Must(template.New("nonhtml").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Non-HTML result</title>
  </head>
  <body>
    <h1>Non-HTML content skipped</h1>
    <p>URL: <a href="{{.URL}}">{{.URL}}</a></p>
    <p>Status: {{.Status}}</p>
    <p>Content-Type: {{.ContentType}}</p>
  </body>
</html>
`))

// FetchSnapshot downloads one result URL and saves it to destPath. HTML
// bodies are written verbatim; anything else gets a small placeholder
// document recording what was skipped. Failures are reported in the
// returned status, never by aborting: a bad result page should not sink
// the run.
func FetchSnapshot(ctx context.Context, client *http.Client, rawURL, destPath string) SnapshotStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return SnapshotStatus{Err: err}
	}
	req.Header.Set("User-Agent", snapshotUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return SnapshotStatus{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SnapshotStatus{StatusCode: resp.StatusCode, Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	status := SnapshotStatus{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
	}

	if isHTML(contentType, body) {
		if err := os.WriteFile(destPath, body, 0o644); err != nil {
			status.Err = err
			return status
		}
		status.PageTitle = extractTitle(body)
	} else {
		var buf bytes.Buffer
		nonHTMLTemplate.Execute(&buf, map[string]string{
			"URL":         rawURL,
			"Status":      fmt.Sprintf("%d", resp.StatusCode),
			"ContentType": orUnknown(contentType),
		})
		if err := os.WriteFile(destPath, buf.Bytes(), 0o644); err != nil {
			status.Err = err
			return status
		}
	}

	status.Saved = true
	return status
}

// isHTML checks the Content-Type header, then sniffs the body head.
func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := body
	if len(head) > htmlSniffLen {
		head = head[:htmlSniffLen]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<html"))
}

// extractTitle pulls the page <title> from saved HTML. Best effort: an
// unparseable page simply has no title in the index.
func extractTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
