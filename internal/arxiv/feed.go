// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/meshintel/footprint/pkg/types"
)

// arXiv Atom feed XML structures.
type atomFeed struct {
	TotalResults string      `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Links      []atomLink     `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

// ParseFeed decodes an arXiv Atom feed into papers plus the
// opensearch:totalResults count. Text fields have their whitespace
// collapsed, since the feed wraps them across indented lines.
func ParseFeed(r io.Reader) (total int, papers []types.ArxivPaper, err error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return 0, nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}

	fmt.Sscanf(strings.TrimSpace(feed.TotalResults), "%d", &total)

	for _, entry := range feed.Entries {
		idURL := collapse(entry.ID)

		p := types.ArxivPaper{
			ArxivID:        arxivIDFromURL(idURL),
			IDURL:          idURL,
			Title:          collapse(entry.Title),
			Summary:        collapse(entry.Summary),
			Published:      collapse(entry.Published),
			Updated:        collapse(entry.Updated),
			PDFURL:         extractPDFURL(entry),
			DownloadStatus: types.DownloadPending,
		}

		for _, a := range entry.Authors {
			if name := collapse(a.Name); name != "" {
				p.Authors = append(p.Authors, name)
			}
		}
		for _, c := range entry.Categories {
			if c.Term != "" {
				p.Categories = append(p.Categories, c.Term)
			}
		}

		papers = append(papers, p)
	}
	return total, papers, nil
}

// extractPDFURL finds the PDF link, preferring the explicit
// rel="related" title="pdf" link and falling back to rewriting the
// abstract URL.
func extractPDFURL(entry atomEntry) string {
	for _, link := range entry.Links {
		if link.Title == "pdf" && link.Rel == "related" && link.Href != "" {
			return link.Href
		}
	}
	id := collapse(entry.ID)
	if strings.Contains(id, "/abs/") {
		return strings.Replace(id, "/abs/", "/pdf/", 1)
	}
	return ""
}

// arxivIDFromURL pulls the identifier (version suffix included) from the
// entry's abstract URL, e.g. "http://arxiv.org/abs/2301.07041v1"
// becomes "2301.07041v1". Anything without /abs/ is returned as-is.
func arxivIDFromURL(idURL string) string {
	if idx := strings.LastIndex(idURL, "/abs/"); idx >= 0 {
		return idURL[idx+len("/abs/"):]
	}
	return idURL
}

// collapse trims and collapses internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
