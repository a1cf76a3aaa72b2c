// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Download status values recorded per paper by the papers command.
const (
	DownloadPending  = "pending"
	DownloadDone     = "downloaded"
	DownloadExists   = "exists"
	DownloadNoPDFURL = "no_pdf_url"
)

// ArxivPaper holds one arXiv search entry and its download outcome.
type ArxivPaper struct {
	// ArxivID is the bare identifier (e.g. "2301.07041v2").
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// IDURL is the abstract page URL from the feed entry's <id>.
	IDURL string `json:"id_url" yaml:"id_url"`

	// Title is the paper title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Summary is the abstract with whitespace collapsed.
	Summary string `json:"summary" yaml:"summary"`

	// Published and Updated are the feed timestamps, verbatim.
	Published string `json:"published" yaml:"published"`
	Updated   string `json:"updated" yaml:"updated"`

	// Authors lists author names in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists the arXiv category terms (e.g. "cs.LG").
	Categories []string `json:"categories" yaml:"categories"`

	// PDFURL is the resolved PDF link; empty when the entry carried none.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// DownloadStatus is one of the Download* constants or "error: ...".
	DownloadStatus string `json:"download_status" yaml:"download_status"`

	// PDFFile is the local path the PDF was (or would be) written to.
	PDFFile string `json:"pdf_file" yaml:"pdf_file"`
}

// ArxivRunMetadata is the metadata.json document written by the papers command.
type ArxivRunMetadata struct {
	GeneratedAt         time.Time    `json:"generated_at_utc"`
	SearchQuery         string       `json:"search_query"`
	Author              string       `json:"author"`
	Topic               string       `json:"topic"`
	RequestedResults    int          `json:"requested_results"`
	EffectiveRequested  int          `json:"effective_requested_results"`
	RetrievedResults    int          `json:"retrieved_results"`
	TotalAvailable      int          `json:"total_available"`
	DownloadedCount     int          `json:"downloaded_count"`
	DownloadFailedCount int          `json:"download_failed_count"`
	OutputDir           string       `json:"output_dir"`
	PDFDir              string       `json:"pdf_dir"`
	Entries             []ArxivPaper `json:"entries"`
}
