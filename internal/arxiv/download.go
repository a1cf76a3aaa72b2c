// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/footprint/pkg/types"
)

const fragmentMaxLen = 80

// DownloadSummary holds the outcome of a batch PDF download.
type DownloadSummary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// DownloadAll fetches the PDF for each entry into pdfDir, mutating each
// entry's DownloadStatus and PDFFile in place. Filenames are
// "NNNN_<id>.pdf" in entry order. Existing files are kept unless
// Overwrite is set. Individual failures are recorded per entry and
// never abort the batch.
func (c *Client) DownloadAll(ctx context.Context, entries []types.ArxivPaper, pdfDir string, w io.Writer) (DownloadSummary, error) {
	var summary DownloadSummary

	if err := os.MkdirAll(pdfDir, 0o755); err != nil {
		return summary, fmt.Errorf("creating %s: %w", pdfDir, err)
	}

	for i := range entries {
		entry := &entries[i]
		safeID := sanitizeFragment(entry.ArxivID, fragmentMaxLen)
		outPath := filepath.Join(pdfDir, fmt.Sprintf("%04d_%s.pdf", i+1, safeID))
		entry.PDFFile = outPath

		if entry.PDFURL == "" {
			entry.DownloadStatus = types.DownloadNoPDFURL
			summary.Failed++
			continue
		}

		if _, err := os.Stat(outPath); err == nil && !c.Cfg.Overwrite {
			entry.DownloadStatus = types.DownloadExists
			summary.Skipped++
			continue
		}

		if err := c.downloadPDF(ctx, entry.PDFURL, outPath); err != nil {
			entry.DownloadStatus = "error: " + err.Error()
			summary.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", entry.ArxivID, err)
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			continue
		}

		entry.DownloadStatus = types.DownloadDone
		summary.Downloaded++
		fmt.Fprintf(w, "downloaded: %s\n", filepath.Base(outPath))

		if i < len(entries)-1 && c.Cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(c.Cfg.DownloadDelay):
			}
		}
	}

	return summary, nil
}

// downloadPDF fetches url to destPath using a temporary file so a
// partial download never lands under the final name.
func (c *Client) downloadPDF(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// WriteMetadataFiles writes one YAML record per entry into metaDir,
// named by the sanitized arXiv ID.
func WriteMetadataFiles(entries []types.ArxivPaper, metaDir string) error {
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", metaDir, err)
	}
	for _, entry := range entries {
		data, err := yaml.Marshal(&entry)
		if err != nil {
			return fmt.Errorf("marshaling metadata for %s: %w", entry.ArxivID, err)
		}
		path := filepath.Join(metaDir, sanitizeFragment(entry.ArxivID, fragmentMaxLen)+".yaml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
