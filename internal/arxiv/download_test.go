package arxiv

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/meshintel/footprint/pkg/types"
)

func downloadTestClient(ts *httptest.Server, overwrite bool) *Client {
	return New(ts.Client(), types.ArxivConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "footprint-test/0.1"},
		Overwrite:  overwrite,
	})
}

func TestDownloadAll(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pdf/ok":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4 fake"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	dir := t.TempDir()
	entries := []types.ArxivPaper{
		{ArxivID: "2301.00001v1", PDFURL: ts.URL + "/pdf/ok"},
		{ArxivID: "2301.00002v1"}, // no PDF link in the feed
		{ArxivID: "2301.00003v1", PDFURL: ts.URL + "/pdf/missing"},
		{ArxivID: "2301.00004v1", PDFURL: ts.URL + "/pdf/ok"},
	}

	var buf bytes.Buffer
	summary, err := downloadTestClient(ts, false).DownloadAll(context.Background(), entries, dir, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Downloaded)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 2, summary.Failed)

	assert.Equal(t, types.DownloadDone, entries[0].DownloadStatus)
	assert.Equal(t, filepath.Join(dir, "0001_2301.00001v1.pdf"), entries[0].PDFFile)
	data, err := os.ReadFile(entries[0].PDFFile)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))

	assert.Equal(t, types.DownloadNoPDFURL, entries[1].DownloadStatus)
	assert.Contains(t, entries[2].DownloadStatus, "error: ")
	assert.Contains(t, entries[2].DownloadStatus, "HTTP 404")
	assert.Equal(t, types.DownloadDone, entries[3].DownloadStatus)

	// A failed entry must not leave a file or a temp remnant behind.
	_, statErr := os.Stat(entries[2].PDFFile)
	assert.True(t, os.IsNotExist(statErr))
	leftovers, err := filepath.Glob(filepath.Join(dir, ".download-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDownloadAllSkipsExisting(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte("fresh"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "0001_2301.00001v1.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("stale"), 0o644))

	entries := []types.ArxivPaper{{ArxivID: "2301.00001v1", PDFURL: ts.URL + "/pdf"}}

	var buf bytes.Buffer
	summary, err := downloadTestClient(ts, false).DownloadAll(context.Background(), entries, dir, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, types.DownloadExists, entries[0].DownloadStatus)
	assert.Zero(t, calls)
	data, _ := os.ReadFile(existing)
	assert.Equal(t, "stale", string(data))
}

func TestDownloadAllOverwrite(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("fresh"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "0001_2301.00001v1.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("stale"), 0o644))

	entries := []types.ArxivPaper{{ArxivID: "2301.00001v1", PDFURL: ts.URL + "/pdf"}}

	var buf bytes.Buffer
	summary, err := downloadTestClient(ts, true).DownloadAll(context.Background(), entries, dir, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Downloaded)
	data, _ := os.ReadFile(existing)
	assert.Equal(t, "fresh", string(data))
}

func TestDownloadAllSanitizesFilename(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	entries := []types.ArxivPaper{{ArxivID: "hep-th/9901001v2", PDFURL: ts.URL + "/pdf"}}

	var buf bytes.Buffer
	_, err := downloadTestClient(ts, false).DownloadAll(context.Background(), entries, dir, &buf)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "0001_hep-th_9901001v2.pdf"), entries[0].PDFFile)
	_, statErr := os.Stat(entries[0].PDFFile)
	assert.NoError(t, statErr)
}

func TestWriteMetadataFiles(t *testing.T) {
	dir := t.TempDir()
	entries := []types.ArxivPaper{
		{
			ArxivID:        "2301.00001v1",
			IDURL:          "http://arxiv.org/abs/2301.00001v1",
			Title:          "A Paper",
			Authors:        []string{"Jane Doe"},
			Categories:     []string{"cs.LG"},
			DownloadStatus: types.DownloadDone,
		},
	}

	metaDir := filepath.Join(dir, "metadata")
	require.NoError(t, WriteMetadataFiles(entries, metaDir))

	data, err := os.ReadFile(filepath.Join(metaDir, "2301.00001v1.yaml"))
	require.NoError(t, err)

	var got types.ArxivPaper
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, entries[0], got)
}
