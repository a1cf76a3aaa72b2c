package arxiv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/footprint/pkg/types"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"
      xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/">
  <opensearch:totalResults>1234</opensearch:totalResults>
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Attention
      Is All
      You Need</title>
    <summary>
      We propose a new
      architecture.
    </summary>
    <published>2023-01-17T18:59:59Z</published>
    <updated>2023-01-18T00:00:00Z</updated>
    <author><name>Ashish Vaswani</name></author>
    <author><name> Noam  Shazeer </name></author>
    <category term="cs.LG"/>
    <category term="cs.CL"/>
    <link href="http://arxiv.org/abs/2301.07041v1" rel="alternate" type="text/html"/>
    <link href="http://arxiv.org/pdf/2301.07041v1" rel="related" title="pdf" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00001v2</id>
    <title>No PDF Link</title>
    <summary>Fallback case.</summary>
    <published>2023-02-01T00:00:00Z</published>
    <updated>2023-02-02T00:00:00Z</updated>
    <author><name>Jane Doe</name></author>
  </entry>
</feed>`

func TestParseFeed(t *testing.T) {
	total, papers, err := ParseFeed(strings.NewReader(sampleFeed))
	require.NoError(t, err)

	assert.Equal(t, 1234, total)
	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "2301.07041v1", p.ArxivID)
	assert.Equal(t, "http://arxiv.org/abs/2301.07041v1", p.IDURL)
	assert.Equal(t, "Attention Is All You Need", p.Title)
	assert.Equal(t, "We propose a new architecture.", p.Summary)
	assert.Equal(t, "2023-01-17T18:59:59Z", p.Published)
	assert.Equal(t, "2023-01-18T00:00:00Z", p.Updated)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, p.Authors)
	assert.Equal(t, []string{"cs.LG", "cs.CL"}, p.Categories)
	assert.Equal(t, "http://arxiv.org/pdf/2301.07041v1", p.PDFURL)
	assert.Equal(t, types.DownloadPending, p.DownloadStatus)

	// Second entry has no explicit pdf link: the abs URL is rewritten.
	assert.Equal(t, "http://arxiv.org/pdf/2302.00001v2", papers[1].PDFURL)
	assert.Equal(t, "2302.00001v2", papers[1].ArxivID)
}

func TestParseFeedEmpty(t *testing.T) {
	const empty = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom"
      xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/">
  <opensearch:totalResults>0</opensearch:totalResults>
</feed>`

	total, papers, err := ParseFeed(strings.NewReader(empty))
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, papers)
}

func TestParseFeedBadXML(t *testing.T) {
	_, _, err := ParseFeed(strings.NewReader("not xml at all"))
	assert.Error(t, err)
}
