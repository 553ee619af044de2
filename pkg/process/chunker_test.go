package process

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

func testTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := NewTokenizer("cl100k_base")
	require.NoError(t, err)
	return tok
}

func TestChunkPage_Empty(t *testing.T) {
	chunks, err := ChunkPage(models.SemanticPage{URL: "https://a.test/"}, ChunkerConfig{MaxChunkTokens: 512, ChunkOverlap: 50}, testTokenizer(t))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkPage_SmallPageIsOneChunk(t *testing.T) {
	page := models.SemanticPage{
		URL:            "https://a.test/about",
		SemanticIntent: models.IntentVisionMission,
		Markdown:       "# Our Story\n\nWe have baked bread on Main Street since 1987.",
	}
	chunks, err := ChunkPage(page, ChunkerConfig{MaxChunkTokens: 512, ChunkOverlap: 50}, testTokenizer(t))
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, "https://a.test/about", c.SourceURL)
	assert.Equal(t, models.IntentVisionMission, c.Intent)
	assert.Contains(t, c.Content, "Main Street")
	assert.Equal(t, []string{"Our Story"}, c.Headings)
	assert.Positive(t, c.TokenCount)
}

func TestChunkPage_SplitsByHeading(t *testing.T) {
	markdown := `# Services

Intro to what we do.

## Catering

` + strings.Repeat("We cater weddings, birthdays and office lunches across the county. ", 12) + `

## Custom Cakes

` + strings.Repeat("Every cake is designed with you and baked to order in our kitchen. ", 12)

	page := models.SemanticPage{URL: "https://a.test/services", Markdown: markdown}
	chunks, err := ChunkPage(page, ChunkerConfig{MaxChunkTokens: 120, ChunkOverlap: 10}, testTokenizer(t))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	var sawCatering, sawCakes bool
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c.Content))
		for _, h := range c.Headings {
			sawCatering = sawCatering || h == "Catering"
			sawCakes = sawCakes || h == "Custom Cakes"
		}
	}
	assert.True(t, sawCatering)
	assert.True(t, sawCakes)
}

func TestHeadingTrail(t *testing.T) {
	assert.Equal(t, []string{"A", "B c"}, headingTrail("# A\ntext\n### B c\nmore"))
	assert.Nil(t, headingTrail("no headings"))
}
