package process

import (
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

// ChunkerConfig bounds chunk size and overlap, both in tokens
type ChunkerConfig struct {
	MaxChunkTokens int
	ChunkOverlap   int
}

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// ChunkPage splits a page's markdown by headings, falling back to recursive character
// splitting for oversized sections. Each chunk carries its heading trail so it can be
// retrieved on its own by the site generator.
func ChunkPage(page models.SemanticPage, cfg ChunkerConfig, tok *Tokenizer) ([]models.ContentChunk, error) {
	if strings.TrimSpace(page.Markdown) == "" {
		return nil, nil
	}

	recursive := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.MaxChunkTokens),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		textsplitter.WithLenFunc(tok.Estimate),
	)
	splitter := textsplitter.NewMarkdownTextSplitter(
		textsplitter.WithHeadingHierarchy(true),
		textsplitter.WithChunkSize(cfg.MaxChunkTokens),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		textsplitter.WithSecondSplitter(recursive),
		textsplitter.WithLenFunc(tok.Estimate),
	)

	parts, err := splitter.SplitText(page.Markdown)
	if err != nil {
		return nil, err
	}

	chunks := make([]models.ContentChunk, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		chunks = append(chunks, models.ContentChunk{
			SourceURL:  page.URL,
			Intent:     page.SemanticIntent,
			Headings:   headingTrail(part),
			Content:    part,
			TokenCount: tok.Estimate(part),
		})
	}
	return chunks, nil
}

func headingTrail(content string) []string {
	var trail []string
	for _, m := range headingRegex.FindAllStringSubmatch(content, -1) {
		if h := strings.TrimSpace(m[2]); h != "" {
			trail = append(trail, h)
		}
	}
	return trail
}
