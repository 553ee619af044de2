package process

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// SplitSections parses markdown and groups the top-level blocks under their preceding
// heading. Content before the first heading is not part of any section.
func SplitSections(markdown []byte) []models.Section {
	if len(bytes.TrimSpace(markdown)) == 0 {
		return nil
	}
	doc := goldmark.DefaultParser().Parse(text.NewReader(markdown))

	var sections []models.Section
	var cur *models.Section
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			if cur != nil {
				sections = append(sections, *cur)
			}
			cur = &models.Section{Heading: nodeText(h, markdown), Level: h.Level}
			continue
		}
		if cur == nil {
			continue
		}

		switch node := n.(type) {
		case *ast.Paragraph, *ast.Blockquote:
			if t := nodeText(node, markdown); t != "" {
				cur.Paragraphs = append(cur.Paragraphs, t)
			}
		case *ast.List:
			for li := node.FirstChild(); li != nil; li = li.NextSibling() {
				if t := nodeText(li, markdown); t != "" {
					cur.ListItems = append(cur.ListItems, t)
				}
			}
		}
	}
	if cur != nil {
		sections = append(sections, *cur)
	}
	return sections
}

// nodeText renders the visible text of n: text and string leaves, with line breaks and
// block boundaries as spaces. Image alt text and raw HTML are dropped.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Image, *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		default:
			if node != n && node.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return utils.CleanText(b.String())
}
