package process

import (
	"fmt"
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// toMarkdown converts the page's main content (main, article, or body) to markdown,
// leaving out site chrome
func toMarkdown(doc *goquery.Document) (string, error) {
	root := doc.Find("main, [role='main']").First()
	if root.Length() == 0 {
		root = doc.Find("article").First()
	}
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		return "", nil
	}

	content := root.Clone()
	content.Find("nav, form, iframe, [role='navigation'], [role='banner'], [role='contentinfo']").Remove()
	// Page-level header and footer, not the ones scoped to an article or section
	content.Find("header, footer").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered("article, section").Length() == 0
	}).Remove()
	cleanupHTML(content)
	expandDetails(content)

	raw, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing main content: %w", err)
	}
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: markdown conversion: %w", utils.ErrParsing, err)
	}
	return strings.TrimSpace(markdown), nil
}

// cleanupHTML removes elements that only add noise to markdown: skip links, cookie
// banners, hidden elements and empty or fragment-only anchors
func cleanupHTML(content *goquery.Selection) {
	content.Find("[class*='cookie'], [id*='cookie'], [class*='skip-link'], .screen-reader-text, [hidden], [aria-hidden='true']").Remove()
	content.Find("a").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		href, _ := s.Attr("href")
		if s.Find("img").Length() > 0 {
			return
		}
		if text == "" || text == "#" || (strings.HasPrefix(href, "#") && len(text) <= 1) {
			s.Remove()
		}
	})
}

// expandDetails rewrites <details><summary>Q</summary>A</details>, a common FAQ markup,
// into a heading followed by its answer so the section splitter pairs them
func expandDetails(content *goquery.Selection) {
	content.Find("details").Each(func(_ int, s *goquery.Selection) {
		summary := s.ChildrenFiltered("summary").First()
		question := utils.CleanText(summary.Text())
		summary.Remove()
		answer, err := s.Html()
		if err != nil || question == "" {
			return
		}
		s.ReplaceWithHtml("<h4>" + html.EscapeString(question) + "</h4><div>" + answer + "</div>")
	})
}
