// Package process turns rendered DOM snapshots into SemanticPages and page markdown
// into sections and token-counted chunks.
package process

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	minParagraphRunes = 21 // paragraphs must be longer than 20 characters
	minListItemRunes  = 5
	maxListItemRunes  = 300
)

// Extractor builds SemanticPages. It performs no I/O.
type Extractor struct {
	rawTextCap int
	log        *logrus.Entry
}

// NewExtractor creates an Extractor; rawTextCap bounds SemanticPage.RawText in characters
func NewExtractor(rawTextCap int, log *logrus.Entry) *Extractor {
	return &Extractor{rawTextCap: rawTextCap, log: log}
}

// Extract parses the rendered page's DOM into an unclassified SemanticPage.
// The same snapshot always yields the same page.
func (e *Extractor) Extract(page *models.RenderedPage) (models.SemanticPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return models.SemanticPage{}, fmt.Errorf("%w: HTML of %s: %w", utils.ErrParsing, page.URL, err)
	}

	base, err := url.Parse(page.FinalURL)
	if err != nil || base.Host == "" {
		base, err = url.Parse(page.URL)
		if err != nil {
			return models.SemanticPage{}, fmt.Errorf("%w: URL '%s': %w", utils.ErrParsing, page.URL, err)
		}
	}
	pageLog := e.log.WithField("url", page.URL)

	// Metadata lives in <head> scripts, so read it before scripts are stripped
	sp := models.SemanticPage{
		URL:             page.URL,
		Path:            pagePath(page.URL),
		MetaDescription: metaDescription(doc),
		SiteName:        siteName(doc),
		ImageURLs:       append([]string(nil), page.ImageURLs...),
		Styles:          page.Styles,
		Depth:           page.Depth,
	}
	doc.Find("script, style, noscript, template, svg").Remove()

	sp.Title = utils.CleanText(doc.Find("title").First().Text())
	if sp.Title == "" {
		sp.Title = utils.CleanText(doc.Find("h1").First().Text())
	}

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if t := utils.CleanText(s.Text()); t != "" {
			sp.Headings = append(sp.Headings, t)
		}
	})
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := utils.CleanText(s.Text()); utils.RuneLen(t) >= minParagraphRunes {
			sp.Paragraphs = append(sp.Paragraphs, t)
		}
	})
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		t := utils.CleanText(s.Text())
		if n := utils.RuneLen(t); n >= minListItemRunes && n <= maxListItemRunes {
			sp.ListItems = append(sp.ListItems, t)
		}
	})
	sp.RawText = buildRawText(sp, e.rawTextCap)

	sp.Links = extractLinks(doc, base)
	sp.FooterText = footerText(doc)
	sp.Quotes = extractQuotes(doc)
	sp.Profiles = extractProfiles(doc, base)

	markdown, err := toMarkdown(doc)
	if err != nil {
		pageLog.Debugf("Markdown conversion failed: %v", err)
	}
	sp.Markdown = markdown
	sp.Sections = SplitSections([]byte(markdown))

	pageLog.WithFields(logrus.Fields{
		"headings": len(sp.Headings), "paragraphs": len(sp.Paragraphs), "list_items": len(sp.ListItems),
		"sections": len(sp.Sections), "quotes": len(sp.Quotes), "profiles": len(sp.Profiles),
	}).Debug("Page extracted")
	return sp, nil
}

// buildRawText lays out the page as markdown-like text: title, headings, paragraphs,
// then list items, capped at limit characters
func buildRawText(sp models.SemanticPage, limit int) string {
	var b strings.Builder
	if sp.Title != "" {
		b.WriteString("# ")
		b.WriteString(sp.Title)
		b.WriteString("\n\n")
	}
	for _, h := range sp.Headings {
		b.WriteString("## ")
		b.WriteString(h)
		b.WriteString("\n")
	}
	for _, p := range sp.Paragraphs {
		b.WriteString("\n")
		b.WriteString(p)
		b.WriteString("\n")
	}
	if len(sp.ListItems) > 0 {
		b.WriteString("\n")
	}
	for _, li := range sp.ListItems {
		b.WriteString("- ")
		b.WriteString(li)
		b.WriteString("\n")
	}
	raw := strings.TrimSpace(b.String())
	if limit > 0 {
		raw = utils.TruncateRunes(raw, limit)
	}
	return raw
}

func pagePath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

func metaDescription(doc *goquery.Document) string {
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`, `meta[name="twitter:description"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = utils.CleanText(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func footerText(doc *goquery.Document) string {
	footer := doc.Find("footer, [role='contentinfo'], #footer, .footer, .site-footer").Last()
	return utils.CleanText(footer.Text())
}
