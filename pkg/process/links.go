package process

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/parse"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// extractLinks lists every anchor with an http(s), mailto: or tel: target, tagged with the
// page region it sits in. Unlike the renderer's link list, off-site links are kept since
// social profiles live there.
func extractLinks(doc *goquery.Document, base *url.URL) []models.Link {
	var links []models.Link
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		var target string
		lower := strings.ToLower(href)
		switch {
		case strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "tel:"):
			target = href
		default:
			abs, ok := parse.ResolveLink(base, href)
			if !ok {
				return
			}
			abs.Fragment = ""
			target = abs.String()
		}

		text := utils.CleanText(s.Text())
		if text == "" {
			text = utils.CleanText(s.AttrOr("aria-label", s.AttrOr("title", "")))
		}
		region := linkRegion(s)

		key := string(region) + "|" + target + "|" + text
		if seen[key] {
			return
		}
		seen[key] = true
		links = append(links, models.Link{URL: target, Text: text, Region: region})
	})
	return links
}

func linkRegion(s *goquery.Selection) models.LinkRegion {
	switch {
	case s.ParentsFiltered("nav, [role='navigation']").Length() > 0:
		return models.RegionNav
	case s.ParentsFiltered("footer, [role='contentinfo'], #footer, .footer, .site-footer").Length() > 0:
		return models.RegionFooter
	case s.ParentsFiltered("header, [role='banner'], #header, .site-header").Length() > 0:
		return models.RegionHeader
	default:
		return models.RegionBody
	}
}
