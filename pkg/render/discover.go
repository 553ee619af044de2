package render

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

var (
	cssCustomPropRe = regexp.MustCompile(`(--[A-Za-z0-9_-]+)\s*:\s*([^;{}]+)`)
	rootBlockRe     = regexp.MustCompile(`(?s)(?:^|[\s,}])(?::root|html|body)\s*(?:,[^{]*)?\{([^}]*)\}`)
	inlineColorRe   = regexp.MustCompile(`(?i)(?:^|;)\s*(?:background-color|background|color)\s*:\s*([^;]+)`)
	bgImageRe       = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)
)

const logoSelector = "header img, nav img, img[class*='logo'], img[id*='logo'], img[src*='logo'], img[alt*='logo'], img[alt*='Logo']"

// discoverImages lists image URLs in document order: og:image, img/srcset/lazy attributes,
// then inline background images
func discoverImages(doc *goquery.Document, base *url.URL) []string {
	var raw []string
	if og, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		raw = append(raw, og)
	}
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if w, ok := s.Attr("width"); ok && (w == "1" || w == "0") {
			return // tracking pixel
		}
		for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" && !strings.HasPrefix(v, "data:") {
				raw = append(raw, v)
				return
			}
		}
		if v, ok := s.Attr("srcset"); ok {
			raw = append(raw, firstSrcsetCandidate(v))
		}
	})
	doc.Find("[style*='background']").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		if m := bgImageRe.FindStringSubmatch(style); m != nil {
			raw = append(raw, m[1])
		}
	})
	return filterImages(base, raw)
}

// discoverLinks lists same-origin page links in document order
func discoverLinks(doc *goquery.Document, base *url.URL) []string {
	var raw []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if rel, _ := s.Attr("rel"); strings.Contains(strings.ToLower(rel), "nofollow") {
			return
		}
		href, _ := s.Attr("href")
		raw = append(raw, href)
	})
	return filterLinks(base, raw)
}

// discoverStyles collects color signals available without a layout engine:
// custom properties declared on :root/html/body in <style> blocks, theme-color,
// inline colors of buttons, nav, header and headings, and the logo image
func discoverStyles(doc *goquery.Document, base *url.URL) models.StyleSignals {
	sig := models.StyleSignals{CSSVariables: map[string]string{}}

	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		for _, block := range rootBlockRe.FindAllStringSubmatch(s.Text(), -1) {
			for _, m := range cssCustomPropRe.FindAllStringSubmatch(block[1], -1) {
				if _, exists := sig.CSSVariables[m[1]]; !exists {
					sig.CSSVariables[m[1]] = strings.TrimSpace(m[2])
				}
			}
		}
	})

	if tc, ok := doc.Find(`meta[name="theme-color"]`).Attr("content"); ok {
		sig.ThemeColor = strings.TrimSpace(tc)
	}

	doc.Find("button, .btn, .button, a[class*='btn'], nav, header, h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		style, ok := s.Attr("style")
		if !ok {
			return
		}
		for _, m := range inlineColorRe.FindAllStringSubmatch(style, -1) {
			sig.ComputedColors = append(sig.ComputedColors, strings.TrimSpace(m[1]))
		}
	})

	sig.LogoURL = discoverLogo(doc, base)
	return sig
}

func discoverLogo(doc *goquery.Document, base *url.URL) string {
	var logo string
	doc.Find(logoSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		attrs := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", "") + " " + s.AttrOr("alt", "") + " " + s.AttrOr("src", ""))
		inChrome := s.ParentsFiltered("header, nav").Length() > 0
		if !strings.Contains(attrs, "logo") && !inChrome {
			return true
		}
		src := s.AttrOr("src", s.AttrOr("data-src", ""))
		if imgs := filterImages(base, []string{src}); len(imgs) == 1 {
			logo = imgs[0]
			return false
		}
		return true
	})
	return logo
}
