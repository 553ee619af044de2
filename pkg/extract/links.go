package extract

import (
	"cmp"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/parse"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const maxNavLabelRunes = 30

type socialPlatform struct {
	Name    string
	Pattern *regexp.Regexp
}

var socialPlatforms = []socialPlatform{
	{"facebook", regexp.MustCompile(`(?i)^https?://(?:[a-z]+\.)?(?:facebook|fb)\.com/`)},
	{"instagram", regexp.MustCompile(`(?i)^https?://(?:www\.)?instagram\.com/`)},
	{"twitter", regexp.MustCompile(`(?i)^https?://(?:www\.|mobile\.)?(?:twitter|x)\.com/`)},
	{"linkedin", regexp.MustCompile(`(?i)^https?://(?:[a-z]+\.)?linkedin\.com/(?:company|in|school)/`)},
	{"youtube", regexp.MustCompile(`(?i)^https?://(?:www\.|m\.)?(?:youtube\.com|youtu\.be)/`)},
	{"tiktok", regexp.MustCompile(`(?i)^https?://(?:www\.)?tiktok\.com/@`)},
	{"pinterest", regexp.MustCompile(`(?i)^https?://(?:[a-z]+\.)?pinterest\.[a-z.]+/`)},
	{"yelp", regexp.MustCompile(`(?i)^https?://(?:www\.|m\.)?yelp\.[a-z.]+/biz/`)},
	{"google", regexp.MustCompile(`(?i)^https?://(?:g\.page|maps\.app\.goo\.gl|(?:www\.)?google\.[a-z.]+/maps)/`)},
}

// shareLinkRe matches share/intent endpoints, which point at the platform rather than the business
var shareLinkRe = regexp.MustCompile(`(?i)(sharer|/share\b|/intent/|/dialog/|shareArticle|/pin/create)`)

var (
	// navPriority orders navigation labels; lower index is shown first
	navPriority = newWordSet(
		"home", "about*", "service*", "menu", "product*", "shop", "team", "testimonial*",
		"review*", "gallery", "portfolio", "pricing", "faq*", "blog", "contact*",
	)
	legalWords = newWordSet(
		"privacy", "terms", "cookie*", "accessibility", "disclaimer", "legal", "gdpr", "ccpa",
	)
	ctaWords = newWordSet(
		"book*", "schedule*", "get a quote", "free quote", "free estimate", "call now",
		"order online", "order now", "reserv*", "make an appointment", "contact us", "get started",
	)
)

// SocialLinks returns one profile link per platform in order of first appearance
func SocialLinks(pages []models.SemanticPage) []models.SocialLink {
	seen := make(map[string]bool)
	var out []models.SocialLink
	for _, page := range pages {
		for _, l := range page.Links {
			if shareLinkRe.MatchString(l.URL) {
				continue
			}
			for _, sp := range socialPlatforms {
				if seen[sp.Name] || !sp.Pattern.MatchString(l.URL) {
					continue
				}
				seen[sp.Name] = true
				out = append(out, models.SocialLink{Platform: sp.Name, URL: l.URL})
				break
			}
		}
	}
	return out
}

// Navigation builds the site menu from the home page's nav links (header links when the
// page has no <nav>), ordered by label priority and capped at limit
func Navigation(pages []models.SemanticPage, limit int) []models.NavItem {
	if len(pages) == 0 {
		return nil
	}
	home := pages[0]
	base, err := url.Parse(home.URL)
	if err != nil {
		return nil
	}

	candidates := siteLinks(home, base, models.RegionNav)
	if len(candidates) == 0 {
		candidates = siteLinks(home, base, models.RegionHeader)
	}

	type ranked struct {
		item models.NavItem
		rank int
	}
	var items []ranked
	seenURL, seenLabel := utils.NewStringSet(), utils.NewStringSet()
	for _, l := range candidates {
		label := utils.CleanText(l.Text)
		if label == "" || utils.RuneLen(label) > maxNavLabelRunes || legalWords.count(label) > 0 {
			continue
		}
		if !seenURL.Add(l.URL) || !seenLabel.Add(strings.ToLower(label)) {
			continue
		}
		rank := navPriority.first(label)
		if rank < 0 {
			rank = len(navPriority.words)
		}
		items = append(items, ranked{models.NavItem{Label: label, URL: l.URL}, rank})
	}

	// stable: document order within a rank
	slices.SortStableFunc(items, func(a, b ranked) int { return cmp.Compare(a.rank, b.rank) })

	out := make([]models.NavItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.item)
	}
	return capped(out, limit)
}

// CallToAction picks the first action-style link on the home page, nav and header first
func CallToAction(pages []models.SemanticPage) *models.NavItem {
	if len(pages) == 0 {
		return nil
	}
	home := pages[0]
	for _, regions := range [][]models.LinkRegion{
		{models.RegionNav, models.RegionHeader},
		{models.RegionBody},
	} {
		for _, l := range home.Links {
			if !slices.Contains(regions, l.Region) {
				continue
			}
			label := utils.CleanText(l.Text)
			if label == "" || utils.RuneLen(label) > maxNavLabelRunes || ctaWords.count(label) == 0 {
				continue
			}
			return &models.NavItem{Label: label, URL: l.URL}
		}
	}
	return nil
}

// LegalLinks collects privacy/terms/cookie/accessibility links from any page's footer
func LegalLinks(pages []models.SemanticPage) []models.NavItem {
	seen := utils.NewStringSet()
	var out []models.NavItem
	for _, page := range pages {
		for _, l := range page.Links {
			if l.Region != models.RegionFooter {
				continue
			}
			if legalWords.count(l.Text) == 0 && legalWords.count(linkPath(l.URL)) == 0 {
				continue
			}
			if !seen.Add(l.URL) {
				continue
			}
			label := utils.CleanText(l.Text)
			if label == "" {
				label = linkPath(l.URL)
			}
			out = append(out, models.NavItem{Label: label, URL: l.URL})
		}
	}
	return out
}

var copyrightRe = regexp.MustCompile(`(?i)(?:©|\(c\)|copyright)\s*(?:©\s*)?(?:(?:19|20)\d{2}(?:\s*[-–]\s*(?:19|20)\d{2})?)?[^|\n]{0,80}`)

// Copyright returns the first copyright line found in a footer
func Copyright(pages []models.SemanticPage) string {
	for _, page := range pages {
		if m := copyrightRe.FindString(page.FooterText); m != "" {
			line := utils.CleanText(m)
			// footers run the line into the next block; stop at the first sentence end
			if i := strings.Index(line, ". "); i > 0 {
				line = line[:i+1]
			}
			return line
		}
	}
	return ""
}

// siteLinks returns same-origin http(s) links of the given region
func siteLinks(page models.SemanticPage, base *url.URL, region models.LinkRegion) []models.Link {
	var out []models.Link
	for _, l := range page.Links {
		if l.Region != region {
			continue
		}
		u, err := url.Parse(l.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || !parse.SameOrigin(base, u) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func linkPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.Trim(u.Path, "/")
}
