package detect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlatformSignature defines detection patterns for a site builder
type PlatformSignature struct {
	Platform     Platform
	Generators   []string // substrings of <meta name="generator">
	Attributes   []string // HTML attributes to look for (e.g., "data-wf-page")
	Classes      []string // CSS classes; a trailing * is a prefix match
	Scripts      []string // script src substrings
	HTMLPatterns []string // lowercase substrings of the raw HTML
}

// Matches returns true if the document matches this platform's signature.
// htmlLower is the lowercased raw HTML.
func (sig *PlatformSignature) Matches(doc *goquery.Document, htmlLower string) bool {
	generator := strings.ToLower(doc.Find(`meta[name="generator"]`).AttrOr("content", ""))
	for _, g := range sig.Generators {
		if generator != "" && strings.Contains(generator, strings.ToLower(g)) {
			return true
		}
	}

	for _, attr := range sig.Attributes {
		if doc.Find("["+attr+"]").Length() > 0 {
			return true
		}
	}

	for _, class := range sig.Classes {
		if prefix, ok := strings.CutSuffix(class, "*"); ok {
			if doc.Find("[class*='"+prefix+"']").FilterFunction(func(_ int, s *goquery.Selection) bool {
				for _, c := range strings.Fields(s.AttrOr("class", "")) {
					if strings.HasPrefix(c, prefix) {
						return true
					}
				}
				return false
			}).Length() > 0 {
				return true
			}
		} else if doc.Find("."+class).Length() > 0 {
			return true
		}
	}

	for _, pattern := range sig.Scripts {
		if doc.Find("script[src*='"+pattern+"']").Length() > 0 {
			return true
		}
	}

	for _, pattern := range sig.HTMLPatterns {
		if strings.Contains(htmlLower, pattern) {
			return true
		}
	}
	return false
}

// platformSignatures contains detection patterns for known builders.
// Order matters: hosted builders come before WordPress, whose asset paths are often
// mirrored by plugins and migration tools.
var platformSignatures = []PlatformSignature{
	{
		Platform:     PlatformShopify,
		Generators:   []string{"shopify"},
		Scripts:      []string{"cdn.shopify.com"},
		HTMLPatterns: []string{"cdn.shopify.com", "shopify.theme", "myshopify.com"},
	},
	{
		Platform:     PlatformWix,
		Generators:   []string{"wix.com"},
		Attributes:   []string{"data-mesh-id"},
		Scripts:      []string{"parastorage.com"},
		HTMLPatterns: []string{"static.wixstatic.com", "wix-image", "_wixcidx"},
	},
	{
		Platform:     PlatformSquarespace,
		Generators:   []string{"squarespace"},
		Classes:      []string{"sqs-block*", "sqs-layout"},
		HTMLPatterns: []string{"static1.squarespace.com", "squarespace-cdn.com", "static.squarespace_context"},
	},
	{
		Platform:     PlatformWebflow,
		Generators:   []string{"webflow"},
		Attributes:   []string{"data-wf-page", "data-wf-site"},
		HTMLPatterns: []string{"assets.website-files.com", "uploads-ssl.webflow.com"},
	},
	{
		Platform:     PlatformWeebly,
		Classes:      []string{"wsite-*"},
		HTMLPatterns: []string{"editmysite.com", "weebly.com"},
	},
	{
		Platform:     PlatformDuda,
		Classes:      []string{"dmNewParagraph", "dmRespRow"},
		HTMLPatterns: []string{"irp.cdn-website.com", "dudamobile.com", "cdn-website.com"},
	},
	{
		Platform:     PlatformGoDaddy,
		Generators:   []string{"go daddy", "godaddy", "starfield technologies"},
		HTMLPatterns: []string{"img1.wsimg.com", "websites.godaddy.com"},
	},
	{
		Platform:     PlatformWordPress,
		Generators:   []string{"wordpress"},
		Scripts:      []string{"/wp-includes/", "/wp-content/"},
		HTMLPatterns: []string{"/wp-content/", "/wp-includes/", "wp-json"},
	},
}
