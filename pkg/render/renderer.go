// Package render turns a URL into a DOM snapshot plus the image, link and
// color signals the rest of the pipeline needs.
package render

import (
	"context"
	"net/url"
	"strings"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/parse"
)

// Renderer navigates to a URL and returns its snapshot. The per-page timeout is
// carried by ctx.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (*models.RenderedPage, error)
}

// filterLinks keeps absolute same-origin page links, dropping fragments and duplicates
func filterLinks(base *url.URL, raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, href := range raw {
		abs, ok := parse.ResolveLink(base, href)
		if !ok || !parse.SameOrigin(base, abs) || !parse.IsPageLike(abs) {
			continue
		}
		abs.Fragment = ""
		s := abs.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// filterImages resolves image references to absolute http(s) URLs, dropping data URIs and duplicates
func filterImages(base *url.URL, raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, src := range raw {
		src = strings.TrimSpace(src)
		if src == "" || strings.HasPrefix(src, "data:") {
			continue
		}
		abs, ok := parse.ResolveLink(base, src)
		if !ok {
			continue
		}
		s := abs.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// firstSrcsetCandidate returns the URL part of the first srcset entry
func firstSrcsetCandidate(srcset string) string {
	first := strings.TrimSpace(strings.Split(srcset, ",")[0])
	if i := strings.IndexAny(first, " \t"); i >= 0 {
		first = first[:i]
	}
	return first
}
