// Package sitemap turns robots.txt Sitemap: directives and /sitemap.xml into
// frontier seeds for a crawl.
package sitemap

import (
	"context"
	"net/url"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/fetch"
	"github.com/Sriram-PR/bizdna/pkg/parse"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	maxSitemapBytes = 4 << 20
	// maxSitemapDocs bounds how many sitemap documents (index plus children) one seed reads
	maxSitemapDocs = 8
)

// Getter is the slice of fetch.Fetcher the seeder needs
type Getter interface {
	Get(ctx context.Context, rawURL string, maxBytes int64) (*fetch.Response, error)
}

// Seeder reads sitemaps for a site and returns in-scope page URLs
type Seeder struct {
	getter     Getter
	disallowed []*regexp.Regexp
	log        *logrus.Entry
}

// NewSeeder creates a Seeder. disallowed patterns are matched against URL paths.
func NewSeeder(getter Getter, disallowed []*regexp.Regexp, log *logrus.Entry) *Seeder {
	return &Seeder{
		getter:     getter,
		disallowed: disallowed,
		log:        log.WithField("component", "sitemap_seeder"),
	}
}

// Discover walks the given sitemap URLs (or <origin>/sitemap.xml when none are given),
// following index files breadth-first, and returns at most limit normalized page URLs that
// share the seed's origin. Fetch and parse failures are logged and skipped.
func (s *Seeder) Discover(ctx context.Context, seed *url.URL, sitemapURLs []string, limit int) []string {
	if limit <= 0 || seed == nil {
		return nil
	}
	if len(sitemapURLs) == 0 {
		sitemapURLs = []string{seed.Scheme + "://" + seed.Host + "/sitemap.xml"}
	}

	queue := append([]string(nil), sitemapURLs...)
	seenDocs := make(map[string]bool, len(queue))
	seenPages := make(map[string]bool)
	var pages []string
	docs := 0

	for len(queue) > 0 && len(pages) < limit && docs < maxSitemapDocs {
		if ctx.Err() != nil {
			s.log.Warnf("Context cancelled while reading sitemaps: %v", ctx.Err())
			break
		}
		smURL := queue[0]
		queue = queue[1:]
		if seenDocs[smURL] {
			continue
		}
		seenDocs[smURL] = true
		docs++

		smLog := s.log.WithField("sitemap_url", smURL)
		resp, err := s.getter.Get(ctx, smURL, maxSitemapBytes)
		if err != nil {
			smLog.WithField("error_type", utils.CategorizeError(err)).Debugf("Sitemap fetch failed: %v", err)
			continue
		}
		locs, children, err := parse.ParseSitemap(resp.Body)
		if err != nil {
			smLog.Debugf("Sitemap parse failed: %v", err)
			continue
		}
		if len(children) > 0 {
			smLog.Debugf("Sitemap index with %d children", len(children))
			queue = append(queue, children...)
		}

		for _, loc := range locs {
			if len(pages) >= limit {
				break
			}
			norm, parsed, err := parse.ParseAndNormalize(loc)
			if err != nil || seenPages[norm] {
				continue
			}
			if !parse.SameOrigin(seed, parsed) || !parse.IsPageLike(parsed) || utils.MatchesAny(s.disallowed, parsed.Path) {
				continue
			}
			seenPages[norm] = true
			pages = append(pages, norm)
		}
	}

	if len(pages) > 0 {
		s.log.Infof("Sitemaps yielded %d page URLs", len(pages))
	}
	return pages
}
