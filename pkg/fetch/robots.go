package fetch

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

const maxRobotsBytes = 512 << 10

// RobotsHandler fetches, caches and evaluates robots.txt per host.
// A missing or unreadable robots.txt allows everything.
type RobotsHandler struct {
	fetcher       *Fetcher
	rateLimiter   *RateLimiter
	delay         time.Duration
	robotsCache   map[string]*robotstxt.RobotsData // hostname -> parsed data (or nil)
	robotsCacheMu sync.Mutex
	log           *logrus.Entry
}

// NewRobotsHandler creates a RobotsHandler. rateLimiter may be nil.
func NewRobotsHandler(fetcher *Fetcher, rateLimiter *RateLimiter, delay time.Duration, log *logrus.Entry) *RobotsHandler {
	return &RobotsHandler{
		fetcher:     fetcher,
		rateLimiter: rateLimiter,
		delay:       delay,
		robotsCache: make(map[string]*robotstxt.RobotsData),
		log:         log,
	}
}

// GetRobotsData returns parsed robots.txt for targetURL's host, or nil if unavailable
func (rh *RobotsHandler) GetRobotsData(ctx context.Context, targetURL *url.URL) *robotstxt.RobotsData {
	host := targetURL.Host
	rh.robotsCacheMu.Lock()
	data, found := rh.robotsCache[host]
	rh.robotsCacheMu.Unlock()
	if found {
		return data
	}

	scheme := targetURL.Scheme
	if scheme != "http" && scheme != "https" {
		scheme = "https"
	}
	robotsURL := (&url.URL{Scheme: scheme, Host: host, Path: "/robots.txt"}).String()
	robotsLog := rh.log.WithField("robots_url", robotsURL)

	if rh.rateLimiter != nil {
		rh.rateLimiter.ApplyDelay(ctx, targetURL.Hostname(), rh.delay)
	}
	resp, err := rh.fetcher.Get(ctx, robotsURL, maxRobotsBytes)
	if rh.rateLimiter != nil {
		rh.rateLimiter.UpdateLastRequestTime(targetURL.Hostname())
	}

	data = nil
	if err != nil {
		robotsLog.Debugf("robots.txt unavailable, allowing all: %v", err)
	} else if parsed, perr := robotstxt.FromBytes(resp.Body); perr != nil {
		robotsLog.Warnf("robots.txt unparsable, allowing all: %v", perr)
	} else {
		data = parsed
		robotsLog.WithField("sitemaps", len(parsed.Sitemaps)).Debug("Parsed robots.txt")
	}

	rh.robotsCacheMu.Lock()
	rh.robotsCache[host] = data
	rh.robotsCacheMu.Unlock()
	return data
}

// TestAgent reports whether userAgent may fetch targetURL
func (rh *RobotsHandler) TestAgent(ctx context.Context, targetURL *url.URL, userAgent string) bool {
	data := rh.GetRobotsData(ctx, targetURL)
	if data == nil {
		return true
	}
	return data.TestAgent(targetURL.RequestURI(), userAgent)
}

// Sitemaps returns the Sitemap: directives declared for targetURL's host
func (rh *RobotsHandler) Sitemaps(ctx context.Context, targetURL *url.URL) []string {
	data := rh.GetRobotsData(ctx, targetURL)
	if data == nil {
		return nil
	}
	return append([]string(nil), data.Sitemaps...)
}
