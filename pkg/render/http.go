package render

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/fetch"
	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const maxPageBytes = 5 << 20

// HTTPRenderer fetches raw HTML without executing scripts. Color signals are limited to
// what the markup declares.
type HTTPRenderer struct {
	fetcher     *fetch.Fetcher
	rateLimiter *fetch.RateLimiter
	delay       time.Duration
	log         *logrus.Entry
}

// NewHTTPRenderer creates an HTTPRenderer. rateLimiter may be nil.
func NewHTTPRenderer(fetcher *fetch.Fetcher, rateLimiter *fetch.RateLimiter, delay time.Duration, log *logrus.Entry) *HTTPRenderer {
	return &HTTPRenderer{fetcher: fetcher, rateLimiter: rateLimiter, delay: delay, log: log}
}

// Render fetches pageURL without running scripts and discovers signals from the markup
func (r *HTTPRenderer) Render(ctx context.Context, pageURL string) (*models.RenderedPage, error) {
	target, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: parsing URL '%s': %w", utils.ErrRenderFailed, utils.ErrParsing, pageURL, err)
	}

	if r.rateLimiter != nil {
		r.rateLimiter.ApplyDelay(ctx, target.Hostname(), r.delay)
	}
	resp, err := r.fetcher.Get(ctx, pageURL, maxPageBytes)
	if r.rateLimiter != nil {
		r.rateLimiter.UpdateLastRequestTime(target.Hostname())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrRenderFailed, err)
	}

	if ct := strings.ToLower(resp.ContentType); ct != "" && !strings.Contains(ct, "html") {
		return nil, fmt.Errorf("%w: non-HTML content type '%s' at %s", utils.ErrRenderFailed, resp.ContentType, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: HTML parse of %s: %w", utils.ErrRenderFailed, utils.ErrParsing, pageURL, err)
	}

	final, err := url.Parse(resp.FinalURL)
	if err != nil || final.Host == "" {
		final = target
	}
	if href, ok := doc.Find("base[href]").Attr("href"); ok {
		if b, err := final.Parse(href); err == nil {
			final = b
		}
	}

	r.log.WithField("url", pageURL).Debug("Fetched page over HTTP")
	return &models.RenderedPage{
		URL:       pageURL,
		FinalURL:  resp.FinalURL,
		HTML:      string(resp.Body),
		ImageURLs: discoverImages(doc, final),
		LinkURLs:  discoverLinks(doc, final),
		Styles:    discoverStyles(doc, final),
	}, nil
}
