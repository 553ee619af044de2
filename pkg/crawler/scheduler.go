// Package crawler runs a bounded, sequential crawl of one business site.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/fetch"
	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/parse"
	"github.com/Sriram-PR/bizdna/pkg/queue"
	"github.com/Sriram-PR/bizdna/pkg/render"
	"github.com/Sriram-PR/bizdna/pkg/sitemap"
	"github.com/Sriram-PR/bizdna/pkg/storage"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// Options are the optional collaborators and crawl-order settings of a Scheduler
type Options struct {
	PriorityPaths      []string
	DisallowedPatterns []string

	// Robots, when set, is consulted before each render with UserAgent
	Robots    *fetch.RobotsHandler
	UserAgent string

	// Sitemaps, when set, seeds the frontier at depth 1 with up to MaxSitemapURLs pages
	Sitemaps       *sitemap.Seeder
	MaxSitemapURLs int
}

// Scheduler owns the frontier and visited set of one crawl
type Scheduler struct {
	log        *logrus.Entry
	renderer   render.Renderer
	store      storage.PageStore
	frontier   *queue.Frontier
	disallowed []*regexp.Regexp
	opts       Options

	attempted int
	failed    int

	now func() time.Time
}

// NewScheduler creates a Scheduler for a single crawl. store must be empty and not shared
// with another run.
func NewScheduler(renderer render.Renderer, store storage.PageStore, opts Options, log *logrus.Entry) (*Scheduler, error) {
	disallowed, err := utils.CompileRegexPatterns(opts.DisallowedPatterns)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling disallowed patterns: %w", utils.ErrConfigValidation, err)
	}
	return &Scheduler{
		log:        log.WithField("component", "crawler"),
		renderer:   renderer,
		store:      store,
		frontier:   queue.NewFrontier(opts.PriorityPaths),
		disallowed: disallowed,
		opts:       opts,
		now:        time.Now,
	}, nil
}

// Crawl renders pages reachable from seedURL, one at a time, until budget.MaxPages pages
// are rendered, the frontier is empty, or budget.CrawlTimeout elapses. Those are normal
// stops. The only errors are an unusable seed, a store failure, or ending with zero pages.
func (s *Scheduler) Crawl(ctx context.Context, seedURL string, budget models.CrawlBudget) (*models.CrawlResult, error) {
	start := s.now()
	seedKey, seed, err := parse.ParseAndNormalize(seedURL)
	if err != nil || seed.Host == "" || (seed.Scheme != "http" && seed.Scheme != "https") {
		return nil, fmt.Errorf("%w: '%s'", utils.ErrInvalidSeed, seedURL)
	}
	crawlLog := s.log.WithField("seed", seedKey)

	crawlCtx := ctx
	if budget.CrawlTimeout > 0 {
		var cancel context.CancelFunc
		crawlCtx, cancel = context.WithTimeout(ctx, budget.CrawlTimeout)
		defer cancel()
	}

	result := &models.CrawlResult{}
	if _, err := s.enqueue(seedKey, seed, 0); err != nil {
		return nil, err
	}
	s.seedFromSitemaps(crawlCtx, seed, crawlLog)

	crawlLog.WithFields(logrus.Fields{
		"max_pages": budget.MaxPages, "max_depth": budget.MaxDepth, "crawl_timeout": budget.CrawlTimeout,
	}).Info("Crawl starting")

	for {
		if budget.MaxPages > 0 && len(result.Pages) >= budget.MaxPages {
			result.StopReason = models.StopMaxPages
			break
		}
		if ctx.Err() != nil {
			result.StopReason = models.StopCancelled
			break
		}
		if crawlCtx.Err() != nil || (budget.CrawlTimeout > 0 && s.now().Sub(start) >= budget.CrawlTimeout) {
			result.StopReason = models.StopCrawlTimeout
			break
		}
		item, ok := s.frontier.Pop()
		if !ok {
			result.StopReason = models.StopFrontierEmpty
			break
		}

		page, err := s.visit(crawlCtx, item, budget)
		if err != nil {
			if errors.Is(err, utils.ErrDatabase) {
				return nil, err
			}
			continue
		}
		if page != nil {
			result.Pages = append(result.Pages, *page)
		}
	}

	result.Duration = s.now().Sub(start)
	result.Visited, result.Failed = s.attempted, s.failed

	crawlLog.WithFields(logrus.Fields{
		"pages": len(result.Pages), "failed": result.Failed, "stop_reason": result.StopReason,
		"duration": result.Duration.String(), "pending": s.frontier.Len(),
	}).Info("Crawl finished")

	if len(result.Pages) == 0 {
		if result.StopReason == models.StopCancelled {
			return result, fmt.Errorf("%w: crawl cancelled: %w", utils.ErrNoPagesRendered, ctx.Err())
		}
		return result, fmt.Errorf("%w: %s", utils.ErrNoPagesRendered, seedKey)
	}
	return result, nil
}

// visit renders one frontier item. A nil page with a nil error means the item was skipped.
func (s *Scheduler) visit(crawlCtx context.Context, item *models.WorkItem, budget models.CrawlBudget) (page *models.RenderedPage, err error) {
	pageLog := s.log.WithFields(logrus.Fields{"url": item.URL, "depth": item.Depth})

	status, _, err := s.store.CheckPageStatus(item.URL)
	if err != nil {
		return nil, err
	}
	if status == models.PageStatusSuccess || status == models.PageStatusFailure {
		return nil, nil
	}
	s.attempted++

	target, err := url.Parse(item.URL)
	if err != nil {
		return nil, s.markFailed(item, fmt.Errorf("%w: %w", utils.ErrParsing, err), pageLog)
	}
	if s.opts.Robots != nil && !s.opts.Robots.TestAgent(crawlCtx, target, s.opts.UserAgent) {
		pageLog.Info("Disallowed by robots.txt, skipping")
		return nil, s.markFailed(item, fmt.Errorf("%w: %s", utils.ErrRobotsDisallowed, item.URL), nil)
	}

	page, err = s.render(crawlCtx, item.URL, budget.PageTimeout)
	if err != nil {
		return nil, s.markFailed(item, err, pageLog)
	}
	page.URL = item.URL
	page.Depth = item.Depth

	// A redirect onto a page this crawl already rendered is not a new page
	if finalKey, final, err := parse.ParseAndNormalize(page.FinalURL); err == nil && finalKey != item.URL {
		if !parse.SameOrigin(target, final) {
			return nil, s.markFailed(item, fmt.Errorf("%w: redirected off-site to %s", utils.ErrScopeViolation, finalKey), pageLog)
		}
		isNew, err := s.store.MarkPageVisited(finalKey)
		if err != nil {
			return nil, err
		}
		if !isNew {
			st, _, err := s.store.CheckPageStatus(finalKey)
			if err != nil {
				return nil, err
			}
			if st == models.PageStatusSuccess {
				pageLog.WithField("final_url", finalKey).Debug("Redirected to an already rendered page")
				return nil, s.markDone(item, models.PageStatusSuccess)
			}
		}
		// The redirect target is rendered now, so it must not be rendered again when popped
		if err := s.markDone(&models.WorkItem{URL: finalKey, Depth: item.Depth}, models.PageStatusSuccess); err != nil {
			return nil, err
		}
	}

	if err := s.markDone(item, models.PageStatusSuccess); err != nil {
		return nil, err
	}

	if budget.MaxDepth <= 0 || item.Depth < budget.MaxDepth {
		queued := 0
		for _, link := range page.LinkURLs {
			key, parsed, err := parse.ParseAndNormalize(link)
			if err != nil || !parse.SameOrigin(target, parsed) {
				continue
			}
			added, err := s.enqueue(key, parsed, item.Depth+1)
			if err != nil {
				return nil, err
			}
			if added {
				queued++
			}
		}
		pageLog.Debugf("Queued %d new links", queued)
	}

	pageLog.WithFields(logrus.Fields{"images": len(page.ImageURLs), "links": len(page.LinkURLs)}).Info("Page rendered")
	return page, nil
}

// render calls the renderer under the per-page timeout and converts panics into errors
func (s *Scheduler) render(crawlCtx context.Context, pageURL string, timeout time.Duration) (page *models.RenderedPage, err error) {
	pageCtx := crawlCtx
	if timeout > 0 {
		var cancel context.CancelFunc
		pageCtx, cancel = context.WithTimeout(crawlCtx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"url":         pageURL,
				"panic_info":  r,
				"stack_trace": string(debug.Stack()),
			}).Error("PANIC recovered in page render")
			page, err = nil, fmt.Errorf("%w: panic: %v", utils.ErrRenderFailed, r)
		}
	}()

	page, err = s.renderer.Render(pageCtx, pageURL)
	if err == nil && page == nil {
		err = fmt.Errorf("%w: renderer returned no page for %s", utils.ErrRenderFailed, pageURL)
	}
	return page, err
}

// enqueue marks key visited and adds it to the frontier if it is new and in scope
func (s *Scheduler) enqueue(key string, u *url.URL, depth int) (bool, error) {
	if !parse.IsPageLike(u) || utils.MatchesAny(s.disallowed, u.Path) {
		return false, nil
	}
	isNew, err := s.store.MarkPageVisited(key)
	if err != nil {
		return false, err
	}
	if !isNew {
		return false, nil
	}
	s.frontier.Add(&models.WorkItem{URL: key, Depth: depth}, u.Path)
	return true, nil
}

func (s *Scheduler) seedFromSitemaps(ctx context.Context, seed *url.URL, crawlLog *logrus.Entry) {
	if s.opts.Sitemaps == nil || s.opts.MaxSitemapURLs <= 0 {
		return
	}
	var declared []string
	if s.opts.Robots != nil {
		declared = s.opts.Robots.Sitemaps(ctx, seed)
	}
	added := 0
	for _, pageURL := range s.opts.Sitemaps.Discover(ctx, seed, declared, s.opts.MaxSitemapURLs) {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			continue
		}
		if ok, err := s.enqueue(pageURL, parsed, 1); err == nil && ok {
			added++
		}
	}
	if added > 0 {
		crawlLog.Infof("Seeded %d URLs from sitemaps", added)
	}
}

func (s *Scheduler) markDone(item *models.WorkItem, status models.PageStatus) error {
	now := s.now()
	entry := &models.PageDBEntry{Status: status, LastAttempt: now, Depth: item.Depth}
	if status == models.PageStatusSuccess {
		entry.ProcessedAt = now
	}
	return s.store.UpdatePageStatus(item.URL, entry)
}

// markFailed records a per-page failure; the crawl goes on. pageLog nil means the caller
// already logged.
func (s *Scheduler) markFailed(item *models.WorkItem, cause error, pageLog *logrus.Entry) error {
	category := utils.CategorizeError(cause)
	if pageLog != nil {
		pageLog.WithField("error_type", category).Warnf("Page failed: %v", cause)
	}
	s.failed++
	entry := &models.PageDBEntry{
		Status:      models.PageStatusFailure,
		ErrorType:   category,
		LastAttempt: s.now(),
		Depth:       item.Depth,
	}
	if err := s.store.UpdatePageStatus(item.URL, entry); err != nil {
		return err
	}
	return cause
}
