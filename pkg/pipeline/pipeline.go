// Package pipeline runs one business-identity extraction: crawl, extract, classify, enrich
// and consolidate.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/classify"
	"github.com/Sriram-PR/bizdna/pkg/config"
	"github.com/Sriram-PR/bizdna/pkg/consolidate"
	"github.com/Sriram-PR/bizdna/pkg/crawler"
	"github.com/Sriram-PR/bizdna/pkg/detect"
	"github.com/Sriram-PR/bizdna/pkg/extract"
	"github.com/Sriram-PR/bizdna/pkg/fetch"
	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/process"
	"github.com/Sriram-PR/bizdna/pkg/render"
	"github.com/Sriram-PR/bizdna/pkg/sitemap"
	"github.com/Sriram-PR/bizdna/pkg/storage"
	"github.com/Sriram-PR/bizdna/pkg/utils"
	"github.com/Sriram-PR/bizdna/pkg/vision"
)

// Deps are the injected capabilities of a Pipeline. Renderer is required. Vision may be nil
// (enrichment is skipped). Fetcher enables robots.txt, sitemaps and the logo palette; without
// it those steps are skipped.
type Deps struct {
	Renderer    render.Renderer
	Vision      vision.Client
	Fetcher     *fetch.Fetcher
	RateLimiter *fetch.RateLimiter
}

// Pipeline holds everything that can be shared between runs. Per-run state (frontier,
// visited store, vision cache) is created inside Run.
type Pipeline struct {
	cfg    *config.AppConfig
	deps   Deps
	tok    *process.Tokenizer
	log    *logrus.Entry
	newID  func() string
	logos  vision.ImageGetter
	chunks process.ChunkerConfig
}

// New creates a Pipeline. cfg must already be validated.
func New(cfg *config.AppConfig, deps Deps, log *logrus.Entry) (*Pipeline, error) {
	if deps.Renderer == nil {
		return nil, fmt.Errorf("%w: a renderer is required", utils.ErrConfigValidation)
	}
	if _, err := utils.CompileRegexPatterns(cfg.Crawl.DisallowedPathPatterns); err != nil {
		return nil, err
	}
	tok, err := process.NewTokenizer(cfg.TokenizerEncoding)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:   cfg,
		deps:  deps,
		tok:   tok,
		log:   log,
		newID: uuid.NewString,
		chunks: process.ChunkerConfig{
			MaxChunkTokens: cfg.Heuristics.ChunkMaxTokens,
			ChunkOverlap:   cfg.Heuristics.ChunkOverlap,
		},
	}
	if deps.Fetcher != nil {
		p.logos = deps.Fetcher
	}
	return p, nil
}

// VisionOptions derives the enrichment options from the content and vision settings
func VisionOptions(cfg *config.AppConfig) vision.Options {
	return vision.Options{
		EnableOCR:      cfg.Content.OCREnabled(),
		EnableColors:   cfg.Content.ColorExtractionEnabled(),
		EnableCaptions: cfg.Content.CaptionsEnabled(),
		MaxImages:      cfg.Content.MaxImagesForVision,
		Concurrency:    cfg.Vision.Concurrency,
	}
}

// Run extracts the BusinessDNA of the site at seedURL. Timeouts and per-page or per-image
// failures shorten the result; the only failures are an unusable seed, a store error, or
// no usable page at all.
func (p *Pipeline) Run(ctx context.Context, seedURL, businessNameHint string) (dna *models.BusinessDNA, err error) {
	runID := p.newID()
	runLog := p.log.WithFields(logrus.Fields{"run_id": runID, "seed": seedURL})

	defer func() {
		if r := recover(); r != nil {
			runLog.WithFields(logrus.Fields{
				"panic_info":  fmt.Sprintf("%v", r),
				"stack_trace": string(debug.Stack()),
			}).Error("PANIC recovered in pipeline run")
			dna, err = nil, fmt.Errorf("pipeline panic for '%s': %v", seedURL, r)
		}
	}()

	store, err := storage.Open(p.cfg.VisitedStore, runLog)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			runLog.WithError(cerr).Warn("Failed to close run store")
		}
	}()

	scheduler, err := crawler.NewScheduler(p.deps.Renderer, store, p.crawlOptions(runLog), runLog)
	if err != nil {
		return nil, err
	}
	crawl, err := scheduler.Crawl(ctx, seedURL, p.cfg.Budget())
	if err != nil {
		runLog.WithError(err).WithField("error_type", utils.CategorizeError(err)).Error("Could not extract from this source")
		return nil, err
	}

	pages := p.extractPages(crawl.Pages, runLog)
	if len(pages) == 0 {
		return nil, utils.WrapErrorf(utils.ErrNoPagesRendered, "no usable page content for '%s'", seedURL)
	}
	pages = classify.NewClassifier(p.cfg.Heuristics, runLog).ClassifyAll(pages)
	platform := detect.NewDetector(runLog).DetectPages(crawl.Pages)

	enricher := vision.NewEnricher(p.deps.Vision, store, p.cfg.Vision.RequestsPerSecond, runLog)
	images, report := enricher.Enrich(ctx, imageURLs(pages), VisionOptions(p.cfg))

	entities := extract.New(p.cfg.Heuristics, runLog).ExtractAll(pages, images)

	run := consolidate.RunInfo{
		ID:             runID,
		SourceURL:      pages[0].URL,
		Platform:       string(platform),
		LogoPalette:    p.logoPalette(ctx, pages, runLog),
		VisionComplete: report.Complete(),
		Crawl:          crawl,
		Chunks:         p.chunkPages(pages, runLog),
	}
	return consolidate.NewConsolidator(p.cfg.Heuristics, p.tok, runLog).
		Consolidate(pages, entities, images, businessNameHint, run)
}

func (p *Pipeline) crawlOptions(runLog *logrus.Entry) crawler.Options {
	opts := crawler.Options{
		PriorityPaths:      p.cfg.Crawl.PriorityPaths,
		DisallowedPatterns: p.cfg.Crawl.DisallowedPathPatterns,
		UserAgent:          p.cfg.UserAgent,
		MaxSitemapURLs:     p.cfg.Crawl.MaxSitemapURLs,
	}
	if p.deps.Fetcher == nil {
		return opts
	}
	if p.cfg.Crawl.RobotsRespected() {
		rl := p.deps.RateLimiter
		if rl == nil {
			rl = fetch.NewRateLimiter(p.cfg.Crawl.DelayPerHost, runLog)
		}
		opts.Robots = fetch.NewRobotsHandler(p.deps.Fetcher, rl, p.cfg.Crawl.DelayPerHost, runLog)
	}
	if p.cfg.Crawl.SitemapEnabled() {
		// patterns were compiled once in New
		disallowed, _ := utils.CompileRegexPatterns(p.cfg.Crawl.DisallowedPathPatterns)
		opts.Sitemaps = sitemap.NewSeeder(p.deps.Fetcher, disallowed, runLog)
	}
	return opts
}

// extractPages parses every rendered page; pages that fail to parse are dropped
func (p *Pipeline) extractPages(rendered []models.RenderedPage, runLog *logrus.Entry) []models.SemanticPage {
	extractor := process.NewExtractor(p.cfg.Heuristics.RawTextCap, runLog)
	pages := make([]models.SemanticPage, 0, len(rendered))
	for i := range rendered {
		page, err := extractor.Extract(&rendered[i])
		if err != nil {
			runLog.WithError(err).WithFields(logrus.Fields{
				"url":        rendered[i].URL,
				"error_type": utils.CategorizeError(err),
			}).Warn("Dropping page that could not be parsed")
			continue
		}
		pages = append(pages, page)
	}
	return pages
}

func (p *Pipeline) chunkPages(pages []models.SemanticPage, runLog *logrus.Entry) []models.ContentChunk {
	var chunks []models.ContentChunk
	for _, page := range pages {
		pc, err := process.ChunkPage(page, p.chunks, p.tok)
		if err != nil {
			runLog.WithError(err).WithField("url", page.URL).Warn("Chunking failed, page has no chunks")
			continue
		}
		chunks = append(chunks, pc...)
	}
	return chunks
}

// logoPalette reads the logo's colors when color extraction is on and a fetcher exists.
// Failures only cost the logo colors.
func (p *Pipeline) logoPalette(ctx context.Context, pages []models.SemanticPage, runLog *logrus.Entry) []string {
	if p.logos == nil || !p.cfg.Content.ColorExtractionEnabled() {
		return nil
	}
	logo := ""
	for _, page := range pages {
		if page.Styles.LogoURL != "" {
			logo = page.Styles.LogoURL
			break
		}
	}
	if logo == "" {
		return nil
	}
	logoCtx, cancel := context.WithTimeout(ctx, p.cfg.Content.PageTimeout)
	defer cancel()

	start := time.Now()
	colors, err := vision.LogoPalette(logoCtx, p.logos, logo, p.cfg.Heuristics.MaxBrandColors)
	if err != nil {
		runLog.WithError(err).WithFields(logrus.Fields{
			"image_url":  logo,
			"error_type": utils.CategorizeError(err),
		}).Warn("Logo palette extraction failed")
		return nil
	}
	runLog.WithFields(logrus.Fields{"image_url": logo, "colors": len(colors), "duration": time.Since(start).String()}).
		Debug("Logo palette extracted")
	return colors
}

// imageURLs lists every page image once, in crawl order
func imageURLs(pages []models.SemanticPage) []string {
	seen := utils.NewStringSet()
	var urls []string
	for _, page := range pages {
		for _, u := range page.ImageURLs {
			if seen.Add(u) {
				urls = append(urls, u)
			}
		}
	}
	return urls
}
