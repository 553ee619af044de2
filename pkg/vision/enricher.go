package vision

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/storage"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const defaultConcurrency = 3

// EnrichReport summarizes one Enrich call
type EnrichReport struct {
	Available bool
	Attempted int
	Succeeded int
	Failed    int
}

// Complete is true when the capability was reachable, analyzed at least one image and
// none of the analyses failed
func (r EnrichReport) Complete() bool {
	return r.Available && r.Attempted > 0 && r.Failed == 0
}

// Enricher runs vision analysis over a run's images with a bounded worker pool
type Enricher struct {
	client  Client
	cache   storage.VisionCache
	limiter *rate.Limiter
	log     *logrus.Entry
}

// NewEnricher creates an Enricher. client may be nil (vision disabled); cache may be nil.
// requestsPerSecond <= 0 disables rate limiting.
func NewEnricher(client Client, cache storage.VisionCache, requestsPerSecond float64, log *logrus.Entry) *Enricher {
	e := &Enricher{
		client: client,
		cache:  cache,
		log:    log.WithField("component", "vision"),
	}
	if requestsPerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return e
}

type analysis struct {
	result models.VisionResult
	err    error
}

// BatchAnalyze analyzes every URL and returns results in input order. A failed image
// yields a zero result carrying only its URL.
func (e *Enricher) BatchAnalyze(ctx context.Context, imageURLs []string, opts Options) []models.VisionResult {
	analyses := e.analyzeAll(ctx, imageURLs, opts)
	results := make([]models.VisionResult, len(analyses))
	for i, a := range analyses {
		results[i] = a.result
	}
	return results
}

// Enrich turns image URLs into EnrichedImages. At most opts.MaxImages are analyzed; the rest,
// and everything when the capability is unavailable, pass through with empty fields.
// It never returns an error.
func (e *Enricher) Enrich(ctx context.Context, imageURLs []string, opts Options) ([]models.EnrichedImage, EnrichReport) {
	images := make([]models.EnrichedImage, len(imageURLs))
	for i, u := range imageURLs {
		images[i] = models.EnrichedImage{URL: u, Status: models.ImageStatusSkipped}
	}
	var report EnrichReport

	if len(imageURLs) == 0 || opts.MaxImages <= 0 || !opts.Any() {
		return images, report
	}
	if err := e.available(ctx); err != nil {
		e.log.WithField("error_type", utils.CategorizeError(err)).Warnf("Vision enrichment skipped: %v", err)
		return images, report
	}
	report.Available = true

	selected := imageURLs[:min(opts.MaxImages, len(imageURLs))]
	analyses := e.analyzeAll(ctx, selected, opts)
	for i, a := range analyses {
		report.Attempted++
		if a.err != nil {
			report.Failed++
			images[i].Status = models.ImageStatusFailure
			continue
		}
		report.Succeeded++
		images[i] = models.EnrichedImage{
			URL:              selected[i],
			SemanticCaption:  a.result.Caption,
			ExtractedText:    a.result.Text,
			DominantColors:   a.result.Colors,
			VisionConfidence: utils.Clamp01(a.result.Confidence),
			Status:           models.ImageStatusSuccess,
		}
	}

	e.log.WithFields(logrus.Fields{
		"attempted": report.Attempted,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"skipped":   len(imageURLs) - len(selected),
	}).Info("Vision enrichment finished")
	return images, report
}

func (e *Enricher) available(ctx context.Context) error {
	if e.client == nil {
		return fmt.Errorf("%w: no vision client configured", utils.ErrVisionUnavailable)
	}
	if p, ok := e.client.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			if errors.Is(err, utils.ErrVisionUnavailable) {
				return err
			}
			return fmt.Errorf("%w: %w", utils.ErrVisionUnavailable, err)
		}
	}
	return nil
}

// analyzeAll runs a fixed pool of workers over the URLs; each worker writes its answer
// back by index, so one failure never drops or reorders the others
func (e *Enricher) analyzeAll(ctx context.Context, imageURLs []string, opts Options) []analysis {
	out := make([]analysis, len(imageURLs))
	for i, u := range imageURLs {
		out[i].result.ImageURL = u
	}
	if e.client == nil {
		for i := range out {
			out[i].err = utils.ErrVisionUnavailable
		}
		return out
	}

	workers := opts.Concurrency
	if workers <= 0 {
		workers = defaultConcurrency
	}
	workers = min(workers, len(imageURLs))

	tasks := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				out[i] = e.analyzeOne(ctx, imageURLs[i], opts)
			}
		}()
	}
	for i := range imageURLs {
		tasks <- i
	}
	close(tasks)
	wg.Wait()
	return out
}

func (e *Enricher) analyzeOne(ctx context.Context, imageURL string, opts Options) (a analysis) {
	imgLog := e.log.WithField("image_url", imageURL)
	a.result.ImageURL = imageURL

	defer func() {
		if r := recover(); r != nil {
			a = analysis{
				result: models.VisionResult{ImageURL: imageURL},
				err:    fmt.Errorf("%w: panic analyzing '%s': %v", utils.ErrVisionFailed, imageURL, r),
			}
			imgLog.WithFields(logrus.Fields{"panic_info": r, "stack_trace": string(debug.Stack())}).Error("PANIC Recovered in vision worker")
		}
	}()

	if e.cache != nil {
		cached, ok, err := e.cache.GetVisionResult(imageURL)
		if err != nil {
			imgLog.Debugf("Vision cache read failed: %v", err)
		} else if ok {
			imgLog.Debug("Vision result served from cache")
			return analysis{result: *cached}
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return analysis{result: a.result, err: fmt.Errorf("%w: rate limiter: %w", utils.ErrVisionFailed, err)}
		}
	}

	res, err := e.client.Analyze(ctx, imageURL, opts)
	if err != nil {
		if !errors.Is(err, utils.ErrVisionFailed) && !errors.Is(err, utils.ErrVisionUnavailable) {
			err = fmt.Errorf("%w: '%s': %w", utils.ErrVisionFailed, imageURL, err)
		}
		imgLog.WithField("error_type", utils.CategorizeError(err)).Warnf("Vision analysis failed: %v", err)
		return analysis{result: a.result, err: err}
	}
	res.ImageURL = imageURL
	res.Confidence = utils.Clamp01(res.Confidence)

	if e.cache != nil {
		if err := e.cache.PutVisionResult(imageURL, &res); err != nil {
			imgLog.Debugf("Vision cache write failed: %v", err)
		}
	}
	return analysis{result: res}
}
