package orchestrate

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/parse"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// Runner extracts one site; pipeline.Pipeline satisfies it
type Runner interface {
	Run(ctx context.Context, seedURL, businessNameHint string) (*models.BusinessDNA, error)
}

// Target is one site to extract
type Target struct {
	URL      string
	NameHint string
}

// SiteResult contains the result of extracting a single site
type SiteResult struct {
	Target   Target
	Success  bool
	Error    error
	DNA      *models.BusinessDNA
	Pages    int
	Duration time.Duration
}

// Orchestrator runs independent pipeline runs for several sites, at most limit at a time
type Orchestrator struct {
	runner Runner
	limit  int
	log    *logrus.Entry
}

// NewOrchestrator creates an orchestrator; limit <= 0 means one site at a time
func NewOrchestrator(runner Runner, limit int, log *logrus.Entry) *Orchestrator {
	if limit <= 0 {
		limit = 1
	}
	return &Orchestrator{runner: runner, limit: limit, log: log}
}

// Run extracts every target and returns results in target order. A failing site never
// stops the others; cancelling ctx stops runs that have not started.
func (o *Orchestrator) Run(ctx context.Context, targets []Target) []SiteResult {
	startTime := time.Now()
	o.log.Infof("Starting extraction of %d sites (%d at a time)", len(targets), o.limit)

	results := make([]SiteResult, len(targets))
	g := new(errgroup.Group)
	g.SetLimit(o.limit)
	for i, target := range targets {
		g.Go(func() error {
			results[i] = o.runSite(ctx, target)
			return nil
		})
	}
	_ = g.Wait()

	o.logSummary(results, time.Since(startTime))
	return results
}

// runSite runs one pipeline and converts panics into a failed result
func (o *Orchestrator) runSite(ctx context.Context, target Target) (result SiteResult) {
	startTime := time.Now()
	result.Target = target
	siteLog := o.log.WithField("seed", target.URL)

	defer func() {
		if r := recover(); r != nil {
			siteLog.WithFields(logrus.Fields{
				"panic_info":  fmt.Sprintf("%v", r),
				"stack_trace": string(debug.Stack()),
			}).Error("PANIC recovered in site run")
			result.Success = false
			result.Error = fmt.Errorf("site run panicked: %v", r)
		}
		result.Duration = time.Since(startTime)
	}()

	if err := ctx.Err(); err != nil {
		result.Error = fmt.Errorf("not started: %w", err)
		return result
	}

	dna, err := o.runner.Run(ctx, target.URL, target.NameHint)
	if err != nil {
		result.Error = err
		siteLog.WithField("error_type", utils.CategorizeError(err)).Errorf("Extraction failed: %v", err)
		return result
	}
	result.Success = true
	result.DNA = dna
	result.Pages = dna.Metadata.TotalPagesScraped
	siteLog.Infof("Extraction completed for '%s'", dna.BusinessName)
	return result
}

// logSummary logs a summary of all site results
func (o *Orchestrator) logSummary(results []SiteResult, totalDuration time.Duration) {
	o.log.Info("============================================")
	o.log.Infof("Extraction completed in %v", totalDuration)
	o.log.Info("Site Results:")

	totalPages := 0
	successCount := 0
	failCount := 0

	for _, r := range results {
		status := "SUCCESS"
		if !r.Success {
			status = "FAILED"
			failCount++
		} else {
			successCount++
		}
		totalPages += r.Pages

		o.log.Infof("  %s: %s - %d pages in %v", r.Target.URL, status, r.Pages, r.Duration)
		if r.Error != nil {
			o.log.Infof("    Error: %v", r.Error)
		}
	}

	o.log.Info("--------------------------------------------")
	o.log.Infof("Total: %d sites (%d success, %d failed), %d pages scraped",
		len(results), successCount, failCount, totalPages)
	o.log.Info("============================================")
}

// ParseTargets reads a comma-separated URL list. Each entry may carry a name hint after a
// '|', as in "https://joes.example|Joe's Bakery".
func ParseTargets(list string) []Target {
	var targets []Target
	for _, entry := range strings.Split(list, ",") {
		rawURL, hint, _ := strings.Cut(entry, "|")
		rawURL = strings.TrimSpace(rawURL)
		if rawURL == "" {
			continue
		}
		targets = append(targets, Target{URL: rawURL, NameHint: strings.TrimSpace(hint)})
	}
	return targets
}

// ValidateTargets checks that every target is an absolute http(s) URL and that no site
// appears twice
func ValidateTargets(targets []Target) error {
	seen := make(map[string]string, len(targets))
	for _, t := range targets {
		key, u, err := parse.ParseAndNormalize(t.URL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%w: '%s' is not an absolute http(s) URL", utils.ErrInvalidSeed, t.URL)
		}
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("%w: '%s' duplicates '%s'", utils.ErrInvalidSeed, t.URL, prev)
		}
		seen[key] = t.URL
	}
	return nil
}
