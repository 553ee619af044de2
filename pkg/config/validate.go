package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// DefaultPriorityPaths are path substrings crawled ahead of everything else
var DefaultPriorityPaths = []string{
	"/about", "/services", "/team", "/contact", "/testimonials", "/faq", "/pricing", "/gallery", "/legal",
}

// Validate checks AppConfig fields and applies defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	if c.UserAgent == "" {
		c.UserAgent = "bizdna/1.0 (+https://github.com/Sriram-PR/bizdna)"
	}

	warnings = append(warnings, c.Content.validate()...)

	// Crawl settings
	if len(c.Crawl.PriorityPaths) == 0 {
		c.Crawl.PriorityPaths = append([]string(nil), DefaultPriorityPaths...)
	}
	if _, err := utils.CompileRegexPatterns(c.Crawl.DisallowedPathPatterns); err != nil {
		return warnings, err
	}
	if c.Crawl.MaxSitemapURLs <= 0 {
		c.Crawl.MaxSitemapURLs = c.Content.MaxPages * 3
	}
	if c.Crawl.DelayPerHost < 0 {
		warnings = append(warnings, "crawl.delay_per_host cannot be negative, setting to 0")
		c.Crawl.DelayPerHost = 0
	}

	// Renderer
	c.Renderer.Kind = strings.ToLower(strings.TrimSpace(c.Renderer.Kind))
	switch c.Renderer.Kind {
	case "":
		c.Renderer.Kind = "chrome"
	case "chrome", "http":
	default:
		return warnings, fmt.Errorf("%w: unknown renderer.kind '%s' (want chrome|http)", utils.ErrConfigValidation, c.Renderer.Kind)
	}
	if c.Renderer.WaitTime < 0 {
		warnings = append(warnings, "renderer.wait_time cannot be negative, setting to 0")
		c.Renderer.WaitTime = 0
	}

	warnings = append(warnings, c.validateVision()...)
	if err := c.Heuristics.validate(); err != nil {
		return warnings, err
	}

	// Visited store
	switch c.VisitedStore {
	case "":
		c.VisitedStore = "memory"
	case "memory", "badger":
	default:
		return warnings, fmt.Errorf("%w: unknown visited_store '%s' (want memory|badger)", utils.ErrConfigValidation, c.VisitedStore)
	}

	if c.MaxConcurrentSites <= 0 {
		c.MaxConcurrentSites = 2
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = 8
	}

	// MaxRetries
	if c.MaxRetries < 0 {
		warnings = append(warnings, "max_retries cannot be negative, setting to 0")
		c.MaxRetries = 0
	}
	if c.MaxRetries == 0 && c.InitialRetryDelay == 0 {
		c.MaxRetries = 2
	}
	if c.MaxRetries > 0 {
		if c.InitialRetryDelay <= 0 {
			c.InitialRetryDelay = 1 * time.Second
		}
		if c.MaxRetryDelay <= 0 {
			c.MaxRetryDelay = 10 * time.Second
		}
	}
	if c.InitialRetryDelay > c.MaxRetryDelay && c.MaxRetryDelay > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"initial_retry_delay (%v) > max_retry_delay (%v), using max_retry_delay for initial",
			c.InitialRetryDelay, c.MaxRetryDelay))
		c.InitialRetryDelay = c.MaxRetryDelay
	}

	c.validateHTTPClientSettings()

	if c.OutputDir == "" {
		c.OutputDir = "./business_dna"
	}
	c.OutputFormat = strings.ToLower(c.OutputFormat)
	switch c.OutputFormat {
	case "":
		c.OutputFormat = "json"
	case "json", "yaml":
	default:
		return warnings, fmt.Errorf("%w: unknown output_format '%s' (want json|yaml)", utils.ErrConfigValidation, c.OutputFormat)
	}
	if c.TokenizerEncoding == "" {
		c.TokenizerEncoding = "cl100k_base"
	}

	return warnings, nil
}

func (c *TotalContentConfig) validate() (warnings []string) {
	if c.MaxPages <= 0 {
		c.MaxPages = 10
	}
	if c.MaxDepth < 0 {
		warnings = append(warnings, "content.max_depth cannot be negative, defaulting to 3")
		c.MaxDepth = 3
	} else if c.MaxDepth == 0 {
		c.MaxDepth = 3
	}
	if c.PageTimeout <= 0 {
		c.PageTimeout = 20 * time.Second
	}
	if c.CrawlTimeout <= 0 {
		c.CrawlTimeout = 90 * time.Second
	}
	if c.PageTimeout > c.CrawlTimeout {
		warnings = append(warnings, fmt.Sprintf(
			"content.page_timeout (%v) > content.crawl_timeout (%v), capping page timeout",
			c.PageTimeout, c.CrawlTimeout))
		c.PageTimeout = c.CrawlTimeout
	}
	if c.MaxImagesForVision < 0 {
		warnings = append(warnings, "content.max_images_for_vision cannot be negative, setting to 0 (vision disabled)")
		c.MaxImagesForVision = 0
	} else if c.MaxImagesForVision == 0 {
		c.MaxImagesForVision = 12
	}
	return warnings
}

func (c *AppConfig) validateVision() (warnings []string) {
	v := &c.Vision
	v.Provider = strings.ToLower(strings.TrimSpace(v.Provider))
	switch v.Provider {
	case "":
		v.Provider = "anthropic"
	case "anthropic", "none":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown vision.provider '%s', vision disabled", v.Provider))
		v.Provider = "none"
	}
	if v.Model == "" {
		v.Model = "claude-sonnet-4-5"
	}
	if v.MaxTokens <= 0 {
		v.MaxTokens = 1024
	}
	if v.Concurrency <= 0 {
		v.Concurrency = 3
	}
	if v.RequestsPerSecond < 0 {
		warnings = append(warnings, "vision.requests_per_second cannot be negative, disabling limit")
		v.RequestsPerSecond = 0
	}
	if v.APIKeyEnv == "" {
		v.APIKeyEnv = "ANTHROPIC_API_KEY"
	}
	return warnings
}

func (h *HeuristicsConfig) validate() error {
	intDefaults := []struct {
		field *int
		def   int
	}{
		{&h.RichTextThreshold, 20000},
		{&h.ModerateTextThreshold, 5000},
		{&h.RawTextCap, 10000},
		{&h.BodyScanChars, 2000},
		{&h.MaxKeyPhrases, 10},
		{&h.MaxTestimonials, 8},
		{&h.MaxTeamMembers, 12},
		{&h.MaxFAQs, 12},
		{&h.MaxServices, 16},
		{&h.MaxHiddenGems, 15},
		{&h.MaxBrandColors, 5},
		{&h.MaxNavItems, 6},
		{&h.ChunkMaxTokens, 512},
	}
	for _, d := range intDefaults {
		if *d.field <= 0 {
			*d.field = d.def
		}
	}
	floatDefaults := []struct {
		field *float64
		def   float64
	}{
		{&h.PathFactor, 0.5},
		{&h.TitleFactor, 0.2},
		{&h.OccurrenceStep, 0.1},
		{&h.OccurrenceCap, 0.3},
	}
	for _, d := range floatDefaults {
		if *d.field <= 0 {
			*d.field = d.def
		}
	}
	if h.ChunkOverlap <= 0 {
		h.ChunkOverlap = 50
	}
	if h.ChunkOverlap >= h.ChunkMaxTokens {
		h.ChunkOverlap = h.ChunkMaxTokens / 10
	}
	if h.ModerateTextThreshold >= h.RichTextThreshold {
		return fmt.Errorf("%w: heuristics.moderate_text_threshold (%d) must be below rich_text_threshold (%d)",
			utils.ErrConfigValidation, h.ModerateTextThreshold, h.RichTextThreshold)
	}
	return nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.Timeout <= 0 {
		h.Timeout = 30 * time.Second
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 50
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 4
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
}
