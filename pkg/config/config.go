package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// TotalContentConfig is the caller-facing knob set for one extraction run
type TotalContentConfig struct {
	MaxPages               int           `yaml:"max_pages"`
	MaxDepth               int           `yaml:"max_depth"`
	PageTimeout            time.Duration `yaml:"page_timeout"`
	CrawlTimeout           time.Duration `yaml:"crawl_timeout"`
	EnableOCR              *bool         `yaml:"enable_ocr,omitempty"`
	EnableColorExtraction  *bool         `yaml:"enable_color_extraction,omitempty"`
	EnableSemanticCaptions *bool         `yaml:"enable_semantic_captions,omitempty"`
	MaxImagesForVision     int           `yaml:"max_images_for_vision"`
}

// CrawlSettings shape the frontier
type CrawlSettings struct {
	PriorityPaths          []string      `yaml:"priority_paths,omitempty"`
	DisallowedPathPatterns []string      `yaml:"disallowed_path_patterns,omitempty"` // Regex patterns for paths to exclude
	RespectRobots          *bool         `yaml:"respect_robots,omitempty"`
	UseSitemap             *bool         `yaml:"use_sitemap,omitempty"`
	MaxSitemapURLs         int           `yaml:"max_sitemap_urls,omitempty"`
	DelayPerHost           time.Duration `yaml:"delay_per_host,omitempty"`
}

// RendererConfig selects and tunes the page renderer
type RendererConfig struct {
	Kind     string        `yaml:"kind"`                // "chrome" or "http"
	Headless *bool         `yaml:"headless,omitempty"`  // chrome only
	WaitTime time.Duration `yaml:"wait_time,omitempty"` // settle time after body is ready (chrome only)
	ExecPath string        `yaml:"exec_path,omitempty"` // chrome binary override
}

// VisionConfig selects the vision capability
type VisionConfig struct {
	Provider          string  `yaml:"provider"` // "anthropic" or "none"
	Model             string  `yaml:"model,omitempty"`
	MaxTokens         int64   `yaml:"max_tokens,omitempty"`
	Concurrency       int     `yaml:"concurrency,omitempty"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"` // 0 = unlimited
	APIKeyEnv         string  `yaml:"api_key_env,omitempty"`
}

// HeuristicsConfig holds the tunable thresholds and per-entity caps
type HeuristicsConfig struct {
	RichTextThreshold     int     `yaml:"rich_text_threshold,omitempty"`
	ModerateTextThreshold int     `yaml:"moderate_text_threshold,omitempty"`
	RawTextCap            int     `yaml:"raw_text_cap,omitempty"`
	BodyScanChars         int     `yaml:"body_scan_chars,omitempty"`
	PathFactor            float64 `yaml:"path_factor,omitempty"`
	TitleFactor           float64 `yaml:"title_factor,omitempty"`
	OccurrenceStep        float64 `yaml:"occurrence_step,omitempty"`
	OccurrenceCap         float64 `yaml:"occurrence_cap,omitempty"`
	MaxKeyPhrases         int     `yaml:"max_key_phrases,omitempty"`
	MaxTestimonials       int     `yaml:"max_testimonials,omitempty"`
	MaxTeamMembers        int     `yaml:"max_team_members,omitempty"`
	MaxFAQs               int     `yaml:"max_faqs,omitempty"`
	MaxServices           int     `yaml:"max_services,omitempty"`
	MaxHiddenGems         int     `yaml:"max_hidden_gems,omitempty"`
	MaxBrandColors        int     `yaml:"max_brand_colors,omitempty"`
	MaxNavItems           int     `yaml:"max_nav_items,omitempty"`
	ChunkMaxTokens        int     `yaml:"chunk_max_tokens,omitempty"`
	ChunkOverlap          int     `yaml:"chunk_overlap,omitempty"`
}

// AppConfig holds the global application configuration
type AppConfig struct {
	UserAgent          string             `yaml:"user_agent"`
	Content            TotalContentConfig `yaml:"content"`
	Crawl              CrawlSettings      `yaml:"crawl"`
	Renderer           RendererConfig     `yaml:"renderer"`
	Vision             VisionConfig       `yaml:"vision"`
	Heuristics         HeuristicsConfig   `yaml:"heuristics"`
	VisitedStore       string             `yaml:"visited_store"` // "memory" or "badger"
	MaxConcurrentSites int                `yaml:"max_concurrent_sites,omitempty"`
	MaxRequests        int                `yaml:"max_requests,omitempty"` // in-flight HTTP requests across all runs
	MaxRetries         int                `yaml:"max_retries,omitempty"`
	InitialRetryDelay  time.Duration      `yaml:"initial_retry_delay,omitempty"`
	MaxRetryDelay      time.Duration      `yaml:"max_retry_delay,omitempty"`
	HTTPClientSettings HTTPClientConfig   `yaml:"http_client_settings,omitempty"`
	OutputDir          string             `yaml:"output_dir"`
	OutputFormat       string             `yaml:"output_format"` // "json" or "yaml"
	TokenizerEncoding  string             `yaml:"tokenizer_encoding,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration `yaml:"timeout,omitempty"`                 // Overall request timeout
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"`
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"` // nil=default, true=force, false=disable
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`
}

// Load reads a YAML config file. An empty path yields a zero config for Validate to fill.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading config file '%s': %w", utils.ErrConfigValidation, path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing YAML config '%s': %w", utils.ErrConfigValidation, path, err)
	}
	return cfg, nil
}

// Budget derives the crawl budget from the content settings
func (c *AppConfig) Budget() models.CrawlBudget {
	return models.CrawlBudget{
		MaxPages:     c.Content.MaxPages,
		MaxDepth:     c.Content.MaxDepth,
		PageTimeout:  c.Content.PageTimeout,
		CrawlTimeout: c.Content.CrawlTimeout,
	}
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

// OCREnabled reports the effective enable_ocr setting (default true)
func (c TotalContentConfig) OCREnabled() bool { return boolOr(c.EnableOCR, true) }

// ColorExtractionEnabled reports the effective enable_color_extraction setting (default true)
func (c TotalContentConfig) ColorExtractionEnabled() bool {
	return boolOr(c.EnableColorExtraction, true)
}

// CaptionsEnabled reports the effective enable_semantic_captions setting (default true)
func (c TotalContentConfig) CaptionsEnabled() bool {
	return boolOr(c.EnableSemanticCaptions, true)
}

// RobotsRespected reports the effective respect_robots setting (default true)
func (c CrawlSettings) RobotsRespected() bool { return boolOr(c.RespectRobots, true) }

// SitemapEnabled reports the effective use_sitemap setting (default true)
func (c CrawlSettings) SitemapEnabled() bool { return boolOr(c.UseSitemap, true) }

// IsHeadless reports the effective headless setting (default true)
func (c RendererConfig) IsHeadless() bool { return boolOr(c.Headless, true) }

// APIKey resolves the vision API key from the configured environment variable
func (c VisionConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}
