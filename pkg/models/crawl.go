package models

import "time"

// WorkItem is a frontier entry: a normalized URL and the link depth it was discovered at
type WorkItem struct {
	URL   string
	Depth int
}

// CrawlBudget bounds a single crawl
type CrawlBudget struct {
	MaxPages     int           `yaml:"max_pages" json:"max_pages"`
	MaxDepth     int           `yaml:"max_depth" json:"max_depth"`
	PageTimeout  time.Duration `yaml:"page_timeout" json:"page_timeout"`
	CrawlTimeout time.Duration `yaml:"crawl_timeout" json:"crawl_timeout"`
}

// StyleSignals are the color hints a renderer collects from the live page
type StyleSignals struct {
	CSSVariables   map[string]string `json:"css_variables,omitempty" yaml:"css_variables,omitempty"`     // :root custom properties, name -> raw value
	ComputedColors []string          `json:"computed_colors,omitempty" yaml:"computed_colors,omitempty"` // colors of buttons, nav, headings in document order
	ThemeColor     string            `json:"theme_color,omitempty" yaml:"theme_color,omitempty"`
	LogoURL        string            `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
}

// RenderedPage is what a renderer returns for one URL
type RenderedPage struct {
	URL       string       // URL as requested (normalized)
	FinalURL  string       // URL after redirects
	HTML      string       // serialized DOM snapshot
	ImageURLs []string     // absolute image URLs in document order
	LinkURLs  []string     // same-origin page links in document order
	Styles    StyleSignals // color signals
	Depth     int
}

// StopReason says why a crawl ended
type StopReason string

const (
	StopMaxPages      StopReason = "max_pages"
	StopFrontierEmpty StopReason = "frontier_empty"
	StopCrawlTimeout  StopReason = "crawl_timeout"
	StopCancelled     StopReason = "cancelled"
)

// CrawlResult is the output of one crawl, pages in crawl order
type CrawlResult struct {
	Pages      []RenderedPage
	StopReason StopReason
	Visited    int
	Failed     int
	Duration   time.Duration
}

// PageDBEntry stores the state of a page URL in the visited store
type PageDBEntry struct {
	Status      PageStatus `json:"status" yaml:"status"`
	ErrorType   string     `json:"error_type,omitempty" yaml:"error_type,omitempty"`     // Error category (on failure)
	ProcessedAt time.Time  `json:"processed_at,omitempty" yaml:"processed_at,omitempty"` // Timestamp of successful render
	LastAttempt time.Time  `json:"last_attempt" yaml:"last_attempt"`
	Depth       int        `json:"depth" yaml:"depth"`
}
