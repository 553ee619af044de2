package models

import "time"

// HiddenGemType is the regex family a gem came from
type HiddenGemType string

const (
	GemFoundingDate   HiddenGemType = "founding_date"
	GemAward          HiddenGemType = "award"
	GemCertification  HiddenGemType = "certification"
	GemStatistic      HiddenGemType = "statistic"
	GemLocationDetail HiddenGemType = "location_detail"
	GemSlogan         HiddenGemType = "slogan"
)

// HiddenGem is a noteworthy fact recovered from image text
type HiddenGem struct {
	Type              HiddenGemType `json:"type" yaml:"type"`
	Text              string        `json:"text" yaml:"text"`
	Source            string        `json:"source" yaml:"source"` // image URL
	Confidence        float64       `json:"confidence" yaml:"confidence"`
	DisplaySuggestion string        `json:"display_suggestion" yaml:"display_suggestion"`
}

type ExtractedService struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	SourceURL   string  `json:"source_url" yaml:"source_url"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

type ExtractedTestimonial struct {
	Quote      string  `json:"quote" yaml:"quote"`
	Author     string  `json:"author" yaml:"author"`
	Rating     int     `json:"rating,omitempty" yaml:"rating,omitempty"`
	SourceURL  string  `json:"source_url" yaml:"source_url"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

type ExtractedTeamMember struct {
	Name       string  `json:"name" yaml:"name"`
	Role       string  `json:"role" yaml:"role"`
	Bio        string  `json:"bio,omitempty" yaml:"bio,omitempty"`
	ImageURL   string  `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	SourceURL  string  `json:"source_url" yaml:"source_url"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

type ExtractedFAQ struct {
	Question   string  `json:"question" yaml:"question"`
	Answer     string  `json:"answer" yaml:"answer"`
	SourceURL  string  `json:"source_url" yaml:"source_url"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// ContactInfo holds the first phone/email/address found
type ContactInfo struct {
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Hours   string `json:"hours,omitempty" yaml:"hours,omitempty"`
}

// IsEmpty reports whether no contact field was found
func (c ContactInfo) IsEmpty() bool {
	return c.Phone == "" && c.Email == "" && c.Address == "" && c.Hours == ""
}

type SocialLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url" yaml:"url"`
}

type NavItem struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// VisionResult is the raw answer of the vision capability for one image
type VisionResult struct {
	ImageURL   string   `json:"image_url" yaml:"image_url"`
	Caption    string   `json:"caption,omitempty" yaml:"caption,omitempty"`
	Text       []string `json:"text,omitempty" yaml:"text,omitempty"`
	Colors     []string `json:"colors,omitempty" yaml:"colors,omitempty"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
}

// EnrichedImage is an image URL plus whatever vision facts were obtained for it
type EnrichedImage struct {
	URL              string      `json:"url" yaml:"url"`
	SemanticCaption  string      `json:"semantic_caption,omitempty" yaml:"semantic_caption,omitempty"`
	ExtractedText    []string    `json:"extracted_text,omitempty" yaml:"extracted_text,omitempty"`
	DominantColors   []string    `json:"dominant_colors,omitempty" yaml:"dominant_colors,omitempty"`
	VisionConfidence float64     `json:"vision_confidence" yaml:"vision_confidence"`
	Status           ImageStatus `json:"status" yaml:"status"`
}

type ConsolidatedHeader struct {
	BusinessName string    `json:"business_name" yaml:"business_name"`
	LogoURL      string    `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
	Tagline      string    `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Navigation   []NavItem `json:"navigation,omitempty" yaml:"navigation,omitempty"`
	Phone        string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	CallToAction *NavItem  `json:"call_to_action,omitempty" yaml:"call_to_action,omitempty"`
}

type ConsolidatedFooter struct {
	Contact     ContactInfo  `json:"contact" yaml:"contact"`
	SocialLinks []SocialLink `json:"social_links,omitempty" yaml:"social_links,omitempty"`
	LegalLinks  []NavItem    `json:"legal_links,omitempty" yaml:"legal_links,omitempty"`
	Copyright   string       `json:"copyright,omitempty" yaml:"copyright,omitempty"`
}

// ContentSparsity is a coarse measure of how much text a site yielded
type ContentSparsity string

const (
	SparsityRich     ContentSparsity = "rich"
	SparsityModerate ContentSparsity = "moderate"
	SparsitySparse   ContentSparsity = "sparse"
)

type DNAMetadata struct {
	ContentSparsity        ContentSparsity `json:"content_sparsity" yaml:"content_sparsity"`
	TotalPagesScraped      int             `json:"total_pages_scraped" yaml:"total_pages_scraped"`
	VisionAnalysisComplete bool            `json:"vision_analysis_complete" yaml:"vision_analysis_complete"`
	ImagesAnalyzed         int             `json:"images_analyzed" yaml:"images_analyzed"`
	TotalTextChars         int             `json:"total_text_chars" yaml:"total_text_chars"`
	EstimatedTokens        int             `json:"estimated_tokens" yaml:"estimated_tokens"`
	CrawlStopReason        StopReason      `json:"crawl_stop_reason,omitempty" yaml:"crawl_stop_reason,omitempty"`
	CrawlDuration          time.Duration   `json:"crawl_duration" yaml:"crawl_duration"`
	ExtractedAt            time.Time       `json:"extracted_at" yaml:"extracted_at"`
}

// BusinessDNA is the consolidated identity record of one scraped business.
// Only the consolidator builds it; callers treat it as read-only.
type BusinessDNA struct {
	ID           string `json:"id" yaml:"id"`
	SourceURL    string `json:"source_url" yaml:"source_url"`
	BusinessName string `json:"business_name" yaml:"business_name"`
	Tagline      string `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Platform     string `json:"platform,omitempty" yaml:"platform,omitempty"`
	LogoURL      string `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`

	Pages        []SemanticPage         `json:"pages" yaml:"pages"`
	Services     []ExtractedService     `json:"services" yaml:"services"`
	Testimonials []ExtractedTestimonial `json:"testimonials" yaml:"testimonials"`
	TeamMembers  []ExtractedTeamMember  `json:"team_members" yaml:"team_members"`
	FAQs         []ExtractedFAQ         `json:"faqs" yaml:"faqs"`
	HiddenGems   []HiddenGem            `json:"hidden_gems" yaml:"hidden_gems"`
	Contact      ContactInfo            `json:"contact" yaml:"contact"`
	SocialLinks  []SocialLink           `json:"social_links" yaml:"social_links"`
	Navigation   []NavItem              `json:"navigation" yaml:"navigation"`
	BrandColors  []string               `json:"brand_colors" yaml:"brand_colors"`
	Images       []EnrichedImage        `json:"images" yaml:"images"`
	Chunks       []ContentChunk         `json:"content_chunks,omitempty" yaml:"content_chunks,omitempty"`

	Header   ConsolidatedHeader `json:"header" yaml:"header"`
	Footer   ConsolidatedFooter `json:"footer" yaml:"footer"`
	Metadata DNAMetadata        `json:"metadata" yaml:"metadata"`
}

// ContentChunk is a heading-scoped slice of page markdown sized for retrieval
type ContentChunk struct {
	SourceURL  string         `json:"source_url" yaml:"source_url"`
	Intent     SemanticIntent `json:"intent" yaml:"intent"`
	Headings   []string       `json:"headings,omitempty" yaml:"headings,omitempty"`
	Content    string         `json:"content" yaml:"content"`
	TokenCount int            `json:"token_count" yaml:"token_count"`
}

// SiteIdentity is the lighter shape handed to callers that only need branding
type SiteIdentity struct {
	BusinessName string       `json:"business_name" yaml:"business_name"`
	Tagline      string       `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	LogoURL      string       `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
	BrandColors  []string     `json:"brand_colors" yaml:"brand_colors"`
	Contact      ContactInfo  `json:"contact" yaml:"contact"`
	SocialLinks  []SocialLink `json:"social_links" yaml:"social_links"`
	Navigation   []NavItem    `json:"navigation" yaml:"navigation"`
}

// Identity projects the record onto a SiteIdentity
func (d *BusinessDNA) Identity() SiteIdentity {
	return SiteIdentity{
		BusinessName: d.BusinessName,
		Tagline:      d.Tagline,
		LogoURL:      d.LogoURL,
		BrandColors:  append([]string(nil), d.BrandColors...),
		Contact:      d.Contact,
		SocialLinks:  append([]SocialLink(nil), d.SocialLinks...),
		Navigation:   append([]NavItem(nil), d.Navigation...),
	}
}
