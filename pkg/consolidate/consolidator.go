// Package consolidate merges classified pages, extracted entities and enriched images into
// the single BusinessDNA record of a run.
package consolidate

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/config"
	"github.com/Sriram-PR/bizdna/pkg/extract"
	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/process"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	maxDescriptionRunes = 300
	minTaglineRunes     = 10
	maxTaglineRunes     = 90
	minTaglineWords     = 3
	maxTaglineSentence  = 120
)

// RunInfo carries the run-level facts that are recorded as-is
type RunInfo struct {
	ID             string
	SourceURL      string
	Platform       string
	LogoPalette    []string
	VisionComplete bool
	Crawl          *models.CrawlResult
	Chunks         []models.ContentChunk
}

// Consolidator is the only producer of BusinessDNA
type Consolidator struct {
	cfg config.HeuristicsConfig
	tok *process.Tokenizer
	log *logrus.Entry
	now func() time.Time
}

// NewConsolidator creates a consolidator. tok may be nil, token counts then fall back to a
// character estimate.
func NewConsolidator(cfg config.HeuristicsConfig, tok *process.Tokenizer, log *logrus.Entry) *Consolidator {
	return &Consolidator{cfg: cfg, tok: tok, log: log, now: time.Now}
}

// Consolidate builds the BusinessDNA. pages must be in crawl order with the home page first.
// Empty entities or images are fine; only an empty page set is an error.
func (c *Consolidator) Consolidate(pages []models.SemanticPage, entities extract.Entities, images []models.EnrichedImage, businessNameHint string, run RunInfo) (*models.BusinessDNA, error) {
	if len(pages) == 0 {
		return nil, utils.WrapErrorf(utils.ErrNoPagesRendered, "nothing to consolidate for '%s'", run.SourceURL)
	}
	home := pages[0]
	sourceURL := run.SourceURL
	if sourceURL == "" {
		sourceURL = home.URL
	}

	name := BusinessName(pages, businessNameHint, sourceURL)
	tagline := Tagline(home, name, entities.HiddenGems)
	logo := logoURL(pages)
	totalChars, allText := textVolume(pages)

	palette := extract.BrandColors(extract.CollectColorSources(pages, run.LogoPalette, images), c.cfg.MaxBrandColors)

	dna := &models.BusinessDNA{
		ID:           run.ID,
		SourceURL:    sourceURL,
		BusinessName: name,
		Tagline:      tagline,
		Description:  Description(pages),
		Platform:     run.Platform,
		LogoURL:      logo,

		Pages:        nonNil(pages),
		Services:     nonNil(entities.Services),
		Testimonials: nonNil(entities.Testimonials),
		TeamMembers:  nonNil(entities.TeamMembers),
		FAQs:         nonNil(entities.FAQs),
		HiddenGems:   nonNil(entities.HiddenGems),
		Contact:      entities.Contact,
		SocialLinks:  nonNil(entities.SocialLinks),
		Navigation:   nonNil(entities.Navigation),
		BrandColors:  nonNil(palette),
		Images:       nonNil(images),
		Chunks:       slices.Clone(run.Chunks),

		Header: models.ConsolidatedHeader{
			BusinessName: name,
			LogoURL:      logo,
			Tagline:      tagline,
			Navigation:   slices.Clone(entities.Navigation),
			Phone:        entities.Contact.Phone,
			CallToAction: cloneNav(entities.CallToAction),
		},
		Footer: models.ConsolidatedFooter{
			Contact:     entities.Contact,
			SocialLinks: slices.Clone(entities.SocialLinks),
			LegalLinks:  slices.Clone(entities.LegalLinks),
			Copyright:   entities.Copyright,
		},
		Metadata: models.DNAMetadata{
			ContentSparsity:        Sparsity(totalChars, c.cfg.RichTextThreshold, c.cfg.ModerateTextThreshold),
			TotalPagesScraped:      len(pages),
			VisionAnalysisComplete: run.VisionComplete,
			ImagesAnalyzed:         analyzedCount(images),
			TotalTextChars:         totalChars,
			EstimatedTokens:        c.tok.Estimate(allText),
			ExtractedAt:            c.now().UTC(),
		},
	}
	if run.Crawl != nil {
		dna.Metadata.CrawlStopReason = run.Crawl.StopReason
		dna.Metadata.CrawlDuration = run.Crawl.Duration
	}

	c.log.WithFields(logrus.Fields{
		"business_name":    dna.BusinessName,
		"pages":            dna.Metadata.TotalPagesScraped,
		"sparsity":         dna.Metadata.ContentSparsity,
		"brand_colors":     len(dna.BrandColors),
		"images_analyzed":  dna.Metadata.ImagesAnalyzed,
		"vision_complete":  dna.Metadata.VisionAnalysisComplete,
		"estimated_tokens": dna.Metadata.EstimatedTokens,
	}).Info("Business DNA consolidated")
	return dna, nil
}

// BusinessName picks the first non-empty of: the caller's hint, site metadata (home page
// first), the first page's first heading, a name derived from the hostname.
func BusinessName(pages []models.SemanticPage, hint, sourceURL string) string {
	if n := utils.CleanText(hint); n != "" {
		return n
	}
	for _, p := range pages {
		if n := utils.CleanText(p.SiteName); n != "" {
			return n
		}
	}
	if len(pages) > 0 && len(pages[0].Headings) > 0 {
		if n := utils.CleanText(pages[0].Headings[0]); n != "" {
			return n
		}
	}
	return NameFromHost(sourceURL)
}

// NameFromHost turns "https://www.joes-bakery.co.uk" into "Joes Bakery"
func NameFromHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	words := strings.FieldsFunc(label, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Tagline picks a short home-page heading below the name, then a slogan gem, then the first
// sentence of the meta description.
func Tagline(home models.SemanticPage, name string, gems []models.HiddenGem) string {
	for i, h := range home.Headings {
		if i == 0 {
			continue
		}
		h = utils.CleanText(h)
		n := utils.RuneLen(h)
		if n < minTaglineRunes || n > maxTaglineRunes || strings.HasSuffix(h, "?") {
			continue
		}
		if len(strings.Fields(h)) < minTaglineWords || strings.EqualFold(h, name) {
			continue
		}
		return h
	}
	for _, g := range gems {
		if g.Type == models.GemSlogan {
			return g.Text
		}
	}
	sentence, _, _ := strings.Cut(utils.CleanText(home.MetaDescription), ". ")
	if n := utils.RuneLen(sentence); n >= minTaglineRunes && n <= maxTaglineSentence {
		return strings.TrimSuffix(sentence, ".")
	}
	return ""
}

// Description is the home meta description, else the opening paragraph of the mission page,
// else the home page's first paragraph.
func Description(pages []models.SemanticPage) string {
	if len(pages) == 0 {
		return ""
	}
	if d := utils.CleanText(pages[0].MetaDescription); d != "" {
		return utils.TruncateRunes(d, maxDescriptionRunes)
	}
	for _, p := range pages {
		if p.SemanticIntent == models.IntentVisionMission && len(p.Paragraphs) > 0 {
			return utils.TruncateRunes(utils.CleanText(p.Paragraphs[0]), maxDescriptionRunes)
		}
	}
	if len(pages[0].Paragraphs) > 0 {
		return utils.TruncateRunes(utils.CleanText(pages[0].Paragraphs[0]), maxDescriptionRunes)
	}
	return ""
}

// Sparsity buckets the total text volume. Both thresholds are exclusive lower bounds.
func Sparsity(totalChars, rich, moderate int) models.ContentSparsity {
	switch {
	case totalChars > rich:
		return models.SparsityRich
	case totalChars > moderate:
		return models.SparsityModerate
	default:
		return models.SparsitySparse
	}
}

func textVolume(pages []models.SemanticPage) (int, string) {
	var b strings.Builder
	total := 0
	for _, p := range pages {
		total += utils.RuneLen(p.RawText)
		b.WriteString(p.RawText)
		b.WriteByte('\n')
	}
	return total, b.String()
}

func logoURL(pages []models.SemanticPage) string {
	for _, p := range pages {
		if p.Styles.LogoURL != "" {
			return p.Styles.LogoURL
		}
	}
	return ""
}

func analyzedCount(images []models.EnrichedImage) int {
	n := 0
	for _, img := range images {
		if img.Status == models.ImageStatusSuccess {
			n++
		}
	}
	return n
}

func cloneNav(item *models.NavItem) *models.NavItem {
	if item == nil {
		return nil
	}
	cp := *item
	return &cp
}

// nonNil copies s so the record owns its lists, and keeps empty lists as [] in JSON output
func nonNil[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
