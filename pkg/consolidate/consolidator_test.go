package consolidate

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/bizdna/pkg/config"
	"github.com/Sriram-PR/bizdna/pkg/extract"
	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func testHeuristics() config.HeuristicsConfig {
	return config.HeuristicsConfig{
		RichTextThreshold:     200,
		ModerateTextThreshold: 50,
		MaxBrandColors:        5,
	}
}

func newTestConsolidator() *Consolidator {
	c := NewConsolidator(testHeuristics(), nil, testLogger())
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func homePage() models.SemanticPage {
	return models.SemanticPage{
		URL:             "https://www.joes-bakery.com/",
		Path:            "/",
		Title:           "Joe's Bakery | Fresh bread daily",
		Headings:        []string{"Joe's Bakery", "Fresh sourdough baked every morning", "Visit us"},
		Paragraphs:      []string{"We bake bread, pastries and cakes in small batches."},
		RawText:         "Joe's Bakery Fresh sourdough baked every morning",
		MetaDescription: "Family bakery in Portland since 1987. Fresh bread daily.",
		Styles: models.StyleSignals{
			CSSVariables: map[string]string{"--brand-primary": "#c0392b"},
			ThemeColor:   "#ffffff",
			LogoURL:      "https://www.joes-bakery.com/logo.png",
		},
	}
}

func TestConsolidate_NoPages(t *testing.T) {
	_, err := newTestConsolidator().Consolidate(nil, extract.Entities{}, nil, "", RunInfo{SourceURL: "https://example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrNoPagesRendered))
}

func TestConsolidate_SparseInputStillSucceeds(t *testing.T) {
	page := models.SemanticPage{URL: "https://example.com/", Path: "/", RawText: "Hello"}
	dna, err := newTestConsolidator().Consolidate([]models.SemanticPage{page}, extract.Entities{}, nil, "", RunInfo{})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/", dna.SourceURL)
	assert.Equal(t, "Example", dna.BusinessName)
	assert.Equal(t, models.SparsitySparse, dna.Metadata.ContentSparsity)
	assert.Equal(t, 1, dna.Metadata.TotalPagesScraped)
	assert.False(t, dna.Metadata.VisionAnalysisComplete)
	assert.Equal(t, 0, dna.Metadata.ImagesAnalyzed)
	assert.Equal(t, 2, dna.Metadata.EstimatedTokens, "character fallback without a tokenizer")

	// empty lists are present, not nil
	assert.NotNil(t, dna.Services)
	assert.NotNil(t, dna.Testimonials)
	assert.NotNil(t, dna.BrandColors)
	assert.NotNil(t, dna.Images)
	assert.Nil(t, dna.Header.CallToAction)
}

func TestConsolidate_FullRecord(t *testing.T) {
	about := models.SemanticPage{
		URL:            "https://www.joes-bakery.com/about",
		Path:           "/about",
		SemanticIntent: models.IntentVisionMission,
		Paragraphs:     []string{"Our mission is simple: honest bread."},
		RawText:        strings.Repeat("a", 100),
	}
	cta := &models.NavItem{Label: "Order now", URL: "https://www.joes-bakery.com/order"}
	entities := extract.Entities{
		Services:     []models.ExtractedService{{Name: "Custom Cakes", Confidence: 0.8}},
		Testimonials: []models.ExtractedTestimonial{{Quote: "Best bread in town", Author: "Ann Lee", Confidence: 0.6}},
		Contact:      models.ContactInfo{Phone: "(503) 555-0100", Email: "hello@joes-bakery.com"},
		SocialLinks:  []models.SocialLink{{Platform: "instagram", URL: "https://instagram.com/joesbakery"}},
		Navigation:   []models.NavItem{{Label: "About", URL: "https://www.joes-bakery.com/about"}},
		CallToAction: cta,
		LegalLinks:   []models.NavItem{{Label: "Privacy Policy", URL: "https://www.joes-bakery.com/privacy"}},
		Copyright:    "© 2026 Joe's Bakery",
	}
	images := []models.EnrichedImage{
		{URL: "https://www.joes-bakery.com/a.jpg", Status: models.ImageStatusSuccess, DominantColors: []string{"#2e86c1"}},
		{URL: "https://www.joes-bakery.com/b.jpg", Status: models.ImageStatusFailure},
		{URL: "https://www.joes-bakery.com/c.jpg", Status: models.ImageStatusSkipped},
	}
	crawl := &models.CrawlResult{StopReason: models.StopMaxPages, Duration: 3 * time.Second}
	run := RunInfo{
		ID:             "run-1",
		Platform:       "wordpress",
		LogoPalette:    []string{"#f1c40f"},
		VisionComplete: false,
		Crawl:          crawl,
		Chunks:         []models.ContentChunk{{SourceURL: "https://www.joes-bakery.com/", Content: "x"}},
	}

	pages := []models.SemanticPage{homePage(), about}
	dna, err := newTestConsolidator().Consolidate(pages, entities, images, "", run)
	require.NoError(t, err)

	assert.Equal(t, "run-1", dna.ID)
	assert.Equal(t, "https://www.joes-bakery.com/", dna.SourceURL)
	assert.Equal(t, "Joe's Bakery", dna.BusinessName)
	assert.Equal(t, "Fresh sourdough baked every morning", dna.Tagline)
	assert.Equal(t, "Family bakery in Portland since 1987. Fresh bread daily.", dna.Description)
	assert.Equal(t, "wordpress", dna.Platform)
	assert.Equal(t, "https://www.joes-bakery.com/logo.png", dna.LogoURL)

	assert.Equal(t, []string{"#c0392b", "#f1c40f", "#2e86c1"}, dna.BrandColors)
	assert.Equal(t, models.SparsityModerate, dna.Metadata.ContentSparsity)
	assert.Equal(t, 2, dna.Metadata.TotalPagesScraped)
	assert.Equal(t, 1, dna.Metadata.ImagesAnalyzed)
	assert.Equal(t, models.StopMaxPages, dna.Metadata.CrawlStopReason)
	assert.Equal(t, 3*time.Second, dna.Metadata.CrawlDuration)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), dna.Metadata.ExtractedAt)
	assert.Len(t, dna.Chunks, 1)

	assert.Equal(t, "Joe's Bakery", dna.Header.BusinessName)
	assert.Equal(t, "(503) 555-0100", dna.Header.Phone)
	assert.Equal(t, dna.Navigation, dna.Header.Navigation)
	require.NotNil(t, dna.Header.CallToAction)
	assert.Equal(t, "Order now", dna.Header.CallToAction.Label)
	assert.Equal(t, entities.Contact, dna.Footer.Contact)
	assert.Equal(t, entities.SocialLinks, dna.Footer.SocialLinks)
	assert.Equal(t, entities.LegalLinks, dna.Footer.LegalLinks)
	assert.Equal(t, "© 2026 Joe's Bakery", dna.Footer.Copyright)

	// the record owns its lists
	entities.Services[0].Name = "changed"
	cta.Label = "changed"
	assert.Equal(t, "Custom Cakes", dna.Services[0].Name)
	assert.Equal(t, "Order now", dna.Header.CallToAction.Label)
}

func TestConsolidate_ConfidencesStayInRange(t *testing.T) {
	entities := extract.Entities{
		Services: []models.ExtractedService{{Name: "Catering", Confidence: 0.9}},
		FAQs:     []models.ExtractedFAQ{{Question: "Do you deliver?", Answer: "Yes", Confidence: 0.8}},
	}
	dna, err := newTestConsolidator().Consolidate([]models.SemanticPage{homePage()}, entities, nil, "", RunInfo{})
	require.NoError(t, err)
	for _, s := range dna.Services {
		assert.GreaterOrEqual(t, s.Confidence, 0.0)
		assert.LessOrEqual(t, s.Confidence, 1.0)
	}
	for _, f := range dna.FAQs {
		assert.GreaterOrEqual(t, f.Confidence, 0.0)
		assert.LessOrEqual(t, f.Confidence, 1.0)
	}
}

func TestBusinessName(t *testing.T) {
	withSiteName := homePage()
	withSiteName.SiteName = "Joe's Bakery & Café"
	noHeadings := models.SemanticPage{URL: "https://www.joes-bakery.com/"}

	tests := []struct {
		name  string
		pages []models.SemanticPage
		hint  string
		want  string
	}{
		{"hint wins", []models.SemanticPage{withSiteName}, "  Joe's  ", "Joe's"},
		{"site metadata before heading", []models.SemanticPage{withSiteName}, "", "Joe's Bakery & Café"},
		{"site metadata on a later page", []models.SemanticPage{homePage(), withSiteName}, "", "Joe's Bakery & Café"},
		{"first heading", []models.SemanticPage{homePage()}, "", "Joe's Bakery"},
		{"hostname fallback", []models.SemanticPage{noHeadings}, "", "Joes Bakery"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessName(tt.pages, tt.hint, "https://www.joes-bakery.com/"))
		})
	}
}

func TestNameFromHost(t *testing.T) {
	tests := map[string]string{
		"https://www.joes-bakery.co.uk/menu": "Joes Bakery",
		"http://acme.com":                    "Acme",
		"https://smith_and_sons.net":         "Smith And Sons",
		"not a url %%":                       "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, NameFromHost(in))
		})
	}
}

func TestTagline(t *testing.T) {
	slogan := []models.HiddenGem{
		{Type: models.GemAward, Text: "Best of Portland 2024"},
		{Type: models.GemSlogan, Text: "Bread worth waking up for"},
	}

	t.Run("second heading", func(t *testing.T) {
		assert.Equal(t, "Fresh sourdough baked every morning", Tagline(homePage(), "Joe's Bakery", nil))
	})

	t.Run("skips questions and short headings", func(t *testing.T) {
		home := homePage()
		home.Headings = []string{"Joe's Bakery", "Hungry?", "Why choose our bakery?", "Menu"}
		assert.Equal(t, "Bread worth waking up for", Tagline(home, "Joe's Bakery", slogan))
	})

	t.Run("meta description sentence", func(t *testing.T) {
		home := homePage()
		home.Headings = nil
		assert.Equal(t, "Family bakery in Portland since 1987", Tagline(home, "Joe's Bakery", nil))
	})

	t.Run("nothing usable", func(t *testing.T) {
		assert.Empty(t, Tagline(models.SemanticPage{}, "x", nil))
	})
}

func TestDescription(t *testing.T) {
	home := homePage()
	home.MetaDescription = ""
	mission := models.SemanticPage{SemanticIntent: models.IntentVisionMission, Paragraphs: []string{"  We believe in   slow bread. "}}

	assert.Equal(t, "We believe in slow bread.", Description([]models.SemanticPage{home, mission}))
	assert.Equal(t, "We bake bread, pastries and cakes in small batches.", Description([]models.SemanticPage{home}))
	assert.Equal(t, 300, utils.RuneLen(Description([]models.SemanticPage{{MetaDescription: strings.Repeat("é", 400)}})))
	assert.Empty(t, Description(nil))
}

func TestSparsity(t *testing.T) {
	tests := []struct {
		chars int
		want  models.ContentSparsity
	}{
		{0, models.SparsitySparse},
		{5000, models.SparsitySparse},
		{5001, models.SparsityModerate},
		{20000, models.SparsityModerate},
		{20001, models.SparsityRich},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sparsity(tt.chars, 20000, 5000), "chars=%d", tt.chars)
	}
}
