package extract

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/bizdna/pkg/config"
	"github.com/Sriram-PR/bizdna/pkg/models"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func TestTeamMembers(t *testing.T) {
	pages := []models.SemanticPage{
		{
			URL: "https://a.test/",
			Profiles: []models.ProfileCard{
				{Name: "Ana Ruiz", Role: "Head Baker", Bio: "Ana has baked for twenty years.", ImageURL: "https://a.test/ana.jpg"},
				{Name: "Ben Ode"},
				{Name: "ANA RUIZ", Role: "Owner"},
				{Name: "Dee", Role: "Barista"},
				{Name: "Our Values", Role: "Honesty first"},
			},
		},
		{
			URL:  "https://a.test/team",
			Path: "/team",
			Sections: []models.Section{
				{Heading: "Meet the Team", Level: 1, Paragraphs: []string{"Friendly faces."}},
				{Heading: "Carl Diaz", Level: 3, Paragraphs: []string{"Pastry Chef", "Carl trained in Lyon."}},
				{Heading: "Our Values", Level: 2, Paragraphs: []string{"We care"}},
				{Heading: "Eve Moss", Level: 3},
			},
		},
		{
			URL:      "https://a.test/blog",
			Path:     "/blog",
			Sections: []models.Section{{Heading: "Fred Kim", Level: 2, Paragraphs: []string{"Guest author"}}},
		},
	}

	got := TeamMembers(pages, 10)
	require.Len(t, got, 3)
	assert.Equal(t, "Ana Ruiz", got[0].Name)
	assert.Equal(t, "Head Baker", got[0].Role)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)
	assert.Equal(t, "Dee", got[1].Name)
	assert.Equal(t, "Carl Diaz", got[2].Name)
	assert.Equal(t, "Pastry Chef", got[2].Role)
	assert.Equal(t, "Carl trained in Lyon.", got[2].Bio)
	assert.Equal(t, "https://a.test/team", got[2].SourceURL)

	assert.Len(t, TeamMembers(pages, 1), 1)
}

func TestFAQs(t *testing.T) {
	faqPage := models.SemanticPage{
		URL:  "https://a.test/faq",
		Path: "/faq",
		Sections: []models.Section{
			{Heading: "Do you deliver?", Level: 3, Paragraphs: []string{"Yes, within 10 miles."}},
			{Heading: "How long does an order take", Level: 3, Paragraphs: []string{"About two days."}},
			{Heading: "Our Story", Level: 2, Paragraphs: []string{"Founded by Ana."}},
			{Heading: "What about gluten?", Level: 3, ListItems: []string{"Gluten-free options", "Vegan options"}},
			{Heading: "Why us?", Level: 3},
		},
	}
	other := models.SemanticPage{
		URL:      "https://a.test/",
		Path:     "/",
		Sections: []models.Section{{Heading: "DO YOU DELIVER?", Level: 2, Paragraphs: []string{"We do."}}},
	}

	got := FAQs([]models.SemanticPage{faqPage, other}, 10)
	require.Len(t, got, 3)
	assert.Equal(t, "Do you deliver?", got[0].Question)
	assert.Equal(t, "Yes, within 10 miles.", got[0].Answer)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)
	assert.Equal(t, "How long does an order take", got[1].Question)
	assert.InDelta(t, 0.7, got[1].Confidence, 1e-9)
	assert.Equal(t, "Gluten-free options; Vegan options", got[2].Answer)
}

func TestServices(t *testing.T) {
	page := models.SemanticPage{
		URL:  "https://a.test/services",
		Path: "/services",
		Sections: []models.Section{
			{Heading: "Services", Level: 1},
			{Heading: "Our Services", Level: 2},
			{Heading: "Wedding Cakes", Level: 2, Paragraphs: []string{"Tiered cakes for your big day."}},
			{Heading: "Contact Us", Level: 2},
			{Heading: "Why choose us?", Level: 2},
		},
		ListItems: []string{
			"Custom birthday cakes",
			"Read more about our process and team history here today okay",
			"Privacy Policy",
			"wedding cakes",
		},
	}

	got := Services([]models.SemanticPage{page}, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "Wedding Cakes", got[0].Name)
	assert.Equal(t, "Tiered cakes for your big day.", got[0].Description)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)
	assert.Equal(t, "Custom birthday cakes", got[1].Name)
	assert.InDelta(t, 0.7, got[1].Confidence, 1e-9)
}

func TestServices_FallbackNeedsServiceWord(t *testing.T) {
	home := models.SemanticPage{
		URL:  "https://a.test/",
		Path: "/",
		Sections: []models.Section{
			{Heading: "Deep Cleaning", Level: 2},
			{Heading: "Welcome Friends", Level: 2},
		},
	}
	got := Services([]models.SemanticPage{home}, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "Deep Cleaning", got[0].Name)
}

func TestPlausibleServiceName(t *testing.T) {
	assert.True(t, plausibleServiceName("Home Cleaning"))
	assert.True(t, plausibleServiceName("Gutter Repair"))
	assert.False(t, plausibleServiceName("Home"))
	assert.False(t, plausibleServiceName("Our Services"))
	assert.False(t, plausibleServiceName("Learn More"))
	assert.False(t, plausibleServiceName("Is it safe?"))
	assert.False(t, plausibleServiceName("ab"))
}

func TestHiddenGems(t *testing.T) {
	images := []OCRText{
		{Source: "https://a.test/banner.jpg", Lines: []string{
			"Family owned since 1998",
			"Award-winning pastries",
			"Over 5,000 happy customers",
			"Licensed & Insured",
			"Proudly serving Austin and Round Rock",
			"Fresh Every Morning!",
		}},
		{Source: "https://a.test/sign.jpg", Lines: []string{"SINCE 1998"}},
	}

	got := HiddenGems(images, 15)
	require.Len(t, got, 6)

	byType := make(map[models.HiddenGemType]models.HiddenGem)
	for _, g := range got {
		byType[g.Type] = g
		assert.Equal(t, "https://a.test/banner.jpg", g.Source)
		assert.GreaterOrEqual(t, g.Confidence, 0.0)
		assert.LessOrEqual(t, g.Confidence, 1.0)
		assert.NotEmpty(t, g.DisplaySuggestion)
	}
	assert.Equal(t, "since 1998", byType[models.GemFoundingDate].Text)
	assert.Equal(t, "Award-winning pastries", byType[models.GemAward].Text)
	assert.Equal(t, "Licensed & Insured", byType[models.GemCertification].Text)
	assert.Equal(t, "5,000 happy customers", byType[models.GemStatistic].Text)
	assert.Equal(t, "Proudly serving Austin and Round Rock", byType[models.GemLocationDetail].Text)
	assert.Equal(t, "Fresh Every Morning!", byType[models.GemSlogan].Text)

	// a second pass over the same text adds nothing new
	again := HiddenGems(append(images, images...), 15)
	assert.Equal(t, got, again)

	assert.Len(t, HiddenGems(images, 2), 2)
	assert.Empty(t, HiddenGems(nil, 15))
}

func TestContact(t *testing.T) {
	home := models.SemanticPage{
		URL:     "https://a.test/",
		Links:   []models.Link{{URL: "tel:+1-512-555-0100", Text: "Call", Region: models.RegionFooter}},
		RawText: "Email hello@bakery.test. Visit 123 Main St, Austin, TX 78701. Open Mon-Fri 7am-6pm, Sat 8am - 2pm",
	}
	info := Contact([]models.SemanticPage{home})
	assert.Equal(t, "+1-512-555-0100", info.Phone)
	assert.Equal(t, "hello@bakery.test", info.Email)
	assert.Equal(t, "123 Main St, Austin, TX 78701", info.Address)
	assert.Equal(t, "Mon-Fri 7am-6pm, Sat 8am - 2pm", info.Hours)
	assert.False(t, info.IsEmpty())
}

func TestContact_OperationalPagesFirst(t *testing.T) {
	pages := []models.SemanticPage{
		{URL: "https://a.test/", RawText: "Welcome"},
		{URL: "https://a.test/blog", SemanticIntent: models.IntentEducational, RawText: "Call 512-555-1111 for the recipe"},
		{URL: "https://a.test/contact", SemanticIntent: models.IntentOperational, RawText: "Call 512-555-3333 today"},
	}
	assert.Equal(t, "512-555-3333", Contact(pages).Phone)
	assert.True(t, Contact(nil).IsEmpty())
}

func TestContact_MailtoAndIgnoredEmails(t *testing.T) {
	page := models.SemanticPage{
		RawText: "logo@2x.png sentry@sentry.example.com",
		Links:   []models.Link{{URL: "mailto:Orders@Bakery.test?subject=Hi", Region: models.RegionBody}},
	}
	assert.Equal(t, "orders@bakery.test", Contact([]models.SemanticPage{page}).Email)
}

func TestSocialLinks(t *testing.T) {
	page := models.SemanticPage{Links: []models.Link{
		{URL: "https://www.facebook.com/sharer/sharer.php?u=x"},
		{URL: "https://www.facebook.com/joesbakery"},
		{URL: "https://www.facebook.com/other"},
		{URL: "https://instagram.com/joes"},
		{URL: "https://x.com/joes"},
		{URL: "https://www.linkedin.com/company/joes"},
		{URL: "https://example.com/"},
	}}
	got := SocialLinks([]models.SemanticPage{page})
	require.Len(t, got, 4)
	assert.Equal(t, models.SocialLink{Platform: "facebook", URL: "https://www.facebook.com/joesbakery"}, got[0])
	assert.Equal(t, "instagram", got[1].Platform)
	assert.Equal(t, "twitter", got[2].Platform)
	assert.Equal(t, "linkedin", got[3].Platform)
}

func navLink(path, text string) models.Link {
	return models.Link{URL: "https://joes.test" + path, Text: text, Region: models.RegionNav}
}

func TestNavigation(t *testing.T) {
	home := models.SemanticPage{URL: "https://joes.test/", Links: []models.Link{
		navLink("/contact", "Contact"),
		navLink("/blog", "Blog"),
		navLink("/", "Home"),
		navLink("/about", "About Us"),
		navLink("/services", "Services"),
		navLink("/gallery", "Gallery"),
		navLink("/privacy", "Privacy"),
		{URL: "https://other.test/", Text: "Partner", Region: models.RegionNav},
		navLink("/shop", "Shop"),
		navLink("/", "Home"),
		navLink("/team", "Team"),
		navLink("/careers", "Careers"),
		{URL: "https://joes.test/footer-only", Text: "Footer", Region: models.RegionFooter},
	}}

	got := Navigation([]models.SemanticPage{home}, 6)
	labels := make([]string, len(got))
	for i, n := range got {
		labels[i] = n.Label
	}
	assert.Equal(t, []string{"Home", "About Us", "Services", "Shop", "Team", "Gallery"}, labels)
}

func TestNavigation_HeaderFallback(t *testing.T) {
	home := models.SemanticPage{URL: "https://joes.test/", Links: []models.Link{
		{URL: "https://joes.test/menu", Text: "Menu", Region: models.RegionHeader},
		{URL: "https://joes.test/x", Text: "Body link", Region: models.RegionBody},
	}}
	got := Navigation([]models.SemanticPage{home}, 6)
	require.Len(t, got, 1)
	assert.Equal(t, models.NavItem{Label: "Menu", URL: "https://joes.test/menu"}, got[0])
	assert.Empty(t, Navigation(nil, 6))
}

func TestCallToAction(t *testing.T) {
	home := models.SemanticPage{URL: "https://joes.test/", Links: []models.Link{
		{URL: "https://facebook.com/joes", Text: "Facebook", Region: models.RegionNav},
		{URL: "https://joes.test/order", Text: "Order Online", Region: models.RegionBody},
		navLink("/book", "Book a Table"),
	}}
	cta := CallToAction([]models.SemanticPage{home})
	require.NotNil(t, cta)
	assert.Equal(t, "Book a Table", cta.Label)

	assert.Nil(t, CallToAction([]models.SemanticPage{{URL: "https://joes.test/"}}))
}

func TestLegalLinksAndCopyright(t *testing.T) {
	pages := []models.SemanticPage{
		{
			Links: []models.Link{
				{URL: "https://joes.test/privacy-policy", Text: "Privacy Policy", Region: models.RegionFooter},
				{URL: "https://joes.test/terms", Text: "Terms", Region: models.RegionFooter},
				{URL: "https://joes.test/privacy", Text: "Privacy", Region: models.RegionNav},
				{URL: "https://joes.test/blog", Text: "Blog", Region: models.RegionFooter},
				{URL: "https://joes.test/accessibility", Region: models.RegionFooter},
			},
			FooterText: "Joe's Bakery 123 Main St © 2024 Joe's Bakery. All rights reserved. Privacy | Terms",
		},
		{
			Links: []models.Link{{URL: "https://joes.test/terms", Text: "Terms of Use", Region: models.RegionFooter}},
		},
	}

	legal := LegalLinks(pages)
	require.Len(t, legal, 3)
	assert.Equal(t, "Privacy Policy", legal[0].Label)
	assert.Equal(t, "Terms", legal[1].Label)
	assert.Equal(t, models.NavItem{Label: "accessibility", URL: "https://joes.test/accessibility"}, legal[2])

	assert.Equal(t, "© 2024 Joe's Bakery.", Copyright(pages))
	assert.Empty(t, Copyright(nil))
}

func TestExtractAll(t *testing.T) {
	cfg := config.HeuristicsConfig{MaxTestimonials: 8, MaxTeamMembers: 12, MaxFAQs: 12, MaxServices: 16, MaxHiddenGems: 15, MaxNavItems: 6}
	pages := []models.SemanticPage{{
		URL:   "https://joes.test/",
		Links: []models.Link{navLink("/about", "About")},
		Quotes: []models.QuoteBlock{
			{Text: longQuote, Cite: "Maria Lopez"},
		},
	}}
	images := []models.EnrichedImage{
		{URL: "https://joes.test/a.jpg", ExtractedText: []string{"Since 2001"}},
		{URL: "https://joes.test/b.jpg"},
	}

	e := New(cfg, testLogger()).ExtractAll(pages, images)
	assert.Len(t, e.Testimonials, 1)
	assert.Len(t, e.HiddenGems, 1)
	assert.Equal(t, "https://joes.test/a.jpg", e.HiddenGems[0].Source)
	assert.Len(t, e.Navigation, 1)
	assert.Empty(t, e.Services)
}
