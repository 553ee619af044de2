package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	minQuoteRunes  = 50
	maxQuoteRunes  = 1000
	minAuthorRunes = 3
	maxAuthorRunes = 30
	quoteKeyRunes  = 50
)

var (
	// "Quote text..." - Jane Smith   or   "Quote text..." — Jane Smith, Portland
	// Quote pairs are consumed left to right so text between two quotations is never a quote.
	quotedSpanRe  = regexp.MustCompile(`["“]([^"“”]*)["”]`)
	attributionRe = regexp.MustCompile(`^\s*(?:[-–—~]\s*|by\s+)([A-Z][A-Za-z'’-]+\s+[A-Z][A-Za-z'’.-]*)`)
	// Quote text without quotes - Jane Smith (dash-separated, at end of block)
	dashQuoteRe = regexp.MustCompile(`^(.{50,1000}?)\s+[-–—~]\s*([A-Z][A-Za-z'’-]+\s+[A-Z][A-Za-z'’.-]*)\s*(?:[,|(].*)?$`)
	authorRe    = regexp.MustCompile(`^[A-Z][A-Za-z'’-]+\s+[A-Z][A-Za-z'’-]*\.?$`)
	starsRe     = regexp.MustCompile(`[★⭐]`)
	ratingRe    = regexp.MustCompile(`(?i)\b([1-5](?:\.\d)?)\s*(?:/\s*5|out of 5|stars?)\b`)

	placeholderAuthors = map[string]bool{
		"john doe": true, "jane doe": true, "joe bloggs": true,
		"anonymous": true, "a customer": true, "customer name": true, "client name": true, "your name": true,
		"first last": true, "full name": true, "happy customer": true, "lorem ipsum": true,
		"satisfied customer": true, "verified buyer": true,
	}
)

type testimonialCandidate struct {
	quote      string
	author     string
	context    string
	structured bool
}

// Testimonials finds quoted customer statements with a plausible named author.
// Duplicates are detected on the first 50 characters of the quote.
func Testimonials(pages []models.SemanticPage, limit int) []models.ExtractedTestimonial {
	seen := utils.NewStringSet()
	var out []models.ExtractedTestimonial

	for _, page := range pages {
		for _, c := range testimonialCandidates(page) {
			t, ok := validateTestimonial(c)
			if !ok {
				continue
			}
			if !seen.Add(utils.DedupeKey(t.Quote, quoteKeyRunes)) {
				continue
			}
			t.SourceURL = page.URL
			out = append(out, t)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

func testimonialCandidates(page models.SemanticPage) []testimonialCandidate {
	var cands []testimonialCandidate
	for _, q := range page.Quotes {
		quote, author := q.Text, cleanAuthor(q.Cite)
		if author == "" {
			if m := dashQuoteRe.FindStringSubmatch(q.Text); m != nil {
				quote, author = m[1], cleanAuthor(m[2])
			}
		}
		cands = append(cands, testimonialCandidate{quote: quote, author: author, context: q.Context, structured: true})
	}
	for _, p := range page.Paragraphs {
		cands = append(cands, inlineQuotes(p)...)
	}
	return cands
}

// inlineQuotes pairs each quoted span in p with an attribution directly after it.
// Length limits are left to validateTestimonial.
func inlineQuotes(p string) []testimonialCandidate {
	var cands []testimonialCandidate
	for _, loc := range quotedSpanRe.FindAllStringSubmatchIndex(p, -1) {
		m := attributionRe.FindStringSubmatch(p[loc[1]:])
		if m == nil {
			continue
		}
		cands = append(cands, testimonialCandidate{quote: p[loc[2]:loc[3]], author: cleanAuthor(m[1]), context: p})
	}
	return cands
}

func validateTestimonial(c testimonialCandidate) (models.ExtractedTestimonial, bool) {
	quote := strings.Trim(utils.CleanText(c.quote), `"“”'‘’ `)
	if n := utils.RuneLen(quote); n < minQuoteRunes || n > maxQuoteRunes {
		return models.ExtractedTestimonial{}, false
	}
	if !validAuthor(c.author) {
		return models.ExtractedTestimonial{}, false
	}
	context := c.context
	if context == "" {
		context = quote
	}
	if isFormContent(context) {
		return models.ExtractedTestimonial{}, false
	}

	t := models.ExtractedTestimonial{
		Quote:  quote,
		Author: c.author,
		Rating: rating(context),
	}
	confidence := 0.6
	if c.structured {
		confidence += 0.2
	}
	if t.Rating > 0 {
		confidence += 0.1
	}
	t.Confidence = utils.Clamp01(confidence)
	return t, true
}

// cleanAuthor strips dashes and trailing location/company from an attribution
func cleanAuthor(s string) string {
	s = utils.CleanText(s)
	s = strings.TrimLeft(s, "-–—~ ")
	if i := strings.IndexAny(s, ",|("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func validAuthor(name string) bool {
	n := utils.RuneLen(name)
	if n < minAuthorRunes || n > maxAuthorRunes {
		return false
	}
	if placeholderAuthors[strings.ToLower(name)] {
		return false
	}
	return authorRe.MatchString(name)
}

// rating reads a 1-5 star rating from glyphs or "4.5 stars" / "5/5" text
func rating(text string) int {
	if m := ratingRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return int(math.Round(v))
		}
	}
	if n := len(starsRe.FindAllString(text, -1)); n > 0 {
		return min(n, 5)
	}
	return 0
}
