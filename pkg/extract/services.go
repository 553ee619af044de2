package extract

import (
	"regexp"
	"strings"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	minServiceRunes = 3
	maxServiceRunes = 60
	maxServiceWords = 8
)

var servicePathRe = regexp.MustCompile(`(?i)/(services?|what-we-do|solutions|products|menu|offerings|treatments|pricing)(/|$)`)

var (
	// serviceWords mark a candidate as a likely service name
	serviceWords = newWordSet(
		"repair*", "install*", "maintenance", "clean*", "design*", "consult*", "treatment*",
		"therap*", "massage*", "facial*", "haircut*", "color*", "colour*", "catering", "deliver*",
		"cake*", "coaching", "training", "lesson*", "inspection*", "remodel*", "renovat*",
		"landscap*", "plumbing", "electrical", "roofing", "painting", "tax", "taxes",
		"accounting", "bookkeeping", "photography", "wedding*", "event*", "planning",
		"marketing", "development", "service*", "care", "removal", "replacement*",
		"detailing", "grooming", "boarding", "tutoring", "cutting",
	)
	// nonServiceWords are navigational, legal or marketing copy
	nonServiceWords = newWordSet(
		"home", "about*", "contact*", "privacy", "terms", "cookie*", "blog", "login", "log in",
		"sign up", "cart", "checkout", "faq*", "career*", "read more", "learn more", "click*",
		"copyright", "testimonial*", "review*", "gallery", "our team", "meet", "follow us",
		"subscribe", "newsletter", "call us", "get in touch", "why choose", "book now",
		"get a quote",
	)
	// genericHeadings name a list of services rather than a service
	genericHeadings = map[string]bool{
		"services": true, "our services": true, "services we offer": true, "what we do": true,
		"what we offer": true, "our work": true, "menu": true, "pricing": true, "overview": true,
		"products": true, "our products": true, "solutions": true,
	}
)

// Services lists service names from service pages: section headings with their first
// paragraph as description, then list items. When no page looks like a service page,
// every page is scanned but only candidates containing a service word are kept.
func Services(pages []models.SemanticPage, limit int) []models.ExtractedService {
	var servicePages []models.SemanticPage
	for _, p := range pages {
		if p.SemanticIntent == models.IntentServiceOffering || servicePathRe.MatchString(p.Path) {
			servicePages = append(servicePages, p)
		}
	}
	strict := false
	if len(servicePages) == 0 {
		servicePages, strict = pages, true
	}

	seen := utils.NewStringSet()
	var out []models.ExtractedService
	add := func(name, description, source string, fromHeading bool) bool {
		name = strings.Trim(utils.CleanText(name), " :-–—•·")
		if !plausibleServiceName(name) {
			return false
		}
		hasServiceWord := serviceWords.count(name) > 0
		if strict && !hasServiceWord {
			return false
		}
		if !seen.Add(strings.ToLower(name)) {
			return false
		}
		confidence := 0.5
		if hasServiceWord {
			confidence += 0.2
		}
		if description != "" {
			confidence += 0.1
		}
		if fromHeading {
			confidence += 0.1
		}
		out = append(out, models.ExtractedService{
			Name:        name,
			Description: description,
			SourceURL:   source,
			Confidence:  utils.Clamp01(confidence),
		})
		return limit > 0 && len(out) >= limit
	}

	for _, page := range servicePages {
		for _, s := range page.Sections {
			if s.Level < 2 {
				continue
			}
			description := ""
			if len(s.Paragraphs) > 0 {
				description = s.Paragraphs[0]
			}
			if add(s.Heading, description, page.URL, true) {
				return out
			}
		}
		for _, item := range page.ListItems {
			if add(item, "", page.URL, false) {
				return out
			}
		}
	}
	return out
}

func plausibleServiceName(name string) bool {
	n := utils.RuneLen(name)
	if n < minServiceRunes || n > maxServiceRunes {
		return false
	}
	if len(strings.Fields(name)) > maxServiceWords {
		return false
	}
	if strings.ContainsAny(name, "?!@") || strings.HasSuffix(name, ".") {
		return false
	}
	if strings.HasPrefix(strings.ToLower(name), "http") {
		return false
	}
	if genericHeadings[strings.ToLower(name)] {
		return false
	}
	// "Home Cleaning" is a service even though "home" is a nav label
	return nonServiceWords.count(name) == 0 || serviceWords.count(name) > 0
}
