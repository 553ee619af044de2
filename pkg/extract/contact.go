package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

var (
	phoneRe   = regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]\d{4}\b`)
	emailRe   = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)
	addressRe = regexp.MustCompile(`\b\d{1,6}\s+(?:[A-Z0-9][A-Za-z0-9.'-]*\s+){1,5}` +
		`(?:St|Street|Ave|Avenue|Rd|Road|Blvd|Boulevard|Dr|Drive|Ln|Lane|Way|Ct|Court|Pl|Place|Hwy|Highway|Pkwy|Parkway|Sq|Square)\b\.?` +
		`(?:,?\s*(?:Suite|Ste\.?|Unit|#)\s*[A-Za-z0-9-]+)?` +
		`(?:,\s*[A-Z][A-Za-z .'-]{1,30})?(?:,\s*[A-Z]{2})?(?:\s+\d{5}(?:-\d{4})?)?`)
	dayRange = `(?:mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)[a-z]*\.?`
	timeSpec = `\d{1,2}(?::\d{2})?\s*(?:am|pm|a\.m\.|p\.m\.)`
	hoursRe  = regexp.MustCompile(`(?i)\b` + dayRange + `(?:\s*(?:-|–|to|through)\s*` + dayRange + `)?\s*:?\s*` +
		timeSpec + `\s*(?:-|–|to)\s*` + timeSpec +
		`(?:[,;\s]+` + dayRange + `(?:\s*(?:-|–|to)\s*` + dayRange + `)?\s*:?\s*(?:` + timeSpec + `\s*(?:-|–|to)\s*` + timeSpec + `|closed))*`)
	ignoredEmailRe = regexp.MustCompile(`(?i)(\.(png|jpe?g|gif|webp|svg)$|@(example|sentry|wixpress|domain)\.)`)
)

// Contact returns the first phone, email, address and hours found. tel:/mailto: links win
// over text; the home page and footers are read before contact pages and the rest.
func Contact(pages []models.SemanticPage) models.ContactInfo {
	var info models.ContactInfo
	ordered := contactOrder(pages)

	for _, page := range ordered {
		for _, l := range page.Links {
			lower := strings.ToLower(l.URL)
			switch {
			case info.Phone == "" && strings.HasPrefix(lower, "tel:"):
				info.Phone = cleanPhone(l.URL[len("tel:"):])
			case info.Email == "" && strings.HasPrefix(lower, "mailto:"):
				addr := l.URL[len("mailto:"):]
				if i := strings.IndexByte(addr, '?'); i >= 0 {
					addr = addr[:i]
				}
				if unescaped, err := url.PathUnescape(addr); err == nil {
					addr = unescaped
				}
				if emailRe.MatchString(addr) {
					info.Email = strings.ToLower(strings.TrimSpace(addr))
				}
			}
		}
	}

	for _, page := range ordered {
		for _, text := range []string{page.FooterText, page.RawText} {
			if text == "" {
				continue
			}
			if info.Phone == "" {
				info.Phone = cleanPhone(phoneRe.FindString(text))
			}
			if info.Email == "" {
				for _, e := range emailRe.FindAllString(text, -1) {
					if !ignoredEmailRe.MatchString(e) {
						info.Email = strings.ToLower(e)
						break
					}
				}
			}
			if info.Address == "" {
				info.Address = utils.CleanText(addressRe.FindString(text))
			}
			if info.Hours == "" {
				info.Hours = utils.CleanText(hoursRe.FindString(text))
			}
		}
		if info.Phone != "" && info.Email != "" && info.Address != "" && info.Hours != "" {
			break
		}
	}
	return info
}

// contactOrder puts the home page first, then operational pages, then the rest in crawl order
func contactOrder(pages []models.SemanticPage) []models.SemanticPage {
	if len(pages) == 0 {
		return nil
	}
	ordered := []models.SemanticPage{pages[0]}
	var rest []models.SemanticPage
	for _, p := range pages[1:] {
		if p.SemanticIntent == models.IntentOperational {
			ordered = append(ordered, p)
		} else {
			rest = append(rest, p)
		}
	}
	return append(ordered, rest...)
}

func cleanPhone(s string) string {
	s = strings.TrimSpace(s)
	if unescaped, err := url.PathUnescape(s); err == nil {
		s = unescaped
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 7 || digits > 15 {
		return ""
	}
	return s
}
