package extract

import (
	"regexp"
	"strings"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

var (
	questionStartRe = regexp.MustCompile(`(?i)^(what|how|why)\b`)
	faqPathRe       = regexp.MustCompile(`(?i)/(faqs?|frequently-asked-questions|help|questions)(/|$)`)
)

const maxAnswerRunes = 1500

// FAQs pairs question-looking headings with the text that follows them
func FAQs(pages []models.SemanticPage, limit int) []models.ExtractedFAQ {
	seen := utils.NewStringSet()
	var out []models.ExtractedFAQ
	for _, page := range pages {
		onFAQPage := faqPathRe.MatchString(page.Path) || page.SemanticIntent == models.IntentEducational
		for _, s := range page.Sections {
			q := strings.TrimSpace(s.Heading)
			hasMark := strings.Contains(q, "?")
			if q == "" || (!hasMark && !questionStartRe.MatchString(q)) {
				continue
			}
			answer := s.Body()
			if answer == "" {
				answer = strings.Join(s.ListItems, "; ")
			}
			answer = utils.TruncateRunes(utils.CleanText(answer), maxAnswerRunes)
			if answer == "" {
				continue
			}
			if !seen.Add(strings.ToLower(q)) {
				continue
			}

			confidence := 0.6
			if hasMark {
				confidence += 0.2
			}
			if onFAQPage {
				confidence += 0.1
			}
			out = append(out, models.ExtractedFAQ{
				Question:   q,
				Answer:     answer,
				SourceURL:  page.URL,
				Confidence: utils.Clamp01(confidence),
			})
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}
