package extract

import (
	"regexp"
	"strings"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// OCRText is the text read from one image
type OCRText struct {
	Source string
	Lines  []string
}

type gemRule struct {
	Type       models.HiddenGemType
	Pattern    *regexp.Regexp
	Confidence float64
	Display    string
}

// gemRules are independent; each may emit several gems from the same text
var gemRules = []gemRule{
	{
		Type:       models.GemFoundingDate,
		Pattern:    regexp.MustCompile(`(?i)\b(?:since|est\.?|established|founded(?:\s+in)?)\s+(?:in\s+)?(?:1[89]\d{2}|20\d{2})\b`),
		Confidence: 0.9,
		Display:    "hero_badge",
	},
	{
		Type:       models.GemAward,
		Pattern:    regexp.MustCompile(`(?i)\b(?:award[- ]winning|winner of|voted\s+(?:#\s?1|best|number one)|best of|(?:19|20)\d{2}\s+award|readers'? choice)[^.!\n]{0,60}`),
		Confidence: 0.8,
		Display:    "trust_bar",
	},
	{
		Type:       models.GemCertification,
		Pattern:    regexp.MustCompile(`(?i)\b(?:certified|licensed(?:\s+(?:&|and)\s+insured)?|accredited|bonded|iso\s?\d{3,5}|bbb\s+a\+?)\b[^.!\n]{0,50}`),
		Confidence: 0.8,
		Display:    "trust_bar",
	},
	{
		Type:       models.GemStatistic,
		Pattern:    regexp.MustCompile(`(?i)(?:\b|^)\d[\d,.]*\s?(?:\+|k\+?)?\s*(?:%|percent\b|years?\b|customers\b|clients\b|projects\b|homes\b|reviews\b|jobs\b|happy\b)[^.!\n]{0,40}`),
		Confidence: 0.7,
		Display:    "stats_section",
	},
	{
		Type:       models.GemLocationDetail,
		Pattern:    regexp.MustCompile(`(?i)\b(?:proudly serving|serving|located in|locally owned in|family owned in|locations? in)\s+[^.!\n]{3,60}`),
		Confidence: 0.6,
		Display:    "contact_section",
	},
	{
		Type:       models.GemSlogan,
		Pattern:    regexp.MustCompile(`(?m)^\s*[A-Z][^.?!\n]{8,60}!\s*$`),
		Confidence: 0.5,
		Display:    "hero_tagline",
	},
}

// HiddenGems runs every gem rule over OCR text and keeps each text once (case-insensitive)
func HiddenGems(images []OCRText, limit int) []models.HiddenGem {
	seen := utils.NewStringSet()
	var out []models.HiddenGem
	for _, img := range images {
		text := strings.Join(img.Lines, "\n")
		for _, rule := range gemRules {
			for _, m := range rule.Pattern.FindAllString(text, -1) {
				gemText := strings.Trim(utils.CleanText(m), " ,;:-–—")
				if utils.RuneLen(gemText) < 4 || !seen.Add(utils.DedupeKey(gemText, 0)) {
					continue
				}
				out = append(out, models.HiddenGem{
					Type:              rule.Type,
					Text:              gemText,
					Source:            img.Source,
					Confidence:        rule.Confidence,
					DisplaySuggestion: rule.Display,
				})
				if limit > 0 && len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}
