package classify

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/config"
	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

var intentOrder = func() []string {
	order := make([]string, len(models.AllIntents))
	for i, intent := range models.AllIntents {
		order[i] = string(intent)
	}
	return order
}()

var toneOrder = func() []string {
	order := make([]string, len(models.AllTones))
	for i, tone := range models.AllTones {
		order[i] = string(tone)
	}
	return order
}()

// Classifier assigns intent, tone, key phrases and priority. It is stateless and safe
// for concurrent use.
type Classifier struct {
	scorer        Scorer
	intents       []Rule
	tones         []Rule
	maxKeyPhrases int
	log           *logrus.Entry
}

// NewClassifier builds a classifier over the default rule tables using the configured factors
func NewClassifier(h config.HeuristicsConfig, log *logrus.Entry) *Classifier {
	return &Classifier{
		scorer: Scorer{
			PathFactor:     h.PathFactor,
			TitleFactor:    h.TitleFactor,
			OccurrenceStep: h.OccurrenceStep,
			OccurrenceCap:  h.OccurrenceCap,
			BodyScanChars:  h.BodyScanChars,
		},
		intents:       intentTable,
		tones:         toneTable,
		maxKeyPhrases: h.MaxKeyPhrases,
		log:           log,
	}
}

// Classify scores one page
func (c *Classifier) Classify(page models.SemanticPage) models.Classification {
	body := pageBody(page)
	intent, confidence := c.intent(page, body)
	result := models.Classification{
		Intent:     intent,
		Confidence: confidence,
		Tone:       c.tone(body),
		KeyPhrases: KeyPhrases(body, c.maxKeyPhrases),
		Priority:   PriorityFor(intent),
	}
	c.log.WithFields(logrus.Fields{
		"url":        page.URL,
		"intent":     result.Intent,
		"confidence": result.Confidence,
		"tone":       result.Tone,
	}).Debug("Classified page")
	return result
}

// ClassifyAll returns classified copies of pages, preserving order
func (c *Classifier) ClassifyAll(pages []models.SemanticPage) []models.SemanticPage {
	out := make([]models.SemanticPage, len(pages))
	for i, p := range pages {
		out[i] = p.WithClassification(c.Classify(p))
	}
	return out
}

func (c *Classifier) intent(page models.SemanticPage, body string) (models.SemanticIntent, float64) {
	scores := c.scorer.Score(c.intents, Input{Path: page.Path, Title: page.Title, Body: body})
	winner, score := best(intentOrder, scores)
	if winner == "" {
		return models.IntentUnknown, 0
	}
	return models.SemanticIntent(winner), utils.Clamp01(score)
}

func (c *Classifier) tone(body string) models.EmotionalTone {
	winner, _ := best(toneOrder, Count(c.tones, body))
	if winner == "" {
		return models.ToneProfessional
	}
	return models.EmotionalTone(winner)
}

// PriorityFor maps an intent to its content priority
func PriorityFor(intent models.SemanticIntent) models.ContentPriority {
	switch intent {
	case models.IntentVisionMission, models.IntentServiceOffering, models.IntentSocialProof:
		return models.PriorityCritical
	case models.IntentTeamCulture, models.IntentOperational, models.IntentValueProposition:
		return models.PriorityImportant
	default:
		return models.PrioritySupplementary
	}
}

// KeyPhrases pulls distinctive phrases from text, deduplicated case-insensitively, at most limit
func KeyPhrases(text string, limit int) []string {
	seen := utils.NewStringSet()
	var phrases []string
	for _, re := range phrasePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			phrase := m[0]
			if len(m) > 1 && m[1] != "" {
				phrase = m[1]
			}
			if re == quotedPhraseRe {
				if n := utils.RuneLen(strings.TrimSpace(phrase)); n < minQuotedPhraseRunes || n > maxQuotedPhraseRunes {
					continue
				}
			}
			phrase = strings.Trim(utils.CleanText(phrase), " ,;:-")
			if phrase == "" || !seen.Add(utils.DedupeKey(phrase, 0)) {
				continue
			}
			phrases = append(phrases, phrase)
			if limit > 0 && len(phrases) >= limit {
				return phrases
			}
		}
	}
	return phrases
}

// pageBody is the text scanned for content rules: headings, paragraphs and list items
func pageBody(page models.SemanticPage) string {
	var b strings.Builder
	for _, group := range [][]string{page.Headings, page.Paragraphs, page.ListItems} {
		for _, s := range group {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}
	if b.Len() == 0 {
		return page.RawText
	}
	return b.String()
}
