package classify

import (
	"io"
	"regexp"
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

func testClassifier() *Classifier {
	return NewClassifier(config.HeuristicsConfig{
		PathFactor:     0.5,
		TitleFactor:    0.2,
		OccurrenceStep: 0.1,
		OccurrenceCap:  0.3,
		BodyScanChars:  2000,
		MaxKeyPhrases:  10,
	}, testLogger())
}

var defaultScorer = Scorer{PathFactor: 0.5, TitleFactor: 0.2, OccurrenceStep: 0.1, OccurrenceCap: 0.3, BodyScanChars: 2000}

func TestScorer_Score(t *testing.T) {
	rules := []Rule{
		{Target: "a", Field: FieldPath, Pattern: regexp.MustCompile(`^/a`), Weight: 1},
		{Target: "a", Field: FieldContent, Pattern: regexp.MustCompile(`foo`), Weight: 1},
		{Target: "b", Field: FieldContent, Pattern: regexp.MustCompile(`bar`), Weight: 0.5},
	}

	t.Run("all components", func(t *testing.T) {
		scores := defaultScorer.Score(rules, Input{Path: "/a/x", Title: "foo", Body: "foo foo foo foo"})
		assert.InDelta(t, 1.0, scores["a"], 1e-9)
		_, ok := scores["b"]
		assert.False(t, ok)
	})

	t.Run("occurrences are capped", func(t *testing.T) {
		scores := defaultScorer.Score(rules, Input{Body: "bar bar bar bar bar bar"})
		assert.InDelta(t, 0.15, scores["b"], 1e-9)
	})

	t.Run("path only", func(t *testing.T) {
		scores := defaultScorer.Score(rules, Input{Path: "/about"})
		assert.Empty(t, scores)
		scores = defaultScorer.Score(rules, Input{Path: "/a"})
		assert.InDelta(t, 0.5, scores["a"], 1e-9)
	})

	t.Run("body scan limit", func(t *testing.T) {
		s := defaultScorer
		s.BodyScanChars = 10
		scores := s.Score(rules, Input{Body: "xxxxxxxxxxfoo"})
		assert.Empty(t, scores)
	})
}

func TestBest_TieGoesToEarliest(t *testing.T) {
	winner, score := best([]string{"x", "y", "z"}, map[string]float64{"z": 0.4, "y": 0.4})
	assert.Equal(t, "y", winner)
	assert.InDelta(t, 0.4, score, 1e-9)

	winner, _ = best([]string{"x"}, map[string]float64{})
	assert.Empty(t, winner)
}

func TestClassify_Intent(t *testing.T) {
	c := testClassifier()
	tests := []struct {
		name       string
		page       models.SemanticPage
		intent     models.SemanticIntent
		confidence float64
		priority   models.ContentPriority
	}{
		{
			name: "about page",
			page: models.SemanticPage{
				Path:       "/about",
				Title:      "About Us",
				Paragraphs: []string{"Our mission is simple. Founded in 1990 by two sisters."},
			},
			intent:     models.IntentVisionMission,
			confidence: 0.7,
			priority:   models.PriorityCritical,
		},
		{
			name: "services page saturates",
			page: models.SemanticPage{
				Path:       "/services",
				Title:      "Our Services",
				Headings:   []string{"Our Services"},
				Paragraphs: []string{"We offer repair and installation for every home."},
			},
			intent:     models.IntentServiceOffering,
			confidence: 1.0,
			priority:   models.PriorityCritical,
		},
		{
			name: "contact page",
			page: models.SemanticPage{
				Path:       "/contact-us",
				Title:      "Reach out",
				Paragraphs: []string{"Call us or visit us at our address."},
			},
			intent:     models.IntentOperational,
			confidence: 0.8 * (0.5 + 0.3),
			priority:   models.PriorityImportant,
		},
		{
			name: "privacy page",
			page: models.SemanticPage{
				Path:  "/privacy-policy",
				Title: "Privacy Policy",
			},
			intent:     models.IntentLegal,
			confidence: 0.6 * 0.7,
			priority:   models.PrioritySupplementary,
		},
		{
			name: "nothing matches",
			page: models.SemanticPage{
				Path:       "/xyz",
				Title:      "Hello",
				Paragraphs: []string{"Lorem ipsum dolor sit amet."},
			},
			intent:     models.IntentUnknown,
			confidence: 0,
			priority:   models.PrioritySupplementary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.page)
			assert.Equal(t, tt.intent, got.Intent)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.priority, got.Priority)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestIntentTable_QuestionLines(t *testing.T) {
	body := "Frozen pipes in winter\nWhat causes a slow leak?\n  How do I stop a dripping tap?\nCall the shop"
	counts := Count(intentTable, body)
	assert.InDelta(t, 2*0.7, counts[string(models.IntentEducational)], 1e-9)
}

func TestClassify_Tone(t *testing.T) {
	c := testClassifier()
	tests := []struct {
		name string
		text string
		want models.EmotionalTone
	}{
		{"friendly", "Welcome to our family bakery, we love our community.", models.ToneFriendly},
		{"tie goes to luxury", "Luxurious bespoke cakes. Welcome, family.", models.ToneLuxury},
		{"authoritative", "Certified experts with 30 years in the trade.", models.ToneAuthoritative},
		{"no markers defaults to professional", "Lorem ipsum dolor sit amet.", models.ToneProfessional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(models.SemanticPage{Paragraphs: []string{tt.text}})
			assert.Equal(t, tt.want, got.Tone)
		})
	}
}

func TestKeyPhrases(t *testing.T) {
	text := `We offer custom cakes for every occasion. "The best cakes in town, hands down" said Sam. ` +
		`With 25 years of experience we are award-winning bakers. "The best cakes in town, hands down"`

	phrases := KeyPhrases(text, 10)
	assert.Contains(t, phrases, "The best cakes in town, hands down")
	assert.Contains(t, phrases, "We offer custom cakes for every occasion")
	assert.Contains(t, phrases, "we are award-winning bakers")
	assert.Contains(t, phrases, "25 years of experience")
	assert.Contains(t, phrases, "award-winning bakers")

	count := 0
	for _, p := range phrases {
		if p == "The best cakes in town, hands down" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	assert.Len(t, KeyPhrases(text, 2), 2)
	assert.Empty(t, KeyPhrases("nothing to see", 10))
}

func TestKeyPhrases_QuotePairs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "text between two short quotes",
			text: `She said "Hi" and then we left the shop before he said "Bye" to us.`,
			want: nil,
		},
		{
			name: "short quote then a long one",
			text: `He said "Hi" and later wrote "Fresh bread every single morning" on the board.`,
			want: []string{"Fresh bread every single morning"},
		},
		{
			name: "curly quotes",
			text: `Our motto: “Baked with patience since day one” and “Yes”.`,
			want: []string{"Baked with patience since day one"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyPhrases(tt.text, 10))
		})
	}
}

func TestPriorityFor(t *testing.T) {
	want := map[models.SemanticIntent]models.ContentPriority{
		models.IntentVisionMission:    models.PriorityCritical,
		models.IntentServiceOffering:  models.PriorityCritical,
		models.IntentSocialProof:      models.PriorityCritical,
		models.IntentTeamCulture:      models.PriorityImportant,
		models.IntentOperational:      models.PriorityImportant,
		models.IntentValueProposition: models.PriorityImportant,
		models.IntentEducational:      models.PrioritySupplementary,
		models.IntentLegal:            models.PrioritySupplementary,
		models.IntentPromotional:      models.PrioritySupplementary,
		models.IntentUnknown:          models.PrioritySupplementary,
	}
	for intent, priority := range want {
		assert.Equal(t, priority, PriorityFor(intent), string(intent))
	}
}

func TestClassifyAll_PreservesOrderAndInput(t *testing.T) {
	pages := []models.SemanticPage{
		{URL: "https://a.test/", Path: "/"},
		{URL: "https://a.test/about", Path: "/about"},
	}
	out := testClassifier().ClassifyAll(pages)
	require.Len(t, out, 2)
	assert.Equal(t, "https://a.test/", out[0].URL)
	assert.Equal(t, models.IntentVisionMission, out[1].SemanticIntent)
	assert.Empty(t, pages[1].SemanticIntent)
}
