// Package classify labels SemanticPages with intent, tone, key phrases and priority
// using data-driven rule tables and one generic scorer.
package classify

import (
	"regexp"

	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// Field is the page field a rule is evaluated against
type Field int

const (
	// FieldPath rules match the URL path
	FieldPath Field = iota
	// FieldContent rules match the title and are counted in the body
	FieldContent
)

// Rule is one weighted pattern voting for Target
type Rule struct {
	Target  string
	Field   Field
	Pattern *regexp.Regexp
	Weight  float64
}

// Input is the text a rule table is scored against
type Input struct {
	Path  string
	Title string
	Body  string
}

// Scorer turns rule hits into per-target scores.
//
//	score(t) = PathFactor*w      (any path rule of t matches the path)
//	         + TitleFactor*w     (any content rule of t matches the title)
//	         + min(n*OccurrenceStep, OccurrenceCap)*w
//
// where n counts content-rule matches of t in the first BodyScanChars characters of the body
// and w is the largest weight among t's rules that hit.
type Scorer struct {
	PathFactor     float64
	TitleFactor    float64
	OccurrenceStep float64
	OccurrenceCap  float64
	BodyScanChars  int
}

type targetHits struct {
	pathWeight  float64
	titleWeight float64
	bodyWeight  float64
	occurrences int
}

// Score evaluates every rule once and returns a score per target. Targets with no hits are absent.
func (s Scorer) Score(rules []Rule, in Input) map[string]float64 {
	body := in.Body
	if s.BodyScanChars > 0 {
		body = utils.TruncateRunes(body, s.BodyScanChars)
	}

	hits := make(map[string]*targetHits)
	get := func(target string) *targetHits {
		h, ok := hits[target]
		if !ok {
			h = &targetHits{}
			hits[target] = h
		}
		return h
	}

	for _, r := range rules {
		switch r.Field {
		case FieldPath:
			if in.Path != "" && r.Pattern.MatchString(in.Path) {
				h := get(r.Target)
				h.pathWeight = max(h.pathWeight, r.Weight)
			}
		case FieldContent:
			if in.Title != "" && r.Pattern.MatchString(in.Title) {
				h := get(r.Target)
				h.titleWeight = max(h.titleWeight, r.Weight)
			}
			if n := len(r.Pattern.FindAllStringIndex(body, -1)); n > 0 {
				h := get(r.Target)
				h.occurrences += n
				h.bodyWeight = max(h.bodyWeight, r.Weight)
			}
		}
	}

	scores := make(map[string]float64, len(hits))
	for target, h := range hits {
		score := s.PathFactor*h.pathWeight + s.TitleFactor*h.titleWeight
		if h.occurrences > 0 {
			score += min(float64(h.occurrences)*s.OccurrenceStep, s.OccurrenceCap) * h.bodyWeight
		}
		if score > 0 {
			scores[target] = score
		}
	}
	return scores
}

// Count sums weighted body matches per target, ignoring path rules and the scan limit
func Count(rules []Rule, text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, r := range rules {
		if r.Field != FieldContent {
			continue
		}
		if n := len(r.Pattern.FindAllStringIndex(text, -1)); n > 0 {
			counts[r.Target] += float64(n) * r.Weight
		}
	}
	return counts
}

// best returns the first target in order with the strictly highest positive score
func best(order []string, scores map[string]float64) (string, float64) {
	winner, top := "", 0.0
	for _, t := range order {
		if s := scores[t]; s > top {
			winner, top = t, s
		}
	}
	return winner, top
}

// pathRules and contentRules expand pattern lists into rules for one target
func pathRules(target string, weight float64, patterns ...string) []Rule {
	return compileRules(target, FieldPath, weight, patterns)
}

func contentRules(target string, weight float64, patterns ...string) []Rule {
	return compileRules(target, FieldContent, weight, patterns)
}

func compileRules(target string, field Field, weight float64, patterns []string) []Rule {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, Rule{Target: target, Field: field, Pattern: regexp.MustCompile(p), Weight: weight})
	}
	return rules
}
