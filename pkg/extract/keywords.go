package extract

import (
	"strings"
	"sync"
	"unicode"

	"github.com/cloudflare/ahocorasick"
)

// keywordSet matches a fixed dictionary against lowercased text in one pass.
// ahocorasick.Matcher keeps scratch state between calls, so Match is serialized.
type keywordSet struct {
	words     []string
	wholeWord bool
	mu        sync.Mutex
	matcher   *ahocorasick.Matcher
}

// newKeywordSet matches substrings
func newKeywordSet(words ...string) *keywordSet {
	return &keywordSet{words: words, matcher: ahocorasick.NewStringMatcher(words)}
}

// newWordSet matches whole words; a trailing * matches any word with that prefix ("install*")
func newWordSet(words ...string) *keywordSet {
	patterns := make([]string, len(words))
	for i, w := range words {
		if stem, ok := strings.CutSuffix(w, "*"); ok {
			patterns[i] = " " + stem
		} else {
			patterns[i] = " " + w + " "
		}
	}
	return &keywordSet{words: words, wholeWord: true, matcher: ahocorasick.NewStringMatcher(patterns)}
}

// wordText lowercases text, turns every non-alphanumeric run into one space and pads both ends
func wordText(text string) string {
	var b strings.Builder
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
			space = false
		} else if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// hits returns the distinct dictionary indexes found in text
func (k *keywordSet) hits(text string) []int {
	if text == "" {
		return nil
	}
	normalized := strings.ToLower(text)
	if k.wholeWord {
		normalized = wordText(text)
	}
	k.mu.Lock()
	found := k.matcher.Match([]byte(normalized))
	k.mu.Unlock()
	seen := make(map[int]bool, len(found))
	out := make([]int, 0, len(found))
	for _, i := range found {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}

// count is the number of distinct dictionary words present
func (k *keywordSet) count(text string) int {
	return len(k.hits(text))
}

// first returns the lowest dictionary index present, or -1
func (k *keywordSet) first(text string) int {
	best := -1
	for _, i := range k.hits(text) {
		if best == -1 || i < best {
			best = i
		}
	}
	return best
}

var (
	// formKeywords flag call-to-action and form copy that testimonial heuristics must skip
	formKeywords = newKeywordSet(
		"call us", "submit", "pricing", "schedule", "contact us", "sign up", "subscribe",
		"get a quote", "free estimate", "book now", "your email", "phone number",
		"send message", "required field", "learn more",
	)
	// formPhrases disqualify a candidate on a single hit
	formPhrases = newKeywordSet(
		"privacy policy", "terms of service", "terms and conditions", "all rights reserved",
		"cookie policy", "this site is protected by recaptcha",
	)
)

// isFormContent reports whether text reads like a form, CTA block or legal boilerplate
func isFormContent(text string) bool {
	return formKeywords.count(text) >= 2 || formPhrases.count(text) > 0
}
