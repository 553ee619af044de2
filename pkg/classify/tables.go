package classify

import (
	"regexp"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

func intentRules(intent models.SemanticIntent, weight float64, paths []string, content []string) []Rule {
	rules := pathRules(string(intent), weight, paths...)
	return append(rules, contentRules(string(intent), weight, content...)...)
}

// intentTable is evaluated in models.AllIntents order for tie-breaks
var intentTable = concat(
	intentRules(models.IntentVisionMission, 1.0,
		[]string{`(?i)/(about|about-us|our-story|story|mission|vision|values|who-we-are)(/|$)`},
		[]string{`(?i)\bour (mission|vision|story|values|purpose)\b`, `(?i)\b(founded|established) in\b`, `(?i)\bwho we are\b`}),
	intentRules(models.IntentValueProposition, 0.9,
		[]string{`(?i)/(why-us|why-choose-us|benefits|advantages|difference)(/|$)`},
		[]string{`(?i)\bwhy (choose|us)\b`, `(?i)\b(guarantee[ds]?|satisfaction|trusted by|the difference)\b`, `(?i)\b(affordable|quality|reliable|best in)\b`}),
	intentRules(models.IntentServiceOffering, 1.0,
		[]string{`(?i)/(services?|what-we-do|solutions|products|menu|offerings|treatments|pricing)(/|$)`},
		[]string{`(?i)\bour (services|products|solutions|menu|offerings)\b`, `(?i)\bwe (offer|provide|specialize in)\b`, `(?i)\b(service|installation|repair|consultation|treatment)s?\b`}),
	intentRules(models.IntentTeamCulture, 0.9,
		[]string{`(?i)/(team|our-team|staff|people|leadership|careers|jobs)(/|$)`},
		[]string{`(?i)\b(meet (the|our) team|our (team|staff|people))\b`, `(?i)\b(founder|owner|ceo|director|manager|technician)\b`, `(?i)\b(join (us|our team)|careers?)\b`}),
	intentRules(models.IntentSocialProof, 1.0,
		[]string{`(?i)/(testimonials?|reviews?|case-studies|clients|portfolio|gallery)(/|$)`},
		[]string{`(?i)\b(testimonials?|reviews?|what (our|people) (clients|customers) say)\b`, `(?i)\b(\d(\.\d)? stars?|★)`, `(?i)\b(highly recommend|happy (customers|clients))\b`}),
	intentRules(models.IntentOperational, 0.8,
		[]string{`(?i)/(contact|contact-us|location|locations|hours|directions|book|booking|appointments?)(/|$)`},
		[]string{`(?i)\b(contact us|get in touch|call us|visit us)\b`, `(?i)\b(hours|open|closed|monday|saturday|sunday)\b`, `(?i)\b(address|directions|parking|appointment)\b`}),
	intentRules(models.IntentEducational, 0.7,
		[]string{`(?i)/(blog|news|articles?|resources|faqs?|guides?|learn|tips)(/|$)`},
		[]string{`(?i)\b(how to|tips|guide|learn|faq|frequently asked)\b`, `(?im)^\s*(what|how|why)\b`}),
	intentRules(models.IntentLegal, 0.6,
		[]string{`(?i)/(privacy|privacy-policy|terms|terms-of-service|legal|cookies?|accessibility|disclaimer)(/|$)`},
		[]string{`(?i)\b(privacy policy|terms (of service|and conditions)|cookie policy|disclaimer)\b`, `(?i)\b(liability|governing law|personal data)\b`}),
	intentRules(models.IntentPromotional, 0.7,
		[]string{`(?i)/(specials?|offers?|deals|promotions?|coupons?|sale)(/|$)`},
		[]string{`(?i)\b(\d+% off|special offer|limited time|discount|coupon|free (quote|estimate|consultation))\b`, `(?i)\b(book now|order now|sign up today)\b`}),
)

// toneTable counts voice markers; professional doubles as the fallback
var toneTable = concat(
	contentRules(string(models.ToneLuxury), 1,
		`(?i)\b(luxur(y|ious)|exclusive|bespoke|premium|elegant|exquisite|curated|refined)\b`),
	contentRules(string(models.ToneAuthoritative), 1,
		`(?i)\b(industry[- ]leading|expert(s|ise)?|certified|licensed|proven|leading|accredited)\b`,
		`(?i)\b\d+\+? years\b`),
	contentRules(string(models.ToneFriendly), 1,
		`(?i)\b(welcome|family|friendly|community|neighbou?rs?|love|care|warm)\b`),
	contentRules(string(models.ToneCasual), 1,
		`(?i)\b(hey|awesome|cool|fun|stuff|grab|chill|yummy)\b`, `!{1,}`),
	contentRules(string(models.ToneProfessional), 1,
		`(?i)\b(professional|solutions|clients|services|efficient|reliable|commitment|excellence)\b`),
)

// quotedPhraseRe consumes quote pairs left to right; length is checked after matching
var quotedPhraseRe = regexp.MustCompile(`["“]([^"“”\n]*)["”]`)

const (
	minQuotedPhraseRunes = 10
	maxQuotedPhraseRunes = 100
)

// phrasePatterns capture the first group when present, otherwise the whole match
var phrasePatterns = []*regexp.Regexp{
	quotedPhraseRe,
	regexp.MustCompile(`(?i)\bwe (?:are|offer|provide|believe|specialize in|deliver)\b[^.!?\n]{3,100}`),
	regexp.MustCompile(`(?i)\b(?:over |more than )?\d{1,3}\+?\s+years?\s+of\s+(?:experience|service|expertise)\b`),
	regexp.MustCompile(`(?i)\b(?:award[- ]winning|certified|accredited|licensed and insured|winner of)\b[^.!?\n]{0,80}`),
}

func concat(tables ...[]Rule) []Rule {
	var all []Rule
	for _, t := range tables {
		all = append(all, t...)
	}
	return all
}
