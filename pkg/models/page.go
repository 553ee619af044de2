package models

import "strings"

// SemanticIntent labels the communicative purpose of a page
type SemanticIntent string

// Declaration order matters: ties in intent scoring go to the earlier intent
const (
	IntentVisionMission    SemanticIntent = "vision_mission"
	IntentValueProposition SemanticIntent = "value_proposition"
	IntentServiceOffering  SemanticIntent = "service_offering"
	IntentTeamCulture      SemanticIntent = "team_culture"
	IntentSocialProof      SemanticIntent = "social_proof"
	IntentOperational      SemanticIntent = "operational"
	IntentEducational      SemanticIntent = "educational"
	IntentLegal            SemanticIntent = "legal"
	IntentPromotional      SemanticIntent = "promotional"
	IntentUnknown          SemanticIntent = "unknown"
)

// AllIntents lists the scored intents in declaration order (unknown excluded)
var AllIntents = []SemanticIntent{
	IntentVisionMission,
	IntentValueProposition,
	IntentServiceOffering,
	IntentTeamCulture,
	IntentSocialProof,
	IntentOperational,
	IntentEducational,
	IntentLegal,
	IntentPromotional,
}

// EmotionalTone is the dominant voice of a page
type EmotionalTone string

const (
	ToneLuxury        EmotionalTone = "luxury"
	ToneAuthoritative EmotionalTone = "authoritative"
	ToneFriendly      EmotionalTone = "friendly"
	ToneCasual        EmotionalTone = "casual"
	ToneProfessional  EmotionalTone = "professional"
)

// AllTones is the fixed tie-break order for tone scoring
var AllTones = []EmotionalTone{ToneLuxury, ToneAuthoritative, ToneFriendly, ToneCasual, ToneProfessional}

// ContentPriority ranks how valuable a page is for downstream generation
type ContentPriority string

const (
	PriorityCritical      ContentPriority = "critical"
	PriorityImportant     ContentPriority = "important"
	PrioritySupplementary ContentPriority = "supplementary"
)

// LinkRegion is the part of the page a link was found in
type LinkRegion string

const (
	RegionNav    LinkRegion = "nav"
	RegionHeader LinkRegion = "header"
	RegionFooter LinkRegion = "footer"
	RegionBody   LinkRegion = "body"
)

// Link is an anchor found on a page
type Link struct {
	URL    string     `json:"url" yaml:"url"`
	Text   string     `json:"text" yaml:"text"`
	Region LinkRegion `json:"region" yaml:"region"`
}

// Section is a heading together with the content that follows it
type Section struct {
	Heading    string   `json:"heading" yaml:"heading"`
	Level      int      `json:"level" yaml:"level"`
	Paragraphs []string `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
	ListItems  []string `json:"list_items,omitempty" yaml:"list_items,omitempty"`
}

// Body joins the section paragraphs
func (s Section) Body() string {
	return strings.Join(s.Paragraphs, " ")
}

// QuoteBlock is a blockquote or testimonial-styled element
type QuoteBlock struct {
	Text    string `json:"text" yaml:"text"`
	Cite    string `json:"cite,omitempty" yaml:"cite,omitempty"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"` // text of the enclosing block
}

// ProfileCard is a person card (team, staff, bio)
type ProfileCard struct {
	Name     string `json:"name" yaml:"name"`
	Role     string `json:"role" yaml:"role"`
	Bio      string `json:"bio,omitempty" yaml:"bio,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// SemanticPage is the normalized, classified content of one rendered page.
// It is not modified after classification.
type SemanticPage struct {
	URL        string   `json:"url" yaml:"url"`
	Path       string   `json:"path" yaml:"path"`
	Title      string   `json:"title" yaml:"title"`
	Headings   []string `json:"headings,omitempty" yaml:"headings,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
	ListItems  []string `json:"list_items,omitempty" yaml:"list_items,omitempty"`
	RawText    string   `json:"raw_text" yaml:"raw_text"`

	SemanticIntent   SemanticIntent  `json:"semantic_intent" yaml:"semantic_intent"`
	IntentConfidence float64         `json:"intent_confidence" yaml:"intent_confidence"`
	EmotionalTone    EmotionalTone   `json:"emotional_tone" yaml:"emotional_tone"`
	KeyPhrases       []string        `json:"key_phrases,omitempty" yaml:"key_phrases,omitempty"`
	ContentPriority  ContentPriority `json:"content_priority" yaml:"content_priority"`

	MetaDescription string        `json:"meta_description,omitempty" yaml:"meta_description,omitempty"`
	SiteName        string        `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Markdown        string        `json:"-" yaml:"-"`
	Sections        []Section     `json:"-" yaml:"-"`
	Quotes          []QuoteBlock  `json:"-" yaml:"-"`
	Profiles        []ProfileCard `json:"-" yaml:"-"`
	Links           []Link        `json:"-" yaml:"-"`
	FooterText      string        `json:"-" yaml:"-"`
	ImageURLs       []string      `json:"image_urls,omitempty" yaml:"image_urls,omitempty"`
	Styles          StyleSignals  `json:"-" yaml:"-"`
	Depth           int           `json:"depth" yaml:"depth"`
}

// Classification is the output of the semantic classifier for one page
type Classification struct {
	Intent     SemanticIntent
	Confidence float64
	Tone       EmotionalTone
	KeyPhrases []string
	Priority   ContentPriority
}

// WithClassification returns a copy of the page carrying c
func (p SemanticPage) WithClassification(c Classification) SemanticPage {
	p.SemanticIntent = c.Intent
	p.IntentConfidence = c.Confidence
	p.EmotionalTone = c.Tone
	p.KeyPhrases = append([]string(nil), c.KeyPhrases...)
	p.ContentPriority = c.Priority
	return p
}
