// Package extract pulls structured business entities (services, testimonials, team, FAQs,
// hidden gems, contact details, social links, navigation and brand colors) out of
// classified pages and enriched images. Every extractor is a pure function of its input.
package extract

import (
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/config"
	"github.com/Sriram-PR/bizdna/pkg/models"
)

// Entities is everything the extractors found across one run
type Entities struct {
	Services     []models.ExtractedService
	Testimonials []models.ExtractedTestimonial
	TeamMembers  []models.ExtractedTeamMember
	FAQs         []models.ExtractedFAQ
	HiddenGems   []models.HiddenGem
	Contact      models.ContactInfo
	SocialLinks  []models.SocialLink
	Navigation   []models.NavItem
	CallToAction *models.NavItem
	LegalLinks   []models.NavItem
	Copyright    string
}

// Extractors holds the per-entity caps
type Extractors struct {
	cfg config.HeuristicsConfig
	log *logrus.Entry
}

// New creates the extractor set
func New(cfg config.HeuristicsConfig, log *logrus.Entry) *Extractors {
	return &Extractors{cfg: cfg, log: log}
}

// ExtractAll runs every page and image extractor. pages must be in crawl order; the first
// page is treated as the home page.
func (x *Extractors) ExtractAll(pages []models.SemanticPage, images []models.EnrichedImage) Entities {
	var ocr []OCRText
	for _, img := range images {
		if len(img.ExtractedText) > 0 {
			ocr = append(ocr, OCRText{Source: img.URL, Lines: img.ExtractedText})
		}
	}

	e := Entities{
		Services:     Services(pages, x.cfg.MaxServices),
		Testimonials: Testimonials(pages, x.cfg.MaxTestimonials),
		TeamMembers:  TeamMembers(pages, x.cfg.MaxTeamMembers),
		FAQs:         FAQs(pages, x.cfg.MaxFAQs),
		HiddenGems:   HiddenGems(ocr, x.cfg.MaxHiddenGems),
		Contact:      Contact(pages),
		SocialLinks:  SocialLinks(pages),
		Navigation:   Navigation(pages, x.cfg.MaxNavItems),
		CallToAction: CallToAction(pages),
		LegalLinks:   LegalLinks(pages),
		Copyright:    Copyright(pages),
	}
	x.log.WithFields(logrus.Fields{
		"services":     len(e.Services),
		"testimonials": len(e.Testimonials),
		"team_members": len(e.TeamMembers),
		"faqs":         len(e.FAQs),
		"hidden_gems":  len(e.HiddenGems),
		"social_links": len(e.SocialLinks),
		"navigation":   len(e.Navigation),
	}).Info("Entity extraction complete")
	return e
}

func capped[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
