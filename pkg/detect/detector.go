// Package detect identifies the website builder or CMS a business site runs on.
package detect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

// Platform is a detected site builder or CMS
type Platform string

const (
	PlatformUnknown     Platform = ""
	PlatformWordPress   Platform = "wordpress"
	PlatformWix         Platform = "wix"
	PlatformSquarespace Platform = "squarespace"
	PlatformShopify     Platform = "shopify"
	PlatformWebflow     Platform = "webflow"
	PlatformGoDaddy     Platform = "godaddy"
	PlatformWeebly      Platform = "weebly"
	PlatformDuda        Platform = "duda"
)

// Detector matches page HTML against platform signatures
type Detector struct {
	log *logrus.Entry
}

// NewDetector creates a Detector
func NewDetector(log *logrus.Entry) *Detector {
	return &Detector{log: log}
}

// DetectPages returns the platform of the first page (in crawl order) that matches a
// signature. Builders stamp every page, so the home page usually decides.
func (d *Detector) DetectPages(pages []models.RenderedPage) Platform {
	for _, p := range pages {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
		if err != nil {
			d.log.WithField("url", p.URL).Debugf("Skipping platform detection: %v", err)
			continue
		}
		if platform := d.Detect(doc, p.HTML); platform != PlatformUnknown {
			d.log.WithFields(logrus.Fields{"url": p.URL, "platform": platform}).Info("Detected site platform")
			return platform
		}
	}
	return PlatformUnknown
}

// Detect checks a single parsed document; html is its serialized form
func (d *Detector) Detect(doc *goquery.Document, html string) Platform {
	htmlLower := strings.ToLower(html)
	for _, sig := range platformSignatures {
		if sig.Matches(doc, htmlLower) {
			return sig.Platform
		}
	}
	return PlatformUnknown
}
