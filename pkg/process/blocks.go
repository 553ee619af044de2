package process

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	quoteSelector   = "blockquote, [class*='testimonial'], [class*='review'], [class*='quote']"
	citeSelector    = "cite, figcaption, [class*='author'], [class*='name'], [class*='client'], [class*='cite']"
	profileSelector = "[class*='team-member'], [class*='team_member'], [class*='member'], [class*='staff'], " +
		"[class*='profile'], [class*='person'], [class*='employee'], [class*='bio']"
	nameSelector = "[class*='name'], h2, h3, h4, h5, strong"
	roleSelector = "[class*='role'], [class*='position'], [class*='job'], [class*='title'], em, small"

	maxRoleRunes = 80
	maxNameRunes = 60
	minBioRunes  = 40
)

var cardTags = map[string]bool{
	"blockquote": true, "div": true, "li": true, "article": true, "figure": true, "section": true, "aside": true,
}

// cards keeps block-level candidates that contain no other block-level candidate, so
// <section class="testimonials"> yields its cards, and <p class="testimonial-text"> inside
// a card is not a card itself
func cards(doc *goquery.Document, selector string) *goquery.Selection {
	isCard := func(_ int, s *goquery.Selection) bool {
		return cardTags[goquery.NodeName(s)]
	}
	return doc.Find(selector).FilterFunction(isCard).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find(selector).FilterFunction(isCard).Length() == 0
	})
}

// extractQuotes collects blockquotes and testimonial/review-styled blocks with their attribution
func extractQuotes(doc *goquery.Document) []models.QuoteBlock {
	var quotes []models.QuoteBlock
	cards(doc, quoteSelector).Each(func(_ int, s *goquery.Selection) {
		context := utils.CleanText(s.Text())
		if context == "" {
			return
		}

		body := s.Clone()
		cite := utils.CleanText(body.Find(citeSelector).First().Text())
		body.Find(citeSelector).Remove()
		// <figure><blockquote/><figcaption/></figure>
		if cite == "" && goquery.NodeName(s) == "blockquote" {
			cite = utils.CleanText(s.NextFiltered("figcaption, cite, footer, p").First().Text())
		}

		text := utils.CleanText(body.Text())
		if text == "" {
			return
		}
		quotes = append(quotes, models.QuoteBlock{Text: text, Cite: cite, Context: context})
	})
	return quotes
}

// extractProfiles collects person cards: a name, a role, and optionally a bio and photo
func extractProfiles(doc *goquery.Document, base *url.URL) []models.ProfileCard {
	var profiles []models.ProfileCard
	cards(doc, profileSelector).Each(func(_ int, s *goquery.Selection) {
		nameSel := s.Find(nameSelector).First()
		name := utils.CleanText(nameSel.Text())
		if name == "" || utils.RuneLen(name) > maxNameRunes {
			return
		}

		var role string
		s.Find(roleSelector).EachWithBreak(func(_ int, r *goquery.Selection) bool {
			if r.IsSelection(nameSel) || nameSel.Find("*").IsSelection(r) {
				return true
			}
			t := utils.CleanText(r.Text())
			if t != "" && t != name && utils.RuneLen(t) <= maxRoleRunes {
				role = t
				return false
			}
			return true
		})
		if role == "" {
			// Name heading followed by a short line: <h3>Ana</h3><p>Head Baker</p>
			if next := utils.CleanText(nameSel.Next().Text()); next != "" && utils.RuneLen(next) <= maxRoleRunes {
				role = next
			}
		}

		var bio []string
		s.Find("p").Each(func(_ int, p *goquery.Selection) {
			if t := utils.CleanText(p.Text()); utils.RuneLen(t) >= minBioRunes {
				bio = append(bio, t)
			}
		})

		card := models.ProfileCard{Name: name, Role: role, Bio: strings.Join(bio, " ")}
		if src := s.Find("img").First().AttrOr("src", ""); src != "" && !strings.HasPrefix(src, "data:") {
			if abs, err := base.Parse(src); err == nil {
				card.ImageURL = abs.String()
			}
		}
		profiles = append(profiles, card)
	})
	return profiles
}
