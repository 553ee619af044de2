package extract

import (
	"regexp"
	"strings"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const maxRoleRunes = 80

var (
	// profile cards are structured, so a single given name is enough
	profileNameRe = regexp.MustCompile(`^(?:(?:Dr|Mr|Mrs|Ms)\.?\s+)?[A-Z][A-Za-z'’-]+(?:\s+[A-Z][A-Za-z'’.-]*){0,3}$`)
	personNameRe  = regexp.MustCompile(`^(?:(?:Dr|Mr|Mrs|Ms)\.?\s+)?[A-Z][A-Za-z'’-]+(?:\s+[A-Z][A-Za-z'’.-]*){1,3}$`)
	teamPathRe    = regexp.MustCompile(`(?i)/(team|our-team|staff|people|about|leadership)(/|$)`)

	// headings that look like names but are section titles
	notNameWords = newWordSet(
		"our", "the", "and", "we", "us", "meet", "team", "staff", "values", "mission", "story",
		"history", "services", "about", "contact", "why", "what", "how", "welcome", "join",
	)
)

func looksLikePerson(re *regexp.Regexp, name string) bool {
	return re.MatchString(name) && notNameWords.count(name) == 0
}

// TeamMembers collects named people with a role. Profile cards come first; on team
// pages, "Name" headings followed by a short role line are also accepted.
func TeamMembers(pages []models.SemanticPage, limit int) []models.ExtractedTeamMember {
	seen := utils.NewStringSet()
	var out []models.ExtractedTeamMember
	add := func(m models.ExtractedTeamMember) bool {
		m.Name = utils.CleanText(m.Name)
		m.Role = utils.CleanText(m.Role)
		if m.Name == "" || m.Role == "" || strings.EqualFold(m.Name, m.Role) {
			return false
		}
		if !seen.Add(strings.ToLower(m.Name)) {
			return false
		}
		out = append(out, m)
		return limit > 0 && len(out) >= limit
	}

	for _, page := range pages {
		for _, p := range page.Profiles {
			if !looksLikePerson(profileNameRe, p.Name) {
				continue
			}
			confidence := 0.7
			if p.Bio != "" {
				confidence += 0.1
			}
			if p.ImageURL != "" {
				confidence += 0.1
			}
			if add(models.ExtractedTeamMember{
				Name: p.Name, Role: p.Role, Bio: p.Bio, ImageURL: p.ImageURL,
				SourceURL: page.URL, Confidence: utils.Clamp01(confidence),
			}) {
				return out
			}
		}
	}

	for _, page := range pages {
		if page.SemanticIntent != models.IntentTeamCulture && !teamPathRe.MatchString(page.Path) {
			continue
		}
		for _, s := range page.Sections {
			if s.Level < 2 || len(s.Paragraphs) == 0 || !looksLikePerson(personNameRe, s.Heading) {
				continue
			}
			role := s.Paragraphs[0]
			if utils.RuneLen(role) > maxRoleRunes {
				continue
			}
			m := models.ExtractedTeamMember{Name: s.Heading, Role: role, SourceURL: page.URL, Confidence: 0.5}
			if len(s.Paragraphs) > 1 {
				m.Bio = strings.Join(s.Paragraphs[1:], " ")
				m.Confidence = 0.6
			}
			if add(m) {
				return out
			}
		}
	}
	return out
}
