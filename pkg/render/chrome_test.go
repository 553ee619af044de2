package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signalsResult is what signalsJS returns for a small brochure page
const signalsResult = `{
  "images": ["https://acme.test/img/hero.jpg", "/img/team.png", "data:image/gif;base64,R0lGOD", "https://acme.test/img/hero.jpg"],
  "links": ["https://acme.test/about#story", "https://www.acme.test/services", "https://other.test/", "https://acme.test/menu.pdf", "mailto:hi@acme.test"],
  "cssVars": {"--brand-primary": "#c0392b"},
  "computed": ["rgb(192, 57, 43)"],
  "themeColor": "#c0392b",
  "logo": "/img/logo.svg"
}`

func TestPageFromSignals(t *testing.T) {
	var sig pageSignals
	require.NoError(t, json.Unmarshal([]byte(signalsResult), &sig))

	page := pageFromSignals("https://acme.test", "https://acme.test/home", "<html></html>", sig)

	assert.Equal(t, "https://acme.test", page.URL)
	assert.Equal(t, "https://acme.test/home", page.FinalURL)
	assert.Equal(t, []string{"https://acme.test/img/hero.jpg", "https://acme.test/img/team.png"}, page.ImageURLs)
	assert.Equal(t, []string{"https://acme.test/about", "https://www.acme.test/services"}, page.LinkURLs)
	assert.Equal(t, "https://acme.test/img/logo.svg", page.Styles.LogoURL)
	assert.Equal(t, "#c0392b", page.Styles.CSSVariables["--brand-primary"])
	assert.Equal(t, []string{"rgb(192, 57, 43)"}, page.Styles.ComputedColors)
	assert.Equal(t, "#c0392b", page.Styles.ThemeColor)
}

func TestPageFromSignals_FallsBackToPageURL(t *testing.T) {
	sig := pageSignals{Images: []string{"logo.png"}, Links: []string{"contact"}}

	page := pageFromSignals("https://acme.test/a/", "about:blank", "", sig)

	assert.Equal(t, []string{"https://acme.test/a/logo.png"}, page.ImageURLs)
	assert.Equal(t, []string{"https://acme.test/a/contact"}, page.LinkURLs)
	assert.Empty(t, page.Styles.LogoURL)
}
