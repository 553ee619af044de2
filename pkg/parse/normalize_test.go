package parse

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTPS://Acme.TEST/About/", "https://acme.test/About"},
		{"http://acme.test:80/", "http://acme.test/"},
		{"https://acme.test:443/services", "https://acme.test/services"},
		{"https://acme.test:8443/services", "https://acme.test:8443/services"},
		{"https://acme.test", "https://acme.test/"},
		{"https://acme.test/team//", "https://acme.test/team"},
		{"https://acme.test/faq?utm_source=x#top", "https://acme.test/faq"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := url.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, NormalizeURL(u))
		})
	}
	assert.Equal(t, "", NormalizeURL(nil))
}

func TestNormalizeURL_DoesNotModifyInput(t *testing.T) {
	u, _ := url.Parse("HTTPS://Acme.test/About/?q=1#frag")
	original := u.String()
	NormalizeURL(u)
	assert.Equal(t, original, u.String())
}

func TestParseAndNormalize(t *testing.T) {
	norm, parsed, err := ParseAndNormalize("  https://acme.test/contact/  ")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.test/contact", norm)
	assert.Equal(t, "acme.test", parsed.Host)

	_, _, err = ParseAndNormalize("not a url")
	assert.Error(t, err)
	_, _, err = ParseAndNormalize("")
	assert.Error(t, err)
}

func TestResolveLink(t *testing.T) {
	base, _ := url.Parse("https://acme.test/services/")
	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{"/about", "https://acme.test/about", true},
		{"drain-cleaning", "https://acme.test/services/drain-cleaning", true},
		{"https://other.test/x", "https://other.test/x", true},
		{"#reviews", "", false},
		{"mailto:hi@acme.test", "", false},
		{"tel:+15551234567", "", false},
		{"javascript:void(0)", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, ok := ResolveLink(base, tt.href)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestSameOriginAndPageLike(t *testing.T) {
	a, _ := url.Parse("https://www.Acme.test/")
	b, _ := url.Parse("http://acme.test/about")
	c, _ := url.Parse("https://blog.acme.test/")
	assert.True(t, SameOrigin(a, b))
	assert.False(t, SameOrigin(a, c))
	assert.False(t, SameOrigin(nil, a))

	pdf, _ := url.Parse("https://acme.test/menu.PDF")
	page, _ := url.Parse("https://acme.test/menu")
	html, _ := url.Parse("https://acme.test/menu.html")
	assert.False(t, IsPageLike(pdf))
	assert.True(t, IsPageLike(page))
	assert.True(t, IsPageLike(html))
}
