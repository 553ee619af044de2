package extract

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

const (
	accentSlot = 2
	// colors closer than this in Lab space count as the same brand color
	sameColorDistance = 0.08

	nearWhiteLightness = 0.92
	nearBlackLightness = 0.08
	grayMaxSaturation  = 0.12
)

var (
	rgbFuncRe = regexp.MustCompile(`(?i)^rgba?\(\s*(\d{1,3})\s*[, ]\s*(\d{1,3})\s*[, ]\s*(\d{1,3})\s*(?:[,/]\s*([\d.]+%?)\s*)?\)$`)
	hexRe     = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
)

// ColorSources are the candidate brand colors in source order
type ColorSources struct {
	CSSVariables []string
	Computed     []string
	Logo         []string
	Vision       []string
}

// CollectColorSources gathers color candidates from page style signals, the logo palette and
// vision results. Pages are read in crawl order, so the home page leads.
func CollectColorSources(pages []models.SemanticPage, logo []string, images []models.EnrichedImage) ColorSources {
	src := ColorSources{Logo: logo}
	for _, p := range pages {
		src.CSSVariables = append(src.CSSVariables, rankedVariables(p.Styles.CSSVariables)...)
		if p.Styles.ThemeColor != "" {
			src.Computed = append(src.Computed, p.Styles.ThemeColor)
		}
		src.Computed = append(src.Computed, p.Styles.ComputedColors...)
	}
	for _, img := range images {
		src.Vision = append(src.Vision, img.DominantColors...)
	}
	return src
}

// BrandColors merges the sources into at most limit distinct, non-neutral hex colors.
// The first distinct vision color takes the accent slot (third position) once the page
// and logo colors fill it; further vision colors only fill open slots.
func BrandColors(src ColorSources, limit int) []string {
	var palette []colorful.Color
	has := func(c colorful.Color) bool {
		return slices.ContainsFunc(palette, func(p colorful.Color) bool {
			return p.DistanceLab(c) < sameColorDistance
		})
	}
	add := func(raw string) {
		if limit > 0 && len(palette) >= limit {
			return
		}
		if c, ok := ParseColor(raw); ok && !IsNeutral(c) && !has(c) {
			palette = append(palette, c)
		}
	}

	for _, group := range [][]string{src.CSSVariables, src.Computed, src.Logo} {
		for _, raw := range group {
			add(raw)
		}
	}

	accentTaken := false
	for _, raw := range src.Vision {
		c, ok := ParseColor(raw)
		if !ok || IsNeutral(c) || has(c) {
			continue
		}
		if !accentTaken && len(palette) > accentSlot {
			palette[accentSlot] = c
			accentTaken = true
			continue
		}
		add(raw)
	}

	out := make([]string, len(palette))
	for i, c := range palette {
		out[i] = c.Hex()
	}
	return out
}

// ParseColor reads #rgb, #rgba, #rrggbb, #rrggbbaa and rgb()/rgba() values.
// Fully transparent colors are rejected.
func ParseColor(raw string) (colorful.Color, bool) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if hexRe.MatchString(raw) {
		digits := raw[1:]
		switch len(digits) {
		case 4:
			if digits[3] == '0' {
				return colorful.Color{}, false
			}
			digits = digits[:3]
		case 8:
			if digits[6:] == "00" {
				return colorful.Color{}, false
			}
			digits = digits[:6]
		}
		c, err := colorful.Hex("#" + digits)
		return c, err == nil
	}

	m := rgbFuncRe.FindStringSubmatch(raw)
	if m == nil {
		return colorful.Color{}, false
	}
	if alpha := m[4]; alpha != "" {
		if a, err := strconv.ParseFloat(strings.TrimSuffix(alpha, "%"), 64); err == nil && a == 0 {
			return colorful.Color{}, false
		}
	}
	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return colorful.Color{}, false
		}
		rgb[i] = float64(v) / 255
	}
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, true
}

// IsNeutral reports near-white, near-black and gray colors
func IsNeutral(c colorful.Color) bool {
	_, s, l := c.Hsl()
	return l >= nearWhiteLightness || l <= nearBlackLightness || s < grayMaxSaturation
}

// rankedVariables orders custom property values: primary, brand, secondary, accent, then the rest by name
func rankedVariables(vars map[string]string) []string {
	if len(vars) == 0 {
		return nil
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	rank := func(name string) int {
		lower := strings.ToLower(name)
		for i, key := range []string{"primary", "brand", "secondary", "accent"} {
			if strings.Contains(lower, key) {
				return i
			}
		}
		return 4
	}
	slices.SortFunc(names, func(a, b string) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, vars[name])
	}
	return out
}
