package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

func TestBrandColors(t *testing.T) {
	base := ColorSources{
		CSSVariables: []string{"#ffffff", "#1a73e8", "#F5F5F5", "#808080", "#000"},
		Computed:     []string{"rgb(26, 115, 232)", "rgba(0,0,0,0)", "#e8453c"},
		Logo:         []string{"#34a853"},
	}

	t.Run("filters neutrals and duplicates", func(t *testing.T) {
		assert.Equal(t, []string{"#1a73e8", "#e8453c", "#34a853"}, BrandColors(base, 5))
	})

	t.Run("vision color takes the accent slot", func(t *testing.T) {
		src := base
		src.Vision = []string{"#fefefe", "#1a73e8", "#fbbc05", "#9c27b0"}
		assert.Equal(t, []string{"#1a73e8", "#e8453c", "#fbbc05", "#9c27b0"}, BrandColors(src, 5))
	})

	t.Run("vision fills open slots when few page colors", func(t *testing.T) {
		src := ColorSources{CSSVariables: []string{"#1a73e8"}, Vision: []string{"#fbbc05", "#e8453c"}}
		assert.Equal(t, []string{"#1a73e8", "#fbbc05", "#e8453c"}, BrandColors(src, 5))
	})

	t.Run("capped and never neutral", func(t *testing.T) {
		src := ColorSources{Computed: []string{
			"#e53935", "#8e24aa", "#3949ab", "#00897b", "#7cb342", "#fb8c00", "#6d4c41", "#f5f5f5",
		}}
		got := BrandColors(src, 5)
		require.Len(t, got, 5)
		for _, hex := range got {
			c, ok := ParseColor(hex)
			require.True(t, ok)
			assert.False(t, IsNeutral(c), hex)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, BrandColors(ColorSources{}, 5))
	})
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"#abc", true},
		{"#abcd", true},
		{"#abc0", false},
		{"#1a73e8", true},
		{"#1a73e800", false},
		{"rgba(10, 20, 30, 0.5)", true},
		{"rgb(10 20 30 / 0)", false},
		{"rgb(300, 0, 0)", false},
		{"red", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, ok := ParseColor(tt.raw)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestIsNeutral(t *testing.T) {
	for _, hex := range []string{"#ffffff", "#f5f5f5", "#000000", "#111111", "#808080", "#777777"} {
		c, ok := ParseColor(hex)
		require.True(t, ok)
		assert.True(t, IsNeutral(c), hex)
	}
	c, _ := ParseColor("#1a73e8")
	assert.False(t, IsNeutral(c))
}

func TestCollectColorSources(t *testing.T) {
	pages := []models.SemanticPage{{Styles: models.StyleSignals{
		CSSVariables:   map[string]string{"--color-accent": "#e8453c", "--primary": "#1a73e8", "--spacing": "4px"},
		ComputedColors: []string{"rgb(1, 2, 3)"},
		ThemeColor:     "#34a853",
	}}}
	images := []models.EnrichedImage{{DominantColors: []string{"#fbbc05"}}}

	src := CollectColorSources(pages, []string{"#9c27b0"}, images)
	assert.Equal(t, []string{"#1a73e8", "#e8453c", "4px"}, src.CSSVariables)
	assert.Equal(t, []string{"#34a853", "rgb(1, 2, 3)"}, src.Computed)
	assert.Equal(t, []string{"#9c27b0"}, src.Logo)
	assert.Equal(t, []string{"#fbbc05"}, src.Vision)
}
