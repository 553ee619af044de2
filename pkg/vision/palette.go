package vision

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"image"
	_ "image/gif" // decoders register themselves with image.Decode
	_ "image/jpeg"
	_ "image/png"
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Sriram-PR/bizdna/pkg/extract"
	"github.com/Sriram-PR/bizdna/pkg/fetch"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

const (
	maxLogoBytes = 2 << 20
	// the logo is sampled on a grid of at most this many pixels per side
	paletteSampleSide = 64
	// 4 bits per channel
	quantShift = 4
)

// ImageGetter is the slice of fetch.Fetcher LogoPalette needs
type ImageGetter interface {
	Get(ctx context.Context, rawURL string, maxBytes int64) (*fetch.Response, error)
}

type bucket struct {
	r, g, b, n int
	key        int
}

// LogoPalette downloads a PNG, JPEG or GIF logo and returns up to n of its most frequent
// non-neutral colors as hex. Mostly transparent pixels are ignored.
func LogoPalette(ctx context.Context, getter ImageGetter, logoURL string, n int) ([]string, error) {
	if logoURL == "" || n <= 0 {
		return nil, nil
	}
	resp, err := getter.Get(ctx, logoURL, maxLogoBytes)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: image logo '%s': %w", utils.ErrParsing, logoURL, err)
	}
	return dominantColors(img, n), nil
}

// dominantColors buckets sampled pixels by quantized RGB and averages each bucket
func dominantColors(img image.Image, n int) []string {
	bounds := img.Bounds()
	stepX := max(1, bounds.Dx()/paletteSampleSide)
	stepY := max(1, bounds.Dy()/paletteSampleSide)

	buckets := make(map[int]*bucket)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 < 0x8000 {
				continue
			}
			// un-premultiply, then 8-bit
			r, g, b := int(r16*0xffff/a16)>>8, int(g16*0xffff/a16)>>8, int(b16*0xffff/a16)>>8
			key := (r>>quantShift)<<8 | (g>>quantShift)<<4 | b>>quantShift
			bk, ok := buckets[key]
			if !ok {
				bk = &bucket{key: key}
				buckets[key] = bk
			}
			bk.r += r
			bk.g += g
			bk.b += b
			bk.n++
		}
	}

	sorted := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		sorted = append(sorted, bk)
	}
	slices.SortFunc(sorted, func(a, b *bucket) int {
		if c := cmp.Compare(b.n, a.n); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	var out []string
	for _, bk := range sorted {
		c := colorful.Color{
			R: float64(bk.r/bk.n) / 255,
			G: float64(bk.g/bk.n) / 255,
			B: float64(bk.b/bk.n) / 255,
		}
		if extract.IsNeutral(c) {
			continue
		}
		out = append(out, c.Hex())
		if len(out) >= n {
			break
		}
	}
	return out
}
