// Package glyph supplies coverage masks for the single-character labels drawn
// on tray icons.
//
// A scalable system font is preferred. When none of the platform font files
// can be read and parsed, a bitmap fallback built from the embedded basicfont
// face is used instead.
package glyph

import (
	"image"
	"image/color"
	"log"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Source returns coverage masks for label characters.
type Source interface {
	// Mask returns the coverage of r cropped to its ink bounds, with the
	// origin at (0, 0). It returns nil when r cannot be drawn.
	Mask(r rune) *image.Alpha
}

// Default returns the process-wide glyph source, loaded once from the
// platform font search list on first use.
var Default = sync.OnceValue(func() Source {
	return Load(SearchPaths())
})

// Load returns a vector source for the first font file in paths that exists
// and parses, or the bitmap fallback when none does.
func Load(paths []string) Source {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		src, err := NewVectorSource(data)
		if err != nil {
			log.Printf("[glyph] Skipping font %s: %v", p, err)
			continue
		}
		log.Printf("[glyph] Using font %s", p)
		return src
	}
	log.Println("[glyph] No usable system font, falling back to bitmap glyphs")
	return NewBitmapSource()
}

// rasterize draws r with face and returns its ink-cropped coverage.
func rasterize(face font.Face, r rune) *image.Alpha {
	dr, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok || mask == nil || dr.Empty() {
		return nil
	}

	w, h := dr.Dx(), dr.Dy()
	ink := image.Rectangle{}
	found := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if alphaAt(mask, maskp.X+x, maskp.Y+y) == 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				ink, found = px, true
			} else {
				ink = ink.Union(px)
			}
		}
	}
	if !found {
		return nil
	}

	out := image.NewAlpha(image.Rect(0, 0, ink.Dx(), ink.Dy()))
	for y := ink.Min.Y; y < ink.Max.Y; y++ {
		for x := ink.Min.X; x < ink.Max.X; x++ {
			a := alphaAt(mask, maskp.X+x, maskp.Y+y)
			out.SetAlpha(x-ink.Min.X, y-ink.Min.Y, color.Alpha{A: a})
		}
	}
	return out
}

func alphaAt(img image.Image, x, y int) uint8 {
	if a, ok := img.(*image.Alpha); ok {
		return a.AlphaAt(x, y).A
	}
	_, _, _, a := img.At(x, y).RGBA()
	return uint8(a >> 8)
}
