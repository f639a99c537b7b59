package glyph

import (
	"image"
	"image/color"
	"unicode"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// bitmapScale is the nearest-neighbour magnification applied to bitmap glyphs
// so they read at tray size.
const bitmapScale = 1.4

type bitmapSource struct {
	face  font.Face
	scale float64
}

// NewBitmapSource returns the fallback Source. It draws A-Z and 0-9 from the
// embedded 7x13 basicfont face with binary coverage.
func NewBitmapSource() Source {
	return &bitmapSource{face: basicfont.Face7x13, scale: bitmapScale}
}

func (s *bitmapSource) Mask(r rune) *image.Alpha {
	r = unicode.ToUpper(r)
	if !bitmapSupported(r) {
		return nil
	}
	src := rasterize(s.face, r)
	if src == nil {
		return nil
	}

	// Threshold first so nearest-neighbour scaling keeps coverage binary.
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := uint8(0)
			if src.AlphaAt(x, y).A >= 0x80 {
				a = 0xff
			}
			src.SetAlpha(x, y, color.Alpha{A: a})
		}
	}

	w := int(float64(b.Dx()) * s.scale)
	h := int(float64(b.Dy()) * s.scale)
	out := image.NewAlpha(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(out, out.Bounds(), src, b, draw.Src, nil)
	return out
}

func bitmapSupported(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
