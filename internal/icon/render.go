// Package icon renders the circular status and menu icons shown in the tray.
package icon

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fremvaerk/horalis/internal/glyph"
)

const (
	// StatusSize is the edge length of the status icon in pixels.
	StatusSize = 22
	// MenuSize is the edge length of menu entry icons in pixels.
	MenuSize = 16

	// NeutralColor is drawn when no timer is running.
	NeutralColor = "#808080"

	// glyphMargin keeps label pixels off the circle's antialiased rim.
	glyphMargin = 1
	// glyphNudgeY moves the label down one row; integer centering otherwise
	// leaves even-height glyphs half a pixel high.
	glyphNudgeY = 1
)

var (
	defaultStatusColor = color.NRGBA{R: 91, G: 164, B: 196, A: 0xff}
	defaultMenuColor   = color.NRGBA{R: 128, G: 128, B: 128, A: 0xff}
)

// Renderer draws icons. A nil glyph source renders circles without labels.
type Renderer struct {
	glyphs glyph.Source
}

// NewRenderer returns a Renderer drawing labels from src.
func NewRenderer(src glyph.Source) *Renderer {
	return &Renderer{glyphs: src}
}

// StatusIcon renders the 22x22 status icon filled with hex color c and, when
// label is not 0, the label drawn in white. Invalid colors use the app blue.
func (r *Renderer) StatusIcon(c string, label rune) *image.NRGBA {
	fill, ok := ParseHexColor(c)
	if !ok {
		fill = defaultStatusColor
	}
	img := circle(StatusSize, fill)
	if label != 0 && r != nil && r.glyphs != nil {
		if mask := r.glyphs.Mask(label); mask != nil {
			drawLabel(img, mask)
		}
	}
	return img
}

// MenuIcon renders a 16x16 menu entry icon. Invalid colors use gray.
func (r *Renderer) MenuIcon(c string) *image.NRGBA {
	fill, ok := ParseHexColor(c)
	if !ok {
		fill = defaultMenuColor
	}
	return circle(MenuSize, fill)
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB" into an opaque color.
func ParseHexColor(s string) (color.NRGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// FirstLetter returns the first rune of name, or 0 for an empty name.
func FirstLetter(name string) rune {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if size == 0 || r == utf8.RuneError {
		return 0
	}
	return r
}

func radius(size int) float64 {
	return float64(size)/2 - 1
}

func distance(size, x, y int) float64 {
	dx := float64(x - size/2)
	dy := float64(y - size/2)
	return math.Sqrt(dx*dx + dy*dy)
}

func circle(size int, fill color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	rad := radius(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := distance(size, x, y)
			switch {
			case d <= rad:
				img.SetNRGBA(x, y, fill)
			case d <= rad+1:
				c := fill
				c.A = uint8((rad + 1 - d) * 255)
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

// drawLabel composites white over img using mask as coverage, centered and
// clipped to the circle interior.
func drawLabel(img *image.NRGBA, mask *image.Alpha) {
	size := img.Bounds().Dx()
	limit := radius(size) - glyphMargin
	w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
	x0 := (size - w) / 2
	y0 := (size-h)/2 + glyphNudgeY

	for my := 0; my < h; my++ {
		for mx := 0; mx < w; mx++ {
			a := uint32(mask.AlphaAt(mask.Bounds().Min.X+mx, mask.Bounds().Min.Y+my).A)
			if a == 0 {
				continue
			}
			x, y := x0+mx, y0+my
			if x < 0 || y < 0 || x >= size || y >= size {
				continue
			}
			if distance(size, x, y) > limit {
				continue
			}
			bg := img.NRGBAAt(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: over(bg.R, a),
				G: over(bg.G, a),
				B: over(bg.B, a),
				A: bg.A,
			})
		}
	}
}

// over blends white at coverage a (0-255) onto channel c.
func over(c uint8, a uint32) uint8 {
	return uint8((0xff*a + uint32(c)*(0xff-a) + 0x7f) / 0xff)
}
