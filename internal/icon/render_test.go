package icon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fremvaerk/horalis/internal/glyph"
)

// solidSource returns a fully covered w x h mask for every rune except 0.
type solidSource struct{ w, h int }

func (s solidSource) Mask(r rune) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, s.w, s.h))
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	return m
}

type emptySource struct{}

func (emptySource) Mask(rune) *image.Alpha { return nil }

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#3B82F6", color.NRGBA{0x3b, 0x82, 0xf6, 0xff}, true},
		{"22c55e", color.NRGBA{0x22, 0xc5, 0x5e, 0xff}, true},
		{"zzz", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
		{"12345", color.NRGBA{}, false},
		{"#12345g", color.NRGBA{}, false},
		{"#1234567", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHexColor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstLetter(t *testing.T) {
	assert.Equal(t, 'W', FirstLetter("Work"))
	assert.Equal(t, 'ł', FirstLetter("łódź"))
	assert.Equal(t, 'S', FirstLetter("  Side Project"))
	assert.Equal(t, rune(0), FirstLetter(""))
	assert.Equal(t, rune(0), FirstLetter("   "))
}

func TestStatusIconShape(t *testing.T) {
	r := NewRenderer(nil)

	for _, c := range []string{"#3B82F6", "#22C55E", "#000000", "FFFFFF"} {
		t.Run(c, func(t *testing.T) {
			img := r.StatusIcon(c, 0)
			require.Equal(t, image.Rect(0, 0, StatusSize, StatusSize), img.Bounds())

			want, _ := ParseHexColor(c)
			assert.Equal(t, want, img.NRGBAAt(StatusSize/2, StatusSize/2))

			for _, p := range []image.Point{{0, 0}, {StatusSize - 1, 0}, {0, StatusSize - 1}, {StatusSize - 1, StatusSize - 1}} {
				assert.Equalf(t, uint8(0), img.NRGBAAt(p.X, p.Y).A, "corner %v", p)
			}
		})
	}
}

func TestStatusIconInvalidColorFallsBack(t *testing.T) {
	r := NewRenderer(nil)
	for _, c := range []string{"zzz", "", "12345"} {
		img := r.StatusIcon(c, 0)
		assert.Equal(t, color.NRGBA{91, 164, 196, 0xff}, img.NRGBAAt(11, 11), c)
	}
}

func TestStatusIconEdgeIsAntialiased(t *testing.T) {
	img := NewRenderer(nil).StatusIcon("#FF0000", 0)

	// (0, 11) lies exactly radius+1 from the center: transparent.
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 11).A)
	// (1, 11) lies exactly on the radius: opaque.
	assert.Equal(t, uint8(0xff), img.NRGBAAt(1, 11).A)
	// (3, 4) is about 10.63 away: partially transparent.
	a := img.NRGBAAt(3, 4).A
	assert.Greater(t, a, uint8(0))
	assert.Less(t, a, uint8(0xff))
}

func TestMenuIcon(t *testing.T) {
	r := NewRenderer(solidSource{4, 4})

	img := r.MenuIcon("#EC4899")
	require.Equal(t, image.Rect(0, 0, MenuSize, MenuSize), img.Bounds())
	assert.Equal(t, color.NRGBA{0xec, 0x48, 0x99, 0xff}, img.NRGBAAt(8, 8))
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)

	img = r.MenuIcon("nope")
	assert.Equal(t, color.NRGBA{128, 128, 128, 0xff}, img.NRGBAAt(8, 8))
}

func TestStatusIconLabel(t *testing.T) {
	white := color.NRGBA{0xff, 0xff, 0xff, 0xff}
	blue := color.NRGBA{0x3b, 0x82, 0xf6, 0xff}

	img := NewRenderer(solidSource{4, 4}).StatusIcon("#3B82F6", 'W')
	// 4x4 glyph placed at columns 9..12, rows 10..13.
	assert.Equal(t, white, img.NRGBAAt(11, 11))
	assert.Equal(t, white, img.NRGBAAt(9, 10))
	assert.Equal(t, white, img.NRGBAAt(12, 13))
	assert.Equal(t, blue, img.NRGBAAt(11, 9))
	assert.Equal(t, blue, img.NRGBAAt(13, 11))
}

func TestStatusIconLabelClippedToInterior(t *testing.T) {
	white := color.NRGBA{0xff, 0xff, 0xff, 0xff}
	img := NewRenderer(solidSource{StatusSize, StatusSize}).StatusIcon("#3B82F6", 'X')

	// Distance 10 is inside the fill but outside radius-margin.
	assert.Equal(t, color.NRGBA{0x3b, 0x82, 0xf6, 0xff}, img.NRGBAAt(11, 1))
	assert.Equal(t, white, img.NRGBAAt(11, 2))
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 1).A, "label never paints outside the circle")
}

func TestStatusIconUnsupportedLabel(t *testing.T) {
	plain := NewRenderer(nil).StatusIcon("#3B82F6", 0)
	assert.Equal(t, plain.Pix, NewRenderer(emptySource{}).StatusIcon("#3B82F6", '!').Pix)
	assert.Equal(t, plain.Pix, NewRenderer(glyph.NewBitmapSource()).StatusIcon("#3B82F6", '?').Pix)
}

func TestStatusIconBitmapLabel(t *testing.T) {
	img := NewRenderer(glyph.NewBitmapSource()).StatusIcon("#000000", 'H')

	var white int
	for y := 0; y < StatusSize; y++ {
		for x := 0; x < StatusSize; x++ {
			if img.NRGBAAt(x, y) == (color.NRGBA{0xff, 0xff, 0xff, 0xff}) {
				white++
			}
		}
	}
	assert.Greater(t, white, 10)
}

func TestOver(t *testing.T) {
	assert.Equal(t, uint8(0xff), over(0, 0xff))
	assert.Equal(t, uint8(0x40), over(0x40, 0))
	assert.Equal(t, uint8(0x80), over(0, 0x80))
}

func TestEncode(t *testing.T) {
	img := NewRenderer(nil).StatusIcon("#3B82F6", 0)

	data, err := EncodePNG(img)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	data, err = EncodeICO(img)
	require.NoError(t, err)
	// ICONDIR header: reserved 0, type 1, one image.
	require.GreaterOrEqual(t, len(data), 6)
	assert.Equal(t, []byte{0, 0, 1, 0, 1, 0}, data[:6])

	data, err = EncodeTrayIcon(img)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
