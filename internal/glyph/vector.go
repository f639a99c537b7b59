package glyph

import (
	"fmt"
	"image"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// PointSize is the size labels are rasterized at (72 DPI, so one point is one
// pixel).
const PointSize = 13

type vectorSource struct {
	mu   sync.Mutex // font.Face and sfnt.Buffer are not safe for concurrent use
	font *opentype.Font
	face font.Face
	buf  sfnt.Buffer
}

// NewVectorSource parses a TrueType/OpenType font, or the first face of a
// font collection, and returns a Source rasterizing it at PointSize.
func NewVectorSource(data []byte) (Source, error) {
	f, err := parseFont(data)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    PointSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return &vectorSource{font: f, face: face}, nil
}

func parseFont(data []byte) (*opentype.Font, error) {
	f, err := opentype.Parse(data)
	if err == nil {
		return f, nil
	}
	coll, cerr := opentype.ParseCollection(data)
	if cerr != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if coll.NumFonts() == 0 {
		return nil, fmt.Errorf("parse font: empty collection")
	}
	return coll.Font(0)
}

func (s *vectorSource) Mask(r rune) *image.Alpha {
	r = unicode.ToUpper(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.font.GlyphIndex(&s.buf, r)
	if err != nil || idx == 0 {
		return nil
	}
	return rasterize(s.face, r)
}
