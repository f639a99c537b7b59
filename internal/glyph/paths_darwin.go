//go:build darwin

package glyph

// SearchPaths returns the font files tried, in order, for label glyphs.
func SearchPaths() []string {
	return []string{
		"/System/Library/Fonts/SFNSRounded.ttf",
		"/System/Library/Fonts/SFNS.ttf",
		"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
		"/Library/Fonts/Arial Bold.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
	}
}
