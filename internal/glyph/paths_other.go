//go:build !darwin && !linux && !windows

package glyph

// SearchPaths returns nil: there is no known font location on this platform,
// so labels use bitmap glyphs.
func SearchPaths() []string {
	return nil
}
