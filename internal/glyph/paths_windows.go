//go:build windows

package glyph

import (
	"os"
	"path/filepath"
)

// SearchPaths returns the font files tried, in order, for label glyphs.
func SearchPaths() []string {
	dir := os.Getenv("WINDIR")
	if dir == "" {
		dir = `C:\Windows`
	}
	fonts := filepath.Join(dir, "Fonts")
	return []string{
		filepath.Join(fonts, "segoeuib.ttf"),
		filepath.Join(fonts, "arialbd.ttf"),
		filepath.Join(fonts, "tahomabd.ttf"),
	}
}
