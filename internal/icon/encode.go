package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"runtime"

	ico "github.com/sergeymakinen/go-ico"
)

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeICO encodes img as a single-image ICO file.
func EncodeICO(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := ico.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode ico: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeTrayIcon encodes img in the format the platform tray accepts: ICO on
// Windows, PNG elsewhere.
func EncodeTrayIcon(img image.Image) ([]byte, error) {
	if runtime.GOOS == "windows" {
		return EncodeICO(img)
	}
	return EncodePNG(img)
}
