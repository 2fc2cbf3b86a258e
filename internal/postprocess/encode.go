package postprocess

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
)

// Supported output formats.
const (
	PNG  = "png"
	WebP = "webp"
)

// Ext returns the file extension, with the dot, for format.
func Ext(format string) string {
	return "." + format
}

var fastPNG = png.Encoder{CompressionLevel: png.BestSpeed}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case PNG:
		return fastPNG.Encode(w, img)
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("postprocess: unknown format %q", format)
	}
}

// Save encodes img to path, creating parent directories.
func Save(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
