// Package termview prints images on the terminal, for a quick look at
// reconstructed sprites and portraits.
package termview

import (
	"fmt"
	"image"
	ic "image/color"
	"io"
	"strings"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/gookit/color"
	"github.com/nfnt/resize"
)

// Mode selects how pixels reach the terminal.
type Mode int

const (
	Auto      Mode = iota // graphics protocol if available, else TrueColor
	TrueColor             // 24-bit background escapes
	Color256              // gookit/color 256-colour rendering
)

// Options controls Print.
type Options struct {
	Mode Mode
	// MaxCols and MaxRows cap block output. Each pixel is two columns wide.
	MaxCols, MaxRows uint
}

// Print writes img to w. Graphics protocols (Kitty, iTerm/WezTerm, Sixel)
// are tried first in Auto mode.
func Print(w io.Writer, img image.Image, opts Options) error {
	if opts.Mode == Auto {
		if ok, err := printGraphics(w, img); ok || err != nil {
			return err
		}
		opts.Mode = TrueColor
	}

	if opts.MaxCols > 0 || opts.MaxRows > 0 {
		img = fit(img, opts.MaxCols/2, opts.MaxRows)
	}
	_, err := io.WriteString(w, Blocks(img, opts.Mode == TrueColor))
	return err
}

func printGraphics(w io.Writer, img image.Image) (bool, error) {
	switch {
	case rasterm.IsTermKitty():
		return true, writeLine(w, rasterm.Settings{}.KittyWriteImage(w, img))
	case rasterm.IsTermItermWez():
		return true, writeLine(w, rasterm.Settings{}.ItermWriteImage(w, img))
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		pm := image.NewPaletted(img.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(pm, img.Bounds(), img, img.Bounds().Min)
		return true, writeLine(w, rasterm.Settings{}.SixelWriteImage(w, pm))
	}
	return false, nil
}

func writeLine(w io.Writer, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

func fit(img image.Image, cols, rows uint) image.Image {
	if cols == 0 {
		cols = uint(img.Bounds().Dx())
	}
	if rows == 0 {
		rows = uint(img.Bounds().Dy())
	}
	return resize.Thumbnail(cols, rows, img, resize.NearestNeighbor)
}

// Blocks renders img as two-character cells per pixel. Transparent pixels
// reset the colour.
func Blocks(img image.Image, trueColor bool) string {
	var sb strings.Builder
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sb.WriteString(cell(img.At(x, y), trueColor))
		}
		sb.WriteString("\x1b[0m\n")
	}
	return sb.String()
}

func cell(c ic.Color, trueColor bool) string {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "\x1b[0m  "
	}
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	if trueColor {
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", r8, g8, b8)
	}
	return color.RGB(r8, g8, b8, true).Sprint("  ")
}
