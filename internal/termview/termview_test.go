package termview

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlocksTrueColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	out := Blocks(img, true)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "\x1b[48;2;1;2;3m  ")
	// The transparent pixel only resets the colour.
	assert.Contains(t, out, "\x1b[0m  \x1b[0m\n")
}

func TestFit(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	out := fit(img, 20, 20)
	assert.LessOrEqual(t, out.Bounds().Dx(), 20)
	assert.LessOrEqual(t, out.Bounds().Dy(), 20)
}
