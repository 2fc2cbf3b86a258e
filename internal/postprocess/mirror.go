package postprocess

import (
	"image"

	"github.com/disintegration/gift"
)

// Mirror flips a finished composite horizontally.
func Mirror(src image.Image) *image.RGBA {
	g := gift.New(gift.FlipHorizontal())
	dst := image.NewRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}
