// Package portrait plans and composites character portraits from
// reconstructed sprite layers.
package portrait

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"diced-portraits/internal/bundle"
	"diced-portraits/internal/texture"
)

func round(f float64) int {
	return int(math.RoundToEven(f))
}

// UnionRect returns the smallest rect containing every rect in rs. ok is
// false when rs is empty.
func UnionRect(rs []bundle.Rect) (u bundle.Rect, ok bool) {
	if len(rs) == 0 {
		return bundle.Rect{}, false
	}
	l, b := rs[0].X, rs[0].Y
	r, t := rs[0].X+rs[0].W, rs[0].Y+rs[0].H
	for _, rc := range rs[1:] {
		l = math.Min(l, rc.X)
		b = math.Min(b, rc.Y)
		r = math.Max(r, rc.X+rc.W)
		t = math.Max(t, rc.Y+rc.H)
	}
	return bundle.Rect{X: l, Y: b, W: r - l, H: t - b}, true
}

// CanvasSize returns the pixel size of a canvas rect.
func CanvasSize(canvas bundle.Rect) image.Point {
	return image.Pt(round(canvas.W), round(canvas.H))
}

// Offset converts a world rect to the top-left pixel of the layer inside
// canvas. World Y grows upward, canvas Y grows downward.
func Offset(r, canvas bundle.Rect) image.Point {
	return image.Pt(
		round(r.X-canvas.X),
		round(canvas.H-(r.Y+r.H-canvas.Y)),
	)
}

// Composite alpha-blends layers back to front onto a transparent canvas.
// Layers with no rect or no image are left out. A layer entirely outside
// the canvas is skipped; otherwise its offset is clamped to zero and the
// blit clips the rest.
func Composite(layers []string, rects map[string]bundle.Rect, canvas bundle.Rect, res texture.Resolver) *image.RGBA {
	size := CanvasSize(canvas)
	dst := image.NewRGBA(image.Rectangle{Max: size})

	for _, name := range layers {
		r, ok := rects[name]
		if !ok {
			continue
		}
		img := res.Resolve(name)
		if img == nil {
			continue
		}

		off := Offset(r, canvas)
		sz := img.Bounds().Size()
		if off.X >= size.X || off.Y >= size.Y || off.X+sz.X <= 0 || off.Y+sz.Y <= 0 {
			continue
		}
		if off.X < 0 {
			off.X = 0
		}
		if off.Y < 0 {
			off.Y = 0
		}

		draw.Draw(dst, image.Rectangle{Min: off, Max: off.Add(sz)}, img, img.Bounds().Min, draw.Over)
	}
	return dst
}
