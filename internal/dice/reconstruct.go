// Package dice rebuilds standalone sprite images from a diced atlas.
//
// A diced sprite is stored as a mesh of axis-aligned quads. Each quad maps a
// tile of the shared atlas (by UV) to a region of the sprite (by position).
// Positions and UVs have their origin at the bottom-left with Y growing
// upward; images have their origin at the top-left, so both axes are flipped
// vertically on the way in.
package dice

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"diced-portraits/internal/bundle"
)

// ErrEmptyRect is returned for sprites whose rect rounds to zero pixels.
var ErrEmptyRect = errors.New("dice: sprite rect is empty")

// round rounds half to even. All pixel snapping goes through it so that the
// same mesh always lands on the same pixels.
func round(f float64) int {
	return int(math.RoundToEven(f))
}

// CanvasSize returns the pixel size of the sprite's output image.
func CanvasSize(rect bundle.Rect) (w, h int) {
	return round(rect.W), round(rect.H)
}

// QuadRegions maps one quad to its destination rectangle in a canvas of
// height canvasH and to its source rectangle in a tw×th atlas.
func QuadRegions(q Quad, rect bundle.Rect, canvasH, tw, th int) (dst, src image.Rectangle) {
	minX, minY, maxX, maxY, minU, minV, maxU, maxV := q.Bounds()
	ch := float64(canvasH)

	dst = image.Rect(
		round(minX-rect.X), round(ch-(maxY-rect.Y)),
		round(maxX-rect.X), round(ch-(minY-rect.Y)),
	)
	src = image.Rect(
		round(minU*float64(tw)), round((1-maxV)*float64(th)),
		round(maxU*float64(tw)), round((1-minV)*float64(th)),
	)
	return dst, src
}

// Reconstruct rebuilds one sprite from its atlas. The result depends only on
// the atlas and the sprite's own rect and mesh. Degenerate quads are skipped.
func Reconstruct(atlas *image.NRGBA, s bundle.Sprite) (*image.NRGBA, error) {
	cw, ch := CanvasSize(s.Rect)
	if cw <= 0 || ch <= 0 {
		return nil, errors.Wrapf(ErrEmptyRect, "%q is %gx%g", s.Name, s.Rect.W, s.Rect.H)
	}

	verts, err := ParseVertices(s.VertexData, s.VertexCount)
	if err != nil {
		return nil, errors.Wrapf(err, "sprite %q", s.Name)
	}
	indices, err := ParseIndices(s.IndexData)
	if err != nil {
		return nil, errors.Wrapf(err, "sprite %q", s.Name)
	}
	quads, err := Quads(verts, indices)
	if err != nil {
		return nil, errors.Wrapf(err, "sprite %q", s.Name)
	}

	ab := atlas.Bounds()
	tw, th := ab.Dx(), ab.Dy()
	canvas := image.NewNRGBA(image.Rect(0, 0, cw, ch))

	for _, q := range quads {
		dst, src := QuadRegions(q, s.Rect, ch, tw, th)
		if dst.Empty() || src.Empty() {
			continue
		}
		src = src.Add(ab.Min)

		var tile image.Image = atlas
		if !src.In(ab) {
			tile = crop(atlas, src)
			src = tile.Bounds()
		}
		if src.Size() == dst.Size() {
			draw.Draw(canvas, dst, tile, src.Min, draw.Src)
			continue
		}
		// Never smooth: tile edges must stay crisp.
		draw.NearestNeighbor.Scale(canvas, dst, tile, src, draw.Src, nil)
	}

	return canvas, nil
}

// crop copies r out of the atlas. Parts of r outside the atlas stay
// transparent.
func crop(atlas *image.NRGBA, r image.Rectangle) *image.NRGBA {
	tile := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(tile, tile.Bounds(), atlas, r.Min, draw.Src)
	return tile
}
