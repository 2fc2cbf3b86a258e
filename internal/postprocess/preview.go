package postprocess

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// ErrNoFrames is returned when a preview has nothing to animate.
var ErrNoFrames = errors.New("postprocess: no frames")

// PreviewOptions controls GIF preview assembly.
type PreviewOptions struct {
	FPS        float64
	Background color.Color
}

// Delay returns the per-frame delay in hundredths of a second.
func (o PreviewOptions) Delay() int {
	if o.FPS <= 0 {
		return 25
	}
	d := int(math.Round(100 / o.FPS))
	if d < 1 {
		d = 1
	}
	return d
}

// PreviewGIF flattens each frame over an opaque background, reduces it to
// 256 colours by median cut and returns a looping animation.
func PreviewGIF(frames []image.Image, opts PreviewOptions) (*gif.GIF, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	bg := opts.Background
	if bg == nil {
		bg = color.Black
	}

	q := quantize.MedianCutQuantizer{}
	anim := &gif.GIF{LoopCount: 0}
	for _, f := range frames {
		b := f.Bounds()
		flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(flat, flat.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), f, b.Min, draw.Over)

		pm := image.NewPaletted(flat.Bounds(), q.Quantize(make(color.Palette, 0, 256), flat))
		draw.Draw(pm, pm.Bounds(), flat, image.Point{}, draw.Src)

		anim.Image = append(anim.Image, pm)
		anim.Delay = append(anim.Delay, opts.Delay())
	}
	return anim, nil
}

// WriteGIF encodes an animation.
func WriteGIF(w io.Writer, anim *gif.GIF) error {
	return errors.Wrap(gif.EncodeAll(w, anim), "postprocess: gif encode")
}
