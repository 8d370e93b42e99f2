package export

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/itsharex/lovshot/internal/annotation"
	"github.com/itsharex/lovshot/internal/render"
)

// CardOptions style the shareable card rendition of a capture: the flattened
// image floats on a colored backdrop with a drop shadow.
type CardOptions struct {
	Margin     int
	Background color.RGBA
	Shadow     render.ShadowOptions
}

// DefaultCardOptions returns the standard card styling.
func DefaultCardOptions() CardOptions {
	return CardOptions{
		Margin:     32,
		Background: color.RGBA{R: 0x2b, G: 0x2d, B: 0x31, A: 0xff},
		Shadow:     render.DefaultShadowOptions(),
	}
}

// ComposeCard flattens the annotated capture and mounts it on a backdrop
// with a drop shadow.
func ComposeCard(src *image.RGBA, shapes []annotation.Shape, scale float64, opts CardOptions) *image.RGBA {
	flat := Compose(src, shapes, scale)
	res := render.ApplyShadow(flat, opts.Shadow)
	body := res.Image
	if body == nil {
		body = flat
	}

	margin := opts.Margin
	if margin < 0 {
		margin = 0
	}
	bb := body.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bb.Dx()+2*margin, bb.Dy()+2*margin))
	draw.Draw(out, out.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	draw.Draw(out, bb.Sub(bb.Min).Add(image.Pt(margin, margin)), body, bb.Min, draw.Over)
	return out
}
