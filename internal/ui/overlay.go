package ui

import (
	"image"
	"image/color"

	"github.com/itsharex/lovshot/internal/annotation"
	"github.com/itsharex/lovshot/internal/editor"
	"github.com/itsharex/lovshot/internal/render"
	"github.com/itsharex/lovshot/internal/theme"
)

const (
	handleSize = 6
	dashLen    = 4
)

// ComposeFrame renders the full editor frame: the capture, all committed
// shapes, any in-flight preview, and the selection overlay.
func ComposeFrame(base *image.RGBA, c *Controller, th *theme.Theme, scale float64) *image.RGBA {
	dst := image.NewRGBA(base.Bounds())
	copy(dst.Pix, base.Pix)

	session := c.Session()
	shapes := session.Store().Annotations()
	selected := session.Store().Selected()

	preview, hasPreview := c.Preview()
	for _, sh := range shapes {
		if hasPreview && sh.ID() == preview.ID() {
			continue
		}
		render.DrawShape(dst, base, sh, scale)
	}
	if hasPreview {
		render.DrawShape(dst, base, preview, scale)
	}
	if live, ok := session.Live(); ok {
		render.DrawShape(dst, base, live, scale)
	}

	if selected != "" && !c.Dragging() {
		if sh, ok := session.Store().Find(selected); ok {
			drawSelection(dst, sh, th, scale)
		}
	}
	return dst
}

func drawSelection(dst *image.RGBA, sh annotation.Shape, th *theme.Theme, scale float64) {
	x, y, w, h := editor.Bounds(sh)
	r := image.Rect(
		int(x*scale), int(y*scale),
		int((x+w)*scale), int((y+h)*scale),
	).Inset(-2)
	drawDashedBorder(dst, r, th.SelectionOutline)

	for _, hd := range editor.HandlesFor(sh) {
		drawHandle(dst, int(hd.At.X*scale), int(hd.At.Y*scale), th)
	}
}

func drawDashedBorder(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	for x := r.Min.X; x <= r.Max.X; x++ {
		if (x/dashLen)%2 == 0 {
			setPixel(dst, x, r.Min.Y, col)
			setPixel(dst, x, r.Max.Y, col)
		}
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		if (y/dashLen)%2 == 0 {
			setPixel(dst, r.Min.X, y, col)
			setPixel(dst, r.Max.X, y, col)
		}
	}
}

func drawHandle(dst *image.RGBA, cx, cy int, th *theme.Theme) {
	half := handleSize / 2
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if x == cx-half || x == cx+half || y == cy-half || y == cy+half {
				setPixel(dst, x, y, th.HandleBorder)
			} else {
				setPixel(dst, x, y, th.HandleFill)
			}
		}
	}
}

func setPixel(dst *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.SetRGBA(x, y, col)
	}
}

// Checker fills dst with the canvas checkerboard shown behind transparent
// captures.
func Checker(dst *image.RGBA, th *theme.Theme, cell int) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				dst.SetRGBA(x, y, th.CheckerLight)
			} else {
				dst.SetRGBA(x, y, th.CheckerDark)
			}
		}
	}
}
