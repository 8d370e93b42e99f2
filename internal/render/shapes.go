// Package render rasterizes annotation shapes onto an RGBA canvas. All
// drawing happens in device pixels; shape geometry arrives in logical canvas
// coordinates and is mapped through a display scale factor.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/itsharex/lovshot/internal/annotation"
)

// DrawShapes paints shapes over dst. dst and src share the same device-pixel
// space; src is the untouched capture and is only consulted by mosaic
// regions, which sample it rather than the partially annotated dst. scale is
// the device-pixels-per-logical-pixel factor of the display the capture came
// from.
func DrawShapes(dst, src *image.RGBA, shapes []annotation.Shape, scale float64) {
	for _, sh := range shapes {
		DrawShape(dst, src, sh, scale)
	}
}

// DrawShape paints a single shape. Unknown kinds are ignored.
func DrawShape(dst, src *image.RGBA, sh annotation.Shape, scale float64) {
	switch v := sh.(type) {
	case annotation.Rect:
		drawRectShape(dst, v, scale)
	case annotation.Mosaic:
		drawMosaicShape(dst, src, v, scale)
	case annotation.Arrow:
		drawArrowShape(dst, v, scale)
	case annotation.Text:
		drawTextShape(dst, v, scale)
	}
}

func scaleRect(x, y, w, h, scale float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x*scale)),
		int(math.Round(y*scale)),
		int(math.Round((x+w)*scale)),
		int(math.Round((y+h)*scale)),
	)
}

func scaledStroke(w int, scale float64) int {
	s := int(math.Round(float64(w) * scale))
	if s < 1 {
		s = 1
	}
	return s
}

func drawRectShape(dst *image.RGBA, v annotation.Rect, scale float64) {
	r := scaleRect(v.X, v.Y, v.W, v.H, scale)
	thick := scaledStroke(v.StrokeWidth, scale)
	switch v.Style {
	case annotation.RectFilled:
		draw.Draw(dst, r.Intersect(dst.Bounds()), &image.Uniform{v.Color}, image.Point{}, draw.Over)
	case annotation.RectDashed:
		dash := 4 * thick
		drawDashedRect(dst, r, dash, thick, v.Color)
	default:
		drawRect(dst, r, v.Color, thick)
	}
}

func drawArrowShape(dst *image.RGBA, v annotation.Arrow, scale float64) {
	x1 := int(math.Round(v.X1 * scale))
	y1 := int(math.Round(v.Y1 * scale))
	x2 := int(math.Round(v.X2 * scale))
	y2 := int(math.Round(v.Y2 * scale))
	thick := scaledStroke(v.StrokeWidth, scale)
	if v.Style == annotation.ArrowThick {
		thick *= 2
	}
	drawLine(dst, x1, y1, x2, y2, v.Color, thick)
	drawArrowHead(dst, x1, y1, x2, y2, v.Color, thick)
	if v.Style == annotation.ArrowDouble {
		drawArrowHead(dst, x2, y2, x1, y1, v.Color, thick)
	}
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// drawArrowHead draws the two head strokes at (x1,y1) for a shaft coming
// from (x0,y0).
func drawArrowHead(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	size := float64(6 + thick*2)
	a1 := angle + math.Pi/6
	a2 := angle - math.Pi/6
	x2 := x1 - int(math.Cos(a1)*size)
	y2 := y1 - int(math.Sin(a1)*size)
	x3 := x1 - int(math.Cos(a2)*size)
	y3 := y1 - int(math.Sin(a2)*size)
	drawLine(img, x1, y1, x2, y2, col, thick)
	drawLine(img, x1, y1, x3, y3, col, thick)
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	if rect.Empty() {
		return
	}
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

func drawDashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thick int, col color.Color) {
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	step := 1
	if length < 0 {
		length = -length
		step = -1
	}
	for i := 0; i <= length; i += dash * 2 {
		for j := 0; j < dash && i+j <= length; j++ {
			if horiz {
				setThickPixel(img, x0+step*(i+j), y0, thick, col)
			} else {
				setThickPixel(img, x0, y0+step*(i+j), thick, col)
			}
		}
	}
}

func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash, thick int, col color.Color) {
	if rect.Empty() {
		return
	}
	drawDashedLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, dash, thick, col)
	drawDashedLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, dash, thick, col)
	drawDashedLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, dash, thick, col)
	drawDashedLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, dash, thick, col)
}
