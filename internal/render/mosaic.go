package render

import (
	"image"
	"image/color"
	"math"

	"github.com/itsharex/lovshot/internal/annotation"
)

// drawMosaicShape redacts the region covered by v. The source is sampled at
// device-pixel resolution on every call; the result is never cached because
// any geometry change alters the sampled region.
func drawMosaicShape(dst, src *image.RGBA, v annotation.Mosaic, scale float64) {
	if src == nil {
		return
	}
	region := scaleRect(v.X, v.Y, v.W, v.H, scale).Intersect(dst.Bounds()).Intersect(src.Bounds())
	if region.Empty() {
		return
	}
	cell := int(math.Round(float64(v.BlockSize) * scale))
	if cell < 1 {
		cell = 1
	}
	switch v.Style {
	case annotation.MosaicBlur:
		blurRegion(dst, src, region, cell)
	default:
		pixelate(dst, src, region, cell)
	}
}

// pixelate partitions region into cell-sized squares, samples one source
// pixel near each square's centre and flat-fills the square with it.
func pixelate(dst, src *image.RGBA, region image.Rectangle, cell int) {
	for y := region.Min.Y; y < region.Max.Y; y += cell {
		for x := region.Min.X; x < region.Max.X; x += cell {
			cx := x + cell/2
			cy := y + cell/2
			if cx >= region.Max.X {
				cx = region.Max.X - 1
			}
			if cy >= region.Max.Y {
				cy = region.Max.Y - 1
			}
			sample := src.RGBAAt(cx, cy)
			maxX := x + cell
			if maxX > region.Max.X {
				maxX = region.Max.X
			}
			maxY := y + cell
			if maxY > region.Max.Y {
				maxY = region.Max.Y
			}
			for py := y; py < maxY; py++ {
				for px := x; px < maxX; px++ {
					dst.SetRGBA(px, py, sample)
				}
			}
		}
	}
}

// blurRegion copies a box-blurred version of the source region into dst
// using two separable passes over per-channel prefix sums.
func blurRegion(dst, src *image.RGBA, region image.Rectangle, radius int) {
	w := region.Dx()
	h := region.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	if radius < 1 {
		radius = 1
	}

	// Horizontal pass into a scratch buffer.
	tmp := make([][4]int, w*h)
	for y := 0; y < h; y++ {
		prefix := make([][4]int, w+1)
		for x := 0; x < w; x++ {
			c := src.RGBAAt(region.Min.X+x, region.Min.Y+y)
			prefix[x+1] = [4]int{
				prefix[x][0] + int(c.R),
				prefix[x][1] + int(c.G),
				prefix[x][2] + int(c.B),
				prefix[x][3] + int(c.A),
			}
		}
		for x := 0; x < w; x++ {
			x0 := x - radius
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + radius
			if x1 >= w {
				x1 = w - 1
			}
			n := x1 - x0 + 1
			for ch := 0; ch < 4; ch++ {
				tmp[y*w+x][ch] = (prefix[x1+1][ch] - prefix[x0][ch]) / n
			}
		}
	}

	// Vertical pass writes the result into dst.
	for x := 0; x < w; x++ {
		prefix := make([][4]int, h+1)
		for y := 0; y < h; y++ {
			for ch := 0; ch < 4; ch++ {
				prefix[y+1][ch] = prefix[y][ch] + tmp[y*w+x][ch]
			}
		}
		for y := 0; y < h; y++ {
			y0 := y - radius
			if y0 < 0 {
				y0 = 0
			}
			y1 := y + radius
			if y1 >= h {
				y1 = h - 1
			}
			n := y1 - y0 + 1
			dst.SetRGBA(region.Min.X+x, region.Min.Y+y, color.RGBA{
				R: uint8((prefix[y1+1][0] - prefix[y0][0]) / n),
				G: uint8((prefix[y1+1][1] - prefix[y0][1]) / n),
				B: uint8((prefix[y1+1][2] - prefix[y0][2]) / n),
				A: uint8((prefix[y1+1][3] - prefix[y0][3]) / n),
			})
		}
	}
}
