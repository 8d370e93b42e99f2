package editor

import (
	"math"

	"github.com/itsharex/lovshot/internal/annotation"
)

// hitSlop widens thin targets (arrow strokes, small text) so they remain
// clickable.
const hitSlop = 4.0

// Bounds returns the logical bounding box of a shape as x, y, w, h. Text
// bounds are an estimate from the font size since exact metrics belong to
// the rendering collaborator.
func Bounds(sh annotation.Shape) (x, y, w, h float64) {
	switch v := sh.(type) {
	case annotation.Rect:
		return v.X, v.Y, v.W, v.H
	case annotation.Mosaic:
		return v.X, v.Y, v.W, v.H
	case annotation.Arrow:
		x = math.Min(v.X1, v.X2)
		y = math.Min(v.Y1, v.Y2)
		return x, y, math.Abs(v.X2 - v.X1), math.Abs(v.Y2 - v.Y1)
	case annotation.Text:
		w = v.FontSize * 0.6 * float64(len([]rune(v.Text)))
		if w < v.FontSize {
			w = v.FontSize
		}
		h = v.FontSize * 1.2
		return v.X, v.Y - v.FontSize, w, h
	}
	return 0, 0, 0, 0
}

// HitTest returns the id of the topmost shape under p, or "" when the point
// hits empty canvas. Shapes later in the list are drawn on top and win ties.
func HitTest(shapes []annotation.Shape, p Point) string {
	for i := len(shapes) - 1; i >= 0; i-- {
		if hits(shapes[i], p) {
			return shapes[i].ID()
		}
	}
	return ""
}

func hits(sh annotation.Shape, p Point) bool {
	if a, ok := sh.(annotation.Arrow); ok {
		tol := hitSlop + float64(a.StrokeWidth)
		return segmentDistance(a.X1, a.Y1, a.X2, a.Y2, p) <= tol
	}
	x, y, w, h := Bounds(sh)
	return p.X >= x-hitSlop && p.X <= x+w+hitSlop &&
		p.Y >= y-hitSlop && p.Y <= y+h+hitSlop
}

// segmentDistance returns the distance from p to the segment (x1,y1)-(x2,y2).
func segmentDistance(x1, y1, x2, y2 float64, p Point) float64 {
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-x1, p.Y-y1)
	}
	t := ((p.X-x1)*dx + (p.Y-y1)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(x1+t*dx), p.Y-(y1+t*dy))
}

// HandleKind names a draggable control exposed on a selected shape.
type HandleKind int

const (
	HandleTopLeft HandleKind = iota
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleArrowTail
	HandleArrowHead
)

// Handle is one draggable control point on a selected shape.
type Handle struct {
	Kind HandleKind
	At   Point
}

// HandlesFor returns the control points the canvas must expose for a shape.
// Arrows get two endpoint handles instead of a bounding-box transformer.
// Text gets no resize handles at all, only drag-to-move once non-empty; box
// shapes get the standard eight.
func HandlesFor(sh annotation.Shape) []Handle {
	switch v := sh.(type) {
	case annotation.Arrow:
		return []Handle{
			{Kind: HandleArrowTail, At: Point{X: v.X1, Y: v.Y1}},
			{Kind: HandleArrowHead, At: Point{X: v.X2, Y: v.Y2}},
		}
	case annotation.Text:
		return nil
	}
	x, y, w, h := Bounds(sh)
	cx := x + w/2
	cy := y + h/2
	return []Handle{
		{Kind: HandleTopLeft, At: Point{X: x, Y: y}},
		{Kind: HandleTop, At: Point{X: cx, Y: y}},
		{Kind: HandleTopRight, At: Point{X: x + w, Y: y}},
		{Kind: HandleRight, At: Point{X: x + w, Y: cy}},
		{Kind: HandleBottomRight, At: Point{X: x + w, Y: y + h}},
		{Kind: HandleBottom, At: Point{X: cx, Y: y + h}},
		{Kind: HandleBottomLeft, At: Point{X: x, Y: y + h}},
		{Kind: HandleLeft, At: Point{X: x, Y: cy}},
	}
}
