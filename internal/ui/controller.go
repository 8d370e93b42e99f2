// Package ui hosts the annotation editor in a desktop window.
package ui

import (
	"math"

	"github.com/itsharex/lovshot/internal/annotation"
	"github.com/itsharex/lovshot/internal/editor"
)

const handleSlop = 6.0

type dragKind int

const (
	dragNone dragKind = iota
	dragDraw          // session owns the gesture
	dragMove
	dragHandle
)

// Controller routes pointer gestures from the window into the editing
// session. Move and resize drags are previewed locally and committed as a
// single operation on release so each gesture costs one undo step.
type Controller struct {
	session *editor.Session

	kind   dragKind
	handle editor.HandleKind
	target string
	start  editor.Point
	cur    editor.Point
}

func NewController(s *editor.Session) *Controller {
	return &Controller{session: s}
}

func (c *Controller) Session() *editor.Session { return c.session }

// Down begins a gesture at p.
func (c *Controller) Down(p editor.Point) {
	c.start, c.cur = p, p

	if c.session.Tool() == editor.ToolSelect {
		if id := c.session.Store().Selected(); id != "" {
			if sh, ok := c.session.Store().Find(id); ok {
				if h, ok := handleAt(sh, p); ok {
					c.kind = dragHandle
					c.handle = h
					c.target = id
					return
				}
			}
		}
	}

	c.session.PointerDown(p)

	switch c.session.Tool() {
	case editor.ToolSelect:
		if id := c.session.Store().Selected(); id != "" {
			c.kind = dragMove
			c.target = id
		} else {
			c.kind = dragNone
		}
	default:
		c.kind = dragDraw
	}
}

// Move continues the gesture.
func (c *Controller) Move(p editor.Point) {
	c.cur = p
	if c.kind == dragDraw {
		c.session.PointerMove(p)
	}
}

// Up finishes the gesture, committing at most one store mutation.
func (c *Controller) Up(p editor.Point) {
	c.cur = p
	kind := c.kind
	c.kind = dragNone

	switch kind {
	case dragDraw:
		c.session.PointerUp(p)
	case dragMove:
		dx, dy := p.X-c.start.X, p.Y-c.start.Y
		if dx != 0 || dy != 0 {
			c.session.MoveShape(c.target, dx, dy)
		}
	case dragHandle:
		c.commitHandle(p)
	}
}

func (c *Controller) commitHandle(p editor.Point) {
	switch c.handle {
	case editor.HandleArrowTail:
		c.session.MoveArrowEndpoint(c.target, 0, p)
	case editor.HandleArrowHead:
		c.session.MoveArrowEndpoint(c.target, 1, p)
	default:
		sh, ok := c.session.Store().Find(c.target)
		if !ok {
			return
		}
		x, y, w, h := editor.Bounds(sh)
		nx, ny, nw, nh := resizeRect(x, y, w, h, c.handle, p.X-c.start.X, p.Y-c.start.Y)
		c.session.ResizeShape(c.target, nx, ny, nw, nh)
	}
}

// Preview returns the selected shape with the in-flight drag transform
// applied, for rendering while the gesture is still open.
func (c *Controller) Preview() (annotation.Shape, bool) {
	if c.kind != dragMove && c.kind != dragHandle {
		return nil, false
	}
	sh, ok := c.session.Store().Find(c.target)
	if !ok {
		return nil, false
	}
	dx, dy := c.cur.X-c.start.X, c.cur.Y-c.start.Y

	if c.kind == dragMove {
		return translateShape(sh, dx, dy), true
	}

	switch c.handle {
	case editor.HandleArrowTail, editor.HandleArrowHead:
		if a, ok := sh.(annotation.Arrow); ok {
			if c.handle == editor.HandleArrowTail {
				a.X1, a.Y1 = c.cur.X, c.cur.Y
			} else {
				a.X2, a.Y2 = c.cur.X, c.cur.Y
			}
			return a, true
		}
	default:
		x, y, w, h := editor.Bounds(sh)
		nx, ny, nw, nh := resizeRect(x, y, w, h, c.handle, dx, dy)
		switch v := sh.(type) {
		case annotation.Rect:
			v.X, v.Y, v.W, v.H = nx, ny, nw, nh
			return v, true
		case annotation.Mosaic:
			v.X, v.Y, v.W, v.H = nx, ny, nw, nh
			return v, true
		}
	}
	return sh, true
}

// Dragging reports whether a gesture is currently open.
func (c *Controller) Dragging() bool { return c.kind != dragNone }

func translateShape(sh annotation.Shape, dx, dy float64) annotation.Shape {
	switch v := sh.(type) {
	case annotation.Rect:
		v.X += dx
		v.Y += dy
		return v
	case annotation.Mosaic:
		v.X += dx
		v.Y += dy
		return v
	case annotation.Arrow:
		v.X1 += dx
		v.Y1 += dy
		v.X2 += dx
		v.Y2 += dy
		return v
	case annotation.Text:
		v.X += dx
		v.Y += dy
		return v
	}
	return sh
}

// resizeRect applies a handle drag delta to a rectangle. Opposite edges
// stay anchored; negative sizes are clamped by the session.
func resizeRect(x, y, w, h float64, handle editor.HandleKind, dx, dy float64) (float64, float64, float64, float64) {
	switch handle {
	case editor.HandleTopLeft:
		return x + dx, y + dy, w - dx, h - dy
	case editor.HandleTop:
		return x, y + dy, w, h - dy
	case editor.HandleTopRight:
		return x, y + dy, w + dx, h - dy
	case editor.HandleRight:
		return x, y, w + dx, h
	case editor.HandleBottomRight:
		return x, y, w + dx, h + dy
	case editor.HandleBottom:
		return x, y, w, h + dy
	case editor.HandleBottomLeft:
		return x + dx, y, w - dx, h + dy
	case editor.HandleLeft:
		return x + dx, y, w - dx, h
	}
	return x, y, w, h
}

func handleAt(sh annotation.Shape, p editor.Point) (editor.HandleKind, bool) {
	for _, h := range editor.HandlesFor(sh) {
		if math.Hypot(p.X-h.At.X, p.Y-h.At.Y) <= handleSlop {
			return h.Kind, true
		}
	}
	return 0, false
}
