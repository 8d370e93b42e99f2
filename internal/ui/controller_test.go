package ui

import (
	"image"
	"image/color"
	"testing"

	"github.com/itsharex/lovshot/internal/annotation"
	"github.com/itsharex/lovshot/internal/editor"
	"github.com/itsharex/lovshot/internal/theme"
)

func newTestController() *Controller {
	return NewController(editor.NewSession(editor.DefaultOptions()))
}

func addRect(c *Controller) annotation.Rect {
	r := annotation.Rect{
		Id: annotation.NewID(),
		X:  20, Y: 20, W: 40, H: 30,
		Style:       annotation.RectSolid,
		Color:       color.RGBA{255, 0, 0, 255},
		StrokeWidth: 2,
	}
	c.Session().Store().Add(r)
	return r
}

func TestControllerDrawGesture(t *testing.T) {
	c := newTestController()
	c.Session().SetTool(editor.ToolRect)

	c.Down(editor.Point{X: 10, Y: 10})
	if !c.Dragging() {
		t.Fatal("expected an open gesture")
	}
	c.Move(editor.Point{X: 30, Y: 25})
	c.Up(editor.Point{X: 30, Y: 25})

	if got := c.Session().Store().Len(); got != 1 {
		t.Fatalf("expected 1 shape, got %d", got)
	}
	if c.Dragging() {
		t.Error("gesture should be closed after Up")
	}
}

func TestControllerMoveCommitsOnce(t *testing.T) {
	c := newTestController()
	r := addRect(c)
	c.Session().SetTool(editor.ToolSelect)

	c.Down(editor.Point{X: 30, Y: 30})
	if c.Session().Store().Selected() != r.Id {
		t.Fatal("click should select the rect")
	}

	c.Move(editor.Point{X: 40, Y: 35})
	c.Move(editor.Point{X: 50, Y: 40})
	c.Up(editor.Point{X: 50, Y: 40})

	got, _ := c.Session().Store().Find(r.Id)
	moved := got.(annotation.Rect)
	if moved.X != 40 || moved.Y != 30 {
		t.Errorf("rect at (%v,%v), want (40,30)", moved.X, moved.Y)
	}

	// The whole drag is one history entry: a single undo restores the
	// original position.
	if !c.Session().Store().Undo() {
		t.Fatal("undo failed")
	}
	got, _ = c.Session().Store().Find(r.Id)
	back := got.(annotation.Rect)
	if back.X != 20 || back.Y != 20 {
		t.Errorf("after undo rect at (%v,%v), want (20,20)", back.X, back.Y)
	}
}

func TestControllerPreviewDuringMove(t *testing.T) {
	c := newTestController()
	r := addRect(c)
	c.Session().SetTool(editor.ToolSelect)

	c.Down(editor.Point{X: 30, Y: 30})
	c.Move(editor.Point{X: 45, Y: 38})

	ghost, ok := c.Preview()
	if !ok {
		t.Fatal("expected a preview mid-drag")
	}
	pr := ghost.(annotation.Rect)
	if pr.X != 35 || pr.Y != 28 {
		t.Errorf("preview at (%v,%v), want (35,28)", pr.X, pr.Y)
	}

	// The store is untouched until release.
	got, _ := c.Session().Store().Find(r.Id)
	if got.(annotation.Rect).X != 20 {
		t.Error("store must not change mid-drag")
	}
}

func TestControllerResizeViaHandle(t *testing.T) {
	c := newTestController()
	r := addRect(c)
	c.Session().SetTool(editor.ToolSelect)
	c.Session().Store().Select(r.Id)

	// Bottom-right handle sits at (60, 50).
	c.Down(editor.Point{X: 60, Y: 50})
	c.Up(editor.Point{X: 80, Y: 60})

	got, _ := c.Session().Store().Find(r.Id)
	resized := got.(annotation.Rect)
	if resized.W != 60 || resized.H != 40 {
		t.Errorf("resized to %vx%v, want 60x40", resized.W, resized.H)
	}
	if resized.X != 20 || resized.Y != 20 {
		t.Errorf("origin moved to (%v,%v)", resized.X, resized.Y)
	}
}

func TestControllerArrowEndpointDrag(t *testing.T) {
	c := newTestController()
	a := annotation.Arrow{
		Id: annotation.NewID(),
		X1: 10, Y1: 10, X2: 100, Y2: 100,
		Style:       annotation.ArrowSingle,
		Color:       color.RGBA{0, 0, 255, 255},
		StrokeWidth: 2,
	}
	c.Session().Store().Add(a)
	c.Session().SetTool(editor.ToolSelect)
	c.Session().Store().Select(a.Id)

	c.Down(editor.Point{X: 100, Y: 100}) // head handle
	c.Up(editor.Point{X: 120, Y: 90})

	got, _ := c.Session().Store().Find(a.Id)
	head := got.(annotation.Arrow)
	if head.X2 != 120 || head.Y2 != 90 {
		t.Errorf("head at (%v,%v), want (120,90)", head.X2, head.Y2)
	}
	if head.X1 != 10 || head.Y1 != 10 {
		t.Errorf("tail moved to (%v,%v)", head.X1, head.Y1)
	}
}

func TestComposeFrameDrawsSelection(t *testing.T) {
	c := newTestController()
	r := addRect(c)
	c.Session().SetTool(editor.ToolSelect)
	c.Session().Store().Select(r.Id)

	base := image.NewRGBA(image.Rect(0, 0, 120, 120))
	th := theme.Default()
	frame := ComposeFrame(base, c, th, 1)

	found := false
	b := frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if frame.RGBAAt(x, y) == th.SelectionOutline {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("selection outline not drawn")
	}
}

func TestCheckerAlternates(t *testing.T) {
	th := theme.Default()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	Checker(img, th, 8)

	if img.RGBAAt(0, 0) != th.CheckerLight {
		t.Errorf("cell (0,0) = %v", img.RGBAAt(0, 0))
	}
	if img.RGBAAt(8, 0) != th.CheckerDark {
		t.Errorf("cell (8,0) = %v", img.RGBAAt(8, 0))
	}
	if img.RGBAAt(8, 8) != th.CheckerLight {
		t.Errorf("cell (8,8) = %v", img.RGBAAt(8, 8))
	}
}
