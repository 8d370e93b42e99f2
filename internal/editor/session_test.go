package editor

import (
	"testing"
	"time"

	"github.com/itsharex/lovshot/internal/annotation"
)

func newTestSession() (*Session, *time.Time) {
	s := NewSession(DefaultOptions())
	now := time.Unix(1700000000, 0)
	s.now = func() time.Time { return now }
	return s, &now
}

func drag(s *Session, from, to Point) {
	s.PointerDown(from)
	s.PointerMove(to)
	s.PointerUp(to)
}

func TestTinyRectIsDiscarded(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolRect)
	drag(s, Point{10, 10}, Point{12, 12})
	if s.Store().Len() != 0 {
		t.Fatalf("a 2x2 rect must not be committed, got %d shapes", s.Store().Len())
	}
	if s.Phase() != PhaseIdle {
		t.Fatalf("expected PhaseIdle after discard, got %v", s.Phase())
	}
}

func TestRectAboveThresholdCommits(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolRect)
	drag(s, Point{10, 10}, Point{20, 20})
	if s.Store().Len() != 1 {
		t.Fatalf("a 10x10 rect must be committed, got %d shapes", s.Store().Len())
	}
	r := s.Store().Annotations()[0].(annotation.Rect)
	if r.X != 10 || r.Y != 10 || r.W != 10 || r.H != 10 {
		t.Fatalf("unexpected geometry: %+v", r)
	}
	if s.Phase() != PhaseSelected || s.Store().Selected() != r.Id {
		t.Fatal("committed shape should be selected")
	}
}

func TestDrawNormalizesReverseDrag(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolMosaic)
	drag(s, Point{50, 50}, Point{20, 30})
	m := s.Store().Annotations()[0].(annotation.Mosaic)
	if m.X != 20 || m.Y != 30 || m.W != 30 || m.H != 20 {
		t.Fatalf("reverse drag not normalized: %+v", m)
	}
}

func TestArrowLengthThreshold(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolArrow)
	drag(s, Point{0, 0}, Point{0, 5})
	if s.Store().Len() != 0 {
		t.Fatal("a length-5 arrow must be discarded")
	}
	drag(s, Point{0, 0}, Point{0, 15})
	if s.Store().Len() != 1 {
		t.Fatal("a length-15 arrow must be committed")
	}
	a := s.Store().Annotations()[0].(annotation.Arrow)
	if a.X1 != 0 || a.Y1 != 0 || a.X2 != 0 || a.Y2 != 15 {
		t.Fatalf("arrow start must stay anchored: %+v", a)
	}
}

func TestDuplicatePointerUpDoesNotDoubleCommit(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolRect)
	s.PointerDown(Point{0, 0})
	s.PointerMove(Point{30, 30})
	s.PointerUp(Point{30, 30})
	// A canvas-level release arriving after the window-level one.
	s.PointerUp(Point{30, 30})
	if s.Store().Len() != 1 {
		t.Fatalf("duplicate pointer-up committed twice: %d shapes", s.Store().Len())
	}
	undo := 0
	for s.Store().Undo() {
		undo++
	}
	if undo != 1 {
		t.Fatalf("expected a single history entry for the drag, got %d", undo)
	}
}

func TestTextEmptyDeleteOnConfirm(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolText)
	s.PointerDown(Point{40, 40})
	if s.Phase() != PhaseEditingText {
		t.Fatal("text tool must enter editing immediately")
	}
	if s.Store().Len() != 1 {
		t.Fatal("text shape must be inserted immediately, even empty")
	}
	s.KeyEnter()
	if s.Store().Len() != 0 {
		t.Fatal("explicit confirm of an empty text must delete it")
	}
	if s.Phase() != PhaseIdle {
		t.Fatalf("expected PhaseIdle, got %v", s.Phase())
	}
}

func TestTextEmptyBlurDefersDelete(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolText)
	s.PointerDown(Point{40, 40})
	s.Blur()
	if s.Store().Len() != 1 {
		t.Fatal("blur with empty text must keep the shape for resumed editing")
	}
	if s.Phase() != PhaseEditingText {
		t.Fatal("edit session must stay open after a deferred blur")
	}
	// A later explicit confirm can still delete it.
	s.KeyEnter()
	if s.Store().Len() != 0 {
		t.Fatal("explicit confirm after deferred blur must delete the empty text")
	}
}

func TestTextCommitNonEmpty(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolText)
	s.PointerDown(Point{40, 40})
	id := s.EditingID()
	s.SetDraft("hello")
	s.KeyEnter()
	sh, ok := s.Store().Find(id)
	if !ok {
		t.Fatal("committed text missing")
	}
	if sh.(annotation.Text).Text != "hello" {
		t.Fatalf("unexpected text: %+v", sh)
	}
	if s.Phase() != PhaseSelected {
		t.Fatalf("expected PhaseSelected, got %v", s.Phase())
	}
}

func TestEscapeDeletesRegardlessOfContent(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolText)
	s.PointerDown(Point{40, 40})
	s.SetDraft("do not keep")
	s.KeyEscape()
	if s.Store().Len() != 0 {
		t.Fatal("escape must delete the text shape even with content")
	}
}

func TestCompositionSuppressesEnterAndEscape(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolText)
	s.PointerDown(Point{40, 40})
	s.SetDraft("中")
	s.SetComposing(true)
	s.KeyEnter()
	if s.Phase() != PhaseEditingText {
		t.Fatal("enter during composition must be ignored")
	}
	s.KeyEscape()
	if s.Store().Len() != 1 {
		t.Fatal("escape during composition must be ignored")
	}
	s.SetComposing(false)
	s.KeyEnter()
	if s.Phase() != PhaseSelected {
		t.Fatal("enter after composition ends must commit")
	}
	if !IsCompositionKey(229) || IsCompositionKey(13) {
		t.Fatal("key code 229 convention broken")
	}
}

func TestPointerDownResolvesPendingEdit(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolText)
	s.PointerDown(Point{40, 40})
	id := s.EditingID()
	s.SetDraft("kept")
	// Switching to drawing elsewhere must commit the edit first.
	s.SetTool(ToolRect)
	drag(s, Point{100, 100}, Point{150, 150})
	sh, ok := s.Store().Find(id)
	if !ok {
		t.Fatal("pending edit was dropped by the next pointer-down")
	}
	if sh.(annotation.Text).Text != "kept" {
		t.Fatalf("pending edit not committed: %+v", sh)
	}
	if s.Store().Len() != 2 {
		t.Fatalf("expected text + rect, got %d", s.Store().Len())
	}
}

func TestSelectToolClickAndClear(t *testing.T) {
	s, now := newTestSession()
	s.SetTool(ToolRect)
	drag(s, Point{10, 10}, Point{60, 60})
	id := s.Store().Annotations()[0].ID()

	// Let the post-drag click suppression lapse before clicking.
	*now = now.Add(100 * time.Millisecond)
	s.SetTool(ToolSelect)
	s.PointerDown(Point{200, 200})
	if s.Store().Selected() != "" || s.Phase() != PhaseIdle {
		t.Fatal("click on empty canvas must clear selection")
	}
	s.PointerDown(Point{30, 30})
	if s.Store().Selected() != id || s.Phase() != PhaseSelected {
		t.Fatal("click on the shape must select it")
	}
}

func TestClickSuppressionAfterDrag(t *testing.T) {
	s, now := newTestSession()
	s.SetTool(ToolRect)
	drag(s, Point{10, 10}, Point{60, 60})
	s.SetTool(ToolSelect)

	// Immediately after the drag the click is swallowed.
	s.PointerDown(Point{200, 200})
	if s.Store().Selected() == "" {
		t.Fatal("click within the settle window must be suppressed")
	}
	// Once the settle delay passes the same click clears the selection.
	*now = now.Add(100 * time.Millisecond)
	s.PointerDown(Point{200, 200})
	if s.Store().Selected() != "" {
		t.Fatal("click after the settle window must be processed")
	}
}

func TestResizeAbsorbsScale(t *testing.T) {
	s, now := newTestSession()
	s.SetTool(ToolRect)
	drag(s, Point{0, 0}, Point{40, 30})
	id := s.Store().Annotations()[0].ID()
	*now = now.Add(time.Second)

	// A transform reporting scale 2x1.5 arrives as already-multiplied w/h.
	s.ResizeShape(id, 0, 0, 80, 45)
	r, _ := s.Store().Find(id)
	rect := r.(annotation.Rect)
	if rect.W != 80 || rect.H != 45 {
		t.Fatalf("resize not applied: %+v", rect)
	}
	// A second identical-scale transform must not compound.
	s.ResizeShape(id, 0, 0, 80, 45)
	r, _ = s.Store().Find(id)
	if rect = r.(annotation.Rect); rect.W != 80 || rect.H != 45 {
		t.Fatalf("scale compounded across transforms: %+v", rect)
	}
}

func TestArrowEndpointHandles(t *testing.T) {
	s, _ := newTestSession()
	s.SetTool(ToolArrow)
	drag(s, Point{0, 0}, Point{30, 40})
	id := s.Store().Annotations()[0].ID()

	sh, _ := s.Store().Find(id)
	handles := HandlesFor(sh)
	if len(handles) != 2 {
		t.Fatalf("arrows expose two endpoint handles, got %d", len(handles))
	}
	if handles[0].Kind != HandleArrowTail || handles[1].Kind != HandleArrowHead {
		t.Fatalf("unexpected handle kinds: %+v", handles)
	}

	s.MoveArrowEndpoint(id, 0, Point{5, 5})
	sh, _ = s.Store().Find(id)
	a := sh.(annotation.Arrow)
	if a.X1 != 5 || a.Y1 != 5 || a.X2 != 30 || a.Y2 != 40 {
		t.Fatalf("tail drag wrong: %+v", a)
	}
}

func TestTextHasNoResizeHandles(t *testing.T) {
	sh := annotation.Text{Id: annotation.NewID(), X: 0, Y: 0, Text: "hi", FontSize: 16}
	if h := HandlesFor(sh); h != nil {
		t.Fatalf("text must expose no resize handles, got %d", len(h))
	}
	box := annotation.Rect{Id: annotation.NewID(), W: 10, H: 10}
	if h := HandlesFor(box); len(h) != 8 {
		t.Fatalf("boxes expose eight handles, got %d", len(h))
	}
}

func TestDoubleClickEntersTextEditing(t *testing.T) {
	s, now := newTestSession()
	s.SetTool(ToolText)
	s.PointerDown(Point{40, 40})
	s.SetDraft("note")
	s.KeyEnter()
	*now = now.Add(time.Second)

	s.SetTool(ToolSelect)
	s.DoubleClick(Point{42, 38})
	if s.Phase() != PhaseEditingText {
		t.Fatal("double-click on text must enter editing")
	}
	if s.Draft() != "note" {
		t.Fatalf("draft must seed from the existing text, got %q", s.Draft())
	}
}

func TestMoveShapeKeepsSelection(t *testing.T) {
	s, now := newTestSession()
	s.SetTool(ToolRect)
	drag(s, Point{0, 0}, Point{40, 40})
	id := s.Store().Annotations()[0].ID()
	*now = now.Add(time.Second)

	s.MoveShape(id, 15, -5)
	sh, _ := s.Store().Find(id)
	r := sh.(annotation.Rect)
	if r.X != 15 || r.Y != -5 {
		t.Fatalf("move wrong: %+v", r)
	}
	if s.Store().Selected() != id {
		t.Fatal("moved shape should stay selected")
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	bottom := annotation.Rect{Id: "a", X: 0, Y: 0, W: 100, H: 100}
	top := annotation.Rect{Id: "b", X: 40, Y: 40, W: 20, H: 20}
	shapes := []annotation.Shape{bottom, top}
	if got := HitTest(shapes, Point{50, 50}); got != "b" {
		t.Fatalf("topmost shape should win, got %q", got)
	}
	if got := HitTest(shapes, Point{10, 10}); got != "a" {
		t.Fatalf("expected bottom shape, got %q", got)
	}
	if got := HitTest(shapes, Point{300, 300}); got != "" {
		t.Fatalf("expected empty hit, got %q", got)
	}
}
