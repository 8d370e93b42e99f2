// Package editor implements the in-canvas editing state machine for an
// annotation session: draw, select, transform and text-edit lifecycles over
// an annotation.Store.
package editor

import (
	"image/color"
	"math"
	"time"

	"github.com/itsharex/lovshot/internal/annotation"
)

// Tool selects what a pointer drag on empty canvas does.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRect
	ToolMosaic
	ToolArrow
	ToolText
)

// Phase is the lifecycle state of the session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDrawing
	PhaseSelected
	PhaseEditingText
)

// Point is a position in logical canvas coordinates.
type Point struct{ X, Y float64 }

const (
	// minBoxSize is the commit threshold for box shapes; both dimensions
	// must exceed it or the live shape is discarded on pointer-up.
	minBoxSize = 5.0
	// minArrowLen is the commit threshold for the arrow's Euclidean length.
	minArrowLen = 10.0
	// clickSettle is how long a click is suppressed after a drag commits,
	// so the release of a transform is not read as a fresh selection.
	clickSettle = 50 * time.Millisecond
)

// compositionKeyCode is the key code browsers and IMEs report while a
// multi-keystroke composition is in progress.
const compositionKeyCode = 229

// IsCompositionKey reports whether code is the IME composition placeholder.
func IsCompositionKey(code int) bool { return code == compositionKeyCode }

// Options carries the style applied to newly drawn shapes.
type Options struct {
	Color       color.RGBA
	StrokeWidth int
	FontSize    float64
	BlockSize   int
	RectStyle   annotation.RectStyle
	MosaicStyle annotation.MosaicStyle
	ArrowStyle  annotation.ArrowStyle
}

// DefaultOptions returns the styles used when a session starts.
func DefaultOptions() Options {
	return Options{
		Color:       color.RGBA{R: 255, A: 255},
		StrokeWidth: 2,
		FontSize:    16,
		BlockSize:   12,
		RectStyle:   annotation.RectSolid,
		MosaicStyle: annotation.MosaicPixelate,
		ArrowStyle:  annotation.ArrowSingle,
	}
}

// Session is the per-editing-session context. All transient interaction
// flags (composition, drag tracking, click suppression) live here rather
// than in package globals. Not safe for concurrent use; every transition
// runs on the UI event loop.
type Session struct {
	store *annotation.Store
	opts  Options

	tool  Tool
	phase Phase

	anchor  Point
	live    annotation.Shape
	editing string
	draft   string

	composing   bool
	pointerDown bool

	suppressUntil time.Time
	now           func() time.Time
}

// NewSession creates a session over a fresh empty document.
func NewSession(opts Options) *Session {
	return &Session{
		store: annotation.NewStore(),
		opts:  opts,
		tool:  ToolSelect,
		now:   time.Now,
	}
}

// Store exposes the underlying document for rendering and export.
func (s *Session) Store() *annotation.Store { return s.store }

// Phase returns the current lifecycle state.
func (s *Session) Phase() Phase { return s.phase }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetTool switches the active tool. A pending text edit is resolved first so
// the edit is never silently dropped.
func (s *Session) SetTool(t Tool) {
	if s.phase == PhaseEditingText {
		s.resolvePendingEdit()
	}
	s.tool = t
	if s.phase == PhaseDrawing {
		s.live = nil
		s.pointerDown = false
		s.phase = PhaseIdle
	}
}

// SetOptions replaces the styles applied to newly drawn shapes.
func (s *Session) SetOptions(opts Options) { s.opts = opts }

// Options returns the styles applied to newly drawn shapes.
func (s *Session) Options() Options { return s.opts }

// Live returns the in-progress shape during an active draw, if any.
func (s *Session) Live() (annotation.Shape, bool) {
	if s.phase != PhaseDrawing || s.live == nil {
		return nil, false
	}
	return s.live, true
}

// EditingID returns the id of the text shape under edit, or "".
func (s *Session) EditingID() string {
	if s.phase != PhaseEditingText {
		return ""
	}
	return s.editing
}

// Draft returns the text currently being typed into the edited text shape.
func (s *Session) Draft() string { return s.draft }

// SetDraft replaces the text under edit.
func (s *Session) SetDraft(text string) {
	if s.phase == PhaseEditingText {
		s.draft = text
	}
}

// SetComposing records whether an input-method composition is in progress
// (compositionstart/compositionend, or a key event with code 229). While
// composing, Enter and Escape are ignored so a composing keystroke cannot be
// misread as commit or cancel.
func (s *Session) SetComposing(active bool) { s.composing = active }

// Composing reports whether a composition is in progress.
func (s *Session) Composing() bool { return s.composing }

// PointerDown starts a drag or selection at p. A pending text edit is
// resolved before the event is processed as a fresh transition.
func (s *Session) PointerDown(p Point) {
	if s.phase == PhaseEditingText {
		s.resolvePendingEdit()
	}
	switch s.tool {
	case ToolSelect:
		if s.now().Before(s.suppressUntil) {
			return
		}
		hit := HitTest(s.store.Annotations(), p)
		if hit == "" {
			s.store.Select("")
			s.phase = PhaseIdle
			return
		}
		// Clicking the already-selected text shape re-enters editing
		// once it has content.
		if hit == s.store.Selected() {
			if txt, ok := s.store.Find(hit); ok {
				if t, isText := txt.(annotation.Text); isText && t.Text != "" {
					s.beginTextEdit(t)
					return
				}
			}
		}
		s.store.Select(hit)
		s.phase = PhaseSelected
	case ToolRect:
		s.beginDraw(p, annotation.Rect{
			Id:          annotation.NewID(),
			X:           p.X,
			Y:           p.Y,
			Style:       s.opts.RectStyle,
			Color:       s.opts.Color,
			StrokeWidth: s.opts.StrokeWidth,
		})
	case ToolMosaic:
		s.beginDraw(p, annotation.Mosaic{
			Id:        annotation.NewID(),
			X:         p.X,
			Y:         p.Y,
			Style:     s.opts.MosaicStyle,
			BlockSize: s.opts.BlockSize,
		})
	case ToolArrow:
		s.beginDraw(p, annotation.Arrow{
			Id:          annotation.NewID(),
			X1:          p.X,
			Y1:          p.Y,
			X2:          p.X,
			Y2:          p.Y,
			Style:       s.opts.ArrowStyle,
			Color:       s.opts.Color,
			StrokeWidth: s.opts.StrokeWidth,
		})
	case ToolText:
		// Text is committed immediately, even empty, to seed the edit
		// session; it is removed again if the edit confirms empty.
		t := annotation.Text{
			Id:       annotation.NewID(),
			X:        p.X,
			Y:        p.Y,
			FontSize: s.opts.FontSize,
			Color:    s.opts.Color,
		}
		s.store.Add(t)
		s.store.Select(t.Id)
		s.beginTextEdit(t)
	}
}

func (s *Session) beginDraw(p Point, live annotation.Shape) {
	s.anchor = p
	s.live = live
	s.pointerDown = true
	s.phase = PhaseDrawing
}

func (s *Session) beginTextEdit(t annotation.Text) {
	s.editing = t.Id
	s.draft = t.Text
	s.phase = PhaseEditingText
}

// PointerMove updates the live shape geometry during an active draw. Box
// shapes take x=min, y=min, w=|dx|, h=|dy|; arrows move only their head.
func (s *Session) PointerMove(p Point) {
	if s.phase != PhaseDrawing || !s.pointerDown {
		return
	}
	switch live := s.live.(type) {
	case annotation.Rect:
		live.X = math.Min(s.anchor.X, p.X)
		live.Y = math.Min(s.anchor.Y, p.Y)
		live.W = math.Abs(p.X - s.anchor.X)
		live.H = math.Abs(p.Y - s.anchor.Y)
		s.live = live
	case annotation.Mosaic:
		live.X = math.Min(s.anchor.X, p.X)
		live.Y = math.Min(s.anchor.Y, p.Y)
		live.W = math.Abs(p.X - s.anchor.X)
		live.H = math.Abs(p.Y - s.anchor.Y)
		s.live = live
	case annotation.Arrow:
		live.X2 = p.X
		live.Y2 = p.Y
		s.live = live
	}
}

// PointerUp finishes the drag at p, committing the live shape when it clears
// the minimum-size threshold and discarding it otherwise. One drag has one
// authoritative pointer-up: once the window-level listener delivered it,
// further pointer-ups for the same drag are no-ops.
func (s *Session) PointerUp(p Point) {
	if !s.pointerDown {
		return
	}
	if s.phase != PhaseDrawing || s.live == nil {
		s.pointerDown = false
		return
	}
	s.PointerMove(p)
	s.pointerDown = false
	live := s.live
	s.live = nil

	committed := false
	switch sh := live.(type) {
	case annotation.Rect:
		committed = sh.W > minBoxSize && sh.H > minBoxSize
	case annotation.Mosaic:
		committed = sh.W > minBoxSize && sh.H > minBoxSize
	case annotation.Arrow:
		committed = sh.Length() > minArrowLen
	}
	if !committed {
		s.phase = PhaseIdle
		return
	}
	s.store.Add(live)
	s.store.Select(live.ID())
	s.phase = PhaseSelected
	s.suppressUntil = s.now().Add(clickSettle)
}

// MoveShape translates the shape by (dx,dy) and records a history snapshot.
func (s *Session) MoveShape(id string, dx, dy float64) {
	s.store.Update(id, func(sh annotation.Shape) annotation.Shape {
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
	})
	s.store.Select(id)
	s.phase = PhaseSelected
	s.suppressUntil = s.now().Add(clickSettle)
}

// ResizeShape applies a transform result to a box shape. Scale factors are
// absorbed into width and height here; the caller must reset its transform
// scale to 1 afterwards so scale never compounds across transforms.
func (s *Session) ResizeShape(id string, x, y, w, h float64) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s.store.Update(id, func(sh annotation.Shape) annotation.Shape {
		switch v := sh.(type) {
		case annotation.Rect:
			v.X, v.Y, v.W, v.H = x, y, w, h
			return v
		case annotation.Mosaic:
			v.X, v.Y, v.W, v.H = x, y, w, h
			return v
		}
		return sh
	})
	s.store.Select(id)
	s.phase = PhaseSelected
	s.suppressUntil = s.now().Add(clickSettle)
}

// MoveArrowEndpoint drags one of the two arrow endpoint handles. end 0 is
// the tail, end 1 the head.
func (s *Session) MoveArrowEndpoint(id string, end int, p Point) {
	s.store.Update(id, func(sh annotation.Shape) annotation.Shape {
		a, ok := sh.(annotation.Arrow)
		if !ok {
			return sh
		}
		if end == 0 {
			a.X1, a.Y1 = p.X, p.Y
		} else {
			a.X2, a.Y2 = p.X, p.Y
		}
		return a
	})
	s.store.Select(id)
	s.phase = PhaseSelected
	s.suppressUntil = s.now().Add(clickSettle)
}

// DoubleClick enters text editing on a text shape regardless of select-tool
// gating or current selection.
func (s *Session) DoubleClick(p Point) {
	if s.phase == PhaseEditingText {
		s.resolvePendingEdit()
	}
	hit := HitTest(s.store.Annotations(), p)
	if hit == "" {
		return
	}
	sh, ok := s.store.Find(hit)
	if !ok {
		return
	}
	if t, isText := sh.(annotation.Text); isText {
		s.store.Select(t.Id)
		s.beginTextEdit(t)
	}
}

// KeyEnter confirms the pending text edit. A non-empty draft is committed; an
// empty draft deletes the shape. Ignored while a composition is in progress.
func (s *Session) KeyEnter() {
	if s.phase != PhaseEditingText || s.composing {
		return
	}
	s.commitText(true)
}

// KeyEscape discards the pending text edit and deletes the shape regardless
// of its content. Ignored while a composition is in progress.
func (s *Session) KeyEscape() {
	if s.phase != PhaseEditingText || s.composing {
		return
	}
	s.store.Remove(s.editing)
	s.editing = ""
	s.draft = ""
	s.phase = PhaseIdle
}

// Blur commits the pending text edit implicitly. An empty draft is kept
// rather than deleted so a transient focus loss (IME popups and the like)
// does not destroy an in-progress edit.
func (s *Session) Blur() {
	if s.phase != PhaseEditingText {
		return
	}
	s.commitText(false)
}

// commitText finishes the edit. explicit marks a deliberate confirm (Enter);
// only explicit confirms delete an empty text shape.
func (s *Session) commitText(explicit bool) {
	id := s.editing
	if s.draft != "" {
		draft := s.draft
		s.store.Update(id, func(sh annotation.Shape) annotation.Shape {
			t, ok := sh.(annotation.Text)
			if !ok {
				return sh
			}
			t.Text = draft
			return t
		})
		s.store.Select(id)
		s.editing = ""
		s.draft = ""
		s.phase = PhaseSelected
		return
	}
	if explicit {
		s.store.Remove(id)
		s.editing = ""
		s.draft = ""
		s.phase = PhaseIdle
		return
	}
	// Deferred delete: leave the empty shape and the edit session in place.
}

// resolvePendingEdit commits a non-empty draft or deletes the empty text
// shape before another transition is processed. Edits are never silently
// dropped by a subsequent click.
func (s *Session) resolvePendingEdit() {
	s.commitText(true)
}

// RemoveSelected deletes the selected shape, if any.
func (s *Session) RemoveSelected() {
	id := s.store.Selected()
	if id == "" {
		return
	}
	s.store.Remove(id)
	if s.phase == PhaseSelected {
		s.phase = PhaseIdle
	}
}

// Undo steps the document back one snapshot. A pending text edit is resolved
// first; selection clears either way.
func (s *Session) Undo() bool {
	if s.phase == PhaseEditingText {
		s.resolvePendingEdit()
	}
	ok := s.store.Undo()
	if ok {
		s.phase = PhaseIdle
	}
	return ok
}

// Redo steps the document forward one snapshot.
func (s *Session) Redo() bool {
	if s.phase == PhaseEditingText {
		s.resolvePendingEdit()
	}
	ok := s.store.Redo()
	if ok {
		s.phase = PhaseIdle
	}
	return ok
}

// Reset ends the session: document, selection and history are discarded.
func (s *Session) Reset() {
	s.store.Reset()
	s.phase = PhaseIdle
	s.live = nil
	s.editing = ""
	s.draft = ""
	s.pointerDown = false
	s.composing = false
}
