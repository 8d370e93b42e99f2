package ui

import (
	"image"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"github.com/itsharex/lovshot/internal/editor"
	"github.com/itsharex/lovshot/internal/export"
	"github.com/itsharex/lovshot/internal/notify"
	"github.com/itsharex/lovshot/internal/theme"
)

const doubleClickWindow = 400 * time.Millisecond

// App is the interactive annotation editor window.
type App struct {
	image    *image.RGBA
	output   string
	theme    *theme.Theme
	scale    float64
	notifier *notify.Notifier

	session *editor.Session
	ctrl    *Controller
	onClose func()
}

// Option configures the App.
type Option func(*App)

func WithImage(img *image.RGBA) Option { return func(a *App) { a.image = img } }

func WithOutput(out string) Option { return func(a *App) { a.output = out } }

func WithTheme(th *theme.Theme) Option { return func(a *App) { a.theme = th } }

// WithScale sets the device pixel ratio between the logical editor
// coordinates and the captured pixels.
func WithScale(scale float64) Option { return func(a *App) { a.scale = scale } }

func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

func WithEditorOptions(opts editor.Options) Option {
	return func(a *App) { a.session.SetOptions(opts) }
}

func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App for annotating img.
func New(opts ...Option) *App {
	a := &App{
		theme:   theme.Default(),
		scale:   1,
		session: editor.NewSession(editor.DefaultOptions()),
	}
	a.ctrl = NewController(a.session)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Session exposes the editing session, mainly for tests.
func (a *App) Session() *editor.Session { return a.session }

// Run opens the window and blocks until it closes.
func (a *App) Run() { driver.Main(a.main) }

func (a *App) main(s screen.Screen) {
	if a.image == nil {
		log.Print("ui: no image to edit")
		return
	}
	if a.onClose != nil {
		defer a.onClose()
	}

	b := a.image.Bounds()
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  b.Dx(),
		Height: b.Dy(),
		Title:  "Lovshot",
	})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	var (
		buttonDown bool
		lastClick  time.Time
		lastPos    editor.Point
	)

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				a.session.Blur()
				w.Send(paint.Event{})
			}

		case mouse.Event:
			p := editor.Point{X: float64(e.X) / a.scale, Y: float64(e.Y) / a.scale}
			switch {
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				now := time.Now()
				if now.Sub(lastClick) < doubleClickWindow && samePoint(p, lastPos) {
					a.session.DoubleClick(p)
				} else {
					a.ctrl.Down(p)
				}
				lastClick, lastPos = now, p
				buttonDown = true
				w.Send(paint.Event{})
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				a.ctrl.Up(p)
				buttonDown = false
				w.Send(paint.Event{})
			case e.Direction == mouse.DirNone && buttonDown:
				a.ctrl.Move(p)
				w.Send(paint.Event{})
			}

		case key.Event:
			if e.Direction == key.DirRelease {
				break
			}
			if a.handleKey(e) {
				w.Send(paint.Event{})
			}

		case paint.Event:
			a.paint(s, w)
		}
	}
}

// handleKey reacts to a key press and reports whether a repaint is needed.
func (a *App) handleKey(e key.Event) bool {
	// Text editing captures the keyboard.
	if a.session.EditingID() != "" {
		switch e.Code {
		case key.CodeReturnEnter:
			a.session.KeyEnter()
		case key.CodeEscape:
			a.session.KeyEscape()
		case key.CodeDeleteBackspace:
			draft := a.session.Draft()
			if len(draft) > 0 {
				runes := []rune(draft)
				a.session.SetDraft(string(runes[:len(runes)-1]))
			}
		default:
			if e.Rune > 0 {
				a.session.SetDraft(a.session.Draft() + string(e.Rune))
			}
		}
		return true
	}

	if e.Modifiers&key.ModControl != 0 {
		switch e.Rune {
		case 'z', 'Z':
			if e.Modifiers&key.ModShift != 0 {
				a.session.Redo()
			} else {
				a.session.Undo()
			}
			return true
		case 'y', 'Y':
			a.session.Redo()
			return true
		case 's', 'S':
			a.save()
			return true
		case 'c', 'C':
			a.copyToClipboard()
			return true
		}
		return false
	}

	switch e.Code {
	case key.CodeDeleteBackspace, key.CodeDeleteForward:
		a.session.RemoveSelected()
		return true
	case key.CodeEscape:
		a.session.Store().Select("")
		return true
	}

	switch e.Rune {
	case 'v', 'V':
		a.session.SetTool(editor.ToolSelect)
	case 'r', 'R':
		a.session.SetTool(editor.ToolRect)
	case 'm', 'M':
		a.session.SetTool(editor.ToolMosaic)
	case 'a', 'A':
		a.session.SetTool(editor.ToolArrow)
	case 't', 'T':
		a.session.SetTool(editor.ToolText)
	default:
		return false
	}
	return true
}

func (a *App) save() {
	if a.output == "" {
		log.Print("save: no output path configured")
		return
	}
	if err := export.SavePNG(a.output, a.image, a.session.Store().Annotations(), a.scale); err != nil {
		log.Printf("save: %v", err)
		return
	}
	log.Printf("saved %s", a.output)
	if a.notifier != nil {
		a.notifier.Save(a.output)
	}
}

func (a *App) copyToClipboard() {
	if err := export.CopyToClipboard(a.image, a.session.Store().Annotations(), a.scale); err != nil {
		log.Printf("copy: %v", err)
		return
	}
	log.Print("image copied to clipboard")
	if a.notifier != nil {
		a.notifier.Copy("annotated image")
	}
}

func (a *App) paint(s screen.Screen, w screen.Window) {
	frame := ComposeFrame(a.image, a.ctrl, a.theme, a.scale)

	buf, err := s.NewBuffer(frame.Bounds().Size())
	if err != nil {
		log.Printf("paint: %v", err)
		return
	}
	defer buf.Release()

	draw.Draw(buf.RGBA(), buf.Bounds(), frame, frame.Bounds().Min, draw.Src)
	w.Upload(image.Point{}, buf, buf.Bounds())
	w.Publish()
}

func samePoint(a, b editor.Point) bool {
	const slop = 3
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx >= -slop && dx <= slop && dy >= -slop && dy <= slop
}
