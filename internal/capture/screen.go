package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// DisplayInfo describes one attached display in the virtual screen layout.
// Width and height are physical pixels; ScaleFactor converts the logical
// coordinates used by the editor into physical ones.
type DisplayInfo struct {
	ID          int
	X, Y        int
	Width       int
	Height      int
	ScaleFactor float64
}

// Screen wraps a single display for capture.
type Screen struct {
	Display DisplayInfo
}

// Screens enumerates the attached displays.
func Screens() ([]Screen, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errNoMonitors
	}
	screens := make([]Screen, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		screens = append(screens, Screen{Display: DisplayInfo{
			ID:          i,
			X:           b.Min.X,
			Y:           b.Min.Y,
			Width:       b.Dx(),
			Height:      b.Dy(),
			ScaleFactor: 1,
		}})
	}
	return screens, nil
}

// Capture grabs the whole display.
func (s Screen) Capture() (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(image.Rect(
		s.Display.X, s.Display.Y,
		s.Display.X+s.Display.Width, s.Display.Y+s.Display.Height,
	))
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", s.Display.ID, err)
	}
	return img, nil
}

// CaptureArea grabs a rectangle given in logical pixels relative to the
// virtual screen origin. The area is converted to physical pixels with the
// display's scale factor and clamped to the display bounds; a rectangle that
// clamps away to nothing is an error.
func (s Screen) CaptureArea(x, y, w, h float64) (*image.RGBA, error) {
	full, err := s.Capture()
	if err != nil {
		return nil, err
	}
	cropped, err := cropLogical(full, s.Display, x, y, w, h)
	if err != nil {
		return nil, err
	}
	return cropped, nil
}

// cropLogical maps a logical-pixel rectangle onto a physical capture and
// crops it, matching the clamping CaptureArea documents. Split out so the
// geometry is testable without a real display.
func cropLogical(full *image.RGBA, d DisplayInfo, x, y, w, h float64) (*image.RGBA, error) {
	scale := d.ScaleFactor
	if scale <= 0 {
		scale = 1
	}

	relX := int((x - float64(d.X)) * scale)
	relY := int((y - float64(d.Y)) * scale)
	if relX < 0 {
		relX = 0
	}
	if relY < 0 {
		relY = 0
	}
	physW := int(w * scale)
	physH := int(h * scale)

	b := full.Bounds()
	maxX := b.Dx() - 1
	maxY := b.Dy() - 1
	if relX > maxX {
		relX = maxX
	}
	if relY > maxY {
		relY = maxY
	}
	if physW > b.Dx()-relX {
		physW = b.Dx() - relX
	}
	if physH > b.Dy()-relY {
		physH = b.Dy() - relY
	}
	if physW <= 0 || physH <= 0 {
		return nil, fmt.Errorf("capture area is empty after clamping")
	}

	rect := image.Rect(b.Min.X+relX, b.Min.Y+relY, b.Min.X+relX+physW, b.Min.Y+relY+physH)
	return cropToRect(full, rect)
}

// screenFor finds the display containing the logical point (x, y), falling
// back to the first display.
func screenFor(screens []Screen, x, y float64) Screen {
	for _, s := range screens {
		d := s.Display
		if x >= float64(d.X) && x < float64(d.X+d.Width) &&
			y >= float64(d.Y) && y < float64(d.Y+d.Height) {
			return s
		}
	}
	return screens[0]
}
