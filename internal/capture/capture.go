// Package capture grabs screenshots of displays, windows, and regions.
// On Linux it prefers the desktop portal, falling back to reading displays
// directly when no portal answers.
package capture

import (
	"fmt"
	"image"
	"image/draw"
)

// CaptureOptions tune what ends up in the captured pixels.
type CaptureOptions struct {
	IncludeCursor      bool
	IncludeDecorations bool
}

// Seams for tests.
var (
	portalScreenshotFn   = portalScreenshot
	pipewireScreenshotFn = pipewireScreenshot
	fallbackScreenshotFn = fallbackScreenshot
)

// CaptureScreenshot captures the desktop. When a display selector is
// provided it crops the result to the matching monitor.
func CaptureScreenshot(display string, opts CaptureOptions) (*image.RGBA, error) {
	img, err := desktopScreenshot(opts)
	if err != nil {
		return nil, err
	}
	if display == "" {
		return img, nil
	}
	monitors, err := ListMonitors()
	if err != nil {
		return nil, err
	}
	monitor, err := FindMonitor(monitors, display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, monitor.Rect)
}

// desktopScreenshot tries the portal, then pipewire, then a direct display
// read.
func desktopScreenshot(opts CaptureOptions) (*image.RGBA, error) {
	img, portalErr := portalScreenshotFn(false, opts)
	if portalErr == nil {
		return img, nil
	}
	img, pipewireErr := pipewireScreenshotFn(opts)
	if pipewireErr == nil {
		return img, nil
	}
	img, err := fallbackScreenshotFn()
	if err != nil {
		return nil, fmt.Errorf("portal screenshot: %v; pipewire fallback: %v; direct capture failed: %w", portalErr, pipewireErr, err)
	}
	return img, nil
}

// fallbackScreenshot stitches every display into one image of the virtual
// screen, mirroring what the portal returns.
func fallbackScreenshot() (*image.RGBA, error) {
	screens, err := Screens()
	if err != nil {
		return nil, err
	}
	var bounds image.Rectangle
	for _, s := range screens {
		d := s.Display
		bounds = bounds.Union(image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height))
	}
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for _, s := range screens {
		img, err := s.Capture()
		if err != nil {
			return nil, err
		}
		d := s.Display
		at := image.Rect(d.X-bounds.Min.X, d.Y-bounds.Min.Y, d.X-bounds.Min.X+d.Width, d.Y-bounds.Min.Y+d.Height)
		draw.Draw(dst, at, img, img.Bounds().Min, draw.Src)
	}
	return dst, nil
}

// CaptureWindowDetailed captures the window that matches the selector and
// returns both the image and the resolved window metadata. It prefers a
// direct X11 window capture and falls back to cropping a desktop screenshot
// if the compositor refuses to provide the pixels.
func CaptureWindowDetailed(selector string, opts CaptureOptions) (*image.RGBA, WindowInfo, error) {
	windows, err := ListWindows()
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("capture window %q: %w", selector, err)
	}
	info, err := SelectWindow(selector, windows)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("capture window %q: %w", selector, err)
	}
	if info.Rect.Empty() {
		return nil, WindowInfo{}, fmt.Errorf("capture window %q: window has empty geometry", selector)
	}
	img, directErr := captureWindowImage(info.ID)
	if directErr == nil {
		return img, info, nil
	}
	shot, err := desktopScreenshot(opts)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("window capture: %v; fallback screenshot failed: %w", directErr, err)
	}
	img, err = cropToRect(shot, info.Rect)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("window capture: %v; fallback crop failed: %w", directErr, err)
	}
	return img, info, nil
}

// CaptureWindow captures a single window specified by the selector string.
func CaptureWindow(selector string, opts CaptureOptions) (*image.RGBA, error) {
	img, _, err := CaptureWindowDetailed(selector, opts)
	return img, err
}

// CaptureRegion uses the portal to let the user select a region interactively.
func CaptureRegion(opts CaptureOptions) (*image.RGBA, error) {
	return portalScreenshotFn(true, opts)
}

// CaptureRegionRect captures a specific rectangle in global physical screen
// coordinates.
func CaptureRegionRect(rect image.Rectangle, opts CaptureOptions) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("region is empty")
	}
	shot, err := desktopScreenshot(opts)
	if err != nil {
		return nil, err
	}
	return cropToRect(shot, rect)
}

// CaptureArea captures a rectangle given in logical pixels, resolving which
// display it falls on and applying that display's scale factor.
func CaptureArea(x, y, w, h float64) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("region is empty")
	}
	screens, err := Screens()
	if err != nil {
		return nil, err
	}
	return screenFor(screens, x, y).CaptureArea(x, y, w, h)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
