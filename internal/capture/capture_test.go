package capture

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
)

type fakeBackend struct {
	monitors    []MonitorInfo
	windows     []WindowInfo
	monitorsErr error
	windowsErr  error
	captureErr  error
}

func (f fakeBackend) ListMonitors() ([]MonitorInfo, error) {
	if f.monitorsErr != nil {
		return nil, f.monitorsErr
	}
	return f.monitors, nil
}

func (f fakeBackend) ListWindows() ([]WindowInfo, error) {
	if f.windowsErr != nil {
		return nil, f.windowsErr
	}
	return f.windows, nil
}

func (f fakeBackend) CaptureWindowImage(uint32) (*image.RGBA, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func stubScreenshots(t *testing.T) {
	t.Helper()
	prevPortal := portalScreenshotFn
	prevPipewire := pipewireScreenshotFn
	prevFallback := fallbackScreenshotFn
	t.Cleanup(func() {
		portalScreenshotFn = prevPortal
		pipewireScreenshotFn = prevPipewire
		fallbackScreenshotFn = prevFallback
	})
}

func TestCaptureWindowDetailedListWindowsError(t *testing.T) {
	originalBackend := backend
	windowsErr := errors.New("windows unavailable")
	backend = fakeBackend{windowsErr: windowsErr}
	t.Cleanup(func() { backend = originalBackend })

	_, _, err := CaptureWindowDetailed("foo", CaptureOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, windowsErr) {
		t.Fatalf("expected wrapped windows error, got %v", err)
	}
	if want := "capture window \"foo\""; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected selector context, got %v", err)
	}
}

func TestScreenshotFallsBackToPipewire(t *testing.T) {
	stubScreenshots(t)

	portalScreenshotFn = func(bool, CaptureOptions) (*image.RGBA, error) {
		return nil, &dbus.Error{Name: "org.freedesktop.portal.Error.NotSupported"}
	}

	called := false
	want := image.NewRGBA(image.Rect(0, 0, 1, 1))
	pipewireScreenshotFn = func(CaptureOptions) (*image.RGBA, error) {
		called = true
		return want, nil
	}

	got, err := CaptureScreenshot("", CaptureOptions{})
	if err != nil {
		t.Fatalf("CaptureScreenshot returned error: %v", err)
	}
	if !called {
		t.Fatalf("expected pipewire fallback to be used")
	}
	if got != want {
		t.Fatalf("expected pipewire result, got %#v", got)
	}
}

func TestScreenshotFallsBackToDirectCapture(t *testing.T) {
	stubScreenshots(t)

	portalScreenshotFn = func(bool, CaptureOptions) (*image.RGBA, error) {
		return nil, &dbus.Error{Name: "org.freedesktop.DBus.Error.Disconnected"}
	}
	pipewireScreenshotFn = func(CaptureOptions) (*image.RGBA, error) {
		return nil, errors.New("pipewire unavailable")
	}

	want := image.NewRGBA(image.Rect(0, 0, 2, 2))
	fallbackScreenshotFn = func() (*image.RGBA, error) {
		return want, nil
	}

	got, err := CaptureScreenshot("", CaptureOptions{})
	if err != nil {
		t.Fatalf("CaptureScreenshot returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected direct capture result, got %#v", got)
	}
}

func TestScreenshotAllFallbacksFail(t *testing.T) {
	stubScreenshots(t)

	portalScreenshotFn = func(bool, CaptureOptions) (*image.RGBA, error) {
		return nil, &dbus.Error{Name: "org.freedesktop.portal.Error.NotSupported"}
	}
	pipewireScreenshotFn = func(CaptureOptions) (*image.RGBA, error) {
		return nil, errors.New("pipewire unavailable")
	}
	fallbackScreenshotFn = func() (*image.RGBA, error) {
		return nil, errors.New("no displays")
	}

	_, err := CaptureScreenshot("", CaptureOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "pipewire fallback") {
		t.Fatalf("expected pipewire fallback context, got %v", err)
	}
}

func TestInteractiveScreenshotDoesNotFallback(t *testing.T) {
	stubScreenshots(t)

	portalErr := &dbus.Error{Name: "org.freedesktop.portal.Error.NotSupported"}
	portalScreenshotFn = func(bool, CaptureOptions) (*image.RGBA, error) {
		return nil, portalErr
	}

	pipewireCalled := false
	pipewireScreenshotFn = func(CaptureOptions) (*image.RGBA, error) {
		pipewireCalled = true
		return nil, errors.New("pipewire should not be used")
	}

	_, err := CaptureRegion(CaptureOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if pipewireCalled {
		t.Fatalf("did not expect pipewire fallback for interactive capture")
	}
	var dbusErr *dbus.Error
	if !errors.As(err, &dbusErr) {
		t.Fatalf("expected wrapped portal error, got %v", err)
	}
}

func TestFindMonitorSelectors(t *testing.T) {
	monitors := []MonitorInfo{
		{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Name: "HDMI-1", Rect: image.Rect(1920, 0, 3840, 1080), Primary: true},
	}

	if mon, err := FindMonitor(monitors, "primary"); err != nil || mon.Name != "HDMI-1" {
		t.Fatalf("primary selector: %v %v", mon, err)
	}
	if mon, err := FindMonitor(monitors, "1"); err != nil || mon.Index != 1 {
		t.Fatalf("index selector: %v %v", mon, err)
	}
	if mon, err := FindMonitor(monitors, "edp"); err != nil || mon.Name != "eDP-1" {
		t.Fatalf("name selector: %v %v", mon, err)
	}
	if _, err := FindMonitor(monitors, "5"); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := FindMonitor(nil, ""); !errors.Is(err, errNoMonitors) {
		t.Fatalf("expected errNoMonitors, got %v", err)
	}
}

func TestSelectWindowSelectors(t *testing.T) {
	windows := []WindowInfo{
		{Index: 0, ID: 0x100, Title: "Text Editor", Class: "Editor", PID: 10, Executable: "editor"},
		{Index: 1, ID: 0x200, Title: "Browser - News", Class: "Browser", PID: 20, Executable: "firefox", Active: true},
	}

	if win, err := SelectWindow("", windows); err != nil || win.ID != 0x200 {
		t.Fatalf("empty selector should pick active: %v %v", win, err)
	}
	if win, err := SelectWindow("active", windows); err != nil || win.ID != 0x200 {
		t.Fatalf("active selector: %v %v", win, err)
	}
	if win, err := SelectWindow("id:0x100", windows); err != nil || win.ID != 0x100 {
		t.Fatalf("id selector: %v %v", win, err)
	}
	if win, err := SelectWindow("pid:20", windows); err != nil || win.PID != 20 {
		t.Fatalf("pid selector: %v %v", win, err)
	}
	if win, err := SelectWindow("title:news", windows); err != nil || win.ID != 0x200 {
		t.Fatalf("title selector: %v %v", win, err)
	}
	if win, err := SelectWindow("editor", windows); err != nil || win.ID != 0x100 {
		t.Fatalf("bare selector: %v %v", win, err)
	}
	if _, err := SelectWindow("nothing matches", windows); err == nil {
		t.Fatalf("expected no match error")
	}
}

func TestCropLogicalScaling(t *testing.T) {
	// A 200x200 physical capture of a display at 2x scale: logical (10,10)
	// 50x50 should crop physical (20,20) 100x100.
	full := image.NewRGBA(image.Rect(0, 0, 200, 200))
	d := DisplayInfo{X: 0, Y: 0, Width: 100, Height: 100, ScaleFactor: 2}

	got, err := cropLogical(full, d, 10, 10, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 100 {
		t.Errorf("cropped size = %v, want 100x100", got.Bounds())
	}
}

func TestCropLogicalClamps(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 100, 100))
	d := DisplayInfo{X: 0, Y: 0, Width: 100, Height: 100, ScaleFactor: 1}

	// Overhanging rect clamps to the display edge.
	got, err := cropLogical(full, d, 80, 80, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 20 {
		t.Errorf("clamped size = %v, want 20x20", got.Bounds())
	}

	// Entirely off-screen is an error, not a zero-size image.
	if _, err := cropLogical(full, d, -500, -500, 10, 10); err != nil {
		// clamps to top-left corner pixel range, still valid
		t.Fatalf("top-left clamp should succeed: %v", err)
	}
}

func TestCaptureAreaRejectsEmpty(t *testing.T) {
	if _, err := CaptureArea(0, 0, 0, 10); err == nil {
		t.Fatalf("expected error for zero width")
	}
	if _, err := CaptureArea(0, 0, 10, -1); err == nil {
		t.Fatalf("expected error for negative height")
	}
}

func TestCropToRectOutside(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, err := cropToRect(src, image.Rect(50, 50, 60, 60)); err == nil {
		t.Fatalf("expected error for region outside image")
	}
}
