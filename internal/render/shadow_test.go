package render

import (
	"image"
	"image/color"
	"testing"
)

func TestApplyShadowExpandsBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	subject := image.Pt(5, 5)
	img.Set(subject.X, subject.Y, color.RGBA{R: 255, A: 255})

	opts := ShadowOptions{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5}
	res := ApplyShadow(img, opts)
	if res.Image == nil {
		t.Fatal("expected output image")
	}
	expected := image.Rect(0, 0, 22, 20)
	if !res.Image.Bounds().Eq(expected) {
		t.Fatalf("unexpected bounds %v, want %v", res.Image.Bounds(), expected)
	}
	// Spot check that the shadow alpha was written near the offset pixel.
	shadowPt := subject.Add(opts.Offset)
	if res.Image.RGBAAt(shadowPt.X, shadowPt.Y).A == 0 {
		t.Fatalf("expected shadow alpha at %v", shadowPt)
	}
}

func TestApplyShadowReportsContentOffset(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(5, 5, color.RGBA{R: 255, A: 255})

	// A shadow cast up and left forces the canvas to grow on that side, so
	// the content itself has to move.
	res := ApplyShadow(img, ShadowOptions{Radius: 4, Offset: image.Pt(-8, -6), Opacity: 0.5})
	if res.Image == nil {
		t.Fatal("expected output image")
	}
	if want := image.Pt(12, 10); res.Offset != want {
		t.Fatalf("content offset = %v, want %v", res.Offset, want)
	}
	if !res.Image.Bounds().Eq(image.Rect(0, 0, 22, 20)) {
		t.Fatalf("unexpected bounds %v", res.Image.Bounds())
	}
	// The original pixel must follow the reported offset.
	moved := image.Pt(5, 5).Add(res.Offset)
	if got := res.Image.RGBAAt(moved.X, moved.Y); got.R != 255 {
		t.Fatalf("content pixel not at %v: %+v", moved, got)
	}
}

func TestApplyShadowNoShadowWhenOpacityZero(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, fill)
		}
	}
	res := ApplyShadow(img, ShadowOptions{Radius: 12, Offset: image.Pt(20, 10), Opacity: 0})
	if res.Image == nil {
		t.Fatal("expected output image")
	}
	if !res.Image.Bounds().Eq(img.Bounds()) {
		t.Fatalf("bounds changed unexpectedly: %v vs %v", res.Image.Bounds(), img.Bounds())
	}
	if res.Offset != (image.Point{}) {
		t.Fatalf("expected zero offset, got %v", res.Offset)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := res.Image.RGBAAt(x, y); got != fill {
				t.Fatalf("pixel mismatch at (%d,%d): got %+v want %+v", x, y, got, fill)
			}
		}
	}
}

func TestApplyShadowBlurredAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{A: 255})
	opts := ShadowOptions{Radius: 2, Offset: image.Pt(3, 0), Opacity: 1}

	res := ApplyShadow(img, opts)
	if res.Image == nil {
		t.Fatal("expected output image")
	}
	if res.Image.Bounds().Dx() <= img.Bounds().Dx() {
		t.Fatalf("expected wider output bounds")
	}
	// Blur spreads alpha beyond the exact offset location.
	base := img.Bounds().Min.Add(opts.Offset)
	baseAlpha := res.Image.RGBAAt(base.X, base.Y).A
	if baseAlpha == 0 {
		t.Fatal("expected alpha at base shadow location")
	}
	neighbor := res.Image.RGBAAt(base.X+1, base.Y)
	if neighbor.A == 0 {
		t.Fatalf("expected blurred alpha to reach neighbor, base alpha=%d", baseAlpha)
	}
}
