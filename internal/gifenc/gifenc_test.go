package gifenc

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
)

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func testFrames(n int) []*image.RGBA {
	frames := make([]*image.RGBA, n)
	for i := range frames {
		frames[i] = solidFrame(40, 30, color.RGBA{uint8(i * 20), 0, 0, 255})
	}
	return frames
}

func TestRecorderValidation(t *testing.T) {
	if _, err := NewRecorder(image.Rect(0, 0, 0, 0), 15); err == nil {
		t.Fatal("expected error for empty region")
	}
	if _, err := NewRecorder(image.Rect(0, 0, 100, 100), 0); err == nil {
		t.Fatal("expected error for fps 0")
	}
	if _, err := NewRecorder(image.Rect(0, 0, 100, 100), 61); err == nil {
		t.Fatal("expected error for fps 61")
	}
	r, err := NewRecorder(image.Rect(0, 0, 100, 100), 15)
	if err != nil {
		t.Fatal(err)
	}
	if r.Info().HasFrames {
		t.Error("new recorder should report no frames")
	}
}

func TestRecorderInfo(t *testing.T) {
	r, err := NewRecorder(image.Rect(0, 0, 40, 30), 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range testFrames(5) {
		r.Append(f)
	}
	info := r.Info()
	if info.FrameCount != 5 || info.Width != 40 || info.Height != 30 {
		t.Errorf("unexpected info %+v", info)
	}
	if info.DurationMS != 500 {
		t.Errorf("5 frames at 10fps should be 500ms, got %d", info.DurationMS)
	}
}

func TestOptionsValidate(t *testing.T) {
	base := DefaultOptions(10)
	if err := base.Validate(10); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"start negative", func(o *Options) { o.StartFrame = -1 }},
		{"end past range", func(o *Options) { o.EndFrame = 10 }},
		{"inverted range", func(o *Options) { o.StartFrame = 5; o.EndFrame = 2 }},
		{"zero scale", func(o *Options) { o.OutputScale = 0 }},
		{"fps too high", func(o *Options) { o.TargetFPS = 120 }},
		{"quality zero", func(o *Options) { o.Quality = 0 }},
		{"speed zero", func(o *Options) { o.Speed = 0 }},
		{"bad loop", func(o *Options) { o.Loop = "bounce" }},
	}
	for _, tc := range cases {
		o := base
		tc.mutate(&o)
		if err := o.Validate(10); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestDelaySpeed(t *testing.T) {
	o := DefaultOptions(10)
	o.TargetFPS = 10
	o.Speed = 1
	if d := o.delayCS(); d != 10 {
		t.Errorf("10fps speed 1: delay = %d, want 10", d)
	}
	o.Speed = 2
	if d := o.delayCS(); d != 5 {
		t.Errorf("10fps speed 2: delay = %d, want 5", d)
	}
	o.TargetFPS = 60
	o.Speed = 4
	if d := o.delayCS(); d != 2 {
		t.Errorf("delay should clamp to 2cs, got %d", d)
	}
}

func TestPingPongSequence(t *testing.T) {
	o := DefaultOptions(5)
	o.Loop = LoopPingPong
	seq := o.frameSequence()
	want := []int{0, 1, 2, 3, 4, 3, 2, 1}
	if len(seq) != len(want) {
		t.Fatalf("sequence length = %d, want %d", len(seq), len(want))
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("seq[%d] = %d, want %d", i, seq[i], want[i])
		}
	}
}

func TestExportTrimAndLoop(t *testing.T) {
	frames := testFrames(8)
	o := DefaultOptions(8)
	o.StartFrame = 2
	o.EndFrame = 5
	o.Loop = LoopOnce

	var buf bytes.Buffer
	if err := Export(&buf, frames, o); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 4 {
		t.Errorf("trimmed export has %d frames, want 4", len(g.Image))
	}
	if g.LoopCount != -1 {
		t.Errorf("once loop should encode LoopCount -1, got %d", g.LoopCount)
	}
}

func TestExportScale(t *testing.T) {
	frames := testFrames(3)
	o := DefaultOptions(3)
	o.OutputScale = 0.5

	var buf bytes.Buffer
	if err := Export(&buf, frames, o); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	b := g.Image[0].Bounds()
	if b.Dx() != 20 || b.Dy() != 15 {
		t.Errorf("scaled frame is %dx%d, want 20x15", b.Dx(), b.Dy())
	}
}

func TestEstimateSize(t *testing.T) {
	frames := testFrames(4)
	o := DefaultOptions(4)
	o.Loop = LoopPingPong

	est, err := EstimateSize(frames, o)
	if err != nil {
		t.Fatal(err)
	}
	if est.FrameCount != 6 {
		t.Errorf("ping-pong of 4 frames should estimate 6, got %d", est.FrameCount)
	}
	if est.OutputWidth != 40 || est.OutputHeight != 30 {
		t.Errorf("unexpected output size %dx%d", est.OutputWidth, est.OutputHeight)
	}
	if est.EstimatedBytes <= 0 || est.Formatted == "" {
		t.Errorf("estimate missing size: %+v", est)
	}
}

func TestFormatBytes(t *testing.T) {
	if s := FormatBytes(512); s != "512 B" {
		t.Errorf("got %q", s)
	}
	if s := FormatBytes(2048); s != "2.0 KB" {
		t.Errorf("got %q", s)
	}
	if s := FormatBytes(5 * 1024 * 1024); s != "5.0 MB" {
		t.Errorf("got %q", s)
	}
}
