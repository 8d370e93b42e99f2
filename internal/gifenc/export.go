package gifenc

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
)

// LoopMode controls GIF playback looping.
type LoopMode string

const (
	LoopInfinite LoopMode = "infinite"
	LoopOnce     LoopMode = "once"
	LoopPingPong LoopMode = "pingpong"
)

// Options describes a trim/export request from the GIF editor.
type Options struct {
	StartFrame  int
	EndFrame    int // inclusive
	OutputScale float64
	TargetFPS   int
	Loop        LoopMode
	Quality     int     // 1..100, higher quality encodes slower
	Speed       float64 // playback speed; affects per-frame delay, not frame count
}

// DefaultOptions returns the editor's initial export settings for a
// recording of n frames.
func DefaultOptions(n int) Options {
	return Options{
		StartFrame:  0,
		EndFrame:    n - 1,
		OutputScale: 1,
		TargetFPS:   15,
		Loop:        LoopInfinite,
		Quality:     80,
		Speed:       1,
	}
}

// Validate checks opts against a recording of n frames.
func (o Options) Validate(n int) error {
	if n == 0 {
		return fmt.Errorf("no frames recorded")
	}
	if o.StartFrame < 0 || o.EndFrame >= n || o.StartFrame > o.EndFrame {
		return fmt.Errorf("trim range [%d,%d] invalid for %d frames", o.StartFrame, o.EndFrame, n)
	}
	if o.OutputScale <= 0 || o.OutputScale > 4 {
		return fmt.Errorf("output scale %v out of range (0,4]", o.OutputScale)
	}
	if o.TargetFPS < 1 || o.TargetFPS > 60 {
		return fmt.Errorf("target fps %d out of range 1..60", o.TargetFPS)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("quality %d out of range 1..100", o.Quality)
	}
	if o.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", o.Speed)
	}
	switch o.Loop {
	case LoopInfinite, LoopOnce, LoopPingPong:
	default:
		return fmt.Errorf("unknown loop mode %q", o.Loop)
	}
	return nil
}

// frameSequence returns the indices of the trimmed range in playback order.
// Ping-pong appends the reversed range without repeating the endpoints.
func (o Options) frameSequence() []int {
	var seq []int
	for i := o.StartFrame; i <= o.EndFrame; i++ {
		seq = append(seq, i)
	}
	if o.Loop == LoopPingPong && len(seq) > 2 {
		for i := o.EndFrame - 1; i > o.StartFrame; i-- {
			seq = append(seq, i)
		}
	}
	return seq
}

// delayCS returns the per-frame delay in GIF centiseconds. Speed stretches
// or compresses the delay; the frame count is untouched.
func (o Options) delayCS() int {
	d := int(math.Round(100 / (float64(o.TargetFPS) * o.Speed)))
	if d < 2 {
		d = 2 // the de facto minimum honored by players
	}
	return d
}

// Export encodes the trimmed recording to w.
func Export(w io.Writer, frames []*image.RGBA, opts Options) error {
	if err := opts.Validate(len(frames)); err != nil {
		return err
	}

	seq := opts.frameSequence()
	delay := opts.delayCS()

	src := frames[opts.StartFrame].Bounds()
	outW := int(math.Round(float64(src.Dx()) * opts.OutputScale))
	outH := int(math.Round(float64(src.Dy()) * opts.OutputScale))
	if outW < 1 || outH < 1 {
		return fmt.Errorf("output size %dx%d too small", outW, outH)
	}

	out := &gif.GIF{}
	switch opts.Loop {
	case LoopOnce:
		out.LoopCount = -1
	default:
		out.LoopCount = 0
	}

	var quantizer draw.Drawer = draw.Src
	if opts.Quality >= 50 {
		quantizer = draw.FloydSteinberg
	}

	for _, idx := range seq {
		frame := frames[idx]
		scaled := frame
		if opts.OutputScale != 1 {
			scaled = image.NewRGBA(image.Rect(0, 0, outW, outH))
			xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), frame, frame.Bounds(), draw.Src, nil)
		}
		pal := image.NewPaletted(image.Rect(0, 0, outW, outH), palette.Plan9)
		quantizer.Draw(pal, pal.Bounds(), scaled, scaled.Bounds().Min)
		out.Image = append(out.Image, pal)
		out.Delay = append(out.Delay, delay)
	}

	return gif.EncodeAll(w, out)
}

// Estimate predicts the export result size for the trim editor's readout.
type Estimate struct {
	FrameCount     int
	OutputWidth    int
	OutputHeight   int
	EstimatedBytes int64
	Formatted      string
}

// EstimateSize predicts the encoded size of an export without running the
// encoder. GIF frames compress to roughly half a byte per pixel on typical
// screen content.
func EstimateSize(frames []*image.RGBA, opts Options) (Estimate, error) {
	if err := opts.Validate(len(frames)); err != nil {
		return Estimate{}, err
	}
	seq := opts.frameSequence()
	src := frames[opts.StartFrame].Bounds()
	outW := int(math.Round(float64(src.Dx()) * opts.OutputScale))
	outH := int(math.Round(float64(src.Dy()) * opts.OutputScale))
	bytes := int64(len(seq)) * int64(outW) * int64(outH) / 2
	return Estimate{
		FrameCount:     len(seq),
		OutputWidth:    outW,
		OutputHeight:   outH,
		EstimatedBytes: bytes,
		Formatted:      FormatBytes(bytes),
	}, nil
}

// FormatBytes renders a byte count for humans.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
