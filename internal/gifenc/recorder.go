// Package gifenc records capture frames and exports a trimmed, scaled,
// optionally ping-ponged GIF.
package gifenc

import (
	"fmt"
	"image"
	"time"
)

// Recorder accumulates frames for one recording session. Frames are expected
// to share the bounds of the recording region.
type Recorder struct {
	region image.Rectangle
	fps    int
	frames []*image.RGBA
	start  time.Time
}

// NewRecorder prepares a recorder for the given region and frame rate.
func NewRecorder(region image.Rectangle, fps int) (*Recorder, error) {
	if region.Empty() {
		return nil, fmt.Errorf("recording region is empty")
	}
	if fps < 1 || fps > 60 {
		return nil, fmt.Errorf("fps %d out of range 1..60", fps)
	}
	return &Recorder{region: region, fps: fps}, nil
}

// Region returns the recording region.
func (r *Recorder) Region() image.Rectangle { return r.region }

// FPS returns the configured capture rate.
func (r *Recorder) FPS() int { return r.fps }

// Append stores one captured frame.
func (r *Recorder) Append(frame *image.RGBA) {
	if len(r.frames) == 0 {
		r.start = time.Now()
	}
	r.frames = append(r.frames, frame)
}

// Frames exposes the captured frames for export.
func (r *Recorder) Frames() []*image.RGBA { return r.frames }

// Clear drops all captured frames.
func (r *Recorder) Clear() { r.frames = nil }

// Info summarizes the recording for the trim editor.
type Info struct {
	FrameCount int
	Width      int
	Height     int
	FPS        int
	DurationMS int64
	HasFrames  bool
}

// Info reports the recording summary shown in the trim editor.
func (r *Recorder) Info() Info {
	info := Info{
		FrameCount: len(r.frames),
		FPS:        r.fps,
		HasFrames:  len(r.frames) > 0,
	}
	if len(r.frames) > 0 {
		b := r.frames[0].Bounds()
		info.Width = b.Dx()
		info.Height = b.Dy()
		info.DurationMS = int64(len(r.frames)) * 1000 / int64(r.fps)
	}
	return info
}
