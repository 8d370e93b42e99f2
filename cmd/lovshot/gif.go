package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/itsharex/lovshot/internal/capture"
	"github.com/itsharex/lovshot/internal/gallery"
	"github.com/itsharex/lovshot/internal/gifenc"
)

var captureRegionRectFn = capture.CaptureRegionRect

// gifCmd records a screen region and encodes it as an animated GIF.
type gifCmd struct {
	region   image.Rectangle
	duration time.Duration
	fps      int
	quality  int
	loop     string
	scale    float64
	speed    float64
	output   string
	noGallery bool
	*root
	fs *flag.FlagSet
}

func (g *gifCmd) FlagSet() *flag.FlagSet {
	return g.fs
}

func parseGifCmd(args []string, r *root) (*gifCmd, error) {
	g := &gifCmd{root: r.subcommand("gif")}
	fs := flag.NewFlagSet("gif", flag.ExitOnError)
	fs.DurationVar(&g.duration, "duration", 5*time.Second, "how long to record")
	fs.IntVar(&g.fps, "fps", r.config.Export.FPS, "frames per second, 1-60")
	fs.IntVar(&g.quality, "quality", r.config.Export.Quality, "encode quality, 1-100")
	fs.StringVar(&g.loop, "loop", r.config.Export.Loop, "loop mode: infinite, once, or pingpong")
	fs.Float64Var(&g.scale, "scale", 1, "output scale factor")
	fs.Float64Var(&g.speed, "speed", 1, "playback speed multiplier")
	fs.StringVar(&g.output, "output", "", "output file path")
	fs.BoolVar(&g.noGallery, "no-gallery", false, "skip registering the GIF in the gallery")
	g.fs = fs

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	rest := fs.Args()
	if len(rest) != 4 {
		return nil, &UsageError{of: g}
	}
	coords := make([]int, 4)
	for i, raw := range rest {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid region coordinate %q", raw)
		}
		coords[i] = n
	}
	g.region = image.Rect(coords[0], coords[1], coords[0]+coords[2], coords[1]+coords[3])
	return g, nil
}

func (g *gifCmd) Run() error {
	rec, err := gifenc.NewRecorder(g.region, g.fps)
	if err != nil {
		return err
	}

	opts := g.captureOptions()
	interval := time.Second / time.Duration(g.fps)
	deadline := time.Now().Add(g.duration)
	for time.Now().Before(deadline) {
		frameStart := time.Now()
		frame, err := captureRegionRectFn(g.region, opts)
		if err != nil {
			return fmt.Errorf("failed to capture frame: %w", err)
		}
		rec.Append(frame)
		if sleep := interval - time.Since(frameStart); sleep > 0 {
			time.Sleep(sleep)
		}
	}

	info := rec.Info()
	if !info.HasFrames {
		return fmt.Errorf("no frames recorded")
	}
	fmt.Printf("recorded %d frames (%dms)\n", info.FrameCount, info.DurationMS)

	exportOpts := gifenc.DefaultOptions(info.FrameCount)
	exportOpts.TargetFPS = g.fps
	exportOpts.Quality = g.quality
	exportOpts.Loop = gifenc.LoopMode(g.loop)
	exportOpts.OutputScale = g.scale
	exportOpts.Speed = g.speed

	est, err := gifenc.EstimateSize(rec.Frames(), exportOpts)
	if err != nil {
		return err
	}
	fmt.Printf("exporting %d frames at %dx%d (~%s)\n",
		est.FrameCount, est.OutputWidth, est.OutputHeight, est.Formatted)

	path := g.output
	if path == "" {
		path = filepath.Join(g.saveDir(), fmt.Sprintf("lovshot-%s.gif", time.Now().Format("20060102-150405")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := gifenc.Export(f, rec.Frames(), exportOpts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	g.notifyExport(path)
	fmt.Println(path)

	if g.output == "" && !g.noGallery {
		store, err := gallery.Open(g.saveDir())
		if err == nil {
			_, err = store.Add(filepath.Base(path), gallery.KindGIF)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: gallery: %v\n", err)
		}
	}
	return nil
}
