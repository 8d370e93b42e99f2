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
	"github.com/itsharex/lovshot/internal/clipboard"
	"github.com/itsharex/lovshot/internal/export"
	"github.com/itsharex/lovshot/internal/gallery"
)

// Seam for tests.
var (
	captureScreenshotFn = capture.CaptureScreenshot
	captureWindowFn     = capture.CaptureWindow
	captureRegionFn     = capture.CaptureRegion
	captureAreaFn       = capture.CaptureArea
)

// captureCmd takes a screenshot and writes it to the gallery, a file, or
// stdout.
type captureCmd struct {
	mode     string
	display  string
	window   string
	area     []float64
	output   string
	stdout   bool
	toClip   bool
	noGallery bool
	*root
	fs *flag.FlagSet
}

func (c *captureCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	c := &captureCmd{root: r.subcommand("capture")}
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	fs.StringVar(&c.display, "display", "", "display selector for screen captures (index, name, or primary)")
	fs.StringVar(&c.window, "window", "", "window selector (active, title:..., class:..., pid:...)")
	fs.StringVar(&c.output, "output", "", "write the capture to this path instead of the gallery")
	fs.BoolVar(&c.stdout, "stdout", false, "write PNG data to standard output")
	fs.BoolVar(&c.toClip, "clipboard", false, "also copy the capture to the clipboard")
	fs.BoolVar(&c.noGallery, "no-gallery", false, "skip registering the capture in the gallery")
	c.fs = fs

	if len(args) < 1 {
		return nil, &UsageError{of: c}
	}
	c.mode = args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	if c.mode == "area" {
		rest := fs.Args()
		if len(rest) != 4 {
			return nil, fmt.Errorf("area capture needs <x> <y> <w> <h>: %w", &UsageError{of: c})
		}
		for _, raw := range rest {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid area coordinate %q", raw)
			}
			c.area = append(c.area, v)
		}
	}
	return c, nil
}

func (c *captureCmd) Run() error {
	opts := c.captureOptions()

	var (
		img *image.RGBA
		err error
	)
	switch c.mode {
	case "screen":
		img, err = captureScreenshotFn(c.display, opts)
		if err != nil {
			return fmt.Errorf("failed to capture screen: %w", err)
		}
	case "window":
		img, err = captureWindowFn(c.window, opts)
		if err != nil {
			return fmt.Errorf("failed to capture window: %w", err)
		}
	case "region":
		img, err = captureRegionFn(opts)
		if err != nil {
			return fmt.Errorf("failed to capture region: %w", err)
		}
	case "area":
		img, err = captureAreaFn(c.area[0], c.area[1], c.area[2], c.area[3])
		if err != nil {
			return fmt.Errorf("failed to capture area: %w", err)
		}
	default:
		return &UsageError{of: c}
	}

	c.notifyCapture(c.mode, img)

	if c.stdout {
		return export.WritePNG(os.Stdout, img)
	}
	if c.toClip {
		if err := clipboard.WriteImage(img); err != nil {
			fmt.Fprintf(os.Stderr, "warning: clipboard: %v\n", err)
		} else {
			c.notifyCopy(c.mode + " capture")
		}
	}

	path := c.output
	if path == "" {
		path = filepath.Join(c.saveDir(), captureFileName(c.mode))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := export.SavePNG(path, img, nil, 1); err != nil {
		return err
	}
	c.notifySave(path)
	fmt.Println(path)

	if c.output == "" && !c.noGallery {
		if err := c.registerInGallery(path, img); err != nil {
			fmt.Fprintf(os.Stderr, "warning: gallery: %v\n", err)
		}
	}
	return nil
}

func (c *captureCmd) registerInGallery(path string, img *image.RGBA) error {
	store, err := gallery.Open(c.saveDir())
	if err != nil {
		return err
	}
	a, err := store.Add(filepath.Base(path), gallery.KindScreenshot)
	if err != nil {
		return err
	}
	_, err = store.WriteThumbnail(a, img)
	return err
}

func captureFileName(mode string) string {
	return fmt.Sprintf("lovshot-%s-%s.png", mode, time.Now().Format("20060102-150405"))
}
