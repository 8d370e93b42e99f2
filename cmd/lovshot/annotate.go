package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/itsharex/lovshot/internal/editor"
	"github.com/itsharex/lovshot/internal/ui"
)

// annotateCmd opens the interactive editor on a fresh capture or an
// existing file.
type annotateCmd struct {
	action string // capture or open
	target string // screen/window/region for capture, a path for open
	output string
	scale  float64
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	a := &annotateCmd{root: r.subcommand("annotate")}
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	fs.StringVar(&a.output, "output", "annotated.png", "output file path")
	fs.Float64Var(&a.scale, "scale", 1, "device pixel ratio of the capture")
	a.fs = fs

	if len(args) < 1 {
		return nil, &UsageError{of: a}
	}
	a.action = args[0]
	rest := args[1:]
	if len(rest) > 0 && rest[0][0] != '-' {
		a.target = rest[0]
		rest = rest[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return nil, err
	}
	if a.scale <= 0 {
		return nil, fmt.Errorf("scale must be positive")
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	var (
		img *image.RGBA
		err error
	)
	switch a.action {
	case "capture":
		img, err = a.captureTarget()
		if err != nil {
			return err
		}
	case "open":
		if a.target == "" {
			return &UsageError{of: a}
		}
		img, err = loadPNG(a.target)
		if err != nil {
			return err
		}
	default:
		return &UsageError{of: a}
	}

	opts := editor.DefaultOptions()
	if a.activeTheme != nil {
		opts.Color = a.activeTheme.Accent
	}
	app := ui.New(
		ui.WithImage(img),
		ui.WithOutput(a.output),
		ui.WithTheme(a.activeTheme),
		ui.WithScale(a.scale),
		ui.WithNotifier(a.notifier),
		ui.WithEditorOptions(opts),
	)
	app.Run()
	return nil
}

func (a *annotateCmd) captureTarget() (*image.RGBA, error) {
	opts := a.captureOptions()
	switch a.target {
	case "", "screen":
		img, err := captureScreenshotFn("", opts)
		if err != nil {
			return nil, fmt.Errorf("failed to capture screen: %w", err)
		}
		return img, nil
	case "window":
		img, err := captureWindowFn("", opts)
		if err != nil {
			return nil, fmt.Errorf("failed to capture window: %w", err)
		}
		return img, nil
	case "region":
		img, err := captureRegionFn(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to capture region: %w", err)
		}
		return img, nil
	}
	return nil, &UsageError{of: a}
}

func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	img := image.NewRGBA(dec.Bounds())
	draw.Draw(img, img.Bounds(), dec, dec.Bounds().Min, draw.Src)
	return img, nil
}
