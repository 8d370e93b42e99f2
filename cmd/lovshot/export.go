package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsharex/lovshot/internal/export"
	"github.com/itsharex/lovshot/internal/gallery"
)

// exportCmd converts a saved capture to another document format.
type exportCmd struct {
	format   string
	file     string
	output   string
	noGallery bool
	*root
	fs *flag.FlagSet
}

func (e *exportCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	e := &exportCmd{root: r.subcommand("export")}
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.StringVar(&e.format, "format", "pdf", "output format (pdf or card)")
	fs.StringVar(&e.file, "file", "", "source image path")
	fs.StringVar(&e.output, "output", "", "destination path")
	fs.BoolVar(&e.noGallery, "no-gallery", false, "skip registering the export in the gallery")
	e.fs = fs
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.file == "" {
		return nil, &UsageError{of: e}
	}
	switch e.format {
	case "pdf", "card":
	default:
		return nil, fmt.Errorf("unsupported export format %q", e.format)
	}
	return e, nil
}

func (e *exportCmd) Run() error {
	img, err := loadPNG(e.file)
	if err != nil {
		return fmt.Errorf("read %s: %w", e.file, err)
	}
	if e.format == "card" {
		return e.writeCard(img)
	}
	return e.writePDF(img)
}

func (e *exportCmd) writeCard(img *image.RGBA) error {
	card := export.ComposeCard(img, nil, 1, export.DefaultCardOptions())

	path := e.output
	if path == "" {
		base := strings.TrimSuffix(filepath.Base(e.file), filepath.Ext(e.file))
		path = filepath.Join(e.saveDir(), base+"-card.png")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WritePNG(f, card); err != nil {
		f.Close()
		return fmt.Errorf("failed to export card: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	e.notifyExport(path)
	fmt.Println(path)

	if e.output == "" && !e.noGallery {
		store, err := gallery.Open(e.saveDir())
		if err == nil {
			_, err = store.Add(filepath.Base(path), gallery.KindScreenshot)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: gallery: %v\n", err)
		}
	}
	return nil
}

func (e *exportCmd) writePDF(img image.Image) error {
	path := e.output
	if path == "" {
		base := strings.TrimSuffix(filepath.Base(e.file), filepath.Ext(e.file))
		path = filepath.Join(e.saveDir(), base+".pdf")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WritePDF(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to export pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	e.notifyExport(path)
	fmt.Println(path)

	if e.output == "" && !e.noGallery {
		store, err := gallery.Open(e.saveDir())
		if err == nil {
			_, err = store.Add(filepath.Base(path), gallery.KindPDF)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: gallery: %v\n", err)
		}
	}
	return nil
}
