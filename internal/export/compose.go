// Package export flattens an annotated capture into shareable artifacts:
// PNG files, clipboard images and PDF documents.
package export

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/itsharex/lovshot/internal/annotation"
	"github.com/itsharex/lovshot/internal/clipboard"
	"github.com/itsharex/lovshot/internal/render"
)

// Compose flattens shapes over the source raster and returns the result.
// src stays untouched; mosaic regions sample it, everything else is painted
// on top. scale maps logical shape coordinates to src's device pixels.
func Compose(src *image.RGBA, shapes []annotation.Shape, scale float64) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	render.DrawShapes(out, src, shapes, scale)
	return out
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG flattens and writes the annotated capture to path.
func SavePNG(path string, src *image.RGBA, shapes []annotation.Shape, scale float64) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePNG(out, Compose(src, shapes, scale)); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

// CopyToClipboard flattens the annotated capture and publishes it to the
// system clipboard.
func CopyToClipboard(src *image.RGBA, shapes []annotation.Shape, scale float64) error {
	return clipboard.WriteImage(Compose(src, shapes, scale))
}
