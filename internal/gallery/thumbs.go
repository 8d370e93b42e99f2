package gallery

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

const thumbMaxDim = 256

// Thumbnail returns a scaled-down copy of img with the long edge clamped
// to maxDim. Images already small enough are copied unchanged.
func Thumbnail(img image.Image, maxDim int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > h {
		if w > maxDim {
			h = h * maxDim / w
			w = maxDim
		}
	} else {
		if h > maxDim {
			w = w * maxDim / h
			h = maxDim
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WriteThumbnail renders and saves a PNG thumbnail for artifact a under the
// gallery's .thumbs directory, returning the thumbnail path.
func (s *Store) WriteThumbnail(a Artifact, img image.Image) (string, error) {
	dir := filepath.Join(s.dir, ".thumbs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create thumbs dir: %w", err)
	}
	path := filepath.Join(dir, a.ID+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, Thumbnail(img, thumbMaxDim)); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return path, nil
}
