package render

import (
	"log"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"image"

	"github.com/itsharex/lovshot/internal/annotation"
)

var (
	fontOnce   sync.Once
	fontParsed *opentype.Font
	fontErr    error

	faceMu    sync.Mutex
	faceCache = map[float64]font.Face{}
)

func face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontParsed, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(fontParsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	faceCache[size] = f
	return f, nil
}

func drawTextShape(dst *image.RGBA, v annotation.Text, scale float64) {
	if v.Text == "" {
		return
	}
	f, err := face(v.FontSize * scale)
	if err != nil {
		log.Printf("render text: %v", err)
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(v.Color),
		Face: f,
		Dot:  fixed.P(int(math.Round(v.X*scale)), int(math.Round(v.Y*scale))),
	}
	d.DrawString(v.Text)
}

// MeasureText reports the advance width of text at the given font size in
// logical pixels, for callers that need layout estimates.
func MeasureText(text string, size float64) (float64, error) {
	f, err := face(size)
	if err != nil {
		return 0, err
	}
	d := &font.Drawer{Face: f}
	return float64(d.MeasureString(text).Ceil()), nil
}
