package export

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders img as a single-page PDF sized to the image's aspect
// ratio. Used by the gallery's share path.
func WritePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("refusing to export empty image")
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return fmt.Errorf("encode page image: %w", err)
	}

	// Page size in mm at roughly 96 DPI so the artifact prints at a
	// sensible physical size.
	const mmPerPixel = 25.4 / 96.0
	pageW := float64(b.Dx()) * mmPerPixel
	pageH := float64(b.Dy()) * mmPerPixel

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("capture", opts, &buf)
	pdf.ImageOptions("capture", 0, 0, pageW, pageH, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("compose pdf: %v", pdf.Error())
	}
	return pdf.Output(w)
}
