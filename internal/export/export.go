// Package export writes the flattened annotated canvas to external
// formats. Both exporters take a fresh combined canvas so the engine's
// live buffers are never shared with an encoder.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// PNG writes the image to path as a PNG file.
func PNG(path string, img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("export png: no canvas to export")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}

// PDF writes the image to path as a single-page PDF, the page sized to the
// image at 96 DPI so the canvas fills it edge to edge.
func PDF(path string, img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("export pdf: no canvas to export")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("export pdf: encode canvas: %w", err)
	}

	const mmPerPixel = 25.4 / 96
	w := float64(img.Bounds().Dx()) * mmPerPixel
	h := float64(img.Bounds().Dy()) * mmPerPixel

	orient := "P"
	if w > h {
		orient = "L"
	}
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.AddPage()
	p.RegisterImageOptionsReader("canvas", gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	p.ImageOptions("canvas", 0, 0, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}
