package export

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testCanvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	return img
}

func TestPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := PNG(path, testCanvas()); err != nil {
		t.Fatalf("PNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode written PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 64 || decoded.Bounds().Dy() != 48 {
		t.Errorf("decoded bounds = %v", decoded.Bounds())
	}
}

func TestPNGNilCanvas(t *testing.T) {
	if err := PNG(filepath.Join(t.TempDir(), "x.png"), nil); err == nil {
		t.Error("PNG(nil) returned nil error")
	}
}

func TestPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := PDF(path, testCanvas()); err != nil {
		t.Fatalf("PDF: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[:5]) != "%PDF-" {
		t.Errorf("output does not look like a PDF (%d bytes)", len(data))
	}
}

func TestPDFNilCanvas(t *testing.T) {
	if err := PDF(filepath.Join(t.TempDir(), "x.pdf"), nil); err == nil {
		t.Error("PDF(nil) returned nil error")
	}
}
