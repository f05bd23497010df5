package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	src.SetRGBA(3, 2, color.RGBA{R: 200, G: 10, B: 30, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load of missing file succeeded")
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load of non-image succeeded")
	}
}

func TestToRGBA(t *testing.T) {
	// Non-RGBA input converts, and a shifted origin normalizes to (0,0).
	gray := image.NewGray(image.Rect(10, 20, 18, 26))
	gray.SetGray(12, 22, color.Gray{Y: 77})

	rgba := ToRGBA(gray)
	if rgba.Bounds().Min != (image.Point{}) {
		t.Errorf("origin = %v, want (0,0)", rgba.Bounds().Min)
	}
	if got := rgba.RGBAAt(2, 2); got.R != 77 || got.A != 255 {
		t.Errorf("pixel = %v, want gray 77", got)
	}

	// An origin-0 RGBA passes through without copying.
	direct := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if ToRGBA(direct) != direct {
		t.Error("origin-0 RGBA was copied")
	}
}

func TestIsSupportedFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.png", true},
		{"scan.JPG", true},
		{"doc.tiff", true},
		{"notes.txt", false},
		{"archive.zip", false},
	}
	for _, tt := range tests {
		if got := IsSupportedFormat(tt.path); got != tt.want {
			t.Errorf("IsSupportedFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
