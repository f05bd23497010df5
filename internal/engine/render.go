package engine

import (
	"image"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"

	"inkmark/internal/brush"
	"inkmark/internal/ruler"
	"inkmark/internal/stroke"
	"inkmark/internal/view"
	"inkmark/pkg/geometry"
)

// Render produces the display buffer for one frame: background, the zoomed
// composite, the live in-progress stroke, then the ruler overlay.
// deviceW and deviceH are the backing-buffer dimensions in device pixels.
// The returned buffer is reused between frames and stays valid until the
// next Render or Destroy call.
func (e *Engine) Render(v view.State, rul *ruler.Ruler, deviceW, deviceH int, preview *stroke.Stroke) *image.RGBA {
	if e.base == nil || deviceW <= 0 || deviceH <= 0 {
		return nil
	}
	if !v.Valid() {
		log.Printf("engine: invalid view state zoom=%v offset=(%v,%v), frame skipped",
			v.Zoom, v.Offset.X, v.Offset.Y)
		return e.display
	}

	if e.display == nil || e.display.Bounds().Dx() != deviceW || e.display.Bounds().Dy() != deviceH {
		e.display = image.NewRGBA(image.Rect(0, 0, deviceW, deviceH))
	}
	fillBackground(e.display)

	// Composite blit. Nearest neighbor keeps pixels crisp when zoomed in
	// and matches what the brush rasterizer produced at 1:1.
	s := v.Zoom * v.DeviceScale
	cb := e.composite.Bounds()
	dst := image.Rect(
		round((0-v.Offset.X)*s),
		round((0-v.Offset.Y)*s),
		round((float64(cb.Dx())-v.Offset.X)*s),
		round((float64(cb.Dy())-v.Offset.Y)*s),
	)
	xdraw.NearestNeighbor.Scale(e.display, dst, e.composite, cb, xdraw.Over, nil)

	if preview != nil && len(preview.Points) > 0 && preview.Tool != stroke.ToolEraser {
		scaled := scaleStrokeToDevice(preview, v)
		// The preview is rasterized in device space, so the color blend
		// maps display pixels back through the view to sample the base.
		surf := brush.NewSurface(e.display).WithBaseView(e.base, v.Offset.X, v.Offset.Y, s)
		brush.DrawStroke(surf, &scaled)
	}

	if rul != nil {
		rul.Render(e.display, v.DeviceScale)
	}
	return e.display
}

// scaleStrokeToDevice maps a canvas-space stroke into display-buffer
// coordinates so the live preview can be rasterized directly at device
// resolution instead of into the canvas and re-scaled.
func scaleStrokeToDevice(src *stroke.Stroke, v view.State) stroke.Stroke {
	s := v.Zoom * v.DeviceScale
	out := *src
	out.Config.Size *= s
	out.Config.BorderRadius *= s
	out.Config.BorderWidth *= s
	out.Points = make([]geometry.Point2D, len(src.Points))
	for i, p := range src.Points {
		out.Points[i] = geometry.Point2D{
			X: (p.X - v.Offset.X) * s,
			Y: (p.Y - v.Offset.Y) * s,
		}
	}
	return out
}

// fillBackground paints the area outside the canvas a neutral dark gray.
func fillBackground(img *image.RGBA) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = 32
		pix[i+1] = 32
		pix[i+2] = 32
		pix[i+3] = 255
	}
}

func round(f float64) int {
	return int(math.Round(f))
}
