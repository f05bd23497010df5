// Package brush provides the stateless raster routines that turn strokes
// into pixels. All drawing happens on in-memory RGBA buffers, so the
// routines are testable without a live display.
package brush

import (
	"image"
	"image/color"

	"inkmark/internal/stroke"
	"inkmark/pkg/colorutil"
)

// PaintState is the explicit paint state of a Surface: blend mode and
// global alpha. It replaces the ambient mutable state of a 2D context with
// a value that can be saved and restored around a draw call.
type PaintState struct {
	Mode  stroke.BlendMode
	Alpha float64
}

// Surface wraps a destination RGBA buffer together with paint state and an
// optional base-image buffer. The base buffer is only needed for the color
// blend mode, which samples the original image's lightness. When the
// destination is not in the base's coordinate space (a zoomed display
// buffer), a scale and offset map destination pixels back onto the base.
type Surface struct {
	img       *image.RGBA
	base      *image.RGBA
	baseOX    float64
	baseOY    float64
	baseScale float64
	paint     PaintState
	stack     []PaintState
}

// NewSurface creates a surface over dst with default paint (normal, alpha 1).
func NewSurface(dst *image.RGBA) *Surface {
	return &Surface{img: dst, baseScale: 1, paint: PaintState{Mode: stroke.BlendNormal, Alpha: 1}}
}

// WithBase attaches the base-image pixel buffer used by the color blend
// mode. The destination and base share the same coordinate space.
func (s *Surface) WithBase(base *image.RGBA) *Surface {
	return s.WithBaseView(base, 0, 0, 1)
}

// WithBaseView attaches the base buffer for a destination in a transformed
// space: destination pixel (x, y) samples base pixel (x/scale+ox, y/scale+oy).
func (s *Surface) WithBaseView(base *image.RGBA, ox, oy, scale float64) *Surface {
	s.base = base
	s.baseOX = ox
	s.baseOY = oy
	if scale <= 0 {
		scale = 1
	}
	s.baseScale = scale
	return s
}

// Image returns the destination buffer.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Paint returns the current paint state.
func (s *Surface) Paint() PaintState {
	return s.paint
}

// SetPaint replaces the current paint state.
func (s *Surface) SetPaint(mode stroke.BlendMode, alpha float64) {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	s.paint = PaintState{Mode: mode, Alpha: alpha}
}

// SavePaint pushes the current paint state.
func (s *Surface) SavePaint() {
	s.stack = append(s.stack, s.paint)
}

// RestorePaint pops the most recently saved paint state. Restoring with an
// empty stack resets to the default.
func (s *Surface) RestorePaint() {
	if n := len(s.stack); n > 0 {
		s.paint = s.stack[n-1]
		s.stack = s.stack[:n-1]
		return
	}
	s.paint = PaintState{Mode: stroke.BlendNormal, Alpha: 1}
}

// blend paints one pixel with the current paint state. coverage scales the
// effective alpha for partially covered pixels (rounded corners); fully
// covered pixels pass 1.
func (s *Surface) blend(x, y int, col color.RGBA, coverage float64) {
	b := s.img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	a := s.paint.Alpha * coverage
	if a <= 0 {
		return
	}
	if a > 1 {
		a = 1
	}

	dst := s.img.RGBAAt(x, y)
	src := col

	switch s.paint.Mode {
	case stroke.BlendMultiply:
		src = color.RGBA{
			R: uint8(uint16(dst.R) * uint16(col.R) / 255),
			G: uint8(uint16(dst.G) * uint16(col.G) / 255),
			B: uint8(uint16(dst.B) * uint16(col.B) / 255),
			A: 255,
		}
	case stroke.BlendColor:
		ref := dst
		if s.base != nil {
			bx := int(float64(x)/s.baseScale + s.baseOX)
			by := int(float64(y)/s.baseScale + s.baseOY)
			rb := s.base.Bounds()
			if bx >= rb.Min.X && bx < rb.Max.X && by >= rb.Min.Y && by < rb.Max.Y {
				ref = s.base.RGBAAt(bx, by)
			}
		}
		bh, bs, _ := colorutil.RGBToHSL(float64(col.R), float64(col.G), float64(col.B))
		_, _, pl := colorutil.RGBToHSL(float64(ref.R), float64(ref.G), float64(ref.B))
		nr, ng, nb := colorutil.HSLToRGB(bh, bs, pl)
		src = color.RGBA{R: uint8(nr + 0.5), G: uint8(ng + 0.5), B: uint8(nb + 0.5), A: 255}
	}

	inv := 1 - a
	out := color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*inv),
		G: uint8(float64(src.G)*a + float64(dst.G)*inv),
		B: uint8(float64(src.B)*a + float64(dst.B)*inv),
		A: uint8(255*a + float64(dst.A)*inv),
	}
	s.img.SetRGBA(x, y, out)
}
