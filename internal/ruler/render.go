package ruler

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rendering is purely cosmetic; nothing here mutates ruler state. All
// drawing happens in screen space — the caller must already have restored
// the identity view transform. scale is the device-pixel-ratio between the
// backing buffer and logical screen coordinates.

const (
	tickSpacing = 10.0
	tickMinor   = 7.0
	tickMedium  = 12.0
	tickMajor   = 18.0
	tickHalfW   = 0.6

	borderWidth = 1.5
	discRadius  = 22.0
)

var (
	bandColor   = color.RGBA{R: 250, G: 250, B: 248, A: 255}
	inkColor    = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	accentColor = color.RGBA{R: 160, G: 60, B: 40, A: 255}
)

const bandAlpha = 0.85

// Render draws the ruler band, ticks, numeric labels, the center angle
// disc, and a compass rose into dst.
func (r *Ruler) Render(dst *image.RGBA, scale float64) {
	if !r.Visible || dst == nil || scale <= 0 {
		return
	}
	b := dst.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}

	logicalW := float64(b.Dx()) / scale
	logicalH := float64(b.Dy()) / scale
	extent := extentScreenMultiple * math.Hypot(logicalW, logicalH)

	rad := r.Angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	u := r2.Vec{X: cos, Y: sin}
	n := r2.Vec{X: -sin, Y: cos}
	half := BandHeight / 2

	// Band, border, and tick marks in one pass over the buffer. Every
	// pixel is classified in the ruler's rotated frame; this handles
	// arbitrary angles without separate rasterization paths.
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			lx := (float64(px) + 0.5) / scale
			ly := (float64(py) + 0.5) / scale
			rel := r2.Vec{X: lx - r.X, Y: ly - r.Y}
			along := r2.Dot(rel, u)
			perp := r2.Dot(rel, n)

			if math.Abs(perp) > half || math.Abs(along) > extent {
				continue
			}

			blendPixel(dst, px, py, bandColor, bandAlpha)

			if half-math.Abs(perp) <= borderWidth {
				blendPixel(dst, px, py, inkColor, 1)
				continue
			}

			// Ticks hang from the far (top) edge.
			idx := math.Round(along / tickSpacing)
			if math.Abs(along-idx*tickSpacing) <= tickHalfW {
				length := tickMinor
				switch {
				case math.Mod(math.Abs(idx), 10) == 0:
					length = tickMajor
				case math.Mod(math.Abs(idx), 5) == 0:
					length = tickMedium
				}
				if perp+half <= length {
					blendPixel(dst, px, py, inkColor, 1)
				}
			}
		}
	}

	r.renderLabels(dst, scale, u, n, half, logicalW, logicalH)
	r.renderDisc(dst, scale, u, n)
}

// renderLabels draws a numeric label under every 10th tick that is within
// the visible screen.
func (r *Ruler) renderLabels(dst *image.RGBA, scale float64, u, n r2.Vec, half, logicalW, logicalH float64) {
	labelStep := 10 * tickSpacing

	// Visible range of the length axis, from the screen corners.
	minAlong := math.Inf(1)
	maxAlong := math.Inf(-1)
	for _, c := range [4]r2.Vec{{}, {X: logicalW}, {Y: logicalH}, {X: logicalW, Y: logicalH}} {
		a := r2.Dot(r2.Vec{X: c.X - r.X, Y: c.Y - r.Y}, u)
		minAlong = math.Min(minAlong, a)
		maxAlong = math.Max(maxAlong, a)
	}

	gscale := int(1.5*scale + 0.5)
	if gscale < 1 {
		gscale = 1
	}

	for k := math.Ceil(minAlong/labelStep) * labelStep; k <= maxAlong; k += labelStep {
		// Skip labels hidden behind the angle disc.
		if math.Abs(k) < discRadius+8 {
			continue
		}
		text := fmt.Sprintf("%d", int(k))
		pos := r2.Vec{X: r.X, Y: r.Y}
		pos = r2.Add(pos, r2.Scale(k, u))
		pos = r2.Add(pos, r2.Scale(-half+tickMajor+8, n))
		drawTextRotated(dst, text, pos, u, n, gscale, scale, inkColor)
	}
}

// renderDisc draws the center disc with the rounded angle readout and a
// compass rose rotated with the ruler.
func (r *Ruler) renderDisc(dst *image.RGBA, scale float64, u, n r2.Vec) {
	cx := int(r.X * scale)
	cy := int(r.Y * scale)
	rad := discRadius * scale
	rad2 := rad * rad
	ring2 := (rad - 2*scale) * (rad - 2*scale)

	b := dst.Bounds()
	minX := int(float64(cx) - rad - 1)
	maxX := int(float64(cx) + rad + 1)
	minY := int(float64(cy) - rad - 1)
	maxY := int(float64(cy) + rad + 1)
	for py := minY; py <= maxY; py++ {
		if py < b.Min.Y || py >= b.Max.Y {
			continue
		}
		for px := minX; px <= maxX; px++ {
			if px < b.Min.X || px >= b.Max.X {
				continue
			}
			dx := float64(px - cx)
			dy := float64(py - cy)
			d2 := dx*dx + dy*dy
			if d2 > rad2 {
				continue
			}
			if d2 >= ring2 {
				blendPixel(dst, px, py, inkColor, 1)
			} else {
				blendPixel(dst, px, py, bandColor, 1)
			}
		}
	}

	// Compass rose: eight radial ticks, cardinals longer, plus a north
	// marker; the rose rotates with the ruler.
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		sin, cos := math.Sincos(a)
		dir := r2.Add(r2.Scale(cos, u), r2.Scale(sin, n))
		r0, col := discRadius-6.0, inkColor
		if i%2 == 1 {
			r0 = discRadius - 4.5
		}
		if i == 6 { // ruler-local north
			col = accentColor
		}
		p0 := r2.Add(r2.Vec{X: r.X, Y: r.Y}, r2.Scale(r0, dir))
		p1 := r2.Add(r2.Vec{X: r.X, Y: r.Y}, r2.Scale(discRadius-3, dir))
		drawLine(dst,
			int(p0.X*scale), int(p0.Y*scale),
			int(p1.X*scale), int(p1.Y*scale),
			col, int(math.Max(1, scale)))
	}

	// Angle readout, horizontal regardless of ruler rotation.
	gscale := int(1.2*scale + 0.5)
	if gscale < 1 {
		gscale = 1
	}
	angle := int(math.Round(r.NormalizedAngle())) % 360
	drawTextRotated(dst, fmt.Sprintf("%d", angle),
		r2.Vec{X: r.X, Y: r.Y}, r2.Vec{X: 1}, r2.Vec{Y: 1}, gscale, scale, inkColor)
}

// drawTextRotated draws a bitmap-font string centered at pos (logical
// screen coordinates) with its baseline along u. Each font pixel becomes a
// gscale-sized device block.
func drawTextRotated(dst *image.RGBA, text string, pos, u, n r2.Vec, gscale int, scale float64, col color.RGBA) {
	runes := []rune(text)
	if len(runes) == 0 {
		return
	}
	wFont := textWidth(text)
	startX := -float64(wFont*gscale) / 2
	startY := -float64(glyphRows*gscale) / 2

	for i, ch := range runes {
		pattern := glyphPattern(ch)
		glyphX := startX + float64(i*(glyphCols+1)*gscale)
		for row := 0; row < glyphRows; row++ {
			for c := 0; c < glyphCols; c++ {
				if pattern[row]&(1<<(glyphCols-1-c)) == 0 {
					continue
				}
				// Font-pixel offset in the label frame, rotated into
				// screen space.
				ox := glyphX + float64(c*gscale)
				oy := startY + float64(row*gscale)
				off := r2.Add(r2.Scale(ox/scale, u), r2.Scale(oy/scale, n))
				dx := int((pos.X+off.X)*scale + 0.5)
				dy := int((pos.Y+off.Y)*scale + 0.5)
				fillBlock(dst, dx, dy, gscale, col)
			}
		}
	}
}

// fillBlock fills a gscale x gscale block with bounds checking.
func fillBlock(dst *image.RGBA, x, y, size int, col color.RGBA) {
	b := dst.Bounds()
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			px, py := x+dx, y+dy
			if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
				dst.SetRGBA(px, py, col)
			}
		}
	}
}

// drawLine draws a line between two device points using Bresenham's
// algorithm with square end caps of the given thickness.
func drawLine(dst *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	b := dst.Bounds()

	dx := x2 - x1
	if dx < 0 {
		dx = -dx
	}
	dy := y2 - y1
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
					dst.SetRGBA(px, py, col)
				}
			}
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// blendPixel alpha-blends col over the existing pixel.
func blendPixel(dst *image.RGBA, x, y int, col color.RGBA, alpha float64) {
	if alpha >= 1 {
		dst.SetRGBA(x, y, col)
		return
	}
	existing := dst.RGBAAt(x, y)
	inv := 1 - alpha
	dst.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(col.R)*alpha + float64(existing.R)*inv),
		G: uint8(float64(col.G)*alpha + float64(existing.G)*inv),
		B: uint8(float64(col.B)*alpha + float64(existing.B)*inv),
		A: 255,
	})
}
