package brush

import (
	"math"

	"inkmark/internal/stroke"
	"inkmark/pkg/geometry"
)

const (
	// Sub-point spacing along the path for circular pen dabs.
	penStep = 1.0

	// Highlighter marks are coarser; the rectangular footprint tolerates it.
	highlighterStep = 2.0

	// Highlighter footprint: height = size, width = 0.3 x size. The
	// rectangle never rotates to follow stroke direction; the upright mark
	// is what distinguishes a highlighter from a calligraphy pen.
	highlighterWidthRatio = 0.3
)

// pixelKey identifies an integer pixel for per-stroke de-duplication.
type pixelKey struct{ x, y int }

// DrawStroke rasterizes one stroke onto the surface. The caller's paint
// state is saved around the draw: the stroke's own blend mode and opacity
// apply while stamping, and the previous state is restored on return.
// Eraser strokes never rasterize; erasing is a visibility computation over
// the vector stroke list, handled by the engine.
func DrawStroke(s *Surface, st *stroke.Stroke) {
	if len(st.Points) == 0 {
		return
	}

	switch st.Tool {
	case stroke.ToolEraser:
		return
	case stroke.ToolPen, stroke.ToolHighlighter, stroke.ToolArea:
	default:
		return
	}

	s.SavePaint()
	defer s.RestorePaint()

	mode := st.Config.Blend
	if mode == "" {
		mode = stroke.BlendNormal
	}
	s.SetPaint(mode, st.Config.Alpha())

	switch st.Tool {
	case stroke.ToolPen:
		drawPen(s, st)
	case stroke.ToolHighlighter:
		drawHighlighter(s, st)
	case stroke.ToolArea:
		drawArea(s, st)
	}
}

// drawPen stamps circular dabs at ~1px spacing along the polyline. The
// visited set guarantees each pixel is painted at most once per stroke, so
// overlapping dabs never stack opacity.
func drawPen(s *Surface, st *stroke.Stroke) {
	r := st.Config.Size / 2
	if r <= 0 {
		r = 0.5
	}
	visited := make(map[pixelKey]struct{})

	pts := st.Points
	if len(pts) == 1 {
		stampCircle(s, st, pts[0], r, visited)
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		forEachSubPoint(pts[i], pts[i+1], penStep, func(p geometry.Point2D) {
			stampCircle(s, st, p, r, visited)
		})
	}
}

// drawHighlighter stamps upright rectangles along the polyline with the
// same visited-pixel de-duplication as the pen.
func drawHighlighter(s *Surface, st *stroke.Stroke) {
	size := st.Config.Size
	if size <= 0 {
		size = 1
	}
	halfW := size * highlighterWidthRatio / 2
	halfH := size / 2
	visited := make(map[pixelKey]struct{})

	pts := st.Points
	if len(pts) == 1 {
		stampRect(s, st, pts[0], halfW, halfH, visited)
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		forEachSubPoint(pts[i], pts[i+1], highlighterStep, func(p geometry.Point2D) {
			stampRect(s, st, p, halfW, halfH, visited)
		})
	}
}

// forEachSubPoint linearly interpolates sub-points at the given spacing
// along segment [a, b], including both endpoints.
func forEachSubPoint(a, b geometry.Point2D, step float64, fn func(geometry.Point2D)) {
	d := a.Distance(b)
	steps := int(d/step) + 1
	for j := 0; j <= steps; j++ {
		t := float64(j) / float64(steps)
		fn(geometry.Point2D{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)})
	}
}

// stampCircle fills every not-yet-visited pixel whose center lies within
// radius r of c. The loop iterates only the stamp's integer bounding box,
// keeping per-stroke cost proportional to stroke length x brush size.
func stampCircle(s *Surface, st *stroke.Stroke, c geometry.Point2D, r float64, visited map[pixelKey]struct{}) {
	minX := int(math.Floor(c.X - r))
	maxX := int(math.Ceil(c.X + r))
	minY := int(math.Floor(c.Y - r))
	maxY := int(math.Ceil(c.Y + r))
	r2 := r * r

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			dx := float64(px) + 0.5 - c.X
			dy := float64(py) + 0.5 - c.Y
			if dx*dx+dy*dy > r2 {
				continue
			}
			key := pixelKey{px, py}
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}
			s.blend(px, py, st.Color, 1)
		}
	}
}

// stampRect fills every not-yet-visited pixel whose center lies within the
// axis-aligned rectangle of half-extents (halfW, halfH) around c.
func stampRect(s *Surface, st *stroke.Stroke, c geometry.Point2D, halfW, halfH float64, visited map[pixelKey]struct{}) {
	minX := int(math.Floor(c.X - halfW))
	maxX := int(math.Ceil(c.X + halfW))
	minY := int(math.Floor(c.Y - halfH))
	maxY := int(math.Ceil(c.Y + halfH))

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			cx := float64(px) + 0.5
			cy := float64(py) + 0.5
			if math.Abs(cx-c.X) > halfW || math.Abs(cy-c.Y) > halfH {
				continue
			}
			key := pixelKey{px, py}
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}
			s.blend(px, py, st.Color, 1)
		}
	}
}

// drawArea fills the axis-aligned rectangle spanned by the stroke's first
// and last point. With no corner radius the fill is a hard pixel loop; with
// a radius, anti-aliasing is confined to the curved corners. The optional
// border is stroked outside the fill bounds so it never overlaps or shrinks
// the fill.
func drawArea(s *Surface, st *stroke.Stroke) {
	first := st.Points[0]
	last := st.Points[len(st.Points)-1]

	x0 := math.Min(first.X, last.X)
	x1 := math.Max(first.X, last.X)
	y0 := math.Min(first.Y, last.Y)
	y1 := math.Max(first.Y, last.Y)
	w := x1 - x0
	h := y1 - y0
	if w <= 0 || h <= 0 {
		return
	}

	radius := st.Config.BorderRadius
	if radius < 0 {
		radius = 0
	}
	if max := math.Min(w, h) / 2; radius > max {
		radius = max
	}

	minX := int(math.Floor(x0))
	maxX := int(math.Ceil(x1))
	minY := int(math.Floor(y0))
	maxY := int(math.Ceil(y1))

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			cx := float64(px) + 0.5
			cy := float64(py) + 0.5
			if cx < x0 || cx > x1 || cy < y0 || cy > y1 {
				continue
			}
			if radius == 0 {
				s.blend(px, py, st.Color, 1)
				continue
			}
			cov := roundedCornerCoverage(cx, cy, x0, y0, x1, y1, radius)
			if cov > 0 {
				s.blend(px, py, st.Color, cov)
			}
		}
	}

	if st.Config.Border && st.Config.BorderWidth > 0 {
		drawAreaBorder(s, st, x0, y0, x1, y1, radius)
	}
}

// roundedCornerCoverage returns pixel coverage for a point inside the
// rectangle: full everywhere except the four corner quadrants, where the
// corner arc is sampled with one pixel of smoothing.
func roundedCornerCoverage(cx, cy, x0, y0, x1, y1, radius float64) float64 {
	var ax, ay float64
	switch {
	case cx < x0+radius && cy < y0+radius:
		ax, ay = x0+radius, y0+radius
	case cx > x1-radius && cy < y0+radius:
		ax, ay = x1-radius, y0+radius
	case cx < x0+radius && cy > y1-radius:
		ax, ay = x0+radius, y1-radius
	case cx > x1-radius && cy > y1-radius:
		ax, ay = x1-radius, y1-radius
	default:
		return 1
	}
	d := math.Hypot(cx-ax, cy-ay)
	cov := radius + 0.5 - d
	if cov < 0 {
		return 0
	}
	if cov > 1 {
		return 1
	}
	return cov
}

// drawAreaBorder strokes a ring immediately outside the fill boundary. The
// ring spans signed distances (0, borderWidth] from the rounded rectangle,
// which is the same as centering a borderWidth-wide stroke on a rectangle
// expanded outward by half the border width with correspondingly grown
// corner radius.
func drawAreaBorder(s *Surface, st *stroke.Stroke, x0, y0, x1, y1, radius float64) {
	bw := st.Config.BorderWidth

	minX := int(math.Floor(x0 - bw - 1))
	maxX := int(math.Ceil(x1 + bw + 1))
	minY := int(math.Floor(y0 - bw - 1))
	maxY := int(math.Ceil(y1 + bw + 1))

	cx := (x0 + x1) / 2
	cy := (y0 + y1) / 2
	halfX := (x1-x0)/2 - radius
	halfY := (y1-y0)/2 - radius

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			pcx := float64(px) + 0.5
			pcy := float64(py) + 0.5

			// Signed distance to the rounded rectangle boundary.
			dx := math.Abs(pcx-cx) - halfX
			qx := math.Max(dx, 0)
			dy := math.Abs(pcy-cy) - halfY
			qy := math.Max(dy, 0)
			sd := math.Hypot(qx, qy) + math.Min(math.Max(dx, dy), 0) - radius

			if sd > 0 && sd <= bw {
				s.blend(px, py, st.Color, 1)
			}
		}
	}
}
