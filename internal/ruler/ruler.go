// Package ruler implements the on-canvas protractor-style guide. The ruler
// lives in screen coordinates so its apparent size and position stay
// constant across zoom and pan; every geometric test against canvas-space
// points therefore converts explicitly through the current view state.
package ruler

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"inkmark/internal/stroke"
	"inkmark/internal/view"
	"inkmark/pkg/geometry"
)

const (
	// BandHeight is the ruler band height in screen pixels.
	BandHeight = 60.0

	// SnapThreshold is the sticky-zone width around each long edge, in
	// screen pixels.
	SnapThreshold = 20.0

	// The ruler's length is effectively infinite; hit tests use a few
	// multiples of the screen diagonal.
	extentScreenMultiple = 3.0

	// Canvas-space extent used by snap decisions.
	snapExtent = 1e5
)

// Ruler is a draggable, rotatable guide line with a fixed-height band.
// Position and angle are stored in screen space; Angle is degrees and may
// be carried unnormalized (it is taken mod 360 on use). The position is
// meaningless while the ruler is hidden.
type Ruler struct {
	Visible bool
	X, Y    float64
	Angle   float64

	dragging   bool
	dragAnchor geometry.Point2D
	dragOrigin geometry.Point2D
}

// SnapInfo is the result of testing a canvas point against the ruler's two
// long edges.
type SnapInfo struct {
	// Distance is the canvas-space distance to the nearer edge; +Inf when
	// the ruler is hidden.
	Distance float64

	// SnapToFarSide is true when the nearer edge is the far (negative
	// normal) side of the band.
	SnapToFarSide bool

	// InStickyZone is true when Distance is under the zoom-adjusted snap
	// threshold.
	InStickyZone bool

	// OnRuler additionally requires the point's position along the
	// ruler's length axis to be within the ruler extent.
	OnRuler bool
}

// New returns a hidden ruler.
func New() *Ruler {
	return &Ruler{}
}

// Show makes the ruler visible at its current position.
func (r *Ruler) Show() {
	r.Visible = true
}

// ShowAt makes the ruler visible at an explicit screen position.
func (r *Ruler) ShowAt(x, y float64) {
	r.X = x
	r.Y = y
	r.Visible = true
}

// Hide hides the ruler and cancels any drag in progress.
func (r *Ruler) Hide() {
	r.Visible = false
	r.dragging = false
}

// Toggle flips visibility.
func (r *Ruler) Toggle() {
	if r.Visible {
		r.Hide()
	} else {
		r.Show()
	}
}

// Rotate adds delta degrees to the ruler angle.
func (r *Ruler) Rotate(delta float64) {
	r.Angle += delta
}

// SetAngle sets the ruler angle in degrees.
func (r *Ruler) SetAngle(angle float64) {
	r.Angle = angle
}

// NormalizedAngle returns the angle normalized to [0, 360).
func (r *Ruler) NormalizedAngle() float64 {
	a := math.Mod(r.Angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// StartDrag captures the drag anchor and the ruler's pre-drag position.
func (r *Ruler) StartDrag(screenPoint geometry.Point2D) {
	r.dragging = true
	r.dragAnchor = screenPoint
	r.dragOrigin = geometry.Point2D{X: r.X, Y: r.Y}
}

// DragTo translates the ruler by the screen-space delta since the anchor.
// No-op if StartDrag was never called.
func (r *Ruler) DragTo(screenPoint geometry.Point2D) {
	if !r.dragging {
		return
	}
	d := screenPoint.Sub(r.dragAnchor)
	r.X = r.dragOrigin.X + d.X
	r.Y = r.dragOrigin.Y + d.Y
}

// EndDrag clears the transient drag state.
func (r *Ruler) EndDrag() {
	r.dragging = false
}

// IsDragging reports whether a drag is in progress.
func (r *Ruler) IsDragging() bool {
	return r.dragging
}

// CanvasPosition converts the ruler's screen anchor to canvas space under
// the given view. This is the inverse of the view's forward transform.
func (r *Ruler) CanvasPosition(v view.State) geometry.Point2D {
	return v.ScreenToCanvas(geometry.Point2D{X: r.X, Y: r.Y})
}

// axes returns the ruler's canvas-space length axis u and normal n.
func (r *Ruler) axes() (u, n r2.Vec) {
	rad := r.Angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return r2.Vec{X: cos, Y: sin}, r2.Vec{X: -sin, Y: cos}
}

// localFrame returns the point's coordinates in the ruler's rotated canvas
// frame: along the length axis and perpendicular to it.
func (r *Ruler) localFrame(canvasPoint geometry.Point2D, v view.State) (along, perp float64) {
	center := r.CanvasPosition(v)
	u, n := r.axes()
	rel := r2.Vec{X: canvasPoint.X - center.X, Y: canvasPoint.Y - center.Y}
	return r2.Dot(rel, u), r2.Dot(rel, n)
}

// GetSnapInfo computes the perpendicular distance from a canvas point to
// each of the ruler's two long edges and picks the nearer one. Band height
// and snap threshold are screen-space constants, converted to canvas space
// by dividing by the zoom. Returns a no-op result when the ruler is hidden.
func (r *Ruler) GetSnapInfo(canvasPoint geometry.Point2D, v view.State) SnapInfo {
	if !r.Visible || v.Zoom <= 0 {
		return SnapInfo{Distance: math.Inf(1)}
	}

	along, perp := r.localFrame(canvasPoint, v)
	half := BandHeight / 2 / v.Zoom

	distNear := math.Abs(perp - half)
	distFar := math.Abs(perp + half)

	info := SnapInfo{Distance: distNear}
	if distFar < distNear {
		info.Distance = distFar
		info.SnapToFarSide = true
	}
	info.InStickyZone = info.Distance <= SnapThreshold/v.Zoom
	info.OnRuler = info.InStickyZone && math.Abs(along) <= snapExtent
	return info
}

// SnapPoint projects a canvas point onto the chosen ruler edge, offset
// outward by half the footprint the brush presents perpendicular to the
// ruler, so the brush's edge touches the ruler rather than its centerline.
func (r *Ruler) SnapPoint(canvasPoint geometry.Point2D, brushSize float64, tool stroke.Tool, snapToFarSide bool, v view.State) geometry.Point2D {
	return r.project(canvasPoint, r.footprint(brushSize, tool)/2, snapToFarSide, v)
}

// SnapPointToEdge projects a canvas point onto the chosen ruler edge with
// no brush offset; area-tool corners should touch the ruler directly.
func (r *Ruler) SnapPointToEdge(canvasPoint geometry.Point2D, snapToFarSide bool, v view.State) geometry.Point2D {
	return r.project(canvasPoint, 0, snapToFarSide, v)
}

func (r *Ruler) project(canvasPoint geometry.Point2D, halfFootprint float64, snapToFarSide bool, v view.State) geometry.Point2D {
	if !r.Visible || v.Zoom <= 0 {
		return canvasPoint
	}

	center := r.CanvasPosition(v)
	u, n := r.axes()
	along, _ := r.localFrame(canvasPoint, v)
	half := BandHeight / 2 / v.Zoom

	target := half + halfFootprint
	if snapToFarSide {
		target = -target
	}

	pos := r2.Vec{X: center.X, Y: center.Y}
	pos = r2.Add(pos, r2.Scale(along, u))
	pos = r2.Add(pos, r2.Scale(target, n))
	return geometry.Point2D{X: pos.X, Y: pos.Y}
}

// footprint returns the extent, in canvas pixels, that a brush mark
// presents perpendicular to the ruler. A pen dab is circular, so its
// footprint is its diameter regardless of angle; the highlighter's upright
// rectangle is projected through the ruler's angle via the rectangle's
// support function.
func (r *Ruler) footprint(brushSize float64, tool stroke.Tool) float64 {
	switch tool {
	case stroke.ToolPen:
		return brushSize
	case stroke.ToolHighlighter:
		rad := r.Angle * math.Pi / 180
		sin, cos := math.Sincos(rad)
		w := brushSize * 0.3
		h := brushSize
		return math.Abs(sin)*w + math.Abs(cos)*h
	default:
		return 0
	}
}

// IsPointOnRuler rotates a screen point into the ruler's local frame and
// tests it against a very long rectangle of the band height. Used for
// click and hover targeting.
func (r *Ruler) IsPointOnRuler(screenPoint geometry.Point2D, screenW, screenH float64) bool {
	if !r.Visible {
		return false
	}
	rad := r.Angle * math.Pi / 180
	rel := r2.Vec{X: screenPoint.X - r.X, Y: screenPoint.Y - r.Y}
	local := r2.Rotate(rel, -rad, r2.Vec{})

	extent := extentScreenMultiple * math.Hypot(screenW, screenH)
	return math.Abs(local.Y) <= BandHeight/2 && math.Abs(local.X) <= extent
}
