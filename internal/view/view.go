// Package view defines the pan/zoom view state shared by the engine, the
// ruler, and the host widget.
package view

import (
	"math"

	"inkmark/pkg/geometry"
)

const (
	// MinZoom and MaxZoom bound the sane zoom range; values outside are
	// treated as programmer error and frames are skipped.
	MinZoom = 0.1
	MaxZoom = 10.0

	// ZoomStep is the multiplicative step used by zoom in/out controls.
	ZoomStep = 1.25
)

// State describes the current view transform: screen = (canvas - Offset) * Zoom.
// DeviceScale is the device-pixel-ratio applied on top when rendering into
// the backing buffer.
type State struct {
	Zoom        float64
	Offset      geometry.Point2D
	DeviceScale float64
}

// Default returns a 1:1 view with no pan.
func Default() State {
	return State{Zoom: 1, DeviceScale: 1}
}

// Valid reports whether the view state is usable for rendering: all fields
// finite, zoom within the configured bounds, device scale positive.
func (s State) Valid() bool {
	for _, v := range []float64{s.Zoom, s.Offset.X, s.Offset.Y, s.DeviceScale} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Zoom >= MinZoom && s.Zoom <= MaxZoom && s.DeviceScale > 0
}

// Transform returns the canvas-to-screen affine transform.
func (s State) Transform() geometry.AffineTransform {
	return geometry.Scaling(s.Zoom, s.Zoom).Compose(geometry.Translation(-s.Offset.X, -s.Offset.Y))
}

// CanvasToScreen converts a canvas-space point to screen space.
func (s State) CanvasToScreen(p geometry.Point2D) geometry.Point2D {
	return s.Transform().Apply(p)
}

// ScreenToCanvas converts a screen-space point to canvas space. It must
// stay the exact numeric inverse of CanvasToScreen.
func (s State) ScreenToCanvas(p geometry.Point2D) geometry.Point2D {
	inv, ok := s.Transform().Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// ClampZoom clamps z into the valid zoom range.
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
