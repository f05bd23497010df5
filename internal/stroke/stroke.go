// Package stroke defines annotation strokes, tool configuration, and the
// linear undo history they are recorded in.
package stroke

import (
	"image/color"
	"time"

	"inkmark/pkg/geometry"

	"github.com/google/uuid"
)

// Tool identifies a drawing tool.
type Tool string

const (
	ToolPen         Tool = "pen"
	ToolHighlighter Tool = "highlighter"
	ToolArea        Tool = "area"
	ToolEraser      Tool = "eraser"
)

// BlendMode selects how brush pixels combine with the pixels underneath.
type BlendMode string

const (
	BlendNormal   BlendMode = "normal"
	BlendMultiply BlendMode = "multiply"

	// BlendColor recombines hue/saturation from the brush with the
	// lightness of the base image pixel. Only available when the drawing
	// surface has access to the base image buffer.
	BlendColor BlendMode = "color"
)

// EraserMode selects how much of a hit stroke the eraser removes.
type EraserMode string

const (
	// EraseFullStroke removes an entire stroke once any part of it is
	// within the eraser's hit radius.
	EraseFullStroke EraserMode = "full-stroke"
)

// ToolConfig carries the per-tool parameters of a stroke. Only the fields
// relevant to the stroke's tool are meaningful.
type ToolConfig struct {
	// Size is the stroke width in canvas pixels (pen, highlighter, eraser).
	Size float64 `json:"size,omitempty"`

	// Opacity is 0-100 (pen, highlighter, area).
	Opacity float64 `json:"opacity,omitempty"`

	// Blend is the blend mode (pen, highlighter, area).
	Blend BlendMode `json:"blend_mode,omitempty"`

	// BorderRadius rounds the corners of area marks, in canvas pixels.
	BorderRadius float64 `json:"border_radius,omitempty"`

	// Border enables an outline stroked outside the area fill.
	Border      bool    `json:"border,omitempty"`
	BorderWidth float64 `json:"border_width,omitempty"`

	// Eraser holds the erase mode (eraser only).
	Eraser EraserMode `json:"eraser_mode,omitempty"`
}

// Alpha returns the configured opacity as a 0-1 alpha value.
func (c ToolConfig) Alpha() float64 {
	a := c.Opacity / 100.0
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// Stroke is a single drawn mark. It is immutable once its group is
// finalized; points accumulate only while the stroke is live.
type Stroke struct {
	ID        string             `json:"id"`
	Tool      Tool               `json:"tool"`
	Color     color.RGBA         `json:"color"`
	Config    ToolConfig         `json:"config"`
	Points    []geometry.Point2D `json:"points"`
	Timestamp time.Time          `json:"timestamp"`
}

// BoundingBox returns the axis-aligned bounds of the stroke's points,
// without any allowance for brush size.
func (s *Stroke) BoundingBox() geometry.Rect {
	return geometry.BoundingBox(s.Points)
}

// Group is the atomic undo unit: typically one pointer-down-to-pointer-up
// gesture. An eraser group may hold several coalesced eraser drags; a
// group's strokes are always homogeneous in tool kind.
type Group struct {
	ID        string    `json:"id"`
	Strokes   []Stroke  `json:"strokes"`
	Timestamp time.Time `json:"timestamp"`
}

func newID() string {
	return uuid.NewString()
}
