// Package canvas provides the annotation canvas widget: it renders the
// engine's composited output under pan and zoom and routes pointer input
// to drawing, erasing, ruler, and pan gestures.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"inkmark/internal/app"
	"inkmark/internal/view"
	"inkmark/pkg/geometry"
)

// gestureKind tracks what the active pointer drag is doing.
type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDraw
	gestureErase
	gestureRuler
	gesturePan
)

// Canvas is the interactive annotation viewport.
type Canvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster

	view view.State

	// Active gesture
	gesture  gestureKind
	panState panGesture

	// Eraser gesture path, in canvas coordinates. Committed to the
	// history on release only when the preview actually hid something.
	eraserPath []geometry.Point2D
	eraserSize float64

	// Once a stroke point snaps to a ruler edge, following points keep
	// snapping to the same edge while they stay in the sticky zone.
	snapping      bool
	snapToFarSide bool

	// Pan mode draws nothing; primary drag moves the view.
	panMode bool

	onViewChange func(view.State)
}

type panGesture struct {
	startScreen geometry.Point2D
	startOffset geometry.Point2D
}

// New creates the canvas widget bound to the application state.
func New(state *app.State) *Canvas {
	c := &Canvas{
		state: state,
		view:  view.Default(),
	}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.ExtendBaseWidget(c)

	state.On(app.EventImageLoaded, func(interface{}) {
		c.ResetView()
	})
	state.On(app.EventDocumentLoaded, func(interface{}) {
		c.ResetView()
	})
	return c
}

// View returns the current view state.
func (c *Canvas) View() view.State {
	return c.view
}

// OnViewChange sets a callback invoked after every zoom or pan change.
func (c *Canvas) OnViewChange(callback func(view.State)) {
	c.onViewChange = callback
}

// SetPanMode switches primary drags between drawing and panning.
func (c *Canvas) SetPanMode(pan bool) {
	c.panMode = pan
}

// PanMode reports whether pan mode is active.
func (c *Canvas) PanMode() bool {
	return c.panMode
}

// SetZoom sets the zoom level, keeping the viewport center fixed.
func (c *Canvas) SetZoom(zoom float64) {
	size := c.Size()
	c.zoomAbout(zoom, geometry.Point2D{
		X: float64(size.Width) / 2,
		Y: float64(size.Height) / 2,
	})
}

// ZoomIn increases the zoom level one step.
func (c *Canvas) ZoomIn() {
	c.SetZoom(c.view.Zoom * view.ZoomStep)
}

// ZoomOut decreases the zoom level one step.
func (c *Canvas) ZoomOut() {
	c.SetZoom(c.view.Zoom / view.ZoomStep)
}

// ResetView returns to 1:1 zoom with the canvas at the origin.
func (c *Canvas) ResetView() {
	c.view.Zoom = 1
	c.view.Offset = geometry.Point2D{}
	c.viewChanged()
}

// FitToWindow adjusts zoom so the whole canvas is visible with a small
// margin, centered in the viewport.
func (c *Canvas) FitToWindow() {
	imgSize := c.state.Engine.Size()
	size := c.Size()
	if imgSize.X == 0 || imgSize.Y == 0 || size.Width <= 0 || size.Height <= 0 {
		return
	}

	zx := float64(size.Width) / float64(imgSize.X)
	zy := float64(size.Height) / float64(imgSize.Y)
	zoom := view.ClampZoom(min(zx, zy) * 0.95)

	c.view.Zoom = zoom
	c.view.Offset = geometry.Point2D{
		X: (float64(imgSize.X) - float64(size.Width)/zoom) / 2,
		Y: (float64(imgSize.Y) - float64(size.Height)/zoom) / 2,
	}
	c.viewChanged()
}

// zoomAbout changes the zoom while keeping the canvas point under the
// given screen anchor stationary.
func (c *Canvas) zoomAbout(zoom float64, screenAnchor geometry.Point2D) {
	zoom = view.ClampZoom(zoom)
	if zoom == c.view.Zoom {
		return
	}
	anchor := c.view.ScreenToCanvas(screenAnchor)
	c.view.Zoom = zoom
	c.view.Offset = geometry.Point2D{
		X: anchor.X - screenAnchor.X/zoom,
		Y: anchor.Y - screenAnchor.Y/zoom,
	}
	c.viewChanged()
}

func (c *Canvas) viewChanged() {
	c.Refresh()
	if c.onViewChange != nil {
		c.onViewChange(c.view)
	}
}

// Refresh redraws the raster.
func (c *Canvas) Refresh() {
	c.raster.Refresh()
}

// draw is the raster callback. w and h are device pixels; the widget's
// logical size gives the device scale.
func (c *Canvas) draw(w, h int) image.Image {
	size := c.Size()
	if size.Width > 0 {
		c.view.DeviceScale = float64(w) / float64(size.Width)
	}
	if c.view.DeviceScale <= 0 {
		c.view.DeviceScale = 1
	}

	out := c.state.Engine.Render(c.view, c.state.Ruler, w, h, c.state.History.LiveStroke())
	if out == nil {
		empty := image.NewRGBA(image.Rect(0, 0, w, h))
		for i := 0; i < len(empty.Pix); i += 4 {
			empty.Pix[i] = 32
			empty.Pix[i+1] = 32
			empty.Pix[i+2] = 32
			empty.Pix[i+3] = 255
		}
		return empty
	}
	return out
}

// CreateRenderer implements fyne.Widget.
func (c *Canvas) CreateRenderer() fyne.WidgetRenderer {
	return &canvasRenderer{canvas: c}
}

type canvasRenderer struct {
	canvas *Canvas
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *canvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *canvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *canvasRenderer) Destroy() {}
