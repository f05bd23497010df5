package canvas

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"inkmark/internal/app"
	"inkmark/internal/stroke"
	"inkmark/internal/view"
	"inkmark/pkg/geometry"
)

// Pointer routing: a press starts exactly one gesture (ruler drag, pan,
// erase, or draw) and every later event for that press goes to it. The
// ruler wins over drawing when the press lands on its band; secondary
// button always pans.

// MouseDown implements desktop.Mouseable.
func (c *Canvas) MouseDown(ev *desktop.MouseEvent) {
	if c.gesture != gestureNone {
		return
	}
	screen := c.screenPoint(ev.Position)

	if ev.Button == desktop.MouseButtonSecondary {
		c.startPan(screen)
		return
	}

	size := c.Size()
	if c.state.Ruler.IsPointOnRuler(screen, float64(size.Width), float64(size.Height)) {
		c.gesture = gestureRuler
		c.state.Ruler.StartDrag(screen)
		return
	}
	if c.panMode {
		c.startPan(screen)
		return
	}
	if !c.state.Engine.HasImage() {
		return
	}

	canvasPt := c.view.ScreenToCanvas(screen)
	cfg := c.state.ActiveConfig()

	if c.state.ActiveTool == stroke.ToolEraser {
		c.gesture = gestureErase
		c.eraserSize = cfg.Size
		c.eraserPath = append(c.eraserPath[:0], canvasPt)
		c.state.Engine.UpdateEraserPreview(canvasPt, cfg.Size)
		c.Refresh()
		return
	}

	c.gesture = gestureDraw
	c.snapping = false
	p := c.snapStrokePoint(canvasPt, c.state.ActiveTool, cfg)
	c.state.History.StartGroup()
	c.state.History.StartStroke(c.state.ActiveTool, cfg, c.state.Color, p)
	c.Refresh()
}

// MouseUp implements desktop.Mouseable. Click-without-drag releases land
// here before any DragEnd, so the gesture is finished from both paths.
func (c *Canvas) MouseUp(ev *desktop.MouseEvent) {
	c.finishGesture()
}

// Dragged implements fyne.Draggable.
func (c *Canvas) Dragged(ev *fyne.DragEvent) {
	screen := c.screenPoint(ev.Position)

	switch c.gesture {
	case gestureRuler:
		c.state.Ruler.DragTo(screen)
		c.state.Emit(app.EventRulerChanged, nil)
		c.Refresh()

	case gesturePan:
		z := c.view.Zoom
		c.view.Offset = geometry.Point2D{
			X: c.panState.startOffset.X + (c.panState.startScreen.X-screen.X)/z,
			Y: c.panState.startOffset.Y + (c.panState.startScreen.Y-screen.Y)/z,
		}
		c.viewChanged()

	case gestureErase:
		canvasPt := c.view.ScreenToCanvas(screen)
		c.eraserPath = append(c.eraserPath, canvasPt)
		c.state.Engine.UpdateEraserPreview(canvasPt, c.eraserSize)
		c.Refresh()

	case gestureDraw:
		canvasPt := c.view.ScreenToCanvas(screen)
		p := c.snapStrokePoint(canvasPt, c.state.ActiveTool, c.state.ActiveConfig())
		if c.state.ActiveTool == stroke.ToolArea {
			// An area mark is spanned by its first and latest corner.
			if ls := c.state.History.LiveStroke(); ls != nil && len(ls.Points) > 1 {
				ls.Points[len(ls.Points)-1] = p
			} else {
				c.state.History.AddPoint(p)
			}
		} else {
			c.state.History.AddPoint(p)
		}
		c.Refresh()
	}
}

// DragEnd implements fyne.Draggable.
func (c *Canvas) DragEnd() {
	c.finishGesture()
}

// Scrolled implements fyne.Scrollable; the wheel zooms about the cursor.
func (c *Canvas) Scrolled(ev *fyne.ScrollEvent) {
	anchor := c.screenPoint(ev.Position)
	if ev.Scrolled.DY > 0 {
		c.zoomAbout(c.view.Zoom*view.ZoomStep, anchor)
	} else if ev.Scrolled.DY < 0 {
		c.zoomAbout(c.view.Zoom/view.ZoomStep, anchor)
	}
}

func (c *Canvas) startPan(screen geometry.Point2D) {
	c.gesture = gesturePan
	c.panState = panGesture{
		startScreen: screen,
		startOffset: c.view.Offset,
	}
}

// finishGesture commits or cancels the active gesture. Safe to call twice
// per press; the second call is a no-op.
func (c *Canvas) finishGesture() {
	g := c.gesture
	c.gesture = gestureNone

	switch g {
	case gestureRuler:
		c.state.Ruler.EndDrag()
		c.Refresh()

	case gestureErase:
		if c.state.Engine.HasEraserChangedAnything() {
			cfg := c.state.ToolConfigs[stroke.ToolEraser]
			c.state.History.StartGroup()
			c.state.History.StartStroke(stroke.ToolEraser, cfg, c.state.Color, c.eraserPath[0])
			for _, p := range c.eraserPath[1:] {
				c.state.History.AddPoint(p)
			}
			c.state.History.EndStroke()
			c.state.History.EndGroup()
			c.state.Engine.ClearEraserPreview()
			c.state.Engine.Replay(c.state.History.Snapshot())
			c.state.SetModified(true)
			c.state.Emit(app.EventStrokesChanged, nil)
		} else {
			c.state.Engine.ClearEraserPreview()
		}
		c.eraserPath = c.eraserPath[:0]
		c.Refresh()

	case gestureDraw:
		c.state.History.EndStroke()
		c.state.History.EndGroup()
		c.state.Engine.Replay(c.state.History.Snapshot())
		c.state.SetModified(true)
		c.state.Emit(app.EventStrokesChanged, nil)
		c.Refresh()
	}
}

// snapStrokePoint applies ruler snapping. Snapping engages when a point
// enters the sticky zone of an edge and stays on that edge until the
// point leaves the zone again.
func (c *Canvas) snapStrokePoint(p geometry.Point2D, tool stroke.Tool, cfg stroke.ToolConfig) geometry.Point2D {
	info := c.state.Ruler.GetSnapInfo(p, c.view)
	if c.snapping {
		if !info.InStickyZone {
			c.snapping = false
			return p
		}
	} else {
		if !info.OnRuler {
			return p
		}
		c.snapping = true
		c.snapToFarSide = info.SnapToFarSide
	}

	if tool == stroke.ToolArea {
		return c.state.Ruler.SnapPointToEdge(p, c.snapToFarSide, c.view)
	}
	return c.state.Ruler.SnapPoint(p, cfg.Size, tool, c.snapToFarSide, c.view)
}

func (c *Canvas) screenPoint(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
}
