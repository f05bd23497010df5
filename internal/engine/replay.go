package engine

import (
	"inkmark/internal/brush"
	"inkmark/internal/stroke"
	"inkmark/pkg/geometry"
)

// eraserHitMargin widens the eraser hit radius by a few canvas pixels so
// hairline strokes remain erasable at any zoom.
const eraserHitMargin = 3.0

// Replay brings the composite in sync with a history snapshot.
//
// The common case, one new non-eraser group appended right after the last
// replayed position, draws only the new group's strokes on top of the
// existing composite. Everything else (undo, redo, eraser commits, document
// loads, an active eraser preview) falls back to a full rebuild from the
// base image. The snapshot's revision stamp must advance by exactly one for
// the fast path; any other jump means the history changed in a way the
// cache cannot trust.
func (e *Engine) Replay(snap stroke.Snapshot) {
	if e.base == nil {
		return
	}

	if g, ok := e.fastAppendGroup(snap); ok {
		surf := brush.NewSurface(e.composite).WithBase(e.base)
		for i := range g.Strokes {
			brush.DrawStroke(surf, &g.Strokes[i])
			e.visible = append(e.visible, g.Strokes[i])
		}
	} else {
		e.visible = visibleStrokes(snap.Groups, snap.CurrentIndex)
		e.rebuildComposite()
	}

	e.lastRenderedIndex = snap.CurrentIndex
	e.lastRenderedCount = len(snap.Groups)
	e.lastRevision = snap.Revision
	e.haveRevision = true
}

// fastAppendGroup returns the newly appended group when the snapshot is an
// exact single-group extension of the last replayed state.
func (e *Engine) fastAppendGroup(snap stroke.Snapshot) (stroke.Group, bool) {
	if !e.haveRevision ||
		snap.Revision != e.lastRevision+1 ||
		snap.CurrentIndex != e.lastRenderedIndex+1 ||
		len(snap.Groups) != e.lastRenderedCount+1 ||
		len(e.previewHidden) > 0 {
		return stroke.Group{}, false
	}
	if snap.CurrentIndex < 0 || snap.CurrentIndex >= len(snap.Groups) {
		return stroke.Group{}, false
	}
	g := snap.Groups[snap.CurrentIndex]
	if len(g.Strokes) > 0 && g.Strokes[0].Tool == stroke.ToolEraser {
		return stroke.Group{}, false
	}
	return g, true
}

// visibleStrokes folds groups[0..currentIndex] into the flat list of
// strokes that survive. Drawing groups append; eraser groups remove every
// earlier stroke their path touches. Eraser strokes themselves never
// render.
func visibleStrokes(groups []stroke.Group, currentIndex int) []stroke.Stroke {
	var acc []stroke.Stroke
	for i := 0; i <= currentIndex && i < len(groups); i++ {
		g := groups[i]
		if len(g.Strokes) > 0 && g.Strokes[0].Tool == stroke.ToolEraser {
			acc = applyEraserGroup(acc, g)
			continue
		}
		acc = append(acc, g.Strokes...)
	}
	return acc
}

// applyEraserGroup removes from acc every stroke hit by any eraser stroke
// in the group. Removal is whole-stroke; there is no partial erase.
func applyEraserGroup(acc []stroke.Stroke, g stroke.Group) []stroke.Stroke {
	kept := acc[:0]
	for i := range acc {
		hit := false
		for j := range g.Strokes {
			er := &g.Strokes[j]
			if eraserHitsStroke(&acc[i], er.Points, er.Config.Size/2) {
				hit = true
				break
			}
		}
		if !hit {
			kept = append(kept, acc[i])
		}
	}
	return kept
}

// eraserHitsStroke tests whether an eraser path passes within the hit
// radius of a stroke. A cheap expanded-bounding-box rejection runs first;
// only candidates that survive pay for per-segment distance tests.
func eraserHitsStroke(target *stroke.Stroke, path []geometry.Point2D, radius float64) bool {
	if len(target.Points) == 0 || len(path) == 0 {
		return false
	}
	threshold := radius + eraserHitMargin

	box := target.BoundingBox().Expand(threshold + target.Config.Size/2)
	if !box.Intersects(geometry.BoundingBox(path)) {
		return false
	}

	if target.Tool == stroke.ToolArea {
		// Area marks are the rectangle spanned by their first and last
		// points; a hit is any eraser point within the expanded rectangle.
		rect := geometry.BoundingBox([]geometry.Point2D{
			target.Points[0],
			target.Points[len(target.Points)-1],
		}).Expand(threshold)
		for _, p := range path {
			if rect.Contains(p) {
				return true
			}
		}
		return false
	}

	t2 := threshold * threshold
	if len(target.Points) == 1 {
		pt := target.Points[0]
		for _, p := range path {
			if p.DistanceSquared(pt) <= t2 {
				return true
			}
		}
		return false
	}
	for _, p := range path {
		for i := 0; i+1 < len(target.Points); i++ {
			if geometry.DistToSegmentSquared(p, target.Points[i], target.Points[i+1]) <= t2 {
				return true
			}
		}
	}
	return false
}
