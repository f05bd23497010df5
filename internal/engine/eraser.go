package engine

import (
	"inkmark/pkg/geometry"
)

// The eraser preview hides strokes from the composite while the gesture is
// still in progress, without committing anything to the history. On
// release the UI either commits the eraser path as a real group (and
// replays) or clears the preview to bring everything back.

// UpdateEraserPreview hides every visible stroke within the eraser radius
// of the given canvas point. Reports whether the hidden set grew; the
// composite is only rebuilt when it did.
func (e *Engine) UpdateEraserPreview(canvasPoint geometry.Point2D, eraserSize float64) bool {
	if e.base == nil {
		return false
	}
	path := []geometry.Point2D{canvasPoint}
	radius := eraserSize / 2

	changed := false
	for i := range e.visible {
		s := &e.visible[i]
		if _, hidden := e.previewHidden[s.ID]; hidden {
			continue
		}
		if eraserHitsStroke(s, path, radius) {
			e.previewHidden[s.ID] = struct{}{}
			changed = true
		}
	}
	if changed {
		e.rebuildComposite()
	}
	return changed
}

// ClearEraserPreview unhides all preview-hidden strokes. Reports whether
// anything was hidden.
func (e *Engine) ClearEraserPreview() bool {
	if len(e.previewHidden) == 0 {
		return false
	}
	e.previewHidden = make(map[string]struct{})
	e.rebuildComposite()
	return true
}

// HasEraserChangedAnything reports whether the current preview has hidden
// at least one stroke. A gesture that hit nothing should not be committed
// to the history.
func (e *Engine) HasEraserChangedAnything() bool {
	return len(e.previewHidden) > 0
}
