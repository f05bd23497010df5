// Package engine owns the layered canvas stack: the base image, the cached
// composite of base plus all visible committed strokes, and the
// device-resolution display buffer. It orchestrates brush calls during
// history replay, computes vector-eraser visibility, and renders the final
// view under pan/zoom.
package engine

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"inkmark/internal/brush"
	"inkmark/internal/imageio"
	"inkmark/internal/stroke"
)

// ErrLoadInProgress is returned when LoadImage is called while another load
// is still in flight. Loads are rejected, not queued, so a half-decoded
// image can never tear the layer buffers.
var ErrLoadInProgress = errors.New("image load already in progress")

// Engine is a per-document compositor instance. It is not safe for
// concurrent use; the expected single writer is the UI event loop.
type Engine struct {
	base      *image.RGBA
	composite *image.RGBA
	display   *image.RGBA

	// Strokes visible at the last replayed history position, after
	// eraser removals.
	visible []stroke.Stroke

	// Incremental-replay bookkeeping. The revision stamp guards against
	// histories mutated out from under the cache through some path other
	// than the normal group/undo/redo operations.
	lastRenderedIndex int
	lastRenderedCount int
	lastRevision      uint64
	haveRevision      bool

	// Stroke IDs hidden by the live eraser preview. Never touches the
	// history; purely a rendering-layer overlay.
	previewHidden map[string]struct{}

	loading atomic.Bool
}

// New creates an engine with no image loaded.
func New() *Engine {
	return &Engine{
		lastRenderedIndex: -1,
		previewHidden:     make(map[string]struct{}),
	}
}

// LoadImage decodes the image at path and makes it the base layer. A call
// while another load is in flight returns ErrLoadInProgress. Callers may
// run this on a goroutine; completion must be handed back to the render
// thread before touching the engine again.
func (e *Engine) LoadImage(path string) error {
	if !e.loading.CompareAndSwap(false, true) {
		return ErrLoadInProgress
	}
	defer e.loading.Store(false)

	img, err := imageio.Load(path)
	if err != nil {
		return fmt.Errorf("load image %s: %w", path, err)
	}
	e.SetImage(img)
	return nil
}

// SetImage installs an already-decoded image as the base layer, resizes
// the internal buffers, and resets all incremental-render bookkeeping.
func (e *Engine) SetImage(img image.Image) {
	e.base = imageio.ToRGBA(img)
	e.composite = image.NewRGBA(e.base.Bounds())
	copy(e.composite.Pix, e.base.Pix)

	e.visible = nil
	e.lastRenderedIndex = -1
	e.lastRenderedCount = 0
	e.haveRevision = false
	e.previewHidden = make(map[string]struct{})
}

// HasImage reports whether a base image is loaded.
func (e *Engine) HasImage() bool {
	return e.base != nil && e.base.Bounds().Dx() > 0 && e.base.Bounds().Dy() > 0
}

// Size returns the canvas pixel dimensions, zero when no image is loaded.
func (e *Engine) Size() image.Point {
	if e.base == nil {
		return image.Point{}
	}
	return e.base.Bounds().Size()
}

// VisibleStrokeCount returns how many committed strokes survive eraser
// removal at the current history position.
func (e *Engine) VisibleStrokeCount() int {
	return len(e.visible)
}

// FreshCombinedCanvas returns a new buffer holding a byte-for-byte copy of
// the current composite, for save and export paths that must not alias the
// live buffer.
func (e *Engine) FreshCombinedCanvas() *image.RGBA {
	if e.composite == nil {
		return nil
	}
	out := image.NewRGBA(e.composite.Bounds())
	copy(out.Pix, e.composite.Pix)
	return out
}

// Destroy releases all buffer references. The engine is unusable afterwards
// until a new image is set.
func (e *Engine) Destroy() {
	e.base = nil
	e.composite = nil
	e.display = nil
	e.visible = nil
	e.previewHidden = make(map[string]struct{})
	e.haveRevision = false
	e.lastRenderedIndex = -1
	e.lastRenderedCount = 0
}

// rebuildComposite redraws base plus every visible stroke, skipping any
// strokes hidden by the live eraser preview.
func (e *Engine) rebuildComposite() {
	if e.base == nil {
		return
	}
	if e.composite == nil || e.composite.Bounds() != e.base.Bounds() {
		e.composite = image.NewRGBA(e.base.Bounds())
	}
	copy(e.composite.Pix, e.base.Pix)

	surf := brush.NewSurface(e.composite).WithBase(e.base)
	for i := range e.visible {
		s := &e.visible[i]
		if _, hidden := e.previewHidden[s.ID]; hidden {
			continue
		}
		brush.DrawStroke(surf, s)
	}
}
