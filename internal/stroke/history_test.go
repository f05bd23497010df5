package stroke

import (
	"image/color"
	"testing"

	"inkmark/pkg/geometry"
)

func penConfig() ToolConfig {
	return ToolConfig{Size: 4, Opacity: 100, Blend: BlendNormal}
}

func addGroup(h *History, points ...geometry.Point2D) {
	h.StartGroup()
	h.StartStroke(ToolPen, penConfig(), color.RGBA{R: 255, A: 255}, points[0])
	for _, p := range points[1:] {
		h.AddPoint(p)
	}
	h.EndStroke()
	h.EndGroup()
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory()
	if h.CanUndo() {
		t.Error("empty history reports CanUndo")
	}
	if h.CanRedo() {
		t.Error("empty history reports CanRedo")
	}
	if h.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", h.CurrentIndex())
	}

	// No-op preconditions must not panic or move anything.
	h.Undo()
	h.Redo()
	h.AddPoint(geometry.Point2D{X: 1, Y: 1})
	h.EndStroke()
	h.EndGroup()
	if h.CurrentIndex() != -1 || h.Len() != 0 {
		t.Errorf("no-ops moved state: index %d len %d", h.CurrentIndex(), h.Len())
	}
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory()
	addGroup(h, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 10, Y: 0})
	addGroup(h, geometry.Point2D{X: 0, Y: 5}, geometry.Point2D{X: 10, Y: 5})

	if h.CurrentIndex() != 1 || h.Len() != 2 {
		t.Fatalf("after two groups: index %d len %d", h.CurrentIndex(), h.Len())
	}

	h.Undo()
	if h.CurrentIndex() != 0 || !h.CanRedo() {
		t.Fatalf("after undo: index %d canRedo %v", h.CurrentIndex(), h.CanRedo())
	}
	h.Undo()
	if h.CurrentIndex() != -1 || h.CanUndo() {
		t.Fatalf("after second undo: index %d canUndo %v", h.CurrentIndex(), h.CanUndo())
	}

	h.Redo()
	h.Redo()
	if h.CurrentIndex() != 1 || h.CanRedo() {
		t.Fatalf("after redos: index %d canRedo %v", h.CurrentIndex(), h.CanRedo())
	}

	// Bounded at the top.
	h.Redo()
	if h.CurrentIndex() != 1 {
		t.Errorf("redo past top moved to %d", h.CurrentIndex())
	}
}

func TestHistoryBranchTruncation(t *testing.T) {
	h := NewHistory()
	addGroup(h, geometry.Point2D{X: 0, Y: 0})
	addGroup(h, geometry.Point2D{X: 1, Y: 1})
	addGroup(h, geometry.Point2D{X: 2, Y: 2})

	h.Undo()
	h.Undo()
	if h.Len() != 3 {
		t.Fatalf("undo should keep the tail: len %d", h.Len())
	}

	// A new group from index 0 discards the two undone groups.
	addGroup(h, geometry.Point2D{X: 9, Y: 9})
	if h.Len() != 2 {
		t.Fatalf("after truncation: len %d, want 2", h.Len())
	}
	if h.CanRedo() {
		t.Error("redo still available after truncation")
	}
	snap := h.Snapshot()
	last := snap.Groups[1].Strokes[0].Points[0]
	if last.X != 9 || last.Y != 9 {
		t.Errorf("top group points = %v", last)
	}
}

func TestHistoryRevisionAdvances(t *testing.T) {
	h := NewHistory()
	r0 := h.Snapshot().Revision

	addGroup(h, geometry.Point2D{X: 0, Y: 0})
	r1 := h.Snapshot().Revision
	if r1 != r0+1 {
		t.Errorf("revision after group = %d, want %d", r1, r0+1)
	}

	h.Undo()
	r2 := h.Snapshot().Revision
	if r2 != r1+1 {
		t.Errorf("revision after undo = %d, want %d", r2, r1+1)
	}

	// Silent no-ops must not advance the revision.
	h.Undo()
	if got := h.Snapshot().Revision; got != r2 {
		t.Errorf("revision after no-op undo = %d, want %d", got, r2)
	}
}

func TestHistoryLiveStroke(t *testing.T) {
	h := NewHistory()
	if h.LiveStroke() != nil {
		t.Error("LiveStroke before any group")
	}

	h.StartGroup()
	h.StartStroke(ToolArea, ToolConfig{Opacity: 35}, color.RGBA{B: 255, A: 255}, geometry.Point2D{X: 1, Y: 2})
	ls := h.LiveStroke()
	if ls == nil || len(ls.Points) != 1 {
		t.Fatalf("LiveStroke() = %+v", ls)
	}

	h.AddPoint(geometry.Point2D{X: 5, Y: 6})
	if len(ls.Points) != 2 {
		t.Errorf("AddPoint not reflected in live stroke: %d points", len(ls.Points))
	}

	h.EndStroke()
	if h.LiveStroke() != nil {
		t.Error("LiveStroke after EndStroke")
	}
	h.EndGroup()
}

func TestHistoryStrokeMetadata(t *testing.T) {
	h := NewHistory()
	addGroup(h, geometry.Point2D{X: 0, Y: 0})
	addGroup(h, geometry.Point2D{X: 1, Y: 1})

	snap := h.Snapshot()
	s0 := snap.Groups[0].Strokes[0]
	s1 := snap.Groups[1].Strokes[0]
	if s0.ID == "" || s1.ID == "" || s0.ID == s1.ID {
		t.Errorf("stroke IDs not unique: %q %q", s0.ID, s1.ID)
	}
	if s0.Tool != ToolPen {
		t.Errorf("Tool = %q", s0.Tool)
	}
}

func TestHistoryRestore(t *testing.T) {
	h := NewHistory()
	addGroup(h, geometry.Point2D{X: 0, Y: 0})
	addGroup(h, geometry.Point2D{X: 1, Y: 1})
	snap := h.Snapshot()

	loaded := NewHistory()
	loaded.Restore(snap.Groups, 7) // out of range, clamps to top
	if loaded.CurrentIndex() != 1 || loaded.Len() != 2 {
		t.Errorf("after Restore: index %d len %d", loaded.CurrentIndex(), loaded.Len())
	}

	loaded.Restore(snap.Groups, -5)
	if loaded.CurrentIndex() != -1 {
		t.Errorf("Restore clamp low: index %d", loaded.CurrentIndex())
	}
}
