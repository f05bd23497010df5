package stroke

import (
	"image/color"
	"time"

	"inkmark/pkg/geometry"
)

// History is an ordered list of stroke groups with a cursor at the last
// applied group. Undo and redo only move the cursor; starting a new group
// while redo is available truncates the stale tail (linear undo, not a
// tree).
//
// Every operation whose precondition fails is a silent no-op: undo at the
// bottom, redo at the top, or adding points with no live stroke simply do
// nothing. An interactive tool recovers by further user action, so hard
// failures would only be jarring.
type History struct {
	groups  []Group
	current int

	// revision increases on every structural change (new group, undo,
	// redo). Renderers use it to detect histories that were mutated out
	// from under their incremental cache.
	revision uint64

	liveGroup  bool
	liveStroke bool
}

// Snapshot is a consistent read of the history, safe to hand to a renderer.
type Snapshot struct {
	Groups       []Group
	CurrentIndex int
	Revision     uint64
}

// NewHistory returns an empty history; the cursor starts at -1 (blank canvas).
func NewHistory() *History {
	return &History{current: -1}
}

// StartGroup opens a new group at the cursor. Any groups beyond the cursor
// (a pending redo branch) are discarded first.
func (h *History) StartGroup() {
	if h.current < len(h.groups)-1 {
		h.groups = h.groups[:h.current+1]
	}
	h.groups = append(h.groups, Group{
		ID:        newID(),
		Timestamp: time.Now(),
	})
	h.current = len(h.groups) - 1
	h.revision++
	h.liveGroup = true
	h.liveStroke = false
}

// StartStroke appends a new stroke to the live group, seeded with one point.
// No-op when no group is open.
func (h *History) StartStroke(tool Tool, cfg ToolConfig, col color.RGBA, p geometry.Point2D) {
	if !h.liveGroup {
		return
	}
	g := &h.groups[h.current]
	g.Strokes = append(g.Strokes, Stroke{
		ID:        newID(),
		Tool:      tool,
		Color:     col,
		Config:    cfg,
		Points:    []geometry.Point2D{p},
		Timestamp: time.Now(),
	})
	h.liveStroke = true
}

// AddPoint appends a point to the live stroke. No-op when no stroke is live.
func (h *History) AddPoint(p geometry.Point2D) {
	if !h.liveGroup || !h.liveStroke {
		return
	}
	g := &h.groups[h.current]
	if len(g.Strokes) == 0 {
		return
	}
	s := &g.Strokes[len(g.Strokes)-1]
	s.Points = append(s.Points, p)
}

// EndStroke finalizes the live stroke; further points need a new StartStroke.
func (h *History) EndStroke() {
	h.liveStroke = false
}

// EndGroup finalizes the live group.
func (h *History) EndGroup() {
	h.liveGroup = false
	h.liveStroke = false
}

// Undo moves the cursor back one group. No-op at the bottom.
func (h *History) Undo() {
	if h.current < 0 {
		return
	}
	h.current--
	h.revision++
}

// Redo moves the cursor forward one group. No-op at the top.
func (h *History) Redo() {
	if h.current >= len(h.groups)-1 {
		return
	}
	h.current++
	h.revision++
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool {
	return h.current >= 0
}

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool {
	return h.current < len(h.groups)-1
}

// CurrentIndex returns the index of the last applied group, -1 when empty.
func (h *History) CurrentIndex() int {
	return h.current
}

// Len returns the number of groups, including any undone tail.
func (h *History) Len() int {
	return len(h.groups)
}

// CurrentGroup returns the group at the cursor, or nil.
func (h *History) CurrentGroup() *Group {
	if h.current < 0 || h.current >= len(h.groups) {
		return nil
	}
	return &h.groups[h.current]
}

// LiveStroke returns the stroke currently being drawn, or nil.
func (h *History) LiveStroke() *Stroke {
	if !h.liveStroke {
		return nil
	}
	g := h.CurrentGroup()
	if g == nil || len(g.Strokes) == 0 {
		return nil
	}
	return &g.Strokes[len(g.Strokes)-1]
}

// Snapshot returns the groups and cursor as one consistent value. The
// returned slice shares backing storage with the history; finalized groups
// are never mutated, so the renderer may read it freely.
func (h *History) Snapshot() Snapshot {
	return Snapshot{
		Groups:       h.groups,
		CurrentIndex: h.current,
		Revision:     h.revision,
	}
}

// Restore replaces the history contents wholesale, e.g. when loading a
// document. The cursor is clamped into range.
func (h *History) Restore(groups []Group, currentIndex int) {
	if currentIndex > len(groups)-1 {
		currentIndex = len(groups) - 1
	}
	if currentIndex < -1 {
		currentIndex = -1
	}
	h.groups = groups
	h.current = currentIndex
	h.revision++
	h.liveGroup = false
	h.liveStroke = false
}
