package project

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"inkmark/internal/stroke"
	"inkmark/pkg/geometry"
)

func sampleGroups() []stroke.Group {
	return []stroke.Group{
		{
			ID: "g1",
			Strokes: []stroke.Stroke{{
				ID:     "s1",
				Tool:   stroke.ToolPen,
				Color:  color.RGBA{R: 255, A: 255},
				Config: stroke.ToolConfig{Size: 4, Opacity: 100, Blend: stroke.BlendNormal},
				Points: []geometry.Point2D{{X: 1, Y: 2}, {X: 3, Y: 4}},
			}},
		},
		{
			ID: "g2",
			Strokes: []stroke.Stroke{{
				ID:     "s2",
				Tool:   stroke.ToolEraser,
				Config: stroke.ToolConfig{Size: 20, Eraser: stroke.EraseFullStroke},
				Points: []geometry.Point2D{{X: 2, Y: 3}},
			}},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "board.inkmark")
	imgPath := filepath.Join(dir, "scans", "board.png")

	doc := New("board")
	doc.Groups = sampleGroups()
	doc.HistoryIndex = 0
	doc.Ruler = RulerPose{X: 120, Y: 240, Angle: 30, Visible: true}
	doc.SetImage(docPath, imgPath)

	if err := doc.Save(docPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(docPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Name != "board" || loaded.HistoryIndex != 0 {
		t.Errorf("loaded = name %q index %d", loaded.Name, loaded.HistoryIndex)
	}
	if len(loaded.Groups) != 2 {
		t.Fatalf("groups = %d", len(loaded.Groups))
	}
	s := loaded.Groups[0].Strokes[0]
	if s.Tool != stroke.ToolPen || s.Color.R != 255 || len(s.Points) != 2 {
		t.Errorf("stroke round trip: %+v", s)
	}
	if loaded.Groups[1].Strokes[0].Config.Eraser != stroke.EraseFullStroke {
		t.Error("eraser mode lost in round trip")
	}
	if loaded.Ruler != (RulerPose{X: 120, Y: 240, Angle: 30, Visible: true}) {
		t.Errorf("ruler pose = %+v", loaded.Ruler)
	}

	// Image path stored relative, resolved back to absolute.
	if filepath.IsAbs(loaded.ImagePath) {
		t.Errorf("stored image path should be relative, got %q", loaded.ImagePath)
	}
	if got := loaded.GetImagePath(docPath); got != imgPath {
		t.Errorf("GetImagePath = %q, want %q", got, imgPath)
	}
}

func TestLoadClampsHistoryIndex(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "x.inkmark")

	doc := New("x")
	doc.Groups = sampleGroups()
	doc.HistoryIndex = 99
	if err := doc.Save(docPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(docPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.HistoryIndex != 1 {
		t.Errorf("HistoryIndex = %d, want clamped to 1", loaded.HistoryIndex)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "future.inkmark")
	if err := os.WriteFile(docPath, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(docPath); err == nil {
		t.Error("Load of newer version succeeded")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.inkmark")); err == nil {
		t.Error("Load of missing file succeeded")
	}

	badPath := filepath.Join(t.TempDir(), "bad.inkmark")
	if err := os.WriteFile(badPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(badPath); err == nil {
		t.Error("Load of malformed file succeeded")
	}
}
