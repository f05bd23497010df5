package app

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"inkmark/internal/stroke"
	"inkmark/pkg/geometry"
)

func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scan.png")
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 230
		img.Pix[i+1] = 230
		img.Pix[i+2] = 230
		img.Pix[i+3] = 255
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func drawTestGroup(s *State, pts ...geometry.Point2D) {
	s.History.StartGroup()
	s.History.StartStroke(s.ActiveTool, s.ActiveConfig(), s.Color, pts[0])
	for _, p := range pts[1:] {
		s.History.AddPoint(p)
	}
	s.History.EndStroke()
	s.History.EndGroup()
	s.Engine.Replay(s.History.Snapshot())
}

func TestDefaultToolConfigs(t *testing.T) {
	s := NewState()
	if s.ActiveTool != stroke.ToolPen {
		t.Errorf("default tool = %q", s.ActiveTool)
	}
	if cfg := s.ToolConfigs[stroke.ToolHighlighter]; cfg.Blend != stroke.BlendMultiply {
		t.Errorf("highlighter blend = %q, want multiply", cfg.Blend)
	}
	if cfg := s.ToolConfigs[stroke.ToolEraser]; cfg.Eraser != stroke.EraseFullStroke {
		t.Errorf("eraser mode = %q", cfg.Eraser)
	}
}

func TestSetActiveToolKeepsPerToolConfig(t *testing.T) {
	s := NewState()

	cfg := s.ActiveConfig()
	cfg.Size = 12
	s.UpdateActiveConfig(cfg)

	// Highlighter keeps its own default; it must not inherit the pen's size.
	s.SetActiveTool(stroke.ToolHighlighter)
	if s.ActiveConfig().Size != 24 {
		t.Errorf("highlighter size = %v, want its own default 24", s.ActiveConfig().Size)
	}

	s.SetActiveTool(stroke.ToolPen)
	if s.ActiveConfig().Size != 12 {
		t.Errorf("pen size = %v, want remembered 12", s.ActiveConfig().Size)
	}
}

func TestEvents(t *testing.T) {
	s := NewState()

	var toolEvents int
	s.On(EventToolChanged, func(interface{}) { toolEvents++ })
	s.SetActiveTool(stroke.ToolArea)
	if toolEvents == 0 {
		t.Error("EventToolChanged not emitted")
	}

	var modified []bool
	s.On(EventModified, func(data interface{}) {
		if m, ok := data.(bool); ok {
			modified = append(modified, m)
		}
	})
	s.SetModified(true)
	s.SetModified(true) // unchanged, no event
	s.SetModified(false)
	if len(modified) != 2 || modified[0] != true || modified[1] != false {
		t.Errorf("modified events = %v", modified)
	}
}

func TestLoadImageResetsHistory(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeTestPNG(t, dir)

	s := NewState()
	if err := s.LoadImage(imgPath); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	drawTestGroup(s, geometry.Point2D{X: 5, Y: 5}, geometry.Point2D{X: 50, Y: 5})
	if s.Engine.VisibleStrokeCount() != 1 {
		t.Fatalf("VisibleStrokeCount = %d", s.Engine.VisibleStrokeCount())
	}

	if err := s.LoadImage(imgPath); err != nil {
		t.Fatalf("second LoadImage: %v", err)
	}
	if s.History.Len() != 0 || s.Engine.VisibleStrokeCount() != 0 {
		t.Error("LoadImage did not reset history and strokes")
	}
}

func TestDocumentSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeTestPNG(t, dir)
	docPath := filepath.Join(dir, "work.inkmark")

	s := NewState()
	if err := s.LoadImage(imgPath); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	s.Color = color.RGBA{R: 10, G: 200, B: 50, A: 255}
	drawTestGroup(s, geometry.Point2D{X: 5, Y: 5}, geometry.Point2D{X: 50, Y: 5})
	drawTestGroup(s, geometry.Point2D{X: 5, Y: 20}, geometry.Point2D{X: 50, Y: 20})
	s.History.Undo()
	s.Engine.Replay(s.History.Snapshot())
	s.Ruler.ShowAt(111, 222)
	s.Ruler.SetAngle(45)

	if err := s.SaveDocument(docPath); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	if s.Modified {
		t.Error("state still modified after save")
	}

	loaded := NewState()
	if err := loaded.LoadDocument(docPath); err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	// Full history survives, including the undone redo tail.
	if loaded.History.Len() != 2 || loaded.History.CurrentIndex() != 0 {
		t.Errorf("history = len %d index %d, want 2/0",
			loaded.History.Len(), loaded.History.CurrentIndex())
	}
	if !loaded.History.CanRedo() {
		t.Error("redo lost in round trip")
	}
	if loaded.Engine.VisibleStrokeCount() != 1 {
		t.Errorf("VisibleStrokeCount = %d", loaded.Engine.VisibleStrokeCount())
	}
	if loaded.Ruler.X != 111 || loaded.Ruler.Y != 222 || loaded.Ruler.Angle != 45 || !loaded.Ruler.Visible {
		t.Errorf("ruler pose = %+v", loaded.Ruler)
	}
	if loaded.ImagePath != imgPath {
		t.Errorf("image path = %q, want %q", loaded.ImagePath, imgPath)
	}
}
