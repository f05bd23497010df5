// Package app provides application lifecycle management, shared state, and
// events.
package app

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"sync"

	"inkmark/internal/engine"
	"inkmark/internal/project"
	"inkmark/internal/ruler"
	"inkmark/internal/stroke"
)

// State holds the application state: the open document, the compositor,
// the stroke history, the ruler, and the active tool configuration.
type State struct {
	mu sync.RWMutex

	// Document
	DocumentPath string
	ImagePath    string
	Modified     bool

	Engine  *engine.Engine
	History *stroke.History
	Ruler   *ruler.Ruler

	// Active tool and per-tool settings. Each tool remembers its own
	// size, opacity, and blend mode.
	ActiveTool  stroke.Tool
	ToolConfigs map[stroke.Tool]stroke.ToolConfig
	Color       color.RGBA

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventDocumentSaved
	EventImageLoaded
	EventStrokesChanged
	EventToolChanged
	EventRulerChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with default tool settings.
func NewState() *State {
	return &State{
		Engine:     engine.New(),
		History:    stroke.NewHistory(),
		Ruler:      ruler.New(),
		ActiveTool: stroke.ToolPen,
		ToolConfigs: map[stroke.Tool]stroke.ToolConfig{
			stroke.ToolPen: {
				Size:    4,
				Opacity: 100,
				Blend:   stroke.BlendNormal,
			},
			stroke.ToolHighlighter: {
				Size:    24,
				Opacity: 45,
				Blend:   stroke.BlendMultiply,
			},
			stroke.ToolArea: {
				Size:         0,
				Opacity:      35,
				Blend:        stroke.BlendNormal,
				BorderRadius: 6,
				Border:       true,
				BorderWidth:  2,
			},
			stroke.ToolEraser: {
				Size:   20,
				Eraser: stroke.EraseFullStroke,
			},
		},
		Color:     color.RGBA{R: 230, G: 57, B: 70, A: 255},
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the document as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.Modified != modified
	s.Modified = modified
	s.mu.Unlock()
	if changed {
		s.Emit(EventModified, modified)
	}
}

// SetActiveTool switches the active tool.
func (s *State) SetActiveTool(tool stroke.Tool) {
	s.mu.Lock()
	s.ActiveTool = tool
	s.mu.Unlock()
	s.Emit(EventToolChanged, tool)
}

// ActiveConfig returns the configuration of the active tool.
func (s *State) ActiveConfig() stroke.ToolConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ToolConfigs[s.ActiveTool]
}

// UpdateActiveConfig replaces the active tool's configuration.
func (s *State) UpdateActiveConfig(cfg stroke.ToolConfig) {
	s.mu.Lock()
	s.ToolConfigs[s.ActiveTool] = cfg
	s.mu.Unlock()
	s.Emit(EventToolChanged, s.ActiveTool)
}

// LoadImage loads an image as a new annotation canvas, discarding any
// existing stroke history.
func (s *State) LoadImage(path string) error {
	if err := s.Engine.LoadImage(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ImagePath = path
	s.DocumentPath = ""
	s.Modified = false
	s.History = stroke.NewHistory()
	s.mu.Unlock()

	s.Engine.Replay(s.History.Snapshot())
	s.Emit(EventImageLoaded, path)
	s.Emit(EventStrokesChanged, nil)
	return nil
}

// LoadDocument opens an .inkmark document, loading its image and restoring
// its full history and ruler placement.
func (s *State) LoadDocument(path string) error {
	doc, err := project.Load(path)
	if err != nil {
		return err
	}

	imagePath := doc.GetImagePath(path)
	if imagePath == "" {
		return fmt.Errorf("document %s has no image", path)
	}
	if err := s.Engine.LoadImage(imagePath); err != nil {
		return err
	}

	s.mu.Lock()
	s.DocumentPath = path
	s.ImagePath = imagePath
	s.Modified = false
	s.History = stroke.NewHistory()
	s.History.Restore(doc.Groups, doc.HistoryIndex)
	s.Ruler.X = doc.Ruler.X
	s.Ruler.Y = doc.Ruler.Y
	s.Ruler.Angle = doc.Ruler.Angle
	s.Ruler.Visible = doc.Ruler.Visible
	s.mu.Unlock()

	s.Engine.Replay(s.History.Snapshot())
	s.Emit(EventDocumentLoaded, path)
	s.Emit(EventStrokesChanged, nil)
	s.Emit(EventRulerChanged, nil)
	return nil
}

// SaveDocument writes the current document to path.
func (s *State) SaveDocument(path string) error {
	s.mu.RLock()
	imagePath := s.ImagePath
	s.mu.RUnlock()

	if imagePath == "" {
		return fmt.Errorf("no image loaded")
	}

	snap := s.History.Snapshot()
	doc := project.New(documentName(path))
	doc.Groups = snap.Groups
	doc.HistoryIndex = snap.CurrentIndex
	doc.Ruler = project.RulerPose{
		X:       s.Ruler.X,
		Y:       s.Ruler.Y,
		Angle:   s.Ruler.Angle,
		Visible: s.Ruler.Visible,
	}
	doc.SetImage(path, imagePath)

	if err := doc.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.DocumentPath = path
	s.mu.Unlock()
	s.SetModified(false)
	s.Emit(EventDocumentSaved, path)
	return nil
}

// documentName derives a display name from a document path.
func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
