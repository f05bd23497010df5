// Package project provides annotation document handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"inkmark/internal/stroke"
)

// Extension is the document file extension.
const Extension = ".inkmark"

// currentVersion is bumped whenever the document format changes.
const currentVersion = 1

// File represents an annotation document (.inkmark). The full stroke
// history is persisted, not just the visible strokes, so undo and redo
// survive a save/load round trip.
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Image path (relative to the document file when possible)
	ImagePath string `json:"image,omitempty"`

	Groups       []stroke.Group `json:"groups"`
	HistoryIndex int            `json:"history_index"`

	Ruler RulerPose `json:"ruler"`
}

// RulerPose is the persisted ruler placement, in screen coordinates.
type RulerPose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Angle   float64 `json:"angle"`
	Visible bool    `json:"visible"`
}

// New creates an empty document.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:      currentVersion,
		Name:         name,
		Created:      now,
		Modified:     now,
		HistoryIndex: -1,
	}
}

// Load loads a document from an .inkmark file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc File
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Version > currentVersion {
		return nil, fmt.Errorf("document version %d is newer than supported version %d", doc.Version, currentVersion)
	}
	if doc.HistoryIndex >= len(doc.Groups) {
		doc.HistoryIndex = len(doc.Groups) - 1
	}
	return &doc, nil
}

// Save saves the document to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage sets the image path, stored relative to the document when both
// live on the same tree.
func (p *File) SetImage(documentPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(documentPath), imagePath)
	if err != nil {
		p.ImagePath = imagePath
	} else {
		p.ImagePath = rel
	}
	p.Modified = time.Now()
}

// GetImagePath returns the absolute path to the annotated image.
func (p *File) GetImagePath(documentPath string) string {
	if p.ImagePath == "" {
		return ""
	}
	if filepath.IsAbs(p.ImagePath) {
		return p.ImagePath
	}
	return filepath.Join(filepath.Dir(documentPath), p.ImagePath)
}
