// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/color"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"inkmark/internal/app"
	"inkmark/internal/export"
	"inkmark/internal/imageio"
	"inkmark/internal/project"
	"inkmark/internal/stroke"
	"inkmark/internal/version"
	"inkmark/internal/view"
	"inkmark/pkg/colorutil"
	"inkmark/ui/canvas"
)

const prefKeyLastDir = "lastDirectory"

const appTitle = "InkMark"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	canvas    *canvas.Canvas
	statusBar *widget.Label

	toolButtons map[stroke.Tool]*widget.Button
	panButton   *widget.Button
	sizeSlider  *widget.Slider
	undoButton  *widget.Button
	redoButton  *widget.Button
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.Resize(fyne.NewSize(1200, 800))

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.state)
	mw.statusBar = widget.NewLabel("Open an image to start annotating")

	mw.canvas.OnViewChange(func(v view.State) {
		mw.updateStatus(fmt.Sprintf("Zoom %.0f%%", v.Zoom*100))
	})

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		nil,
		nil,
		mw.canvas,
	)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with tool, color, size, history,
// ruler, and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.toolButtons = make(map[stroke.Tool]*widget.Button)
	for _, t := range []struct {
		tool  stroke.Tool
		label string
	}{
		{stroke.ToolPen, "Pen"},
		{stroke.ToolHighlighter, "Highlight"},
		{stroke.ToolArea, "Area"},
		{stroke.ToolEraser, "Eraser"},
	} {
		tool := t.tool
		mw.toolButtons[tool] = widget.NewButton(t.label, func() {
			mw.canvas.SetPanMode(false)
			mw.state.SetActiveTool(tool)
		})
	}
	mw.panButton = widget.NewButton("Pan", func() {
		mw.canvas.SetPanMode(true)
		mw.refreshToolButtons()
	})

	mw.sizeSlider = widget.NewSlider(1, 64)
	mw.sizeSlider.Value = mw.state.ActiveConfig().Size
	mw.sizeSlider.OnChanged = func(v float64) {
		cfg := mw.state.ActiveConfig()
		cfg.Size = v
		mw.state.UpdateActiveConfig(cfg)
	}

	mw.undoButton = widget.NewButton("Undo", mw.onUndo)
	mw.redoButton = widget.NewButton("Redo", mw.onRedo)

	rulerBtn := widget.NewButton("Ruler", mw.onToggleRuler)
	rotateBtn := widget.NewButton("Rotate 15", func() { mw.onRotateRuler(15) })

	zoomOutBtn := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.canvas.ZoomIn)
	fitBtn := widget.NewButton("Fit", mw.canvas.FitToWindow)
	actualBtn := widget.NewButton("1:1", mw.canvas.ResetView)

	bar := container.NewHBox(
		mw.toolButtons[stroke.ToolPen],
		mw.toolButtons[stroke.ToolHighlighter],
		mw.toolButtons[stroke.ToolArea],
		mw.toolButtons[stroke.ToolEraser],
		mw.panButton,
		widget.NewSeparator(),
		mw.createPalette(),
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		mw.sizeSlider,
		widget.NewSeparator(),
		mw.undoButton,
		mw.redoButton,
		widget.NewSeparator(),
		rulerBtn,
		rotateBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)
	mw.refreshToolButtons()
	mw.refreshHistoryButtons()
	return bar
}

// createPalette creates the preset color buttons.
func (mw *MainWindow) createPalette() fyne.CanvasObject {
	presets := []struct {
		name string
		col  color.RGBA
	}{
		{"Red", colorutil.Red},
		{"Blue", colorutil.Blue},
		{"Green", colorutil.Green},
		{"Yellow", colorutil.Yellow},
		{"Orange", colorutil.Orange},
		{"Black", colorutil.Black},
	}
	items := make([]fyne.CanvasObject, 0, len(presets))
	for _, p := range presets {
		col := p.col
		items = append(items, widget.NewButton(p.name, func() {
			mw.state.Color = col
			mw.updateStatus("Color: " + colorutil.Hex(col))
		}))
	}
	return container.NewHBox(items...)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Open Document...", mw.onOpenDocument),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Document", mw.onSaveDocument),
		fyne.NewMenuItem("Save Document As...", mw.onSaveDocumentAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItem("Export PDF...", mw.onExportPDF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
		fyne.NewMenuItem("Actual Size", mw.canvas.ResetView),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Ruler", mw.onToggleRuler),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
			mw.updateStatus("Image loaded: " + path)
		}
		mw.refreshHistoryButtons()
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventDocumentLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
			mw.updateStatus("Document loaded: " + path)
		}
		mw.refreshHistoryButtons()
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventStrokesChanged, func(interface{}) {
		mw.refreshHistoryButtons()
	})

	mw.state.On(app.EventToolChanged, func(interface{}) {
		mw.refreshToolButtons()
		mw.sizeSlider.Value = mw.state.ActiveConfig().Size
		mw.sizeSlider.Refresh()
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventRulerChanged, func(interface{}) {
		mw.canvas.Refresh()
	})
}

func (mw *MainWindow) refreshToolButtons() {
	for tool, btn := range mw.toolButtons {
		if !mw.canvas.PanMode() && tool == mw.state.ActiveTool {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
	if mw.panButton != nil {
		if mw.canvas.PanMode() {
			mw.panButton.Importance = widget.HighImportance
		} else {
			mw.panButton.Importance = widget.MediumImportance
		}
		mw.panButton.Refresh()
	}
}

func (mw *MainWindow) refreshHistoryButtons() {
	if mw.state.History.CanUndo() {
		mw.undoButton.Enable()
	} else {
		mw.undoButton.Disable()
	}
	if mw.state.History.CanRedo() {
		mw.redoButton.Enable()
	} else {
		mw.redoButton.Disable()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imageio.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenDocument() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{project.Extension}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveDocument() {
	if mw.state.DocumentPath == "" {
		mw.onSaveDocumentAs()
		return
	}
	if err := mw.state.SaveDocument(mw.state.DocumentPath); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Saved " + mw.state.DocumentPath)
}

func (mw *MainWindow) onSaveDocumentAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += project.Extension
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.SetTitle(appTitle + " - " + filepath.Base(path))
		mw.updateStatus("Saved " + path)
	}, mw.Window)
	fd.SetFileName("untitled" + project.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	mw.exportFlattened(".png", func(path string) error {
		return export.PNG(path, mw.state.Engine.FreshCombinedCanvas())
	})
}

func (mw *MainWindow) onExportPDF() {
	mw.exportFlattened(".pdf", func(path string) error {
		return export.PDF(path, mw.state.Engine.FreshCombinedCanvas())
	})
}

func (mw *MainWindow) exportFlattened(ext string, write func(path string) error) {
	if !mw.state.Engine.HasImage() {
		dialog.ShowInformation("Export", "Nothing to export yet", mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += ext
		}
		mw.saveLastDir(path)
		if err := write(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + path)
	}, mw.Window)
	fd.SetFileName("annotated" + ext)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	mw.state.History.Undo()
	mw.state.Engine.Replay(mw.state.History.Snapshot())
	mw.state.SetModified(true)
	mw.refreshHistoryButtons()
	mw.canvas.Refresh()
}

func (mw *MainWindow) onRedo() {
	mw.state.History.Redo()
	mw.state.Engine.Replay(mw.state.History.Snapshot())
	mw.state.SetModified(true)
	mw.refreshHistoryButtons()
	mw.canvas.Refresh()
}

func (mw *MainWindow) onToggleRuler() {
	if mw.state.Ruler.Visible {
		mw.state.Ruler.Hide()
	} else {
		size := mw.canvas.Size()
		mw.state.Ruler.ShowAt(float64(size.Width)/2, float64(size.Height)/2)
	}
	mw.state.Emit(app.EventRulerChanged, nil)
}

func (mw *MainWindow) onRotateRuler(delta float64) {
	if !mw.state.Ruler.Visible {
		return
	}
	mw.state.Ruler.Rotate(delta)
	mw.state.Emit(app.EventRulerChanged, nil)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("%s %s\nImage annotation with layered ink", appTitle, version.String()),
		mw.Window)
}
