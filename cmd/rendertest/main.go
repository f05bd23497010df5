// rendertest is a headless exercise of the annotation pipeline: it loads
// an image (or builds a plain canvas), replays a scripted set of strokes
// through the history and engine, and writes the flattened result to a
// PNG. Useful for eyeballing brush output without launching the UI.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"

	"inkmark/internal/app"
	"inkmark/internal/engine"
	"inkmark/internal/export"
	"inkmark/internal/stroke"
	"inkmark/pkg/colorutil"
	"inkmark/pkg/geometry"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	imagePath := flag.String("image", "", "base image to annotate (blank canvas when empty)")
	outPath := flag.String("out", "rendertest.png", "output PNG path")
	width := flag.Int("w", 800, "blank canvas width")
	height := flag.Int("h", 600, "blank canvas height")
	flag.Parse()

	eng := engine.New()
	if *imagePath != "" {
		if err := eng.LoadImage(*imagePath); err != nil {
			log.Fatalf("load image: %v", err)
		}
	} else {
		eng.SetImage(blankCanvas(*width, *height))
	}

	hist := stroke.NewHistory()
	state := app.NewState()
	size := eng.Size()
	w := float64(size.X)
	h := float64(size.Y)

	// Pen zigzag across the upper third.
	drawGroup(hist, eng, stroke.ToolPen, state.ToolConfigs[stroke.ToolPen], colorutil.Red,
		zigzag(w*0.1, h*0.15, w*0.8, h*0.1, 6))

	// Highlighter bar through the middle.
	drawGroup(hist, eng, stroke.ToolHighlighter, state.ToolConfigs[stroke.ToolHighlighter], colorutil.Yellow,
		[]geometry.Point2D{{X: w * 0.1, Y: h * 0.5}, {X: w * 0.9, Y: h * 0.5}})

	// Area mark with rounded corners and border in the lower third.
	drawGroup(hist, eng, stroke.ToolArea, state.ToolConfigs[stroke.ToolArea], colorutil.Blue,
		[]geometry.Point2D{{X: w * 0.2, Y: h * 0.65}, {X: w * 0.6, Y: h * 0.85}})

	// Erase the middle of the zigzag, then undo the erase so both code
	// paths run.
	eraserCfg := state.ToolConfigs[stroke.ToolEraser]
	drawGroup(hist, eng, stroke.ToolEraser, eraserCfg, colorutil.Black,
		[]geometry.Point2D{{X: w * 0.5, Y: h * 0.12}})
	hist.Undo()
	eng.Replay(hist.Snapshot())

	log.Printf("visible strokes: %d", eng.VisibleStrokeCount())
	if err := export.PNG(*outPath, eng.FreshCombinedCanvas()); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("wrote %s", *outPath)
}

func drawGroup(hist *stroke.History, eng *engine.Engine, tool stroke.Tool, cfg stroke.ToolConfig, col color.RGBA, points []geometry.Point2D) {
	hist.StartGroup()
	hist.StartStroke(tool, cfg, col, points[0])
	for _, p := range points[1:] {
		hist.AddPoint(p)
	}
	hist.EndStroke()
	hist.EndGroup()
	eng.Replay(hist.Snapshot())
}

func zigzag(x, y, width, amplitude float64, segments int) []geometry.Point2D {
	pts := make([]geometry.Point2D, 0, segments+1)
	for i := 0; i <= segments; i++ {
		py := y
		if i%2 == 1 {
			py += amplitude
		}
		pts = append(pts, geometry.Point2D{X: x + width*float64(i)/float64(segments), Y: py})
	}
	return pts
}

func blankCanvas(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 245
		img.Pix[i+1] = 245
		img.Pix[i+2] = 240
		img.Pix[i+3] = 255
	}
	return img
}
