// InkMark is a desktop image-annotation tool: load an image, mark it up
// with pen, highlighter, and area tools along an on-screen ruler, and
// export the result.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"inkmark/internal/app"
	"inkmark/internal/imageio"
	"inkmark/internal/project"
	"inkmark/internal/version"
	"inkmark/ui/mainwindow"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	showVersion := flag.Bool("version", false, "print version and exit")
	devReload := flag.Bool("dev", false, "watch the binary and offer restart after rebuilds")
	flag.Parse()

	if *showVersion {
		fmt.Printf("inkmark %s built %s\n", version.String(), version.BuildTime)
		return
	}

	fyneApp := fyneapp.NewWithID("io.inkmark.app")
	state := app.NewState()
	win := mainwindow.New(fyneApp, state)

	// A file argument may be an image or a saved document.
	if path := flag.Arg(0); path != "" {
		var err error
		switch {
		case filepath.Ext(path) == project.Extension:
			err = state.LoadDocument(path)
		case imageio.IsSupportedFormat(path):
			err = state.LoadImage(path)
		default:
			err = fmt.Errorf("unsupported file type: %s", path)
		}
		if err != nil {
			log.Printf("open %s: %v", path, err)
			os.Exit(1)
		}
	}

	if *devReload {
		if hr := app.NewHotReloader(2 * time.Second); hr != nil {
			hr.OnNewBinary(func() {
				dialog.ShowConfirm("New build", "A newer binary was built. Restart?",
					func(ok bool) {
						if !ok {
							hr.ResetBaseline()
							hr.Start()
							return
						}
						if err := hr.Restart(); err != nil {
							log.Printf("restart failed: %v", err)
						}
					}, win.Window)
			})
			hr.Start()
			defer hr.Stop()
		}
	}

	win.ShowAndRun()
}
